// Command migrate applies, rolls back or reports the embedded schema migrations.
//
//	migrate [--dsn URL] [--timeout 1m] up|down|status
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"parcelbee/internal/config"
	"parcelbee/internal/logx"
	"parcelbee/internal/repository"
)

func main() {
	fs := pflag.NewFlagSet("migrate", pflag.ExitOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	dsn := fs.String("dsn", "", "database URL; defaults to DATABASE_URL or the POSTGRES_* variables")
	timeout := fs.Duration("timeout", time.Minute, "overall deadline")
	_ = fs.Parse(os.Args[1:])

	command := "up"
	if fs.NArg() > 0 {
		command = fs.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}
	logger := logx.NewJSON(os.Stdout, cfg.LogLevel).With(logx.String("command", command))
	if *dsn == "" {
		*dsn = cfg.DB.DSN()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if err := migrate(ctx, command, *dsn); err != nil {
		logger.Error("migration failed", logx.Err(err))
		cancel()
		os.Exit(1)
	}
	logger.Info("migration finished")
}

func migrate(ctx context.Context, command, dsn string) error {
	switch command {
	case "up":
		return repository.Migrate(ctx, dsn)
	case "down":
		return repository.MigrateDown(ctx, dsn)
	case "status":
		return repository.MigrationStatus(ctx, dsn)
	default:
		return fmt.Errorf("unknown command %q: want up, down or status", command)
	}
}
