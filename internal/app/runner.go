package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"parcelbee/internal/jobs"
	"parcelbee/internal/logx"
	"parcelbee/internal/transport/kafka"
)

// Runner runs the HTTP API
type Runner struct {
	runFn func(*dig.Container) error
}

// NewRunner returns a new Runner
func NewRunner() *Runner {
	return &Runner{runFn: run}
}

// MustRun starts the HTTP server using the provided DI container and blocks until shutdown
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}
	logger := logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })

	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("startup aborted: startup timeout exceeded")
	default:
		logger.Error("run error", logx.Err(err))
		panic(err)
	}
}

type runIn struct {
	dig.In
	Ctx      context.Context
	Server   *http.Server
	Pool     *pgxpool.Pool
	Logger   logx.Logger
	Stats    *jobs.StatsJob  `optional:"true"`
	Producer *kafka.Producer `optional:"true"`
}

func run(container *dig.Container) error {
	return container.Invoke(func(in runIn) error {
		if in.Stats != nil {
			if err := in.Stats.Start(in.Ctx); err != nil {
				return err
			}
		}
		serveErr := waitForShutdown(in.Ctx, startServer(in.Server, in.Logger), in.Logger)
		gracefulShutdown(in.Server, in.Logger, 15*time.Second)
		if in.Stats != nil {
			in.Stats.Stop()
		}
		closeResources(in.Pool, in.Producer, in.Server, in.Logger)
		if serveErr != nil {
			return serveErr
		}
		return in.Ctx.Err()
	})
}

// startServer serves in the background. The returned channel yields the error that stopped the listener.
func startServer(server *http.Server, logger logx.Logger) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("parcelbee listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen: %w", err)
		}
		close(errCh)
	}()
	return errCh
}

func waitForShutdown(ctx context.Context, serveErr <-chan error, logger logx.Logger) error {
	select {
	case <-ctx.Done():
		logger.Info("shutting down parcelbee...")
		return nil
	case err, ok := <-serveErr:
		if !ok {
			return nil
		}
		logger.Error("listen error", logx.Err(err))
		return err
	}
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("graceful shutdown error", logx.Err(err))
	}
}

func closeResources(pool *pgxpool.Pool, producer *kafka.Producer, server *http.Server, logger logx.Logger) {
	if err := server.Close(); err != nil {
		logger.Warn("server close error", logx.Err(err))
	}
	if err := producer.Close(); err != nil {
		logger.Warn("kafka producer close error", logx.Err(err))
	}
	if pool != nil {
		pool.Close()
	}
	_ = logger.Sync()
}
