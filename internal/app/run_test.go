package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"parcelbee/internal/jobs"
	"parcelbee/internal/logx"
	"parcelbee/internal/metrics"
	testlog "parcelbee/internal/testutil"
	"parcelbee/internal/transport/kafka"
)

type countingExporter struct {
	mu    sync.Mutex
	calls int
}

func (e *countingExporter) ExportDeliveryGauge(context.Context, *prometheus.GaugeVec) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	return nil
}

func (e *countingExporter) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func newLoggerContainer(t *testing.T, logger logx.Logger) *dig.Container {
	t.Helper()
	container := dig.New()
	require.NoError(t, container.Provide(func() logx.Logger { return logger }))
	return container
}

func TestGracefulShutdown_DoesNotPanic(t *testing.T) {
	t.Parallel()

	srv := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NewServeMux(),
	}

	require.NotPanics(t, func() {
		gracefulShutdown(srv, logx.Nop(), 100*time.Millisecond)
	})
}

func TestRunner_MustRun_ShutdownRequested(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	r := &Runner{runFn: func(*dig.Container) error { return context.Canceled }}

	r.MustRun(newLoggerContainer(t, rec.Logger()))
	_, ok := rec.Find("info", "shutdown requested, exiting")
	require.True(t, ok)
}

func TestRunner_MustRun_StartupTimeout(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	r := &Runner{runFn: func(*dig.Container) error { return context.DeadlineExceeded }}

	r.MustRun(newLoggerContainer(t, rec.Logger()))
	_, ok := rec.Find("warn", "startup aborted: startup timeout exceeded")
	require.True(t, ok)
}

func TestRunner_MustRun_PanicsOnOtherError(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	r := &Runner{runFn: func(*dig.Container) error { return errors.New("boom") }}

	require.Panics(t, func() { r.MustRun(newLoggerContainer(t, rec.Logger())) })
	_, ok := rec.Find("error", "run error")
	require.True(t, ok)
}

func TestNewRunner_DefaultFields(t *testing.T) {
	t.Parallel()

	r := NewRunner()
	require.NotNil(t, r)

	require.NotNil(t, r.runFn)
	require.Equal(t, fmt.Sprintf("%p", run), fmt.Sprintf("%p", r.runFn))
}

func provideRunDeps(t *testing.T, ctx context.Context, addr string, exporter jobs.GaugeExporter) *dig.Container {
	t.Helper()

	container := dig.New()
	require.NoError(t, container.Provide(func() context.Context { return ctx }))
	require.NoError(t, container.Provide(logx.Nop))
	require.NoError(t, container.Provide(func() *pgxpool.Pool { return nil }))
	require.NoError(t, container.Provide(func() *kafka.Producer { return nil }))
	require.NoError(t, container.Provide(func() *http.Server {
		return &http.Server{Addr: addr, Handler: http.NewServeMux()}
	}))
	require.NoError(t, container.Provide(func() *jobs.StatsJob {
		return jobs.NewStatsJob("@every 1h", exporter, metrics.NewDeliveriesGauge(), nil)
	}))
	return container
}

func TestRun_ServesUntilContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	exporter := &countingExporter{}
	container := provideRunDeps(t, ctx, "127.0.0.1:0", exporter)

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := run(container)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, exporter.Calls(), "stats job refreshes once on start")
}

func TestRun_ListenErrorStopsRun(t *testing.T) {
	t.Parallel()

	container := provideRunDeps(t, context.Background(), "127.0.0.1:-1", &countingExporter{})

	done := make(chan error, 1)
	go func() { done <- run(container) }()

	select {
	case err := <-done:
		require.Error(t, err)
		require.Contains(t, err.Error(), "listen")
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after a listen failure")
	}
}
