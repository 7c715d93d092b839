// Package jobs holds scheduled background work of the API process.
package jobs

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"parcelbee/internal/logx"
)

// GaugeExporter writes the current delivery counts into a gauge.
type GaugeExporter interface {
	ExportDeliveryGauge(ctx context.Context, g *prometheus.GaugeVec) error
}

// StatsJob periodically refreshes the parcelbee_deliveries gauge.
type StatsJob struct {
	cron     *cron.Cron
	schedule string
	exporter GaugeExporter
	gauge    *prometheus.GaugeVec
	logger   logx.Logger

	mu      sync.Mutex
	ctx     context.Context
	started bool
}

// NewStatsJob creates a job that runs on schedule, a cron expression or descriptor such as "@every 30s".
func NewStatsJob(schedule string, exporter GaugeExporter, gauge *prometheus.GaugeVec, logger logx.Logger) *StatsJob {
	if logger == nil {
		logger = logx.Nop()
	}
	return &StatsJob{
		cron:     cron.New(),
		schedule: schedule,
		exporter: exporter,
		gauge:    gauge,
		logger:   logger.With(logx.String("job", "delivery_stats")),
		ctx:      context.Background(),
	}
}

// Start refreshes the gauge once and schedules further refreshes. ctx bounds every run.
func (j *StatsJob) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.started {
		return nil
	}
	j.ctx = ctx

	if _, err := j.cron.AddFunc(j.schedule, j.Refresh); err != nil {
		return fmt.Errorf("schedule %q: %w", j.schedule, err)
	}
	j.Refresh()
	j.cron.Start()
	j.started = true

	j.logger.Info("stats job started", logx.String("schedule", j.schedule))
	return nil
}

// Stop halts the scheduler and waits for a running refresh to finish.
func (j *StatsJob) Stop() {
	j.mu.Lock()
	started := j.started
	j.started = false
	j.mu.Unlock()
	if !started {
		return
	}
	<-j.cron.Stop().Done()
	j.logger.Info("stats job stopped")
}

// Refresh runs one export. Failures are logged and retried on the next tick.
func (j *StatsJob) Refresh() {
	ctx := j.ctx
	if ctx.Err() != nil {
		return
	}
	if err := j.exporter.ExportDeliveryGauge(ctx, j.gauge); err != nil {
		j.logger.Warn("stats refresh failed", logx.Err(err))
		return
	}
	j.logger.Debug("stats refreshed")
}
