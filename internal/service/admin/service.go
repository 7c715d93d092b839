package admin

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"parcelbee/internal/domain"
	"parcelbee/internal/logx"
)

// Service builds the admin dashboard figures.
type Service struct {
	users      UserStats
	deliveries DeliveryStats
	timeout    time.Duration
	logger     logx.Logger
}

// NewService creates a new admin service.
func NewService(users UserStats, deliveries DeliveryStats, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{users: users, deliveries: deliveries, timeout: timeout, logger: logger}
}

// Overview returns user and delivery counts.
func (s *Service) Overview(ctx context.Context) (domain.Overview, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	u, err := s.users.Stats(ctx)
	if err != nil {
		return domain.Overview{}, err
	}
	d, err := s.deliveries.Stats(ctx)
	if err != nil {
		return domain.Overview{}, err
	}
	return domain.Overview{Users: u, Deliveries: d}, nil
}

// ExportDeliveryGauge sets g{status} to the current count of every status.
func (s *Service) ExportDeliveryGauge(ctx context.Context, g *prometheus.GaugeVec) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	d, err := s.deliveries.Stats(ctx)
	if err != nil {
		s.logger.Warn("delivery gauge refresh failed", logx.Err(err))
		return err
	}
	for _, st := range domain.AllStatuses {
		g.WithLabelValues(string(st)).Set(float64(d.Count(st)))
	}
	s.logger.Debug("delivery gauge refreshed", logx.Int64("total", d.Total))
	return nil
}
