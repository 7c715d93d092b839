package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"parcelbee/internal/config"
	"parcelbee/internal/logx"
	"parcelbee/internal/repository"
	"parcelbee/internal/service/audit"
	"parcelbee/internal/transport/kafka"
)

// MustBuildWorkerContainer builds and returns the audit worker container
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerWorker(container); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	return container, nil
}

type auditIn struct {
	dig.In
	Store  *repository.EventRepo
	Events *prometheus.CounterVec `name:"delivery_events_total"`
	Logger logx.Logger
}

func newAuditConsumer(cfg *config.Config, logger logx.Logger, h kafka.HandleFunc) (*kafka.Consumer, error) {
	if !cfg.Kafka.Enabled() {
		return nil, fmt.Errorf("KAFKA_BROKERS is not set: the audit worker has nothing to consume")
	}
	return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, h)
}

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		repository.NewEventRepo,
		func(in auditIn) *audit.Processor {
			return audit.NewProcessor(in.Store, in.Events, in.Logger)
		},
		func(p *audit.Processor) kafka.HandleFunc { return makeAuditHandler(p) },
		newAuditConsumer,
	)
}
