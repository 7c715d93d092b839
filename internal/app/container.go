package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"parcelbee/internal/config"
	"parcelbee/internal/gateway/geocoder"
	"parcelbee/internal/http/handlers"
	mw "parcelbee/internal/http/middleware"
	"parcelbee/internal/http/middleware/ratelimit"
	"parcelbee/internal/http/router"
	"parcelbee/internal/jobs"
	"parcelbee/internal/logx"
	"parcelbee/internal/repository"
	"parcelbee/internal/service/admin"
	"parcelbee/internal/service/auth"
	"parcelbee/internal/service/delivery"
	"parcelbee/internal/service/pricing"
	"parcelbee/internal/transport/kafka"
)

type dbConnectFunc func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect dbConnectFunc
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn dbConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns the API container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// MustBuildWorker builds and returns the audit worker container
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	if err := registerJobs(container); err != nil {
		return nil, fmt.Errorf("jobs: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns the API container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		config.Load,
		NewLogger,
		provideMetrics,
	)
}

func registerDb(container *dig.Container, dbConnect dbConnectFunc) error {
	providerDB := func(ctx context.Context, cfg *config.Config, logger logx.Logger) (*pgxpool.Pool, error) {
		return dbConnect(ctx, logger, cfg.DB.DSN(), 10, time.Second)
	}
	return provideAll(container, providerDB)
}

type geocoderIn struct {
	dig.In
	Config   *config.Config
	Logger   logx.Logger
	Outcomes *prometheus.CounterVec `name:"geocoder_lookups_total"`
}

func newGeocoder(in geocoderIn) pricing.Geocoder {
	g := in.Config.Geocoder
	nominatim := geocoder.NewNominatim(geocoder.Config{
		BaseURL:   g.BaseURL,
		UserAgent: g.UserAgent,
		Timeout:   g.Timeout,
	}, in.Outcomes, in.Logger)
	return geocoder.NewCached(nominatim, g.CacheTTL, g.CacheMaxEntries, in.Outcomes)
}

func newProducer(cfg *config.Config, logger logx.Logger) (*kafka.Producer, error) {
	if !cfg.Kafka.Enabled() {
		return nil, nil
	}
	return kafka.NewProducer(logger, cfg.Kafka.Brokers, cfg.Kafka.Topic)
}

func newEventPublisher(p *kafka.Producer) delivery.EventPublisher {
	if p == nil {
		return delivery.NopPublisher{}
	}
	return p
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		repository.NewUserRepo,
		repository.NewDeliveryRepo,
		func(cfg *config.Config) *auth.Tokens {
			return auth.NewTokens([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
		},
		func(users *repository.UserRepo, tokens *auth.Tokens, logger logx.Logger) *auth.Service {
			return auth.NewService(users, tokens, 0, logger)
		},
		func(svc *auth.Service) mw.Authenticator { return svc },
		newGeocoder,
		func(cfg *config.Config, g pricing.Geocoder, logger logx.Logger) *pricing.Estimator {
			p := cfg.Pricing
			return pricing.NewEstimator(g, pricing.Rates{
				BaseFee:    p.BaseFee,
				PerKm:      p.PerKm,
				PerKg:      p.PerKg,
				FallbackKm: p.FallbackKm,
			}, logger).WithGeocodeBudget(cfg.Geocoder.Budget)
		},
		newProducer,
		newEventPublisher,
		func(
			cfg *config.Config,
			repo *repository.DeliveryRepo,
			events delivery.EventPublisher,
			logger logx.Logger,
		) *delivery.Service {
			return delivery.NewDeliveryService(repo, events, delivery.Options{
				OperationTimeout:  cfg.Delivery.OperationTimeout,
				StrictTransitions: cfg.Delivery.StrictTransitions,
			}, logger)
		},
		func(
			cfg *config.Config,
			users *repository.UserRepo,
			deliveries *repository.DeliveryRepo,
			logger logx.Logger,
		) *admin.Service {
			return admin.NewService(users, deliveries, cfg.Delivery.OperationTimeout, logger)
		},
	)
}

// writeTimeoutMargin leaves the router's timeout response room to be written.
const writeTimeoutMargin = 5 * time.Second

type routerIn struct {
	dig.In
	Config        *config.Config
	Logger        logx.Logger
	Base          *handlers.Handlers
	Auth          *handlers.AuthHandler
	Delivery      *handlers.DeliveryHandler
	Admin         *handlers.AdminHandler
	Price         *handlers.PriceHandler
	Authenticator mw.Authenticator
	RateLimit     *ratelimit.Middleware
}

func newRouter(in routerIn) http.Handler {
	return router.New(router.Deps{
		Logger:         in.Logger,
		Base:           in.Base,
		Auth:           in.Auth,
		Delivery:       in.Delivery,
		Admin:          in.Admin,
		Price:          in.Price,
		Authenticator:  in.Authenticator,
		RateLimit:      in.RateLimit,
		RequestTimeout: in.Config.RequestTimeout,
	})
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      cfg.RequestTimeout + writeTimeoutMargin,
			IdleTimeout:       60 * time.Second,
		}
	}
	return provideAll(container,
		handlers.New,
		handlers.NewAuthUsecase,
		handlers.NewAuthHandler,
		handlers.NewDeliveryUsecase,
		handlers.NewDeliveryHandler,
		handlers.NewAdminUsecase,
		handlers.NewAdminHandler,
		handlers.NewPriceEstimator,
		handlers.NewPriceHandler,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		newRouter,
		serverProvider,
	)
}

type statsJobIn struct {
	dig.In
	Config *config.Config
	Admin  *admin.Service
	Gauge  *prometheus.GaugeVec `name:"parcelbee_deliveries"`
	Logger logx.Logger
}

func registerJobs(container *dig.Container) error {
	return provideAll(container,
		func(in statsJobIn) *jobs.StatsJob {
			return jobs.NewStatsJob(in.Config.Metrics.RefreshCron, in.Admin, in.Gauge, in.Logger)
		},
	)
}
