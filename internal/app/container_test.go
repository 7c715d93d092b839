package app

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"parcelbee/internal/config"
	"parcelbee/internal/http/handlers"
	mw "parcelbee/internal/http/middleware"
	"parcelbee/internal/http/middleware/ratelimit"
	"parcelbee/internal/jobs"
	"parcelbee/internal/logx"
	"parcelbee/internal/service/admin"
	"parcelbee/internal/service/audit"
	"parcelbee/internal/service/delivery"
	"parcelbee/internal/service/pricing"
	"parcelbee/internal/transport/kafka"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:           8080,
		LogLevel:       "info",
		RequestTimeout: config.DefaultRequestTimeout(),
		DB:             config.DefaultDB(),
		Auth:           config.Auth{JWTSecret: "test-secret", TokenTTL: time.Hour},
		Pricing:        config.DefaultPricing(),
		Geocoder:       config.DefaultGeocoder(),
		RateLimit:      config.DefaultRateLimit(),
		Kafka:          config.DefaultKafka(),
		Delivery:       config.DefaultDelivery(),
		Metrics:        config.DefaultMetrics(),
	}
}

func setupTestContainer(t *testing.T, cfg *config.Config) *dig.Container {
	t.Helper()

	c := dig.New()

	providers := []struct {
		name     string
		provider any
	}{
		{"context", func() context.Context { return context.Background() }},
		{"logger", logx.Nop},
		{"config", func() *config.Config { return cfg }},
		{"metrics", provideMetrics},
		{"pgxpool", func() *pgxpool.Pool { return &pgxpool.Pool{} }},
	}

	for _, p := range providers {
		err := c.Provide(p.provider)
		require.NoErrorf(t, err, "provide %s", p.name)
	}

	require.NoError(t, registerService(c))
	require.NoError(t, registerHTTP(c))
	require.NoError(t, registerJobs(c))

	return c
}

func verifyServer(t *testing.T, srv *http.Server) {
	t.Helper()

	require.NotNil(t, srv, "http.Server is nil")
	require.Equal(t, ":8080", srv.Addr)
	require.NotNil(t, srv.Handler)
	require.Greater(t, srv.ReadHeaderTimeout, time.Duration(0))
	require.Greater(t, srv.ReadTimeout, time.Duration(0))
	require.Greater(t, srv.WriteTimeout, time.Duration(0))
	require.Greater(t, srv.IdleTimeout, time.Duration(0))
}

func TestServer_WriteTimeoutOutlastsGeocodeBudget(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	c := setupTestContainer(t, cfg)

	err := c.Invoke(func(srv *http.Server) {
		require.Greater(t, srv.WriteTimeout, cfg.RequestTimeout)
		require.Greater(t, cfg.RequestTimeout, cfg.Geocoder.Budget)
	})
	require.NoError(t, err)
}

func TestRegisterServiceAndHTTP_ProvidesHttpServerAndHandlers(t *testing.T) {
	t.Parallel()

	c := setupTestContainer(t, testConfig())

	err := c.Invoke(func(
		srv *http.Server,
		base *handlers.Handlers,
		authHandler *handlers.AuthHandler,
		deliveryHandler *handlers.DeliveryHandler,
		adminHandler *handlers.AdminHandler,
		priceHandler *handlers.PriceHandler,
		authenticator mw.Authenticator,
	) {
		verifyServer(t, srv)
		require.NotNil(t, base)
		require.NotNil(t, authHandler)
		require.NotNil(t, deliveryHandler)
		require.NotNil(t, adminHandler)
		require.NotNil(t, priceHandler)
		require.NotNil(t, authenticator)
	})
	require.NoError(t, err)
}

func TestRegisterService_ProvidesDomainServices(t *testing.T) {
	t.Parallel()

	c := setupTestContainer(t, testConfig())

	err := c.Invoke(func(
		deliveries *delivery.Service,
		adminSvc *admin.Service,
		estimator *pricing.Estimator,
		publisher delivery.EventPublisher,
		producer *kafka.Producer,
	) {
		require.NotNil(t, deliveries)
		require.NotNil(t, adminSvc)
		require.NotNil(t, estimator)
		require.Equal(t, pricing.Rates{BaseFee: 30, PerKm: 10, PerKg: 5, FallbackKm: 5}, estimator.Rates())

		require.Nil(t, producer, "kafka is disabled without brokers")
		require.IsType(t, delivery.NopPublisher{}, publisher)
	})
	require.NoError(t, err)
}

func TestRegisterJobs_ProvidesStatsJob(t *testing.T) {
	t.Parallel()

	c := setupTestContainer(t, testConfig())

	err := c.Invoke(func(job *jobs.StatsJob) {
		require.NotNil(t, job)
	})
	require.NoError(t, err)
}

func TestNewRateLimiter(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	require.IsType(t, &ratelimit.TokenBucketLimiter{}, newRateLimiter(cfg, ratelimit.RealClock{}))

	cfg.RateLimit.Enabled = false
	require.IsType(t, ratelimit.NopLimiter{}, newRateLimiter(cfg, ratelimit.RealClock{}))
}

func TestNewEventPublisher_NilProducerFallsBackToNop(t *testing.T) {
	t.Parallel()

	require.IsType(t, delivery.NopPublisher{}, newEventPublisher(nil))
}

func TestProvideAll_Success(t *testing.T) {
	t.Parallel()

	c := dig.New()

	err := provideAll(c,
		func() context.Context { return context.Background() },
		func() time.Duration { return 3 * time.Second },
	)
	require.NoError(t, err)

	err = c.Invoke(func(ctx context.Context, d time.Duration) {
		require.NotNil(t, ctx)
		require.Equal(t, 3*time.Second, d)
	})
	require.NoError(t, err)
}

func TestProvideAll_InvalidProvider(t *testing.T) {
	t.Parallel()

	c := dig.New()

	type bad struct{}
	err := provideAll(c, bad{})
	require.Error(t, err)
}

type coreIn struct {
	dig.In
	Ctx        context.Context
	Logger     logx.Logger
	Config     *config.Config
	RateLimit  *prometheus.CounterVec `name:"rate_limit_exceeded_total"`
	Deliveries *prometheus.GaugeVec   `name:"parcelbee_deliveries"`
}

func TestRegisterCore_ProvidesDependencies(t *testing.T) {
	t.Parallel()

	c := dig.New()
	ctx := context.Background()

	err := registerCore(c, ctx)
	require.NoError(t, err)

	err = c.Invoke(func(in coreIn) {
		require.Equal(t, ctx, in.Ctx)
		require.NotNil(t, in.Logger)
		require.NotNil(t, in.Config)
		require.NotNil(t, in.RateLimit)
		require.NotNil(t, in.Deliveries)
	})
	require.NoError(t, err)
}

func TestRegisterDb_UsesDbConnectAndProvidesPool(t *testing.T) {
	t.Parallel()

	c := dig.New()
	ctx := context.Background()

	cfg := &config.Config{
		DB: config.DB{
			Host: "localhost",
			Port: "5432",
			User: "user",
			Pass: "pass",
			Name: "db",
		},
	}

	require.NoError(t, c.Provide(func() context.Context { return ctx }))
	require.NoError(t, c.Provide(func() *config.Config { return cfg }))
	require.NoError(t, c.Provide(logx.Nop))

	stubPool := &pgxpool.Pool{}

	stubConnect := func(
		gotCtx context.Context,
		_ logx.Logger,
		dsn string,
		retries int,
		delay time.Duration,
	) (*pgxpool.Pool, error) {
		require.Equal(t, ctx, gotCtx)
		require.Equal(t, cfg.DB.DSN(), dsn)
		require.Equal(t, 10, retries)
		require.Equal(t, time.Second, delay)
		return stubPool, nil
	}

	err := registerDb(c, stubConnect)
	require.NoError(t, err)

	err = c.Invoke(func(pool *pgxpool.Pool) {
		require.Equal(t, stubPool, pool)
	})
	require.NoError(t, err)
}

func stubConnect(err error) dbConnectFunc {
	return func(context.Context, logx.Logger, string, int, time.Duration) (*pgxpool.Pool, error) {
		if err != nil {
			return nil, err
		}
		return &pgxpool.Pool{}, nil
	}
}

func TestContainerBuilder_Build_Success(t *testing.T) {
	t.Parallel()

	c, err := NewContainerBuilder().WithDBConnect(stubConnect(nil)).build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, c)

	err = c.Invoke(func(pool *pgxpool.Pool, srv *http.Server) {
		require.NotNil(t, pool)
		require.NotNil(t, srv)
	})
	require.NoError(t, err)
}

func TestContainerBuilder_Build_DBError(t *testing.T) {
	t.Parallel()

	c, err := NewContainerBuilder().WithDBConnect(stubConnect(fmt.Errorf("db failed"))).build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, c)

	err = c.Invoke(func(pool *pgxpool.Pool) {
		_ = pool
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "db failed")
}

func TestContainerBuilder_MustBuild_LogsFatalOnError(t *testing.T) {
	t.Parallel()

	builder := NewContainerBuilder().
		WithDBConnect(stubConnect(nil)).
		WithLogFatalf(func(format string, args ...interface{}) {
			require.FailNowf(t, "logFatalf must not be called", format, args...)
		})

	c := builder.MustBuild(context.Background())
	require.NotNil(t, c)
}

func TestContainerBuilder_BuildWorker_ProvidesProcessor(t *testing.T) {
	t.Parallel()

	c, err := NewContainerBuilder().WithDBConnect(stubConnect(nil)).buildWorker(context.Background())
	require.NoError(t, err)

	err = c.Invoke(func(p *audit.Processor, h kafka.HandleFunc) {
		require.NotNil(t, p)
		require.NotNil(t, h)
	})
	require.NoError(t, err)
}

func TestNewAuditConsumer_RequiresBrokers(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Kafka.Brokers = nil

	consumer, err := newAuditConsumer(cfg, logx.Nop(), nil)
	require.Error(t, err)
	require.Nil(t, consumer)
	require.Contains(t, err.Error(), "KAFKA_BROKERS")
}
