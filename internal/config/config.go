package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores service settings.
type Config struct {
	Port     int
	LogLevel string
	// RequestTimeout bounds a single HTTP request.
	RequestTimeout time.Duration
	DB             DB
	Auth           Auth
	Pricing        Pricing
	Geocoder       Geocoder
	RateLimit      RateLimit
	Kafka          Kafka
	Delivery       Delivery
	Metrics        Metrics
}

// DB stores PostgreSQL connection settings. URL, when set, wins over the parts.
type DB struct {
	URL  string
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN returns a postgres:// connection string.
func (d DB) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Auth stores token settings.
type Auth struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// Pricing is the tariff used by price estimates.
type Pricing struct {
	BaseFee    float64
	PerKm      float64
	PerKg      float64
	FallbackKm float64
}

// Geocoder stores Nominatim client and cache settings. Timeout bounds one
// lookup, Budget bounds all lookups of one estimate and must fit in the request timeout.
type Geocoder struct {
	BaseURL         string
	UserAgent       string
	Timeout         time.Duration
	Budget          time.Duration
	CacheTTL        time.Duration
	CacheMaxEntries int
}

// RateLimit stores the limiter of the anonymous endpoints: Limit requests per Window per client.
type RateLimit struct {
	Enabled    bool
	Limit      int
	Window     time.Duration
	TTL        time.Duration
	MaxBuckets int
}

// Kafka stores the event pipeline settings. No brokers means events are dropped.
type Kafka struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Enabled reports whether brokers are configured.
func (k Kafka) Enabled() bool { return len(k.Brokers) > 0 }

// Delivery stores lifecycle engine settings.
type Delivery struct {
	StrictTransitions bool
	OperationTimeout  time.Duration
}

// Metrics stores the stats exporter schedule.
type Metrics struct {
	RefreshCron string
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	env := envReader{}
	cfg := &Config{
		Port:           env.int("PORT", defaultPort),
		LogLevel:       env.str("LOG_LEVEL", defaultLogLevel),
		RequestTimeout: env.duration("HTTP_REQUEST_TIMEOUT", defaultRequestTimeout),
		DB: DB{
			URL:  env.str("DATABASE_URL", ""),
			Host: env.str("POSTGRES_HOST", defaultDB.Host),
			Port: env.str("POSTGRES_PORT", defaultDB.Port),
			User: env.str("POSTGRES_USER", defaultDB.User),
			Pass: env.str("POSTGRES_PASSWORD", defaultDB.Pass),
			Name: env.str("POSTGRES_DB", defaultDB.Name),
		},
		Auth: Auth{
			JWTSecret: env.str("JWT_SECRET", defaultAuth.JWTSecret),
			TokenTTL:  env.duration("JWT_TTL", defaultAuth.TokenTTL),
		},
		Pricing: Pricing{
			BaseFee:    env.float("PARCELBEE_BASE_FEE", defaultPricing.BaseFee),
			PerKm:      env.float("PARCELBEE_PER_KM", defaultPricing.PerKm),
			PerKg:      env.float("PARCELBEE_PER_KG", defaultPricing.PerKg),
			FallbackKm: env.float("PARCELBEE_FALLBACK_KM", defaultPricing.FallbackKm),
		},
		Geocoder: Geocoder{
			BaseURL:         env.str("GEOCODER_URL", defaultGeocoder.BaseURL),
			UserAgent:       env.str("GEOCODER_USER_AGENT", defaultGeocoder.UserAgent),
			Timeout:         env.duration("GEOCODER_TIMEOUT", defaultGeocoder.Timeout),
			Budget:          env.duration("GEOCODER_BUDGET", defaultGeocoder.Budget),
			CacheTTL:        env.duration("GEOCODER_CACHE_TTL", defaultGeocoder.CacheTTL),
			CacheMaxEntries: env.int("GEOCODER_CACHE_MAX_ENTRIES", defaultGeocoder.CacheMaxEntries),
		},
		RateLimit: RateLimit{
			Enabled:    env.bool("RATE_LIMIT_ENABLED", defaultRateLimit.Enabled),
			Limit:      env.int("RATE_LIMIT_LIMIT", defaultRateLimit.Limit),
			Window:     env.duration("RATE_LIMIT_WINDOW", defaultRateLimit.Window),
			TTL:        env.duration("RATE_LIMIT_TTL", defaultRateLimit.TTL),
			MaxBuckets: env.int("RATE_LIMIT_MAX_BUCKETS", defaultRateLimit.MaxBuckets),
		},
		Kafka: Kafka{
			Brokers: env.list("KAFKA_BROKERS"),
			Topic:   env.str("KAFKA_DELIVERY_TOPIC", defaultKafka.Topic),
			GroupID: env.str("KAFKA_GROUP_ID", defaultKafka.GroupID),
		},
		Delivery: Delivery{
			StrictTransitions: env.bool("DELIVERY_STRICT_TRANSITIONS", defaultDelivery.StrictTransitions),
			OperationTimeout:  env.duration("DELIVERY_OPERATION_TIMEOUT", defaultDelivery.OperationTimeout),
		},
		Metrics: Metrics{
			RefreshCron: env.str("METRICS_REFRESH_CRON", defaultMetrics.RefreshCron),
		},
	}
	if env.err != nil {
		return nil, env.err
	}

	// A fresh set per call: Load may run more than once in a process.
	fs := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.BoolVar(&cfg.Delivery.StrictTransitions, "strict-transitions", cfg.Delivery.StrictTransitions,
		"reject status updates that skip or reverse lifecycle steps")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Auth.JWTSecret == defaultJWTSecret {
		log.Printf("warning: JWT_SECRET is not set, using the development secret")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d", c.Port))
	}
	if p, err := strconv.Atoi(c.DB.Port); c.DB.URL == "" && (err != nil || p <= 0 || p > 65535) {
		errs = append(errs, fmt.Errorf("invalid POSTGRES_PORT: %q", c.DB.Port))
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("invalid JWT_TTL: %s", c.Auth.TokenTTL))
	}
	p := c.Pricing
	if p.BaseFee < 0 || p.PerKm < 0 || p.PerKg < 0 || p.FallbackKm < 0 {
		errs = append(errs, errors.New("pricing rates must not be negative"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("invalid HTTP_REQUEST_TIMEOUT: %s", c.RequestTimeout))
	}
	if c.Geocoder.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("invalid GEOCODER_TIMEOUT: %s", c.Geocoder.Timeout))
	}
	if c.Geocoder.Budget <= 0 || c.Geocoder.Budget >= c.RequestTimeout {
		errs = append(errs, fmt.Errorf("GEOCODER_BUDGET must be positive and below HTTP_REQUEST_TIMEOUT (%s): %s",
			c.RequestTimeout, c.Geocoder.Budget))
	}
	if c.RateLimit.Enabled && (c.RateLimit.Limit <= 0 || c.RateLimit.Window <= 0) {
		errs = append(errs, errors.New("rate limit needs a positive RATE_LIMIT_LIMIT and RATE_LIMIT_WINDOW"))
	}
	if c.Kafka.Enabled() && strings.TrimSpace(c.Kafka.Topic) == "" {
		errs = append(errs, errors.New("KAFKA_DELIVERY_TOPIC must not be empty"))
	}
	if c.Delivery.OperationTimeout <= 0 {
		errs = append(errs, fmt.Errorf("invalid DELIVERY_OPERATION_TIMEOUT: %s", c.Delivery.OperationTimeout))
	}
	return errors.Join(errs...)
}

// envReader reads typed environment variables and keeps the first parse error.
type envReader struct {
	err error
}

func (e *envReader) fail(key, val string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("invalid %s=%q: %w", key, val, err)
	}
}

func (e *envReader) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (e *envReader) int(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return n
}

func (e *envReader) float(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return f
}

func (e *envReader) bool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return b
}

func (e *envReader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return d
}

func (e *envReader) list(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
