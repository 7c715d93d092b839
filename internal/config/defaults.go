package config

import "time"

const defaultPort = 8080

const defaultLogLevel = "info"

const defaultRequestTimeout = 15 * time.Second

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "parcelbee",
	Pass: "parcelbee",
	Name: "parcelbee",
}

// defaultJWTSecret is only suitable for local development; Load logs a warning when it is in use.
const defaultJWTSecret = "parcelbee-dev-secret"

var defaultAuth = Auth{
	JWTSecret: defaultJWTSecret,
	TokenTTL:  7 * 24 * time.Hour,
}

var defaultPricing = Pricing{
	BaseFee:    30,
	PerKm:      10,
	PerKg:      5,
	FallbackKm: 5.0,
}

var defaultGeocoder = Geocoder{
	BaseURL:         "https://nominatim.openstreetmap.org",
	UserAgent:       "ParcelBee/1.0 (contact: parcelbee@example.com)",
	Timeout:         8 * time.Second,
	Budget:          10 * time.Second,
	CacheTTL:        10 * time.Minute,
	CacheMaxEntries: 1000,
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Limit:      20,
	Window:     time.Minute,
	TTL:        10 * time.Minute,
	MaxBuckets: 10000,
}

var defaultKafka = Kafka{
	Topic:   "parcelbee.delivery-events",
	GroupID: "parcelbee-audit",
}

var defaultDelivery = Delivery{
	OperationTimeout: 3 * time.Second,
}

var defaultMetrics = Metrics{
	RefreshCron: "@every 30s",
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultRequestTimeout returns the default HTTP request timeout.
func DefaultRequestTimeout() time.Duration {
	return defaultRequestTimeout
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultAuth returns the default token settings.
func DefaultAuth() Auth {
	return defaultAuth
}

// DefaultPricing returns the stock tariff.
func DefaultPricing() Pricing {
	return defaultPricing
}

// DefaultGeocoder returns the default geocoder settings.
func DefaultGeocoder() Geocoder {
	return defaultGeocoder
}

// DefaultRateLimit returns the default rate limit settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}

// DefaultKafka returns the default Kafka settings. Brokers are empty, which disables Kafka.
func DefaultKafka() Kafka {
	return defaultKafka
}

// DefaultDelivery returns the default delivery settings.
func DefaultDelivery() Delivery {
	return defaultDelivery
}

// DefaultMetrics returns the default metrics settings.
func DefaultMetrics() Metrics {
	return defaultMetrics
}
