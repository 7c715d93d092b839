package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a counter of requests rejected by the rate limiter, labelled by scope
func NewRateLimitExceededTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	}, []string{"scope"})
}

// NewGeocoderLookupsTotal returns a counter of geocoder lookups by outcome (resolved, unresolved, cache_hit)
func NewGeocoderLookupsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geocoder_lookups_total",
		Help: "Total number of address lookups by outcome",
	}, []string{"outcome"})
}

// NewDeliveriesGauge returns a gauge of stored deliveries per status
func NewDeliveriesGauge() *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "parcelbee_deliveries",
		Help: "Number of delivery requests per status",
	}, []string{"status"})
}

// NewDeliveryEventsTotal returns a counter of delivery events handled by the audit worker, by kind and result
func NewDeliveryEventsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parcelbee_delivery_events_total",
		Help: "Total number of delivery events handled by the audit worker",
	}, []string{"kind", "result"})
}
