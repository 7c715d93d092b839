package app

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"parcelbee/internal/metrics"
)

type metricsOut struct {
	dig.Out

	RateLimitExceededTotal *prometheus.CounterVec `name:"rate_limit_exceeded_total"`
	GeocoderLookupsTotal   *prometheus.CounterVec `name:"geocoder_lookups_total"`
	DeliveryEventsTotal    *prometheus.CounterVec `name:"delivery_events_total"`
	Deliveries             *prometheus.GaugeVec   `name:"parcelbee_deliveries"`
}

func provideMetrics() (metricsOut, error) {
	var (
		out metricsOut
		err error
	)
	if out.RateLimitExceededTotal, err = register("rate_limit_exceeded_total", metrics.NewRateLimitExceededTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.GeocoderLookupsTotal, err = register("geocoder_lookups_total", metrics.NewGeocoderLookupsTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.DeliveryEventsTotal, err = register("parcelbee_delivery_events_total", metrics.NewDeliveryEventsTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.Deliveries, err = register("parcelbee_deliveries", metrics.NewDeliveriesGauge()); err != nil {
		return metricsOut{}, err
	}
	return out, nil
}

// register adds c to the default registerer, reusing an identical collector registered earlier.
func register[T prometheus.Collector](name string, c T) (T, error) {
	if err := prometheus.DefaultRegisterer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, fmt.Errorf("register %s: %w", name, err)
	}
	return c, nil
}
