package pricing

import (
	"context"
	"math"
	"strings"
	"time"

	"parcelbee/internal/apperr"
	"parcelbee/internal/domain"
	"parcelbee/internal/logx"
)

// MinWeightKg is the smallest parcel weight accepted for an estimate.
const MinWeightKg = 0.1

// Rates are the tariff inputs of an estimate.
type Rates struct {
	BaseFee    float64
	PerKm      float64
	PerKg      float64
	FallbackKm float64
}

// DefaultRates returns the stock tariff.
func DefaultRates() Rates {
	return Rates{BaseFee: 30, PerKm: 10, PerKg: 5, FallbackKm: 5.0}
}

// Request is the input of Estimate.
type Request struct {
	PickupAddress string
	DropAddress   string
	WeightKg      float64
}

// Breakdown itemises an estimate. DistanceKm is rounded to 3 decimals, money to 2.
type Breakdown struct {
	BaseFee     float64
	DistanceKm  float64
	DistanceFee float64
	WeightFee   float64
	Subtotal    float64
}

// Estimate is the result of a price estimation. Pickup and Drop are nil when
// geocoding was not used.
type Estimate struct {
	DistanceKm     float64
	EstimatedPrice int64
	Breakdown      Breakdown
	Pickup         *domain.Point
	Drop           *domain.Point
	GeocodingUsed  bool
	GeocodeError   string
}

// Estimator prices deliveries from addresses and weight.
type Estimator struct {
	geocoder Geocoder
	rates    Rates
	budget   time.Duration
	logger   logx.Logger
}

// NewEstimator builds an Estimator with the given tariff.
func NewEstimator(g Geocoder, rates Rates, logger logx.Logger) *Estimator {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Estimator{geocoder: g, rates: rates, logger: logger}
}

// WithGeocodeBudget bounds both address lookups of one estimate by d in total.
// Lookups still running when it expires count as unresolved. Zero means no bound.
func (e *Estimator) WithGeocodeBudget(d time.Duration) *Estimator {
	e.budget = d
	return e
}

// Rates returns the tariff in use.
func (e *Estimator) Rates() Rates { return e.rates }

// Estimate validates req, resolves both addresses and prices the delivery.
// Geocoding failures switch to the fallback distance instead of failing.
func (e *Estimator) Estimate(ctx context.Context, req Request) (Estimate, error) {
	req, err := validate(req)
	if err != nil {
		return Estimate{}, err
	}

	var out Estimate
	pickup, drop, reason := e.resolve(ctx, req.PickupAddress, req.DropAddress)
	distance := e.rates.FallbackKm
	if reason == "" {
		distance = Distance(pickup, drop)
		out.GeocodingUsed = true
		out.Pickup = &pickup
		out.Drop = &drop
	} else {
		out.GeocodeError = reason
		e.logger.Warn("geocoding failed, using fallback distance",
			logx.String("reason", reason),
			logx.Float64("fallback_km", distance),
		)
	}

	weightFee := req.WeightKg * e.rates.PerKg
	distanceFee := distance * e.rates.PerKm
	subtotal := e.rates.BaseFee + distanceFee + weightFee

	out.DistanceKm = roundTo(distance, 3)
	out.EstimatedPrice = int64(math.RoundToEven(subtotal))
	out.Breakdown = Breakdown{
		BaseFee:     e.rates.BaseFee,
		DistanceKm:  roundTo(distance, 3),
		DistanceFee: roundTo(distanceFee, 2),
		WeightFee:   roundTo(weightFee, 2),
		Subtotal:    roundTo(subtotal, 2),
	}
	return out, nil
}

// resolve geocodes pickup then drop and stops at the first failure.
func (e *Estimator) resolve(ctx context.Context, pickupAddr, dropAddr string) (domain.Point, domain.Point, string) {
	if e.geocoder == nil {
		return domain.Point{}, domain.Point{}, "geocoder not configured"
	}
	if e.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.budget)
		defer cancel()
	}
	pickup := e.geocoder.Geocode(ctx, pickupAddr)
	if !pickup.OK() {
		return domain.Point{}, domain.Point{}, pickup.Reason
	}
	drop := e.geocoder.Geocode(ctx, dropAddr)
	if !drop.OK() {
		return domain.Point{}, domain.Point{}, drop.Reason
	}
	return pickup.Point, drop.Point, ""
}

func validate(req Request) (Request, error) {
	req.PickupAddress = strings.TrimSpace(req.PickupAddress)
	req.DropAddress = strings.TrimSpace(req.DropAddress)
	if req.PickupAddress == "" {
		return req, apperr.Invalid("pickup_address is required")
	}
	if req.DropAddress == "" {
		return req, apperr.Invalid("drop_address is required")
	}
	if math.IsNaN(req.WeightKg) || math.IsInf(req.WeightKg, 0) || req.WeightKg < MinWeightKg {
		return req, apperr.Invalid("weight must be at least %.1f", MinWeightKg)
	}
	return req, nil
}

// roundTo rounds half-to-even at the given number of decimal places.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(v*p) / p
}
