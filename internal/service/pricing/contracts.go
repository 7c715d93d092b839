//go:generate mockgen -source=contracts.go -destination=pricing_mocks_test.go -package=pricing_test

package pricing

import (
	"context"

	"parcelbee/internal/domain"
)

// Geocoder resolves a free-text address. Failures are reported in the result, never as errors.
type Geocoder interface {
	Geocode(ctx context.Context, address string) domain.GeocodeResult
}
