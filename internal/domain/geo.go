package domain

// Point is a WGS84 latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// GeocodeResult is either a resolved point or the reason the address could not be resolved.
type GeocodeResult struct {
	Point  Point
	Reason string
	ok     bool
}

// Resolved builds a successful result.
func Resolved(p Point) GeocodeResult {
	return GeocodeResult{Point: p, ok: true}
}

// Unresolved builds a failed result. An empty reason is replaced with a generic one.
func Unresolved(reason string) GeocodeResult {
	if reason == "" {
		reason = "geocoding failed"
	}
	return GeocodeResult{Reason: reason}
}

// OK reports whether the address was resolved.
func (r GeocodeResult) OK() bool { return r.ok }
