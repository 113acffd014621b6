// Package geocode resolves venue addresses to coordinates through a
// Nominatim-style HTTP endpoint.
package geocode

import "context"

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64
	Lng float64
}

// Geocoder resolves a free-form address to coordinates. Implementations make
// a single attempt per call; the caller decides what a failure means.
type Geocoder interface {
	GetLatLng(ctx context.Context, address string) (LatLng, error)
}

// Static is a Geocoder that always returns the same coordinates. Used in
// tests and as a stand-in when no geocoding endpoint is configured.
type Static struct {
	Coords LatLng
}

// NewStatic returns a Static geocoder with the given coordinates.
func NewStatic(lat, lng float64) *Static {
	return &Static{Coords: LatLng{Lat: lat, Lng: lng}}
}

func (s *Static) GetLatLng(ctx context.Context, address string) (LatLng, error) {
	return s.Coords, nil
}
