// internal/geo/geo.go
// Shared haversine distance helpers used by the matching, crowd and
// recommendation engines. One copy, one Earth radius.

package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used by all distance math.
const EarthRadiusMeters = 6371000.0

// Coordinates is a WGS84 latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceMeters returns the haversine distance between two points in meters.
// Identical points return exactly 0.
func DistanceMeters(p1, p2 Coordinates) float64 {
	if p1 == p2 {
		return 0
	}

	lat1 := p1.Lat * math.Pi / 180
	lat2 := p2.Lat * math.Pi / 180
	dLat := (p2.Lat - p1.Lat) * math.Pi / 180
	dLng := (p2.Lng - p1.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// DistanceKm returns the haversine distance in kilometers.
func DistanceKm(p1, p2 Coordinates) float64 {
	return DistanceMeters(p1, p2) / 1000
}

// WithinRadius reports whether p2 lies within radiusMeters of p1.
func WithinRadius(p1, p2 Coordinates, radiusMeters float64) bool {
	return DistanceMeters(p1, p2) <= radiusMeters
}
