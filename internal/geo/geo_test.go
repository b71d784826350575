package geo

import (
	"math"
	"testing"
)

func TestDistanceIdenticalPoints(t *testing.T) {
	points := []Coordinates{
		{Lat: 0, Lng: 0},
		{Lat: 35.6812, Lng: 139.7671},
		{Lat: -33.8688, Lng: 151.2093},
		{Lat: 89.9, Lng: -179.9},
	}

	for _, p := range points {
		if d := DistanceMeters(p, p); d != 0 {
			t.Errorf("DistanceMeters(%v, %v): got %v, want exactly 0", p, p, d)
		}
	}
}

func TestDistanceSymmetry(t *testing.T) {
	p := Coordinates{Lat: 35.6812, Lng: 139.7671}  // Tokyo Station
	q := Coordinates{Lat: 35.6586, Lng: 139.7454}  // Tokyo Tower

	d1 := DistanceMeters(p, q)
	d2 := DistanceMeters(q, p)
	if d1 != d2 {
		t.Errorf("distance not symmetric: %v vs %v", d1, d2)
	}
	if d1 <= 0 {
		t.Errorf("distance between distinct points should be positive, got %v", d1)
	}
}

func TestDistanceKnownValue(t *testing.T) {
	// Tokyo Station to Shinjuku Station is roughly 6.2 km.
	p := Coordinates{Lat: 35.6812, Lng: 139.7671}
	q := Coordinates{Lat: 35.6896, Lng: 139.7006}

	d := DistanceMeters(p, q)
	if d < 5500 || d > 7000 {
		t.Errorf("Tokyo-Shinjuku distance: got %.0f m, want ~6200 m", d)
	}

	if km := DistanceKm(p, q); math.Abs(km-d/1000) > 1e-9 {
		t.Errorf("DistanceKm inconsistent with DistanceMeters: %v vs %v", km, d/1000)
	}
}

func TestWithinRadius(t *testing.T) {
	p := Coordinates{Lat: 35.6812, Lng: 139.7671}
	q := Coordinates{Lat: 35.6896, Lng: 139.7006}

	if WithinRadius(p, q, 1000) {
		t.Error("points ~6 km apart should not be within 1000 m")
	}
	if !WithinRadius(p, q, 10000) {
		t.Error("points ~6 km apart should be within 10000 m")
	}
}
