package geo

import (
	"math"
	"testing"
)

func TestDistanceKmZeroForSamePoint(t *testing.T) {
	points := []Point{
		{Latitude: 0, Longitude: 0},
		{Latitude: 37.0, Longitude: -122.0},
		{Latitude: -89.9, Longitude: 179.9},
	}
	for _, p := range points {
		if d := DistanceKm(p, p); d != 0 {
			t.Errorf("DistanceKm(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	cases := []struct {
		a, b Point
	}{
		{Point{0, 0}, Point{0, 1}},
		{Point{37.0, -122.0}, Point{40.0, -74.0}},
		{Point{-33.87, 151.21}, Point{51.51, -0.13}},
	}
	for _, c := range cases {
		ab := DistanceKm(c.a, c.b)
		ba := DistanceKm(c.b, c.a)
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("DistanceKm not symmetric: %v vs %v", ab, ba)
		}
	}
}

func TestDistanceKmOneDegreeAtEquator(t *testing.T) {
	got := DistanceKm(Point{0, 0}, Point{0, 1})
	want := 111.19
	if math.Abs(got-want) > 0.05 {
		t.Errorf("DistanceKm({0,0},{0,1}) = %v, want ~%v", got, want)
	}
}

func TestDistanceKmTenKmNorth(t *testing.T) {
	// 0.09 degrees of latitude is roughly 10 km.
	got := DistanceKm(Point{40.0, -74.0}, Point{40.09, -74.0})
	if math.Abs(got-10.0) > 0.1 {
		t.Errorf("DistanceKm 0.09deg north = %v, want ~10.0", got)
	}
}

func TestPointValid(t *testing.T) {
	cases := []struct {
		name  string
		point Point
		want  bool
	}{
		{"origin", Point{0, 0}, true},
		{"extremes", Point{-90, 180}, true},
		{"latitude too high", Point{90.1, 0}, false},
		{"longitude too low", Point{0, -180.5}, false},
		{"NaN latitude", Point{math.NaN(), 0}, false},
		{"Inf longitude", Point{0, math.Inf(1)}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.point.Valid(); got != c.want {
				t.Errorf("Valid() = %v, want %v", got, c.want)
			}
		})
	}
}
