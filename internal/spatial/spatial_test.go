package spatial

import (
	"math"
	"testing"
)

func TestNormalizeTWA(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{45, 45},
		{-45, 45},
		{180, 180},
		{-180, 180},
		{270, 90},
		{350, 10},
		{400, 40},
		{0, 0},
	}
	for _, tc := range cases {
		if got := NormalizeTWA(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("NormalizeTWA(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDistanceNMOneMinuteOfLatitude(t *testing.T) {
	// One arc-minute of latitude is close to one nautical mile.
	got := DistanceNM(Fix{Lat: 59.0, Lon: 24.0}, Fix{Lat: 59.0 + 1.0/60, Lon: 24.0})
	if math.Abs(got-1.0) > 0.01 {
		t.Fatalf("DistanceNM = %v, want ~1.0", got)
	}
}

func TestTrackDistanceNM(t *testing.T) {
	track := []Fix{
		{Lat: 59.0, Lon: 24.0},
		{Lat: 59.0 + 1.0/60, Lon: 24.0},
		{Lat: 59.0 + 2.0/60, Lon: 24.0},
	}
	got := TrackDistanceNM(track)
	if math.Abs(got-2.0) > 0.02 {
		t.Fatalf("TrackDistanceNM = %v, want ~2.0", got)
	}
	if TrackDistanceNM(track[:1]) != 0 {
		t.Fatal("single fix should have zero distance")
	}
}
