package polar

import (
	"testing"
	"time"
)

func TestClassifyNearestBand(t *testing.T) {
	bands := []float64{6, 10, 16, 20}
	cases := []struct {
		value float64
		want  float64
	}{
		{0, 6},
		{7.9, 6},
		{8.1, 10},
		{14, 16},
		{40, 20},
	}
	for _, tc := range cases {
		if got := ClassifyNearestBand(tc.value, bands); got != tc.want {
			t.Errorf("ClassifyNearestBand(%v) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestClassifyNearestBandTieFollowsInputOrder(t *testing.T) {
	if got := ClassifyNearestBand(7.5, []float64{5, 10}); got != 5 {
		t.Fatalf("ascending order tie = %v, want 5", got)
	}
	if got := ClassifyNearestBand(7.5, []float64{10, 5}); got != 10 {
		t.Fatalf("descending order tie = %v, want 10", got)
	}
}

func TestClassifyNearestBandReturnsMember(t *testing.T) {
	bands := []float64{4, 8.5, 12, 25}
	for v := 0.0; v < 40; v += 0.25 {
		got := ClassifyNearestBand(v, bands)
		found := false
		for _, b := range bands {
			if b == got {
				found = true
			}
		}
		if !found {
			t.Fatalf("ClassifyNearestBand(%v) = %v, not a band", v, got)
		}
	}
}

func points(tws ...float64) []TelemetryPoint {
	base := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	out := make([]TelemetryPoint, len(tws))
	for i, v := range tws {
		out[i] = TelemetryPoint{TWS: v, TWA: 90, BSP: 6, Timestamp: base.Add(time.Duration(i) * time.Second)}
	}
	return out
}

func TestFilterByBandTolerance(t *testing.T) {
	bands := []float64{6, 12, 20}
	got := FilterByBandTolerance(points(3, 5, 8.5, 9.5, 14.5, 15, 22, 23), bands)

	want := []float64{5, 8.5, 9.5, 14.5, 22}
	if len(got) != len(want) {
		t.Fatalf("kept %d points, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].TWS != want[i] {
			t.Fatalf("point %d TWS = %v, want %v", i, got[i].TWS, want[i])
		}
	}
}

func TestFilterSingleBandRequiresNearestIdentity(t *testing.T) {
	bands := []float64{10, 12}
	c := NewClassifier(2.5)

	// 10.5 is within tolerance of 12 but its nearest band is 10.
	got := c.FilterSingleBand(points(10.5, 11.5, 13, 15), bands, 12)
	if len(got) != 2 || got[0].TWS != 11.5 || got[1].TWS != 13 {
		t.Fatalf("FilterSingleBand = %+v, want TWS 11.5 and 13", got)
	}
}

func TestFiltersAgree(t *testing.T) {
	bands := []float64{6, 12, 20}
	c := NewClassifier(2.5)
	pts := points(1, 4, 6, 8, 9.2, 11, 14, 16.5, 18, 23, 30)

	kept := c.FilterByBandTolerance(pts, bands)
	total := 0
	for _, b := range bands {
		total += len(c.FilterSingleBand(pts, bands, b))
	}
	if total != len(kept) {
		t.Fatalf("single band filters kept %d points, band filter kept %d", total, len(kept))
	}
}

func TestNewClassifierDefaultsTolerance(t *testing.T) {
	if got := NewClassifier(0).Tolerance; got != DefaultBandTolerance {
		t.Fatalf("Tolerance = %v, want %v", got, DefaultBandTolerance)
	}
	if got := NewClassifier(1.5).Tolerance; got != 1.5 {
		t.Fatalf("Tolerance = %v, want 1.5", got)
	}
}

func TestFiltersWithoutBands(t *testing.T) {
	c := NewClassifier(2.5)
	if got := c.FilterByBandTolerance(points(5, 10), nil); len(got) != 0 {
		t.Fatalf("no bands kept %d points", len(got))
	}
}
