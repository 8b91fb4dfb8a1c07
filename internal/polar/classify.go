package polar

import (
	"math"
	"time"
)

// DefaultBandTolerance is the TWS distance in knots within which telemetry is
// attributed to its nearest band.
const DefaultBandTolerance = 2.5

// TelemetryPoint is one recorded sample supplied by a telemetry provider.
// TWA is already normalized to 0-180.
type TelemetryPoint struct {
	TWS       float64   `json:"tws"`
	TWA       float64   `json:"twa"`
	BSP       float64   `json:"bsp"`
	Timestamp time.Time `json:"timestamp"`
}

// ClassifyNearestBand returns the element of bands closest to value. Ties go to
// the first minimal element in the order given, so the result depends on the
// order of bands. It returns 0 for an empty slice.
func ClassifyNearestBand(value float64, bands []float64) float64 {
	if len(bands) == 0 {
		return 0
	}
	best := bands[0]
	bestDist := math.Abs(value - best)
	for _, b := range bands[1:] {
		if d := math.Abs(value - b); d < bestDist {
			best, bestDist = b, d
		}
	}
	return best
}

// Classifier filters telemetry against a set of bands with a fixed tolerance.
type Classifier struct {
	Tolerance float64
}

// NewClassifier returns a classifier; a non-positive tolerance selects the default.
func NewClassifier(tolerance float64) Classifier {
	if tolerance <= 0 {
		tolerance = DefaultBandTolerance
	}
	return Classifier{Tolerance: tolerance}
}

// NearAnyBand reports whether tws lies within tolerance of its nearest band.
func (c Classifier) NearAnyBand(tws float64, bands []float64) bool {
	if len(bands) == 0 {
		return false
	}
	return math.Abs(ClassifyNearestBand(tws, bands)-tws) <= c.Tolerance
}

// InBand reports whether target is the nearest band to tws and lies within tolerance.
func (c Classifier) InBand(tws float64, bands []float64, target float64) bool {
	if len(bands) == 0 {
		return false
	}
	nearest := ClassifyNearestBand(tws, bands)
	return nearest == target && math.Abs(nearest-tws) <= c.Tolerance
}

// FilterByBandTolerance keeps the points whose TWS is near any of bands.
func (c Classifier) FilterByBandTolerance(points []TelemetryPoint, bands []float64) []TelemetryPoint {
	out := make([]TelemetryPoint, 0, len(points))
	for _, p := range points {
		if c.NearAnyBand(p.TWS, bands) {
			out = append(out, p)
		}
	}
	return out
}

// FilterSingleBand keeps the points whose nearest band is target and which lie
// within tolerance of it.
func (c Classifier) FilterSingleBand(points []TelemetryPoint, bands []float64, target float64) []TelemetryPoint {
	out := make([]TelemetryPoint, 0, len(points))
	for _, p := range points {
		if c.InBand(p.TWS, bands, target) {
			out = append(out, p)
		}
	}
	return out
}

// FilterByBandTolerance applies the default tolerance.
func FilterByBandTolerance(points []TelemetryPoint, bands []float64) []TelemetryPoint {
	return NewClassifier(DefaultBandTolerance).FilterByBandTolerance(points, bands)
}
