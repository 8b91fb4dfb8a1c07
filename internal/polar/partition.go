package polar

import (
	"encoding/json"
	"math"
	"sort"
)

// BandRange is the exclusive TWS interval [MinTWS, MaxTWS) owned by a band.
type BandRange struct {
	WindSpeed float64
	MinTWS    float64
	MaxTWS    float64 // +Inf for the highest band
}

// FullRange covers the whole TWS axis.
func FullRange(windSpeed float64) BandRange {
	return BandRange{WindSpeed: windSpeed, MinTWS: 0, MaxTWS: math.Inf(1)}
}

// Contains reports whether tws falls inside the half-open range.
func (r BandRange) Contains(tws float64) bool {
	return tws >= r.MinTWS && tws < r.MaxTWS
}

// Unbounded reports whether the range has no upper limit.
func (r BandRange) Unbounded() bool {
	return math.IsInf(r.MaxTWS, 1)
}

// MarshalJSON encodes an unbounded upper limit as null.
func (r BandRange) MarshalJSON() ([]byte, error) {
	var maxTWS *float64
	if !r.Unbounded() {
		maxTWS = &r.MaxTWS
	}
	return json.Marshal(struct {
		WindSpeed float64  `json:"windSpeed"`
		MinTWS    float64  `json:"minTws"`
		MaxTWS    *float64 `json:"maxTws"`
	}{r.WindSpeed, r.MinTWS, maxTWS})
}

// ComputeRanges splits [0, +Inf) at the midpoints between neighbouring bands,
// which is exactly where nearest-band classification flips.
func ComputeRanges(bands []float64) map[float64]BandRange {
	sorted := append([]float64(nil), bands...)
	sort.Float64s(sorted)
	uniq := sorted[:0]
	for i, b := range sorted {
		if i == 0 || b != sorted[i-1] {
			uniq = append(uniq, b)
		}
	}

	out := make(map[float64]BandRange, len(uniq))
	for i, b := range uniq {
		r := FullRange(b)
		if i > 0 {
			r.MinTWS = (uniq[i-1] + b) / 2
		}
		if i < len(uniq)-1 {
			r.MaxTWS = (b + uniq[i+1]) / 2
		}
		out[b] = r
	}
	return out
}

// SortedRanges returns ComputeRanges as a slice ordered by wind speed.
func SortedRanges(bands []float64) []BandRange {
	ranges := ComputeRanges(bands)
	out := make([]BandRange, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WindSpeed < out[j].WindSpeed })
	return out
}

// RangeFor returns the range owned by windSpeed, or the full axis when
// windSpeed is not one of bands.
func RangeFor(bands []float64, windSpeed float64) BandRange {
	if r, ok := ComputeRanges(bands)[windSpeed]; ok {
		return r
	}
	return FullRange(windSpeed)
}
