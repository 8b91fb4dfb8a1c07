package models

import "math"

// TelemetryFilter represents filter parameters for querying telemetry
type TelemetryFilter struct {
	StartTime int64   `form:"startTime"` // Unix milliseconds, inclusive
	EndTime   int64   `form:"endTime"`   // Unix milliseconds, inclusive
	SessionID string  `form:"sessionId"`
	MinTWS    float64 `form:"minTws"` // inclusive
	MaxTWS    float64 `form:"maxTws"` // exclusive, 0 or +Inf means unbounded
	Limit     int     `form:"limit"`
}

// HasMaxTWS reports whether the filter bounds TWS from above
func (f TelemetryFilter) HasMaxTWS() bool {
	return f.MaxTWS > 0 && !math.IsInf(f.MaxTWS, 1)
}

// Normalize clamps the limit into a sane range
func (f *TelemetryFilter) Normalize() {
	if f.Limit < 1 {
		f.Limit = 10000
	}
	if f.Limit > 100000 {
		f.Limit = 100000
	}
}
