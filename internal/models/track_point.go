package models

import (
	"time"

	"github.com/jengzang/polar-backend-go/internal/polar"
)

// TelemetryPoint is one recorded instrument sample
type TelemetryPoint struct {
	ID         int64    `json:"id" db:"id"`
	SessionID  string   `json:"sessionId" db:"session_id"`
	RecordedAt int64    `json:"recordedAt" db:"recorded_at"` // Unix milliseconds
	TWS        float64  `json:"tws" db:"tws"`                // knots
	TWA        float64  `json:"twa" db:"twa"`                // degrees, 0-180
	BSP        float64  `json:"bsp" db:"bsp"`                // knots
	Latitude   *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude  *float64 `json:"longitude,omitempty" db:"longitude"`
}

// Timestamp returns RecordedAt as a time
func (p TelemetryPoint) Timestamp() time.Time {
	return time.UnixMilli(p.RecordedAt).UTC()
}

// HasPosition reports whether the sample carries a GPS fix
func (p TelemetryPoint) HasPosition() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Sample converts the row into the engine's read-only telemetry value
func (p TelemetryPoint) Sample() polar.TelemetryPoint {
	return polar.TelemetryPoint{TWS: p.TWS, TWA: p.TWA, BSP: p.BSP, Timestamp: p.Timestamp()}
}

// TelemetryIngestPoint is one sample in an ingest request
type TelemetryIngestPoint struct {
	TWS       float64   `json:"tws" binding:"gte=0"`
	TWA       float64   `json:"twa"` // any sign, normalized on ingest
	BSP       float64   `json:"bsp" binding:"gte=0"`
	Timestamp time.Time `json:"timestamp" binding:"required"`
	Latitude  *float64  `json:"lat,omitempty"`
	Longitude *float64  `json:"lon,omitempty"`
}

// TelemetryIngestRequest is the body of POST /api/v1/telemetry
type TelemetryIngestRequest struct {
	SessionID string                 `json:"sessionId"`
	Points    []TelemetryIngestPoint `json:"points" binding:"required,min=1,dive"`
}

// TelemetryResponse wraps a list of samples
type TelemetryResponse struct {
	Data  []TelemetryPoint `json:"data"`
	Count int              `json:"count"`
}
