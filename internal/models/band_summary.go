package models

import (
	"github.com/jengzang/polar-backend-go/internal/polar"
	"github.com/jengzang/polar-backend-go/internal/stats"
)

// AngleBin aggregates a band's samples over a slice of TWA
type AngleBin struct {
	FromTWA   float64 `json:"fromTwa"`
	ToTWA     float64 `json:"toTwa"`
	Count     int     `json:"count"`
	MeanBSP   float64 `json:"meanBsp"`
	TargetBSP float64 `json:"targetBsp"` // polar speed at the bin centre
	PolarPct  float64 `json:"polarPct"`  // MeanBSP as a percentage of TargetBSP
}

// BandSummary cross-references a band's telemetry with its polar curve
type BandSummary struct {
	WindSpeed    float64         `json:"windSpeed"`
	Range        polar.BandRange `json:"range"`
	BSP          stats.Summary   `json:"bsp"`
	MeanTWA      float64         `json:"meanTwa"`
	MeanTWS      float64         `json:"meanTws"`
	MeanPolarPct float64         `json:"meanPolarPct"`
	Outliers     int             `json:"outliers"`   // BSP samples outside the Tukey fences
	DistanceNM   float64         `json:"distanceNm"` // sailed while in this band
	Angles       []AngleBin      `json:"angles"`
}

// BandTelemetry is the result of a band-scoped telemetry fetch
type BandTelemetry struct {
	WindSpeed float64          `json:"windSpeed"`
	Range     polar.BandRange  `json:"range"`
	Tolerance float64          `json:"tolerance"`
	Fetched   int              `json:"fetched"`
	Data      []TelemetryPoint `json:"data"`
}
