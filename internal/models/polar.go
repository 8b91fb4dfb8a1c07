package models

import "github.com/jengzang/polar-backend-go/internal/polar"

// PolarDocument is a stored polar file
type PolarDocument struct {
	ID        string  `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	Content   string  `json:"-" db:"content"` // polar text format
	BandCount int     `json:"bandCount" db:"band_count"`
	CreatedAt *string `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt *string `json:"updatedAt,omitempty" db:"updated_at"`
}

// PolarResponse is a document with its parsed model and band ranges
type PolarResponse struct {
	PolarDocument
	WindSpeeds []float64            `json:"windSpeeds"`
	Bands      []*polar.AnchorCurve `json:"bands"`
	Ranges     []polar.BandRange    `json:"ranges"`
}

// SetBoatSpeedRequest is the body of PUT .../bands/:tws/angles/:twa
type SetBoatSpeedRequest struct {
	BoatSpeed *float64 `json:"boatSpeed" binding:"required"`
}

// AddAngleRequest is the body of POST .../angles
type AddAngleRequest struct {
	WindSpeed float64  `json:"windSpeed"`
	Angle     *float64 `json:"angle" binding:"required,gte=0,lte=180"`
	BoatSpeed float64  `json:"boatSpeed"`
}

// RenameAnchorRequest is the body of PATCH .../bands/:tws/angles/:twa
type RenameAnchorRequest struct {
	Angle     *float64 `json:"angle" binding:"required,gte=0,lte=180"`
	BoatSpeed float64  `json:"boatSpeed"`
}

// AddBandRequest is the body of POST .../bands
type AddBandRequest struct {
	WindSpeed *float64 `json:"windSpeed" binding:"required,gt=0"`
}

// EvaluateResponse is the result of evaluating a polar at one wind condition
type EvaluateResponse struct {
	TWS       float64 `json:"tws"`
	TWA       float64 `json:"twa"`
	Band      float64 `json:"band"`
	BoatSpeed float64 `json:"boatSpeed"`
}
