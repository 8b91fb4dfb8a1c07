package handler

import (
	"errors"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/polar-backend-go/internal/polar"
	"github.com/jengzang/polar-backend-go/internal/service"
	"github.com/jengzang/polar-backend-go/pkg/response"
)

// writeError maps service and engine errors onto HTTP responses
func writeError(c *gin.Context, err error) {
	var fe *polar.FormatError
	var ne *polar.NumericError
	switch {
	case errors.As(err, &fe), errors.As(err, &ne):
		response.BadRequest(c, err.Error())
	case errors.Is(err, polar.ErrProtectedAngle), errors.Is(err, service.ErrLastAnchor),
		errors.Is(err, polar.ErrInvalidAngle), errors.Is(err, service.ErrInvalidSpeed):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrPolarNotFound):
		response.NotFound(c, "Polar not found")
	case errors.Is(err, polar.ErrBandNotFound):
		response.NotFound(c, "Wind speed band not found")
	default:
		response.InternalError(c, err.Error())
	}
}

// floatParam parses a path parameter as a finite number, writing a 400 on failure
func floatParam(c *gin.Context, name string) (float64, bool) {
	return parseFinite(c, name, c.Param(name))
}

// angleParam parses a path parameter as a TWA in [0, 180]
func angleParam(c *gin.Context, name string) (float64, bool) {
	v, ok := floatParam(c, name)
	if ok && !polar.ValidAngle(v) {
		response.BadRequest(c, "Invalid "+name+" parameter")
		return 0, false
	}
	return v, ok
}

// floatQuery parses a required query parameter as a finite number
func floatQuery(c *gin.Context, name string) (float64, bool) {
	return parseFinite(c, name, c.Query(name))
}

func parseFinite(c *gin.Context, name, raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		response.BadRequest(c, "Invalid "+name+" parameter")
		return 0, false
	}
	return v, true
}
