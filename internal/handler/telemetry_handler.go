package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/polar-backend-go/internal/models"
	"github.com/jengzang/polar-backend-go/internal/polar"
	"github.com/jengzang/polar-backend-go/internal/service"
	"github.com/jengzang/polar-backend-go/pkg/response"
)

// TelemetryHandler handles HTTP requests for telemetry data
type TelemetryHandler struct {
	telemetryService *service.TelemetryService
	polarService     *service.PolarService
	scheduler        *service.RefetchScheduler
}

// NewTelemetryHandler creates a new telemetry handler
func NewTelemetryHandler(telemetryService *service.TelemetryService, polarService *service.PolarService, scheduler *service.RefetchScheduler) *TelemetryHandler {
	return &TelemetryHandler{
		telemetryService: telemetryService,
		polarService:     polarService,
		scheduler:        scheduler,
	}
}

// Ingest handles POST /api/v1/telemetry
func (h *TelemetryHandler) Ingest(c *gin.Context) {
	var req models.TelemetryIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sessionID, n, err := h.telemetryService.Ingest(req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTelemetry) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}
	response.Created(c, gin.H{
		"sessionId": sessionID,
		"count":     n,
	})
}

// Query handles GET /api/v1/telemetry
func (h *TelemetryHandler) Query(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	points, err := h.telemetryService.Query(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, models.TelemetryResponse{Data: points, Count: len(points)})
}

// PolarTelemetry handles GET /api/v1/polars/:id/telemetry and keeps samples
// within tolerance of any of the polar's bands
func (h *TelemetryHandler) PolarTelemetry(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	_, model, err := h.polarService.Load(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	points, err := h.telemetryService.FilterToBands(model.WindSpeeds(), filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, models.TelemetryResponse{Data: points, Count: len(points)})
}

// BandTelemetry handles GET /api/v1/polars/:id/bands/:tws/telemetry
func (h *TelemetryHandler) BandTelemetry(c *gin.Context) {
	model, band, filter, ok := h.bandRequest(c)
	if !ok {
		return
	}

	result, err := h.telemetryService.FetchBand(model.WindSpeeds(), band, filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, result)
}

// BandSummary handles GET /api/v1/polars/:id/bands/:tws/summary
func (h *TelemetryHandler) BandSummary(c *gin.Context) {
	model, band, filter, ok := h.bandRequest(c)
	if !ok {
		return
	}

	summary, err := h.telemetryService.SummarizeBand(model, band, filter)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, summary)
}

// Latest handles GET /api/v1/polars/:id/telemetry/latest
func (h *TelemetryHandler) Latest(c *gin.Context) {
	id := c.Param("id")
	if h.scheduler == nil {
		response.NotFound(c, "No refetch result")
		return
	}
	result, ok := h.scheduler.Latest(id)
	if !ok {
		response.NotFound(c, "No refetch result")
		return
	}
	response.Success(c, result)
}

func (h *TelemetryHandler) bandRequest(c *gin.Context) (*polar.Model, float64, models.TelemetryFilter, bool) {
	tws, ok := floatParam(c, "tws")
	if !ok {
		return nil, 0, models.TelemetryFilter{}, false
	}
	filter, ok := bindFilter(c)
	if !ok {
		return nil, 0, models.TelemetryFilter{}, false
	}
	_, model, err := h.polarService.Load(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return nil, 0, models.TelemetryFilter{}, false
	}
	if model.Band(tws) == nil {
		writeError(c, polar.ErrBandNotFound)
		return nil, 0, models.TelemetryFilter{}, false
	}
	return model, tws, filter, true
}

func bindFilter(c *gin.Context) (models.TelemetryFilter, bool) {
	var filter models.TelemetryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return filter, false
	}
	filter.Normalize()
	return filter, true
}
