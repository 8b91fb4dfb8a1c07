package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/polar-backend-go/internal/models"
	"github.com/jengzang/polar-backend-go/internal/service"
	"github.com/jengzang/polar-backend-go/pkg/response"
)

// PolarHandler handles HTTP requests for polar documents
type PolarHandler struct {
	polarService *service.PolarService
	maxUpload    int64
}

// NewPolarHandler creates a new polar handler
func NewPolarHandler(polarService *service.PolarService, maxUpload int64) *PolarHandler {
	if maxUpload <= 0 {
		maxUpload = 1 << 20
	}
	return &PolarHandler{
		polarService: polarService,
		maxUpload:    maxUpload,
	}
}

// Create handles POST /api/v1/polars with a polar file as the body or as
// the multipart field "file"
func (h *PolarHandler) Create(c *gin.Context) {
	name := c.Query("name")
	var content []byte
	var err error

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, ferr := c.FormFile("file")
		if ferr != nil {
			response.BadRequest(c, "Missing file field")
			return
		}
		if fh.Size > h.maxUpload {
			response.BadRequest(c, "Polar file too large")
			return
		}
		f, ferr := fh.Open()
		if ferr != nil {
			response.BadRequest(c, "Unreadable file")
			return
		}
		defer f.Close()
		content, err = io.ReadAll(f)
		if name == "" {
			name = strings.TrimSuffix(strings.TrimSuffix(fh.Filename, ".pol"), ".txt")
		}
	} else {
		content, err = io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload))
	}
	if err != nil {
		response.BadRequest(c, "Failed to read polar file")
		return
	}

	result, err := h.polarService.Create(name, string(content))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, result)
}

// List handles GET /api/v1/polars
func (h *PolarHandler) List(c *gin.Context) {
	docs, err := h.polarService.List()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{
		"data":  docs,
		"count": len(docs),
	})
}

// Get handles GET /api/v1/polars/:id
func (h *PolarHandler) Get(c *gin.Context) {
	result, err := h.polarService.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, result)
}

// Export handles GET /api/v1/polars/:id/export
func (h *PolarHandler) Export(c *gin.Context) {
	name, text, err := h.polarService.Export(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".pol"))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// Delete handles DELETE /api/v1/polars/:id
func (h *PolarHandler) Delete(c *gin.Context) {
	if err := h.polarService.Delete(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"id": c.Param("id")})
}

// SetBoatSpeed handles PUT /api/v1/polars/:id/bands/:tws/angles/:twa
func (h *PolarHandler) SetBoatSpeed(c *gin.Context) {
	tws, ok := floatParam(c, "tws")
	if !ok {
		return
	}
	twa, ok := angleParam(c, "twa")
	if !ok {
		return
	}
	var req models.SetBoatSpeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.polarService.SetBoatSpeed(c.Param("id"), tws, twa, *req.BoatSpeed)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, result)
}

// AddAngle handles POST /api/v1/polars/:id/angles
func (h *PolarHandler) AddAngle(c *gin.Context) {
	var req models.AddAngleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.polarService.AddAngle(c.Param("id"), req.WindSpeed, *req.Angle, req.BoatSpeed)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteAngle handles DELETE /api/v1/polars/:id/bands/:tws/angles/:twa
func (h *PolarHandler) DeleteAngle(c *gin.Context) {
	tws, ok := floatParam(c, "tws")
	if !ok {
		return
	}
	twa, ok := angleParam(c, "twa")
	if !ok {
		return
	}

	result, err := h.polarService.DeleteAngle(c.Param("id"), tws, twa)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, result)
}

// RenameAnchor handles PATCH /api/v1/polars/:id/bands/:tws/angles/:twa
func (h *PolarHandler) RenameAnchor(c *gin.Context) {
	tws, ok := floatParam(c, "tws")
	if !ok {
		return
	}
	twa, ok := angleParam(c, "twa")
	if !ok {
		return
	}
	var req models.RenameAnchorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.polarService.RenameAnchor(c.Param("id"), tws, twa, *req.Angle, req.BoatSpeed)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, result)
}

// AddBand handles POST /api/v1/polars/:id/bands
func (h *PolarHandler) AddBand(c *gin.Context) {
	var req models.AddBandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.polarService.AddBand(c.Param("id"), *req.WindSpeed)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteBand handles DELETE /api/v1/polars/:id/bands/:tws
func (h *PolarHandler) DeleteBand(c *gin.Context) {
	tws, ok := floatParam(c, "tws")
	if !ok {
		return
	}

	result, err := h.polarService.DeleteBand(c.Param("id"), tws)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, result)
}

// Dense handles GET /api/v1/polars/:id/bands/:tws/dense
func (h *PolarHandler) Dense(c *gin.Context) {
	tws, ok := floatParam(c, "tws")
	if !ok {
		return
	}

	points, err := h.polarService.Dense(c.Param("id"), tws)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{
		"windSpeed": tws,
		"points":    points,
	})
}

// Evaluate handles GET /api/v1/polars/:id/evaluate?tws=&twa=
func (h *PolarHandler) Evaluate(c *gin.Context) {
	tws, ok := floatQuery(c, "tws")
	if !ok {
		return
	}
	twa, ok := floatQuery(c, "twa")
	if !ok {
		return
	}

	result, err := h.polarService.Evaluate(c.Param("id"), tws, twa)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, result)
}

// Ranges handles GET /api/v1/polars/:id/ranges
func (h *PolarHandler) Ranges(c *gin.Context) {
	ranges, err := h.polarService.Ranges(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, ranges)
}
