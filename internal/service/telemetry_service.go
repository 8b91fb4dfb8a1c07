package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jengzang/polar-backend-go/internal/models"
	"github.com/jengzang/polar-backend-go/internal/observability"
	"github.com/jengzang/polar-backend-go/internal/polar"
	"github.com/jengzang/polar-backend-go/internal/repository"
	"github.com/jengzang/polar-backend-go/internal/spatial"
	"github.com/jengzang/polar-backend-go/internal/stats"
)

const (
	// angleBinWidth is the TWA slice used by band summaries.
	angleBinWidth = 10.0
	// trackGap splits a band's samples into separate legs for distance sums.
	trackGap = time.Minute
)

// ErrInvalidTelemetry is returned when an ingest batch is empty or malformed
var ErrInvalidTelemetry = errors.New("invalid telemetry")

// TelemetryService handles telemetry ingest and band cross-referencing
type TelemetryService struct {
	repo       *repository.TelemetryRepository
	classifier polar.Classifier
	metrics    *observability.PolarCollector
}

// NewTelemetryService creates a new telemetry service
func NewTelemetryService(repo *repository.TelemetryRepository, tolerance float64, metrics *observability.PolarCollector) *TelemetryService {
	return &TelemetryService{
		repo:       repo,
		classifier: polar.NewClassifier(tolerance),
		metrics:    metrics,
	}
}

// Tolerance returns the band tolerance in knots
func (s *TelemetryService) Tolerance() float64 {
	return s.classifier.Tolerance
}

// Ingest normalizes and stores a batch of samples, returning the session ID
func (s *TelemetryService) Ingest(req models.TelemetryIngestRequest) (string, int, error) {
	if len(req.Points) == 0 {
		return "", 0, fmt.Errorf("%w: no points", ErrInvalidTelemetry)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	points := make([]models.TelemetryPoint, 0, len(req.Points))
	for i, p := range req.Points {
		if math.IsNaN(p.TWS) || math.IsNaN(p.TWA) || math.IsNaN(p.BSP) || p.TWS < 0 || p.BSP < 0 {
			return "", 0, fmt.Errorf("%w: point %d", ErrInvalidTelemetry, i)
		}
		points = append(points, models.TelemetryPoint{
			SessionID:  sessionID,
			RecordedAt: p.Timestamp.UnixMilli(),
			TWS:        p.TWS,
			TWA:        spatial.NormalizeTWA(p.TWA),
			BSP:        p.BSP,
			Latitude:   p.Latitude,
			Longitude:  p.Longitude,
		})
	}

	if err := s.repo.InsertBatch(points); err != nil {
		return "", 0, fmt.Errorf("failed to ingest telemetry: %w", err)
	}
	return sessionID, len(points), nil
}

// Query returns raw samples for a filter
func (s *TelemetryService) Query(filter models.TelemetryFilter) ([]models.TelemetryPoint, error) {
	points, err := s.repo.Query(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get telemetry: %w", err)
	}
	return points, nil
}

// FilterToBands keeps the samples whose TWS lies within tolerance of any band
func (s *TelemetryService) FilterToBands(bands []float64, filter models.TelemetryFilter) ([]models.TelemetryPoint, error) {
	points, err := s.Query(filter)
	if err != nil {
		return nil, err
	}

	kept := make([]models.TelemetryPoint, 0, len(points))
	for _, p := range points {
		if s.classifier.NearAnyBand(p.TWS, bands) {
			kept = append(kept, p)
		}
	}
	s.metrics.AddClassified(len(kept), len(points)-len(kept))
	return kept, nil
}

// FetchBand scopes the query to the band's exclusive TWS range and then keeps
// only samples whose nearest band is the target and lie within tolerance
func (s *TelemetryService) FetchBand(bands []float64, band float64, filter models.TelemetryFilter) (*models.BandTelemetry, error) {
	r := polar.RangeFor(bands, band)
	filter.MinTWS = r.MinTWS
	filter.MaxTWS = r.MaxTWS

	points, err := s.Query(filter)
	if err != nil {
		return nil, err
	}

	kept := make([]models.TelemetryPoint, 0, len(points))
	for _, p := range points {
		if s.classifier.InBand(p.TWS, bands, band) {
			kept = append(kept, p)
		}
	}
	s.metrics.AddClassified(len(kept), len(points)-len(kept))

	return &models.BandTelemetry{
		WindSpeed: band,
		Range:     r,
		Tolerance: s.classifier.Tolerance,
		Fetched:   len(points),
		Data:      kept,
	}, nil
}

// SummarizeBand fetches a band's telemetry and compares it with the band's curve
func (s *TelemetryService) SummarizeBand(model *polar.Model, band float64, filter models.TelemetryFilter) (*models.BandSummary, error) {
	curve := model.Band(band)
	if curve == nil {
		return nil, polar.ErrBandNotFound
	}

	fetched, err := s.FetchBand(model.WindSpeeds(), band, filter)
	if err != nil {
		return nil, err
	}

	summary := Summarize(curve, fetched.Data)
	summary.Range = fetched.Range
	return summary, nil
}

// SummarizeModel summarizes every band of model
func (s *TelemetryService) SummarizeModel(model *polar.Model, filter models.TelemetryFilter) ([]models.BandSummary, error) {
	out := make([]models.BandSummary, 0, len(model.Bands))
	for _, b := range model.Bands {
		summary, err := s.SummarizeBand(model, b.WindSpeed, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to summarize band %v: %w", b.WindSpeed, err)
		}
		out = append(out, *summary)
	}
	return out, nil
}

// Summarize builds a BandSummary of points against curve
func Summarize(curve *polar.AnchorCurve, points []models.TelemetryPoint) *models.BandSummary {
	summary := &models.BandSummary{
		WindSpeed: curve.WindSpeed,
		Range:     polar.FullRange(curve.WindSpeed),
		Angles:    []models.AngleBin{},
	}
	if len(points) == 0 {
		return summary
	}

	bsp := make([]float64, len(points))
	twa := make([]float64, len(points))
	tws := make([]float64, len(points))
	var pct []float64
	for i, p := range points {
		bsp[i], twa[i], tws[i] = p.BSP, p.TWA, p.TWS
		if target := polar.Evaluate(curve, p.TWA); target > 0 {
			pct = append(pct, p.BSP/target*100)
		}
	}

	summary.BSP = stats.Summarize(bsp)
	summary.MeanTWA = stats.Mean(twa)
	summary.MeanTWS = stats.Mean(tws)
	summary.MeanPolarPct = stats.Mean(pct)

	lower, upper := stats.OutlierBounds(bsp)
	for _, v := range bsp {
		if stats.IsOutlier(v, lower, upper) {
			summary.Outliers++
		}
	}

	summary.DistanceNM = distanceSailed(points)
	summary.Angles = angleBins(curve, points)
	return summary
}

func angleBins(curve *polar.AnchorCurve, points []models.TelemetryPoint) []models.AngleBin {
	nBins := int(180 / angleBinWidth)
	speeds := make([][]float64, nBins)
	for _, p := range points {
		i := int(p.TWA / angleBinWidth)
		if i >= nBins {
			i = nBins - 1
		}
		speeds[i] = append(speeds[i], p.BSP)
	}

	bins := []models.AngleBin{}
	for i, v := range speeds {
		if len(v) == 0 {
			continue
		}
		from := float64(i) * angleBinWidth
		bin := models.AngleBin{
			FromTWA:   from,
			ToTWA:     from + angleBinWidth,
			Count:     len(v),
			MeanBSP:   stats.Mean(v),
			TargetBSP: polar.Evaluate(curve, from+angleBinWidth/2),
		}
		if bin.TargetBSP > 0 {
			bin.PolarPct = bin.MeanBSP / bin.TargetBSP * 100
		}
		bins = append(bins, bin)
	}
	return bins
}

// distanceSailed sums the great-circle length of each contiguous leg, where a
// leg breaks on a session change or a gap longer than trackGap
func distanceSailed(points []models.TelemetryPoint) float64 {
	var total float64
	var leg []spatial.Fix
	var prev *models.TelemetryPoint
	for i := range points {
		p := &points[i]
		if !p.HasPosition() {
			continue
		}
		if prev != nil && (prev.SessionID != p.SessionID || p.RecordedAt-prev.RecordedAt > trackGap.Milliseconds()) {
			total += spatial.TrackDistanceNM(leg)
			leg = leg[:0]
		}
		leg = append(leg, spatial.Fix{Lat: *p.Latitude, Lon: *p.Longitude})
		prev = p
	}
	return total + spatial.TrackDistanceNM(leg)
}
