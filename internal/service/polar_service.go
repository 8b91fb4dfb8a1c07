package service

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"
	"github.com/jengzang/polar-backend-go/internal/models"
	"github.com/jengzang/polar-backend-go/internal/observability"
	"github.com/jengzang/polar-backend-go/internal/polar"
	"github.com/jengzang/polar-backend-go/internal/repository"
)

// ErrPolarNotFound is returned when a polar document does not exist
var ErrPolarNotFound = errors.New("polar not found")

// ErrLastAnchor is returned when a delete would leave a band without anchors
var ErrLastAnchor = errors.New("cannot delete the last anchor of a band")

// ErrInvalidSpeed is returned for a wind or boat speed that is negative or not finite
var ErrInvalidSpeed = errors.New("speed must be a finite, non-negative value")

// RefetchEnqueuer receives band-set snapshots whenever a polar's bands change
type RefetchEnqueuer interface {
	Enqueue(task RefetchTask)
}

// PolarService handles polar documents and their mutation operations.
// Mutations are serialized so each one works on a consistent model.
type PolarService struct {
	repo    *repository.PolarRepository
	metrics *observability.PolarCollector
	refetch RefetchEnqueuer

	mu sync.Mutex
}

// NewPolarService creates a new polar service; refetch may be nil
func NewPolarService(repo *repository.PolarRepository, metrics *observability.PolarCollector, refetch RefetchEnqueuer) *PolarService {
	return &PolarService{
		repo:    repo,
		metrics: metrics,
		refetch: refetch,
	}
}

// Create parses content and stores it as a new polar document
func (s *PolarService) Create(name, content string) (*models.PolarResponse, error) {
	model, err := polar.ParseString(content)
	if err != nil {
		s.countParseFailure(err)
		return nil, err
	}
	if model.IsEmpty() {
		return nil, &polar.FormatError{Line: 0, Msg: "polar has no wind speed bands"}
	}

	name = cleanName(name)
	if name == "" {
		name = "Untitled polar"
	}

	canonical, err := polar.SerializeString(model, name)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize polar: %w", err)
	}

	doc := &models.PolarDocument{
		ID:        uuid.NewString(),
		Name:      name,
		Content:   canonical,
		BandCount: len(model.Bands),
	}
	if err := s.repo.Create(doc); err != nil {
		return nil, err
	}

	log.Printf("Created polar %s (%s) with %d bands", doc.ID, doc.Name, doc.BandCount)
	s.enqueueRefetch(doc.ID, model)
	return newPolarResponse(doc, model), nil
}

// List returns all stored polar documents
func (s *PolarService) List() ([]models.PolarDocument, error) {
	docs, err := s.repo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list polars: %w", err)
	}
	return docs, nil
}

// Load returns a document together with its parsed model
func (s *PolarService) Load(id string) (*models.PolarDocument, *polar.Model, error) {
	doc, err := s.repo.GetByID(id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load polar: %w", err)
	}
	if doc == nil {
		return nil, nil, ErrPolarNotFound
	}

	model, err := polar.ParseString(doc.Content)
	if err != nil {
		s.countParseFailure(err)
		return nil, nil, fmt.Errorf("stored polar %s is corrupt: %w", id, err)
	}
	return doc, model, nil
}

// Get returns a document with its bands and ranges
func (s *PolarService) Get(id string) (*models.PolarResponse, error) {
	doc, model, err := s.Load(id)
	if err != nil {
		return nil, err
	}
	return newPolarResponse(doc, model), nil
}

// Export returns the document name and its polar text
func (s *PolarService) Export(id string) (string, string, error) {
	doc, _, err := s.Load(id)
	if err != nil {
		return "", "", err
	}
	return doc.Name, doc.Content, nil
}

// Delete removes a polar document
func (s *PolarService) Delete(id string) error {
	deleted, err := s.repo.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPolarNotFound
	}
	if f, ok := s.refetch.(interface{ Forget(string) }); ok {
		f.Forget(id)
	}
	return nil
}

// SetBoatSpeed sets or inserts the speed at an angle of one band
func (s *PolarService) SetBoatSpeed(id string, windSpeed, angle, speed float64) (*models.PolarResponse, error) {
	if err := checkAnchor(angle, speed); err != nil {
		return nil, err
	}
	return s.mutate(id, "set_boat_speed", func(m *polar.Model) (bool, error) {
		curve := m.Band(windSpeed)
		if curve == nil {
			return false, polar.ErrBandNotFound
		}
		curve.SetBoatSpeed(angle, speed)
		return true, nil
	})
}

// AddAngle inserts an angle into every band of the polar. The edited band takes
// boatSpeed; the others take their own interpolated speed.
func (s *PolarService) AddAngle(id string, windSpeed, angle, speed float64) (*models.PolarResponse, error) {
	if err := checkAnchor(angle, speed); err != nil {
		return nil, err
	}
	return s.mutate(id, "add_angle", func(m *polar.Model) (bool, error) {
		if m.Band(windSpeed) == nil {
			return false, polar.ErrBandNotFound
		}
		before := anchorCount(m)
		m.AddAngleAcrossModel(windSpeed, angle, speed)
		return anchorCount(m) != before, nil
	})
}

// DeleteAngle removes an angle from one band
func (s *PolarService) DeleteAngle(id string, windSpeed, angle float64) (*models.PolarResponse, error) {
	return s.mutate(id, "delete_angle", func(m *polar.Model) (bool, error) {
		curve := m.Band(windSpeed)
		if curve == nil {
			return false, polar.ErrBandNotFound
		}
		had := curve.HasAngle(angle)
		if had && len(curve.AnchorPoints) == 1 {
			return false, ErrLastAnchor
		}
		if err := curve.DeleteAngle(angle); err != nil {
			return false, err
		}
		return had, nil
	})
}

// RenameAnchor moves the anchor near oldAngle to (newAngle, newSpeed)
func (s *PolarService) RenameAnchor(id string, windSpeed, oldAngle, newAngle, newSpeed float64) (*models.PolarResponse, error) {
	if err := checkAnchor(newAngle, newSpeed); err != nil {
		return nil, err
	}
	return s.mutate(id, "rename_anchor", func(m *polar.Model) (bool, error) {
		curve := m.Band(windSpeed)
		if curve == nil {
			return false, polar.ErrBandNotFound
		}
		return curve.RenameAnchor(oldAngle, newAngle, newSpeed)
	})
}

// AddBand adds a default band at windSpeed
func (s *PolarService) AddBand(id string, windSpeed float64) (*models.PolarResponse, error) {
	if !validSpeed(windSpeed) {
		return nil, ErrInvalidSpeed
	}
	return s.mutate(id, "add_band", func(m *polar.Model) (bool, error) {
		return m.AddBand(windSpeed), nil
	})
}

// DeleteBand removes a band unless it is the last one
func (s *PolarService) DeleteBand(id string, windSpeed float64) (*models.PolarResponse, error) {
	return s.mutate(id, "delete_band", func(m *polar.Model) (bool, error) {
		return m.DeleteBand(windSpeed), nil
	})
}

// Dense returns the densified curve of one band
func (s *PolarService) Dense(id string, windSpeed float64) ([]polar.DensePoint, error) {
	_, model, err := s.Load(id)
	if err != nil {
		return nil, err
	}
	curve := model.Band(windSpeed)
	if curve == nil {
		return nil, polar.ErrBandNotFound
	}
	return polar.Densify(curve), nil
}

// Evaluate returns the boat speed of the band nearest tws at twa
func (s *PolarService) Evaluate(id string, tws, twa float64) (*models.EvaluateResponse, error) {
	_, model, err := s.Load(id)
	if err != nil {
		return nil, err
	}
	curve := model.NearestBand(tws)
	if curve == nil {
		return nil, polar.ErrBandNotFound
	}
	return &models.EvaluateResponse{
		TWS:       tws,
		TWA:       twa,
		Band:      curve.WindSpeed,
		BoatSpeed: polar.Evaluate(curve, twa),
	}, nil
}

// Ranges returns the exclusive TWS range of every band
func (s *PolarService) Ranges(id string) ([]polar.BandRange, error) {
	_, model, err := s.Load(id)
	if err != nil {
		return nil, err
	}
	return polar.SortedRanges(model.WindSpeeds()), nil
}

func (s *PolarService) mutate(id, op string, fn func(*polar.Model) (bool, error)) (*models.PolarResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, model, err := s.Load(id)
	if err != nil {
		return nil, err
	}
	bandsBefore := len(model.Bands)

	changed, err := fn(model)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveMutation(op, changed)
	if !changed {
		return newPolarResponse(doc, model), nil
	}

	content, err := polar.SerializeString(model, doc.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize polar: %w", err)
	}
	if err := s.repo.UpdateContent(doc.ID, content, len(model.Bands)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPolarNotFound
		}
		return nil, err
	}
	doc.Content = content
	doc.BandCount = len(model.Bands)

	if len(model.Bands) != bandsBefore {
		s.enqueueRefetch(doc.ID, model)
	}
	return newPolarResponse(doc, model), nil
}

func (s *PolarService) enqueueRefetch(id string, model *polar.Model) {
	if s.refetch == nil {
		return
	}
	s.refetch.Enqueue(RefetchTask{PolarID: id, Model: model.Clone()})
}

func (s *PolarService) countParseFailure(err error) {
	var fe *polar.FormatError
	var ne *polar.NumericError
	switch {
	case errors.As(err, &fe):
		s.metrics.IncParseFailure("format")
	case errors.As(err, &ne):
		s.metrics.IncParseFailure("numeric")
	default:
		s.metrics.IncParseFailure("read")
	}
}

// checkAnchor rejects values that the polar text format cannot round-trip
func checkAnchor(angle, speed float64) error {
	if !polar.ValidAngle(angle) {
		return polar.ErrInvalidAngle
	}
	if !validSpeed(speed) {
		return ErrInvalidSpeed
	}
	return nil
}

func validSpeed(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

// cleanName turns control characters into spaces so a name stays on one header line
func cleanName(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, name)
	return strings.Join(strings.Fields(name), " ")
}

func anchorCount(m *polar.Model) int {
	n := 0
	for _, b := range m.Bands {
		n += len(b.AnchorPoints)
	}
	return n
}

func newPolarResponse(doc *models.PolarDocument, model *polar.Model) *models.PolarResponse {
	return &models.PolarResponse{
		PolarDocument: *doc,
		WindSpeeds:    model.WindSpeeds(),
		Bands:         model.Bands,
		Ranges:        polar.SortedRanges(model.WindSpeeds()),
	}
}
