package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jengzang/polar-backend-go/internal/models"
	"github.com/jengzang/polar-backend-go/internal/observability"
	"github.com/jengzang/polar-backend-go/internal/polar"
)

// RefetchTask asks for a polar's band telemetry to be recomputed. Model is a
// snapshot taken when the band set changed; the scheduler never reads live state.
type RefetchTask struct {
	PolarID string
	Model   *polar.Model
	Window  models.TelemetryFilter
}

// RefetchResult is the outcome of the latest refetch for a polar
type RefetchResult struct {
	PolarID     string               `json:"polarId"`
	WindSpeeds  []float64            `json:"windSpeeds"`
	Ranges      []polar.BandRange    `json:"ranges"`
	Summaries   []models.BandSummary `json:"summaries"`
	CompletedAt time.Time            `json:"completedAt"`
	Error       string               `json:"error,omitempty"`
}

// ModelSummarizer computes band summaries for a polar snapshot
type ModelSummarizer interface {
	SummarizeModel(model *polar.Model, filter models.TelemetryFilter) ([]models.BandSummary, error)
}

type pendingRefetch struct {
	task RefetchTask
	due  time.Time
	gen  uint64
}

// RefetchScheduler debounces band-set changes per polar and recomputes band
// telemetry in a single worker goroutine. A newer task for the same polar
// replaces the pending one and restarts its delay.
type RefetchScheduler struct {
	summarizer ModelSummarizer
	delay      time.Duration
	metrics    *observability.PolarCollector

	mu      sync.Mutex
	pending map[string]pendingRefetch
	results map[string]*RefetchResult
	gens    map[string]uint64 // bumped by Forget; stale executions drop their result
	wake    chan struct{}
}

// NewRefetchScheduler creates a scheduler; call Run to start processing
func NewRefetchScheduler(summarizer ModelSummarizer, delay time.Duration, metrics *observability.PolarCollector) *RefetchScheduler {
	if delay < 0 {
		delay = 0
	}
	return &RefetchScheduler{
		summarizer: summarizer,
		delay:      delay,
		metrics:    metrics,
		pending:    make(map[string]pendingRefetch),
		results:    make(map[string]*RefetchResult),
		gens:       make(map[string]uint64),
		wake:       make(chan struct{}, 1),
	}
}

// Enqueue schedules task after the debounce delay
func (s *RefetchScheduler) Enqueue(task RefetchTask) {
	if task.Model == nil {
		return
	}
	s.mu.Lock()
	s.pending[task.PolarID] = pendingRefetch{task: task, due: time.Now().Add(s.delay), gen: s.gens[task.PolarID]}
	n := len(s.pending)
	s.mu.Unlock()

	s.metrics.SetPendingRefetches(n)
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of tasks waiting for their delay
func (s *RefetchScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Latest returns the most recent result for a polar
func (s *RefetchScheduler) Latest(polarID string) (*RefetchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.results[polarID]
	return r, ok
}

// Forget drops pending work and results for a polar. A refetch already running
// for it completes without storing a result.
func (s *RefetchScheduler) Forget(polarID string) {
	s.mu.Lock()
	s.gens[polarID]++
	delete(s.pending, polarID)
	delete(s.results, polarID)
	s.mu.Unlock()
}

// Run processes due tasks until ctx is cancelled
func (s *RefetchScheduler) Run(ctx context.Context) {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		for _, p := range s.takeDue(time.Now()) {
			s.execute(p)
		}

		wait, ok := s.nextDue()
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		if ok {
			timer.Reset(wait)
		} else {
			timer.Reset(time.Hour)
		}

		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		case <-timer.C:
		}
	}
}

func (s *RefetchScheduler) takeDue(now time.Time) []pendingRefetch {
	s.mu.Lock()
	var due []pendingRefetch
	for id, p := range s.pending {
		if !p.due.After(now) {
			due = append(due, p)
			delete(s.pending, id)
		}
	}
	n := len(s.pending)
	s.mu.Unlock()

	if len(due) > 0 {
		s.metrics.SetPendingRefetches(n)
	}
	return due
}

func (s *RefetchScheduler) nextDue() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next time.Time
	for _, p := range s.pending {
		if next.IsZero() || p.due.Before(next) {
			next = p.due
		}
	}
	if next.IsZero() {
		return 0, false
	}
	wait := time.Until(next)
	if wait < 0 {
		wait = 0
	}
	return wait, true
}

func (s *RefetchScheduler) execute(p pendingRefetch) {
	task := p.task
	bands := task.Model.WindSpeeds()
	result := &RefetchResult{
		PolarID:    task.PolarID,
		WindSpeeds: bands,
		Ranges:     polar.SortedRanges(bands),
	}

	summaries, err := s.summarizer.SummarizeModel(task.Model, task.Window)
	if err != nil {
		log.Printf("Refetch failed for polar %s: %v", task.PolarID, err)
		result.Error = err.Error()
	} else {
		result.Summaries = summaries
	}
	result.CompletedAt = time.Now().UTC()
	s.metrics.IncRefetch()

	s.mu.Lock()
	if s.gens[task.PolarID] == p.gen {
		s.results[task.PolarID] = result
	}
	s.mu.Unlock()
}
