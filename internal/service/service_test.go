package service

import (
	"path/filepath"
	"testing"

	"github.com/jengzang/polar-backend-go/internal/database"
	"github.com/jengzang/polar-backend-go/internal/observability"
	"github.com/jengzang/polar-backend-go/internal/repository"
	"github.com/jengzang/polar-backend-go/migrations"
	"github.com/prometheus/client_golang/prometheus"
)

const testPolar = `! Test boat
6	0	0	45	4	90	5.5	180	4
12	0	0	45	6	90	7	180	6.5
20	0	0	45	7	90	8.5	180	9
`

type testEnv struct {
	polars    *PolarService
	telemetry *TelemetryService
	metrics   *observability.PolarCollector
	refetch   *recordingEnqueuer
}

type recordingEnqueuer struct {
	tasks []RefetchTask
}

func (r *recordingEnqueuer) Enqueue(task RefetchTask) {
	r.tasks = append(r.tasks, task)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "service.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.NewMigrationManager(db, migrations.FS).RunMigrations(); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}

	metrics, err := observability.NewPolarCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewPolarCollector: %v", err)
	}
	refetch := &recordingEnqueuer{}
	return &testEnv{
		polars:    NewPolarService(repository.NewPolarRepository(db), metrics, refetch),
		telemetry: NewTelemetryService(repository.NewTelemetryRepository(db), 2.5, metrics),
		metrics:   metrics,
		refetch:   refetch,
	}
}
