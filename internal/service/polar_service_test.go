package service

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/jengzang/polar-backend-go/internal/polar"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCreateAndGet(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.polars.Create("Test boat", testPolar)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.BandCount != 3 {
		t.Fatalf("Create = %+v", created.PolarDocument)
	}

	got, err := env.polars.Get(created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Bands) != 3 || got.Bands[1].WindSpeed != 12 {
		t.Fatalf("bands = %v", got.WindSpeeds)
	}
	if len(got.Ranges) != 3 || got.Ranges[1].MinTWS != 9 || got.Ranges[1].MaxTWS != 16 {
		t.Fatalf("ranges = %+v", got.Ranges)
	}
	if len(env.refetch.tasks) != 1 {
		t.Fatalf("refetch tasks after create = %d, want 1", len(env.refetch.tasks))
	}
}

func TestCreateRejectsMalformedPolar(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.polars.Create("bad", "10\t0\t0\t90")
	var fe *polar.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want FormatError", err)
	}
	_, err = env.polars.Create("bad", "10\t0\tx")
	var ne *polar.NumericError
	if !errors.As(err, &ne) {
		t.Fatalf("err = %v, want NumericError", err)
	}
	if got := testutil.ToFloat64(env.metrics.ParseFailures.WithLabelValues("format")); got != 1 {
		t.Fatalf("format failures = %v, want 1", got)
	}
	if _, err := env.polars.Create("empty", "! nothing here"); err == nil {
		t.Fatal("expected error for polar without bands")
	}
}

func TestMutationsPersist(t *testing.T) {
	env := newTestEnv(t)
	created, err := env.polars.Create("Test boat", testPolar)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := created.ID

	if _, err := env.polars.SetBoatSpeed(id, 12, 90, 7.4); err != nil {
		t.Fatalf("SetBoatSpeed: %v", err)
	}
	if _, err := env.polars.AddAngle(id, 12, 60, 6.8); err != nil {
		t.Fatalf("AddAngle: %v", err)
	}
	if _, err := env.polars.RenameAnchor(id, 6, 45.05, 40, 3.9); err != nil {
		t.Fatalf("RenameAnchor: %v", err)
	}

	_, model, err := env.polars.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := polar.Evaluate(model.Band(12), 90); got != 7.4 {
		t.Fatalf("band 12 at 90 = %v, want 7.4", got)
	}
	if got := polar.Evaluate(model.Band(12), 60); got != 6.8 {
		t.Fatalf("band 12 at 60 = %v, want 6.8", got)
	}
	// band 20 receives its own interpolation at 60: 7 + 15/45*1.5
	if got := model.Band(20).AnchorPoints[2]; got.Angle != 60 || math.Abs(got.BoatSpeed-7.5) > 1e-9 {
		t.Fatalf("band 20 inserted point = %+v, want {60 7.5}", got)
	}
	if !model.Band(6).HasAngle(40) || model.Band(6).HasAngle(45) {
		t.Fatalf("band 6 angles after rename = %+v", model.Band(6).AnchorPoints)
	}
	if len(env.refetch.tasks) != 1 {
		t.Fatalf("anchor edits should not enqueue refetches, got %d tasks", len(env.refetch.tasks))
	}
}

func TestDeleteAngleGuards(t *testing.T) {
	env := newTestEnv(t)
	created, _ := env.polars.Create("Test boat", testPolar)

	if _, err := env.polars.DeleteAngle(created.ID, 12, 180); !errors.Is(err, polar.ErrProtectedAngle) {
		t.Fatalf("DeleteAngle(180) err = %v, want ErrProtectedAngle", err)
	}
	if _, err := env.polars.DeleteAngle(created.ID, 99, 45); !errors.Is(err, polar.ErrBandNotFound) {
		t.Fatalf("DeleteAngle on unknown band err = %v, want ErrBandNotFound", err)
	}
	res, err := env.polars.DeleteAngle(created.ID, 12, 45)
	if err != nil {
		t.Fatalf("DeleteAngle(45): %v", err)
	}
	if len(res.Bands[1].AnchorPoints) != 3 {
		t.Fatalf("band 12 anchors = %+v", res.Bands[1].AnchorPoints)
	}
}

func TestDeleteAngleRefusesLastAnchor(t *testing.T) {
	env := newTestEnv(t)
	created, err := env.polars.Create("sparse", "10\t90\t6")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := env.polars.DeleteAngle(created.ID, 10, 90); !errors.Is(err, ErrLastAnchor) {
		t.Fatalf("err = %v, want ErrLastAnchor", err)
	}
}

func TestBandMutationsEnqueueRefetch(t *testing.T) {
	env := newTestEnv(t)
	created, _ := env.polars.Create("Test boat", testPolar)

	res, err := env.polars.AddBand(created.ID, 16)
	if err != nil {
		t.Fatalf("AddBand: %v", err)
	}
	if res.BandCount != 4 {
		t.Fatalf("BandCount = %d, want 4", res.BandCount)
	}
	if _, err := env.polars.AddBand(created.ID, 16); err != nil {
		t.Fatalf("duplicate AddBand: %v", err)
	}
	if _, err := env.polars.DeleteBand(created.ID, 6); err != nil {
		t.Fatalf("DeleteBand: %v", err)
	}

	if len(env.refetch.tasks) != 3 {
		t.Fatalf("refetch tasks = %d, want 3 (create, add, delete)", len(env.refetch.tasks))
	}
	last := env.refetch.tasks[2].Model.WindSpeeds()
	if len(last) != 3 || last[0] != 12 || last[1] != 16 {
		t.Fatalf("snapshot bands = %v, want [12 16 20]", last)
	}
}

func TestDeleteBandKeepsLastBand(t *testing.T) {
	env := newTestEnv(t)
	created, _ := env.polars.Create("single", "10\t0\t0\t180\t3")

	res, err := env.polars.DeleteBand(created.ID, 10)
	if err != nil {
		t.Fatalf("DeleteBand: %v", err)
	}
	if res.BandCount != 1 {
		t.Fatalf("BandCount = %d, want 1", res.BandCount)
	}
}

func TestReadOperations(t *testing.T) {
	env := newTestEnv(t)
	created, _ := env.polars.Create("Test boat", testPolar)

	dense, err := env.polars.Dense(created.ID, 12)
	if err != nil || len(dense) != 181 {
		t.Fatalf("Dense = %d points, %v", len(dense), err)
	}

	ev, err := env.polars.Evaluate(created.ID, 13, 67.5)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ev.Band != 12 || math.Abs(ev.BoatSpeed-6.5) > 1e-9 {
		t.Fatalf("Evaluate = %+v, want band 12 speed 6.5", ev)
	}

	name, text, err := env.polars.Export(created.ID)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if name != "Test boat" || !strings.HasPrefix(text, "! Test boat\n") {
		t.Fatalf("Export = %q, %q", name, text)
	}
}

func TestMissingPolar(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.polars.Get("nope"); !errors.Is(err, ErrPolarNotFound) {
		t.Fatalf("Get err = %v, want ErrPolarNotFound", err)
	}
	if _, err := env.polars.AddBand("nope", 10); !errors.Is(err, ErrPolarNotFound) {
		t.Fatalf("AddBand err = %v, want ErrPolarNotFound", err)
	}
	if err := env.polars.Delete("nope"); !errors.Is(err, ErrPolarNotFound) {
		t.Fatalf("Delete err = %v, want ErrPolarNotFound", err)
	}
}

func TestRenameOntoExistingAngleKeepsDocumentReadable(t *testing.T) {
	env := newTestEnv(t)
	created, err := env.polars.Create("rename", "10\t0\t0\t45\t4\t90\t6\t180\t3")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := env.polars.RenameAnchor(created.ID, 10, 45, 90, 5); err != nil {
		t.Fatalf("RenameAnchor: %v", err)
	}
	if _, err := env.polars.RenameAnchor(created.ID, 10, 0, 20, 1); !errors.Is(err, polar.ErrProtectedAngle) {
		t.Fatalf("RenameAnchor off 0 err = %v, want ErrProtectedAngle", err)
	}

	got, err := env.polars.Get(created.ID)
	if err != nil {
		t.Fatalf("Get after rename: %v", err)
	}
	want := []polar.AnchorPoint{{Angle: 0, BoatSpeed: 0}, {Angle: 45, BoatSpeed: 4}, {Angle: 90, BoatSpeed: 6}, {Angle: 180, BoatSpeed: 3}}
	pts := got.Bands[0].AnchorPoints
	if len(pts) != len(want) {
		t.Fatalf("anchors = %+v, want %+v", pts, want)
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Fatalf("anchors = %+v, want %+v", pts, want)
		}
	}
}

func TestMutationsRejectUnstorableValues(t *testing.T) {
	env := newTestEnv(t)
	created, err := env.polars.Create("values", "10\t0\t0\t90\t6\t180\t3")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := created.ID

	for _, angle := range []float64{math.NaN(), math.Inf(1), -1, 180.5} {
		if _, err := env.polars.SetBoatSpeed(id, 10, angle, 5); !errors.Is(err, polar.ErrInvalidAngle) {
			t.Fatalf("SetBoatSpeed(angle %v) err = %v, want ErrInvalidAngle", angle, err)
		}
		if _, err := env.polars.AddAngle(id, 10, angle, 5); !errors.Is(err, polar.ErrInvalidAngle) {
			t.Fatalf("AddAngle(angle %v) err = %v, want ErrInvalidAngle", angle, err)
		}
	}
	for _, speed := range []float64{math.NaN(), math.Inf(1), -2} {
		if _, err := env.polars.SetBoatSpeed(id, 10, 60, speed); !errors.Is(err, ErrInvalidSpeed) {
			t.Fatalf("SetBoatSpeed(speed %v) err = %v, want ErrInvalidSpeed", speed, err)
		}
		if _, err := env.polars.AddBand(id, speed); !errors.Is(err, ErrInvalidSpeed) {
			t.Fatalf("AddBand(%v) err = %v, want ErrInvalidSpeed", speed, err)
		}
	}

	got, err := env.polars.Get(id)
	if err != nil {
		t.Fatalf("Get after rejected mutations: %v", err)
	}
	if len(got.Bands) != 1 || len(got.Bands[0].AnchorPoints) != 3 {
		t.Fatalf("document changed: %+v", got.Bands)
	}
}

func TestCreateNameCannotInjectBands(t *testing.T) {
	env := newTestEnv(t)
	created, err := env.polars.Create("boat\n99 0 0", "10\t0\t0\t90\t6\t180\t3")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Name != "boat 99 0 0" {
		t.Fatalf("Name = %q", created.Name)
	}

	got, err := env.polars.Get(created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.WindSpeeds) != 1 || got.WindSpeeds[0] != 10 {
		t.Fatalf("bands after reload = %v, want [10]", got.WindSpeeds)
	}
	if _, err := env.polars.AddBand(created.ID, 14); err != nil {
		t.Fatalf("AddBand after reload: %v", err)
	}
	got, err = env.polars.Get(created.ID)
	if err != nil || len(got.WindSpeeds) != 2 {
		t.Fatalf("Get after AddBand = %v, %v", got, err)
	}
}
