package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/piwi3910/ProfileCut/internal/model"
)

func testRecord(projectID, wallID string, at time.Time) model.CutPlanRecord {
	plan := model.CutPlanComputation{
		Items: []model.CutPlanItem{
			{ProfileID: "a", SourceLengthMm: 1000, UsedLengthMm: 700, WasteLengthMm: 300, Segments: []int{700}},
		},
		Summary: model.CutPlanSummary{StocksUsed: 1},
	}
	return model.NewCutPlanRecord(projectID, wallID, nil, plan, at)
}

func TestPlanStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.json")
	store, err := OpenPlanStore(path)
	if err != nil {
		t.Fatalf("OpenPlanStore failed: %v", err)
	}

	rec := testRecord("proj", "wall", time.Now().UTC())
	if err := store.Add(rec); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.Add(rec); err == nil {
		t.Error("expected duplicate id to be rejected")
	}

	reopened, err := OpenPlanStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got, err := reopened.Get(rec.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ProjectID != "proj" || got.WallID != "wall" || len(got.Items) != 1 {
		t.Errorf("unexpected record %+v", got)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("created at changed: %v vs %v", got.CreatedAt, rec.CreatedAt)
	}
}

func TestPlanStoreListNewestFirst(t *testing.T) {
	store := NewMemoryPlanStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	older := testRecord("proj", "w1", base)
	newer := testRecord("proj", "w2", base.Add(time.Hour))
	other := testRecord("other", "w1", base.Add(2*time.Hour))
	for _, r := range []model.CutPlanRecord{older, newer, other} {
		if err := store.Add(r); err != nil {
			t.Fatal(err)
		}
	}

	list := store.List("proj", "")
	if len(list) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(list))
	}
	if list[0].ID != newer.ID || list[1].ID != older.ID {
		t.Error("expected newest plan first")
	}

	if wall := store.List("proj", "w1"); len(wall) != 1 || wall[0].ID != older.ID {
		t.Errorf("wall filter failed: %+v", wall)
	}
	if all := store.List("", ""); len(all) != 3 {
		t.Errorf("expected 3 plans unfiltered, got %d", len(all))
	}
	if none := store.List("missing", ""); none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil list, got %v", none)
	}
}

func TestPlanStoreUpdateDelete(t *testing.T) {
	store := NewMemoryPlanStore()
	rec := testRecord("proj", "", time.Now())
	if err := store.Add(rec); err != nil {
		t.Fatal(err)
	}

	rec.Status = model.PlanStatusApplied
	if err := store.Update(rec); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ := store.Get(rec.ID)
	if got.Status != model.PlanStatusApplied {
		t.Errorf("expected APPLIED, got %s", got.Status)
	}

	if err := store.Delete(rec.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(rec.ID); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
	if err := store.Delete(rec.ID); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
	if err := store.Update(rec); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("expected not found on update, got %v", err)
	}
}

func TestPlanStoreConcurrentAdd(t *testing.T) {
	store := NewMemoryPlanStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Add(testRecord(fmt.Sprintf("p%d", i%3), "", time.Now()))
		}(i)
	}
	wg.Wait()
	if n := len(store.All()); n != 20 {
		t.Errorf("expected 20 plans, got %d", n)
	}
}

func TestLoadPlansMissingFile(t *testing.T) {
	plans, err := LoadPlans(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plans == nil || len(plans) != 0 {
		t.Errorf("expected empty list, got %v", plans)
	}
}

// breakPlansDir replaces the directory holding the plans file with a regular
// file so every later write fails.
func breakPlansDir(t *testing.T, dir string) {
	t.Helper()
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dir, []byte("not a directory"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestPlanStoreFailedWriteKeepsState(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sub")
	store, err := OpenPlanStore(filepath.Join(dir, "plans.json"))
	if err != nil {
		t.Fatalf("OpenPlanStore failed: %v", err)
	}
	rec := testRecord("proj", "", time.Now())
	if err := store.Add(rec); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	breakPlansDir(t, dir)

	if err := store.Add(testRecord("proj", "", time.Now())); err == nil {
		t.Error("expected Add to fail")
	}
	if n := len(store.All()); n != 1 {
		t.Errorf("failed Add must not store the record, got %d plans", n)
	}

	applied := rec
	applied.Status = model.PlanStatusApplied
	if err := store.Update(applied); err == nil {
		t.Error("expected Update to fail")
	}
	if got, _ := store.Get(rec.ID); got.Status != model.PlanStatusCompleted {
		t.Errorf("failed Update must keep the old record, got %s", got.Status)
	}

	if err := store.Delete(rec.ID); err == nil {
		t.Error("expected Delete to fail")
	}
	if _, err := store.Get(rec.ID); err != nil {
		t.Errorf("failed Delete must keep the record: %v", err)
	}
}
