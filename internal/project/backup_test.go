package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/piwi3910/ProfileCut/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultStrategy = model.StrategyILP
	templates := model.NewTemplateStore()
	templates.Add(model.NewPlanTemplate("T", "", model.StrategyGreedy, nil))
	plan := model.CutPlanComputation{Items: []model.CutPlanItem{
		{ProfileID: "a", SourceLengthMm: 1000, UsedLengthMm: 600, WasteLengthMm: 400, Segments: []int{600}},
	}}
	rec := model.NewCutPlanRecord("proj", "", nil, plan, time.Now().UTC())

	err := ExportAllData(path, BackupData{
		Config:    cfg,
		Inventory: model.DefaultInventory(),
		Templates: templates,
		Plans:     []model.CutPlanRecord{rec},
	})
	if err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Version != BackupVersion {
		t.Errorf("expected version %s, got %s", BackupVersion, backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if backup.Config.DefaultStrategy != model.StrategyILP {
		t.Errorf("expected ILP, got %s", backup.Config.DefaultStrategy)
	}
	if len(backup.Inventory.Profiles) != 3 {
		t.Errorf("expected 3 profiles, got %d", len(backup.Inventory.Profiles))
	}
	if len(backup.Templates.Templates) != 1 {
		t.Errorf("expected 1 template, got %d", len(backup.Templates.Templates))
	}
	if len(backup.Plans) != 1 || backup.Plans[0].ID != rec.ID {
		t.Errorf("expected plan %s, got %+v", rec.ID, backup.Plans)
	}
	if backup.Plans[0].Items[0].Segments[0] != 600 {
		t.Errorf("plan items lost in round trip: %+v", backup.Plans[0].Items)
	}
}

func TestExportAllDataEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "backup.json")
	if err := ExportAllData(path, BackupData{Config: model.DefaultAppConfig()}); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}
	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Plans == nil || backup.Templates.Templates == nil {
		t.Error("collections should be empty, not nil")
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"created_at": "2024-01-01T00:00:00Z"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportAllData(path); err == nil {
		t.Error("expected error for missing version")
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	if _, err := ImportAllData(filepath.Join(t.TempDir(), "none.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestImportAllDataOtherMajorVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v2.json")
	if err := os.WriteFile(path, []byte(`{"version": "2.0.0"}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportAllData(path); err == nil {
		t.Error("expected error for unsupported version")
	}

	if err := os.WriteFile(path, []byte(`{"version": "1.3.0"}`), 0644); err != nil {
		t.Fatal(err)
	}
	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("minor version should load: %v", err)
	}
	if backup.Inventory.Profiles == nil {
		t.Error("profiles should be empty, not nil")
	}
}
