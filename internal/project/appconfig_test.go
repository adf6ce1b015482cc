package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/ProfileCut/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultStrategy = model.StrategyILP
	cfg.MinOffcutLengthMm = 750
	cfg.WastePercent = 12.5
	cfg.PlansPath = "/var/lib/profilecut/plans.json"
	cfg.Logging.Format = "console"

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultStrategy != model.StrategyILP {
		t.Errorf("expected DefaultStrategy=ILP, got %s", loaded.DefaultStrategy)
	}
	if loaded.MinOffcutLengthMm != 750 {
		t.Errorf("expected MinOffcutLengthMm=750, got %d", loaded.MinOffcutLengthMm)
	}
	if loaded.WastePercent != 12.5 {
		t.Errorf("expected WastePercent=12.5, got %f", loaded.WastePercent)
	}
	if loaded.PlansPath != "/var/lib/profilecut/plans.json" {
		t.Errorf("unexpected PlansPath %q", loaded.PlansPath)
	}
	if loaded.Logging.Format != "console" {
		t.Errorf("expected console logging, got %s", loaded.Logging.Format)
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg != model.DefaultAppConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadAppConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"waste_percent": 5}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.WastePercent != 5 {
		t.Errorf("expected WastePercent=5, got %f", cfg.WastePercent)
	}
	if cfg.MinOffcutLengthMm != model.DefaultMinOffcutLengthMm {
		t.Errorf("missing keys should keep defaults, got %d", cfg.MinOffcutLengthMm)
	}
}

func TestLoadAppConfigEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PROFILECUT_DEFAULT_STRATEGY", "ILP")
	t.Setenv("PROFILECUT_MIN_OFFCUT_LENGTH_MM", "300")
	t.Setenv("PROFILECUT_LOGGING_LEVEL", "debug")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.DefaultStrategy != model.StrategyILP {
		t.Errorf("expected env strategy ILP, got %s", cfg.DefaultStrategy)
	}
	if cfg.MinOffcutLengthMm != 300 {
		t.Errorf("expected env offcut 300, got %d", cfg.MinOffcutLengthMm)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected env log level debug, got %s", cfg.Logging.Level)
	}
}

func TestLoadAppConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"default_strategy": "SIMPLEX"}`), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadAppConfig(path)
	if !errors.Is(err, model.ErrInvalidConfiguration) {
		t.Errorf("expected invalid configuration, got %v", err)
	}
}

func TestLoadAppConfigCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAppConfig(path); err == nil {
		t.Error("expected error for corrupt config file")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if filepath.Base(path) != "config.json" {
		t.Errorf("expected config.json, got %s", filepath.Base(path))
	}
	if filepath.Base(filepath.Dir(path)) != ".profilecut" {
		t.Errorf("expected .profilecut dir, got %s", filepath.Dir(path))
	}
}
