package project

import (
	"fmt"
	"strings"
	"time"

	"github.com/piwi3910/ProfileCut/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string                `json:"version"`
	CreatedAt string                `json:"created_at"`
	Config    model.AppConfig       `json:"config"`
	Inventory model.Inventory       `json:"inventory"`
	Templates model.TemplateStore   `json:"templates"`
	Plans     []model.CutPlanRecord `json:"plans"`
}

// ExportAllData writes config, catalog, templates and stored plans to a
// single JSON file at the specified path.
func ExportAllData(exportPath string, backup BackupData) error {
	backup.Version = BackupVersion
	backup.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	if backup.Inventory.Profiles == nil {
		backup.Inventory.Profiles = []model.InventoryProfile{}
	}
	if backup.Templates.Templates == nil {
		backup.Templates.Templates = []model.PlanTemplate{}
	}
	if backup.Plans == nil {
		backup.Plans = []model.CutPlanRecord{}
	}

	if err := writeJSON(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// Backups from another major version are rejected. The caller is
// responsible for applying the data.
func ImportAllData(importPath string) (BackupData, error) {
	var backup BackupData
	found, err := readJSON(importPath, &backup)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if !found {
		return BackupData{}, fmt.Errorf("backup file %s does not exist", importPath)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if majorVersion(backup.Version) != majorVersion(BackupVersion) {
		return BackupData{}, fmt.Errorf("unsupported backup version %s", backup.Version)
	}

	if backup.Inventory.Profiles == nil {
		backup.Inventory.Profiles = []model.InventoryProfile{}
	}
	if backup.Templates.Templates == nil {
		backup.Templates.Templates = []model.PlanTemplate{}
	}
	if backup.Plans == nil {
		backup.Plans = []model.CutPlanRecord{}
	}
	return backup, nil
}

func majorVersion(v string) string {
	major, _, _ := strings.Cut(v, ".")
	return major
}
