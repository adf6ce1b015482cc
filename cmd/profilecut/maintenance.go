package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/piwi3910/ProfileCut/internal/project"
)

// maintenanceResult is printed when no cut list is planned.
type maintenanceResult struct {
	RestoredFrom      string `json:"restoredFrom,omitempty"`
	RestoredProfiles  int    `json:"restoredProfiles,omitempty"`
	RestoredTemplates int    `json:"restoredTemplates,omitempty"`
	RestoredPlans     int    `json:"restoredPlans,omitempty"`
	ImportedProfiles  int    `json:"importedProfiles,omitempty"`
	ExportedTo        string `json:"exportedTo,omitempty"`
}

// maintain runs the data flags in order: restore, inventory import, then
// inventory export. The configuration file is not touched by a restore.
func maintain(o options, paths dataPaths, logger *zap.Logger) (maintenanceResult, error) {
	var res maintenanceResult

	if o.restore != "" {
		backup, err := project.ImportAllData(o.restore)
		if err != nil {
			return res, err
		}
		if err := backup.Inventory.Validate(); err != nil {
			return res, fmt.Errorf("backup inventory: %w", err)
		}
		if err := project.SaveInventory(paths.inventory, backup.Inventory); err != nil {
			return res, fmt.Errorf("failed to restore inventory: %w", err)
		}
		if err := project.SaveTemplates(paths.templates, backup.Templates); err != nil {
			return res, fmt.Errorf("failed to restore templates: %w", err)
		}
		if err := project.SavePlans(paths.plans, backup.Plans); err != nil {
			return res, fmt.Errorf("failed to restore plans: %w", err)
		}
		res.RestoredFrom = o.restore
		res.RestoredProfiles = len(backup.Inventory.Profiles)
		res.RestoredTemplates = len(backup.Templates.Templates)
		res.RestoredPlans = len(backup.Plans)
		logger.Info("backup restored",
			zap.String("op", "main.restore"),
			zap.String("path", o.restore),
			zap.String("version", backup.Version),
			zap.Int("plans", res.RestoredPlans),
		)
	}

	if o.importInv != "" {
		inv, err := project.LoadInventory(paths.inventory)
		if err != nil {
			return res, fmt.Errorf("failed to load inventory: %w", err)
		}
		merged, added, err := project.ImportInventory(o.importInv, inv)
		if err != nil {
			return res, err
		}
		if err := project.SaveInventory(paths.inventory, merged); err != nil {
			return res, fmt.Errorf("failed to save inventory: %w", err)
		}
		res.ImportedProfiles = added
		logger.Info("inventory imported", zap.String("op", "main.import"), zap.Int("profiles", added))
	}

	if o.exportInv != "" {
		inv, err := project.LoadInventory(paths.inventory)
		if err != nil {
			return res, fmt.Errorf("failed to load inventory: %w", err)
		}
		if err := project.ExportInventory(o.exportInv, inv); err != nil {
			return res, fmt.Errorf("failed to export inventory: %w", err)
		}
		res.ExportedTo = o.exportInv
	}
	return res, nil
}
