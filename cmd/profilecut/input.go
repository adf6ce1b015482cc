package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/piwi3910/ProfileCut/internal/engine"
	"github.com/piwi3910/ProfileCut/internal/export"
	"github.com/piwi3910/ProfileCut/internal/importer"
	"github.com/piwi3910/ProfileCut/internal/model"
	"github.com/piwi3910/ProfileCut/internal/planning"
)

// collectInput fills the request from the cut list, DXF drawing and
// template options and returns the import warnings. Explicit requirements
// from a file or template win over DXF windows.
func collectInput(o options, templates model.TemplateStore, req *planning.GenerateRequest) ([]string, error) {
	var warnings []string

	if o.template != "" {
		t := templates.FindByName(o.template)
		if t == nil {
			t = templates.FindByID(o.template)
		}
		if t == nil {
			return nil, fmt.Errorf("template %q not found", o.template)
		}
		for _, r := range t.Scaled(o.batch) {
			req.Requirements = model.AddRequirement(req.Requirements, r)
		}
		if o.strategy == "" && t.Strategy != "" {
			req.Strategy = t.Strategy
		}
	}

	if o.requirements != "" {
		var result importer.ImportResult
		if isExcel(o.requirements) {
			result = importer.ImportExcel(o.requirements)
		} else {
			result = importer.ImportCSV(o.requirements)
		}
		if len(result.Errors) > 0 {
			return nil, importFailure(o.requirements, result.Errors)
		}
		warnings = append(warnings, result.Warnings...)
		for _, r := range result.Requirements {
			req.Requirements = model.AddRequirement(req.Requirements, r)
		}
	}

	if o.dxf != "" {
		result := importer.ImportDXF(o.dxf)
		if len(result.Errors) > 0 {
			return nil, importFailure(o.dxf, result.Errors)
		}
		warnings = append(warnings, result.Warnings...)
		frame := &model.WindowFrame{ID: "dxf", Label: filepath.Base(o.dxf)}
		if o.frameType != "" {
			frame.Materials = map[string]string{"frame": o.frameType}
		}
		for _, w := range result.Windows {
			w.WallID = o.wallID
			w.Frame = frame
			req.Windows = append(req.Windows, w)
		}
		if len(req.Requirements) > 0 {
			for _, r := range model.InferRequirements(req.Windows) {
				req.Requirements = model.AddRequirement(req.Requirements, r)
			}
		}
	}
	return warnings, nil
}

// mergeStock imports a stock list and adds its profiles to inv. Profiles
// whose SKU is already in the catalog are skipped with a warning.
func mergeStock(path string, inv *model.Inventory) (int, []string, error) {
	var result importer.StockImportResult
	if isExcel(path) {
		result = importer.ImportStockExcel(path)
	} else {
		result = importer.ImportStockCSV(path)
	}
	if len(result.Errors) > 0 {
		return 0, nil, importFailure(path, result.Errors)
	}

	warnings := result.Warnings
	added := 0
	for _, p := range result.Profiles {
		if err := inv.Add(p); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", p.SKU, err))
			continue
		}
		added++
	}
	return added, warnings, nil
}

func writeExports(o options, plan model.CutPlanComputation, inv model.Inventory) error {
	if o.pdf != "" {
		if err := export.ExportPDF(o.pdf, plan, inv); err != nil {
			return fmt.Errorf("failed to export PDF: %w", err)
		}
	}
	if o.labels != "" {
		if err := export.ExportLabels(o.labels, plan); err != nil {
			return fmt.Errorf("failed to export labels: %w", err)
		}
	}
	if o.xlsx != "" {
		if err := export.ExportExcel(o.xlsx, plan); err != nil {
			return fmt.Errorf("failed to export Excel: %w", err)
		}
	}
	return nil
}

func compare(strategy model.Strategy, inv model.Inventory, reqs []model.CutRequirement) []comparisonRow {
	results := engine.CompareScenarios(engine.BuildDefaultScenarios(strategy), inv.StockProfiles(), reqs)
	rows := make([]comparisonRow, len(results))
	for i, r := range results {
		rows[i] = comparisonRow{Scenario: r.Scenario.Name, Strategy: r.Scenario.Strategy}
		if r.Err != nil {
			rows[i].Error = r.Err.Error()
			continue
		}
		rows[i].StocksUsed = r.StocksUsed
		rows[i].WastePercent = r.WastePercent
	}
	return rows
}

func isExcel(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".xlsx" || ext == ".xlsm"
}

func importFailure(path string, errs []string) error {
	return errors.New(filepath.Base(path) + ": " + strings.Join(errs, "; "))
}
