// ProfileCut plans how to cut uPVC window profile bars from stock.
//
// Usage:
//
//	profilecut -requirements cuts.csv -project site-12 -pdf plan.pdf
//	profilecut -dxf elevation.dxf -frame-type Frame-A -strategy ILP -compare
//	profilecut -template "Casement 1200x1000" -batch 6 -apply -keep-offcuts
//	profilecut -restore backup.json
//
// Configuration is read from ~/.profilecut/config.json (or -config) with
// PROFILECUT_* environment overrides; a .env file in the working directory
// is loaded first.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/piwi3910/ProfileCut/internal/engine"
	"github.com/piwi3910/ProfileCut/internal/model"
	"github.com/piwi3910/ProfileCut/internal/planning"
	"github.com/piwi3910/ProfileCut/internal/project"
)

type options struct {
	configPath    string
	inventoryPath string
	requirements  string
	stock         string
	dxf           string
	frameType     string
	template      string
	batch         int
	saveTemplate  string
	strategy      string
	projectID     string
	wallID        string
	pdf           string
	labels        string
	xlsx          string
	compare       bool
	apply         bool
	keepOffcuts   bool
	estimateSKU   string
	backup        string
	restore       string
	importInv     string
	exportInv     string
	logLevel      string
}

// plans reports whether the run has a cut list to plan.
func (o options) plans() bool {
	return o.requirements != "" || o.dxf != "" || o.template != ""
}

// comparisonRow is the JSON form of one scenario result.
type comparisonRow struct {
	Scenario     string         `json:"scenario"`
	Strategy     model.Strategy `json:"strategy"`
	StocksUsed   int            `json:"stocksUsed,omitempty"`
	WastePercent float64        `json:"wastePercent,omitempty"`
	Error        string         `json:"error,omitempty"`
}

type output struct {
	Plan       model.CutPlanRecord      `json:"plan"`
	Cost       string                   `json:"cost"`
	Offcuts    []model.Offcut           `json:"offcuts"`
	Kept       []model.InventoryProfile `json:"keptOffcuts,omitempty"`
	Estimate   *model.PurchaseEstimate  `json:"estimate,omitempty"`
	Gasket     *model.GasketSummary     `json:"gasket,omitempty"`
	Comparison []comparisonRow          `json:"comparison,omitempty"`
	Warnings   []string                 `json:"warnings,omitempty"`
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("profilecut", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", project.DefaultConfigPath(), "path to configuration file")
	fs.StringVar(&o.inventoryPath, "inventory", "", "stock catalog JSON file (default from config)")
	fs.StringVar(&o.requirements, "requirements", "", "cut list to plan (.csv or .xlsx)")
	fs.StringVar(&o.stock, "stock", "", "stock list to merge into the catalog (.csv or .xlsx)")
	fs.StringVar(&o.dxf, "dxf", "", "DXF elevation to read window openings from")
	fs.StringVar(&o.frameType, "frame-type", "", "profile type for frames read from -dxf")
	fs.StringVar(&o.template, "template", "", "name of a saved template to plan")
	fs.IntVar(&o.batch, "batch", 1, "number of times the -template cut list is needed")
	fs.StringVar(&o.saveTemplate, "save-template", "", "save the cut list as a template with this name")
	fs.StringVar(&o.strategy, "strategy", "", "planning strategy: GREEDY or ILP (default from config)")
	fs.StringVar(&o.projectID, "project", "default", "project id the plan belongs to")
	fs.StringVar(&o.wallID, "wall", "", "wall id the plan belongs to")
	fs.StringVar(&o.pdf, "pdf", "", "write the plan as PDF to this path")
	fs.StringVar(&o.labels, "labels", "", "write QR segment labels as PDF to this path")
	fs.StringVar(&o.xlsx, "xlsx", "", "write the plan as an Excel workbook to this path")
	fs.BoolVar(&o.compare, "compare", false, "also compare the default planning scenarios")
	fs.BoolVar(&o.apply, "apply", false, "take the planned bars out of stock")
	fs.BoolVar(&o.keepOffcuts, "keep-offcuts", false, "with -apply, add reusable offcuts to the catalog")
	fs.StringVar(&o.estimateSKU, "estimate", "", "estimate bars to buy of the catalog profile with this SKU")
	fs.StringVar(&o.backup, "backup", "", "write a backup of all data to this path")
	fs.StringVar(&o.restore, "restore", "", "replace catalog, templates and plans with a backup file")
	fs.StringVar(&o.importInv, "import-inventory", "", "merge the catalog stored in this JSON file")
	fs.StringVar(&o.exportInv, "export-inventory", "", "write the catalog to this JSON file")
	fs.StringVar(&o.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if !o.plans() && o.restore == "" && o.importInv == "" && o.exportInv == "" {
		return o, errors.New("one of -requirements, -dxf, -template, -restore, -import-inventory or -export-inventory is required")
	}
	if o.keepOffcuts && !o.apply {
		return o, errors.New("-keep-offcuts requires -apply")
	}
	return o, nil
}

func main() {
	// Variables from .env become PROFILECUT_* overrides; a missing file is fine.
	_ = godotenv.Load()

	o, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := project.LoadAppConfig(o.configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := initializeLogger(cfg.Logging, o.logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err = run(o, cfg, logger, os.Stdout)
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(o options, cfg model.AppConfig, logger *zap.Logger, stdout io.Writer) error {
	paths, err := resolvePaths(o, cfg)
	if err != nil {
		return err
	}

	maintenance, err := maintain(o, paths, logger)
	if err != nil {
		return err
	}
	if !o.plans() {
		return printJSON(stdout, maintenance)
	}

	strategy := cfg.DefaultStrategy
	if o.strategy != "" {
		if strategy, err = model.ParseStrategy(o.strategy); err != nil {
			return err
		}
	}

	inventory := planning.FileInventory{Path: paths.inventory}
	inv, err := inventory.Load()
	if err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}

	var warnings []string
	if o.stock != "" {
		added, w, err := mergeStock(o.stock, &inv)
		if err != nil {
			return err
		}
		warnings = append(warnings, w...)
		if err := inventory.Save(inv); err != nil {
			return fmt.Errorf("failed to save inventory: %w", err)
		}
		logger.Info("stock imported", zap.String("op", "main"), zap.Int("profiles", added))
	}

	templates, err := project.LoadTemplates(paths.templates)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	req := planning.GenerateRequest{ProjectID: o.projectID, WallID: o.wallID, Strategy: strategy}
	w, err := collectInput(o, templates, &req)
	if err != nil {
		return err
	}
	warnings = append(warnings, w...)
	for _, msg := range warnings {
		logger.Warn("import warning: "+msg, zap.String("op", "main"))
	}

	if o.saveTemplate != "" {
		reqs := req.Requirements
		if len(reqs) == 0 {
			reqs = model.InferRequirements(req.Windows)
		}
		templates.Add(model.NewPlanTemplate(o.saveTemplate, "", strategy, reqs))
		if err := project.SaveTemplates(paths.templates, templates); err != nil {
			return fmt.Errorf("failed to save templates: %w", err)
		}
	}

	store, err := project.OpenPlanStore(paths.plans)
	if err != nil {
		return err
	}
	svc := planning.NewService(logger, engine.New(), inventory, store)

	rec, err := svc.Generate(req)
	if err != nil {
		return err
	}
	var kept []model.InventoryProfile
	switch {
	case o.apply && o.keepOffcuts:
		if rec, kept, err = svc.ApplyKeepingOffcuts(rec.ID, cfg.MinOffcutLengthMm); err != nil {
			return err
		}
	case o.apply:
		if rec, err = svc.Apply(rec.ID); err != nil {
			return err
		}
	}

	plan := rec.Computation()
	if err := writeExports(o, plan, inv); err != nil {
		return err
	}

	offcuts, err := svc.Offcuts(rec.ID, cfg.MinOffcutLengthMm)
	if err != nil {
		return err
	}
	out := output{
		Plan:     rec,
		Cost:     model.PlanCost(plan, inv).StringFixed(2),
		Offcuts:  offcuts,
		Kept:     kept,
		Warnings: warnings,
	}
	if out.Offcuts == nil {
		out.Offcuts = []model.Offcut{}
	}

	if o.estimateSKU != "" {
		p := inv.FindBySKU(o.estimateSKU)
		if p == nil {
			return fmt.Errorf("no catalog profile with sku %q", o.estimateSKU)
		}
		est := model.CalculatePurchaseEstimate(rec.Requirements, p.LengthMm, p.ScrapAllowanceMm, cfg.WastePercent, p.PricePerBar)
		out.Estimate = &est
	}

	if len(req.Windows) > 0 {
		gasket := model.CalculateGasket(req.Windows, cfg.WastePercent)
		out.Gasket = &gasket
	}

	if o.compare {
		out.Comparison = compare(strategy, inv, rec.Requirements)
	}

	if o.backup != "" {
		latest, err := inventory.Load()
		if err != nil {
			return fmt.Errorf("failed to load inventory: %w", err)
		}
		backup := project.BackupData{Config: cfg, Inventory: latest, Templates: templates, Plans: store.All()}
		if err := project.ExportAllData(o.backup, backup); err != nil {
			return err
		}
	}

	return printJSON(stdout, out)
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

type dataPaths struct {
	inventory string
	plans     string
	templates string
}

func resolvePaths(o options, cfg model.AppConfig) (dataPaths, error) {
	p := dataPaths{inventory: cfg.InventoryPath, plans: cfg.PlansPath, templates: cfg.TemplatesPath}
	if o.inventoryPath != "" {
		p.inventory = o.inventoryPath
	}

	var err error
	if p.inventory == "" {
		if p.inventory, err = project.DefaultInventoryPath(); err != nil {
			return p, err
		}
	}
	if p.plans == "" {
		if p.plans, err = project.DefaultPlansPath(); err != nil {
			return p, err
		}
	}
	if p.templates == "" {
		if p.templates, err = project.DefaultTemplatePath(); err != nil {
			return p, err
		}
	}
	return p, nil
}
