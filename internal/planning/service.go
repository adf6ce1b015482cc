// Package planning stores and applies cut plans for projects and walls.
// It resolves requirements, runs the planner against the current stock
// catalog and keeps the resulting records.
package planning

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/piwi3910/ProfileCut/internal/engine"
	"github.com/piwi3910/ProfileCut/internal/model"
	"github.com/piwi3910/ProfileCut/internal/project"
)

// ErrAlreadyApplied is returned when stock for a plan was consumed before.
var ErrAlreadyApplied = errors.New("cut plan already applied")

// GenerateRequest describes one plan computation. Requirements take
// precedence; without them they are inferred from Windows.
type GenerateRequest struct {
	ProjectID    string                 `json:"projectId"`
	WallID       string                 `json:"wallId,omitempty"`
	Strategy     model.Strategy         `json:"strategy,omitempty"`
	Requirements []model.CutRequirement `json:"requirements,omitempty"`
	Windows      []model.WindowInstance `json:"windows,omitempty"`
}

// Service generates, stores and applies cut plans.
type Service struct {
	mu sync.Mutex // serializes stock changes

	logger    *zap.Logger
	planner   *engine.Planner
	inventory InventorySource
	store     *project.PlanStore
	now       func() time.Time
}

// NewService wires a planning service. A nil logger disables logging and a
// nil planner uses the default greedy planner.
func NewService(logger *zap.Logger, planner *engine.Planner, inventory InventorySource, store *project.PlanStore) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if planner == nil {
		planner = engine.New()
	}
	if store == nil {
		store = project.NewMemoryPlanStore()
	}
	return &Service{
		logger:    logger,
		planner:   planner,
		inventory: inventory,
		store:     store,
		now:       time.Now,
	}
}

// Generate computes a plan for the request and stores it with status
// COMPLETED. Nothing is stored when planning fails.
func (s *Service) Generate(req GenerateRequest) (model.CutPlanRecord, error) {
	const op = "planning.Generate"

	if req.ProjectID == "" {
		return model.CutPlanRecord{}, &model.InvalidConfigurationError{Field: "projectId", Reason: "project id is required"}
	}

	reqs := req.Requirements
	if len(reqs) == 0 {
		reqs = model.InferRequirements(req.Windows)
	}
	if len(reqs) == 0 {
		return model.CutPlanRecord{}, &model.InvalidConfigurationError{
			Field:  "requirements",
			Reason: "no cut requirements were supplied or could be inferred from the windows",
		}
	}

	inv, err := s.inventory.Load()
	if err != nil {
		return model.CutPlanRecord{}, fmt.Errorf("failed to load inventory: %w", err)
	}
	profiles := inv.StockProfiles()
	if len(profiles) == 0 {
		return model.CutPlanRecord{}, &model.InvalidConfigurationError{
			Field:  "profiles",
			Reason: "no inventory profiles are in stock; unable to compute a cut plan",
		}
	}
	if err := model.ValidatePlanInput(profiles, reqs); err != nil {
		return model.CutPlanRecord{}, err
	}

	plan, err := s.planner.Plan(req.Strategy, profiles, reqs)
	if err != nil {
		s.logger.Warn("cut plan failed",
			zap.String("op", op),
			zap.String("project", req.ProjectID),
			zap.Error(err),
		)
		return model.CutPlanRecord{}, err
	}

	if plan.Summary.StrategyUsed != plan.Summary.StrategyRequested {
		s.logger.Warn("strategy substituted",
			zap.String("op", op),
			zap.String("requested", string(plan.Summary.StrategyRequested)),
			zap.String("used", string(plan.Summary.StrategyUsed)),
		)
	}

	rec := model.NewCutPlanRecord(req.ProjectID, req.WallID, reqs, plan, s.now().UTC())
	if err := s.store.Add(rec); err != nil {
		return model.CutPlanRecord{}, fmt.Errorf("failed to store cut plan: %w", err)
	}

	s.logger.Info("cut plan computed",
		zap.String("op", op),
		zap.String("plan", rec.ID),
		zap.String("project", rec.ProjectID),
		zap.String("strategy", string(rec.Strategy)),
		zap.Int("bars", plan.Summary.StocksUsed),
		zap.Float64("yield", plan.Summary.Yield),
	)
	return rec, nil
}

// List returns stored plans, newest first. Empty filters match everything.
func (s *Service) List(projectID, wallID string) []model.CutPlanRecord {
	return s.store.List(projectID, wallID)
}

// Get returns a stored plan.
func (s *Service) Get(id string) (model.CutPlanRecord, error) {
	return s.store.Get(id)
}

// Delete removes a stored plan. Applied stock is not returned.
func (s *Service) Delete(id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.logger.Info("cut plan deleted", zap.String("op", "planning.Delete"), zap.String("plan", id))
	return nil
}

// Apply takes the bars of a stored plan out of tracked stock and marks the
// plan APPLIED. Either both the catalog and the record change or neither.
func (s *Service) Apply(id string) (model.CutPlanRecord, error) {
	rec, _, err := s.apply(id, -1)
	return rec, err
}

// ApplyKeepingOffcuts applies the plan like Apply and, in the same catalog
// write, adds every remnant of at least minLengthMm as a one-bar profile.
// The added profiles are returned.
func (s *Service) ApplyKeepingOffcuts(id string, minLengthMm int) (model.CutPlanRecord, []model.InventoryProfile, error) {
	if minLengthMm < 0 {
		minLengthMm = 0
	}
	return s.apply(id, minLengthMm)
}

// apply holds mu for the whole read-check-write so that a plan is applied
// at most once. A negative minOffcutMm keeps no offcuts.
func (s *Service) apply(id string, minOffcutMm int) (model.CutPlanRecord, []model.InventoryProfile, error) {
	const op = "planning.Apply"

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.store.Get(id)
	if err != nil {
		return model.CutPlanRecord{}, nil, err
	}
	if rec.Status == model.PlanStatusApplied {
		return model.CutPlanRecord{}, nil, fmt.Errorf("%w: %s", ErrAlreadyApplied, id)
	}

	inv, err := s.inventory.Load()
	if err != nil {
		return model.CutPlanRecord{}, nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	updated, err := inv.Consume(rec.Computation())
	if err != nil {
		return model.CutPlanRecord{}, nil, err
	}

	var kept []model.InventoryProfile
	if minOffcutMm >= 0 {
		for _, o := range model.DetectOffcuts(rec.Computation(), inv, minOffcutMm) {
			p := o.ToInventoryProfile()
			if err := updated.Add(p); err != nil {
				return model.CutPlanRecord{}, nil, fmt.Errorf("failed to keep offcut: %w", err)
			}
			kept = append(kept, p)
		}
	}

	if err := s.inventory.Save(updated); err != nil {
		return model.CutPlanRecord{}, nil, fmt.Errorf("failed to save inventory: %w", err)
	}

	appliedAt := s.now().UTC()
	rec.Status = model.PlanStatusApplied
	rec.AppliedAt = &appliedAt
	if err := s.store.Update(rec); err != nil {
		if rollbackErr := s.inventory.Save(inv); rollbackErr != nil {
			s.logger.Error("failed to restore inventory",
				zap.String("op", op),
				zap.String("plan", id),
				zap.Error(rollbackErr),
			)
		}
		return model.CutPlanRecord{}, nil, fmt.Errorf("failed to update cut plan: %w", err)
	}

	s.logger.Info("cut plan applied",
		zap.String("op", op),
		zap.String("plan", id),
		zap.Int("bars", len(rec.Items)),
		zap.Int("offcuts_kept", len(kept)),
	)
	return rec, kept, nil
}

// Offcuts lists reusable remnants of a stored plan.
func (s *Service) Offcuts(id string, minLengthMm int) ([]model.Offcut, error) {
	rec, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	inv, err := s.inventory.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	return model.DetectOffcuts(rec.Computation(), inv, minLengthMm), nil
}
