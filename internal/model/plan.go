package model

import (
	"time"

	"github.com/google/uuid"
)

// PlanStatus tracks the lifecycle of a stored cut plan.
type PlanStatus string

const (
	PlanStatusCompleted PlanStatus = "COMPLETED"
	PlanStatusApplied   PlanStatus = "APPLIED" // Stock has been consumed
)

// CutPlanRecordItem is one bar of a stored plan.
type CutPlanRecordItem struct {
	ID string `json:"id"`
	CutPlanItem
	CreatedAt time.Time `json:"createdAt"`
}

// CutPlanRecord is a persisted plan for a project or wall.
type CutPlanRecord struct {
	ID           string              `json:"id"`
	ProjectID    string              `json:"projectId"`
	WallID       string              `json:"wallId,omitempty"`
	Strategy     Strategy            `json:"strategy"` // Strategy that produced the items
	Status       PlanStatus          `json:"status"`
	Summary      CutPlanSummary      `json:"summary"`
	Items        []CutPlanRecordItem `json:"items"`
	Requirements []CutRequirement    `json:"requirements"`
	CreatedAt    time.Time           `json:"createdAt"`
	AppliedAt    *time.Time          `json:"appliedAt,omitempty"`
}

// NewCutPlanRecord wraps a computed plan for storage. Items receive
// creation times one millisecond apart so that sorting by time keeps the
// bar order.
//
// The record's Strategy is the strategy that actually ran
// (Summary.StrategyUsed), not the requested one. When the planner
// substitutes greedy for ILP the record says GREEDY; the request is still
// available as Summary.StrategyRequested.
func NewCutPlanRecord(projectID, wallID string, reqs []CutRequirement, plan CutPlanComputation, now time.Time) CutPlanRecord {
	rec := CutPlanRecord{
		ID:           uuid.New().String(),
		ProjectID:    projectID,
		WallID:       wallID,
		Strategy:     plan.Summary.StrategyUsed,
		Status:       PlanStatusCompleted,
		Summary:      plan.Summary,
		Items:        make([]CutPlanRecordItem, len(plan.Items)),
		Requirements: copyRequirements(reqs),
		CreatedAt:    now,
	}
	for i, it := range plan.Items {
		rec.Items[i] = CutPlanRecordItem{
			ID:          uuid.New().String(),
			CutPlanItem: it,
			CreatedAt:   now.Add(time.Duration(i) * time.Millisecond),
		}
	}
	return rec
}

// Computation returns the planner view of the record.
func (r CutPlanRecord) Computation() CutPlanComputation {
	items := make([]CutPlanItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = it.CutPlanItem
	}
	return CutPlanComputation{Items: items, Summary: r.Summary}
}
