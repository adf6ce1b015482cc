package model

import (
	"time"

	"github.com/google/uuid"
)

// PlanTemplate is a reusable cut list with a preferred strategy. It holds
// requirements only, never plan results.
type PlanTemplate struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	CreatedAt    string           `json:"created_at"`
	UpdatedAt    string           `json:"updated_at"`
	Strategy     Strategy         `json:"strategy"`
	Requirements []CutRequirement `json:"requirements"`
}

// NewPlanTemplate creates a template from a cut list.
func NewPlanTemplate(name, description string, strategy Strategy, reqs []CutRequirement) PlanTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	return PlanTemplate{
		ID:           uuid.New().String()[:8],
		Name:         name,
		Description:  description,
		CreatedAt:    now,
		UpdatedAt:    now,
		Strategy:     strategy,
		Requirements: copyRequirements(reqs),
	}
}

// Scaled returns the template requirements with every quantity multiplied
// by n, e.g. for a batch of identical windows.
func (t PlanTemplate) Scaled(n int) []CutRequirement {
	out := copyRequirements(t.Requirements)
	if n <= 1 {
		return out
	}
	for i := range out {
		qty := out[i].Quantity
		if qty <= 0 {
			qty = 1
		}
		out[i].Quantity = qty * n
	}
	return out
}

// TemplateStore holds a collection of plan templates.
type TemplateStore struct {
	Templates []PlanTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []PlanTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t PlanTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *PlanTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *PlanTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns the template names in store order.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}

func copyRequirements(reqs []CutRequirement) []CutRequirement {
	if reqs == nil {
		return []CutRequirement{}
	}
	cp := make([]CutRequirement, len(reqs))
	copy(cp, reqs)
	return cp
}
