package project

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/piwi3910/ProfileCut/internal/model"
)

// ErrPlanNotFound is returned when no stored plan has the requested ID.
var ErrPlanNotFound = errors.New("cut plan not found")

// DefaultPlansPath returns ~/.profilecut/plans.json.
func DefaultPlansPath() (string, error) {
	return dataPath("plans.json")
}

// SavePlans writes plan records to a JSON file.
func SavePlans(path string, plans []model.CutPlanRecord) error {
	if plans == nil {
		plans = []model.CutPlanRecord{}
	}
	return writeJSON(path, plans)
}

// LoadPlans reads plan records from a JSON file. A missing file gives an
// empty list.
func LoadPlans(path string) ([]model.CutPlanRecord, error) {
	var plans []model.CutPlanRecord
	if _, err := readJSON(path, &plans); err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []model.CutPlanRecord{}
	}
	return plans, nil
}

// PlanStore keeps plan records and writes them through to a JSON file.
// An empty path keeps records in memory only. It is safe for concurrent use.
type PlanStore struct {
	mu    sync.Mutex
	path  string
	plans []model.CutPlanRecord
}

// OpenPlanStore loads the records at path into a new store.
func OpenPlanStore(path string) (*PlanStore, error) {
	s := &PlanStore{path: path, plans: []model.CutPlanRecord{}}
	if path == "" {
		return s, nil
	}
	plans, err := LoadPlans(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load plans from %s: %w", path, err)
	}
	s.plans = plans
	return s, nil
}

// NewMemoryPlanStore returns a store without file backing.
func NewMemoryPlanStore() *PlanStore {
	s, _ := OpenPlanStore("")
	return s
}

// Add stores a new record.
func (s *PlanStore) Add(rec model.CutPlanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.plans {
		if p.ID == rec.ID {
			return fmt.Errorf("cut plan %s already exists", rec.ID)
		}
	}
	next := make([]model.CutPlanRecord, len(s.plans), len(s.plans)+1)
	copy(next, s.plans)
	return s.commit(append(next, rec))
}

// Update replaces the stored record with the same ID.
func (s *PlanStore) Update(rec model.CutPlanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(rec.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPlanNotFound, rec.ID)
	}
	next := make([]model.CutPlanRecord, len(s.plans))
	copy(next, s.plans)
	next[i] = rec
	return s.commit(next)
}

// Get returns the record with the given ID.
func (s *PlanStore) Get(id string) (model.CutPlanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return model.CutPlanRecord{}, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	return s.plans[i], nil
}

// List returns the records of a project, newest first. An empty wallID
// matches every wall; an empty projectID matches every project.
func (s *PlanStore) List(projectID, wallID string) []model.CutPlanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.CutPlanRecord{}
	for _, p := range s.plans {
		if projectID != "" && p.ProjectID != projectID {
			continue
		}
		if wallID != "" && p.WallID != wallID {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Delete removes a record by ID.
func (s *PlanStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPlanNotFound, id)
	}
	next := make([]model.CutPlanRecord, 0, len(s.plans)-1)
	next = append(next, s.plans[:i]...)
	next = append(next, s.plans[i+1:]...)
	return s.commit(next)
}

// All returns a copy of every stored record in insertion order.
func (s *PlanStore) All() []model.CutPlanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.CutPlanRecord, len(s.plans))
	copy(out, s.plans)
	return out
}

func (s *PlanStore) index(id string) int {
	for i, p := range s.plans {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// commit writes next to the file and only then makes it the stored state,
// so a failed write leaves the store unchanged. mu must be held.
func (s *PlanStore) commit(next []model.CutPlanRecord) error {
	if s.path != "" {
		if err := SavePlans(s.path, next); err != nil {
			return err
		}
	}
	s.plans = next
	return nil
}
