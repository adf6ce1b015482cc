package planning

import (
	"sync"

	"github.com/piwi3910/ProfileCut/internal/model"
	"github.com/piwi3910/ProfileCut/internal/project"
)

// InventorySource loads and stores the stock catalog the service plans against.
type InventorySource interface {
	Load() (model.Inventory, error)
	Save(inv model.Inventory) error
}

// FileInventory is an InventorySource backed by a JSON catalog file.
type FileInventory struct {
	Path string
}

// Load reads the catalog, creating the default one when the file is missing.
func (f FileInventory) Load() (model.Inventory, error) {
	return project.LoadInventory(f.Path)
}

// Save writes the catalog back to its file.
func (f FileInventory) Save(inv model.Inventory) error {
	return project.SaveInventory(f.Path, inv)
}

// MemoryInventory keeps the catalog in memory.
type MemoryInventory struct {
	mu  sync.Mutex
	inv model.Inventory
}

// NewMemoryInventory returns an in-memory source holding inv.
func NewMemoryInventory(inv model.Inventory) *MemoryInventory {
	return &MemoryInventory{inv: inv}
}

func (m *MemoryInventory) Load() (model.Inventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := model.Inventory{Profiles: make([]model.InventoryProfile, len(m.inv.Profiles))}
	copy(out.Profiles, m.inv.Profiles)
	return out, nil
}

func (m *MemoryInventory) Save(inv model.Inventory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inv = inv
	return nil
}
