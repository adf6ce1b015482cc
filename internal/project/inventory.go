package project

import (
	"fmt"

	"github.com/piwi3910/ProfileCut/internal/model"
)

// DefaultInventoryPath returns ~/.profilecut/inventory.json.
func DefaultInventoryPath() (string, error) {
	return dataPath("inventory.json")
}

// SaveInventory writes the stock catalog to a JSON file.
func SaveInventory(path string, inv model.Inventory) error {
	if inv.Profiles == nil {
		inv.Profiles = []model.InventoryProfile{}
	}
	return writeJSON(path, inv)
}

// LoadInventory reads the stock catalog. When the file does not exist the
// default catalog is written there and returned.
func LoadInventory(path string) (model.Inventory, error) {
	var inv model.Inventory
	found, err := readJSON(path, &inv)
	if err != nil {
		return model.Inventory{}, err
	}
	if !found {
		inv = model.DefaultInventory()
		return inv, SaveInventory(path, inv)
	}
	if inv.Profiles == nil {
		inv.Profiles = []model.InventoryProfile{}
	}
	return inv, nil
}

// ExportInventory writes the catalog to a user-chosen file.
func ExportInventory(path string, inv model.Inventory) error {
	return SaveInventory(path, inv)
}

// ImportInventory merges the catalog stored at path into existing.
// Profiles whose ID or SKU is already present are skipped; the number of
// added profiles is returned.
func ImportInventory(path string, existing model.Inventory) (model.Inventory, int, error) {
	var imported model.Inventory
	found, err := readJSON(path, &imported)
	if err != nil {
		return existing, 0, err
	}
	if !found {
		return existing, 0, fmt.Errorf("inventory file %s does not exist", path)
	}

	added := 0
	for _, p := range imported.Profiles {
		if existing.Add(p) == nil {
			added++
		}
	}
	return existing, added, nil
}
