package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/KnitPlan/internal/logging"
	"github.com/piwi3910/KnitPlan/internal/model"
)

// DefaultInventoryPath is ~/.knitplan/inventory.json.
func DefaultInventoryPath() string {
	return filepath.Join(DefaultConfigDir(), "inventory.json")
}

func SaveInventory(path string, inv model.Inventory) error {
	if err := writeJSONFile(path, inv); err != nil {
		return fmt.Errorf("failed to save inventory: %w", err)
	}
	return nil
}

// LoadInventory reads the gauge profiles and palettes at path. A missing
// file is seeded with the default inventory.
func LoadInventory(path string) (model.Inventory, error) {
	inv, err := readInventory(path)
	if os.IsNotExist(err) {
		inv = model.DefaultInventory()
		return inv, SaveInventory(path, inv)
	}
	return inv, err
}

// LoadOrCreateInventory is LoadInventory at the default path.
func LoadOrCreateInventory() (model.Inventory, string, error) {
	path := DefaultInventoryPath()
	inv, err := LoadInventory(path)
	return inv, path, err
}

// ImportInventory merges the inventory file at path into existing.
func ImportInventory(path string, existing model.Inventory) (model.Inventory, error) {
	imported, err := readInventory(path)
	if err != nil {
		return existing, err
	}
	return MergeInventory(existing, imported), nil
}

// readInventory decodes an inventory file. Profiles whose gauge cannot
// compile anything are dropped with a warning; nil lists become empty.
func readInventory(path string) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Inventory{}, err
	}
	var inv model.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return model.Inventory{}, fmt.Errorf("failed to decode inventory %s: %w", path, err)
	}

	profiles := make([]model.GaugeProfile, 0, len(inv.Profiles))
	for _, p := range inv.Profiles {
		if err := p.Gauge.Validate(); err != nil {
			logging.Logger().Warn("dropping gauge profile", "profile", p.Name, "error", err)
			continue
		}
		profiles = append(profiles, p)
	}
	inv.Profiles = profiles
	if inv.Palettes == nil {
		inv.Palettes = []model.PalettePreset{}
	}
	return inv, nil
}

// MergeInventory appends the imported profiles and palettes whose IDs are
// not already present.
func MergeInventory(existing, imported model.Inventory) model.Inventory {
	profileIDs := make(map[string]bool, len(existing.Profiles))
	for _, p := range existing.Profiles {
		profileIDs[p.ID] = true
	}
	paletteIDs := make(map[string]bool, len(existing.Palettes))
	for _, p := range existing.Palettes {
		paletteIDs[p.ID] = true
	}

	for _, p := range imported.Profiles {
		if !profileIDs[p.ID] {
			existing.Profiles = append(existing.Profiles, p)
			profileIDs[p.ID] = true
		}
	}
	for _, p := range imported.Palettes {
		if !paletteIDs[p.ID] {
			existing.Palettes = append(existing.Palettes, p)
			paletteIDs[p.ID] = true
		}
	}
	return existing
}
