package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/piwi3910/KnitPlan/internal/model"
)

// ExportProfile exports a single gauge profile to a JSON file (for sharing).
func ExportProfile(path string, profile model.GaugeProfile) error {
	return writeJSONFile(path, profile)
}

// ImportProfile imports a single gauge profile from a JSON file. A profile
// without an ID gets a fresh one; the gauge must be usable.
func ImportProfile(path string) (model.GaugeProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.GaugeProfile{}, err
	}

	var profile model.GaugeProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return model.GaugeProfile{}, err
	}

	if profile.Name == "" {
		return model.GaugeProfile{}, errors.New("imported profile has no name")
	}
	if err := profile.Gauge.Validate(); err != nil {
		return model.GaugeProfile{}, fmt.Errorf("imported profile %q: %w", profile.Name, err)
	}
	if profile.ID == "" {
		profile.ID = uuid.New().String()[:8]
	}
	if profile.Size <= 0 {
		profile.Size = model.DefaultPanelSizeModifier
	}
	return profile, nil
}
