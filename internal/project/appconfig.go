// Package project loads and saves everything a knitter keeps between
// sessions: projects, shape and garment files, app preferences, gauge
// profiles and the SQLite pattern library.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/KnitPlan/internal/logging"
	"github.com/piwi3910/KnitPlan/internal/model"
)

// DefaultConfigDir is ~/.knitplan, or ./.knitplan when there is no home
// directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".knitplan")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig writes config as JSON, creating parent directories.
func SaveAppConfig(path string, config model.AppConfig) error {
	if err := writeJSONFile(path, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// LoadAppConfig reads the preferences at path over DefaultAppConfig. A
// missing file is not an error. Saved defaults that could not compile a
// panel are reset to the built-in ones.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return model.AppConfig{}, err
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	repairConfig(&config)
	return config, nil
}

func repairConfig(c *model.AppConfig) {
	def := model.DefaultAppConfig()
	reset := func(field string, bad any) {
		logging.Logger().Warn("config value reset to default", "field", field, "value", bad)
	}

	if model.NewGauge(c.DefaultStitchesPerFourInches, c.DefaultRowsPerFourInches).Validate() != nil {
		reset("gauge", []float64{c.DefaultStitchesPerFourInches, c.DefaultRowsPerFourInches})
		c.DefaultStitchesPerFourInches = def.DefaultStitchesPerFourInches
		c.DefaultRowsPerFourInches = def.DefaultRowsPerFourInches
	}
	if !(c.DefaultSizeModifier > 0) {
		reset("default_size_modifier", c.DefaultSizeModifier)
		c.DefaultSizeModifier = def.DefaultSizeModifier
	}
	switch c.DefaultStretchMode {
	case model.StretchRepeat, model.StretchFit, model.StretchCenter:
	default:
		reset("default_stretch_mode", c.DefaultStretchMode)
		c.DefaultStretchMode = def.DefaultStretchMode
	}
	switch c.DefaultAlignment {
	case model.AlignCenter, model.AlignLeft, model.AlignRight:
	default:
		reset("default_alignment", c.DefaultAlignment)
		c.DefaultAlignment = def.DefaultAlignment
	}
	switch c.DefaultInstructionFormat {
	case "compact", "detailed", "visual":
	default:
		reset("default_instruction_format", c.DefaultInstructionFormat)
		c.DefaultInstructionFormat = def.DefaultInstructionFormat
	}
	if c.RecentProjects == nil {
		c.RecentProjects = []string{}
	}
}

// writeJSONFile writes v as indented JSON, creating parent directories.
func writeJSONFile(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
