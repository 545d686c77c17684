package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new projects
	DefaultStitchesPerFourInches float64     `json:"default_stitches_per_four_inches"`
	DefaultRowsPerFourInches     float64     `json:"default_rows_per_four_inches"`
	DefaultSizeModifier          float64     `json:"default_size_modifier"`
	DefaultStretchMode           StretchMode `json:"default_stretch_mode"`
	DefaultAlignment             Alignment   `json:"default_alignment"`
	DefaultInstructionFormat     string      `json:"default_instruction_format"`
	DefaultGaugeProfile          string      `json:"default_gauge_profile"`

	// Application preferences
	RecentProjects []string `json:"recent_projects"`
	Theme          string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig mirrors DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultStitchesPerFourInches: defaults.Gauge.StitchesPerFourInches,
		DefaultRowsPerFourInches:     defaults.Gauge.RowsPerFourInches,
		DefaultSizeModifier:          defaults.SizeModifier,
		DefaultStretchMode:           defaults.StretchMode,
		DefaultAlignment:             defaults.Alignment,
		DefaultInstructionFormat:     defaults.InstructionFormat,
		RecentProjects:               []string{},
		Theme:                        "system",
	}
}

// ApplyToSettings copies the defaults into s so a new project inherits the
// user's saved preferences.
func (c AppConfig) ApplyToSettings(s *KnitSettings) {
	s.Gauge = NewGauge(c.DefaultStitchesPerFourInches, c.DefaultRowsPerFourInches)
	s.SizeModifier = c.DefaultSizeModifier
	s.StretchMode = c.DefaultStretchMode
	s.Alignment = c.DefaultAlignment
	s.InstructionFormat = c.DefaultInstructionFormat
}

// AddRecentProject moves path to the front of the recent list, keeping at
// most limit entries.
func (c *AppConfig) AddRecentProject(path string, limit int) {
	recent := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			recent = append(recent, p)
		}
	}
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	c.RecentProjects = recent
}
