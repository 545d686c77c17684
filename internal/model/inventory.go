package model

import "github.com/google/uuid"

// GaugeProfile is a saved yarn and machine combination with its measured gauge.
type GaugeProfile struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Yarn    string  `json:"yarn"`
	Tension string  `json:"tension"` // machine tension dial setting
	Gauge   Gauge   `json:"gauge"`
	Size    float64 `json:"size_modifier"`
}

// NewGaugeProfile creates a new GaugeProfile with a generated ID.
func NewGaugeProfile(name, yarn, tension string, stitches, rows float64) GaugeProfile {
	return GaugeProfile{
		ID:      uuid.New().String()[:8],
		Name:    name,
		Yarn:    yarn,
		Tension: tension,
		Gauge:   NewGauge(stitches, rows),
		Size:    DefaultPanelSizeModifier,
	}
}

// ApplyToSettings copies the profile's gauge and size into s.
func (gp GaugeProfile) ApplyToSettings(s *KnitSettings) {
	s.Gauge = gp.Gauge
	if gp.Size > 0 {
		s.SizeModifier = gp.Size
	}
}

// PalettePreset is a reusable set of yarn colours.
type PalettePreset struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Colors []Color `json:"colors"`
}

// NewPalettePreset creates a new PalettePreset with a generated ID.
func NewPalettePreset(name string, colors ...Color) PalettePreset {
	return PalettePreset{
		ID:     uuid.New().String()[:8],
		Name:   name,
		Colors: colors,
	}
}

// ApplyTo registers every preset colour on the pattern.
func (pp PalettePreset) ApplyTo(p *ColorworkPattern) {
	for _, c := range pp.Colors {
		p.SetColor(c.ID, c.Color, c.Label)
	}
}

// Inventory holds the user's saved gauge profiles and palettes.
type Inventory struct {
	Profiles []GaugeProfile  `json:"profiles"`
	Palettes []PalettePreset `json:"palettes"`
}

// DefaultInventory returns an inventory populated with common defaults.
func DefaultInventory() Inventory {
	return Inventory{
		Profiles: []GaugeProfile{
			NewGaugeProfile("Standard gauge, worsted", "Worsted wool", "8", 19, 30),
			NewGaugeProfile("Standard gauge, DK", "DK merino", "6", 24, 34),
			NewGaugeProfile("Standard gauge, fingering", "Fingering sock", "4", 28, 40),
			NewGaugeProfile("Bulky gauge, chunky", "Chunky acrylic", "5", 14, 20),
		},
		Palettes: []PalettePreset{
			NewPalettePreset("Black and white",
				Color{ID: MainColor, Label: "Main", Color: "#ffffff"},
				Color{ID: ContrastColor, Label: "Contrast", Color: "#000000"}),
			NewPalettePreset("Red and white",
				Color{ID: MainColor, Label: "Main", Color: "#ffffff"},
				Color{ID: ContrastColor, Label: "Contrast", Color: "#ff0000"}),
			NewPalettePreset("Nordic",
				Color{ID: MainColor, Label: "Main", Color: "#f5f5dc"},
				Color{ID: ContrastColor, Label: "Contrast", Color: "#000080"},
				Color{ID: "CC2", Label: "Accent", Color: "#b22222"}),
		},
	}
}

// FindProfileByID returns a pointer to the profile with the given ID, or nil.
func (inv *Inventory) FindProfileByID(id string) *GaugeProfile {
	for i := range inv.Profiles {
		if inv.Profiles[i].ID == id {
			return &inv.Profiles[i]
		}
	}
	return nil
}

// FindProfileByName returns a pointer to the first profile with the given name, or nil.
func (inv *Inventory) FindProfileByName(name string) *GaugeProfile {
	for i := range inv.Profiles {
		if inv.Profiles[i].Name == name {
			return &inv.Profiles[i]
		}
	}
	return nil
}

// FindPaletteByName returns a pointer to the first palette with the given name, or nil.
func (inv *Inventory) FindPaletteByName(name string) *PalettePreset {
	for i := range inv.Palettes {
		if inv.Palettes[i].Name == name {
			return &inv.Palettes[i]
		}
	}
	return nil
}

// ProfileNames lists profile names in order.
func (inv *Inventory) ProfileNames() []string {
	names := make([]string, len(inv.Profiles))
	for i, p := range inv.Profiles {
		names[i] = p.Name
	}
	return names
}
