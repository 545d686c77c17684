package model

import "github.com/google/uuid"

// StretchMode selects how a colorwork pattern is fitted to a stitch plan.
type StretchMode string

const (
	StretchRepeat StretchMode = "repeat" // tile
	StretchFit    StretchMode = "stretch"
	StretchCenter StretchMode = "center" // once, surrounded by main colour
)

// Alignment positions a centred pattern horizontally inside a row.
type Alignment string

const (
	AlignCenter Alignment = "center"
	AlignLeft   Alignment = "left"
	AlignRight  Alignment = "right"
)

// KnitSettings holds the per-project knobs that drive compilation.
type KnitSettings struct {
	Gauge             Gauge       `json:"gauge"`
	SizeModifier      float64     `json:"sizeModifier"`
	StretchMode       StretchMode `json:"stretchMode"`
	Alignment         Alignment   `json:"alignmentMode"`
	InstructionFormat string      `json:"instructionFormat"` // compact, detailed, visual
	MaxShapingPerRow  int         `json:"maxShapingPerRow"`  // lint threshold per edge
}

func DefaultSettings() KnitSettings {
	return KnitSettings{
		Gauge:             DefaultGauge(),
		SizeModifier:      DefaultPanelSizeModifier,
		StretchMode:       StretchRepeat,
		Alignment:         AlignCenter,
		InstructionFormat: "detailed",
		MaxShapingPerRow:  3,
	}
}

// Project ties a shape, its colorwork and the settings together for save/load.
type Project struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Shape    *Trapezoid        `json:"shape"`
	Pattern  *ColorworkPattern `json:"pattern,omitempty"`
	Motif    *VisualMotif      `json:"visualMotif,omitempty"`
	Settings KnitSettings      `json:"settings"`
}

func NewProject() Project {
	return Project{
		ID:       uuid.New().String()[:8],
		Name:     "Untitled",
		Settings: DefaultSettings(),
	}
}

// Panel builds a panel from a copy of the project's shape, so applying the
// size modifier leaves the project untouched. It returns nil without a shape.
func (p Project) Panel() *Panel {
	if p.Shape == nil {
		return nil
	}
	return NewPanel(p.Shape.Clone(), p.Settings.Gauge, p.Settings.SizeModifier, p.Motif)
}
