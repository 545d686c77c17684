package model

import "encoding/json"

// DefaultPanelSizeModifier is applied when a panel does not name one.
const DefaultPanelSizeModifier = 1.006

// Panel pairs a section tree with the gauge and size it is knitted at.
type Panel struct {
	Shape        *Trapezoid
	Gauge        Gauge
	SizeModifier float64
	VisualMotif  *VisualMotif
}

// NewPanel applies sizeModifier to the root section. Successor sections
// keep their own modifiers.
func NewPanel(shape *Trapezoid, gauge Gauge, sizeModifier float64, motif *VisualMotif) *Panel {
	if shape != nil {
		shape.SetSizeModifier(sizeModifier)
	}
	return &Panel{
		Shape:        shape,
		Gauge:        gauge,
		SizeModifier: sizeModifier,
		VisualMotif:  motif,
	}
}

// NewDefaultPanel uses the default gauge and size modifier.
func NewDefaultPanel(shape *Trapezoid) *Panel {
	return NewPanel(shape, DefaultGauge(), DefaultPanelSizeModifier, nil)
}

// PanelFromObject reads {shapes, gauge, sizeModifier, visualMotif}. Missing
// gauge or size fall back to the defaults. A missing or empty shape leaves
// Shape nil.
func PanelFromObject(v any) *Panel {
	m, _ := v.(map[string]any)

	shape, _ := TrapezoidFromObject(m["shapes"])

	gauge := DefaultGauge()
	if gm, ok := m["gauge"].(map[string]any); ok {
		gauge = gaugeFromMap(gm)
	}

	size := DefaultPanelSizeModifier
	if raw, ok := m["sizeModifier"]; ok && raw != nil {
		size = toNumber(raw)
	}

	var motif *VisualMotif
	if raw, ok := m["visualMotif"].(map[string]any); ok {
		if b, err := json.Marshal(raw); err == nil {
			motif = &VisualMotif{}
			if err := json.Unmarshal(b, motif); err != nil {
				motif = nil
			}
		}
	}
	return NewPanel(shape, gauge, size, motif)
}

type panelJSON struct {
	Shapes       *Trapezoid   `json:"shapes"`
	Gauge        Gauge        `json:"gauge"`
	SizeModifier float64      `json:"sizeModifier"`
	VisualMotif  *VisualMotif `json:"visualMotif"`
}

func (p *Panel) MarshalJSON() ([]byte, error) {
	return json.Marshal(panelJSON{
		Shapes:       p.Shape,
		Gauge:        p.Gauge,
		SizeModifier: p.SizeModifier,
		VisualMotif:  p.VisualMotif,
	})
}

func (p *Panel) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = *PanelFromObject(raw)
	return nil
}
