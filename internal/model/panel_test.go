package model

import (
	"encoding/json"
	"testing"
)

func TestNewPanelAppliesModifierToRootOnly(t *testing.T) {
	child := NewTrapezoid(5, 5, 5, 0)
	root := NewTrapezoid(5, 5, 5, 0, child)
	p := NewPanel(root, DefaultGauge(), 1.2, nil)
	if root.SizeModifier != 1.2 {
		t.Errorf("root modifier: expected 1.2, got %f", root.SizeModifier)
	}
	if child.SizeModifier != 1 {
		t.Errorf("successor modifier: expected 1, got %f", child.SizeModifier)
	}
	if p.Shape != root {
		t.Error("panel should hold the given shape")
	}
	if NewPanel(nil, DefaultGauge(), 1, nil).Shape != nil {
		t.Error("nil shape should stay nil")
	}
}

func TestPanelFromObjectDefaults(t *testing.T) {
	p := PanelFromObject(map[string]any{
		"shapes": map[string]any{"height": 4.0, "baseA": 4.0, "baseB": 4.0},
	})
	if p.Gauge != DefaultGauge() {
		t.Errorf("expected default gauge, got %v", p.Gauge)
	}
	if p.SizeModifier != DefaultPanelSizeModifier {
		t.Errorf("expected default size, got %f", p.SizeModifier)
	}
	if p.Shape == nil || p.Shape.SizeModifier != DefaultPanelSizeModifier {
		t.Errorf("expected root scaled by default size, got %+v", p.Shape)
	}

	empty := PanelFromObject(map[string]any{"shapes": []any{}})
	if empty.Shape != nil {
		t.Error("empty shapes should give no shape")
	}
	if PanelFromObject(nil).Shape != nil {
		t.Error("nil input should give no shape")
	}
}

func TestPanelJSON(t *testing.T) {
	data := []byte(`{
		"shapes": {"height": 10, "baseA": 25, "baseB": 25},
		"gauge": {"stitchesPer4Inches": 24, "rowsPer4Inches": 32},
		"sizeModifier": 1,
		"visualMotif": {"type": "SOLID", "height": 4}
	}`)
	var p Panel
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatal(err)
	}
	if p.Gauge.StitchesPerFourInches != 24 || p.Gauge.RowsPerFourInches != 32 {
		t.Errorf("alias gauge keys not read: %v", p.Gauge)
	}
	if p.SizeModifier != 1 {
		t.Errorf("expected size 1, got %f", p.SizeModifier)
	}
	if p.VisualMotif == nil || p.VisualMotif.Height != 4 {
		t.Errorf("motif not read: %+v", p.VisualMotif)
	}

	out, err := json.Marshal(&p)
	if err != nil {
		t.Fatal(err)
	}
	var back map[string]any
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"shapes", "gauge", "sizeModifier", "visualMotif"} {
		if _, ok := back[key]; !ok {
			t.Errorf("missing key %s in %s", key, out)
		}
	}
}
