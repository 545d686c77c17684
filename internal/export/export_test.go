package export

import (
	"os"
	"testing"

	"github.com/piwi3910/KnitPlan/internal/model"
)

var fourPerInch = model.NewGauge(16, 16)

// slantedPanel is 8 rows of 40 stitches.
func slantedPanel() *model.Panel {
	return model.NewPanel(model.NewTrapezoid(2, 10, 10, 0.5), fourPerInch, 1, nil)
}

// splitPanel has a 4 row root and a narrowing 4 row successor.
func splitPanel() *model.Panel {
	shape := model.NewTrapezoid(1, 10, 10, 0, model.NewTrapezoid(1, 10, 8, 0))
	return model.NewPanel(shape, fourPerInch, 1, nil)
}

func checkerboard() *model.ColorworkPattern {
	p := model.NewColorworkPatternFromGrid([][]string{
		{"CC", "MC"},
		{"MC", "CC"},
	}, nil, map[string]any{"name": "Checkerboard"})
	p.SetColor("MC", "#FFFFFF", "Main Color")
	p.SetColor("CC", "#000000", "Contrast Color")
	return p
}

// assertFile fails unless path exists, starts with prefix and has at
// least minSize bytes.
func assertFile(t *testing.T, path, prefix string, minSize int) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file was not created: %v", err)
	}
	if len(data) < minSize {
		t.Errorf("file seems too small: %d bytes", len(data))
	}
	if len(data) < len(prefix) || string(data[:len(prefix)]) != prefix {
		t.Errorf("file does not start with %q", prefix)
	}
}
