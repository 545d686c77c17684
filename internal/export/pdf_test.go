package export

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/KnitPlan/internal/engine"
	"github.com/piwi3910/KnitPlan/internal/instructions"
	"github.com/piwi3910/KnitPlan/internal/model"
)

func TestExportPatternPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pattern.pdf")

	cp, err := engine.NewComposer().Combine(slantedPanel(), checkerboard(), engine.CombineOptions{})
	if err != nil {
		t.Fatalf("Combine returned error: %v", err)
	}
	list, err := instructions.NewGenerator().Generate(cp, instructions.FormatDetailed)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	doc := NewPatternDocument("Slanted Swatch", cp, list)
	if len(doc.Instructions) != len(list) {
		t.Fatalf("expected %d instruction lines, got %d", len(list), len(doc.Instructions))
	}
	if doc.Pattern == nil || doc.Panel == nil {
		t.Fatal("expected the document to carry the panel and pattern")
	}

	if err := ExportPatternPDF(path, doc); err != nil {
		t.Fatalf("ExportPatternPDF returned error: %v", err)
	}
	assertFile(t, path, "%PDF", 1000)
}

func TestExportPatternPDF_ManyInstructions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.pdf")

	// enough lines to need several instruction pages
	lines := make([]string, 200)
	for i := range lines {
		lines[i] = strings.Repeat("Decrease 1 stitch on the left. ", 4)
	}
	doc := PatternDocument{Panel: splitPanel(), Instructions: lines, Notes: []string{"Row 3: no stitches in work"}}
	if err := ExportPatternPDF(path, doc); err != nil {
		t.Fatalf("ExportPatternPDF returned error: %v", err)
	}
	assertFile(t, path, "%PDF", 1000)
}

func TestExportPatternPDF_ChartOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.pdf")
	if err := ExportPatternPDF(path, PatternDocument{Pattern: checkerboard()}); err != nil {
		t.Fatalf("ExportPatternPDF returned error: %v", err)
	}
	assertFile(t, path, "%PDF", 500)
}

func TestExportPatternPDF_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	err := ExportPatternPDF(path, PatternDocument{Pattern: model.NewColorworkPatternFromGrid(nil, nil, nil)})
	if !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
}

func TestNewPatternDocument_NilPattern(t *testing.T) {
	doc := NewPatternDocument("Plain", nil, nil)
	if doc.Title != "Plain" || doc.Panel != nil || len(doc.Instructions) != 0 {
		t.Errorf("unexpected document: %+v", doc)
	}
}
