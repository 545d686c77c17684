package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNewColorworkPattern(t *testing.T) {
	p := NewColorworkPattern(3, 2, "")
	if p.RowCount() != 2 || p.StitchCount() != 3 {
		t.Fatalf("expected 3x2, got %dx%d", p.StitchCount(), p.RowCount())
	}
	if p.Grid[0][0] != MainColor {
		t.Errorf("expected MC fill, got %s", p.Grid[0][0])
	}
	cc := NewColorworkPattern(2, 2, "CC")
	if cc.Grid[1][1] != "CC" {
		t.Errorf("expected CC fill, got %s", cc.Grid[1][1])
	}
	if NewColorworkPatternFromGrid(nil, nil, nil).StitchCount() != 0 {
		t.Error("empty grid should have 0 stitches")
	}
}

func TestSetColor(t *testing.T) {
	p := NewColorworkPattern(2, 2, "")
	p.SetColor("CC", "#000000", "Contrast Color")
	if got := p.Colors["CC"]; got != (Color{ID: "CC", Color: "#000000", Label: "Contrast Color"}) {
		t.Errorf("unexpected color %+v", got)
	}
	p.SetColor("CC", "#000000", "")
	if p.Colors["CC"].Label != "CC" {
		t.Errorf("expected id as label, got %q", p.Colors["CC"].Label)
	}
	p.SetColor("N", "Navy", "")
	if got := p.Colors["N"]; got.Color != "#000080" || got.Label != "Navy" {
		t.Errorf("expected named colour resolved, got %+v", got)
	}
}

func TestSetStitchBounds(t *testing.T) {
	p := NewColorworkPattern(3, 3, "")
	p.SetStitch(1, 2, "CC")
	if p.Grid[1][2] != "CC" {
		t.Errorf("expected CC at (1,2), got %s", p.Grid[1][2])
	}
	for _, pos := range [][2]int{{-1, 0}, {3, 0}, {0, -1}, {0, 3}} {
		p.SetStitch(pos[0], pos[1], "X")
	}
	if p.Grid[0][0] != MainColor {
		t.Error("out of range writes should be ignored")
	}
	if p.Stitch(-1, 0) != "" || p.Stitch(1, 2) != "CC" {
		t.Error("Stitch returned unexpected values")
	}
}

func TestColorsUsed(t *testing.T) {
	p := NewColorworkPatternFromGrid(
		[][]string{{"MC", "CC", ""}, {"UNKNOWN", "MC", "CC"}},
		map[string]Color{
			"MC": {ID: "MC", Color: "#fff"},
			"CC": {ID: "CC", Color: "#000"},
		}, nil)
	used := p.ColorsUsed()
	if len(used) != 2 || used[0].ID != "MC" || used[1].ID != "CC" {
		t.Errorf("expected [MC CC], got %+v", used)
	}
}

func TestRowInstructions(t *testing.T) {
	p := NewColorworkPatternFromGrid(
		[][]string{{"MC", "MC", "CC", "CC", "CC", "MC"}},
		map[string]Color{"MC": {ID: "MC", Color: "#fff"}},
		nil)
	got := p.RowInstructions(0)
	if len(got) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(got))
	}
	counts := []int{got[0].StitchCount, got[1].StitchCount, got[2].StitchCount}
	if !reflect.DeepEqual(counts, []int{2, 3, 1}) {
		t.Errorf("unexpected counts %v", counts)
	}
	if got[0].Color == nil || got[0].Color.Color != "#fff" {
		t.Errorf("expected MC colour on first segment, got %+v", got[0].Color)
	}
	if got[1].Color != nil {
		t.Errorf("CC is not in the palette, expected nil colour")
	}
	if len(p.RowInstructions(-1)) != 0 || len(p.RowInstructions(5)) != 0 {
		t.Error("invalid indexes should yield no segments")
	}
}

func TestResizeToFitNegativeSize(t *testing.T) {
	p := NewColorworkPatternFromGrid([][]string{{"MC", "CC"}, {"CC", "MC"}}, nil, nil)
	p.ResizeToFit(-1, 2, "")
	if p.RowCount() != 2 || p.StitchCount() != 0 {
		t.Errorf("expected 0x2, got %dx%d", p.StitchCount(), p.RowCount())
	}

	p = NewColorworkPatternFromGrid([][]string{{"MC", "CC"}}, nil, nil)
	p.ResizeToFit(3, -4, "")
	if p.RowCount() != 0 {
		t.Errorf("expected no rows, got %d", p.RowCount())
	}
}

func TestResizeToFit(t *testing.T) {
	p := NewColorworkPatternFromGrid([][]string{{"MC", "CC"}, {"CC", "MC"}}, nil, nil)
	p.ResizeToFit(4, 4, "")
	want := [][]string{
		{"MC", "MC", "CC", "CC"},
		{"MC", "MC", "CC", "CC"},
		{"CC", "CC", "MC", "MC"},
		{"CC", "CC", "MC", "MC"},
	}
	if !reflect.DeepEqual(p.Grid, want) {
		t.Errorf("unexpected grid %v", p.Grid)
	}

	empty := NewColorworkPatternFromGrid(nil, nil, nil)
	empty.ResizeToFit(4, 4, "")
	if empty.RowCount() != 0 {
		t.Error("empty pattern should not be resized")
	}

	p.ResizeToFit(4, 2, "BG")
	if p.RowCount() != 2 || p.StitchCount() != 4 {
		t.Errorf("expected 4x2, got %dx%d", p.StitchCount(), p.RowCount())
	}
}

func TestExtractSection(t *testing.T) {
	p := NewColorworkPatternFromGrid([][]string{
		{"MC", "CC", "MC", "CC"},
		{"CC", "MC", "CC", "MC"},
		{"MC", "MC", "MC", "MC"},
	}, nil, map[string]any{"name": "Check"})

	s := p.ExtractSection(1, 3, 0, 2)
	if len(s.Grid) != 2 || len(s.Grid[0]) != 2 {
		t.Fatalf("expected 2x2 section, got %v", s.Grid)
	}
	if s.Grid[1][1] != "CC" {
		t.Errorf("expected CC at (1,1), got %s", s.Grid[1][1])
	}
	if s.Metadata["isSection"] != true || s.Name() != "Check" {
		t.Errorf("unexpected metadata %v", s.Metadata)
	}
	if !reflect.DeepEqual(s.Metadata["originalStitchRange"], []int{1, 3}) ||
		!reflect.DeepEqual(s.Metadata["originalRowRange"], []int{0, 2}) {
		t.Errorf("unexpected ranges %v", s.Metadata)
	}

	all := p.ExtractSection(0, 2, 0, 0)
	if len(all.Grid) != 3 {
		t.Errorf("endRow 0 should take every row, got %d", len(all.Grid))
	}

	clamped := p.ExtractSection(2, 10, 1, 10)
	if len(clamped.Grid) != 2 || len(clamped.Grid[0]) != 2 {
		t.Errorf("expected clamped 2x2 section, got %v", clamped.Grid)
	}
}

func TestColorworkPatternJSON(t *testing.T) {
	p := NewColorworkPatternFromGrid([][]string{{"MC", "CC"}}, map[string]Color{"MC": {ID: "MC", Color: "#fff"}}, map[string]any{"name": "Test"})
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	var back ColorworkPattern
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back.Grid, p.Grid) || back.Colors["MC"].Color != "#fff" || back.Name() != "Test" {
		t.Errorf("round trip mismatch: %+v", back)
	}

	var bare ColorworkPattern
	if err := json.Unmarshal([]byte(`{"colors":{}}`), &bare); err != nil {
		t.Fatal(err)
	}
	if bare.Grid == nil || bare.Metadata == nil {
		t.Error("missing fields should decode as empty")
	}
}
