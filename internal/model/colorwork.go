package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/image/colornames"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MainColor is the colour id used wherever no pattern colour applies.
const MainColor = "MC"

// ContrastColor is the conventional id of the first contrast yarn.
const ContrastColor = "CC"

// Color is one entry of a pattern palette.
type Color struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
	Color string `json:"color"` // hex, e.g. "#ff0000"
}

// ColorworkPattern is a rectangular grid of colour ids, row 0 first.
type ColorworkPattern struct {
	Grid     [][]string       `json:"grid"`
	Colors   map[string]Color `json:"colors"`
	Metadata map[string]any   `json:"metadata"`
}

// ColorSegment is a run of identical stitches within one row. Color is nil
// when the id is missing from the palette.
type ColorSegment struct {
	ColorID     string `json:"colorId"`
	Color       *Color `json:"color"`
	StitchCount int    `json:"stitchCount"`
}

// NewColorworkPattern creates a width x height grid filled with fill, or
// MainColor when fill is empty.
func NewColorworkPattern(width, height int, fill string) *ColorworkPattern {
	if fill == "" {
		fill = MainColor
	}
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	grid := make([][]string, height)
	for r := range grid {
		row := make([]string, width)
		for c := range row {
			row[c] = fill
		}
		grid[r] = row
	}
	return &ColorworkPattern{
		Grid:     grid,
		Colors:   map[string]Color{},
		Metadata: map[string]any{"width": width, "height": height},
	}
}

// NewColorworkPatternFromGrid wraps an existing grid and palette.
func NewColorworkPatternFromGrid(grid [][]string, colors map[string]Color, metadata map[string]any) *ColorworkPattern {
	if grid == nil {
		grid = [][]string{}
	}
	if colors == nil {
		colors = map[string]Color{}
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &ColorworkPattern{Grid: grid, Colors: colors, Metadata: metadata}
}

func (p *ColorworkPattern) RowCount() int { return len(p.Grid) }

// StitchCount is the width of the first row.
func (p *ColorworkPattern) StitchCount() int {
	if len(p.Grid) == 0 {
		return 0
	}
	return len(p.Grid[0])
}

// Stitch returns the colour id at (row, col), or "" outside the grid.
func (p *ColorworkPattern) Stitch(row, col int) string {
	if row < 0 || row >= len(p.Grid) || col < 0 || col >= len(p.Grid[row]) {
		return ""
	}
	return p.Grid[row][col]
}

// SetStitch ignores positions outside the grid.
func (p *ColorworkPattern) SetStitch(row, col int, colorID string) {
	if row < 0 || row >= len(p.Grid) || col < 0 || col >= len(p.Grid[row]) {
		return
	}
	p.Grid[row][col] = colorID
}

// SetColor adds or replaces a palette entry. CSS colour names such as "navy"
// are stored as hex. The label defaults to the id, or to the title-cased
// colour name when one was given.
func (p *ColorworkPattern) SetColor(id, color, label string) {
	if p.Colors == nil {
		p.Colors = map[string]Color{}
	}
	hex, named := ResolveColor(color)
	if label == "" {
		if named {
			label = cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(color)))
		} else {
			label = id
		}
	}
	p.Colors[id] = Color{ID: id, Label: label, Color: hex}
}

// ResolveColor maps a CSS colour name to hex. Other values are returned
// unchanged with named == false.
func ResolveColor(color string) (hex string, named bool) {
	key := strings.ToLower(strings.TrimSpace(color))
	if c, ok := colornames.Map[key]; ok {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), true
	}
	return color, false
}

// ColorsUsed lists the palette entries referenced by the grid in first-seen
// order. Empty ids and ids missing from the palette are skipped.
func (p *ColorworkPattern) ColorsUsed() []Color {
	seen := map[string]bool{}
	var used []Color
	for _, row := range p.Grid {
		for _, id := range row {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			if c, ok := p.Colors[id]; ok {
				used = append(used, c)
			}
		}
	}
	return used
}

// RowInstructions run-length encodes one grid row. Out of range indexes
// yield an empty list.
func (p *ColorworkPattern) RowInstructions(rowIndex int) []ColorSegment {
	if rowIndex < 0 || rowIndex >= len(p.Grid) {
		return []ColorSegment{}
	}
	return p.segments(p.Grid[rowIndex])
}

func (p *ColorworkPattern) segments(row []string) []ColorSegment {
	segments := []ColorSegment{}
	for i, id := range row {
		if i > 0 && id == row[i-1] {
			segments[len(segments)-1].StitchCount++
			continue
		}
		seg := ColorSegment{ColorID: id, StitchCount: 1}
		if c, ok := p.Colors[id]; ok {
			seg.Color = &c
		}
		segments = append(segments, seg)
	}
	return segments
}

// Segments run-length encodes an arbitrary row of colour ids against this
// pattern's palette.
func (p *ColorworkPattern) Segments(row []string) []ColorSegment {
	return p.segments(row)
}

// ResizeToFit resamples the grid to cols x rows by nearest neighbour. A
// pattern with no rows or no columns is left alone. fill, default
// MainColor, covers source rows that are missing.
func (p *ColorworkPattern) ResizeToFit(cols, rows int, fill string) {
	cols, rows = max(cols, 0), max(rows, 0)
	curCols, curRows := p.StitchCount(), p.RowCount()
	if curCols == 0 || curRows == 0 {
		return
	}
	if fill == "" {
		fill = MainColor
	}
	grid := make([][]string, 0, rows)
	for r := 0; r < rows; r++ {
		src := r * curRows / rows
		row := make([]string, cols)
		for c := range row {
			sc := c * curCols / cols
			if src < len(p.Grid) && sc < len(p.Grid[src]) {
				row[c] = p.Grid[src][sc]
			} else {
				row[c] = fill
			}
		}
		grid = append(grid, row)
	}
	p.Grid = grid
}

// ExtractSection copies the stitches [startStitch, endStitch) of rows
// [startRow, endRow), clamped to the grid. endRow <= 0 means all rows. The
// palette is shared with the source.
func (p *ColorworkPattern) ExtractSection(startStitch, endStitch, startRow, endRow int) *ColorworkPattern {
	if endRow <= 0 {
		endRow = p.RowCount()
	}
	lastRow := min(endRow, p.RowCount())
	lastCol := min(endStitch, p.StitchCount())

	section := [][]string{}
	for r := max(startRow, 0); r < lastRow; r++ {
		row := []string{}
		for c := max(startStitch, 0); c < lastCol; c++ {
			if c < len(p.Grid[r]) {
				row = append(row, p.Grid[r][c])
			} else {
				row = append(row, MainColor)
			}
		}
		section = append(section, row)
	}

	meta := make(map[string]any, len(p.Metadata)+3)
	for k, v := range p.Metadata {
		meta[k] = v
	}
	meta["isSection"] = true
	meta["originalStitchRange"] = []int{startStitch, endStitch}
	meta["originalRowRange"] = []int{startRow, endRow}
	return &ColorworkPattern{Grid: section, Colors: p.Colors, Metadata: meta}
}

// Name returns metadata["name"] when it is a string.
func (p *ColorworkPattern) Name() string {
	if s, ok := p.Metadata["name"].(string); ok {
		return s
	}
	return ""
}

type colorworkPatternJSON ColorworkPattern

func (p *ColorworkPattern) MarshalJSON() ([]byte, error) {
	out := colorworkPatternJSON(*NewColorworkPatternFromGrid(p.Grid, p.Colors, p.Metadata))
	return json.Marshal(out)
}

// UnmarshalJSON treats missing grid, colors and metadata as empty.
func (p *ColorworkPattern) UnmarshalJSON(data []byte) error {
	var in colorworkPatternJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*p = *NewColorworkPatternFromGrid(in.Grid, in.Colors, in.Metadata)
	return nil
}
