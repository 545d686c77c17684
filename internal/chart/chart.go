// Package chart renders colorwork patterns as charts and row-by-row colour
// instructions.
package chart

import (
	"fmt"
	"html"
	"strings"

	"github.com/piwi3910/KnitPlan/internal/model"
)

const (
	defaultCellSize = 20
	gridColor       = "#cccccc"
	labelColor      = "#666"
	fontFamily      = "Arial, sans-serif"
)

// Options control chart layout. Width and Height, when set, override the
// reported dimensions but not the drawing.
type Options struct {
	CellSize          int  `json:"cellSize"`
	ShowGrid          bool `json:"showGrid"`
	ShowRowNumbers    bool `json:"showRowNumbers"`
	ShowStitchNumbers bool `json:"showStitchNumbers"`
	Width             int  `json:"width,omitempty"`
	Height            int  `json:"height,omitempty"`
}

// DefaultOptions draws 20px cells with grid lines and row numbers.
func DefaultOptions() Options {
	return Options{
		CellSize:       defaultCellSize,
		ShowGrid:       true,
		ShowRowNumbers: true,
	}
}

// Chart is a rendered SVG chart.
type Chart struct {
	SVG      string `json:"svg"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	CellSize int    `json:"cellSize"`

	Pattern *model.ColorworkPattern `json:"-"`
}

// Empty reports whether the chart is the "No Pattern" placeholder.
func (c Chart) Empty() bool { return c.Pattern == nil }

const emptySVG = `<svg width="100" height="50" xmlns="http://www.w3.org/2000/svg">` +
	`<text x="50" y="25" text-anchor="middle" font-family="Arial, sans-serif" font-size="12" fill="#666">No Pattern</text></svg>`

func emptyChart() Chart {
	return Chart{SVG: emptySVG, Width: 100, Height: 50, CellSize: defaultCellSize}
}

type layout struct {
	rows, stitches int
	cell           int
	left, top      int
	width, height  int
}

func newLayout(p *model.ColorworkPattern, opts Options) layout {
	l := layout{rows: p.RowCount(), stitches: p.StitchCount(), cell: opts.CellSize, left: 5, top: 5}
	if l.cell <= 0 {
		l.cell = defaultCellSize
	}
	if opts.ShowRowNumbers {
		l.left = 30
	}
	if opts.ShowStitchNumbers {
		l.top = 30
	}
	l.width = l.stitches*l.cell + l.left + 5
	l.height = l.rows*l.cell + l.top + 5
	return l
}

// Generate draws the pattern as an SVG grid, top row first. Row numbers
// count up from the bottom row, the way machine charts are read. A pattern
// without rows or stitches renders a placeholder.
func Generate(p *model.ColorworkPattern, opts Options) Chart {
	if p == nil || p.RowCount() == 0 || p.StitchCount() == 0 {
		return emptyChart()
	}
	l := newLayout(p, opts)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`+"\n", l.width, l.height)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="white" stroke="none"/>`, l.width, l.height)

	stroke := "none"
	if opts.ShowGrid {
		stroke = gridColor
	}
	for row := 0; row < l.rows; row++ {
		for col := 0; col < l.stitches; col++ {
			fill := "#ffffff"
			if c, ok := p.Colors[p.Stitch(row, col)]; ok && c.Color != "" {
				fill = c.Color
			}
			fmt.Fprintf(&b, "\n"+`<rect x="%d" y="%d" width="%d" height="%d" fill="%s" stroke="%s" stroke-width="0.5"/>`,
				l.left+col*l.cell, l.top+row*l.cell, l.cell, l.cell, html.EscapeString(fill), stroke)
		}
	}

	half := float64(l.cell) / 2
	if opts.ShowRowNumbers {
		for row := 0; row < l.rows; row++ {
			y := float64(l.top+row*l.cell) + half + 4
			fmt.Fprintf(&b, "\n"+`<text x="20" y="%g" text-anchor="middle" font-family="%s" font-size="10" fill="%s">%d</text>`,
				y, fontFamily, labelColor, l.rows-row)
		}
	}
	if opts.ShowStitchNumbers {
		for col := 0; col < l.stitches; col++ {
			x := float64(l.left+col*l.cell) + half
			fmt.Fprintf(&b, "\n"+`<text x="%g" y="20" text-anchor="middle" font-family="%s" font-size="10" fill="%s">%d</text>`,
				x, fontFamily, labelColor, col+1)
		}
	}
	b.WriteString("\n</svg>")

	c := Chart{SVG: b.String(), Width: l.width, Height: l.height, CellSize: l.cell, Pattern: p}
	if opts.Width > 0 {
		c.Width = opts.Width
	}
	if opts.Height > 0 {
		c.Height = opts.Height
	}
	return c
}

// RowInstruction is the colour sequence for one pattern row.
type RowInstruction struct {
	Row           int                  `json:"row"` // 1-based from the top of the grid
	Stitches      []model.ColorSegment `json:"stitches"`
	TotalStitches int                  `json:"totalStitches"`
	Description   string               `json:"description"`
}

// RowInstructions describes every row of the pattern, e.g.
// "Row 1: 3 Main Color, 2 Contrast Color".
func RowInstructions(p *model.ColorworkPattern) []RowInstruction {
	out := []RowInstruction{}
	if p == nil {
		return out
	}
	for i := 0; i < p.RowCount(); i++ {
		segs := p.RowInstructions(i)
		out = append(out, RowInstruction{
			Row:           i + 1,
			Stitches:      segs,
			TotalStitches: p.StitchCount(),
			Description:   describeRow(segs, i+1),
		})
	}
	return out
}

func describeRow(segs []model.ColorSegment, row int) string {
	if len(segs) == 0 {
		return fmt.Sprintf("Row %d: No stitches", row)
	}
	return fmt.Sprintf("Row %d: %s", row, DescribeSegments(segs))
}

// DescribeSegments joins runs as "3 Main Color, 2 CC", using the colour
// label when the segment carries one and the id otherwise.
func DescribeSegments(segs []model.ColorSegment) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		label := s.ColorID
		if s.Color != nil {
			label = s.Color.Label
		}
		parts[i] = fmt.Sprintf("%d %s", s.StitchCount, label)
	}
	return strings.Join(parts, ", ")
}

// LegendEntry is one colour in a chart legend.
type LegendEntry struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// Legend lists the palette colours that appear in the grid, in the order
// they are first used.
func Legend(p *model.ColorworkPattern) []LegendEntry {
	out := []LegendEntry{}
	if p == nil {
		return out
	}
	for _, c := range p.ColorsUsed() {
		out = append(out, LegendEntry{
			ID:          c.ID,
			Label:       c.Label,
			Color:       c.Color,
			Description: fmt.Sprintf("%s (%s)", c.Label, c.Color),
		})
	}
	return out
}
