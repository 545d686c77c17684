// Package instructions joins a panel's shaping steps with the colorwork of
// a combined pattern, row by row.
package instructions

import (
	"errors"
	"fmt"
	"strings"

	"github.com/piwi3910/KnitPlan/internal/chart"
	"github.com/piwi3910/KnitPlan/internal/engine"
	"github.com/piwi3910/KnitPlan/internal/logging"
	"github.com/piwi3910/KnitPlan/internal/model"
)

// Format selects how much of the combined instruction list is returned.
type Format string

const (
	FormatCompact  Format = "compact"
	FormatDetailed Format = "detailed"
	FormatVisual   Format = "visual"
)

const (
	compactLimit = 10
	visualLimit  = 5
)

var ErrUnknownFormat = errors.New("unknown instruction format")

// ParseFormat validates a format name. "" selects compact.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCompact, nil
	case FormatCompact, FormatDetailed, FormatVisual:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Shaping is the shaping part of a combined instruction.
type Shaping struct {
	Kind        engine.StepKind `json:"kind"`
	Description string          `json:"description"`
	Index       int             `json:"index"` // position in the panel's step list
}

// General reports whether the shaping line is not tied to a row.
func (s *Shaping) General() bool {
	switch s.Kind {
	case engine.StepKnit, engine.StepShaping:
		return false
	}
	return true
}

// Colorwork is the colour sequence for one row.
type Colorwork struct {
	Sequence      []model.ColorSegment `json:"colorSequence"`
	TotalStitches int                  `json:"totalStitches"`
	Description   string               `json:"description"`
}

// CombinedInstruction is one row of knitting with its shaping and colours.
// General lines such as the cast-on have Row 0 and no colorwork.
type CombinedInstruction struct {
	Row         int          `json:"row,omitempty"`
	MachineRow  int          `json:"machineRow,omitempty"`
	Shaping     *Shaping     `json:"shaping,omitempty"`
	Colorwork   *Colorwork   `json:"colorwork,omitempty"`
	VisualChart *chart.Chart `json:"visualChart,omitempty"`
}

// HasShaping reports whether the row increases or decreases.
func (ci CombinedInstruction) HasShaping() bool {
	if ci.Shaping == nil {
		return false
	}
	return strings.Contains(ci.Shaping.Description, "Increase") || strings.Contains(ci.Shaping.Description, "Decrease")
}

func (ci CombinedInstruction) HasColorwork() bool {
	return ci.Colorwork != nil && len(ci.Colorwork.Sequence) > 0
}

func (ci CombinedInstruction) String() string {
	if ci.Row == 0 {
		if ci.Shaping != nil {
			return ci.Shaping.Description
		}
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Row %d", ci.Row)
	if ci.MachineRow != 0 && ci.MachineRow != ci.Row {
		fmt.Fprintf(&b, " (RC: %d)", ci.MachineRow)
	}
	if ci.HasShaping() {
		fmt.Fprintf(&b, ": %s", ci.Shaping.Description)
	}
	if ci.HasColorwork() {
		fmt.Fprintf(&b, " Colorwork: %s", ci.Colorwork.Description)
	}
	return b.String()
}

// Lines renders each instruction with String.
func Lines(list []CombinedInstruction) []string {
	out := make([]string, len(list))
	for i, ci := range list {
		out[i] = ci.String()
	}
	return out
}

// Generator builds combined instructions. Charts controls the single-row
// chart attached to every colorwork row; set NoCharts to skip them.
type Generator struct {
	Charts   chart.Options
	NoCharts bool
}

// NewGenerator draws 15px row charts with grid lines and no numbering.
func NewGenerator() *Generator {
	return &Generator{
		Charts: chart.Options{CellSize: 15, ShowGrid: true},
	}
}

// Generate compiles the panel's steps, joins them with the colorwork and
// applies the format.
func (g *Generator) Generate(cp *engine.CombinedPattern, format Format) ([]CombinedInstruction, error) {
	if format == "" {
		format = FormatCompact
	}
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	list := g.Combined(cp)
	return ApplyFormat(list, format)
}

// ApplyFormat filters a full instruction list. Compact keeps rows with
// shaping or colorwork plus every fifth row, up to 10 entries. Visual keeps
// entries with a chart, up to 5. Detailed keeps everything.
func ApplyFormat(list []CombinedInstruction, format Format) ([]CombinedInstruction, error) {
	switch format {
	case FormatDetailed:
		return list, nil
	case FormatCompact, "":
		return filter(list, compactLimit, func(ci CombinedInstruction) bool {
			return ci.HasShaping() || ci.HasColorwork() || ci.Row%5 == 1
		}), nil
	case FormatVisual:
		return filter(list, visualLimit, func(ci CombinedInstruction) bool {
			return ci.VisualChart != nil
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func filter(list []CombinedInstruction, limit int, keep func(CombinedInstruction) bool) []CombinedInstruction {
	out := []CombinedInstruction{}
	for _, ci := range list {
		if len(out) == limit {
			break
		}
		if keep(ci) {
			out = append(out, ci)
		}
	}
	return out
}

// Combined returns the full, unfiltered list for the pattern's panel.
func (g *Generator) Combined(cp *engine.CombinedPattern) []CombinedInstruction {
	if cp == nil {
		return []CombinedInstruction{}
	}
	return g.Synchronize(engine.PanelSteps(cp.Panel), cp)
}

// Synchronize pairs each mapped row with the shaping step that ends on the
// same machine row. The result is ordered as:
//
//	cast-on
//	one entry per mapped row
//	row shaping steps that no mapped row claimed
//	the remaining general steps, in step order
//
// When several steps end on the same row, as sibling sections do, the last
// one is paired and the others are kept as unclaimed shaping.
func (g *Generator) Synchronize(steps []engine.Step, cp *engine.CombinedPattern) []CombinedInstruction {
	var rows []engine.MappedRow
	var pattern *model.ColorworkPattern
	if cp != nil {
		rows = cp.MappedRows
		pattern = cp.ColorworkPattern
	}
	if pattern == nil {
		pattern = model.NewColorworkPatternFromGrid(nil, nil, nil)
	}

	byRow := map[int]int{}
	for i, s := range steps {
		if s.HasRow() {
			byRow[s.Row] = i
		}
	}

	out := make([]CombinedInstruction, 0, len(rows)+len(steps))
	claimed := make([]bool, len(steps))
	for i, r := range rows {
		ci := CombinedInstruction{
			Row:        r.PanelRow,
			MachineRow: r.MachineRow,
			Colorwork:  g.rowColorwork(r, pattern),
		}
		if idx, ok := byRow[r.MachineRow]; ok {
			ci.Shaping = shapingOf(steps[idx], idx)
			claimed[idx] = true
		}
		if !g.NoCharts {
			ci.VisualChart = g.rowChart(rows, i, pattern)
		}
		out = append(out, ci)
	}

	var unclaimed, general []CombinedInstruction
	var castOn []CombinedInstruction
	for i, s := range steps {
		switch {
		case claimed[i]:
		case s.HasRow():
			unclaimed = append(unclaimed, CombinedInstruction{
				Row:        s.Row,
				MachineRow: s.Row,
				Shaping:    shapingOf(s, i),
			})
		case s.Kind == engine.StepCastOn:
			castOn = append(castOn, CombinedInstruction{Shaping: shapingOf(s, i)})
		default:
			general = append(general, CombinedInstruction{Shaping: shapingOf(s, i)})
		}
	}
	if len(unclaimed) > 0 {
		logging.Logger().Debug("shaping rows without colorwork", "count", len(unclaimed))
	}

	result := make([]CombinedInstruction, 0, len(castOn)+len(out)+len(unclaimed)+len(general))
	result = append(result, castOn...)
	result = append(result, out...)
	result = append(result, unclaimed...)
	result = append(result, general...)
	return result
}

// SynchronizeText joins plain instruction lines, lifted with FromStrings.
func (g *Generator) SynchronizeText(lines []string, cp *engine.CombinedPattern) []CombinedInstruction {
	return g.Synchronize(FromStrings(lines), cp)
}

func shapingOf(s engine.Step, index int) *Shaping {
	return &Shaping{Kind: s.Kind, Description: s.Text, Index: index}
}

func (g *Generator) rowColorwork(r engine.MappedRow, pattern *model.ColorworkPattern) *Colorwork {
	segs := pattern.Segments(r.Colorwork)
	return &Colorwork{
		Sequence:      segs,
		TotalStitches: r.TotalStitches,
		Description:   DescribeColorwork(segs),
	}
}

// DescribeColorwork formats runs as "3 Main Color, 2 CC", or "No colorwork"
// for an empty row.
func DescribeColorwork(segs []model.ColorSegment) string {
	if len(segs) == 0 {
		return "No colorwork"
	}
	return chart.DescribeSegments(segs)
}

func (g *Generator) rowChart(rows []engine.MappedRow, index int, pattern *model.ColorworkPattern) *chart.Chart {
	if index < 0 || index >= len(rows) {
		return nil
	}
	single := model.NewColorworkPatternFromGrid([][]string{rows[index].Colorwork}, pattern.Colors, nil)
	c := chart.Generate(single, g.Charts)
	return &c
}
