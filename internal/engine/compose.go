package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/piwi3910/KnitPlan/internal/logging"
	"github.com/piwi3910/KnitPlan/internal/model"
)

var (
	ErrUnknownStretchMode = errors.New("unknown stretch mode")
	ErrUnknownAlignment   = errors.New("unknown alignment mode")
)

// rowMapper picks the pattern row for a plan row, or -1 for none.
type rowMapper func(index, totalRows, patternRows int) int

// stitchMapper picks the pattern column for a stitch. ok is false when the
// stitch lies outside the pattern and gets the main colour.
type stitchMapper func(stitch, totalStitches, patternWidth, start int) (col int, ok bool)

type stretchStrategy struct {
	row    rowMapper
	stitch stitchMapper
}

var stretchStrategies = map[model.StretchMode]stretchStrategy{
	model.StretchRepeat: {
		row: func(i, _, h int) int { return i % h },
		stitch: func(s, _, w, _ int) (int, bool) {
			return s % w, true
		},
	},
	model.StretchFit: {
		row: func(i, total, h int) int { return i * h / total },
		stitch: func(s, total, w, _ int) (int, bool) {
			return s * w / total, true
		},
	},
	model.StretchCenter: {
		row: func(i, total, h int) int {
			start := floorDiv(total-h, 2)
			if i < start || i >= start+h {
				return -1
			}
			return i - start
		},
		stitch: func(s, _, w, start int) (int, bool) {
			if s < start || s >= start+w {
				return 0, false
			}
			return s - start, true
		},
	},
}

// alignStart gives the first stitch a centred pattern of width w occupies.
var alignStart = map[model.Alignment]func(total, w int) int{
	model.AlignCenter: func(total, w int) int { return floorDiv(total-w, 2) },
	model.AlignLeft:   func(int, int) int { return 0 },
	model.AlignRight:  func(total, w int) int { return total - w },
}

// ParseStretchMode validates a mode name. "" selects repeat.
func ParseStretchMode(s string) (model.StretchMode, error) {
	if s == "" {
		return model.StretchRepeat, nil
	}
	m := model.StretchMode(s)
	if _, ok := stretchStrategies[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStretchMode, s)
	}
	return m, nil
}

// ParseAlignment validates an alignment name. "" selects center.
func ParseAlignment(s string) (model.Alignment, error) {
	if s == "" {
		return model.AlignCenter, nil
	}
	a := model.Alignment(s)
	if _, ok := alignStart[a]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAlignment, s)
	}
	return a, nil
}

// MapRowIndex returns the pattern row used for plan row index (0-based),
// or -1 when the row gets no colorwork. A pattern without rows maps to 0.
func MapRowIndex(index, totalRows, patternRows int, mode model.StretchMode) (int, error) {
	strategy, ok := stretchStrategies[mode]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStretchMode, mode)
	}
	if patternRows == 0 {
		return 0, nil
	}
	return strategy.row(index, totalRows, patternRows), nil
}

// MapRowStitches produces one colour id per stitch of a row. Rows outside
// the pattern, stitches outside a centred pattern and empty cells all get
// the main colour.
func MapRowStitches(p *model.ColorworkPattern, rowIndex, totalStitches int, mode model.StretchMode, align model.Alignment) ([]string, error) {
	strategy, ok := stretchStrategies[mode]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStretchMode, mode)
	}
	startFn, ok := alignStart[align]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlignment, align)
	}

	out := make([]string, max(totalStitches, 0))
	if p == nil || rowIndex < 0 || rowIndex >= p.RowCount() {
		for i := range out {
			out[i] = model.MainColor
		}
		return out, nil
	}

	patternRow := p.Grid[rowIndex]
	w := len(patternRow)
	start := startFn(totalStitches, w)
	for s := range out {
		out[s] = model.MainColor
		if w == 0 {
			continue
		}
		col, inside := strategy.stitch(s, totalStitches, w, start)
		if !inside || col < 0 || col >= w {
			continue
		}
		if id := patternRow[col]; id != "" {
			out[s] = id
		}
	}
	return out, nil
}

// MappedRow is one plan row with its colours.
type MappedRow struct {
	PanelRow          int      `json:"panelRow"` // 1-based
	MachineRow        int      `json:"machineRow"`
	LeftStitches      int      `json:"leftStitches"`
	RightStitches     int      `json:"rightStitches"`
	TotalStitches     int      `json:"totalStitches"`
	Colorwork         []string `json:"colorwork"`
	ColorworkRowIndex int      `json:"colorworkRowIndex"`
}

// CombineOptions selects the fitting policy. Zero values use the
// composer defaults.
type CombineOptions struct {
	StretchMode model.StretchMode `json:"stretchMode"`
	Alignment   model.Alignment   `json:"alignmentMode"`
}

// Composer maps colorwork onto panel stitch plans.
type Composer struct {
	DefaultStretchMode model.StretchMode
	DefaultAlignment   model.Alignment
	Now                func() time.Time
}

// NewComposer defaults to repeat mode with centred alignment.
func NewComposer() *Composer {
	return &Composer{
		DefaultStretchMode: model.StretchRepeat,
		DefaultAlignment:   model.AlignCenter,
		Now:                time.Now,
	}
}

// Combine compiles the root section of the panel and gives every row a
// colour per stitch. The colours are also attached to the plan's rows.
// Successor sections are not mapped.
func (c *Composer) Combine(panel *model.Panel, pattern *model.ColorworkPattern, opts CombineOptions) (*CombinedPattern, error) {
	mode := opts.StretchMode
	if mode == "" {
		mode = c.DefaultStretchMode
	}
	align := opts.Alignment
	if align == "" {
		align = c.DefaultAlignment
	}
	if _, ok := stretchStrategies[mode]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStretchMode, mode)
	}
	if _, ok := alignStart[align]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlignment, align)
	}
	if pattern == nil {
		pattern = model.NewColorworkPatternFromGrid(nil, nil, nil)
	}

	plan := PanelStitchPlan(panel)
	rows, err := mapRows(plan, pattern, mode, align)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		plan.Rows[i].Colorwork = &RowColorwork{Colors: rows[i].Colorwork, Pattern: pattern}
	}
	if len(rows) == 0 {
		logging.Logger().Debug("combined pattern has no rows")
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return &CombinedPattern{
		Panel:            panel,
		ColorworkPattern: pattern,
		MappedRows:       rows,
		StitchPlan:       plan,
		Metadata: CombinedMetadata{
			Created:      now().UTC().Format(time.RFC3339),
			PanelType:    "shaped",
			HasColorwork: true,
			StretchMode:  mode,
			Alignment:    align,
		},
	}, nil
}

func mapRows(plan *StitchPlan, pattern *model.ColorworkPattern, mode model.StretchMode, align model.Alignment) ([]MappedRow, error) {
	rows := make([]MappedRow, 0, len(plan.Rows))
	total := len(plan.Rows)
	for i, r := range plan.Rows {
		idx, err := MapRowIndex(i, total, pattern.RowCount(), mode)
		if err != nil {
			return nil, err
		}
		colors, err := MapRowStitches(pattern, idx, r.Total(), mode, align)
		if err != nil {
			return nil, err
		}
		rows = append(rows, MappedRow{
			PanelRow:          i + 1,
			MachineRow:        r.RowNumber,
			LeftStitches:      r.LeftStitchesInWork,
			RightStitches:     r.RightStitchesInWork,
			TotalStitches:     r.Total(),
			Colorwork:         colors,
			ColorworkRowIndex: idx,
		})
	}
	return rows, nil
}

// CombinedMetadata describes how a combined pattern was produced.
type CombinedMetadata struct {
	Created      string            `json:"created"`
	PanelType    string            `json:"panelType"`
	HasColorwork bool              `json:"hasColorwork"`
	StretchMode  model.StretchMode `json:"stretchMode,omitempty"`
	Alignment    model.Alignment   `json:"alignmentMode,omitempty"`
}

// CombinedPattern is a panel's root plan with colorwork applied.
type CombinedPattern struct {
	Panel            *model.Panel
	ColorworkPattern *model.ColorworkPattern
	MappedRows       []MappedRow
	StitchPlan       *StitchPlan
	Metadata         CombinedMetadata
}

func (cp *CombinedPattern) RowCount() int { return len(cp.MappedRows) }

// RowColorwork returns the mapped row at a 0-based index.
func (cp *CombinedPattern) RowColorwork(index int) (MappedRow, bool) {
	if index < 0 || index >= len(cp.MappedRows) {
		return MappedRow{}, false
	}
	return cp.MappedRows[index], true
}

// RowByMachineRow finds the mapped row for a machine row number.
func (cp *CombinedPattern) RowByMachineRow(n int) (MappedRow, bool) {
	for _, r := range cp.MappedRows {
		if r.MachineRow == n {
			return r, true
		}
	}
	return MappedRow{}, false
}

// ColorsUsed lists the pattern palette entries that appear in its grid.
func (cp *CombinedPattern) ColorsUsed() []model.Color {
	if cp.ColorworkPattern == nil {
		return nil
	}
	return cp.ColorworkPattern.ColorsUsed()
}

type combinedPanelJSON struct {
	Shape        *model.Trapezoid `json:"shape"`
	Gauge        model.Gauge      `json:"gauge"`
	SizeModifier float64          `json:"sizeModifier"`
}

type combinedPatternJSON struct {
	Panel            combinedPanelJSON       `json:"panel"`
	ColorworkPattern *model.ColorworkPattern `json:"colorworkPattern"`
	MappedRows       []MappedRow             `json:"mappedRows"`
	StitchPlan       *StitchPlan             `json:"stitchPlan,omitempty"`
	Metadata         CombinedMetadata        `json:"metadata"`
}

func (cp *CombinedPattern) MarshalJSON() ([]byte, error) {
	out := combinedPatternJSON{
		ColorworkPattern: cp.ColorworkPattern,
		MappedRows:       cp.MappedRows,
		StitchPlan:       cp.StitchPlan,
		Metadata:         cp.Metadata,
	}
	if cp.Panel != nil {
		out.Panel = combinedPanelJSON{Shape: cp.Panel.Shape, Gauge: cp.Panel.Gauge, SizeModifier: cp.Panel.SizeModifier}
	}
	if out.MappedRows == nil {
		out.MappedRows = []MappedRow{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds the panel and pattern. Rows are taken as stored,
// not recomputed.
func (cp *CombinedPattern) UnmarshalJSON(data []byte) error {
	var in combinedPatternJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	size := in.Panel.SizeModifier
	if size == 0 {
		size = model.DefaultPanelSizeModifier
	}
	pattern := in.ColorworkPattern
	if pattern == nil {
		pattern = model.NewColorworkPatternFromGrid(nil, nil, nil)
	}
	*cp = CombinedPattern{
		Panel:            model.NewPanel(in.Panel.Shape, in.Panel.Gauge, size, nil),
		ColorworkPattern: pattern,
		MappedRows:       in.MappedRows,
		StitchPlan:       in.StitchPlan,
		Metadata:         in.Metadata,
	}
	if cp.MappedRows == nil {
		cp.MappedRows = []MappedRow{}
	}
	if cp.StitchPlan != nil {
		for i := range cp.StitchPlan.Rows {
			if cw := cp.StitchPlan.Rows[i].Colorwork; cw != nil {
				cw.Pattern = pattern
			}
		}
	}
	return nil
}
