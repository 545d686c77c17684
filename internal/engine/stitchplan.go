package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/KnitPlan/internal/logging"
	"github.com/piwi3910/KnitPlan/internal/model"
)

// Row is the stitch count on each half of the needle bed after knitting
// one machine row.
type Row struct {
	RowNumber           int           `json:"rowNumber"`
	LeftStitchesInWork  int           `json:"leftStitchesInWork"`
	RightStitchesInWork int           `json:"rightStitchesInWork"`
	Colorwork           *RowColorwork `json:"colorwork,omitempty"`
}

// Total is the number of stitches in work.
func (r Row) Total() int { return r.LeftStitchesInWork + r.RightStitchesInWork }

// RowColorwork annotates a row with one colour id per stitch.
type RowColorwork struct {
	Colors  []string                `json:"colors"`
	Pattern *model.ColorworkPattern `json:"-"`
}

// ColorworkInstructions run-length encodes the row's colours. It returns nil
// for rows without colorwork.
func (r Row) ColorworkInstructions() []model.ColorSegment {
	if r.Colorwork == nil {
		return nil
	}
	p := r.Colorwork.Pattern
	if p == nil {
		p = model.NewColorworkPatternFromGrid(nil, nil, nil)
	}
	return p.Segments(r.Colorwork.Colors)
}

// StitchPlan is the row by row stitch count of one section.
type StitchPlan struct {
	Gauge        model.Gauge `json:"gauge"`
	SizeModifier float64     `json:"sizeModifier"`
	Rows         []Row       `json:"rows"`
}

// NewStitchPlan creates an empty plan.
func NewStitchPlan(g model.Gauge, sizeModifier float64) *StitchPlan {
	return &StitchPlan{Gauge: g, SizeModifier: sizeModifier, Rows: []Row{}}
}

func (p *StitchPlan) AddRow(r Row) { p.Rows = append(p.Rows, r) }

// Empty reports whether the plan has no rows.
func (p *StitchPlan) Empty() bool { return len(p.Rows) == 0 }

// FirstRow returns the first row; ok is false for an empty plan.
func (p *StitchPlan) FirstRow() (Row, bool) {
	if len(p.Rows) == 0 {
		return Row{}, false
	}
	return p.Rows[0], true
}

// LastRow returns the last row; ok is false for an empty plan.
func (p *StitchPlan) LastRow() (Row, bool) {
	if len(p.Rows) == 0 {
		return Row{}, false
	}
	return p.Rows[len(p.Rows)-1], true
}

// RowByNumber finds a row by its machine row number.
func (p *StitchPlan) RowByNumber(n int) (Row, bool) {
	if len(p.Rows) == 0 {
		return Row{}, false
	}
	if i := n - p.Rows[0].RowNumber; i >= 0 && i < len(p.Rows) && p.Rows[i].RowNumber == n {
		return p.Rows[i], true
	}
	for _, r := range p.Rows {
		if r.RowNumber == n {
			return r, true
		}
	}
	return Row{}, false
}

// CompileStitchPlan lays out the rows of a single section, ignoring its
// successors. The panel size modifier multiplies the gauge on top of the
// section's own scaling. Increases and decreases on each edge are spread
// over the rows with a fractional accumulator. A section that rounds to zero
// rows yields an empty plan.
func CompileStitchPlan(t *model.Trapezoid, g model.Gauge, sizeModifier float64, startRow int) *StitchPlan {
	plan := NewStitchPlan(g, sizeModifier)

	stitchesPerInch := g.StitchesPerInch() * sizeModifier
	rowsPerInch := g.RowsPerInch() * sizeModifier
	startStitches := model.RoundHalfUp(t.LowerBase() * stitchesPerInch)
	startLeft := floorDiv(startStitches, 2)
	startRight := startStitches - startLeft
	totalRows := model.RoundHalfUp(t.ScaledHeight() * rowsPerInch)

	if totalRows <= 0 {
		logging.Logger().Debug("section compiles to no rows",
			"id", t.ID, "height", t.Height, "rows", totalRows)
		return plan
	}

	widthDiff := t.UpperBase() - t.LowerBase()
	leftIncrease := model.RoundHalfUp((widthDiff/2 - t.Offset()) * stitchesPerInch)
	rightIncrease := model.RoundHalfUp((widthDiff/2 + t.Offset()) * stitchesPerInch)

	left := newEdgeShaper(leftIncrease, totalRows)
	right := newEdgeShaper(rightIncrease, totalRows)

	prev := Row{RowNumber: startRow - 1, LeftStitchesInWork: startLeft, RightStitchesInWork: startRight}
	negative := false
	for n := startRow; n < startRow+totalRows; n++ {
		row := Row{
			RowNumber:           n,
			LeftStitchesInWork:  prev.LeftStitchesInWork + left.next(),
			RightStitchesInWork: prev.RightStitchesInWork + right.next(),
		}
		if row.LeftStitchesInWork < 0 || row.RightStitchesInWork < 0 {
			negative = true
		}
		plan.AddRow(row)
		prev = row
	}
	if negative {
		logging.Logger().Warn("stitch plan has negative stitch counts", "id", t.ID)
	}
	return plan
}

// edgeShaper spreads a fixed number of increases or decreases evenly over
// a number of rows.
type edgeShaper struct {
	sign      int
	frequency float64
	counter   float64
}

func newEdgeShaper(stitches, rows int) *edgeShaper {
	sign := -1
	if stitches > 0 {
		sign = 1
	}
	return &edgeShaper{
		sign:      sign,
		frequency: math.Abs(float64(stitches) / float64(rows)),
	}
}

// next returns the stitch change for the following row.
func (e *edgeShaper) next() int {
	e.counter += e.frequency
	change := 0
	for e.counter >= 1 {
		change += e.sign
		e.counter--
	}
	return change
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Steps condenses the plan into instruction lines. A plan whose first and
// last rows match is reported as one knit run. Otherwise every change in
// stitch count produces a line that covers the unchanged rows before it. Rows
// after the final change are not reported.
func (p *StitchPlan) Steps() []Step {
	if len(p.Rows) == 0 {
		return []Step{}
	}
	first, last := p.Rows[0], p.Rows[len(p.Rows)-1]
	if first.LeftStitchesInWork == last.LeftStitchesInWork && first.RightStitchesInWork == last.RightStitchesInWork {
		return []Step{{
			Kind:     StepKnit,
			Text:     fmt.Sprintf("Knit %d rows (RC=%d, %d sts in work).", len(p.Rows), last.RowNumber, last.Total()),
			Row:      last.RowNumber,
			Stitches: last.Total(),
		}}
	}

	steps := []Step{}
	consecutive := 1
	prev := first
	for _, row := range p.Rows {
		leftDiff := row.LeftStitchesInWork - prev.LeftStitchesInWork
		rightDiff := row.RightStitchesInWork - prev.RightStitchesInWork
		if leftDiff == 0 && rightDiff == 0 {
			consecutive++
			continue
		}

		var b strings.Builder
		writeShaping(&b, leftDiff, "left")
		writeShaping(&b, rightDiff, "right")
		if consecutive > 1 {
			fmt.Fprintf(&b, "Knit %d rows. ", consecutive)
		} else {
			b.WriteString("Knit 1 row. ")
		}
		fmt.Fprintf(&b, "(RC=%d, %d sts in work)", row.RowNumber, row.Total())

		steps = append(steps, Step{
			Kind:     StepShaping,
			Text:     b.String(),
			Row:      row.RowNumber,
			Stitches: row.Total(),
		})
		prev = row
		consecutive = 1
	}
	return steps
}

func writeShaping(b *strings.Builder, diff int, edge string) {
	if diff == 0 {
		return
	}
	verb := "Increase"
	n := diff
	if diff < 0 {
		verb = "Decrease"
		n = -diff
	}
	suffix := ""
	if n > 1 {
		suffix = "es"
	}
	fmt.Fprintf(b, "%s %d stitch%s on the %s. ", verb, n, suffix, edge)
}

// Instructions returns the condensed plan as text.
func (p *StitchPlan) Instructions() []string {
	return Texts(p.Steps())
}
