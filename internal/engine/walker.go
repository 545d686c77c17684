package engine

import (
	"fmt"

	"github.com/piwi3910/KnitPlan/internal/model"
)

// KnittingSteps compiles a section and everything knitted after it into
// instruction steps. Row numbers start at startRow and continue across
// successors; sibling sections all start on the row after their parent.
// Only the root gets a cast-on line. motif is handed to successors through
// VisualMotif.Child and attached to their steps without being interpreted.
func KnittingSteps(t *model.Trapezoid, g model.Gauge, sizeModifier float64, startRow int, isRoot bool, motif *model.VisualMotif) []Step {
	steps, _ := walk(t, g, sizeModifier, startRow, isRoot, motif)
	return steps
}

// KnittingInstructions is KnittingSteps rendered as text.
func KnittingInstructions(t *model.Trapezoid, g model.Gauge, sizeModifier float64, startRow int, isRoot bool, motif *model.VisualMotif) []string {
	return Texts(KnittingSteps(t, g, sizeModifier, startRow, isRoot, motif))
}

// walk returns the steps for t and the last machine row it knitted, or
// startRow-1 when it knitted none.
func walk(t *model.Trapezoid, g model.Gauge, sizeModifier float64, startRow int, isRoot bool, motif *model.VisualMotif) ([]Step, int) {
	if t == nil {
		return []Step{}, startRow - 1
	}
	plan := CompileStitchPlan(t, g, sizeModifier, startRow)
	var steps []Step
	emit := func(s Step) {
		s.Motif = motif
		steps = append(steps, s)
	}

	first, hasRows := plan.FirstRow()
	last, _ := plan.LastRow()
	if isRoot && hasRows {
		emit(Step{
			Kind:     StepCastOn,
			Text:     fmt.Sprintf("Cast on %d stitches.", first.Total()),
			Stitches: first.Total(),
		})
	}
	for _, s := range plan.Steps() {
		emit(s)
	}
	for _, text := range t.FinishingSteps {
		emit(Step{Kind: StepFinishing, Text: text})
	}

	lastRow := startRow - 1
	nextRow := startRow
	if hasRows {
		lastRow = last.RowNumber
		nextRow = last.RowNumber + 1
	}
	childMotif := func() *model.VisualMotif {
		if motif == nil {
			return nil
		}
		return motif.Child(len(plan.Rows))
	}

	successors := nonNil(t.Successors)
	switch {
	case len(successors) > 1:
		emit(Step{Kind: StepDivide, Text: fmt.Sprintf("Divide into %d sections:", len(successors))})
		end := lastRow
		for i, s := range successors {
			width := s.UpperBaseStitches(g)
			if s.ScaledHeight() > 0 {
				emit(Step{
					Kind:     StepSection,
					Text:     fmt.Sprintf("Section %d: %d stitches", i+1, width),
					Stitches: width,
					Section:  i + 1,
				})
				sub, subLast := walk(s, g, sizeModifier, nextRow, false, childMotif())
				steps = append(steps, sub...)
				end = max(end, subLast)
			} else {
				emit(Step{
					Kind:     StepSectionBindOff,
					Text:     fmt.Sprintf("Section %d: bind off %d stitches.", i+1, width),
					Stitches: width,
					Section:  i + 1,
				})
			}
		}
		lastRow = end
	case len(successors) == 1:
		s := successors[0]
		if s.ScaledHeight() > 0 {
			sub, subLast := walk(s, g, sizeModifier, nextRow, false, childMotif())
			steps = append(steps, sub...)
			lastRow = max(lastRow, subLast)
		} else {
			width := s.UpperBaseStitches(g)
			emit(Step{Kind: StepBindOff, Text: fmt.Sprintf("Bind off %d stitches.", width), Stitches: width})
		}
	case hasRows:
		emit(Step{Kind: StepBindOff, Text: fmt.Sprintf("Bind off %d stitches.", last.Total()), Stitches: last.Total()})
	}

	if steps == nil {
		steps = []Step{}
	}
	return steps, lastRow
}

func nonNil(ts []*model.Trapezoid) []*model.Trapezoid {
	out := make([]*model.Trapezoid, 0, len(ts))
	for _, t := range ts {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

// PanelSteps compiles a whole panel starting at row 1. A panel without a
// shape has no steps.
func PanelSteps(p *model.Panel) []Step {
	if p == nil || p.Shape == nil {
		return []Step{}
	}
	return KnittingSteps(p.Shape, p.Gauge, p.SizeModifier, 1, true, p.VisualMotif)
}

// PanelInstructions is PanelSteps rendered as text.
func PanelInstructions(p *model.Panel) []string {
	return Texts(PanelSteps(p))
}

// PanelStitchPlan compiles the root section of a panel from row 1.
func PanelStitchPlan(p *model.Panel) *StitchPlan {
	if p == nil || p.Shape == nil {
		g := model.DefaultGauge()
		if p != nil {
			g = p.Gauge
		}
		return NewStitchPlan(g, 1)
	}
	return CompileStitchPlan(p.Shape, p.Gauge, p.SizeModifier, 1)
}
