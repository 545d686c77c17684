package engine

import (
	"fmt"

	"github.com/piwi3910/KnitPlan/internal/model"
)

// SizeScenario is a named size modifier to compile a shape at.
type SizeScenario struct {
	Name         string
	SizeModifier float64
}

// SizeComparison summarises one shape compiled at one size.
type SizeComparison struct {
	Scenario     SizeScenario
	Instructions []string
	CastOn       int
	BindOff      int // stitches bound off on the final line, 0 when none
	TotalRows    int // highest machine row reached
	ShapingSteps int
}

// CompareSizes compiles the shape once per scenario, in scenario order, so
// sizes can be compared side by side. The shape itself is not modified.
func CompareSizes(shape *model.Trapezoid, g model.Gauge, scenarios []SizeScenario) []SizeComparison {
	results := make([]SizeComparison, 0, len(scenarios))
	if shape == nil {
		return results
	}

	for _, scenario := range scenarios {
		panel := model.NewPanel(shape.Clone(), g, scenario.SizeModifier, nil)
		steps := PanelSteps(panel)

		cmp := SizeComparison{
			Scenario:     scenario,
			Instructions: Texts(steps),
		}
		for _, s := range steps {
			switch s.Kind {
			case StepCastOn:
				cmp.CastOn = s.Stitches
			case StepShaping:
				cmp.ShapingSteps++
			}
			if s.Row > cmp.TotalRows {
				cmp.TotalRows = s.Row
			}
		}
		if n := len(steps); n > 0 && (steps[n-1].Kind == StepBindOff || steps[n-1].Kind == StepSectionBindOff) {
			cmp.BindOff = steps[n-1].Stitches
		}
		results = append(results, cmp)
	}
	return results
}

// SizeScenariosFromGarment lists the garment's sizes in document order.
func SizeScenariosFromGarment(g model.Garment) []SizeScenario {
	scenarios := make([]SizeScenario, 0, len(g.Sizes))
	for _, s := range g.Sizes {
		scenarios = append(scenarios, SizeScenario{Name: s.Name, SizeModifier: s.Modifier})
	}
	return scenarios
}

// BuildDefaultScenarios brackets the current size with one size down and
// one size up, using a 10% grade.
func BuildDefaultScenarios(current float64) []SizeScenario {
	if current <= 0 {
		current = model.DefaultPanelSizeModifier
	}
	return []SizeScenario{
		{Name: fmt.Sprintf("Smaller (%.3f)", current*0.9), SizeModifier: current * 0.9},
		{Name: "Current Size", SizeModifier: current},
		{Name: fmt.Sprintf("Larger (%.3f)", current*1.1), SizeModifier: current * 1.1},
	}
}
