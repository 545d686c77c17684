package instructions

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/piwi3910/KnitPlan/internal/engine"
)

// rowRe finds a row reference such as "Row 12", "RC=12" or "RC: 12".
var rowRe = regexp.MustCompile(`(?i)(?:Row|RC[=:]?)\s*(\d+)`)

// ParseRowNumber extracts the first row reference from an instruction line.
func ParseRowNumber(line string) (int, bool) {
	m := rowRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// FromStrings lifts plain instruction lines, such as those saved by older
// versions, back into steps. Lines with a row reference become knit or
// shaping steps on that row; the rest are classified by their wording.
func FromStrings(lines []string) []engine.Step {
	steps := make([]engine.Step, 0, len(lines))
	for _, line := range lines {
		steps = append(steps, classifyLine(line))
	}
	return steps
}

func classifyLine(line string) engine.Step {
	lower := strings.ToLower(strings.TrimSpace(line))
	s := engine.Step{Text: line}

	if row, ok := ParseRowNumber(line); ok {
		s.Row = row
		if strings.HasPrefix(lower, "knit ") {
			s.Kind = engine.StepKnit
		} else {
			s.Kind = engine.StepShaping
		}
		return s
	}

	switch {
	case strings.HasPrefix(lower, "cast on"):
		s.Kind = engine.StepCastOn
	case strings.HasPrefix(lower, "divide into"):
		s.Kind = engine.StepDivide
	case strings.HasPrefix(lower, "section") && strings.Contains(lower, "bind off"):
		s.Kind = engine.StepSectionBindOff
	case strings.HasPrefix(lower, "section"):
		s.Kind = engine.StepSection
	case strings.HasPrefix(lower, "bind off"):
		s.Kind = engine.StepBindOff
	default:
		s.Kind = engine.StepFinishing
	}
	return s
}
