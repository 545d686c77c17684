package engine

import "github.com/piwi3910/KnitPlan/internal/model"

// StepKind classifies one line of knitting instructions.
type StepKind int

const (
	StepCastOn  StepKind = iota
	StepKnit             // unshaped run of rows
	StepShaping          // increases or decreases followed by a run of rows
	StepFinishing
	StepDivide
	StepSection
	StepSectionBindOff
	StepBindOff
)

func (k StepKind) String() string {
	switch k {
	case StepCastOn:
		return "cast-on"
	case StepKnit:
		return "knit"
	case StepShaping:
		return "shaping"
	case StepFinishing:
		return "finishing"
	case StepDivide:
		return "divide"
	case StepSection:
		return "section"
	case StepSectionBindOff:
		return "section-bind-off"
	default:
		return "bind-off"
	}
}

func (k StepKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Step is one instruction line with the data it was rendered from. Row is
// the machine row counter the line ends on, or 0 for lines that are not
// tied to a row (cast-on, divide, bind-off, finishing notes).
type Step struct {
	Kind     StepKind           `json:"kind"`
	Text     string             `json:"text"`
	Row      int                `json:"row,omitempty"`
	Stitches int                `json:"stitches,omitempty"`
	Section  int                `json:"section,omitempty"` // 1-based, set on section headers
	Motif    *model.VisualMotif `json:"-"`
}

func (s Step) String() string { return s.Text }

// HasRow reports whether the step is tied to a machine row.
func (s Step) HasRow() bool { return s.Row > 0 }

// Texts flattens steps to their rendered lines.
func Texts(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Text
	}
	return out
}
