package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Trapezoid is one knitted section of a panel. Dimensions are inches.
// Successors are knitted after this section, left to right. A successor with
// zero height marks a bind-off of its width rather than another section.
type Trapezoid struct {
	ID                    string           `json:"id,omitempty"`
	Height                float64          `json:"height"`
	BaseA                 float64          `json:"baseA"` // lower edge
	BaseB                 float64          `json:"baseB"` // upper edge
	BaseBHorizontalOffset float64          `json:"baseBHorizontalOffset"`
	Successors            []*Trapezoid     `json:"successors"`
	FinishingSteps        []string         `json:"finishingSteps"`
	SizeModifier          float64          `json:"sizeModifier"`
	Label                 *string          `json:"label"`
	IsHem                 bool             `json:"isHem"`
	ShortRows             []map[string]any `json:"shortRows"`
}

// NewTrapezoid creates a section with a size modifier of 1 and a fresh id.
func NewTrapezoid(height, baseA, baseB, offset float64, successors ...*Trapezoid) *Trapezoid {
	if successors == nil {
		successors = []*Trapezoid{}
	}
	return &Trapezoid{
		ID:                    newTrapezoidID(),
		Height:                height,
		BaseA:                 baseA,
		BaseB:                 baseB,
		BaseBHorizontalOffset: offset,
		Successors:            successors,
		FinishingSteps:        []string{},
		SizeModifier:          1,
		ShortRows:             []map[string]any{},
	}
}

func newTrapezoidID() string {
	return "trap-" + uuid.New().String()[:8]
}

// SetSizeModifier replaces the scale applied to this section's dimensions.
// Successors are not touched.
func (t *Trapezoid) SetSizeModifier(m float64) {
	t.SizeModifier = m
}

// ScaledHeight is Height times the size modifier.
func (t *Trapezoid) ScaledHeight() float64 { return t.Height * t.SizeModifier }

// LowerBase is BaseA times the size modifier.
func (t *Trapezoid) LowerBase() float64 { return t.BaseA * t.SizeModifier }

// UpperBase is BaseB times the size modifier.
func (t *Trapezoid) UpperBase() float64 { return t.BaseB * t.SizeModifier }

// Offset is the scaled horizontal shift of the upper edge.
func (t *Trapezoid) Offset() float64 { return t.BaseBHorizontalOffset * t.SizeModifier }

// UpperBaseStitches is the upper edge width in stitches at gauge g. The
// panel size multiplier applied during plan compilation is not included.
func (t *Trapezoid) UpperBaseStitches(g Gauge) int {
	return RoundHalfUp(t.UpperBase() * g.StitchesPerInch())
}

// LabelText returns the label or "" when unset.
func (t *Trapezoid) LabelText() string {
	if t.Label == nil {
		return ""
	}
	return *t.Label
}

// Walk visits t and every descendant depth-first in successor order.
func (t *Trapezoid) Walk(fn func(node *Trapezoid, depth int)) {
	type frame struct {
		node  *Trapezoid
		depth int
	}
	stack := []frame{{t, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(f.node, f.depth)
		for i := len(f.node.Successors) - 1; i >= 0; i-- {
			if s := f.node.Successors[i]; s != nil {
				stack = append(stack, frame{s, f.depth + 1})
			}
		}
	}
}

// Clone returns a deep copy. Ids are kept.
func (t *Trapezoid) Clone() *Trapezoid {
	if t == nil {
		return nil
	}
	cp := *t
	cp.Successors = make([]*Trapezoid, 0, len(t.Successors))
	for _, s := range t.Successors {
		if s != nil {
			cp.Successors = append(cp.Successors, s.Clone())
		}
	}
	cp.FinishingSteps = append([]string{}, t.FinishingSteps...)
	if t.Label != nil {
		l := *t.Label
		cp.Label = &l
	}
	cp.ShortRows = copyShortRows(t.ShortRows)
	return &cp
}

// TrapezoidFromObject builds a tree from loosely typed decoded JSON. The
// boolean is false for nil, scalars and empty arrays, which all mean "no
// shape". A non-empty array has none of the fields and gives an all-zero
// section. Numeric fields are coerced with a default of 0 and malformed
// successors are dropped.
func TrapezoidFromObject(v any) (*Trapezoid, bool) {
	var m map[string]any
	switch in := v.(type) {
	case map[string]any:
		m = in
	case []any:
		if len(in) == 0 {
			return nil, false
		}
		m = map[string]any{}
	case *Trapezoid:
		if in == nil {
			return nil, false
		}
		return in, true
	default:
		return nil, false
	}

	successors := []*Trapezoid{}
	if list, isList := m["successors"].([]any); isList {
		for _, raw := range list {
			if s, ok := TrapezoidFromObject(raw); ok {
				successors = append(successors, s)
			}
		}
	}

	t := &Trapezoid{
		Height:                toNumber(m["height"]),
		BaseA:                 toNumber(m["baseA"]),
		BaseB:                 toNumber(m["baseB"]),
		BaseBHorizontalOffset: toNumber(m["baseBHorizontalOffset"]),
		Successors:            successors,
		FinishingSteps:        finishingStepsFrom(m["finishingSteps"]),
		SizeModifier:          sizeModifierFrom(m["sizeModifier"]),
		IsHem:                 truthy(m["isHem"]),
		ShortRows:             shortRowsFrom(m["shortRows"]),
	}

	switch l := m["label"].(type) {
	case nil:
	case string:
		t.Label = &l
	default:
		s := stringify(l)
		t.Label = &s
	}

	switch {
	case truthy(m["id"]):
		t.ID = stringify(m["id"])
	case truthy(m["_id"]):
		t.ID = stringify(m["_id"])
	default:
		t.ID = newTrapezoidID()
	}
	return t, true
}

// ParseTrapezoid decodes JSON and runs it through TrapezoidFromObject. It
// fails only on malformed JSON; a nil result with a nil error means "no shape".
func ParseTrapezoid(data []byte) (*Trapezoid, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	t, _ := TrapezoidFromObject(raw)
	return t, nil
}

func finishingStepsFrom(v any) []string {
	if list, ok := v.([]any); ok {
		steps := make([]string, 0, len(list))
		for _, s := range list {
			steps = append(steps, stringify(s))
		}
		return steps
	}
	if truthy(v) {
		return []string{stringify(v)}
	}
	return []string{}
}

func sizeModifierFrom(v any) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	if f := toNumber(v); f != 0 {
		return f
	}
	return 1
}

func shortRowsFrom(v any) []map[string]any {
	list, ok := v.([]any)
	if !ok {
		return []map[string]any{}
	}
	rows := make([]map[string]any, 0, len(list))
	for _, raw := range list {
		cp := map[string]any{}
		if m, ok := raw.(map[string]any); ok {
			for k, val := range m {
				cp[k] = val
			}
		}
		rows = append(rows, cp)
	}
	return rows
}

func copyShortRows(rows []map[string]any) []map[string]any {
	cp := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		m := make(map[string]any, len(r))
		for k, v := range r {
			m[k] = v
		}
		cp = append(cp, m)
	}
	return cp
}

type trapezoidJSON struct {
	Height                float64          `json:"height"`
	BaseA                 float64          `json:"baseA"`
	BaseB                 float64          `json:"baseB"`
	BaseBHorizontalOffset float64          `json:"baseBHorizontalOffset"`
	Successors            []*Trapezoid     `json:"successors"`
	FinishingSteps        []string         `json:"finishingSteps"`
	SizeModifier          float64          `json:"sizeModifier"`
	Label                 *string          `json:"label"`
	IsHem                 bool             `json:"isHem"`
	ShortRows             []map[string]any `json:"shortRows"`
	ID                    string           `json:"id,omitempty"`
}

func (t *Trapezoid) MarshalJSON() ([]byte, error) {
	out := trapezoidJSON{
		Height:                t.Height,
		BaseA:                 t.BaseA,
		BaseB:                 t.BaseB,
		BaseBHorizontalOffset: t.BaseBHorizontalOffset,
		Successors:            make([]*Trapezoid, 0, len(t.Successors)),
		FinishingSteps:        t.FinishingSteps,
		SizeModifier:          t.SizeModifier,
		Label:                 t.Label,
		IsHem:                 t.IsHem,
		ShortRows:             copyShortRows(t.ShortRows),
		ID:                    t.ID,
	}
	for _, s := range t.Successors {
		if s != nil {
			out.Successors = append(out.Successors, s)
		}
	}
	if out.FinishingSteps == nil {
		out.FinishingSteps = []string{}
	}
	if out.SizeModifier == 0 {
		out.SizeModifier = 1
	}
	if out.Label != nil && *out.Label == "" {
		out.Label = nil
	}
	return json.Marshal(out)
}

// UnmarshalJSON applies the same lenient normalization as TrapezoidFromObject.
// Input that is not an object leaves an empty section.
func (t *Trapezoid) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, ok := TrapezoidFromObject(raw)
	if !ok {
		*t = *NewTrapezoid(0, 0, 0, 0)
		return nil
	}
	*t = *parsed
	return nil
}
