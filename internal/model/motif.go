package model

// MotifType names how a visual motif is knitted.
type MotifType string

const (
	MotifSolid    MotifType = "SOLID"
	MotifStranded MotifType = "STRANDED"
	MotifIntarsia MotifType = "INTARSIA"
)

// VisualMotif is a chain of colour motifs stacked bottom to top. Height is in
// rows; TruncatedBy records how many rows of the motif have already been
// knitted when a child is handed to a successor section.
type VisualMotif struct {
	Type             MotifType    `json:"type"`
	PrimaryMotif     string       `json:"primaryMotif,omitempty"`
	SecondaryMotifs  []string     `json:"secondaryMotifs,omitempty"`
	MainColor        string       `json:"mainColor,omitempty"`
	ContrastColors   []string     `json:"contrastColors,omitempty"`
	DefaultColors    []string     `json:"defaultColors,omitempty"`
	Successor        *VisualMotif `json:"successor,omitempty"`
	TruncatedBy      int          `json:"truncatedBy"`
	HorizontalRepeat int          `json:"horizontalRepeat,omitempty"`
	VerticalRepeat   int          `json:"verticalRepeat,omitempty"`
	Height           int          `json:"height,omitempty"`
}

// Child returns the motif in effect at row, counted from the start of this
// motif, as a copy whose TruncatedBy is the row offset inside that motif.
// It returns nil once row runs past the end of the chain. Row is counted
// from the top of m: an existing TruncatedBy is not subtracted and the copy
// keeps the full Height.
func (m *VisualMotif) Child(row int) *VisualMotif {
	if m == nil {
		return nil
	}
	current := m
	height := m.Height
	for current.Successor != nil && row >= height {
		row -= height
		current = current.Successor
		height = current.Height
	}
	if row >= height {
		return nil
	}
	child := *current
	child.TruncatedBy = row
	return &child
}

// TotalHeight sums the heights along the successor chain.
func (m *VisualMotif) TotalHeight() int {
	total := 0
	for cur := m; cur != nil; cur = cur.Successor {
		total += cur.Height
	}
	return total
}
