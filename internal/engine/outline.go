package engine

import "github.com/piwi3910/KnitPlan/internal/model"

// Piece is the outline of one knitted section in inches. Y grows upwards
// from the cast-on edge.
type Piece struct {
	ID      string        `json:"id"`
	Label   string        `json:"label,omitempty"`
	Depth   int           `json:"depth"`
	Outline model.Outline `json:"outline"`
}

// Outline lays the panel's sections out as quadrilaterals using each
// section's own scaled dimensions. The root's lower edge is centred on
// x = 0. A single successor sits centred on its parent's upper edge; several
// successors are placed side by side across it by lower-edge width.
// Bind-off markers take up width but produce no piece.
func Outline(p *model.Panel) []Piece {
	pieces := []Piece{}
	if p == nil || p.Shape == nil {
		return pieces
	}
	var place func(t *model.Trapezoid, cx, y0 float64, depth int)
	place = func(t *model.Trapezoid, cx, y0 float64, depth int) {
		h := t.ScaledHeight()
		if h <= 0 {
			return
		}
		lower, upper := t.LowerBase(), t.UpperBase()
		topCenter := cx + t.Offset()
		pieces = append(pieces, Piece{
			ID:    t.ID,
			Label: t.LabelText(),
			Depth: depth,
			Outline: model.Outline{
				{X: cx - lower/2, Y: y0},
				{X: cx + lower/2, Y: y0},
				{X: topCenter + upper/2, Y: y0 + h},
				{X: topCenter - upper/2, Y: y0 + h},
			},
		})

		successors := nonNil(t.Successors)
		if len(successors) == 1 {
			place(successors[0], topCenter, y0+h, depth+1)
			return
		}
		total := 0.0
		for _, s := range successors {
			total += s.LowerBase()
		}
		x := topCenter - total/2
		for _, s := range successors {
			w := s.LowerBase()
			place(s, x+w/2, y0+h, depth+1)
			x += w
		}
	}
	place(p.Shape, 0, 0, 0)
	return pieces
}

// Bounds returns the corners of the box enclosing every piece.
func Bounds(pieces []Piece) (min, max model.Point2D) {
	var all model.Outline
	for _, pc := range pieces {
		all = append(all, pc.Outline...)
	}
	return all.BoundingBox()
}
