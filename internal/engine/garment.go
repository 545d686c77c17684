package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/KnitPlan/internal/model"
)

// ErrUnknownSize is returned when a garment has no size with the given name.
var ErrUnknownSize = errors.New("unknown garment size")

// PanelBlock is the compiled instructions for one named panel of a garment.
type PanelBlock struct {
	Name         string   `json:"name"`
	Instructions []string `json:"instructions"`
	Steps        []Step   `json:"steps"`
}

// GarmentPattern is a garment compiled at one size.
type GarmentPattern struct {
	Permalink      string       `json:"permalink"`
	Title          string       `json:"title"`
	Size           string       `json:"size"`
	SizeModifier   float64      `json:"sizeModifier"`
	Panels         []PanelBlock `json:"panels"`
	FinishingSteps []string     `json:"finishingSteps"`
}

// GarmentInstructions compiles every panel of g at the named size. An empty
// size picks the first one. The size modifier is used as the panel size;
// the garment's shapes are not modified.
func GarmentInstructions(g model.Garment, size string, gauge model.Gauge, motif *model.VisualMotif) (GarmentPattern, error) {
	if size == "" && len(g.Sizes) > 0 {
		size = g.Sizes[0].Name
	}
	modifier, ok := g.Size(size)
	if !ok {
		if len(g.Sizes) > 0 || size != "" {
			return GarmentPattern{}, fmt.Errorf("%w: %q for %s", ErrUnknownSize, size, g.Permalink)
		}
		modifier = 1
	}

	out := GarmentPattern{
		Permalink:      g.Permalink,
		Title:          g.Title,
		Size:           size,
		SizeModifier:   modifier,
		Panels:         make([]PanelBlock, 0, len(g.Shapes)),
		FinishingSteps: append([]string{}, g.FinishingSteps...),
	}
	for _, shape := range g.Shapes {
		panel := model.NewPanel(shape.Shape.Clone(), gauge, modifier, motif)
		steps := PanelSteps(panel)
		out.Panels = append(out.Panels, PanelBlock{
			Name:         shape.Name,
			Instructions: Texts(steps),
			Steps:        steps,
		})
	}
	return out, nil
}
