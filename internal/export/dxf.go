package export

import (
	"fmt"

	"github.com/piwi3910/KnitPlan/internal/engine"
	"github.com/piwi3910/KnitPlan/internal/logging"
	"github.com/piwi3910/KnitPlan/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
)

// layerColors cycles by section depth, like pieceColors in the PDF.
var layerColors = []color.ColorNumber{color.Green, color.Blue, color.Yellow, color.Magenta, color.Cyan, color.Red}

// ExportOutlineDXF writes the panel outline in inches, one closed polygon
// of lines per knitted section. Sections are put on a layer per depth
// ("depth-0", "depth-1", ...) so nested pieces can be told apart.
func ExportOutlineDXF(path string, p *model.Panel) error {
	pieces := engine.Outline(p)
	if len(pieces) == 0 {
		return ErrNothingToExport
	}

	byDepth := map[int][]engine.Piece{}
	maxDepth := 0
	for _, pc := range pieces {
		byDepth[pc.Depth] = append(byDepth[pc.Depth], pc)
		maxDepth = max(maxDepth, pc.Depth)
	}

	d := dxf.NewDrawing()
	for depth := 0; depth <= maxDepth; depth++ {
		if len(byDepth[depth]) == 0 {
			continue
		}
		name := fmt.Sprintf("depth-%d", depth)
		if _, err := d.AddLayer(name, layerColors[depth%len(layerColors)], dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", name, err)
		}
		for _, pc := range byDepth[depth] {
			for i, a := range pc.Outline {
				b := pc.Outline[(i+1)%len(pc.Outline)]
				if _, err := d.Line(a.X, a.Y, 0, b.X, b.Y, 0); err != nil {
					return fmt.Errorf("failed to draw section %s: %w", pc.ID, err)
				}
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save outline DXF: %w", err)
	}
	logging.Logger().Info("outline DXF written", "path", path, "pieces", len(pieces))
	return nil
}
