package engine

import (
	"testing"

	"github.com/piwi3910/KnitPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func swatchGarment() model.Garment {
	return model.Garment{
		Permalink: "swatch-set",
		Title:     "Swatch Set",
		Sizes: []model.GarmentSize{
			{Name: "Small", Modifier: 1},
			{Name: "Large", Modifier: 2},
		},
		Shapes: []model.NamedShape{
			{Name: "Front", Shape: model.NewTrapezoid(1, 1, 1, 0)},
			{Name: "Back", Shape: model.NewTrapezoid(1, 2, 2, 0)},
		},
		FinishingSteps: []string{"Seam the sides."},
	}
}

func TestGarmentInstructions_DefaultSize(t *testing.T) {
	g := swatchGarment()
	out, err := GarmentInstructions(g, "", fourPerInch, nil)
	require.NoError(t, err)

	assert.Equal(t, "swatch-set", out.Permalink)
	assert.Equal(t, "Small", out.Size)
	assert.Equal(t, 1.0, out.SizeModifier)
	require.Len(t, out.Panels, 2)
	assert.Equal(t, "Front", out.Panels[0].Name)
	assert.Equal(t, []string{
		"Cast on 4 stitches.",
		"Knit 4 rows (RC=4, 4 sts in work).",
		"Bind off 4 stitches.",
	}, out.Panels[0].Instructions)
	assert.Len(t, out.Panels[0].Steps, 3)
	assert.Equal(t, "Cast on 8 stitches.", out.Panels[1].Instructions[0])
	assert.Equal(t, []string{"Seam the sides."}, out.FinishingSteps)
}

func TestGarmentInstructions_NamedSize(t *testing.T) {
	g := swatchGarment()
	out, err := GarmentInstructions(g, "Large", fourPerInch, nil)
	require.NoError(t, err)
	// the size scales both the section and the gauge
	assert.Equal(t, "Cast on 16 stitches.", out.Panels[0].Instructions[0])
	assert.Equal(t, "Knit 16 rows (RC=16, 16 sts in work).", out.Panels[0].Instructions[1])

	// catalog shapes are compiled from copies
	assert.Equal(t, 1.0, g.Shapes[0].Shape.SizeModifier)
}

func TestGarmentInstructions_UnknownSize(t *testing.T) {
	_, err := GarmentInstructions(swatchGarment(), "XXL", fourPerInch, nil)
	assert.ErrorIs(t, err, ErrUnknownSize)
}

func TestGarmentInstructions_NoSizes(t *testing.T) {
	g := swatchGarment()
	g.Sizes = nil
	out, err := GarmentInstructions(g, "", fourPerInch, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, out.SizeModifier)
	assert.Len(t, out.Panels, 2)
}

func TestGarmentInstructions_PassesMotif(t *testing.T) {
	motif := &model.VisualMotif{Type: model.MotifSolid, Height: 100}
	out, err := GarmentInstructions(swatchGarment(), "Small", fourPerInch, motif)
	require.NoError(t, err)
	assert.Same(t, motif, out.Panels[0].Steps[0].Motif)
}
