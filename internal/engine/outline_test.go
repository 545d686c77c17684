package engine

import (
	"testing"

	"github.com/piwi3910/KnitPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutline_SingleSection(t *testing.T) {
	root := model.NewTrapezoid(10, 20, 10, 2)
	pieces := Outline(model.NewPanel(root, model.DefaultGauge(), 1, nil))
	require.Len(t, pieces, 1)

	pc := pieces[0]
	assert.Equal(t, root.ID, pc.ID)
	assert.Equal(t, 0, pc.Depth)
	assert.Equal(t, model.Outline{
		{X: -10, Y: 0},
		{X: 10, Y: 0},
		{X: 7, Y: 10},
		{X: -3, Y: 10},
	}, pc.Outline)
}

func TestOutline_StacksAndSplits(t *testing.T) {
	left := model.NewTrapezoid(5, 4, 4, 0)
	right := model.NewTrapezoid(5, 4, 4, 0)
	body := model.NewTrapezoid(10, 10, 10, 0, left, model.NewTrapezoid(0, 2, 2, 0), right)
	pieces := Outline(model.NewPanel(body, model.DefaultGauge(), 1, nil))

	// the bind-off marker takes 2in of the upper edge but has no piece
	require.Len(t, pieces, 3)
	assert.Equal(t, left.ID, pieces[1].ID)
	assert.Equal(t, 1, pieces[1].Depth)
	assert.Equal(t, model.Point2D{X: -5, Y: 10}, pieces[1].Outline[0])
	assert.Equal(t, model.Point2D{X: 1, Y: 10}, pieces[2].Outline[0])

	min, max := Bounds(pieces)
	assert.Equal(t, model.Point2D{X: -5, Y: 0}, min)
	assert.Equal(t, model.Point2D{X: 5, Y: 15}, max)
}

func TestOutline_UsesRootModifier(t *testing.T) {
	root := model.NewTrapezoid(10, 10, 10, 0)
	pieces := Outline(model.NewPanel(root, model.DefaultGauge(), 2, nil))
	require.Len(t, pieces, 1)
	_, max := Bounds(pieces)
	assert.Equal(t, model.Point2D{X: 10, Y: 20}, max)
}

func TestOutline_Empty(t *testing.T) {
	assert.Empty(t, Outline(nil))
	assert.Empty(t, Outline(model.NewPanel(model.NewTrapezoid(0, 1, 1, 0), model.DefaultGauge(), 1, nil)))
}
