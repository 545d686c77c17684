package project

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/piwi3910/KnitPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := OpenLibrary(context.Background(), filepath.Join(t.TempDir(), "db", "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { lib.Close() })
	return lib
}

func TestLibraryPatterns(t *testing.T) {
	ctx := context.Background()
	lib := openTestLibrary(t)

	stripes := model.NamedChart{Name: "Stripes", Grid: [][]int{{0, 0, 1, 1}}}.Pattern("#ffffff", "#ff0000")
	require.NoError(t, lib.SavePattern(ctx, "stripes", stripes))
	require.NoError(t, lib.SavePattern(ctx, "checks", model.NamedChart{Grid: [][]int{{0, 1}, {1, 0}}}.Pattern()))

	loaded, err := lib.LoadPattern(ctx, "stripes")
	require.NoError(t, err)
	assert.Equal(t, stripes.Grid, loaded.Grid)
	assert.Equal(t, "#ff0000", loaded.Colors[model.ContrastColor].Color)

	entries, err := lib.ListPatterns(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "checks", entries[0].Name)
	assert.Equal(t, "stripes", entries[1].Name)
	assert.Equal(t, KindPattern, entries[0].Kind)
	assert.False(t, entries[0].UpdatedAt.IsZero())
	assert.NotEmpty(t, entries[0].ID)
}

func TestLibraryReplacesPattern(t *testing.T) {
	ctx := context.Background()
	lib := openTestLibrary(t)

	require.NoError(t, lib.SavePattern(ctx, "swatch", model.NewColorworkPattern(2, 2, model.MainColor)))
	first, err := lib.ListPatterns(ctx)
	require.NoError(t, err)

	require.NoError(t, lib.SavePattern(ctx, "swatch", model.NewColorworkPattern(3, 1, model.ContrastColor)))
	loaded, err := lib.LoadPattern(ctx, "swatch")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"CC", "CC", "CC"}}, loaded.Grid)

	second, err := lib.ListPatterns(ctx)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestLibraryNotFound(t *testing.T) {
	ctx := context.Background()
	lib := openTestLibrary(t)

	_, err := lib.LoadPattern(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = lib.LoadPanel(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, lib.Delete(ctx, KindPattern, "nope"), ErrNotFound)
}

func TestLibraryPanels(t *testing.T) {
	ctx := context.Background()
	lib := openTestLibrary(t)

	panel := model.NewPanel(model.NewTrapezoid(10, 20, 20, 0), model.NewGauge(24, 34), 1.5, &model.VisualMotif{Type: model.MotifSolid, Height: 4})
	require.NoError(t, lib.SavePanel(ctx, "front", panel))

	// same name, different kind
	require.NoError(t, lib.SavePattern(ctx, "front", model.NewColorworkPattern(1, 1, model.MainColor)))

	loaded, err := lib.LoadPanel(ctx, "front")
	require.NoError(t, err)
	require.NotNil(t, loaded.Shape)
	assert.Equal(t, 10.0, loaded.Shape.Height)
	assert.Equal(t, 1.5, loaded.SizeModifier)
	assert.Equal(t, 24.0, loaded.Gauge.StitchesPerFourInches)
	require.NotNil(t, loaded.VisualMotif)
	assert.Equal(t, 4, loaded.VisualMotif.Height)

	panels, err := lib.ListPanels(ctx)
	require.NoError(t, err)
	assert.Len(t, panels, 1)

	require.NoError(t, lib.Delete(ctx, KindPanel, "front"))
	_, err = lib.LoadPanel(ctx, "front")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = lib.LoadPattern(ctx, "front")
	assert.NoError(t, err)
}

func TestLibraryRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	lib := openTestLibrary(t)

	assert.Error(t, lib.SavePattern(ctx, "", model.NewColorworkPattern(1, 1, model.MainColor)))
	assert.Error(t, lib.SavePattern(ctx, "x", nil))
	assert.Error(t, lib.SavePanel(ctx, "x", nil))
}
