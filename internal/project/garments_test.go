package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/KnitPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinCatalog(t *testing.T) {
	gc, err := BuiltinCatalog()
	require.NoError(t, err)

	assert.Equal(t, []string{"Cozy Raglan V-Neck Sweater", "Seam-Top Hat", "Drop-Shoulder Crew Neck Sweater"}, gc.Titles())

	raglan := gc.FindByPermalink("cozy-raglan-sweater")
	require.NotNil(t, raglan)
	assert.Equal(t, []string{"men's small / women's medium", "men's medium / women's large", "men's large / women's XL"}, raglan.SizeNames())
	size, ok := raglan.Size("men's large / women's XL")
	assert.True(t, ok)
	assert.Equal(t, 1.085, size)
	assert.Len(t, raglan.FinishingSteps, 3)

	require.Len(t, raglan.Shapes, 3)
	assert.Equal(t, "Front", raglan.Shapes[0].Name)
	assert.Equal(t, "Sleeves (make 2)", raglan.Shapes[2].Name)
	front := raglan.Shapes[0].Shape
	assert.Equal(t, 4.0, front.Height)
	assert.Equal(t, []string{"Hang hem."}, front.FinishingSteps)
	require.Len(t, front.Successors, 1)
	assert.Len(t, front.Successors[0].Successors, 5)

	drop := gc.FindByPermalink("drop-shoulder-crew-neck-sweater")
	require.NotNil(t, drop)
	assert.Empty(t, drop.FinishingSteps)
}

func TestBuiltinCatalogCharts(t *testing.T) {
	gc, err := BuiltinCatalog()
	require.NoError(t, err)

	require.Len(t, gc.Charts, 7)
	checker := gc.FindChart("Checkerboard")
	require.NotNil(t, checker)
	assert.Equal(t, [][]int{{0, 1}, {1, 0}}, checker.Grid)

	argyle := gc.FindChart("Arguyle")
	require.NotNil(t, argyle)
	require.Len(t, argyle.Grid, 32)
	for _, row := range argyle.Grid {
		assert.Len(t, row, 17)
	}
	// a single centre stitch at the bottom of the diamond
	assert.Equal(t, 1, argyle.Grid[0][8])
	assert.Equal(t, 0, argyle.Grid[0][7])
}

func TestBuiltinCatalogReturnsCopies(t *testing.T) {
	gc, err := BuiltinCatalog()
	require.NoError(t, err)
	require.True(t, gc.Remove("seam-top-hat"))

	again, err := BuiltinCatalog()
	require.NoError(t, err)
	assert.NotNil(t, again.FindByPermalink("seam-top-hat"))
}

func TestBuiltinMotifs(t *testing.T) {
	assert.Equal(t, []string{"blackAndWhiteStripes", "redAndWhiteStripes", "checkerboard", "argyle", "solidWhite"}, BuiltinMotifNames())

	m, ok := BuiltinMotif("checkerboard")
	require.True(t, ok)
	assert.Equal(t, model.MotifStranded, m.Type)
	assert.Equal(t, "Checkerboard", m.PrimaryMotif)
	assert.Equal(t, 4, m.VerticalRepeat)

	stripes, ok := BuiltinMotif("blackAndWhiteStripes")
	require.True(t, ok)
	assert.Equal(t, 6, stripes.TotalHeight())
	stripes.Successor.Height = 99

	fresh, _ := BuiltinMotif("blackAndWhiteStripes")
	assert.Equal(t, 2, fresh.Successor.Height)

	_, ok = BuiltinMotif("paisley")
	assert.False(t, ok)
}

func TestSaveAndLoadGarments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garments.json")

	gc, err := BuiltinCatalog()
	require.NoError(t, err)
	require.NoError(t, SaveGarments(path, gc))

	loaded, err := LoadGarments(path)
	require.NoError(t, err)
	assert.Equal(t, gc.Titles(), loaded.Titles())
	assert.Equal(t, gc.Garments[0].SizeNames(), loaded.Garments[0].SizeNames())
	assert.Len(t, loaded.Charts, len(gc.Charts))
}

func TestLoadGarmentsYAMLKeepsOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.yaml")
	doc := `garments:
  - permalink: simple-scarf
    title: Simple Scarf
    sizes:
      long: 1.2
      short: 0.8
    shapes:
      Scarf:
        height: 60
        baseA: 8
        baseB: 8
      Tassel:
        height: 2
        baseA: 1
        baseB: 1
    finishingSteps:
      - Weave in ends.
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	gc, err := LoadGarments(path)
	require.NoError(t, err)
	require.Len(t, gc.Garments, 1)
	g := gc.Garments[0]
	assert.Equal(t, []string{"long", "short"}, g.SizeNames())
	require.Len(t, g.Shapes, 2)
	assert.Equal(t, "Scarf", g.Shapes[0].Name)
	assert.Equal(t, 60.0, g.Shapes[0].Shape.Height)
	assert.Equal(t, []string{"Weave in ends."}, g.FinishingSteps)
	assert.NotNil(t, gc.Charts)
}

func TestLoadGarmentsMissingFile(t *testing.T) {
	gc, err := LoadGarments(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.Empty(t, gc.Garments)
}

func TestMergeCatalogs(t *testing.T) {
	base, err := BuiltinCatalog()
	require.NoError(t, err)

	extra := model.NewGarmentCatalog()
	extra.Add(model.Garment{Permalink: "seam-top-hat", Title: "My Hat"})
	extra.Add(model.Garment{Permalink: "mittens", Title: "Mittens"})
	extra.Charts = append(extra.Charts, model.NamedChart{Name: "Solid", Grid: [][]int{{1}}}, model.NamedChart{Name: "Dots", Grid: [][]int{{0, 1}}})

	merged := MergeCatalogs(base, extra)
	assert.Len(t, merged.Garments, 4)
	assert.Equal(t, "My Hat", merged.FindByPermalink("seam-top-hat").Title)
	assert.Equal(t, [][]int{{1}}, merged.FindChart("Solid").Grid)
	assert.NotNil(t, merged.FindChart("Dots"))
}
