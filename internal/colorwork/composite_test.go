package colorwork

import (
	"testing"

	"github.com/piwi3910/KnitPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, id, color string) *model.ColorworkPattern {
	p := model.NewColorworkPattern(w, h, id)
	p.SetColor(id, color, "")
	return p
}

func stripe() *model.ColorworkPattern {
	p := model.NewColorworkPatternFromGrid([][]string{{"A", "B"}}, nil, nil)
	p.SetColor("A", "#111111", "A")
	p.SetColor("B", "#222222", "B")
	return p
}

func TestComposite_CentredWithoutRepeat(t *testing.T) {
	out, err := Composite(6, 4, []Layer{{Pattern: solid(2, 2, "CC", "#000000")}})
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"MC", "MC", "MC", "MC", "MC", "MC"},
		{"MC", "MC", "CC", "CC", "MC", "MC"},
		{"MC", "MC", "CC", "CC", "MC", "MC"},
		{"MC", "MC", "MC", "MC", "MC", "MC"},
	}, out.Grid)
	assert.Equal(t, "#000000", out.Colors["CC"].Color)
	assert.Equal(t, 1, out.Metadata["layers"])
}

func TestComposite_Offsets(t *testing.T) {
	layer := Layer{
		Pattern:  solid(2, 2, "CC", "#000000"),
		Settings: LayerSettings{OffsetHorizontal: 1, OffsetVertical: -1},
	}
	out, err := Composite(6, 4, []Layer{layer})
	require.NoError(t, err)
	assert.Equal(t, []string{"MC", "MC", "MC", "CC", "CC", "MC"}, out.Grid[0])
	assert.Equal(t, []string{"MC", "MC", "MC", "CC", "CC", "MC"}, out.Grid[1])
	assert.Equal(t, []string{"MC", "MC", "MC", "MC", "MC", "MC"}, out.Grid[2])
}

func TestComposite_RepeatX(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  []string
	}{
		{"unlimited", 0, []string{"B", "A", "B", "A", "B"}},
		{"one", 1, []string{"MC", "A", "B", "MC", "MC"}},
		{"two", 2, []string{"B", "A", "B", "MC", "MC"}},
		{"three", 3, []string{"B", "A", "B", "A", "B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layer := Layer{Pattern: stripe(), Settings: LayerSettings{RepeatMode: RepeatX, RepeatCountX: tt.count}}
			out, err := Composite(5, 1, []Layer{layer})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Grid[0])
		})
	}
}

func TestComposite_RepeatY(t *testing.T) {
	p := model.NewColorworkPatternFromGrid([][]string{{"A"}, {"B"}}, nil, nil)
	p.SetColor("A", "#111111", "")
	p.SetColor("B", "#222222", "")

	out, err := Composite(3, 4, []Layer{{Pattern: p, Settings: LayerSettings{RepeatMode: RepeatY}}})
	require.NoError(t, err)
	// only the centre column is covered; rows tile from the centred start
	assert.Equal(t, []string{"MC", "B", "MC"}, out.Grid[0])
	assert.Equal(t, []string{"MC", "A", "MC"}, out.Grid[1])
	assert.Equal(t, []string{"MC", "B", "MC"}, out.Grid[2])
	assert.Equal(t, []string{"MC", "A", "MC"}, out.Grid[3])
}

func TestComposite_RepeatBothFillsCanvas(t *testing.T) {
	out, err := Composite(4, 3, []Layer{{Pattern: solid(1, 1, "CC", "#000000"), Settings: LayerSettings{RepeatMode: RepeatBoth}}})
	require.NoError(t, err)
	for _, row := range out.Grid {
		assert.Equal(t, []string{"CC", "CC", "CC", "CC"}, row)
	}
}

func TestComposite_PriorityOrder(t *testing.T) {
	background := Layer{Name: "bg", Priority: 1, Pattern: solid(1, 1, "BG", "#00ff00"), Settings: LayerSettings{RepeatMode: RepeatBoth}}
	motif := Layer{Name: "motif", Priority: 2, Pattern: solid(1, 1, "CC", "#000000")}

	// given top layer first, still painted last
	out, err := Composite(3, 1, []Layer{motif, background})
	require.NoError(t, err)
	assert.Equal(t, []string{"BG", "CC", "BG"}, out.Grid[0])
}

func TestComposite_ColorMappingScopesIDs(t *testing.T) {
	base := Layer{Priority: 1, Pattern: solid(1, 1, "CC", "#000000"), Settings: LayerSettings{RepeatMode: RepeatBoth}}
	recoloured := Layer{
		Priority: 2,
		Pattern:  solid(1, 1, "CC", "#000000"),
		Settings: LayerSettings{ColorMapping: map[string]string{"CC": "red"}},
	}
	out, err := Composite(3, 1, []Layer{base, recoloured})
	require.NoError(t, err)

	assert.Equal(t, []string{"CC", "L2:CC", "CC"}, out.Grid[0])
	assert.Equal(t, "#000000", out.Colors["CC"].Color)
	assert.Equal(t, model.Color{ID: "L2:CC", Label: "CC", Color: "#ff0000"}, out.Colors["L2:CC"])
}

func TestComposite_SameColourKeepsID(t *testing.T) {
	a := Layer{Priority: 1, Pattern: solid(1, 1, "CC", "#000000")}
	b := Layer{Priority: 2, Pattern: solid(1, 1, "CC", "#000000"), Settings: LayerSettings{OffsetHorizontal: 1}}
	out, err := Composite(3, 1, []Layer{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"MC", "CC", "CC"}, out.Grid[0])
	assert.Len(t, out.Colors, 1)
}

func TestComposite_SkipsUnknownIDs(t *testing.T) {
	p := model.NewColorworkPatternFromGrid([][]string{{"A", "Z"}}, nil, nil)
	p.SetColor("A", "#111111", "")
	out, err := Composite(2, 1, []Layer{{Pattern: p}})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "MC"}, out.Grid[0])
}

func TestComposite_EmptyInputs(t *testing.T) {
	out, err := Composite(3, 2, []Layer{{Pattern: nil}, {Pattern: model.NewColorworkPatternFromGrid(nil, nil, nil)}})
	require.NoError(t, err)
	assert.Equal(t, 2, out.RowCount())
	assert.Equal(t, []string{"MC", "MC", "MC"}, out.Grid[0])

	out, err = Composite(-1, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, out.RowCount())
}

func TestComposite_UnknownRepeatMode(t *testing.T) {
	_, err := Composite(2, 2, []Layer{{Pattern: stripe(), Settings: LayerSettings{RepeatMode: "diagonal"}}})
	assert.ErrorIs(t, err, ErrUnknownRepeatMode)
}

func TestParseRepeatMode(t *testing.T) {
	m, err := ParseRepeatMode("")
	require.NoError(t, err)
	assert.Equal(t, RepeatNone, m)
	m, err = ParseRepeatMode("both")
	require.NoError(t, err)
	assert.Equal(t, RepeatBoth, m)
}
