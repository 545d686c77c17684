package engine

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/piwi3910/KnitPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panelFixture struct {
	Title              string   `json:"title"`
	Shapes             any      `json:"shapes"`
	ExpectInstructions []string `json:"expectInstructions"`
}

func loadPanelFixtures(t *testing.T) []panelFixture {
	t.Helper()
	data, err := os.ReadFile("testdata/panels.json")
	require.NoError(t, err)
	var fixtures []panelFixture
	require.NoError(t, json.Unmarshal(data, &fixtures))
	require.NotEmpty(t, fixtures)
	return fixtures
}

func TestPanelInstructions_Fixtures(t *testing.T) {
	for _, fx := range loadPanelFixtures(t) {
		t.Run(fx.Title, func(t *testing.T) {
			panel := model.PanelFromObject(map[string]any{"shapes": fx.Shapes})
			require.NotNil(t, panel.Shape)
			assert.Equal(t, fx.ExpectInstructions, PanelInstructions(panel))
		})
	}
}

// backPanel is a body with a hem and a neckline split into three sections,
// the outer two bound off straight away.
func backPanel() *model.Trapezoid {
	neck := model.NewTrapezoid(8, 23, 15, 0)
	body := model.NewTrapezoid(20, 25, 25, 0,
		model.NewTrapezoid(0, 1, 1, 0),
		neck,
		model.NewTrapezoid(0, 1, 1, 0),
	)
	hem := model.NewTrapezoid(4, 25, 25, 0, body)
	hem.FinishingSteps = []string{"Hang hem."}
	return hem
}

func TestKnittingInstructions_Divide(t *testing.T) {
	panel := model.NewPanel(backPanel(), model.DefaultGauge(), 1, nil)
	lines := PanelInstructions(panel)

	require.Len(t, lines, 27)
	assert.Equal(t, []string{
		"Cast on 119 stitches.",
		"Knit 30 rows (RC=30, 119 sts in work).",
		"Hang hem.",
		"Knit 150 rows (RC=180, 119 sts in work).",
		"Divide into 3 sections:",
		"Section 1: bind off 5 stitches.",
		"Section 2: 71 stitches",
		"Decrease 1 stitch on the left. Decrease 1 stitch on the right. Knit 4 rows. (RC=184, 107 sts in work)",
	}, lines[:8])
	assert.Equal(t, "Decrease 1 stitch on the left. Decrease 1 stitch on the right. Knit 3 rows. (RC=237, 73 sts in work)", lines[24])
	assert.Equal(t, "Bind off 73 stitches.", lines[25])
	assert.Equal(t, "Section 3: bind off 5 stitches.", lines[26])
}

func TestKnittingSteps_Kinds(t *testing.T) {
	panel := model.NewPanel(backPanel(), model.DefaultGauge(), 1, nil)
	steps := PanelSteps(panel)
	require.Len(t, steps, 27)

	assert.Equal(t, StepCastOn, steps[0].Kind)
	assert.Equal(t, 119, steps[0].Stitches)
	assert.False(t, steps[0].HasRow())
	assert.Equal(t, StepKnit, steps[1].Kind)
	assert.Equal(t, 30, steps[1].Row)
	assert.Equal(t, StepFinishing, steps[2].Kind)
	assert.Equal(t, StepDivide, steps[4].Kind)
	assert.Equal(t, StepSectionBindOff, steps[5].Kind)
	assert.Equal(t, 1, steps[5].Section)
	assert.Equal(t, StepSection, steps[6].Kind)
	assert.Equal(t, 2, steps[6].Section)
	assert.Equal(t, 71, steps[6].Stitches)
	assert.Equal(t, StepShaping, steps[7].Kind)
	assert.Equal(t, 184, steps[7].Row)
	assert.Equal(t, StepBindOff, steps[25].Kind)
	assert.Equal(t, 3, steps[26].Section)
}

func TestKnittingInstructions_SiblingsStartTogether(t *testing.T) {
	crown := func() *model.Trapezoid { return model.NewTrapezoid(4, 5.5, 0.2, 0) }
	body := model.NewTrapezoid(10, 22, 22, 0, crown(), crown())
	hem := model.NewTrapezoid(4, 22, 22, 0, body)

	lines := PanelInstructions(model.NewPanel(hem, model.DefaultGauge(), 1, nil))

	require.Len(t, lines, 34)
	assert.Equal(t, "Knit 75 rows (RC=105, 105 sts in work).", lines[2])
	assert.Equal(t, "Divide into 2 sections:", lines[3])
	assert.Equal(t, "Section 1: 1 stitches", lines[4])
	assert.Equal(t, "Section 2: 1 stitches", lines[19])
	first := "Decrease 1 stitch on the left. Decrease 1 stitch on the right. Knit 3 rows. (RC=108, 24 sts in work)"
	assert.Equal(t, first, lines[5])
	assert.Equal(t, first, lines[20])
	assert.Equal(t, "Bind off 0 stitches.", lines[18])
	assert.Equal(t, "Bind off 0 stitches.", lines[33])
}

func TestKnittingInstructions_SingleZeroHeightSuccessor(t *testing.T) {
	root := model.NewTrapezoid(4, 4, 4, 0, model.NewTrapezoid(0, 2, 2, 0))
	lines := KnittingInstructions(root, model.DefaultGauge(), 1, 1, true, nil)
	assert.Equal(t, []string{
		"Cast on 19 stitches.",
		"Knit 30 rows (RC=30, 19 sts in work).",
		"Bind off 10 stitches.",
	}, lines)
}

func TestKnittingInstructions_NotRoot(t *testing.T) {
	root := model.NewTrapezoid(4, 4, 4, 0)
	lines := KnittingInstructions(root, model.DefaultGauge(), 1, 11, false, nil)
	assert.Equal(t, []string{
		"Knit 30 rows (RC=40, 19 sts in work).",
		"Bind off 19 stitches.",
	}, lines)
}

func TestKnittingInstructions_ZeroHeightRoot(t *testing.T) {
	root := model.NewTrapezoid(0, 4, 4, 0)
	root.FinishingSteps = []string{"Weave in ends."}
	lines := KnittingInstructions(root, model.DefaultGauge(), 1, 1, true, nil)
	assert.Equal(t, []string{"Weave in ends."}, lines)
}

func TestKnittingInstructions_SkipsNilSuccessors(t *testing.T) {
	root := model.NewTrapezoid(4, 4, 4, 0, nil, model.NewTrapezoid(4, 4, 4, 0), nil)
	lines := KnittingInstructions(root, model.DefaultGauge(), 1, 1, true, nil)
	assert.Equal(t, []string{
		"Cast on 19 stitches.",
		"Knit 30 rows (RC=30, 19 sts in work).",
		"Knit 30 rows (RC=60, 19 sts in work).",
		"Bind off 19 stitches.",
	}, lines)
}

func TestKnittingSteps_MotifThreading(t *testing.T) {
	motif := &model.VisualMotif{
		Type:      model.MotifStranded,
		Height:    40,
		Successor: &model.VisualMotif{Type: model.MotifIntarsia, Height: 500},
	}
	panel := model.NewPanel(backPanel(), model.DefaultGauge(), 1, motif)
	steps := PanelSteps(panel)
	require.Len(t, steps, 27)

	// hem
	assert.Same(t, motif, steps[0].Motif)
	assert.Same(t, motif, steps[1].Motif)

	// body starts 30 rows into the first motif
	require.NotNil(t, steps[3].Motif)
	assert.Equal(t, model.MotifStranded, steps[3].Motif.Type)
	assert.Equal(t, 30, steps[3].Motif.TruncatedBy)
	assert.Equal(t, 30, steps[4].Motif.TruncatedBy)

	// neck starts 150 rows after that, inside the second motif
	require.NotNil(t, steps[7].Motif)
	assert.Equal(t, model.MotifIntarsia, steps[7].Motif.Type)
	assert.Equal(t, 110, steps[7].Motif.TruncatedBy)
}

func TestKnittingSteps_NilMotif(t *testing.T) {
	for _, s := range PanelSteps(model.NewPanel(backPanel(), model.DefaultGauge(), 1, nil)) {
		assert.Nil(t, s.Motif)
	}
}

func TestPanelSteps_NoShape(t *testing.T) {
	assert.Empty(t, PanelSteps(nil))
	assert.Empty(t, PanelSteps(&model.Panel{Gauge: model.DefaultGauge()}))
	assert.True(t, PanelStitchPlan(&model.Panel{Gauge: model.DefaultGauge()}).Empty())
}

func TestPanelStitchPlan_RootOnly(t *testing.T) {
	plan := PanelStitchPlan(model.NewPanel(backPanel(), model.DefaultGauge(), 1, nil))
	require.Len(t, plan.Rows, 30)
	first, _ := plan.FirstRow()
	assert.Equal(t, 1, first.RowNumber)
	assert.Equal(t, 59, first.LeftStitchesInWork)
	assert.Equal(t, 60, first.RightStitchesInWork)
}
