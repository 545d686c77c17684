package instructions

import (
	"testing"

	"github.com/piwi3910/KnitPlan/internal/engine"
	"github.com/stretchr/testify/assert"
)

func TestParseRowNumber(t *testing.T) {
	tests := []struct {
		line string
		want int
		ok   bool
	}{
		{"Knit 30 rows (RC=30, 19 sts in work).", 30, true},
		{"Decrease 1 stitch on the left. Knit 7 rows. (RC=7, 142 sts in work)", 7, true},
		{"Row 12: 3 Main", 12, true},
		{"rc: 5", 5, true},
		{"RC 44", 44, true},
		{"Cast on 19 stitches.", 0, false},
		{"Divide into 3 sections:", 0, false},
		{"Knit 30 rows", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ParseRowNumber(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromStrings(t *testing.T) {
	steps := FromStrings([]string{
		"Cast on 119 stitches.",
		"Knit 30 rows (RC=30, 119 sts in work).",
		"Hang hem.",
		"Divide into 3 sections:",
		"Section 1: bind off 5 stitches.",
		"Section 2: 71 stitches",
		"Decrease 1 stitch on the left. Decrease 1 stitch on the right. Knit 4 rows. (RC=184, 107 sts in work)",
		"Bind off 73 stitches.",
	})

	kinds := make([]engine.StepKind, len(steps))
	for i, s := range steps {
		kinds[i] = s.Kind
	}
	assert.Equal(t, []engine.StepKind{
		engine.StepCastOn,
		engine.StepKnit,
		engine.StepFinishing,
		engine.StepDivide,
		engine.StepSectionBindOff,
		engine.StepSection,
		engine.StepShaping,
		engine.StepBindOff,
	}, kinds)

	assert.Equal(t, 30, steps[1].Row)
	assert.Equal(t, 184, steps[6].Row)
	assert.False(t, steps[0].HasRow())
	assert.Equal(t, "Hang hem.", steps[2].Text)
	assert.Empty(t, FromStrings(nil))
}
