package instructions

import (
	"fmt"
	"io"
	"strings"

	"github.com/piwi3910/KnitPlan/internal/chart"
	"github.com/piwi3910/KnitPlan/internal/engine"
)

// WriteText prints a pattern sheet: a header describing the panel and its
// colours, then one line per instruction.
func WriteText(w io.Writer, cp *engine.CombinedPattern, list []CombinedInstruction) error {
	var b strings.Builder
	writeHeader(&b, cp)
	for _, ci := range list {
		b.WriteString(ci.String())
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeHeader(b *strings.Builder, cp *engine.CombinedPattern) {
	if cp == nil {
		return
	}
	b.WriteString("# KnitPlan pattern\n")
	if cp.Panel != nil {
		g := cp.Panel.Gauge
		fmt.Fprintf(b, "# Gauge: %g sts x %g rows per 4in, size %g\n",
			g.StitchesPerFourInches, g.RowsPerFourInches, cp.Panel.SizeModifier)
	}
	fmt.Fprintf(b, "# Rows: %d, stretch: %s, alignment: %s\n",
		cp.RowCount(), cp.Metadata.StretchMode, cp.Metadata.Alignment)
	for _, entry := range chart.Legend(cp.ColorworkPattern) {
		fmt.Fprintf(b, "# %s: %s\n", entry.ID, entry.Description)
	}
	b.WriteString("\n")
}
