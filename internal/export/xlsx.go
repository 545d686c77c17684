package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/piwi3910/KnitPlan/internal/importer"
	"github.com/piwi3910/KnitPlan/internal/logging"
	"github.com/piwi3910/KnitPlan/internal/model"
	"github.com/xuri/excelize/v2"
)

const chartSheet = "Chart"

// ExportChartXLSX writes the pattern as a spreadsheet: one filled cell per
// stitch holding its colour id, then a palette section after a blank row.
// The layout is the one importer.ImportExcel reads.
func ExportChartXLSX(path string, p *model.ColorworkPattern) error {
	if p == nil || p.RowCount() == 0 || p.StitchCount() == 0 {
		return ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), chartSheet); err != nil {
		return fmt.Errorf("failed to name chart sheet: %w", err)
	}

	styles := map[string]int{}
	styleFor := func(id string) (int, error) {
		if s, ok := styles[id]; ok {
			return s, nil
		}
		style := &excelize.Style{
			Alignment: &excelize.Alignment{Horizontal: "center"},
			Font:      &excelize.Font{Size: 7},
		}
		if c, ok := p.Colors[id]; ok {
			if hex, _ := model.ResolveColor(c.Color); strings.HasPrefix(hex, "#") {
				style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{strings.ToUpper(hex[1:])}}
			}
		}
		s, err := f.NewStyle(style)
		if err != nil {
			return 0, err
		}
		styles[id] = s
		return s, nil
	}

	for r, row := range p.Grid {
		for c, id := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(chartSheet, cell, id); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
			style, err := styleFor(id)
			if err != nil {
				return fmt.Errorf("failed to create style for %s: %w", id, err)
			}
			if err := f.SetCellStyle(chartSheet, cell, cell, style); err != nil {
				return fmt.Errorf("failed to style cell %s: %w", cell, err)
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(max(p.StitchCount(), 3))
	if err != nil {
		return fmt.Errorf("failed to address column: %w", err)
	}
	if err := f.SetColWidth(chartSheet, "A", lastCol, 3.5); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	row := p.RowCount() + 2
	if err := f.SetCellValue(chartSheet, fmt.Sprintf("A%d", row), importer.PaletteMarker); err != nil {
		return fmt.Errorf("failed to write palette: %w", err)
	}
	for _, c := range paletteOrder(p) {
		if c.Color == "" {
			continue
		}
		row++
		values := []interface{}{c.ID, c.Color, c.Label}
		if err := f.SetSheetRow(chartSheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return fmt.Errorf("failed to write palette entry %s: %w", c.ID, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save chart workbook: %w", err)
	}
	logging.Logger().Info("chart workbook written", "path", path, "rows", p.RowCount())
	return nil
}

// paletteOrder lists used colours first, then the rest of the palette
// sorted by id.
func paletteOrder(p *model.ColorworkPattern) []model.Color {
	used := p.ColorsUsed()
	seen := map[string]bool{}
	for _, c := range used {
		seen[c.ID] = true
	}
	var rest []string
	for id := range p.Colors {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		used = append(used, p.Colors[id])
	}
	return used
}
