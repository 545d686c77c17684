// Package export writes knitting patterns to PDF, XLSX and DXF files and
// prints QR-coded panel cards.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/KnitPlan/internal/chart"
	"github.com/piwi3910/KnitPlan/internal/engine"
	"github.com/piwi3910/KnitPlan/internal/instructions"
	"github.com/piwi3910/KnitPlan/internal/logging"
	"github.com/piwi3910/KnitPlan/internal/model"
)

// ErrNothingToExport is returned when a document has neither instructions
// nor a chart.
var ErrNothingToExport = errors.New("nothing to export")

// pieceColor represents an RGB color for a panel section.
type pieceColor struct {
	R, G, B int
}

// pieceColors cycles through the outline sections by depth.
var pieceColors = []pieceColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
}

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	lineHeight   = 5.0
	drawAreaTop  = marginTop + headerHeight + 10.0
	maxChartCell = 6.0
)

// PatternDocument is everything printed in a pattern PDF.
type PatternDocument struct {
	Title        string
	Panel        *model.Panel
	Pattern      *model.ColorworkPattern
	Instructions []string
	Notes        []string
}

// NewPatternDocument builds a document from a combined pattern and its
// generated instructions. Plan warnings become notes.
func NewPatternDocument(title string, cp *engine.CombinedPattern, list []instructions.CombinedInstruction) PatternDocument {
	doc := PatternDocument{Title: title, Instructions: instructions.Lines(list)}
	if cp != nil {
		doc.Panel = cp.Panel
		doc.Pattern = cp.ColorworkPattern
		doc.Notes = engine.FormatIssues(engine.LintPanel(cp.Panel, model.DefaultSettings().MaxShapingPerRow))
	}
	return doc
}

// ExportPatternPDF renders the document: a cover page with gauge and the
// panel outline, the instructions, and the colour chart with its legend.
func ExportPatternPDF(path string, doc PatternDocument) error {
	hasChart := doc.Pattern != nil && doc.Pattern.RowCount() > 0 && doc.Pattern.StitchCount() > 0
	if len(doc.Instructions) == 0 && !hasChart {
		return ErrNothingToExport
	}
	if doc.Title == "" {
		doc.Title = "Knitting Pattern"
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderCoverPage(pdf, doc)

	if len(doc.Instructions) > 0 {
		pdf.AddPage()
		renderInstructions(pdf, doc.Instructions)
	}
	if hasChart {
		pdf.AddPage()
		renderChartPage(pdf, doc.Pattern)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write pattern PDF: %w", err)
	}
	logging.Logger().Info("pattern PDF written", "path", path, "instructions", len(doc.Instructions))
	return nil
}

func renderCoverPage(pdf *fpdf.Fpdf, doc PatternDocument) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, doc.Title, "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+headerHeight, pageWidth-marginRight, marginTop+headerHeight)

	y := marginTop + headerHeight + 3
	pdf.SetFont("Helvetica", "", 10)
	if p := doc.Panel; p != nil {
		g := p.Gauge
		stats := fmt.Sprintf("Gauge: %g sts x %g rows per 4in | Size: %g", g.StitchesPerFourInches, g.RowsPerFourInches, p.SizeModifier)
		if plan := engine.PanelStitchPlan(p); !plan.Empty() {
			first, _ := plan.FirstRow()
			stats += fmt.Sprintf(" | Cast on: %d sts | Rows: %d", first.Total(), len(plan.Rows))
		}
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, lineHeight, stats, "", 0, "L", false, 0, "")
		drawOutline(pdf, engine.Outline(p))
	}

	if len(doc.Notes) > 0 {
		ny := pageHeight - marginBottom - float64(len(doc.Notes)+1)*lineHeight
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, ny)
		pdf.CellFormat(100, lineHeight, "Plan warnings", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(0, 0, 0)
		for _, note := range doc.Notes {
			ny += lineHeight
			pdf.SetXY(marginLeft+5, ny)
			pdf.CellFormat(pageWidth-marginLeft-marginRight-5, lineHeight, "- "+note, "", 0, "L", false, 0, "")
		}
	}
}

// drawOutline scales the panel pieces into the drawing area. Inches grow
// upwards; the page grows downwards.
func drawOutline(pdf *fpdf.Fpdf, pieces []engine.Piece) {
	if len(pieces) == 0 {
		return
	}
	lo, hi := engine.Bounds(pieces)
	w, h := hi.X-lo.X, hi.Y-lo.Y
	if w <= 0 || h <= 0 {
		return
	}
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - 40
	scale := math.Min(drawWidth/w, drawHeight/h)
	offsetX := marginLeft + (drawWidth-w*scale)/2
	bottom := drawAreaTop + h*scale

	for _, pc := range pieces {
		col := pieceColors[pc.Depth%len(pieceColors)]
		pts := make([]fpdf.PointType, len(pc.Outline))
		for i, pt := range pc.Outline {
			pts[i] = fpdf.PointType{X: offsetX + (pt.X-lo.X)*scale, Y: bottom - (pt.Y-lo.Y)*scale}
		}
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Polygon(pts, "FD")
	}

	// Dimension annotations below the drawing
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)
	label := fmt.Sprintf("%.1f in wide x %.1f in tall", w, h)
	labelW := pdf.GetStringWidth(label)
	pdf.SetXY(offsetX+(w*scale-labelW)/2, bottom+2)
	pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func renderInstructions(pdf *fpdf.Fpdf, lines []string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(100, 7, "Instructions", "", 0, "L", false, 0, "")

	width := pageWidth - marginLeft - marginRight
	y := marginTop + 10
	pdf.SetFont("Helvetica", "", 9)
	for i, line := range lines {
		wrapped := pdf.SplitLines([]byte(line), width-8)
		if y+float64(len(wrapped))*lineHeight > pageHeight-marginBottom {
			pdf.AddPage()
			y = marginTop
		}
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(8, lineHeight, fmt.Sprintf("%d.", i+1), "", 0, "R", false, 0, "")
		for _, w := range wrapped {
			pdf.SetXY(marginLeft+9, y)
			pdf.CellFormat(width-9, lineHeight, string(w), "", 0, "L", false, 0, "")
			y += lineHeight
		}
	}
}

// renderChartPage draws one cell per stitch, row numbers counted from the
// bottom, and a legend of the colours used.
func renderChartPage(pdf *fpdf.Fpdf, p *model.ColorworkPattern) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, marginTop)
	title := "Colour Chart"
	if name := p.Name(); name != "" {
		title += ": " + name
	}
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 7, title, "", 0, "L", false, 0, "")

	rows, stitches := p.RowCount(), p.StitchCount()
	gutter := 8.0
	drawWidth := pageWidth - marginLeft - marginRight - gutter
	drawHeight := pageHeight - drawAreaTop - marginBottom - 30
	cell := math.Min(maxChartCell, math.Min(drawWidth/float64(stitches), drawHeight/float64(rows)))
	x0, y0 := marginLeft+gutter, drawAreaTop

	pdf.SetLineWidth(0.1)
	pdf.SetDrawColor(204, 204, 204)
	for r := 0; r < rows; r++ {
		for c := 0; c < stitches; c++ {
			col := cellColor(p, p.Stitch(r, c))
			pdf.SetFillColor(int(col.R), int(col.G), int(col.B))
			pdf.Rect(x0+float64(c)*cell, y0+float64(r)*cell, cell, cell, "FD")
		}
	}

	if cell >= 2.5 {
		pdf.SetFont("Helvetica", "", 5)
		pdf.SetTextColor(100, 100, 100)
		for r := 0; r < rows; r++ {
			pdf.SetXY(marginLeft, y0+float64(r)*cell)
			pdf.CellFormat(gutter-1, cell, fmt.Sprintf("%d", rows-r), "", 0, "R", false, 0, "")
		}
		pdf.SetTextColor(0, 0, 0)
	}

	drawLegend(pdf, chart.Legend(p), y0+float64(rows)*cell+6)
}

// cellColor falls back to white for ids without a usable colour.
func cellColor(p *model.ColorworkPattern, id string) color.RGBA {
	if c, ok := p.Colors[id]; ok {
		if rgba, err := chart.ParseColor(c.Color); err == nil {
			return rgba
		}
	}
	return color.RGBA{R: 255, G: 255, B: 255, A: 255}
}

// drawLegend renders colour swatches with their labels, wrapping as needed.
func drawLegend(pdf *fpdf.Fpdf, entries []chart.LegendEntry, startY float64) {
	if len(entries) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(20, 4, "Colours:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 22
	maxX := pageWidth - marginRight

	for _, e := range entries {
		label := fmt.Sprintf("%s: %s", e.ID, e.Description)
		labelW := pdf.GetStringWidth(label) + 6

		// Wrap to next line if needed
		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		if rgba, err := chart.ParseColor(e.Color); err == nil {
			pdf.SetFillColor(int(rgba.R), int(rgba.G), int(rgba.B))
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetDrawColor(100, 100, 100)
		pdf.Rect(xPos, startY+0.5, 3, 3, "FD")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}
