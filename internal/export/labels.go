package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/KnitPlan/internal/engine"
	"github.com/piwi3910/KnitPlan/internal/logging"
	"github.com/piwi3910/KnitPlan/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// ErrNoCards is returned when there are no panels to print cards for.
var ErrNoCards = errors.New("no panels to generate cards for")

// CardInfo holds the data encoded into each panel card's QR code.
type CardInfo struct {
	Garment      string  `json:"garment,omitempty"`
	Panel        string  `json:"panel"`
	Size         string  `json:"size,omitempty"`
	SizeModifier float64 `json:"size_modifier"`
	Stitches     float64 `json:"stitches_per_4in"`
	RowsGauge    float64 `json:"rows_per_4in"`
	CastOn       int     `json:"cast_on"`
	BindOff      int     `json:"bind_off"`
	TotalRows    int     `json:"total_rows"`
	Sections     int     `json:"sections"`
}

// Card layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each card cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	cardMarginTop  = 12.7 // mm
	cardMarginLeft = 4.8  // mm
	cardWidth      = 66.7 // mm per card
	cardHeight     = 25.4 // mm per card
	cardCols       = 3
	cardRows       = 10
	cardsPerPage   = cardCols * cardRows
	qrSize         = 20.0 // QR code size in mm
	cardPadding    = 2.0  // mm internal padding
)

// NewCardInfo summarises one panel. The totals cover the whole section
// tree: TotalRows is the last machine row of any section, Sections counts
// the knitted sections.
func NewCardInfo(name string, p *model.Panel) CardInfo {
	info := CardInfo{Panel: name}
	if p == nil {
		return info
	}
	info.SizeModifier = p.SizeModifier
	info.Stitches = p.Gauge.StitchesPerFourInches
	info.RowsGauge = p.Gauge.RowsPerFourInches

	plan := engine.PanelStitchPlan(p)
	if first, ok := plan.FirstRow(); ok {
		info.CastOn = first.Total()
	}
	if last, ok := plan.LastRow(); ok {
		info.BindOff = last.Total()
	}
	for _, s := range engine.PanelSteps(p) {
		info.TotalRows = max(info.TotalRows, s.Row)
	}
	if p.Shape != nil {
		p.Shape.Walk(func(node *model.Trapezoid, _ int) {
			if node.ScaledHeight() > 0 {
				info.Sections++
			}
		})
	}
	return info
}

// GarmentCards builds one card per garment shape at the named size.
func GarmentCards(g model.Garment, size string, gauge model.Gauge) ([]CardInfo, error) {
	gp, err := engine.GarmentInstructions(g, size, gauge, nil)
	if err != nil {
		return nil, err
	}
	cards := make([]CardInfo, 0, len(g.Shapes))
	for _, shape := range g.Shapes {
		card := NewCardInfo(shape.Name, model.NewPanel(shape.Shape.Clone(), gauge, gp.SizeModifier, nil))
		card.Garment = g.Title
		card.Size = gp.Size
		cards = append(cards, card)
	}
	return cards, nil
}

// ExportPanelCards generates a PDF of QR-coded cards, one per panel.
// Each card shows the panel name, cast-on and row counts, and a QR code
// encoding the card as JSON. Cards are laid out on a standard label sheet
// format (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportPanelCards(path string, cards []CardInfo) error {
	if len(cards) == 0 {
		return ErrNoCards
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, card := range cards {
		// Add new page when needed
		if i%cardsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % cardsPerPage
		col := posOnPage % cardCols
		row := posOnPage / cardCols

		x := cardMarginLeft + float64(col)*cardWidth
		y := cardMarginTop + float64(row)*cardHeight

		if err := renderCard(pdf, x, y, i, card); err != nil {
			return fmt.Errorf("failed to render card for %q: %w", card.Panel, err)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write panel cards: %w", err)
	}
	logging.Logger().Info("panel cards written", "path", path, "cards", len(cards))
	return nil
}

// renderCard draws a single card at the given position.
func renderCard(pdf *fpdf.Fpdf, x, y float64, index int, info CardInfo) error {
	// Draw light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, cardWidth, cardHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal card info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", index)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	// Place QR code on the right side of the card
	qrX := x + cardWidth - qrSize - cardPadding
	qrY := y + (cardHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + cardPadding
	textW := cardWidth - qrSize - 3*cardPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+cardPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, info.Panel, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+cardPadding+5)
	counts := fmt.Sprintf("CO %d / BO %d sts, %d rows", info.CastOn, info.BindOff, info.TotalRows)
	pdf.CellFormat(textW, 3.5, counts, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+cardPadding+9)
	gauge := fmt.Sprintf("%g x %g per 4in @ %g", info.Stitches, info.RowsGauge, info.SizeModifier)
	pdf.CellFormat(textW, 3, gauge, "", 1, "L", false, 0, "")

	if info.Garment != "" {
		pdf.SetXY(textX, y+cardPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		garment := info.Garment
		if info.Size != "" {
			garment += " (" + info.Size + ")"
		}
		pdf.CellFormat(textW, 3, truncate(pdf, garment, textW), "", 0, "L", false, 0, "")
	}

	// Reset text color
	pdf.SetTextColor(0, 0, 0)

	return nil
}

// truncate shortens s with an ellipsis until it fits w at the current font.
func truncate(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > w {
		s = s[:len(s)-1]
	}
	return s + "..."
}
