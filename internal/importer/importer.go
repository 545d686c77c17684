// Package importer reads colorwork charts from CSV and Excel files.
// It supports automatic delimiter detection, numeric colour indexes, colour
// values in cells and an optional palette section.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/piwi3910/KnitPlan/internal/logging"
	"github.com/piwi3910/KnitPlan/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation. Pattern is nil
// when Errors is not empty.
type ImportResult struct {
	Pattern  *model.ColorworkPattern
	Errors   []string
	Warnings []string
}

// PaletteMarker starts the palette section. Every non-empty row after it is
// "id, colour[, label]".
const PaletteMarker = "palette"

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// defaultPalette is registered for the conventional ids when the file
// does not define them.
var defaultPalette = []model.Color{
	{ID: model.MainColor, Label: "Main Color", Color: "#ffffff"},
	{ID: model.ContrastColor, Label: "Contrast Color", Color: "#000000"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		records, err := readCSV(bytes.NewReader(data), delim)
		if err != nil || len(records) < 1 {
			continue
		}

		// Only consider delimiters that produce more than 1 column
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// CellColorID converts one chart cell to a colour id. Integers are colour
// indexes: 0 is MC, 1 is CC and n > 1 is CCn. Any other text is used as the
// id itself. Colour values (hex or CSS names, lower-cased) report isColor
// so the caller can allocate an id for them.
func CellColorID(cell string) (id string, isColor bool) {
	cell = strings.TrimSpace(cell)
	if n, err := strconv.Atoi(cell); err == nil && n >= 0 {
		switch n {
		case 0:
			return model.MainColor, false
		case 1:
			return model.ContrastColor, false
		default:
			return fmt.Sprintf("%s%d", model.ContrastColor, n), false
		}
	}
	if hexColor.MatchString(cell) {
		return strings.ToLower(cell), true
	}
	if _, named := model.ResolveColor(cell); named {
		return strings.ToLower(cell), true
	}
	return cell, false
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports a chart from a CSV file.
// It automatically detects the delimiter.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	result = ImportCSVData(data)
	if result.Pattern != nil {
		result.Pattern.Metadata["name"] = baseName(path)
	}
	return result
}

// ImportCSVData imports a chart from CSV content, detecting the delimiter.
func ImportCSVData(data []byte) ImportResult {
	result := ImportResult{}
	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}
	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports a chart from a CSV reader with a specific delimiter.
// This is useful for testing or when the delimiter is already known.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	records, err := readCSV(reader, delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}
	return importFromRows(records, "Line", nil)
}

// ImportExcel imports a chart from an Excel (.xlsx) file.
// Reads the first sheet; each cell is one stitch.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	result = importFromRows(rows, "Row", nil)
	if result.Pattern != nil {
		result.Pattern.Metadata["name"] = baseName(path)
		result.Pattern.Metadata["sheet"] = sheets[0]
	}
	return result
}

// ImportFile picks the reader by extension: .xlsx and .xlsm use Excel,
// everything else CSV.
func ImportFile(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ImportExcel(path)
	default:
		return ImportCSV(path)
	}
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// importFromRows is the shared import logic for both CSV and Excel data.
// The first row of the file becomes grid row 0. Short rows are padded with
// the main colour to the widest row.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	var grid [][]string
	var lines []int
	colorIDs := map[string]string{} // colour value -> allocated id
	palette := map[string]model.Color{}
	inPalette := false

	for i, row := range rows {
		lineNum := i + 1
		if isEmptyRow(row) {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(row[0]), PaletteMarker) {
			inPalette = true
			continue
		}
		if inPalette {
			if c, errMsg := parsePaletteRow(row, fmt.Sprintf("%s %d", rowPrefix, lineNum)); errMsg != "" {
				result.Errors = append(result.Errors, errMsg)
			} else {
				palette[c.ID] = c
			}
			continue
		}

		cells := make([]string, len(row))
		for j, cell := range row {
			id, isColor := CellColorID(cell)
			if id == "" {
				id = model.MainColor
			}
			if isColor {
				id = allocateID(colorIDs, id)
			}
			cells[j] = id
		}
		grid = append(grid, cells)
		lines = append(lines, lineNum)
	}

	if len(grid) == 0 {
		result.Errors = append(result.Errors, "No chart rows found")
		return result
	}
	if len(result.Errors) > 0 {
		return result
	}

	width := 0
	for _, row := range grid {
		width = max(width, len(row))
	}
	for i, row := range grid {
		if len(row) < width {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s %d: %d of %d stitches, padding with %s", rowPrefix, lines[i], len(row), width, model.MainColor))
			for len(row) < width {
				row = append(row, model.MainColor)
			}
			grid[i] = row
		}
	}

	p := model.NewColorworkPatternFromGrid(grid, nil, map[string]any{"width": width, "height": len(grid)})
	for value, id := range colorIDs {
		p.SetColor(id, value, "")
	}
	for id, c := range palette {
		p.SetColor(id, c.Color, c.Label)
	}
	for _, c := range defaultPalette {
		if _, ok := p.Colors[c.ID]; !ok {
			p.Colors[c.ID] = c
		}
	}
	for _, id := range missingColors(p) {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Colour %s has no palette entry", id))
	}

	logging.Logger().Debug("imported colorwork chart", "rows", len(grid), "stitches", width, "colors", len(p.Colors))
	result.Pattern = p
	return result
}

// allocateID gives each distinct colour value the next free id: MC, CC,
// CC2, CC3 and so on.
func allocateID(ids map[string]string, value string) string {
	if id, ok := ids[value]; ok {
		return id
	}
	var id string
	switch n := len(ids); n {
	case 0:
		id = model.MainColor
	case 1:
		id = model.ContrastColor
	default:
		id = fmt.Sprintf("%s%d", model.ContrastColor, n)
	}
	ids[value] = id
	return id
}

func parsePaletteRow(row []string, rowLabel string) (model.Color, string) {
	id := strings.TrimSpace(getCell(row, 0))
	value := strings.TrimSpace(getCell(row, 1))
	if id == "" || value == "" {
		return model.Color{}, fmt.Sprintf("%s: Palette rows need an id and a colour", rowLabel)
	}
	if numeric, isColor := CellColorID(id); !isColor {
		id = numeric
	}
	hex, named := model.ResolveColor(value)
	if !named && !hexColor.MatchString(hex) {
		return model.Color{}, fmt.Sprintf("%s: Invalid colour '%s'", rowLabel, value)
	}
	return model.Color{ID: id, Label: strings.TrimSpace(getCell(row, 2)), Color: value}, ""
}

// getCell safely retrieves a cell value from a row by index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// missingColors lists grid ids without a palette entry, in first-seen order.
func missingColors(p *model.ColorworkPattern) []string {
	seen := map[string]bool{}
	var missing []string
	for _, row := range p.Grid {
		for _, id := range row {
			if seen[id] {
				continue
			}
			seen[id] = true
			if _, ok := p.Colors[id]; !ok {
				missing = append(missing, id)
			}
		}
	}
	return missing
}
