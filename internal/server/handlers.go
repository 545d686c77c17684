package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/piwi3910/KnitPlan/internal/chart"
	"github.com/piwi3910/KnitPlan/internal/colorwork"
	"github.com/piwi3910/KnitPlan/internal/engine"
	"github.com/piwi3910/KnitPlan/internal/instructions"
	"github.com/piwi3910/KnitPlan/internal/model"
	"github.com/piwi3910/KnitPlan/internal/project"
)

type stitchPlanResponse struct {
	StitchPlan *engine.StitchPlan `json:"stitchPlan"`
	Steps      []engine.Step      `json:"steps"`
	Warnings   []string           `json:"warnings"`
}

type combineRequest struct {
	Panel       json.RawMessage         `json:"panel"`
	Pattern     *model.ColorworkPattern `json:"pattern"`
	Layers      []colorwork.Layer       `json:"layers"`
	StretchMode string                  `json:"stretchMode"`
	Alignment   string                  `json:"alignmentMode"`
	Format      string                  `json:"format"`
}

type combineResponse struct {
	CombinedPattern *engine.CombinedPattern            `json:"combinedPattern"`
	Instructions    []instructions.CombinedInstruction `json:"instructions"`
	Lines           []string                           `json:"lines"`
}

type garmentSummary struct {
	Permalink   string   `json:"permalink"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Sizes       []string `json:"sizes"`
	Panels      []string `json:"panels"`
}

// ============================================================
// Compiler Handlers
// ============================================================

// StitchPlan compiles the root section of a posted panel.
func (s *Server) StitchPlan(c fiber.Ctx) error {
	panel, err := s.decodePanel(c.Body())
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	warnings := engine.FormatIssues(engine.LintPanel(panel, s.settings.MaxShapingPerRow))
	if warnings == nil {
		warnings = []string{}
	}
	return c.JSON(stitchPlanResponse{
		StitchPlan: engine.PanelStitchPlan(panel),
		Steps:      engine.PanelSteps(panel),
		Warnings:   warnings,
	})
}

// Instructions returns the text instructions of a posted panel.
func (s *Server) Instructions(c fiber.Ctx) error {
	panel, err := s.decodePanel(c.Body())
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"instructions": engine.PanelInstructions(panel)})
}

// Combine maps a pattern, or a stack of layers, onto a panel and returns
// the combined pattern with its instructions in the requested format.
func (s *Server) Combine(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}
	var req combineRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	panel, err := s.decodePanel(req.Panel)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	format, err := instructions.ParseFormat(req.Format)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	pattern := req.Pattern
	if len(req.Layers) > 0 {
		plan := engine.PanelStitchPlan(panel)
		widest := 0
		for _, r := range plan.Rows {
			widest = max(widest, r.Total())
		}
		pattern, err = colorwork.Composite(widest, len(plan.Rows), req.Layers)
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	cp, err := s.composer.Combine(panel, pattern, engine.CombineOptions{
		StretchMode: model.StretchMode(req.StretchMode),
		Alignment:   model.Alignment(req.Alignment),
	})
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	list, err := s.generator.Generate(cp, format)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(combineResponse{
		CombinedPattern: cp,
		Instructions:    list,
		Lines:           instructions.Lines(list),
	})
}

// Chart renders a posted pattern as SVG, or PNG with ?format=png.
func (s *Server) Chart(c fiber.Ctx) error {
	var p model.ColorworkPattern
	if err := json.Unmarshal(c.Body(), &p); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	opts := chart.DefaultOptions()
	if v := c.Query("cellSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "cellSize must be a positive integer"})
		}
		opts.CellSize = n
	}

	if strings.EqualFold(c.Query("format"), "png") {
		var buf bytes.Buffer
		if err := chart.WritePNG(&buf, &p, opts); err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(buf.Bytes())
	}
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.SendString(chart.Generate(&p, opts).SVG)
}

// ============================================================
// Garment Handlers
// ============================================================

func (s *Server) ListGarments(c fiber.Ctx) error {
	out := make([]garmentSummary, 0, len(s.catalog.Garments))
	for _, g := range s.catalog.Garments {
		panels := make([]string, len(g.Shapes))
		for i, sh := range g.Shapes {
			panels[i] = sh.Name
		}
		out = append(out, garmentSummary{
			Permalink:   g.Permalink,
			Title:       g.Title,
			Description: g.Description,
			Sizes:       g.SizeNames(),
			Panels:      panels,
		})
	}
	return c.JSON(out)
}

// GarmentInstructions compiles a catalog garment. The size comes from
// ?size=, the gauge from ?stitches= and ?rows= over the server default.
func (s *Server) GarmentInstructions(c fiber.Ctx) error {
	g := s.catalog.FindByPermalink(c.Params("permalink"))
	if g == nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "garment not found"})
	}

	gauge := s.settings.Gauge
	for key, dst := range map[string]*float64{"stitches": &gauge.StitchesPerFourInches, "rows": &gauge.RowsPerFourInches} {
		if v := c.Query(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("invalid %s %q", key, v)})
			}
			*dst = f
		}
	}
	if err := gauge.Validate(); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	gp, err := engine.GarmentInstructions(*g, c.Query("size"), gauge, nil)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownSize) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "sizes": g.SizeNames()})
		}
		return err
	}
	return c.JSON(gp)
}

// ============================================================
// Library Handlers
// ============================================================

func (s *Server) ListPatterns(c fiber.Ctx) error {
	entries, err := s.library.ListPatterns(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

func (s *Server) GetPattern(c fiber.Ctx) error {
	p, err := s.library.LoadPattern(c.Context(), c.Params("name"))
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "pattern not found"})
		}
		return err
	}
	return c.JSON(p)
}

func (s *Server) PutPattern(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}
	var p model.ColorworkPattern
	if err := json.Unmarshal(c.Body(), &p); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if err := s.library.SavePattern(c.Context(), c.Params("name"), &p); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func (s *Server) DeletePattern(c fiber.Ctx) error {
	if err := s.library.Delete(c.Context(), project.KindPattern, c.Params("name")); err != nil {
		if errors.Is(err, project.ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "pattern not found"})
		}
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// decodePanel reads a panel object. Gauge and size default to the server
// settings rather than the panel defaults.
func (s *Server) decodePanel(body []byte) (*model.Panel, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("empty body")
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.New("panel must be a JSON object")
	}
	if raw == nil {
		return nil, errors.New("panel is required")
	}
	if _, ok := raw["gauge"]; !ok {
		raw["gauge"] = map[string]any{
			"stitchesPerFourInches": s.settings.Gauge.StitchesPerFourInches,
			"rowsPerFourInches":     s.settings.Gauge.RowsPerFourInches,
		}
	}
	if _, ok := raw["sizeModifier"]; !ok {
		raw["sizeModifier"] = s.settings.SizeModifier
	}
	panel := model.PanelFromObject(raw)
	if err := panel.Gauge.Validate(); err != nil {
		return nil, err
	}
	return panel, nil
}
