package main

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/piwi3910/KnitPlan/internal/importer"
	"github.com/piwi3910/KnitPlan/internal/logging"
	"github.com/piwi3910/KnitPlan/internal/model"
	"github.com/piwi3910/KnitPlan/internal/project"
)

var errNoPanel = errors.New("no panel given: use -shape, -panel or -garment with -piece")

// panelFlags picks a panel from a shape file, a panel file or a catalog
// garment, with gauge and size overrides.
type panelFlags struct {
	shape    string
	panel    string
	garment  string
	piece    string
	size     string
	modifier float64
	stitches float64
	rows     float64
	motif    string
}

func (pf *panelFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&pf.shape, "shape", "", "section tree file (JSON or YAML)")
	fs.StringVar(&pf.panel, "panel", "", "panel file with shapes, gauge and size (JSON or YAML)")
	fs.StringVar(&pf.garment, "garment", "", "catalog garment permalink")
	fs.StringVar(&pf.piece, "piece", "", "panel of the garment, e.g. Front")
	fs.StringVar(&pf.size, "size", "", "garment size name")
	fs.Float64Var(&pf.modifier, "modifier", 0, "size modifier (0 keeps the default)")
	fs.Float64Var(&pf.stitches, "stitches", 0, "stitches per 4 inches (0 keeps the default)")
	fs.Float64Var(&pf.rows, "rows", 0, "rows per 4 inches (0 keeps the default)")
	fs.StringVar(&pf.motif, "motif", "", "built-in visual motif")
}

func (pf *panelFlags) gauge(base model.Gauge) model.Gauge {
	if pf.stitches > 0 {
		base.StitchesPerFourInches = pf.stitches
	}
	if pf.rows > 0 {
		base.RowsPerFourInches = pf.rows
	}
	return base
}

// load builds the panel. The shape is never shared with the catalog.
func (pf *panelFlags) load(e *env) (*model.Panel, error) {
	var motif *model.VisualMotif
	if pf.motif != "" {
		m, ok := project.BuiltinMotif(pf.motif)
		if !ok {
			return nil, fmt.Errorf("unknown motif %q (have %s)", pf.motif, strings.Join(project.BuiltinMotifNames(), ", "))
		}
		motif = m
	}

	switch {
	case pf.panel != "":
		p, err := project.LoadPanelFile(pf.panel)
		if err != nil {
			return nil, err
		}
		size := p.SizeModifier
		if pf.modifier > 0 {
			size = pf.modifier
		}
		if motif == nil {
			motif = p.VisualMotif
		}
		return model.NewPanel(p.Shape, pf.gauge(p.Gauge), size, motif), nil

	case pf.shape != "":
		shape, err := project.LoadShapeFile(pf.shape)
		if err != nil {
			return nil, err
		}
		return model.NewPanel(shape, pf.gauge(e.settings.Gauge), pf.sizeOr(e.settings.SizeModifier), motif), nil

	case pf.garment != "":
		g, err := findGarment(pf.garment)
		if err != nil {
			return nil, err
		}
		size := pf.modifier
		if size <= 0 {
			name := pf.size
			if name == "" && len(g.Sizes) > 0 {
				name = g.Sizes[0].Name
			}
			m, ok := g.Size(name)
			switch {
			case ok:
				size = m
			case name == "":
				size = 1
			default:
				return nil, fmt.Errorf("garment %s has no size %q (have %s)", g.Permalink, name, strings.Join(g.SizeNames(), ", "))
			}
		}
		for _, s := range g.Shapes {
			if pf.piece == "" || strings.EqualFold(s.Name, pf.piece) {
				return model.NewPanel(s.Shape.Clone(), pf.gauge(e.settings.Gauge), size, motif), nil
			}
		}
		return nil, fmt.Errorf("garment %s has no piece %q", g.Permalink, pf.piece)
	}
	return nil, errNoPanel
}

func (pf *panelFlags) sizeOr(def float64) float64 {
	if pf.modifier > 0 {
		return pf.modifier
	}
	return def
}

// catalog is the built-in catalog with the user catalog merged over it.
// KNITPLAN_GARMENTS overrides the user catalog path.
func catalog() (model.GarmentCatalog, error) {
	return loadCatalog(userGarmentsPath())
}

func userGarmentsPath() string {
	return getenv("KNITPLAN_GARMENTS", project.DefaultGarmentsPath())
}

func loadCatalog(userPath string) (model.GarmentCatalog, error) {
	gc, err := project.BuiltinCatalog()
	if err != nil || userPath == "" {
		return gc, err
	}
	extra, err := project.LoadGarments(userPath)
	if err != nil {
		return gc, err
	}
	return project.MergeCatalogs(gc, extra), nil
}

func findGarment(permalink string) (*model.Garment, error) {
	gc, err := catalog()
	if err != nil {
		return nil, err
	}
	g := gc.FindByPermalink(permalink)
	if g == nil {
		return nil, fmt.Errorf("unknown garment %q", permalink)
	}
	return g, nil
}

// loadPattern reads a pattern file or expands a catalog chart. Charts are
// coloured from colors, a comma separated list of hex values.
func loadPattern(path, chartName, colors string) (*model.ColorworkPattern, error) {
	switch {
	case path != "":
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv", ".txt", ".tsv", ".xlsx", ".xlsm":
			result := importer.ImportFile(path)
			for _, w := range result.Warnings {
				logging.Logger().Warn("import", "file", path, "warning", w)
			}
			if len(result.Errors) > 0 {
				return nil, fmt.Errorf("failed to import %s: %s", path, strings.Join(result.Errors, "; "))
			}
			return result.Pattern, nil
		}
		return project.LoadPatternFile(path)
	case chartName != "":
		gc, err := catalog()
		if err != nil {
			return nil, err
		}
		c := gc.FindChart(chartName)
		if c == nil {
			return nil, fmt.Errorf("unknown chart %q", chartName)
		}
		var hex []string
		if colors != "" {
			hex = strings.Split(colors, ",")
		}
		return c.Pattern(hex...), nil
	}
	return nil, nil
}
