package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/piwi3910/KnitPlan/internal/chart"
	"github.com/piwi3910/KnitPlan/internal/engine"
	"github.com/piwi3910/KnitPlan/internal/export"
	"github.com/piwi3910/KnitPlan/internal/instructions"
	"github.com/piwi3910/KnitPlan/internal/model"
	"github.com/piwi3910/KnitPlan/internal/project"
)

func newFlagSet(e *env, name string) *flag.FlagSet {
	fs := flag.NewFlagSet("knitplan "+name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

func printJSON(e *env, v any) error {
	enc := json.NewEncoder(e.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ============================================================
// instructions / plan
// ============================================================

func runInstructions(e *env, args []string) error {
	fs := newFlagSet(e, "instructions")
	var pf panelFlags
	pf.register(fs)
	asJSON := fs.Bool("json", false, "print the structured steps as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	panel, err := pf.load(e)
	if err != nil {
		return err
	}

	steps := engine.PanelSteps(panel)
	if *asJSON {
		return printJSON(e, steps)
	}
	for _, line := range engine.Texts(steps) {
		fmt.Fprintln(e.stdout, line)
	}
	return nil
}

func runPlan(e *env, args []string) error {
	fs := newFlagSet(e, "plan")
	var pf panelFlags
	pf.register(fs)
	asJSON := fs.Bool("json", false, "print the plan as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	panel, err := pf.load(e)
	if err != nil {
		return err
	}

	plan := engine.PanelStitchPlan(panel)
	if *asJSON {
		return printJSON(e, plan)
	}
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Row\tLeft\tRight\tTotal\t")
	for _, r := range plan.Rows {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t\n", r.RowNumber, r.LeftStitchesInWork, r.RightStitchesInWork, r.Total())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, w := range engine.FormatIssues(engine.LintPanel(panel, e.settings.MaxShapingPerRow)) {
		fmt.Fprintf(e.stdout, "warning: %s\n", w)
	}
	return nil
}

// ============================================================
// combine
// ============================================================

type combineFlags struct {
	pattern string
	chart   string
	colors  string
	stretch string
	align   string
	format  string
}

func (cf *combineFlags) register(fs *flag.FlagSet, e *env) {
	fs.StringVar(&cf.pattern, "pattern", "", "pattern file (JSON, YAML, CSV or XLSX)")
	fs.StringVar(&cf.chart, "chart", "", "catalog chart name, e.g. Checkerboard")
	fs.StringVar(&cf.colors, "colors", "", "comma separated hex colours for -chart")
	fs.StringVar(&cf.stretch, "stretch", string(e.settings.StretchMode), "repeat, stretch or center")
	fs.StringVar(&cf.align, "align", string(e.settings.Alignment), "center, left or right")
	fs.StringVar(&cf.format, "format", e.settings.InstructionFormat, "compact, detailed or visual")
}

func (cf *combineFlags) combine(panel *model.Panel) (*engine.CombinedPattern, []instructions.CombinedInstruction, error) {
	mode, err := engine.ParseStretchMode(cf.stretch)
	if err != nil {
		return nil, nil, err
	}
	align, err := engine.ParseAlignment(cf.align)
	if err != nil {
		return nil, nil, err
	}
	format, err := instructions.ParseFormat(cf.format)
	if err != nil {
		return nil, nil, err
	}
	pattern, err := loadPattern(cf.pattern, cf.chart, cf.colors)
	if err != nil {
		return nil, nil, err
	}

	cp, err := engine.NewComposer().Combine(panel, pattern, engine.CombineOptions{StretchMode: mode, Alignment: align})
	if err != nil {
		return nil, nil, err
	}
	gen := instructions.NewGenerator()
	gen.NoCharts = format != instructions.FormatVisual
	list, err := gen.Generate(cp, format)
	if err != nil {
		return nil, nil, err
	}
	return cp, list, nil
}

func runCombine(e *env, args []string) error {
	fs := newFlagSet(e, "combine")
	var pf panelFlags
	var cf combineFlags
	pf.register(fs)
	cf.register(fs, e)
	out := fs.String("o", "", "also write the combined pattern as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	panel, err := pf.load(e)
	if err != nil {
		return err
	}
	cp, list, err := cf.combine(panel)
	if err != nil {
		return err
	}

	if *out != "" {
		data, err := json.MarshalIndent(cp, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(*out, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", *out, err)
		}
	}
	return instructions.WriteText(e.stdout, cp, list)
}

// ============================================================
// compare
// ============================================================

func runCompare(e *env, args []string) error {
	fs := newFlagSet(e, "compare")
	var pf panelFlags
	pf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	panel, err := pf.load(e)
	if err != nil {
		return err
	}

	scenarios := engine.BuildDefaultScenarios(panel.SizeModifier)
	if pf.garment != "" {
		g, err := findGarment(pf.garment)
		if err != nil {
			return err
		}
		scenarios = engine.SizeScenariosFromGarment(*g)
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Size\tModifier\tCast on\tBind off\tRows\tShaping")
	for _, c := range engine.CompareSizes(panel.Shape, panel.Gauge, scenarios) {
		fmt.Fprintf(tw, "%s\t%.3f\t%d\t%d\t%d\t%d\n",
			c.Scenario.Name, c.Scenario.SizeModifier, c.CastOn, c.BindOff, c.TotalRows, c.ShapingSteps)
	}
	return tw.Flush()
}

// ============================================================
// garments
// ============================================================

func runGarments(e *env, args []string) error {
	fs := newFlagSet(e, "garments")
	permalink := fs.String("garment", "", "compile this garment instead of listing")
	size := fs.String("size", "", "size name (default: the first)")
	var stitches, rows float64
	fs.Float64Var(&stitches, "stitches", 0, "stitches per 4 inches")
	fs.Float64Var(&rows, "rows", 0, "rows per 4 inches")
	asJSON := fs.Bool("json", false, "print as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *permalink == "" {
		gc, err := catalog()
		if err != nil {
			return err
		}
		if *asJSON {
			return printJSON(e, gc)
		}
		for _, g := range gc.Garments {
			fmt.Fprintf(e.stdout, "%s\t%s (%s)\n", g.Permalink, g.Title, strings.Join(g.SizeNames(), ", "))
		}
		return nil
	}

	g, err := findGarment(*permalink)
	if err != nil {
		return err
	}
	pf := panelFlags{stitches: stitches, rows: rows}
	gauge := pf.gauge(e.settings.Gauge)
	if err := gauge.Validate(); err != nil {
		return err
	}
	gp, err := engine.GarmentInstructions(*g, *size, gauge, nil)
	if err != nil {
		return err
	}
	if *asJSON {
		return printJSON(e, gp)
	}

	fmt.Fprintf(e.stdout, "%s, size %s\n", gp.Title, gp.Size)
	for _, block := range gp.Panels {
		fmt.Fprintf(e.stdout, "\n%s\n", block.Name)
		for _, line := range block.Instructions {
			fmt.Fprintf(e.stdout, "  %s\n", line)
		}
	}
	if len(gp.FinishingSteps) > 0 {
		fmt.Fprintln(e.stdout, "\nFinishing")
		for i, step := range gp.FinishingSteps {
			fmt.Fprintf(e.stdout, "  %d. %s\n", i+1, step)
		}
	}
	return nil
}

// ============================================================
// export
// ============================================================

func runExport(e *env, args []string) error {
	fs := newFlagSet(e, "export")
	var pf panelFlags
	var cf combineFlags
	pf.register(fs)
	cf.register(fs, e)
	kind := fs.String("as", "", "pdf, cards, xlsx, dxf, png or svg (default: from -o extension)")
	out := fs.String("o", "", "output file")
	title := fs.String("title", "", "document title")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return errors.New("-o is required")
	}
	if *kind == "" {
		*kind = strings.TrimPrefix(strings.ToLower(filepath.Ext(*out)), ".")
	}

	switch *kind {
	case "pdf":
		panel, err := pf.load(e)
		if err != nil {
			return err
		}
		cp, list, err := cf.combine(panel)
		if err != nil {
			return err
		}
		name := *title
		if name == "" {
			name = defaultTitle(pf)
		}
		return export.ExportPatternPDF(*out, export.NewPatternDocument(name, cp, list))

	case "cards":
		if pf.garment != "" && pf.piece == "" {
			g, err := findGarment(pf.garment)
			if err != nil {
				return err
			}
			cards, err := export.GarmentCards(*g, pf.size, pf.gauge(e.settings.Gauge))
			if err != nil {
				return err
			}
			return export.ExportPanelCards(*out, cards)
		}
		panel, err := pf.load(e)
		if err != nil {
			return err
		}
		return export.ExportPanelCards(*out, []export.CardInfo{export.NewCardInfo(defaultTitle(pf), panel)})

	case "dxf":
		panel, err := pf.load(e)
		if err != nil {
			return err
		}
		return export.ExportOutlineDXF(*out, panel)

	case "xlsx", "png", "svg":
		pattern, err := loadPattern(cf.pattern, cf.chart, cf.colors)
		if err != nil {
			return err
		}
		if pattern == nil {
			return errors.New("no pattern given: use -pattern or -chart")
		}
		return writePattern(*kind, *out, pattern)
	}
	return fmt.Errorf("unknown export format %q", *kind)
}

func writePattern(kind, path string, p *model.ColorworkPattern) error {
	if kind == "xlsx" {
		return export.ExportChartXLSX(path, p)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if kind == "png" {
		err = chart.WritePNG(f, p, chart.DefaultOptions())
	} else {
		_, err = f.WriteString(chart.Generate(p, chart.DefaultOptions()).SVG)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func defaultTitle(pf panelFlags) string {
	switch {
	case pf.garment != "" && pf.piece != "":
		return pf.garment + " " + pf.piece
	case pf.garment != "":
		return pf.garment
	case pf.panel != "":
		return strings.TrimSuffix(filepath.Base(pf.panel), filepath.Ext(pf.panel))
	case pf.shape != "":
		return strings.TrimSuffix(filepath.Base(pf.shape), filepath.Ext(pf.shape))
	}
	return "Knitting Pattern"
}

// ============================================================
// import
// ============================================================

func runImport(e *env, args []string) error {
	fs := newFlagSet(e, "import")
	in := fs.String("in", "", "CSV or XLSX chart")
	out := fs.String("o", "", "pattern file to write (JSON); default prints to stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("-in is required")
	}
	pattern, err := loadPattern(*in, "", "")
	if err != nil {
		return err
	}
	if *out == "" {
		return printJSON(e, pattern)
	}
	if err := project.SavePatternFile(*out, pattern); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "%s: %d rows x %d stitches, %d colours\n", *out, pattern.RowCount(), pattern.StitchCount(), len(pattern.ColorsUsed()))
	return nil
}

// ============================================================
// backup
// ============================================================

func runBackup(e *env, args []string) error {
	fs := newFlagSet(e, "backup")
	out := fs.String("o", "", "write a backup of config, inventory and user garments")
	restore := fs.String("restore", "", "restore from a backup")
	inventoryPath := fs.String("inventory", project.DefaultInventoryPath(), "inventory file")
	garmentsPath := fs.String("garments", userGarmentsPath(), "user garment catalog")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *out != "":
		inv, err := project.LoadInventory(*inventoryPath)
		if err != nil {
			return err
		}
		b := project.NewBackup(e.config, inv)
		if gc, err := project.LoadGarments(*garmentsPath); err != nil {
			return err
		} else if len(gc.Garments) > 0 || len(gc.Charts) > 0 {
			b.Garments = &gc
		}
		if err := project.ExportAllData(*out, b); err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "backup written to %s\n", *out)

	case *restore != "":
		b, err := project.ImportAllData(*restore)
		if err != nil {
			return err
		}
		if err := project.SaveAppConfig(e.configPath, b.Config); err != nil {
			return err
		}
		existing, err := project.LoadInventory(*inventoryPath)
		if err != nil {
			return err
		}
		if err := project.SaveInventory(*inventoryPath, project.MergeInventory(existing, b.Inventory)); err != nil {
			return err
		}
		if b.Garments != nil {
			current, err := project.LoadGarments(*garmentsPath)
			if err != nil {
				return err
			}
			if err := project.SaveGarments(*garmentsPath, project.MergeCatalogs(current, *b.Garments)); err != nil {
				return err
			}
		}
		fmt.Fprintf(e.stdout, "restored backup from %s (created %s)\n", *restore, b.CreatedAt)

	default:
		return errors.New("use -o to write a backup or -restore to read one")
	}
	return nil
}
