// KnitPlan, a machine-knitting pattern compiler.
//
// Compiles parametric garment panels into row by row machine knitting
// instructions, maps colorwork charts onto the shaped panels and exports
// pattern sheets, panel cards, charts and outlines.
//
// Build:
//   go build -o knitplan ./cmd/knitplan
//
// Usage:
//   knitplan [-v] [-config path] <command> [flags]
//
// Run "knitplan help" for the list of commands.

package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/piwi3910/KnitPlan/internal/logging"
	"github.com/piwi3910/KnitPlan/internal/model"
	"github.com/piwi3910/KnitPlan/internal/project"
)

type command struct {
	name    string
	summary string
	run     func(env *env, args []string) error
}

var commands = []command{
	{"instructions", "print the knitting instructions of a panel", runInstructions},
	{"plan", "print the row by row stitch plan of a panel", runPlan},
	{"combine", "map a colorwork pattern onto a panel", runCombine},
	{"compare", "compare a panel across sizes", runCompare},
	{"garments", "list catalog garments or compile one", runGarments},
	{"export", "write a PDF, panel cards, XLSX, DXF, PNG or SVG", runExport},
	{"import", "convert a CSV or XLSX chart to a pattern file", runImport},
	{"backup", "export or restore settings and inventory", runBackup},
	{"serve", "run the HTTP API", runServe},
}

// env is what every command needs besides its own flags.
type env struct {
	stdout     io.Writer
	stderr     io.Writer
	configPath string
	config     model.AppConfig
	settings   model.KnitSettings
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("knitplan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "verbose logging")
	configPath := fs.String("config", project.DefaultConfigPath(), "path to config.json")
	fs.Usage = func() { usage(stderr) }
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	if fs.NArg() == 0 || fs.Arg(0) == "help" {
		usage(stderr)
		if fs.NArg() == 0 {
			return 2
		}
		return 0
	}

	e, err := newEnv(*configPath, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "knitplan: %v\n", err)
		return 1
	}

	name := fs.Arg(0)
	for _, c := range commands {
		if c.name != name {
			continue
		}
		if err := c.run(e, fs.Args()[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			fmt.Fprintf(stderr, "knitplan %s: %v\n", name, err)
			return 1
		}
		return 0
	}
	fmt.Fprintf(stderr, "knitplan: unknown command %q\n", name)
	usage(stderr)
	return 2
}

// newEnv loads the app config and resolves the default gauge profile.
func newEnv(configPath string, stdout, stderr io.Writer) (*env, error) {
	cfg, err := project.LoadAppConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	settings := model.DefaultSettings()
	cfg.ApplyToSettings(&settings)
	if settings.Gauge.Validate() != nil {
		settings.Gauge = model.DefaultGauge()
	}

	if cfg.DefaultGaugeProfile != "" {
		inv, err := project.LoadInventory(project.DefaultInventoryPath())
		if err != nil {
			logging.Logger().Warn("inventory not loaded", "error", err)
		}
		profile := inv.FindProfileByID(cfg.DefaultGaugeProfile)
		if profile == nil {
			profile = inv.FindProfileByName(cfg.DefaultGaugeProfile)
		}
		if profile != nil {
			profile.ApplyToSettings(&settings)
			logging.Logger().Debug("gauge profile applied", "profile", profile.Name)
		} else {
			logging.Logger().Warn("default gauge profile not found", "profile", cfg.DefaultGaugeProfile)
		}
	}

	return &env{
		stdout:     stdout,
		stderr:     stderr,
		configPath: configPath,
		config:     cfg,
		settings:   settings,
	}, nil
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: knitplan [-v] [-config path] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-13s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, `Run "knitplan <command> -h" for the flags of a command.`)
}
