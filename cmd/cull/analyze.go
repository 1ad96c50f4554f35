package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/cullhq/cull/internal/analyzer"
	"github.com/cullhq/cull/internal/output"
	"github.com/cullhq/cull/internal/progress"
	"github.com/cullhq/cull/internal/scanner"
	"github.com/cullhq/cull/pkg/config"
	"github.com/cullhq/cull/pkg/models"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Report unused definitions and files",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "strategy",
				Aliases: []string{"s"},
				Usage:   "Analysis strategy: structural, lexical",
			},
			&cli.IntFlag{
				Name:  "top",
				Usage: "Limit rows per category in text output (0 = all)",
				Value: -1,
			},
			&cli.BoolFlag{
				Name:  "no-files",
				Usage: "Skip the unused-file report",
			},
			&cli.BoolFlag{
				Name:  "no-gitignore",
				Usage: "Do not honor .gitignore when discovering files",
			},
		},
		Action: runAnalyze,
	}
}

// loadConfig resolves the effective config. An explicit --config path that
// fails is an error; a discovered file that fails is skipped with a warning.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	cfg, warnings := config.LoadOrDefault()
	for _, w := range warnings {
		color.Yellow("Warning: %s", w)
	}
	return cfg, nil
}

func runAnalyze(c *cli.Context) error {
	paths := getPaths(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if s := c.String("strategy"); s != "" {
		cfg.Analysis.Strategy = s
	}
	if c.IsSet("top") {
		cfg.Output.Top = c.Int("top")
	}
	if c.Bool("no-files") {
		cfg.Analysis.Files = false
	}
	if c.Bool("no-gitignore") {
		cfg.Ignore.Gitignore = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	scan := scanner.New(cfg)
	files, err := scan.ScanPaths(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No source files found")
		return nil
	}

	sourceRoot := cfg.Analysis.Root
	if sourceRoot == "" {
		if abs, err := filepath.Abs(paths[0]); err == nil {
			sourceRoot = abs
		} else {
			sourceRoot = paths[0]
		}
	}

	opts := analyzer.Options{
		Strategy:   cfg.Analysis.Strategy,
		SourceRoot: sourceRoot,
	}
	var tracker *progress.Tracker
	if !c.Bool("no-progress") {
		tracker = progress.NewTracker("Analyzing...", len(files))
		opts.OnProgress = func(string) { tracker.Tick() }
	}

	result, err := analyzer.New(opts).Analyze(files)
	if tracker != nil {
		tracker.FinishSuccess()
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	if !cfg.Analysis.Files {
		result.UnusedFiles = result.UnusedFiles[:0]
		result.Totals.UnusedFiles = 0
	}

	formatter, err := output.NewFormatter(
		output.ParseFormat(c.String("format")),
		c.String("output"),
		cfg.Output.Color && !c.Bool("no-color"),
	)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(buildReport(result, cfg.Output.Top))
}

// buildReport assembles the text/markdown rendering for a result. JSON and
// toon serialize the raw result instead.
func buildReport(result *models.AnalysisResult, top int) *output.Report {
	report := &output.Report{
		Title: "Unused Code Report",
		Data:  result,
	}

	report.Sections = append(report.Sections, output.NewTable(
		"Summary",
		[]string{"Metric", "Value"},
		[][]string{
			{"Strategy", result.Strategy},
			{"Files analyzed", fmt.Sprintf("%d", result.Totals.FilesAnalyzed)},
			{"Definitions", fmt.Sprintf("%d", result.Totals.Definitions)},
			{"Unused definitions", fmt.Sprintf("%d", result.TotalUnused())},
			{"Unused files", fmt.Sprintf("%d", result.Totals.UnusedFiles)},
			{"Estimated savings", formatBytes(result.EstimatedSavings())},
		},
		nil, nil,
	))

	categories := []struct {
		title string
		defs  []models.Definition
	}{
		{"Unused Components", result.UnusedComponents},
		{"Unused Functions", result.UnusedFunctions},
		{"Unused Variables", result.UnusedVariables},
		{"Unused Imports", result.UnusedImports},
	}
	for _, cat := range categories {
		if len(cat.defs) == 0 {
			continue
		}
		report.Sections = append(report.Sections, definitionTable(cat.title, cat.defs, top))
	}

	if len(result.UnusedFiles) > 0 {
		rows := capRows(len(result.UnusedFiles), top)
		table := make([][]string, 0, rows)
		for _, f := range result.UnusedFiles[:rows] {
			table = append(table, []string{f.Path, formatBytes(f.Size)})
		}
		title := "Unused Files"
		if rows < len(result.UnusedFiles) {
			title = fmt.Sprintf("Unused Files (top %d of %d)", rows, len(result.UnusedFiles))
		}
		report.Sections = append(report.Sections, output.NewTable(
			title,
			[]string{"Path", "Size"},
			table,
			[]string{"Total savings", formatBytes(result.EstimatedSavings())},
			nil,
		))
	}

	if len(result.Warnings) > 0 {
		rows := make([][]string, 0, len(result.Warnings))
		for _, w := range result.Warnings {
			rows = append(rows, []string{w})
		}
		report.Sections = append(report.Sections, output.NewTable(
			"Warnings", []string{"Message"}, rows, nil, nil,
		))
	}

	return report
}

func definitionTable(title string, defs []models.Definition, top int) *output.Table {
	rows := capRows(len(defs), top)
	table := make([][]string, 0, rows)
	for _, d := range defs[:rows] {
		exported := ""
		if d.Exported {
			exported = "yes"
		}
		table = append(table, []string{
			d.Name,
			fmt.Sprintf("%s:%d", d.File, d.Line),
			exported,
		})
	}
	if rows < len(defs) {
		title = fmt.Sprintf("%s (top %d of %d)", title, rows, len(defs))
	}
	return output.NewTable(title, []string{"Name", "Location", "Exported"}, table, nil, nil)
}

func capRows(n, top int) int {
	if top > 0 && top < n {
		return top
	}
	return n
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
