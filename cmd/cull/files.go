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
)

func filesCmd() *cli.Command {
	return &cli.Command{
		Name:      "files",
		Usage:     "Report only files nothing imports",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "strategy",
				Aliases: []string{"s"},
				Usage:   "Analysis strategy: structural, lexical",
			},
			&cli.BoolFlag{
				Name:  "no-gitignore",
				Usage: "Do not honor .gitignore when discovering files",
			},
		},
		Action: runFiles,
	}
}

func runFiles(c *cli.Context) error {
	paths := getPaths(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if s := c.String("strategy"); s != "" {
		cfg.Analysis.Strategy = s
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
		tracker = progress.NewTracker("Scanning imports...", len(files))
		opts.OnProgress = func(string) { tracker.Tick() }
	}

	result, err := analyzer.New(opts).Analyze(files)
	if tracker != nil {
		tracker.FinishSuccess()
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
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

	rows := make([][]string, 0, len(result.UnusedFiles))
	for _, f := range result.UnusedFiles {
		rows = append(rows, []string{f.Path, formatBytes(f.Size)})
	}
	return formatter.Output(output.NewTable(
		fmt.Sprintf("Unused Files (%d of %d analyzed)", len(result.UnusedFiles), result.Totals.FilesAnalyzed),
		[]string{"Path", "Size"},
		rows,
		[]string{"Total savings", formatBytes(result.EstimatedSavings())},
		result.UnusedFiles,
	))
}
