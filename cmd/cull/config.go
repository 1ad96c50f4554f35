package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/cullhq/cull/pkg/config"
)

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Subcommands: []*cli.Command{
			{
				Name:   "validate",
				Usage:  "Validate a configuration file",
				Action: runConfigValidate,
			},
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: runConfigShow,
			},
		},
	}
}

// findConfigPath locates the config file the loader would pick up.
func findConfigPath() string {
	names := []string{
		"cull.toml", "cull.yaml", "cull.yml", "cull.json",
		".cull.toml", ".cull.yaml", ".cull.yml", ".cull.json",
	}
	for _, dir := range []string{".", ".cull"} {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

func runConfigValidate(c *cli.Context) error {
	path := c.String("config")
	if path == "" {
		path = findConfigPath()
	}
	if path == "" {
		color.Yellow("No config file found. Default configuration is valid.")
		return nil
	}

	if _, err := config.Load(path); err != nil {
		color.Red("Configuration validation failed:")
		fmt.Printf("  - %s\n", err)
		return err
	}
	color.Green("Configuration valid: %s", path)
	return nil
}

func runConfigShow(c *cli.Context) error {
	path := c.String("config")
	if path == "" {
		path = findConfigPath()
	}

	var cfg *config.Config
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
		fmt.Printf("# Configuration from: %s\n\n", path)
	} else {
		cfg = config.DefaultConfig()
		fmt.Println("# Default configuration (no config file found)")
	}

	content, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Print(string(content))
	return nil
}
