package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for cull.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis"`

	// File ignore patterns
	Ignore IgnoreConfig `koanf:"ignore"`

	// Output settings
	Output OutputConfig `koanf:"output"`
}

// AnalysisConfig controls how the analyzer runs.
type AnalysisConfig struct {
	// Strategy selects the analysis engine: "structural" or "lexical".
	Strategy string `koanf:"strategy"`
	// Root anchors root-relative import spellings when checking whether
	// any file imports another. Empty means the scanned directory.
	Root string `koanf:"root"`
	// Files toggles the unused-file report.
	Files bool `koanf:"files"`
}

// IgnoreConfig defines file exclusion patterns.
type IgnoreConfig struct {
	Patterns  []string `koanf:"patterns"`
	Gitignore bool     `koanf:"gitignore"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format"` // text, json, markdown, toon
	Color  bool   `koanf:"color"`
	Top    int    `koanf:"top"` // cap per-category rows in text output; 0 = all
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Strategy: "structural",
			Files:    true,
		},
		Ignore: IgnoreConfig{
			Patterns: []string{
				"**/node_modules/**",
				"**/dist/**",
				"**/build/**",
				"**/.next/**",
				"**/coverage/**",
				"**/*.test.*",
				"**/*.spec.*",
				"**/*.stories.*",
				"**/*.d.ts",
				"**/*.min.js",
			},
			Gitignore: true,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
			Top:    20,
		},
	}
}

// Validate checks that enum-valued fields hold recognized values.
func (c *Config) Validate() error {
	switch c.Analysis.Strategy {
	case "structural", "lexical":
	default:
		return fmt.Errorf("invalid strategy %q (expected structural or lexical)", c.Analysis.Strategy)
	}
	switch c.Output.Format {
	case "text", "json", "markdown", "toon":
	default:
		return fmt.Errorf("invalid output format %q", c.Output.Format)
	}
	if c.Output.Top < 0 {
		return fmt.Errorf("output.top must be >= 0, got %d", c.Output.Top)
	}
	return nil
}

// Load loads configuration from a file, layered over defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault tries standard locations and falls back to defaults when no
// file exists. A found file that fails to parse or validate also falls back
// to defaults, with a warning describing the failure; it never aborts.
func LoadOrDefault() (*Config, []string) {
	configNames := []string{
		"cull.toml",
		"cull.yaml",
		"cull.yml",
		"cull.json",
		".cull.toml",
		".cull.yaml",
		".cull.yml",
		".cull.json",
	}
	searchDirs := []string{".", ".cull"}

	var warnings []string
	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			cfg, err := Load(path)
			if err == nil {
				return cfg, warnings
			}
			warnings = append(warnings, fmt.Sprintf("ignoring config %s: %v", path, err))
		}
	}
	return DefaultConfig(), warnings
}
