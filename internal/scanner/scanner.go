package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/cullhq/cull/pkg/config"
	"github.com/cullhq/cull/pkg/parser"
)

// Scanner discovers analyzable source files under a root directory.
type Scanner struct {
	config   *config.Config
	matchers []gitignore.Matcher
}

// New creates a scanner from cfg, falling back to defaults when nil.
func New(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// findGitRoot walks upward from start looking for a .git directory.
// Returns empty string when not inside a repository.
func findGitRoot(start string) string {
	dir := start
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadGitignore reads every .gitignore under the enclosing repository and
// builds a matcher from the combined patterns.
func (s *Scanner) loadGitignore(root string) {
	if !s.config.Ignore.Gitignore {
		return
	}
	gitRoot := findGitRoot(root)
	if gitRoot == "" {
		return
	}
	fsys := osfs.New(gitRoot)
	if patterns, err := gitignore.ReadPatterns(fsys, nil); err == nil && len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}
}

// isIgnored checks path (relative to the scan root) against the configured
// glob patterns and any loaded .gitignore matchers.
func (s *Scanner) isIgnored(relPath string, isDir bool) bool {
	slashed := filepath.ToSlash(relPath)
	for _, pattern := range s.config.Ignore.Patterns {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
	}
	if len(s.matchers) == 0 {
		return false
	}
	parts := strings.Split(relPath, string(filepath.Separator))
	for _, m := range s.matchers {
		if m.Match(parts, isDir) {
			return true
		}
	}
	return false
}

// ScanDir walks root and returns every file with a recognized dialect,
// in walk order. Any walk error aborts the scan: an incomplete file set
// would silently change verdicts downstream.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if !info.IsDir() {
		if parser.DetectDialect(root) == parser.DialectUnknown {
			return nil, nil
		}
		return []string{root}, nil
	}

	s.loadGitignore(root)

	files := make([]string, 0, 256)
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			if relPath != "." && s.isIgnored(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if s.isIgnored(relPath, false) {
			return nil
		}
		if parser.DetectDialect(path) != parser.DialectUnknown {
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scan %s: %w", root, walkErr)
	}
	return files, nil
}

// ScanPaths expands a mixed list of files and directories into the flat
// file set to analyze. Explicit file arguments bypass ignore patterns.
func (s *Scanner) ScanPaths(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", p, err)
		}
		if info.IsDir() {
			found, err := s.ScanDir(p)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		if parser.DetectDialect(p) != parser.DialectUnknown {
			files = append(files, p)
		}
	}
	return files, nil
}
