package analyzer

import (
	"fmt"
	"os"
	"sort"

	"github.com/cullhq/cull/pkg/models"
)

// fileContribution is what a single strategy pass over one file yields:
// the definitions it declares and the names it exports. Usage occurrences
// go straight into the shared index during the pass.
type fileContribution struct {
	path        string
	definitions []models.Definition
	exports     map[string]bool
}

// strategy is the per-file analysis contract. AnalyzeFile must record every
// usage occurrence it sees into index and return the file's definitions.
// Implementations are single-use per run and released with Close.
type strategy interface {
	Name() string
	AnalyzeFile(path string, content []byte, index *UsageIndex) (*fileContribution, error)
	Close()
}

// Options configure a run.
type Options struct {
	// Strategy selects the analysis strategy: "structural" or "lexical".
	Strategy string
	// SourceRoot anchors root-relative import spellings for the unused-file
	// detector. Empty disables root-relative candidates.
	SourceRoot string
	// OnProgress, when set, is invoked after each file completes.
	OnProgress func(path string)
}

// Analyzer runs one strategy over a file set and cross-references the
// results into an AnalysisResult.
type Analyzer struct {
	opts Options
}

// New returns an Analyzer for the given options.
func New(opts Options) *Analyzer {
	if opts.Strategy == "" {
		opts.Strategy = "structural"
	}
	return &Analyzer{opts: opts}
}

func (a *Analyzer) newStrategy() (strategy, error) {
	switch a.opts.Strategy {
	case "structural":
		return NewStructural(), nil
	case "lexical":
		return NewLexical(), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", a.opts.Strategy)
	}
}

// Analyze reads and analyzes files sequentially, then resolves every
// definition against the aggregated usage index. Per-file read and parse
// failures are recoverable: the file is skipped with a warning and the run
// continues. Running twice over the same inputs yields the same result.
func (a *Analyzer) Analyze(files []string) (*models.AnalysisResult, error) {
	strat, err := a.newStrategy()
	if err != nil {
		return nil, err
	}
	defer strat.Close()

	result := models.NewAnalysisResult(strat.Name())
	index := NewUsageIndex()
	contents := make(map[string]string, len(files))
	var contributions []*fileContribution

	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			result.Warnf("skipping %s: %v", path, err)
			if a.opts.OnProgress != nil {
				a.opts.OnProgress(path)
			}
			continue
		}
		contents[path] = string(content)

		contrib, err := strat.AnalyzeFile(path, content, index)
		if err != nil {
			result.Warnf("skipping %s: %v", path, err)
			if a.opts.OnProgress != nil {
				a.opts.OnProgress(path)
			}
			continue
		}
		contributions = append(contributions, contrib)
		if a.opts.OnProgress != nil {
			a.opts.OnProgress(path)
		}
	}

	res := &resolver{
		index:    index,
		contents: contents,
		exports:  make(map[string]map[string]bool, len(contributions)),
	}
	total := 0
	for _, c := range contributions {
		res.exports[c.path] = c.exports
		total += len(c.definitions)
	}
	result.Totals.Definitions = total
	result.Totals.FilesAnalyzed = len(contents)

	for _, c := range contributions {
		for _, def := range c.definitions {
			if !res.isUsed(def) {
				result.Add(def)
			}
		}
	}

	a.detectUnusedFiles(contents, result)
	result.SortFilesBySize()

	return result, nil
}

func (a *Analyzer) detectUnusedFiles(contents map[string]string, result *models.AnalysisResult) {
	paths := make([]string, 0, len(contents))
	for p := range contents {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if !fileUnused(path, contents, a.opts.SourceRoot) {
			continue
		}
		var size int64
		if info, err := os.Stat(path); err == nil {
			size = info.Size()
		} else {
			result.Warnf("stat %s: %v", path, err)
		}
		result.AddFile(models.UnusedFile{Path: path, Size: size})
	}
}

// Analyze runs a one-shot analysis of files with the named strategy.
func Analyze(files []string, strategyName string) (*models.AnalysisResult, error) {
	return New(Options{Strategy: strategyName}).Analyze(files)
}
