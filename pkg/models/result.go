package models

import (
	"fmt"
	"sort"

	"github.com/zeebo/blake3"
)

// DefinitionKind classifies a named declaration.
type DefinitionKind string

const (
	KindComponent DefinitionKind = "component"
	KindFunction  DefinitionKind = "function"
	KindVariable  DefinitionKind = "variable"
	KindImport    DefinitionKind = "import"
)

// UsageContext tags the syntactic position a name was referenced from.
type UsageContext string

const (
	ContextCall      UsageContext = "call"
	ContextJSX       UsageContext = "jsx"
	ContextReference UsageContext = "reference"
	ContextProperty  UsageContext = "property"
	ContextSpread    UsageContext = "spread"
	ContextType      UsageContext = "type"
)

// Definition is a named declaration located in exactly one file.
// Identity is (File, Name); the same name may be independently defined
// in multiple files.
type Definition struct {
	Name     string         `json:"name"`
	Kind     DefinitionKind `json:"kind"`
	File     string         `json:"file"`
	Line     uint32         `json:"line"`
	Exported bool           `json:"exported"`
}

// ContextHash returns a stable short identifier for the definition,
// used for dedup within a run and as a stable key in reports.
func (d Definition) ContextHash() string {
	sum := blake3.Sum256([]byte(fmt.Sprintf("%s:%s:%d:%s", d.Name, d.File, d.Line, d.Kind)))
	return fmt.Sprintf("%x", sum[:8])
}

// UsageOccurrence is a textual or structural reference to a name.
type UsageOccurrence struct {
	Name    string       `json:"name"`
	File    string       `json:"file"`
	Line    uint32       `json:"line"`
	Context UsageContext `json:"context"`
}

// UnusedFile is a file no other file appears to import.
type UnusedFile struct {
	Path string `json:"path"`
	Size int64  `json:"size"` // bytes; 0 when stat failed
}

// Totals carries aggregate counts for the run.
type Totals struct {
	FilesAnalyzed    int `json:"files_analyzed"`
	Definitions      int `json:"definitions"`
	UnusedComponents int `json:"unused_components"`
	UnusedFunctions  int `json:"unused_functions"`
	UnusedVariables  int `json:"unused_variables"`
	UnusedImports    int `json:"unused_imports"`
	UnusedFiles      int `json:"unused_files"`
}

// AnalysisResult is the merged report for one run. It is built fresh per
// run and never persisted.
type AnalysisResult struct {
	Strategy         string       `json:"strategy"`
	UnusedComponents []Definition `json:"unused_components"`
	UnusedFunctions  []Definition `json:"unused_functions"`
	UnusedVariables  []Definition `json:"unused_variables"`
	UnusedImports    []Definition `json:"unused_imports"`
	UnusedFiles      []UnusedFile `json:"unused_files"`
	FileMethod       string       `json:"file_method"` // always "import-spelling"
	Totals           Totals       `json:"totals"`
	Warnings         []string     `json:"warnings,omitempty"`
}

// NewAnalysisResult returns a result with initialized slices so JSON output
// renders empty arrays rather than null.
func NewAnalysisResult(strategy string) *AnalysisResult {
	return &AnalysisResult{
		Strategy:         strategy,
		UnusedComponents: make([]Definition, 0),
		UnusedFunctions:  make([]Definition, 0),
		UnusedVariables:  make([]Definition, 0),
		UnusedImports:    make([]Definition, 0),
		UnusedFiles:      make([]UnusedFile, 0),
		FileMethod:       "import-spelling",
	}
}

// Add routes a definition verdict into its category bucket.
func (r *AnalysisResult) Add(def Definition) {
	switch def.Kind {
	case KindComponent:
		r.UnusedComponents = append(r.UnusedComponents, def)
		r.Totals.UnusedComponents++
	case KindFunction:
		r.UnusedFunctions = append(r.UnusedFunctions, def)
		r.Totals.UnusedFunctions++
	case KindVariable:
		r.UnusedVariables = append(r.UnusedVariables, def)
		r.Totals.UnusedVariables++
	case KindImport:
		r.UnusedImports = append(r.UnusedImports, def)
		r.Totals.UnusedImports++
	}
}

// AddFile records an unused file verdict.
func (r *AnalysisResult) AddFile(f UnusedFile) {
	r.UnusedFiles = append(r.UnusedFiles, f)
	r.Totals.UnusedFiles++
}

// Warnf appends a formatted warning. Warnings mean the result may be partial.
func (r *AnalysisResult) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// TotalUnused returns the count of unused definitions across all categories.
func (r *AnalysisResult) TotalUnused() int {
	return r.Totals.UnusedComponents + r.Totals.UnusedFunctions +
		r.Totals.UnusedVariables + r.Totals.UnusedImports
}

// EstimatedSavings sums the sizes of unused files, in bytes. Definitions are
// not included; only whole files have a measurable size.
func (r *AnalysisResult) EstimatedSavings() int64 {
	var total int64
	for _, f := range r.UnusedFiles {
		total += f.Size
	}
	return total
}

// SortFilesBySize orders unused files largest first for presentation.
// Ordering affects display only, never verdicts.
func (r *AnalysisResult) SortFilesBySize() {
	sort.SliceStable(r.UnusedFiles, func(i, j int) bool {
		return r.UnusedFiles[i].Size > r.UnusedFiles[j].Size
	})
}
