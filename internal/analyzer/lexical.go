package analyzer

import (
	"regexp"
	"strings"

	"github.com/cullhq/cull/pkg/models"
)

// Lexical is the pattern-matching strategy. It never builds a parse tree:
// layered regular-expression templates run over the raw text, with the same
// classification heuristics as the structural strategy.
type Lexical struct{}

// NewLexical creates the lexical strategy.
func NewLexical() *Lexical { return &Lexical{} }

// Name identifies the strategy in reports.
func (l *Lexical) Name() string { return "lexical" }

// Close satisfies the strategy interface; the lexical pass holds no resources.
func (l *Lexical) Close() {}

// Comment stripping is naive: the patterns do not respect string or regex
// literals that contain comment-like sequences. Documented limitation.
var (
	lineCommentRe  = regexp.MustCompile(`//[^\n]*`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

func stripComments(content string) string {
	content = lineCommentRe.ReplaceAllString(content, "")
	return blockCommentRe.ReplaceAllString(content, "")
}

// importStatementRe matches a whole import statement up to its module
// string, including multi-line named-import clauses.
var importStatementRe = regexp.MustCompile(`(?ms)^[ \t]*import\b[^'";]*?['"][^'"\n]*['"]`)

// Definition templates, ordered. Capture group 1 is always the bound name
// (group 2 for declarator forms prefixed by keywords).
var (
	funcDeclRe    = regexp.MustCompile(`(?m)^[ \t]*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s+([A-Za-z_$][\w$]*)`)
	arrowDeclRe   = regexp.MustCompile(`(?m)^[ \t]*(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)(?:\s*:[^=\n]*)?\s*=\s*(?:async\s*)?(?:\([^)\n]*\)|[A-Za-z_$][\w$]*)\s*=>`)
	funcExprRe    = regexp.MustCompile(`(?m)^[ \t]*(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*(?:async\s+)?function\b`)
	wrappedDeclRe = regexp.MustCompile(`(?m)^[ \t]*(?:export\s+)?const\s+([A-Z][\w$]*)\s*=\s*(?:React\.)?(?:memo|forwardRef)\s*\(`)
	classDeclRe   = regexp.MustCompile(`(?m)^[ \t]*(?:export\s+)?(?:default\s+)?class\s+([A-Z][\w$]*)\s+extends\s+(?:React\.)?(?:Pure)?Component\b`)
	varDeclRe     = regexp.MustCompile(`(?m)^[ \t]*(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)(?:\s*:[^=\n]*)?\s*=`)
)

// Import templates.
var (
	importDefaultRe   = regexp.MustCompile(`\bimport\s+([A-Za-z_$][\w$]*)\s*(?:,|from)`)
	importNamedRe     = regexp.MustCompile(`\bimport\b[^'";]*?\{([^}]*)\}[^'";]*?from`)
	importNamespaceRe = regexp.MustCompile(`\bimport\s*(?:[A-Za-z_$][\w$]*\s*,\s*)?\*\s*as\s+([A-Za-z_$][\w$]*)`)
	requireDeclRe     = regexp.MustCompile(`\b(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*require\s*\(`)
)

// Export templates for the exported-name set.
var exportedNameRes = []*regexp.Regexp{
	regexp.MustCompile(`\bexport\s+(?:default\s+)?(?:async\s+)?function\s+([A-Za-z_$][\w$]*)`),
	regexp.MustCompile(`\bexport\s+(?:default\s+)?class\s+([A-Za-z_$][\w$]*)`),
	regexp.MustCompile(`\bexport\s+(?:const|let|var)\s+([A-Za-z_$][\w$]*)`),
	regexp.MustCompile(`\bexport\s+default\s+([A-Za-z_$][\w$]*)\s*;?`),
}

var exportClauseRe = regexp.MustCompile(`\bexport\s*\{([^}]*)\}`)

// boundNameRe validates a whole identifier token.
var boundNameRe = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

// Usage battery: broad patterns applied over the whole comment-stripped
// text. Overlapping patterns may record the same physical usage under
// different context tags; downstream checks presence, not count.
var usagePatterns = []struct {
	re      *regexp.Regexp
	context models.UsageContext
}{
	{regexp.MustCompile(`<([A-Za-z_$][\w$]*)`), models.ContextJSX},
	{regexp.MustCompile(`\b([A-Za-z_$][\w$]*)\s*\(`), models.ContextCall},
	{regexp.MustCompile(`\.\.\.([A-Za-z_$][\w$]*)`), models.ContextSpread},
	{regexp.MustCompile(`[{,]\s*([A-Za-z_$][\w$]*)\s*[,}]`), models.ContextProperty},
	{regexp.MustCompile(`:\s*([A-Z][\w$]*)`), models.ContextType},
	{regexp.MustCompile(`\b([A-Za-z_$][\w$]*)\b`), models.ContextReference},
}

// AnalyzeFile applies the definition templates and the usage battery to one
// file's raw text, emitting definitions and recording usages in the index.
func (l *Lexical) AnalyzeFile(path string, content []byte, index *UsageIndex) (*fileContribution, error) {
	text := stripComments(string(content))
	contrib := &fileContribution{
		path:    path,
		exports: collectExportedNames(text),
	}

	seen := make(map[string]bool)
	add := func(name string, line uint32, kind models.DefinitionKind) {
		if IsBuiltinOrCommon(name) || seen[name] {
			return
		}
		seen[name] = true
		contrib.definitions = append(contrib.definitions, models.Definition{
			Name:     name,
			Kind:     kind,
			File:     path,
			Line:     line,
			Exported: contrib.exports[name],
		})
	}

	// Imports first: a name already bound by an import clause must not be
	// re-captured as a variable.
	for _, loc := range importStatementRe.FindAllStringIndex(text, -1) {
		stmt := text[loc[0]:loc[1]]
		line := lineAt(text, loc[0])
		if m := importDefaultRe.FindStringSubmatch(stmt); m != nil {
			add(m[1], line, models.KindImport)
		}
		if m := importNamespaceRe.FindStringSubmatch(stmt); m != nil {
			add(m[1], line, models.KindImport)
		}
		if m := importNamedRe.FindStringSubmatch(stmt); m != nil {
			for _, name := range splitBoundNames(m[1]) {
				add(name, line, models.KindImport)
			}
		}
	}
	for _, m := range requireDeclRe.FindAllStringSubmatchIndex(text, -1) {
		add(text[m[2]:m[3]], lineAt(text, m[0]), models.KindImport)
	}

	// Function-valued bindings: component vs function is the heuristic's call.
	for _, re := range []*regexp.Regexp{wrappedDeclRe, classDeclRe, funcDeclRe, arrowDeclRe, funcExprRe} {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			name := text[m[2]:m[3]]
			kind := models.KindFunction
			if IsLikelyComponent(name, text, path) {
				kind = models.KindComponent
			}
			add(name, lineAt(text, m[0]), kind)
		}
	}

	// Remaining top-level bindings are plain variables. The brace-depth
	// test approximates "declared outside any function body" and can
	// misfire across multi-line literals containing brace characters;
	// that is a documented limitation of the lexical strategy.
	for _, m := range varDeclRe.FindAllStringSubmatchIndex(text, -1) {
		if braceDepth(text[:m[0]]) > 0 {
			continue
		}
		add(text[m[2]:m[3]], lineAt(text, m[0]), models.KindVariable)
	}

	// Usage battery over the whole file.
	for _, p := range usagePatterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			name := text[m[2]:m[3]]
			if IsBuiltinOrCommon(name) {
				continue
			}
			index.Record(models.UsageOccurrence{
				Name:    name,
				File:    path,
				Line:    lineAt(text, m[2]),
				Context: p.context,
			})
		}
	}

	return contrib, nil
}

// braceDepth counts unmatched opening braces preceding an offset.
func braceDepth(prefix string) int {
	return strings.Count(prefix, "{") - strings.Count(prefix, "}")
}

// lineAt returns the 1-based line number of a byte offset.
func lineAt(text string, offset int) uint32 {
	if offset < 0 {
		return 1
	}
	if offset > len(text) {
		offset = len(text)
	}
	return uint32(strings.Count(text[:offset], "\n") + 1)
}

// splitBoundNames extracts the local names from a named import/export
// clause body (`a, b as c` yields a and c for imports; for exports the
// local name is the first token).
func splitBoundNames(clause string) []string {
	var names []string
	for _, part := range strings.Split(clause, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = strings.TrimPrefix(part, "type ")
		fields := strings.Fields(part)
		name := fields[0]
		if len(fields) == 3 && fields[1] == "as" {
			name = fields[2]
		}
		if boundNameRe.MatchString(name) {
			names = append(names, name)
		}
	}
	return names
}

// collectExportedNames builds the file's exported-name set. For brace
// export clauses the local name (left of `as`) is recorded, since that is
// the definition whose use is in question.
func collectExportedNames(text string) map[string]bool {
	exports := make(map[string]bool)
	for _, re := range exportedNameRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			exports[m[1]] = true
		}
	}
	for _, m := range exportClauseRe.FindAllStringSubmatch(text, -1) {
		for _, part := range strings.Split(m[1], ",") {
			fields := strings.Fields(strings.TrimSpace(part))
			if len(fields) > 0 && boundNameRe.MatchString(fields[0]) {
				exports[fields[0]] = true
			}
		}
	}
	return exports
}
