package analyzer

import (
	"path/filepath"
	"regexp"
	"strings"
)

// The unused-file detector is independent of the usage index: it works on
// raw text only, asking whether any other file spells out an import of this
// one. The conjunction of exemptions is deliberately conservative, biased
// toward missing unused files over flagging live ones.

// rootBasenames are conventional module roots never reported unused.
var rootBasenames = map[string]struct{}{
	"index": {}, "main": {}, "root": {}, "app": {}, "server": {}, "client": {},
}

// libraryDirs are conventional directories whose files are consumed in ways
// plain import spelling cannot prove.
var libraryDirs = map[string]struct{}{
	"lib": {}, "libs": {}, "hooks": {}, "services": {}, "components": {},
	"utils": {}, "helpers": {},
}

var configBasenameRe = regexp.MustCompile(`(?i)(config|setup|settings|\brc$|\.config$)`)

// exportKeywordRe detects any export-introducing keyword in a file's text.
var exportKeywordRe = regexp.MustCompile(`\bexport\b|\bmodule\.exports\b|\bexports\.`)

// importSpellings synthesizes the plausible import-path spellings another
// file might use to reference path: relative-from-self forms (with and
// without extension, with and without the leading ./), source-root-relative
// forms, and bare basename forms.
func importSpellings(path, otherPath, sourceRoot string) []string {
	var candidates []string
	add := func(spec string) {
		if spec == "" {
			return
		}
		spec = filepath.ToSlash(spec)
		candidates = append(candidates, spec)
		if ext := filepath.Ext(spec); ext != "" {
			candidates = append(candidates, strings.TrimSuffix(spec, ext))
		}
	}

	if rel, err := filepath.Rel(filepath.Dir(otherPath), path); err == nil {
		add(rel)
		if !strings.HasPrefix(filepath.ToSlash(rel), ".") {
			add("./" + filepath.ToSlash(rel))
		}
	}
	if sourceRoot != "" {
		if rel, err := filepath.Rel(sourceRoot, path); err == nil && !strings.HasPrefix(rel, "..") {
			add(rel)
			add("@/" + filepath.ToSlash(rel))
		}
	}
	add(filepath.Base(path))

	return candidates
}

// importedBy reports whether content contains an import-from-string shaped
// reference using any candidate spelling. First match short-circuits.
func importedBy(content string, candidates []string) bool {
	for _, spec := range candidates {
		for _, quoted := range []string{"'" + spec + "'", `"` + spec + `"`} {
			if strings.Contains(content, "from "+quoted) ||
				strings.Contains(content, "from"+quoted) ||
				strings.Contains(content, "require("+quoted) ||
				strings.Contains(content, "import("+quoted) ||
				strings.Contains(content, "import "+quoted) {
				return true
			}
		}
	}
	return false
}

// isConfigLike reports whether a basename looks like a configuration or
// setup module.
func isConfigLike(base string) bool {
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return configBasenameRe.MatchString(name)
}

// inLibraryDir reports whether any directory segment of path is a
// conventional library/hook/service/component directory.
func inLibraryDir(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(filepath.Dir(path)), "/") {
		if _, ok := libraryDirs[seg]; ok {
			return true
		}
	}
	return false
}

// fileUnused decides file-level unused status for path. contents maps every
// file in the set to its raw text. All exemption conditions must hold for a
// file to be reported.
func fileUnused(path string, contents map[string]string, sourceRoot string) bool {
	for other, text := range contents {
		if other == path {
			continue
		}
		if importedBy(text, importSpellings(path, other, sourceRoot)) {
			return false
		}
	}

	if IsEntryPoint(path) {
		return false
	}
	if exportKeywordRe.MatchString(contents[path]) {
		return false
	}
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if _, ok := rootBasenames[name]; ok {
		return false
	}
	if isConfigLike(base) {
		return false
	}
	if inLibraryDir(path) {
		return false
	}
	return true
}
