package analyzer

import (
	"regexp"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cullhq/cull/pkg/models"
)

// UsageIndex aggregates usage occurrences from whichever strategy ran,
// keyed by name. Occurrence order follows file-discovery order; it matters
// only for report truncation, never for verdicts. A Roaring bitmap of
// referencing-file IDs backs the cross-file test.
type UsageIndex struct {
	occurrences map[string][]models.UsageOccurrence
	fileBits    map[string]*roaring.Bitmap
	fileIDs     map[string]uint32
	nextFileID  uint32
}

// NewUsageIndex creates an empty index.
func NewUsageIndex() *UsageIndex {
	return &UsageIndex{
		occurrences: make(map[string][]models.UsageOccurrence),
		fileBits:    make(map[string]*roaring.Bitmap),
		fileIDs:     make(map[string]uint32),
	}
}

func (idx *UsageIndex) fileID(path string) uint32 {
	if id, ok := idx.fileIDs[path]; ok {
		return id
	}
	id := idx.nextFileID
	idx.fileIDs[path] = id
	idx.nextFileID++
	return id
}

// Record adds a usage occurrence. Builtin/common names are rejected here as
// a last line of defense; strategies filter earlier.
func (idx *UsageIndex) Record(occ models.UsageOccurrence) {
	if IsBuiltinOrCommon(occ.Name) {
		return
	}
	idx.occurrences[occ.Name] = append(idx.occurrences[occ.Name], occ)
	bits, ok := idx.fileBits[occ.Name]
	if !ok {
		bits = roaring.New()
		idx.fileBits[occ.Name] = bits
	}
	bits.Add(idx.fileID(occ.File))
}

// Occurrences returns the recorded occurrences for a name in discovery order.
func (idx *UsageIndex) Occurrences(name string) []models.UsageOccurrence {
	return idx.occurrences[name]
}

// UsedOutside reports whether any usage of name was recorded in a file
// other than the given one.
func (idx *UsageIndex) UsedOutside(name, definingFile string) bool {
	bits, ok := idx.fileBits[name]
	if !ok {
		return false
	}
	defID, seen := idx.fileIDs[definingFile]
	if !seen {
		return !bits.IsEmpty()
	}
	if bits.Contains(defID) {
		return bits.GetCardinality() > 1
	}
	return !bits.IsEmpty()
}

// HasAny reports whether any usage of name was recorded anywhere.
func (idx *UsageIndex) HasAny(name string) bool {
	return len(idx.occurrences[name]) > 0
}

// hasLocalReference checks the defining file's own raw text for a call-style
// reference, a markup-tag reference, or a bare-word boundary match of the
// name, discounting the declaration site itself and import clauses so a
// definition with no real local use does not count itself.
func hasLocalReference(content, name string) bool {
	quoted := regexp.QuoteMeta(name)
	stripped := importStatementRe.ReplaceAllString(content, "")

	// Markup-tag reference: declarations never look like tags.
	if regexp.MustCompile(`<` + quoted + `[\s/>]`).MatchString(stripped) {
		return true
	}

	// Call-style reference, minus the declaration's own parameter list.
	calls := len(regexp.MustCompile(`\b`+quoted+`\s*\(`).FindAllString(stripped, -1))
	declCalls := len(regexp.MustCompile(`\bfunction\s+`+quoted+`\s*\(`).FindAllString(stripped, -1))
	if calls > declCalls {
		return true
	}

	// Bare-word boundary, minus declaration-site matches. Function
	// declarations already count toward decls, so declCalls must not be
	// subtracted again here.
	words := len(regexp.MustCompile(`\b`+quoted+`\b`).FindAllString(stripped, -1))
	decls := len(regexp.MustCompile(`\b(?:function|class|const|let|var)\s+`+quoted+`\b`).FindAllString(stripped, -1))
	decls += len(regexp.MustCompile(`\bas\s+`+quoted+`\b`).FindAllString(stripped, -1))
	return words > decls
}

// defaultExportOf reports whether the file contains a literal
// default-export-of-this-name statement (`export default Name`). An inline
// `export default function Name` does not match; that is a declaration,
// not a re-export, and scenario-level behavior depends on the distinction.
func defaultExportOf(content, name string) bool {
	return regexp.MustCompile(`\bexport\s+default\s+` + regexp.QuoteMeta(name) + `\b`).MatchString(content)
}

// resolver applies the ordered cross-reference rules to one definition.
// First match wins.
type resolver struct {
	index    *UsageIndex
	contents map[string]string          // path -> raw text
	exports  map[string]map[string]bool // path -> exported names
}

// isUsed returns the used/unused verdict for a definition.
func (r *resolver) isUsed(def models.Definition) bool {
	// 1. Usage recorded in any other file.
	if r.index.UsedOutside(def.Name, def.File) {
		return true
	}

	content := r.contents[def.File]

	// 2. Intra-file reference in the defining file's raw text. Covers
	// usages the strategy's global pass may have missed.
	if hasLocalReference(content, def.Name) {
		return true
	}

	// 3. Literal `export default Name` is an entry-point signal.
	if defaultExportOf(content, def.Name) {
		return true
	}

	// 4. Exported with zero recorded usages anywhere: NOT used. Being
	// exported is insufficient proof of use; external consumption is out
	// of scope to verify.
	if exp := r.exports[def.File]; exp != nil && exp[def.Name] && !r.index.HasAny(def.Name) {
		return false
	}

	// 5. Custom hooks are assumed consumed even without a detected call site.
	if IsHookName(def.Name) {
		return true
	}

	return false
}
