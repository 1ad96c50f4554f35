package analyzer

import (
	"path/filepath"
	"regexp"
	"strings"
)

// builtinNames is the fixed table of framework/runtime/markup-tag/keyword
// identifiers that never appear in the model as definitions or usages.
// Immutable, process-lifetime.
var builtinNames = map[string]struct{}{}

func init() {
	groups := [][]string{
		// Language keywords and literals.
		{"abstract", "any", "as", "async", "await", "boolean", "break", "case",
			"catch", "class", "const", "continue", "debugger", "declare",
			"default", "delete", "do", "else", "enum", "export", "extends",
			"false", "finally", "for", "from", "function", "get", "if",
			"implements", "import", "in", "instanceof", "interface", "keyof",
			"let", "namespace", "never", "new", "null", "number", "object", "of",
			"private", "protected", "public", "readonly", "return", "satisfies",
			"set", "static", "string", "super", "switch", "this", "throw",
			"true", "try", "type", "typeof", "undefined", "unknown", "var",
			"void", "while", "with", "yield"},
		// Runtime globals.
		{"Array", "Boolean", "Date", "Error", "JSON", "Map", "Math", "Number",
			"Object", "Promise", "Proxy", "Reflect", "RegExp", "Set", "String",
			"Symbol", "WeakMap", "WeakSet", "console", "document", "fetch",
			"globalThis", "localStorage", "location", "module", "navigator",
			"process", "require", "sessionStorage", "setInterval", "setTimeout",
			"clearInterval", "clearTimeout", "window", "alert", "parseFloat",
			"parseInt", "isNaN", "encodeURIComponent", "decodeURIComponent",
			"structuredClone", "queueMicrotask", "URL", "URLSearchParams",
			"AbortController", "FormData", "Headers", "Request", "Response",
			"Infinity", "NaN", "arguments", "exports"},
		// Framework identifiers.
		{"React", "Component", "PureComponent", "Fragment", "StrictMode",
			"Suspense", "useState", "useEffect", "useContext", "useReducer",
			"useCallback", "useMemo", "useRef", "useImperativeHandle",
			"useLayoutEffect", "useDebugValue", "useId", "useTransition",
			"useDeferredValue", "useSyncExternalStore", "memo", "forwardRef",
			"createContext", "createElement", "createRef", "cloneElement",
			"lazy", "startTransition", "children", "props", "state", "key",
			"ref", "useRouter", "usePathname", "useSearchParams", "useParams"},
		// Markup tag names (lowercase tags parse as plain words under the
		// lexical strategy's broad patterns).
		{"a", "abbr", "address", "area", "article", "aside", "audio", "b",
			"base", "blockquote", "body", "br", "button", "canvas", "caption",
			"circle", "code", "col", "datalist", "dd", "details", "dialog",
			"div", "dl", "dt", "em", "embed", "fieldset", "figcaption",
			"figure", "footer", "form", "h1", "h2", "h3", "h4", "h5", "h6",
			"head", "header", "hr", "html", "i", "iframe", "img", "input",
			"label", "legend", "li", "link", "main", "mark", "meta", "nav",
			"noscript", "ol", "optgroup", "option", "output", "p", "path",
			"picture", "pre", "progress", "q", "rect", "script", "section",
			"select", "small", "source", "span", "strong", "style", "sub",
			"summary", "sup", "svg", "table", "tbody", "td", "template",
			"textarea", "tfoot", "th", "thead", "time", "title", "tr", "track",
			"u", "ul", "video", "wbr"},
	}
	for _, g := range groups {
		for _, name := range g {
			builtinNames[name] = struct{}{}
		}
	}
}

// IsBuiltinOrCommon reports whether a name is a known builtin identifier or
// matches the common-pattern test: pure digits, a single letter, or a
// non-identifier leading character. Such names are excluded from the model
// everywhere, in both strategies.
func IsBuiltinOrCommon(name string) bool {
	if name == "" {
		return true
	}
	if _, ok := builtinNames[name]; ok {
		return true
	}
	if len(name) == 1 {
		return true
	}
	c := name[0]
	if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '$') {
		return true
	}
	digitsOnly := true
	for i := 0; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			digitsOnly = false
			break
		}
	}
	return digitsOnly
}

var (
	hookNameRe        = regexp.MustCompile(`^use[A-Z]\w*$`)
	hookUsageRe       = regexp.MustCompile(`\buse[A-Z]\w*\s*\(`)
	returnsMarkupRe   = regexp.MustCompile(`return\s*(\(\s*)?<[A-Za-z>]`)
	markupAttrRe      = regexp.MustCompile(`\b(className|onClick|onChange|onSubmit|onKeyDown|onFocus|onBlur|htmlFor|dangerouslySetInnerHTML)\s*=`)
	wrapperRe         = regexp.MustCompile(`\b(React\.Fragment|React\.memo|memo\s*\(|forwardRef\s*\(|<>)`)
	clientDirectiveRe = regexp.MustCompile(`(?m)^\s*['"]use client['"]`)
)

// IsHookName reports whether a name follows the hook naming convention
// (the "use" prefix followed by a capitalized word).
func IsHookName(name string) bool {
	return hookNameRe.MatchString(name)
}

// IsLikelyComponent decides whether a defined name is a component rather
// than a plain function. A name that does not start with an uppercase
// letter is never a component, regardless of content.
func IsLikelyComponent(name, fileContent, filePath string) bool {
	if name == "" || name[0] < 'A' || name[0] > 'Z' {
		return false
	}
	if clientDirectiveRe.MatchString(fileContent) {
		return true
	}
	if IsEntryPoint(filePath) {
		return true
	}
	if returnsMarkupRe.MatchString(fileContent) {
		return true
	}
	if hookUsageRe.MatchString(fileContent) || markupAttrRe.MatchString(fileContent) ||
		wrapperRe.MatchString(fileContent) {
		return true
	}
	// Location is the weakest signal: an uppercase definition in a
	// conventional component directory counts even when no content
	// signal fires.
	return inComponentDir(filePath)
}

// entryBasenames are framework routing/lifecycle filenames whose presence
// alone makes a file an entry point.
var entryBasenames = map[string]struct{}{
	"page": {}, "layout": {}, "loading": {}, "error": {}, "not-found": {},
	"route": {}, "middleware": {}, "template": {}, "global-error": {},
	"default": {}, "_app": {}, "_document": {}, "_error": {}, "index": {},
}

var dynamicSegmentRe = regexp.MustCompile(`^\[.+\]$`)

// IsEntryPoint reports whether a file is a framework entry point by naming
// convention: a routing/lifecycle basename, or residence under a routing
// root (app/, pages/, including bracketed dynamic segments and api/).
func IsEntryPoint(filePath string) bool {
	base := filepath.Base(filePath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if _, ok := entryBasenames[name]; ok {
		return true
	}

	for _, seg := range strings.Split(filepath.ToSlash(filePath), "/") {
		switch seg {
		case "app", "pages", "api":
			return true
		}
		if dynamicSegmentRe.MatchString(seg) {
			return true
		}
	}
	return false
}

// componentDirs are directory names that conventionally hold components.
var componentDirs = map[string]struct{}{
	"components": {}, "component": {}, "ui": {}, "views": {}, "widgets": {},
}

func inComponentDir(filePath string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(filepath.Dir(filePath)), "/") {
		if _, ok := componentDirs[seg]; ok {
			return true
		}
	}
	return false
}
