package analyzer

import (
	"testing"

	"github.com/cullhq/cull/pkg/models"
)

func TestUsageIndexUsedOutside(t *testing.T) {
	idx := NewUsageIndex()
	idx.Record(models.UsageOccurrence{Name: "fetchUser", File: "a.ts", Line: 3, Context: models.ContextCall})

	if idx.UsedOutside("fetchUser", "a.ts") {
		t.Error("usage only in the defining file should not count as outside use")
	}
	if !idx.UsedOutside("fetchUser", "b.ts") {
		t.Error("usage in a.ts is outside use for a definition in b.ts")
	}
	if idx.UsedOutside("neverSeen", "a.ts") {
		t.Error("unrecorded name should have no outside use")
	}

	idx.Record(models.UsageOccurrence{Name: "fetchUser", File: "c.ts", Line: 1, Context: models.ContextCall})
	if !idx.UsedOutside("fetchUser", "a.ts") {
		t.Error("second referencing file should flip outside use")
	}
}

func TestUsageIndexRejectsBuiltins(t *testing.T) {
	idx := NewUsageIndex()
	idx.Record(models.UsageOccurrence{Name: "useState", File: "a.ts", Line: 1})
	idx.Record(models.UsageOccurrence{Name: "div", File: "a.ts", Line: 1})

	if idx.HasAny("useState") || idx.HasAny("div") {
		t.Error("builtin names must never enter the index")
	}
}

func TestHasLocalReference(t *testing.T) {
	tests := []struct {
		name    string
		content string
		ident   string
		want    bool
	}{
		{
			name:    "declaration alone is not a reference",
			content: "function orphanHelper() {}\n",
			ident:   "orphanHelper",
			want:    false,
		},
		{
			name:    "call after declaration",
			content: "function greet() {}\ngreet();\n",
			ident:   "greet",
			want:    true,
		},
		{
			name:    "markup tag reference",
			content: "const Card = () => null\nconst page = <Card />\n",
			ident:   "Card",
			want:    true,
		},
		{
			name:    "import clause does not count",
			content: "import { helper } from './util'\n",
			ident:   "helper",
			want:    false,
		},
		{
			name:    "bare word reference",
			content: "const limit = 10\nconst double = limit * 2\n",
			ident:   "limit",
			want:    true,
		},
		{
			name:    "variable declaration alone",
			content: "const unusedLimit = 10\n",
			ident:   "unusedLimit",
			want:    false,
		},
		{
			name:    "function assigned by bare word",
			content: "function foo() { return 1 }\nexport const handler = foo\n",
			ident:   "foo",
			want:    true,
		},
		{
			name:    "function passed as callback",
			content: "function onTick() {}\nsetInterval(onTick, 1000)\n",
			ident:   "onTick",
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasLocalReference(tt.content, tt.ident); got != tt.want {
				t.Errorf("hasLocalReference(%q) = %v, want %v", tt.ident, got, tt.want)
			}
		})
	}
}

func TestDefaultExportOf(t *testing.T) {
	if !defaultExportOf("const Button = () => null\nexport default Button\n", "Button") {
		t.Error("literal default export should match")
	}
	if defaultExportOf("export default function Button() {}\n", "Button") {
		t.Error("inline default function declaration is not a re-export")
	}
}

func TestResolverRuleOrder(t *testing.T) {
	def := func(name, file string, exported bool) models.Definition {
		return models.Definition{Name: name, Kind: models.KindFunction, File: file, Line: 1, Exported: exported}
	}

	t.Run("cross-file usage wins", func(t *testing.T) {
		idx := NewUsageIndex()
		idx.Record(models.UsageOccurrence{Name: "shared", File: "b.ts", Line: 2, Context: models.ContextCall})
		r := &resolver{
			index:    idx,
			contents: map[string]string{"a.ts": "export function shared() {}\n"},
			exports:  map[string]map[string]bool{"a.ts": {"shared": true}},
		}
		if !r.isUsed(def("shared", "a.ts", true)) {
			t.Error("definition referenced from another file must be used")
		}
	})

	t.Run("intra-file reference", func(t *testing.T) {
		r := &resolver{
			index:    NewUsageIndex(),
			contents: map[string]string{"a.ts": "function local() {}\nlocal();\n"},
			exports:  map[string]map[string]bool{"a.ts": {}},
		}
		if !r.isUsed(def("local", "a.ts", false)) {
			t.Error("definition called in its own file must be used")
		}
	})

	t.Run("default export is an entry signal", func(t *testing.T) {
		r := &resolver{
			index:    NewUsageIndex(),
			contents: map[string]string{"a.ts": "const Root = () => null\nexport default Root\n"},
			exports:  map[string]map[string]bool{"a.ts": {"Root": true}},
		}
		if !r.isUsed(def("Root", "a.ts", true)) {
			t.Error("default-exported definition must be used")
		}
	})

	t.Run("exported with zero usages is unused", func(t *testing.T) {
		r := &resolver{
			index:    NewUsageIndex(),
			contents: map[string]string{"a.ts": "export function api() {}\n"},
			exports:  map[string]map[string]bool{"a.ts": {"api": true}},
		}
		if r.isUsed(def("api", "a.ts", true)) {
			t.Error("exported is not proof of use")
		}
	})

	t.Run("hook naming convention is assumed consumed", func(t *testing.T) {
		r := &resolver{
			index:    NewUsageIndex(),
			contents: map[string]string{"a.ts": "function useCart() {}\n"},
			exports:  map[string]map[string]bool{"a.ts": {}},
		}
		if !r.isUsed(def("useCart", "a.ts", false)) {
			t.Error("hook-named definition must be used")
		}
	})

	t.Run("no rule matches means unused", func(t *testing.T) {
		r := &resolver{
			index:    NewUsageIndex(),
			contents: map[string]string{"a.ts": "function orphan() {}\n"},
			exports:  map[string]map[string]bool{"a.ts": {}},
		}
		if r.isUsed(def("orphan", "a.ts", false)) {
			t.Error("definition with no signals must be unused")
		}
	})
}

// Adding usages can only move a verdict from unused to used, never the
// other way.
func TestResolverMonotonicity(t *testing.T) {
	d := models.Definition{Name: "calc", Kind: models.KindFunction, File: "a.ts", Line: 1}
	idx := NewUsageIndex()
	r := &resolver{
		index:    idx,
		contents: map[string]string{"a.ts": "function calc() {}\n"},
		exports:  map[string]map[string]bool{"a.ts": {}},
	}

	if r.isUsed(d) {
		t.Fatal("calc should start unused")
	}
	idx.Record(models.UsageOccurrence{Name: "calc", File: "b.ts", Line: 5, Context: models.ContextCall})
	if !r.isUsed(d) {
		t.Fatal("recorded usage should flip calc to used")
	}
	idx.Record(models.UsageOccurrence{Name: "calc", File: "c.ts", Line: 9, Context: models.ContextReference})
	if !r.isUsed(d) {
		t.Fatal("more usages must never flip used back to unused")
	}
}
