package parser

import (
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
)

func TestDetectDialect(t *testing.T) {
	tests := []struct {
		path string
		want Dialect
	}{
		{"app.js", DialectJavaScript},
		{"worker.mjs", DialectJavaScript},
		{"legacy.cjs", DialectJavaScript},
		{"service.ts", DialectTypeScript},
		{"service.mts", DialectTypeScript},
		{"service.cts", DialectTypeScript},
		{"Button.tsx", DialectTSX},
		{"Button.jsx", DialectTSX},
		{"README.md", DialectUnknown},
		{"main.go", DialectUnknown},
		{"noext", DialectUnknown},
		{"UPPER.TS", DialectTypeScript},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := DetectDialect(tt.path); got != tt.want {
				t.Errorf("DetectDialect(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestDialectMarkup(t *testing.T) {
	if !DialectTSX.Markup() {
		t.Error("TSX should be markup-capable")
	}
	if DialectTypeScript.Markup() || DialectJavaScript.Markup() {
		t.Error("non-TSX dialects are not markup-capable")
	}
}

func TestParse(t *testing.T) {
	p := New()
	defer p.Close()

	result, err := p.Parse([]byte("const answer = 42\n"), "a.ts")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if result.Dialect != DialectTypeScript {
		t.Errorf("Dialect = %q, want typescript", result.Dialect)
	}
	if result.Tree.RootNode().Type() != "program" {
		t.Errorf("root node = %q, want program", result.Tree.RootNode().Type())
	}

	if _, err := p.Parse([]byte("x"), "notes.txt"); err == nil {
		t.Error("unsupported extension should fail")
	}
}

func TestWalkPrunes(t *testing.T) {
	p := New()
	defer p.Close()

	source := []byte("function outer() { const innerValue = 1 }\n")
	result, err := p.Parse(source, "a.js")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	sawInner := false
	Walk(result.Tree.RootNode(), source, func(node *sitter.Node, src []byte) bool {
		if GetNodeText(node, src) == "innerValue" {
			sawInner = true
		}
		return node.Type() != "function_declaration"
	})
	if sawInner {
		t.Error("returning false should prune the subtree")
	}
}

func TestGetNodeText(t *testing.T) {
	if got := GetNodeText(nil, []byte("abc")); got != "" {
		t.Errorf("nil node text = %q, want empty", got)
	}
}
