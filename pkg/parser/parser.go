// Package parser wraps tree-sitter for the script/markup dialects cull
// understands. The grammar is selected by file extension; markup-capable
// extensions get the TSX grammar so embedded tags parse as real nodes.
package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Dialect identifies the grammar used for a file.
type Dialect string

const (
	DialectJavaScript Dialect = "javascript"
	DialectTypeScript Dialect = "typescript"
	DialectTSX        Dialect = "tsx" // markup-capable
	DialectUnknown    Dialect = "unknown"
)

// Markup reports whether the dialect parses embedded markup tags.
func (d Dialect) Markup() bool {
	return d == DialectTSX
}

// Parser wraps a tree-sitter parser instance.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult contains the parsed tree and source metadata.
type ParseResult struct {
	Tree    *sitter.Tree
	Dialect Dialect
	Source  []byte
	Path    string
}

// New creates a parser.
func New() *Parser {
	return &Parser{parser: sitter.NewParser()}
}

// ParseFile reads and parses a source file.
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.Parse(source, path)
}

// Parse parses source with the grammar selected from the path's extension.
func (p *Parser) Parse(source []byte, path string) (*ParseResult, error) {
	dialect := DetectDialect(path)
	if dialect == DialectUnknown {
		return nil, fmt.Errorf("unsupported dialect for file: %s", path)
	}

	p.parser.SetLanguage(grammarFor(dialect))
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}

	return &ParseResult{
		Tree:    tree,
		Dialect: dialect,
		Source:  source,
		Path:    path,
	}, nil
}

func grammarFor(d Dialect) *sitter.Language {
	switch d {
	case DialectTypeScript:
		return typescript.GetLanguage()
	case DialectTSX:
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// DetectDialect determines the dialect from a file path. JSX files use the
// TSX grammar, which parses the same constructs cull cares about.
func DetectDialect(path string) Dialect {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return DialectTypeScript
	case ".tsx", ".jsx":
		return DialectTSX
	case ".js", ".mjs", ".cjs":
		return DialectJavaScript
	default:
		return DialectUnknown
	}
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// NodeVisitor visits tree nodes. Returning false prunes the subtree.
type NodeVisitor func(node *sitter.Node, source []byte) bool

// Walk traverses the tree in pre-order. Every node is visited once; the
// traversal follows Child(i) only, so parent back-references cannot cycle.
func Walk(node *sitter.Node, source []byte, visitor NodeVisitor) {
	if node == nil {
		return
	}
	if !visitor(node, source) {
		return
	}
	for i := range int(node.ChildCount()) {
		Walk(node.Child(i), source, visitor)
	}
}

// GetNodeText extracts the source text for a node. Returns empty string if
// node is nil or byte offsets are out of bounds.
func GetNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}

// Line returns the 1-based source line of a node.
func Line(node *sitter.Node) uint32 {
	return node.StartPoint().Row + 1
}
