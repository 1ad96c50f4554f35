package analyzer

import (
	"github.com/cullhq/cull/pkg/models"
	"github.com/cullhq/cull/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// Structural is the parse-based strategy: each file becomes a syntax tree
// (grammar selected by extension) walked exactly once. Unrecognized node
// kinds are descended through and otherwise ignored, so grammar additions
// cannot break the pass.
type Structural struct {
	parser *parser.Parser
}

// NewStructural creates the structural strategy.
func NewStructural() *Structural {
	return &Structural{parser: parser.New()}
}

// Name identifies the strategy in reports.
func (s *Structural) Name() string { return "structural" }

// Close releases the tree-sitter parser.
func (s *Structural) Close() {
	s.parser.Close()
}

// functionValued reports whether a declarator initializer is a function.
func functionValued(value *sitter.Node, source []byte) bool {
	if value == nil {
		return false
	}
	switch value.Type() {
	case "arrow_function", "function", "function_expression",
		"generator_function", "generator_function_expression":
		return true
	case "call_expression":
		// memo(...) / forwardRef(...) wrap a component function.
		switch parser.GetNodeText(value.ChildByFieldName("function"), source) {
		case "memo", "React.memo", "forwardRef", "React.forwardRef":
			return true
		}
	}
	return false
}

// AnalyzeFile parses one file and walks its tree, emitting definitions and
// recording usage occurrences in the index. A parse failure yields an error
// for the caller to degrade into an empty contribution.
func (s *Structural) AnalyzeFile(path string, content []byte, index *UsageIndex) (*fileContribution, error) {
	result, err := s.parser.Parse(content, path)
	if err != nil {
		return nil, err
	}

	text := string(content)
	contrib := &fileContribution{
		path:    path,
		exports: make(map[string]bool),
	}

	seen := make(map[string]bool)
	addDef := func(name string, node *sitter.Node, kind models.DefinitionKind) {
		if IsBuiltinOrCommon(name) || seen[name] {
			return
		}
		seen[name] = true
		contrib.definitions = append(contrib.definitions, models.Definition{
			Name: name,
			Kind: kind,
			File: path,
			Line: parser.Line(node),
		})
	}
	record := func(name string, node *sitter.Node, ctx models.UsageContext) {
		if IsBuiltinOrCommon(name) {
			return
		}
		index.Record(models.UsageOccurrence{
			Name:    name,
			File:    path,
			Line:    parser.Line(node),
			Context: ctx,
		})
	}
	classify := func(name string) models.DefinitionKind {
		if IsLikelyComponent(name, text, path) {
			return models.KindComponent
		}
		return models.KindFunction
	}

	parser.Walk(result.Tree.RootNode(), result.Source, func(node *sitter.Node, source []byte) bool {
		switch node.Type() {
		case "import_statement":
			for _, name := range importBoundNames(node, source) {
				addDef(name, node, models.KindImport)
			}
			return false // bound names handled; nothing below is a usage

		case "export_statement":
			s.collectExports(node, source, contrib.exports)
			return true // unwrap: keep walking into the declaration

		case "variable_declarator":
			if name := node.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
				value := node.ChildByFieldName("value")
				if functionValued(value, source) {
					addDef(parser.GetNodeText(name, source), name, classify(parser.GetNodeText(name, source)))
				} else {
					addDef(parser.GetNodeText(name, source), name, models.KindVariable)
				}
			}
			return true

		case "function_declaration", "generator_function_declaration":
			if name := node.ChildByFieldName("name"); name != nil {
				addDef(parser.GetNodeText(name, source), name, classify(parser.GetNodeText(name, source)))
			}
			return true

		case "class_declaration":
			if name := node.ChildByFieldName("name"); name != nil {
				addDef(parser.GetNodeText(name, source), name, classify(parser.GetNodeText(name, source)))
			}
			return true

		case "identifier":
			if ctx, ok := identifierContext(node); ok {
				record(parser.GetNodeText(node, source), node, ctx)
			}
			return true

		case "shorthand_property_identifier":
			record(parser.GetNodeText(node, source), node, models.ContextProperty)
			return true

		case "type_identifier":
			record(parser.GetNodeText(node, source), node, models.ContextType)
			return true

		case "property_identifier":
			// Attribute names on markup elements are usages; member
			// properties and object keys are not.
			if p := node.Parent(); p != nil && p.Type() == "jsx_attribute" {
				record(parser.GetNodeText(node, source), node, models.ContextJSX)
			}
			return true
		}
		return true
	})

	// Exported flags are only known once the whole tree has been walked.
	for i := range contrib.definitions {
		if contrib.exports[contrib.definitions[i].Name] {
			contrib.definitions[i].Exported = true
		}
	}
	return contrib, nil
}

// identifierContext decides whether an identifier node is a usage and with
// which context tag. Declaration-name positions are not usages.
func identifierContext(node *sitter.Node) (models.UsageContext, bool) {
	parent := node.Parent()
	if parent == nil {
		return models.ContextReference, true
	}
	switch parent.Type() {
	case "function_declaration", "generator_function_declaration",
		"class_declaration", "method_definition":
		if sameNode(parent.ChildByFieldName("name"), node) {
			return "", false
		}
	case "variable_declarator":
		if sameNode(parent.ChildByFieldName("name"), node) {
			return "", false
		}
	case "import_specifier", "namespace_import", "import_clause":
		return "", false
	case "export_specifier":
		return "", false
	case "formal_parameters", "required_parameter", "optional_parameter":
		return "", false
	case "arrow_function":
		// Single unparenthesized parameter, e.g. `x => x + 1`.
		if sameNode(parent.ChildByFieldName("parameter"), node) {
			return "", false
		}
	case "call_expression":
		if sameNode(parent.ChildByFieldName("function"), node) {
			return models.ContextCall, true
		}
	case "member_expression":
		if sameNode(parent.ChildByFieldName("object"), node) {
			return models.ContextReference, true
		}
		return "", false // member property
	case "jsx_opening_element", "jsx_self_closing_element", "jsx_closing_element":
		return models.ContextJSX, true
	case "spread_element":
		return models.ContextSpread, true
	case "pair":
		if sameNode(parent.ChildByFieldName("key"), node) {
			return "", false
		}
	}
	return models.ContextReference, true
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}

// importBoundNames collects the local names an import statement binds:
// default imports, namespace imports, and named specifiers (the alias when
// one is present).
func importBoundNames(node *sitter.Node, source []byte) []string {
	var names []string
	parser.Walk(node, source, func(n *sitter.Node, src []byte) bool {
		switch n.Type() {
		case "import_clause":
			for i := range int(n.ChildCount()) {
				if c := n.Child(i); c.Type() == "identifier" {
					names = append(names, parser.GetNodeText(c, src))
				}
			}
		case "namespace_import":
			for i := range int(n.ChildCount()) {
				if c := n.Child(i); c.Type() == "identifier" {
					names = append(names, parser.GetNodeText(c, src))
				}
			}
			return false
		case "import_specifier":
			bound := n.ChildByFieldName("alias")
			if bound == nil {
				bound = n.ChildByFieldName("name")
			}
			if bound != nil {
				names = append(names, parser.GetNodeText(bound, src))
			}
			return false
		}
		return true
	})
	return names
}

// collectExports records the names an export statement introduces: wrapped
// declarations (named or default) and export-clause specifiers (the local
// name, which is the definition whose use is in question).
func (s *Structural) collectExports(node *sitter.Node, source []byte, exports map[string]bool) {
	if decl := node.ChildByFieldName("declaration"); decl != nil {
		switch decl.Type() {
		case "function_declaration", "generator_function_declaration", "class_declaration":
			if name := decl.ChildByFieldName("name"); name != nil {
				exports[parser.GetNodeText(name, source)] = true
			}
		case "lexical_declaration", "variable_declaration":
			parser.Walk(decl, source, func(n *sitter.Node, src []byte) bool {
				if n.Type() == "variable_declarator" {
					if name := n.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
						exports[parser.GetNodeText(name, src)] = true
					}
					return false
				}
				return true
			})
		}
	}
	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		switch child.Type() {
		case "export_clause":
			parser.Walk(child, source, func(n *sitter.Node, src []byte) bool {
				if n.Type() == "export_specifier" {
					if name := n.ChildByFieldName("name"); name != nil {
						exports[parser.GetNodeText(name, src)] = true
					}
					return false
				}
				return true
			})
		case "identifier":
			// `export default Name`
			exports[parser.GetNodeText(child, source)] = true
		}
	}
}
