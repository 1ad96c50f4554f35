package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stretchr/testify/require"
)

// reportSchema is the wire contract for a serialized result. Consumers that
// script against `--format json` rely on these fields and types.
const reportSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": [
    "strategy", "unused_components", "unused_functions", "unused_variables",
    "unused_imports", "unused_files", "file_method", "totals"
  ],
  "properties": {
    "strategy": {"enum": ["structural", "lexical"]},
    "unused_components": {"$ref": "#/$defs/definitions"},
    "unused_functions": {"$ref": "#/$defs/definitions"},
    "unused_variables": {"$ref": "#/$defs/definitions"},
    "unused_imports": {"$ref": "#/$defs/definitions"},
    "unused_files": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["path", "size"],
        "properties": {
          "path": {"type": "string"},
          "size": {"type": "integer", "minimum": 0}
        }
      }
    },
    "file_method": {"const": "import-spelling"},
    "totals": {
      "type": "object",
      "required": ["files_analyzed", "definitions"],
      "properties": {
        "files_analyzed": {"type": "integer", "minimum": 0},
        "definitions": {"type": "integer", "minimum": 0}
      }
    },
    "warnings": {"type": "array", "items": {"type": "string"}}
  },
  "$defs": {
    "definitions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "kind", "file", "line", "exported"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "kind": {"enum": ["component", "function", "variable", "import"]},
          "file": {"type": "string"},
          "line": {"type": "integer", "minimum": 1},
          "exported": {"type": "boolean"}
        }
      }
    }
  }
}`

func TestResultMatchesReportSchema(t *testing.T) {
	r := NewAnalysisResult("structural")
	r.Add(Definition{Name: "Button", Kind: KindComponent, File: "Button.tsx", Line: 1, Exported: true})
	r.Add(Definition{Name: "calc", Kind: KindFunction, File: "util.ts", Line: 7})
	r.AddFile(UnusedFile{Path: "orphan.ts", Size: 120})
	r.Totals.FilesAnalyzed = 3
	r.Totals.Definitions = 9
	r.Warnf("skipping bad.ts: unreadable")

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(reportSchema))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	require.NoError(t, compiler.AddResource("report.json", doc))
	schema, err := compiler.Compile("report.json")
	require.NoError(t, err)

	encoded, err := json.Marshal(r)
	require.NoError(t, err)
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	require.NoError(t, err)

	require.NoError(t, schema.Validate(instance))
}
