package analyzer

import (
	"testing"

	"github.com/cullhq/cull/pkg/models"
)

func structuralContrib(t *testing.T, path, content string) (*fileContribution, *UsageIndex) {
	t.Helper()
	s := NewStructural()
	defer s.Close()
	index := NewUsageIndex()

	contrib, err := s.AnalyzeFile(path, []byte(content), index)
	if err != nil {
		t.Fatalf("AnalyzeFile() error = %v", err)
	}
	return contrib, index
}

func TestStructuralDefinitions(t *testing.T) {
	content := `import defaultThing from './default'
import { helperFn as localFn } from './named'
import * as everything from './namespace'

function plainWork() {}
const makeThing = () => 42
const TOP_LIMIT = 10
const Wrapped = memo(function inner() { return null })

export function publicApi() {}
export default function Widget() {
  return <div className="w">{makeThing()}</div>
}
`

	contrib, index := structuralContrib(t, "src/widget.tsx", content)

	kinds := make(map[string]models.DefinitionKind)
	exported := make(map[string]bool)
	for _, d := range contrib.definitions {
		kinds[d.Name] = d.Kind
		exported[d.Name] = d.Exported
	}

	wantKinds := map[string]models.DefinitionKind{
		"defaultThing": models.KindImport,
		"localFn":      models.KindImport,
		"everything":   models.KindImport,
		"plainWork":    models.KindFunction,
		"makeThing":    models.KindFunction,
		"TOP_LIMIT":    models.KindVariable,
		"Wrapped":      models.KindComponent,
		"publicApi":    models.KindFunction,
		"Widget":       models.KindComponent,
	}
	for name, kind := range wantKinds {
		if kinds[name] != kind {
			t.Errorf("definition %q kind = %q, want %q", name, kinds[name], kind)
		}
	}

	if !exported["publicApi"] || !exported["Widget"] {
		t.Error("export statements should mark their declarations exported")
	}
	if exported["plainWork"] {
		t.Error("plainWork is not exported")
	}

	if !index.HasAny("makeThing") {
		t.Error("call inside markup expression should be recorded as a usage")
	}
}

func TestStructuralDeclarationNamesAreNotUsages(t *testing.T) {
	_, index := structuralContrib(t, "a.ts", "function soloHelper() {}\nconst soloValue = 1\n")

	if index.HasAny("soloHelper") {
		t.Error("a function declaration name is not a usage")
	}
	if index.HasAny("soloValue") {
		t.Error("a declarator name is not a usage")
	}
}

func TestStructuralBareArrowParameterIsNotAUsage(t *testing.T) {
	_, index := structuralContrib(t, "a.ts",
		"const flags = xs.map(item => true)\n")

	if index.HasAny("item") {
		t.Error("an unparenthesized arrow parameter is a declaration, not a usage")
	}
}

func TestStructuralUsageContexts(t *testing.T) {
	content := `import { Panel, fetchData, options, makeList } from './lib'

export function Page() {
  const rows = makeList(...options)
  fetchData()
  return <Panel rows={rows} />
}
`
	_, index := structuralContrib(t, "src/page.tsx", content)

	wantContexts := map[string]models.UsageContext{
		"fetchData": models.ContextCall,
		"Panel":     models.ContextJSX,
		"options":   models.ContextSpread,
	}
	for name, want := range wantContexts {
		occs := index.Occurrences(name)
		if len(occs) == 0 {
			t.Errorf("no usage recorded for %q", name)
			continue
		}
		found := false
		for _, o := range occs {
			if o.Context == want {
				found = true
			}
		}
		if !found {
			t.Errorf("usage of %q missing context %q in %v", name, want, occs)
		}
	}
}

func TestStructuralExportClause(t *testing.T) {
	contrib, _ := structuralContrib(t, "a.ts",
		"const first = 1\nconst second = 2\nexport { first, second as renamed }\n")

	if !contrib.exports["first"] {
		t.Error("export clause member should be exported")
	}
	if !contrib.exports["second"] {
		t.Error("the local name, not the alias, is the exported definition")
	}
}

func TestStructuralParseErrorSurfaces(t *testing.T) {
	s := NewStructural()
	defer s.Close()

	_, err := s.AnalyzeFile("notes.txt", []byte("just text"), NewUsageIndex())
	if err == nil {
		t.Fatal("unsupported extension should return an error")
	}
}
