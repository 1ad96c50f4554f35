package analyzer

import "testing"

func TestIsBuiltinOrCommon(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"useState", true},
		{"React", true},
		{"div", true},
		{"console", true},
		{"import", true},
		{"", true},
		{"x", true},    // single character
		{"42", true},   // digits only
		{"1abc", true}, // non-identifier lead
		{"-foo", true}, // non-identifier lead
		{"myHelper", false},
		{"Button", false},
		{"useCart", false},
		{"_private", false},
		{"$scope", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBuiltinOrCommon(tt.name); got != tt.want {
				t.Errorf("IsBuiltinOrCommon(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestIsHookName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"useCart", true},
		{"useFetchData", true},
		{"use", false},
		{"user", false},
		{"useless", false},
		{"Used", false},
		{"myUseThing", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHookName(tt.name); got != tt.want {
				t.Errorf("IsHookName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestIsLikelyComponent(t *testing.T) {
	tests := []struct {
		name    string
		defName string
		content string
		path    string
		want    bool
	}{
		{
			name:    "lowercase name never a component",
			defName: "helper",
			content: `'use client'
function helper() { return <div className="x" /> }`,
			path: "src/components/helper.tsx",
			want: false,
		},
		{
			name:    "client directive",
			defName: "Widget",
			content: "'use client'\nconst Widget = () => null",
			path:    "src/widget.tsx",
			want:    true,
		},
		{
			name:    "returns markup",
			defName: "Card",
			content: "function Card() {\n  return <div>hi</div>\n}",
			path:    "src/card.tsx",
			want:    true,
		},
		{
			name:    "markup attribute",
			defName: "Button",
			content: `const Button = () => createElement("button", { className: "b" })
const el = <button className="b" onClick={fn} />`,
			path: "src/button.tsx",
			want: true,
		},
		{
			name:    "hook usage in file",
			defName: "Counter",
			content: "const Counter = () => {\n  const [n, setN] = useState(0)\n  return null\n}",
			path:    "src/counter.tsx",
			want:    true,
		},
		{
			name:    "memo wrapper",
			defName: "List",
			content: "const List = memo(function list(props) { return null })",
			path:    "src/list.tsx",
			want:    true,
		},
		{
			name:    "plain uppercase function with no component signals",
			defName: "ParseInput",
			content: "function ParseInput(s) { return s.trim() }",
			path:    "src/util.ts",
			want:    false,
		},
		{
			name:    "component directory alone is a weak signal",
			defName: "Avatar",
			content: "export const Avatar = makeAvatar(baseStyles)",
			path:    "src/components/Avatar.tsx",
			want:    true,
		},
		{
			name:    "same content outside a component directory",
			defName: "Avatar",
			content: "export const Avatar = makeAvatar(baseStyles)",
			path:    "src/graph/Avatar.ts",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLikelyComponent(tt.defName, tt.content, tt.path); got != tt.want {
				t.Errorf("IsLikelyComponent(%q) = %v, want %v", tt.defName, got, tt.want)
			}
		})
	}
}

func TestIsEntryPoint(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"src/app/page.tsx", true},
		{"src/app/dashboard/layout.ts", true},
		{"app/api/users/route.ts", true},
		{"middleware.ts", true},
		{"pages/_app.tsx", true},
		{"pages/_document.tsx", true},
		{"src/index.ts", true},
		{"app/blog/[slug]/view.tsx", true}, // dynamic segment
		{"src/loading.tsx", true},
		{"src/not-found.tsx", true},
		{"src/utils/math.ts", false},
		{"src/components/Button.tsx", false},
		{"src/appointments/list.ts", false}, // "appointments" is not "app"
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsEntryPoint(tt.path); got != tt.want {
				t.Errorf("IsEntryPoint(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
