package syntax

import (
	"testing"
)

func TestDestructuredNames(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    []string
		notWant []string
	}{
		{
			name: "array pattern with rest",
			src:  "const [first, ...rest] = items;",
			want: []string{"first", "rest"},
		},
		{
			name:    "object pattern",
			src:     "const {name, count: total, opts = {}} = cfg;",
			want:    []string{"name", "total", "opts"},
			notWant: []string{"count", "cfg"},
		},
		{
			name: "nested patterns in parameters",
			src:  "function f({items: [a, b = 1]}, ...args) {}",
			want: []string{"a", "b", "args"},
		},
		{
			name:    "computed key binds value only",
			src:     "const {[key]: value} = map;",
			want:    []string{"value"},
			notWant: []string{"key", "map"},
		},
		{
			name:    "default value expression does not bind",
			src:     "const {a = fallback} = o;",
			want:    []string{"a"},
			notWant: []string{"fallback", "o"},
		},
		{
			name:    "assignment destructuring",
			src:     "[x, y] = pair;",
			want:    []string{"x", "y"},
			notWant: []string{"pair"},
		},
		{
			name:    "plain declarations bind nothing here",
			src:     "const list = []; let items = load();",
			notWant: []string{"list", "items"},
		},
		{
			name: "catch clause pattern",
			src:  "try { run(); } catch ({message}) { log(message); }",
			want: []string{"message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parseSource(t, tt.src)
			names := f.DestructuredNames()

			for _, w := range tt.want {
				if _, ok := names[w]; !ok {
					t.Errorf("missing bound name %q (got %v)", w, keys(names))
				}
			}
			for _, nw := range tt.notWant {
				if _, ok := names[nw]; ok {
					t.Errorf("name %q should not be bound (got %v)", nw, keys(names))
				}
			}
		})
	}
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
