package rules

import (
	"context"
	"testing"

	"collint/internal/config"
	"collint/internal/parser"
	"collint/internal/vocab"
)

func check(t *testing.T, path, src string, cfg *config.Config) []Issue {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	v, err := vocab.Default()
	if err != nil {
		t.Fatalf("vocab.Default() error = %v", err)
	}
	doc, err := parser.ParseBytes(context.Background(), path, []byte(src))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	rule := NewCollectionTruthiness(v, nil)
	issues, err := rule.Check(context.Background(), doc, cfg)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	return issues
}

func TestCheckArrayCondition(t *testing.T) {
	issues := check(t, "app.js", "if (items) { run(); }\n", nil)
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}

	is := issues[0]
	if is.Rule != "collection-truthiness" {
		t.Errorf("Rule = %q", is.Rule)
	}
	if is.Severity != Warning {
		t.Errorf("Severity = %v, want Warning", is.Severity)
	}
	if is.Kind != "array" {
		t.Errorf("Kind = %q, want array", is.Kind)
	}
	if is.Evidence != "exact-name" {
		t.Errorf("Evidence = %q, want exact-name", is.Evidence)
	}
	if is.Line != 1 || is.Column != 5 {
		t.Errorf("position = %d:%d, want 1:5", is.Line, is.Column)
	}
	if is.Context != "if (items) { run(); }" {
		t.Errorf("Context = %q", is.Context)
	}
	if is.Rewrite != "items.length > 0" {
		t.Errorf("Rewrite = %q", is.Rewrite)
	}

	if is.Fix == nil {
		t.Fatal("Fix is nil")
	}
	edit := is.Fix.Edits[0]
	if edit.Start != 4 || edit.End != 9 {
		t.Errorf("edit span = %d..%d, want 4..9", edit.Start, edit.End)
	}
	if edit.OldText != "items" || edit.NewText != "items.length > 0" {
		t.Errorf("edit = %q -> %q", edit.OldText, edit.NewText)
	}
	if len(is.Alternatives) != 2 {
		t.Fatalf("got %d alternatives, want 2", len(is.Alternatives))
	}
	if is.Alternatives[0].Edits[0].NewText != is.Fix.Edits[0].NewText {
		t.Error("first alternative is not the recommended fix")
	}
}

func TestCheckNegationParenthesizes(t *testing.T) {
	issues := check(t, "app.js", "if (!items) { seed(); }\n", nil)
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}

	is := issues[0]
	// The comparison must be wrapped so !items does not become
	// !items.length > 0 after substitution.
	if got := is.Fix.Edits[0].NewText; got != "(items.length > 0)" {
		t.Errorf("fix NewText = %q, want (items.length > 0)", got)
	}
	// The displayed suggestion stays unwrapped.
	if is.Rewrite != "items.length > 0" {
		t.Errorf("Rewrite = %q", is.Rewrite)
	}
	// Boolean(items) is a call expression; substitution is safe bare.
	if got := is.Alternatives[1].Edits[0].NewText; got != "Boolean(items)" {
		t.Errorf("second alternative NewText = %q", got)
	}
}

func TestCheckSingleElementConstructor(t *testing.T) {
	issues := check(t, "app.js", "if (new Set([item])) { flush(); }\n", nil)
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}

	is := issues[0]
	if is.Rule != "collection-truthiness/single-element" {
		t.Errorf("Rule = %q", is.Rule)
	}
	if is.Severity != Error {
		t.Errorf("Severity = %v, want Error", is.Severity)
	}
	if is.Kind != "arraylike" {
		t.Errorf("Kind = %q, want arraylike", is.Kind)
	}
	if len(is.Alternatives) != 3 {
		t.Fatalf("got %d alternatives, want 3", len(is.Alternatives))
	}
	if got := is.Fix.Edits[0].NewText; got != "item" {
		t.Errorf("recommended fix NewText = %q, want item", got)
	}
	if got := is.Alternatives[2].Edits[0].NewText; got != "new Set([item]).size > 0" {
		t.Errorf("last alternative NewText = %q", got)
	}
	// The first two repairs change what the program builds; only the size
	// check on the container as written is behavior preserving.
	for i, want := range []bool{true, true, false} {
		if is.Alternatives[i].Unsafe != want {
			t.Errorf("Alternatives[%d].Unsafe = %v, want %v", i, is.Alternatives[i].Unsafe, want)
		}
	}
	for _, alt := range is.Alternatives {
		if alt.Description == "" {
			t.Error("alternative has empty description")
		}
	}
}

func TestCheckMarkdownPositions(t *testing.T) {
	src := "# Usage\n\n```js\nconst x = 1;\nif (items) {\n  run();\n}\n```\n"
	issues := check(t, "README.md", src, nil)
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}

	is := issues[0]
	if is.File != "README.md" {
		t.Errorf("File = %q", is.File)
	}
	// The if sits on host line 5.
	if is.Line != 5 {
		t.Errorf("Line = %d, want 5", is.Line)
	}
	if is.Context != "if (items) {" {
		t.Errorf("Context = %q", is.Context)
	}

	edit := is.Fix.Edits[0]
	if got := src[edit.Start:edit.End]; got != edit.OldText {
		t.Errorf("edit span selects %q in host file, want %q", got, edit.OldText)
	}
}

func TestCheckRespectsKindToggles(t *testing.T) {
	src := "if (items) {}\nif (config) {}\n"

	cfg := config.Default()
	cfg.CheckArrays = false
	issues := check(t, "app.js", src, cfg)
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}
	if issues[0].Kind != "object" {
		t.Errorf("surviving Kind = %q, want object", issues[0].Kind)
	}
}

func TestCheckCleanSources(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"length comparison", "if (items.length > 0) { run(); }"},
		{"plain number", "if (count > 0) { run(); }"},
		{"explicit coercion", "if (Boolean(items)) { run(); }"},
		{"guarded operand", "if (items && items.length > 0) { run(); }"},
		{"nullish fallback", "const x = value ?? [];"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if issues := check(t, "app.js", tt.src+"\n", nil); len(issues) != 0 {
				t.Errorf("got %d issues for %q, want 0", len(issues), tt.src)
			}
		})
	}
}

func TestCheckCanceledContext(t *testing.T) {
	v, err := vocab.Default()
	if err != nil {
		t.Fatal(err)
	}
	doc, err := parser.ParseBytes(context.Background(), "app.js", []byte("if (items) {}\n"))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rule := NewCollectionTruthiness(v, nil)
	if _, err := rule.Check(ctx, doc, config.Default()); err == nil {
		t.Error("Check() with canceled context returned nil error")
	}
}

func TestDefaultRegistry(t *testing.T) {
	v, err := vocab.Default()
	if err != nil {
		t.Fatal(err)
	}
	reg := DefaultRegistry(v, nil)

	if got := len(reg.Rules()); got != 1 {
		t.Fatalf("got %d rules, want 1", got)
	}
	rule := reg.Get("collection-truthiness")
	if rule == nil {
		t.Fatal("Get(collection-truthiness) = nil")
	}
	if rule.Description() == "" {
		t.Error("rule has empty description")
	}
	if reg.Get("no-such-rule") != nil {
		t.Error("Get on unknown name returned a rule")
	}
}
