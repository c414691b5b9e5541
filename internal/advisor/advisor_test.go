package advisor

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"

	"collint/internal/classifier"
	"collint/internal/config"
	"collint/internal/syntax"
	"collint/internal/vocab"
)

func run(t *testing.T, src string, cfg *config.Config) []*Diagnosis {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	f, err := syntax.Parse(context.Background(), "test.js", []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	v, err := vocab.Default()
	if err != nil {
		t.Fatalf("vocab: %v", err)
	}
	pass := classifier.New(v, nil, cfg.StrictNaming).ForFile(f)
	adv := New(cfg)

	var out []*Diagnosis
	for _, bc := range f.BooleanContexts() {
		cls := pass.Classify(context.Background(), bc.Node)
		if d := adv.Advise(f, bc, cls); d != nil {
			out = append(out, d)
		}
	}
	return out
}

func strict(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Preset("strict")
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestAdvise(t *testing.T) {
	tests := []struct {
		name        string
		src         string
		strict      bool
		wantCount   int
		wantKey     string
		wantRewrite string
		wantPos     syntax.BoolPosition
	}{
		{
			name:        "exact array name",
			src:         "if (items) {}",
			wantCount:   1,
			wantKey:     "arrayTruthy",
			wantRewrite: "items.length > 0",
			wantPos:     syntax.PositionCondition,
		},
		{
			name:        "exact object name",
			src:         "if (config) {}",
			wantCount:   1,
			wantKey:     "objectTruthy",
			wantRewrite: "Object.keys(config).length > 0",
			wantPos:     syntax.PositionCondition,
		},
		{
			name:        "exact arraylike name",
			src:         "if (seen) {}",
			wantCount:   1,
			wantKey:     "arrayLikeTruthy",
			wantRewrite: "seen.size > 0",
			wantPos:     syntax.PositionCondition,
		},
		{
			name:        "array literal in condition",
			src:         "if ([]) { f() }",
			wantCount:   1,
			wantKey:     "arrayTruthy",
			wantRewrite: "[].length > 0",
			wantPos:     syntax.PositionCondition,
		},
		{
			name:        "object literal as logical operand",
			src:         "const r = {} && g();",
			wantCount:   1,
			wantKey:     "objectTruthyLogical",
			wantRewrite: "Object.keys({}).length > 0",
			wantPos:     syntax.PositionLogical,
		},
		{
			name:        "array as logical operand",
			src:         "const ok = items && run();",
			wantCount:   1,
			wantKey:     "arrayTruthyLogical",
			wantRewrite: "items.length > 0",
			wantPos:     syntax.PositionLogical,
		},
		{
			name:        "arraylike has no logical variant",
			src:         "if (seen || fallback) {}",
			wantCount:   1,
			wantKey:     "arrayLikeTruthy",
			wantRewrite: "seen.size > 0",
			wantPos:     syntax.PositionLogical,
		},
		{
			name:        "negated array",
			src:         "if (!items) {}",
			wantCount:   1,
			wantKey:     "arrayTruthy",
			wantRewrite: "items.length > 0",
			wantPos:     syntax.PositionNegation,
		},
		{
			name:        "ternary test",
			src:         "const x = items ? a : b;",
			wantCount:   1,
			wantKey:     "arrayTruthy",
			wantRewrite: "items.length > 0",
			wantPos:     syntax.PositionTernary,
		},
		{
			name:        "optional chain stays safe for arrays",
			src:         "if (res?.items) {}",
			wantCount:   1,
			wantKey:     "arrayTruthy",
			wantRewrite: "res?.items?.length > 0",
			wantPos:     syntax.PositionCondition,
		},
		{
			name:        "optional chain stays safe for objects",
			src:         "if (req?.options) {}",
			wantCount:   1,
			wantKey:     "objectTruthy",
			wantRewrite: "Object.keys(req?.options ?? {}).length > 0",
			wantPos:     syntax.PositionCondition,
		},
		{
			name:      "pattern names need strict naming",
			src:       "if (userList) {}",
			wantCount: 0,
		},
		{
			name:        "pattern names under strict naming",
			src:         "if (userList) {}",
			strict:      true,
			wantCount:   1,
			wantKey:     "arrayTruthy",
			wantRewrite: "userList.length > 0",
			wantPos:     syntax.PositionCondition,
		},
		{
			name:      "weak plural stays below the pattern floor",
			src:       "if (handlers) {}",
			strict:    true,
			wantCount: 0,
		},
		{
			name:      "unknown identifier",
			src:       "if (value) {}",
			wantCount: 0,
		},
		{
			name:      "correct length idiom",
			src:       "if (items.length) {}",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg *config.Config
			if tt.strict {
				cfg = strict(t)
			}
			got := run(t, tt.src, cfg)
			if len(got) != tt.wantCount {
				t.Fatalf("got %d diagnoses, want %d", len(got), tt.wantCount)
			}
			if tt.wantCount == 0 {
				return
			}
			d := got[0]
			if d.MessageKey != tt.wantKey {
				t.Errorf("MessageKey = %q, want %q", d.MessageKey, tt.wantKey)
			}
			if d.Rewrite != tt.wantRewrite {
				t.Errorf("Rewrite = %q, want %q", d.Rewrite, tt.wantRewrite)
			}
			if d.Position != tt.wantPos {
				t.Errorf("Position = %v, want %v", d.Position, tt.wantPos)
			}
			if d.Message == "" {
				t.Error("Message is empty")
			}
			if len(d.Alternatives) == 0 || d.Alternatives[0].Text != d.Rewrite {
				t.Errorf("Alternatives[0] = %+v, want text %q first", d.Alternatives, d.Rewrite)
			}
		})
	}
}

func TestAdviseAlternatives(t *testing.T) {
	t.Run("array offers explicit coercion", func(t *testing.T) {
		got := run(t, "if (items) {}", nil)
		if len(got) != 1 {
			t.Fatalf("got %d diagnoses, want 1", len(got))
		}
		alts := got[0].Alternatives
		if len(alts) != 2 {
			t.Fatalf("got %d alternatives, want 2", len(alts))
		}
		if alts[0].Label != "safe default" {
			t.Errorf("Alternatives[0].Label = %q", alts[0].Label)
		}
		if alts[1].Text != "Boolean(items)" || !alts[1].Atom {
			t.Errorf("Alternatives[1] = %+v, want Boolean(items) atom", alts[1])
		}
	})

	t.Run("arraylike omits explicit coercion", func(t *testing.T) {
		got := run(t, "if (seen) {}", nil)
		if len(got) != 1 {
			t.Fatalf("got %d diagnoses, want 1", len(got))
		}
		if len(got[0].Alternatives) != 1 {
			t.Errorf("got %d alternatives, want 1: %+v", len(got[0].Alternatives), got[0].Alternatives)
		}
	})
}

func TestGuardSuppression(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantCount int
	}{
		{name: "length comparison guard", src: "if (items && items.length > 0) {}", wantCount: 0},
		{name: "keys length guard", src: "if (items && Object.keys(items).length > 0) {}", wantCount: 0},
		{name: "bare length guard", src: "if (items && items.length) {}", wantCount: 0},
		{name: "size guard", src: "if (seen && seen.size) {}", wantCount: 0},
		{name: "guard shape from another receiver still counts", src: "if (items && rows.length > 0) {}", wantCount: 0},
		{name: "non-guard right side", src: "if (items && other) {}", wantCount: 1},
		{name: "right operand is not guarded", src: "if (ready && items) {}", wantCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(t, tt.src, nil); len(got) != tt.wantCount {
				t.Errorf("got %d diagnoses, want %d", len(got), tt.wantCount)
			}
		})
	}
}

func TestExplicitCoercion(t *testing.T) {
	t.Run("double negation accepted by default", func(t *testing.T) {
		if got := run(t, "if (!!items) {}", nil); len(got) != 0 {
			t.Errorf("got %d diagnoses, want 0", len(got))
		}
	})

	t.Run("Boolean call accepted by default", func(t *testing.T) {
		if got := run(t, "if (Boolean(items)) {}", nil); len(got) != 0 {
			t.Errorf("got %d diagnoses, want 0", len(got))
		}
	})

	t.Run("double negation flagged under strict", func(t *testing.T) {
		got := run(t, "if (!!items) {}", strict(t))
		if len(got) != 1 {
			t.Fatalf("got %d diagnoses, want 1", len(got))
		}
		if got[0].Position != syntax.PositionNegation {
			t.Errorf("Position = %v, want negation", got[0].Position)
		}
	})
}

func TestKindToggles(t *testing.T) {
	src := "if (items) {}\nif (config) {}\nif (seen) {}\n"

	tests := []struct {
		name  string
		mut   func(*config.Config)
		wants []string
	}{
		{
			name:  "arrays off",
			mut:   func(c *config.Config) { c.CheckArrays = false },
			wants: []string{"objectTruthy", "arrayLikeTruthy"},
		},
		{
			name:  "objects off",
			mut:   func(c *config.Config) { c.CheckObjects = false },
			wants: []string{"arrayTruthy", "arrayLikeTruthy"},
		},
		{
			name:  "arraylike off",
			mut:   func(c *config.Config) { c.CheckArrayLike = false },
			wants: []string{"arrayTruthy", "objectTruthy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mut(cfg)
			got := run(t, src, cfg)
			if len(got) != len(tt.wants) {
				t.Fatalf("got %d diagnoses, want %d", len(got), len(tt.wants))
			}
			for i, want := range tt.wants {
				if got[i].MessageKey != want {
					t.Errorf("diagnosis %d key = %q, want %q", i, got[i].MessageKey, want)
				}
			}
		})
	}
}

func TestSpecialized(t *testing.T) {
	t.Run("new Set around one element", func(t *testing.T) {
		got := run(t, "if (new Set([item])) { h() }", nil)
		if len(got) != 1 {
			t.Fatalf("got %d diagnoses, want 1", len(got))
		}
		d := got[0]
		if !d.Specialized || d.MessageKey != "singleElementConstructor" {
			t.Errorf("diagnosis = %+v, want specialized", d)
		}
		wantTexts := []string{"item", "new Set(item).size > 0", "new Set([item]).size > 0"}
		if len(d.Alternatives) != len(wantTexts) {
			t.Fatalf("got %d alternatives, want %d", len(d.Alternatives), len(wantTexts))
		}
		for i, want := range wantTexts {
			if d.Alternatives[i].Text != want {
				t.Errorf("alternative %d = %q, want %q", i, d.Alternatives[i].Text, want)
			}
		}
		if d.Rewrite != "item" {
			t.Errorf("Rewrite = %q, want the element itself", d.Rewrite)
		}
		if !d.Alternatives[0].Atom {
			t.Error("element alternative should be atomic")
		}
		for _, alt := range d.Alternatives {
			if alt.Label == "" {
				t.Errorf("alternative %q has no label", alt.Text)
			}
		}
	})

	t.Run("bare Set keeps the bare spelling", func(t *testing.T) {
		got := run(t, "if (Set([item])) {}", nil)
		if len(got) != 1 {
			t.Fatalf("got %d diagnoses, want 1", len(got))
		}
		if got[0].Alternatives[1].Text != "Set(item).size > 0" {
			t.Errorf("alternative 1 = %q, want bare spelling", got[0].Alternatives[1].Text)
		}
	})

	t.Run("new Map around one entry", func(t *testing.T) {
		got := run(t, "if (new Map([[k, v]])) {}", nil)
		if len(got) != 1 {
			t.Fatalf("got %d diagnoses, want 1", len(got))
		}
		if got[0].Alternatives[0].Text != "[k, v]" {
			t.Errorf("alternative 0 = %q, want the entry", got[0].Alternatives[0].Text)
		}
	})

	t.Run("intentional population stays quiet", func(t *testing.T) {
		for _, src := range []string{
			"if (new Set(itemsVariable)) {}",
			"if (new Set([x, y])) {}",
		} {
			if got := run(t, src, nil); len(got) != 0 {
				t.Errorf("%s: got %d diagnoses, want 0", src, len(got))
			}
		}
	})
}

func TestReceiverSuppression(t *testing.T) {
	// The walker hands out the whole .length access, never its receiver,
	// but the advisor is a public API and hosts may present receivers.
	tests := []struct {
		name string
		src  string
	}{
		{name: "direct access", src: "if (items.length) {}"},
		{name: "optional access", src: "if (items?.length) {}"},
		{name: "size access", src: "if (seen.size) {}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := syntax.Parse(context.Background(), "test.js", []byte(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			v, err := vocab.Default()
			if err != nil {
				t.Fatal(err)
			}

			var receiver *sitter.Node
			syntax.Walk(f.Root(), func(n *sitter.Node) bool {
				if receiver == nil && n.Type() == "identifier" {
					receiver = n
				}
				return receiver == nil
			})
			if receiver == nil {
				t.Fatal("no identifier found")
			}

			pass := classifier.New(v, nil, false).ForFile(f)
			cls := pass.Classify(context.Background(), receiver)
			if cls == nil {
				t.Fatal("receiver should classify on its own")
			}
			bc := syntax.BoolContext{Node: receiver, Position: syntax.PositionCondition}
			if d := New(config.Default()).Advise(f, bc, cls); d != nil {
				t.Errorf("Advise() = %+v, want suppressed", d)
			}
		})
	}
}
