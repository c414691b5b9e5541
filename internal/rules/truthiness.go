package rules

import (
	"context"
	"strings"

	"collint/internal/advisor"
	"collint/internal/classifier"
	"collint/internal/config"
	"collint/internal/oracle"
	"collint/internal/parser"
	"collint/internal/syntax"
	"collint/internal/vocab"
)

// CollectionTruthinessRule flags arrays, plain objects, and array-like
// containers used where JavaScript coerces them to a boolean. Such values
// are truthy even when empty, so the check never distinguishes empty from
// populated. Each boolean position is judged on its own; no state crosses
// from one node to the next.
type CollectionTruthinessRule struct {
	vocab  *vocab.Vocabulary
	oracle oracle.Oracle
}

// NewCollectionTruthiness creates the rule. The oracle may be nil.
func NewCollectionTruthiness(v *vocab.Vocabulary, o oracle.Oracle) *CollectionTruthinessRule {
	return &CollectionTruthinessRule{vocab: v, oracle: o}
}

// Name returns the rule identifier
func (r *CollectionTruthinessRule) Name() string {
	return "collection-truthiness"
}

// Description returns what this rule checks
func (r *CollectionTruthinessRule) Description() string {
	return "Collections in boolean positions are always truthy; test .length or .size instead"
}

// Check walks every boolean-evaluation position in the document's
// JavaScript fragments, classifies the expression there, and reports the
// diagnoses that survive the advisor's suppressions.
func (r *CollectionTruthinessRule) Check(ctx context.Context, doc *parser.Document, cfg *config.Config) ([]Issue, error) {
	cls := classifier.New(r.vocab, r.oracle, cfg.StrictNaming)
	adv := advisor.New(cfg)

	var issues []Issue
	for _, f := range doc.Fragments {
		pass := cls.ForFile(f)
		for _, bc := range f.BooleanContexts() {
			if err := ctx.Err(); err != nil {
				return issues, err
			}
			d := adv.Advise(f, bc, pass.Classify(ctx, bc.Node))
			if d == nil {
				continue
			}
			issues = append(issues, r.issue(doc, f, bc, d))
		}
	}
	return issues, nil
}

// issue converts one diagnosis into a reportable issue with its fixes.
func (r *CollectionTruthinessRule) issue(doc *parser.Document, f *syntax.File, bc syntax.BoolContext, d *advisor.Diagnosis) Issue {
	name := r.Name()
	severity := Warning
	if d.Specialized {
		name += "/single-element"
		severity = Error
	}

	start, end := f.Span(d.Node)
	old := f.Text(d.Node)
	fixes := make([]Fix, 0, len(d.Alternatives))
	for _, alt := range d.Alternatives {
		text := alt.Text
		// Substituting a comparison under ! must not produce !a.length > 0,
		// which parses as (!a.length) > 0.
		if bc.Position == syntax.PositionNegation && !alt.Atom {
			text = "(" + text + ")"
		}
		fixes = append(fixes, Fix{
			Description: alt.Label,
			Unsafe:      alt.Unsafe,
			Edits: []Edit{{
				File:    doc.Path,
				Start:   start,
				End:     end,
				OldText: old,
				NewText: text,
			}},
		})
	}

	issue := Issue{
		Rule:       name,
		Severity:   severity,
		Message:    d.Message,
		File:       doc.Path,
		Line:       f.Line(d.Node),
		Column:     f.Column(d.Node),
		EndLine:    f.EndLine(d.Node),
		EndColumn:  f.EndColumn(d.Node),
		Context:    contextLine(doc.Source, f.Line(d.Node)),
		Kind:       string(d.Kind),
		Confidence: d.Confidence,
		Evidence:   d.Evidence.String(),
		Rewrite:    d.Rewrite,
	}
	if len(fixes) > 0 {
		issue.Fix = &fixes[0]
		issue.Alternatives = fixes
	}
	return issue
}

// contextLine returns the 1-based line of source for display
func contextLine(source []byte, line int) string {
	lines := strings.Split(string(source), "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}
