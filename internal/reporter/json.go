package reporter

import (
	"encoding/json"
	"io"

	"collint/internal/rules"
)

// JSONReporter outputs results as JSON
type JSONReporter struct {
	w io.Writer
}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{w: w}
}

// JSONOutput represents the JSON output format
type JSONOutput struct {
	Issues  []JSONIssue `json:"issues"`
	Summary Summary     `json:"summary"`
}

// JSONIssue represents an issue in JSON format
type JSONIssue struct {
	Rule         string            `json:"rule"`
	Severity     string            `json:"severity"`
	Message      string            `json:"message"`
	File         string            `json:"file"`
	Line         int               `json:"line,omitempty"`
	Column       int               `json:"column,omitempty"`
	EndLine      int               `json:"endLine,omitempty"`
	EndColumn    int               `json:"endColumn,omitempty"`
	Context      string            `json:"context,omitempty"`
	Kind         string            `json:"kind,omitempty"`
	Confidence   int               `json:"confidence,omitempty"`
	Evidence     string            `json:"evidence,omitempty"`
	Rewrite      string            `json:"rewrite,omitempty"`
	HasFix       bool              `json:"hasFix"`
	Alternatives []JSONAlternative `json:"alternatives,omitempty"`
}

// JSONAlternative is one labeled rewrite candidate
type JSONAlternative struct {
	Label   string `json:"label"`
	Rewrite string `json:"rewrite"`
}

// Report outputs issues as JSON
func (r *JSONReporter) Report(issues []rules.Issue) error {
	output := JSONOutput{
		Issues:  make([]JSONIssue, 0, len(issues)),
		Summary: ComputeSummary(issues),
	}

	for _, issue := range issues {
		out := JSONIssue{
			Rule:       issue.Rule,
			Severity:   issue.Severity.String(),
			Message:    issue.Message,
			File:       issue.File,
			Line:       issue.Line,
			Column:     issue.Column,
			EndLine:    issue.EndLine,
			EndColumn:  issue.EndColumn,
			Context:    issue.Context,
			Kind:       issue.Kind,
			Confidence: issue.Confidence,
			Evidence:   issue.Evidence,
			Rewrite:    issue.Rewrite,
			HasFix:     issue.Fix != nil,
		}
		for _, alt := range issue.Alternatives {
			if len(alt.Edits) == 0 {
				continue
			}
			out.Alternatives = append(out.Alternatives, JSONAlternative{
				Label:   alt.Description,
				Rewrite: alt.Edits[0].NewText,
			})
		}
		output.Issues = append(output.Issues, out)
	}

	encoder := json.NewEncoder(r.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
