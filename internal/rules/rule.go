// Package rules defines the lint rule interface and the shipped rules.
package rules

import (
	"context"

	"collint/internal/config"
	"collint/internal/parser"
)

// Severity represents the severity level of an issue
type Severity int

const (
	Info Severity = iota
	Suggestion
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Suggestion:
		return "suggestion"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Edit represents a single byte-range replacement in a file. Offsets are
// host-file byte positions, so edits inside markdown fences apply directly.
type Edit struct {
	File    string
	Start   int
	End     int
	OldText string
	NewText string
}

// Fix represents one candidate repair for an issue. Unsafe marks repairs
// that change runtime behavior rather than just making the existing check
// explicit; the fixer skips them unless forced.
type Fix struct {
	Description string
	Edits       []Edit
	Unsafe      bool
}

// Issue represents a linting issue
type Issue struct {
	Rule       string
	Severity   Severity
	Message    string
	File       string
	Line       int
	Column     int
	EndLine    int
	EndColumn  int
	Context    string
	Kind       string
	Confidence int
	Evidence   string
	Rewrite    string
	// Fix is the recommended repair; Alternatives lists every candidate in
	// preference order, Fix first.
	Fix          *Fix
	Alternatives []Fix
}

// Rule defines the interface for lint rules
type Rule interface {
	// Name returns the unique identifier for this rule
	Name() string

	// Description returns a human-readable description
	Description() string

	// Check analyzes one document and returns any issues found. Issue
	// sub-categories may extend the rule name with a slash suffix.
	Check(ctx context.Context, doc *parser.Document, cfg *config.Config) ([]Issue, error)
}
