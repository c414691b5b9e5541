// Package oracle resolves expression types through knowledge the syntax
// tree alone cannot provide. The shipped implementation asks Claude;
// without an API key the oracle is simply absent and classification
// proceeds on syntax alone.
package oracle

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"collint/internal/syntax"
)

// Resolution is an oracle's verdict about one expression
type Resolution struct {
	Kind       string // "array", "object", or "arraylike"
	Confidence int    // 0-100
	Reason     string
}

// Oracle resolves the collection kind of an expression. A nil Resolution
// with a nil error means the oracle has no answer; callers fall through
// to their own heuristics.
type Oracle interface {
	ResolveType(ctx context.Context, file *syntax.File, node *sitter.Node) (*Resolution, error)
}
