package syntax

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// DestructuredNames collects every identifier the file binds through an
// array pattern, object pattern, or rest element — declarations, function
// parameters, catch clauses, and destructuring assignments all count.
// Property keys, computed keys, and default-value expressions do not bind
// and are skipped.
func (f *File) DestructuredNames() map[string]struct{} {
	names := make(map[string]struct{})

	Walk(f.Root(), func(n *sitter.Node) bool {
		switch n.Type() {
		case "array_pattern", "object_pattern", "rest_pattern":
			f.collectPatternNames(n, names)
			return false
		}
		return true
	})

	return names
}

func (f *File) collectPatternNames(n *sitter.Node, names map[string]struct{}) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		names[f.Text(n)] = struct{}{}
	case "assignment_pattern", "object_assignment_pattern":
		// Only the left side binds; the default value is an ordinary expression
		f.collectPatternNames(n.ChildByFieldName("left"), names)
	case "pair_pattern":
		// The key names a property, the value binds
		f.collectPatternNames(n.ChildByFieldName("value"), names)
	case "computed_property_name":
		// Computed keys reference existing names, they bind nothing
	case "member_expression", "subscript_expression":
		// Assignment targets like [a.b] = xs mutate a property, no binding
	default:
		for i := 0; i < int(n.NamedChildCount()); i++ {
			f.collectPatternNames(n.NamedChild(i), names)
		}
	}
}
