package syntax

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Unwrap strips grouping syntax from an expression: parentheses and the
// discarded left parts of comma sequences. The returned node is the
// expression whose value actually reaches the enclosing context.
func Unwrap(n *sitter.Node) *sitter.Node {
	for n != nil {
		switch n.Type() {
		case "parenthesized_expression":
			n = lastExpression(n)
		case "sequence_expression":
			if r := n.ChildByFieldName("right"); r != nil {
				n = r
			} else {
				n = lastExpression(n)
			}
		default:
			return n
		}
	}
	return nil
}

// lastExpression returns the last non-comment named child
func lastExpression(n *sitter.Node) *sitter.Node {
	var expr *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != "comment" {
			expr = c
		}
	}
	return expr
}

// SameNode reports whether two handles refer to the same underlying node.
// Tree-sitter hands out fresh wrappers, so pointer comparison is not
// meaningful; span plus type is.
func SameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

// Enclosing returns the nearest ancestor of n that is not grouping syntax,
// along with the direct child of that ancestor on the path from n.
func Enclosing(n *sitter.Node) (parent, child *sitter.Node) {
	if n == nil {
		return nil, nil
	}
	child = n
	parent = n.Parent()
	for parent != nil {
		t := parent.Type()
		if t != "parenthesized_expression" && t != "sequence_expression" {
			return parent, child
		}
		child = parent
		parent = parent.Parent()
	}
	return nil, child
}

// Call describes a call_expression or new_expression
type Call struct {
	Node   *sitter.Node
	Callee *sitter.Node
	Args   []*sitter.Node
	IsNew  bool
}

// CallOf decomposes a call or new expression. `new Ctor` without an
// argument list yields zero Args.
func CallOf(n *sitter.Node) (Call, bool) {
	if n == nil {
		return Call{}, false
	}
	switch n.Type() {
	case "call_expression":
		return Call{Node: n, Callee: n.ChildByFieldName("function"), Args: callArgs(n)}, true
	case "new_expression":
		return Call{Node: n, Callee: n.ChildByFieldName("constructor"), Args: callArgs(n), IsNew: true}, true
	}
	return Call{}, false
}

func callArgs(n *sitter.Node) []*sitter.Node {
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, int(args.NamedChildCount()))
	for i := 0; i < int(args.NamedChildCount()); i++ {
		c := args.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Member describes a member access with a plain property name
type Member struct {
	Node     *sitter.Node
	Object   *sitter.Node
	Property string
	Optional bool
}

// MemberOf decomposes a member_expression. Computed accesses
// (subscript_expression) and private fields do not match.
func (f *File) MemberOf(n *sitter.Node) (Member, bool) {
	if n == nil || n.Type() != "member_expression" {
		return Member{}, false
	}
	obj := n.ChildByFieldName("object")
	prop := n.ChildByFieldName("property")
	if obj == nil || prop == nil || prop.Type() != "property_identifier" {
		return Member{}, false
	}
	m := Member{Node: n, Object: obj, Property: f.Text(prop)}
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "optional_chain" {
			m.Optional = true
			break
		}
	}
	return m, true
}

// ArrayElements returns the element expressions of an array literal,
// skipping interior comments. Nil for any other node.
func ArrayElements(n *sitter.Node) []*sitter.Node {
	if n == nil || n.Type() != "array" {
		return nil
	}
	out := make([]*sitter.Node, 0, int(n.NamedChildCount()))
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// IdentName returns the name of an identifier node, or "" for any other node
func (f *File) IdentName(n *sitter.Node) string {
	if n == nil || n.Type() != "identifier" {
		return ""
	}
	return f.Text(n)
}

// IsPrimary reports whether n binds tighter than any prefix operator when
// substituted into an expression, so it can follow ! without parentheses
func IsPrimary(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type() {
	case "identifier", "member_expression", "subscript_expression",
		"call_expression", "new_expression", "parenthesized_expression",
		"string", "number", "template_string", "regex",
		"array", "object", "true", "false", "null", "undefined", "this":
		return true
	}
	return false
}
