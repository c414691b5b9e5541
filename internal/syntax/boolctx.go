package syntax

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// BoolPosition identifies why an expression is evaluated for truthiness
type BoolPosition int

const (
	// PositionCondition is an if/while/do-while/for test
	PositionCondition BoolPosition = iota
	// PositionTernary is the test of a ?: expression
	PositionTernary
	// PositionLogical is an operand of && or ||
	PositionLogical
	// PositionNegation is the operand of !
	PositionNegation
)

func (p BoolPosition) String() string {
	switch p {
	case PositionCondition:
		return "condition"
	case PositionTernary:
		return "ternary"
	case PositionLogical:
		return "logical"
	case PositionNegation:
		return "negation"
	default:
		return "unknown"
	}
}

// BoolContext is an expression the language evaluates for truthiness
type BoolContext struct {
	Node     *sitter.Node
	Position BoolPosition
}

// BooleanContexts finds every expression in the file that sits in a
// boolean-evaluation position: if/while/do-while/for conditions, ternary
// conditions, both operands of && and ||, and ! operands. Grouping
// parentheses and comma sequences are stripped first, so the reported node
// is the expression whose truthiness decides the branch. `??` is not a
// boolean position: it tests nullishness, not truthiness.
func (f *File) BooleanContexts() []BoolContext {
	var out []BoolContext

	add := func(n *sitter.Node, pos BoolPosition) {
		if n = Unwrap(n); n != nil {
			out = append(out, BoolContext{Node: n, Position: pos})
		}
	}

	Walk(f.Root(), func(n *sitter.Node) bool {
		switch n.Type() {
		case "if_statement", "while_statement", "do_statement":
			add(n.ChildByFieldName("condition"), PositionCondition)

		case "for_statement":
			// The grammar wraps the test clause in an expression_statement;
			// an empty_statement means no test at all.
			if cond := n.ChildByFieldName("condition"); cond != nil && cond.Type() == "expression_statement" {
				add(cond.NamedChild(0), PositionCondition)
			}

		case "ternary_expression":
			add(n.ChildByFieldName("condition"), PositionTernary)

		case "binary_expression":
			if op := n.ChildByFieldName("operator"); op != nil {
				if t := op.Type(); t == "&&" || t == "||" {
					add(n.ChildByFieldName("left"), PositionLogical)
					add(n.ChildByFieldName("right"), PositionLogical)
				}
			}

		case "unary_expression":
			if op := n.ChildByFieldName("operator"); op != nil && op.Type() == "!" {
				add(n.ChildByFieldName("argument"), PositionNegation)
			}
		}
		return true
	})

	return out
}
