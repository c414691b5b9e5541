// Package advisor turns classifications into actionable diagnoses. The
// classifier estimates what an expression holds; the advisor decides
// whether that estimate is worth reporting, applying the configured
// suppressions, and builds the replacement suggestions.
package advisor

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"collint/internal/classifier"
	"collint/internal/config"
	"collint/internal/syntax"
)

// Suggestion is one candidate replacement for a diagnosed expression
type Suggestion struct {
	Label string
	Text  string
	// Unsafe marks replacements that alter what the program computes, not
	// just how the emptiness test is spelled
	Unsafe bool
	// Atom reports whether Text parses as a primary expression, so edit
	// builders know when substitution under ! needs parentheses
	Atom bool
}

// Diagnosis describes one confirmed collection-truthiness problem
type Diagnosis struct {
	Node         *sitter.Node
	Kind         classifier.Kind
	Confidence   int
	Evidence     classifier.Evidence
	Position     syntax.BoolPosition
	MessageKey   string
	Message      string
	Rewrite      string // Alternatives[0].Text, the suggestion shown first
	Alternatives []Suggestion
	Specialized  bool // single-element container construction
}

// minConfidence is the floor a classification must clear per evidence
// tier before the advisor reports it. Weaker tiers need more confidence.
var minConfidence = map[classifier.Evidence]int{
	classifier.EvidenceOracle:       50,
	classifier.EvidenceLiteral:      50,
	classifier.EvidenceStaticMethod: 55,
	classifier.EvidenceConstructor:  55,
	classifier.EvidenceArrayMethod:  60,
	classifier.EvidenceExactName:    60,
	classifier.EvidenceProperty:     70,
	classifier.EvidencePattern:      65,
}

// Advisor applies configuration policy to classifications
type Advisor struct {
	cfg *config.Config
}

// New creates an advisor for one run's configuration
func New(cfg *config.Config) *Advisor {
	return &Advisor{cfg: cfg}
}

// Advise examines one classified boolean context and returns a diagnosis,
// or nil when the expression is unclassified or a suppression applies.
func (a *Advisor) Advise(f *syntax.File, bc syntax.BoolContext, cls *classifier.Classification) *Diagnosis {
	if cls == nil {
		return nil
	}
	node := bc.Node

	if !a.cfg.Enabled(string(cls.Kind)) {
		return nil
	}
	if cls.Confidence < minConfidence[cls.Evidence] {
		return nil
	}
	if a.cfg.AllowExplicitBoolean && insideExplicitCoercion(f, node) {
		return nil
	}
	if guardedAndOperand(f, node, bc.Position) {
		return nil
	}
	if receiverOfEmptinessCheck(f, node) {
		return nil
	}

	if cls.Suspicious {
		if d := a.specialized(f, node, bc, cls); d != nil {
			return d
		}
	}
	return a.generic(f, node, bc, cls)
}

// generic builds the default diagnosis: the kind's emptiness test first,
// then Boolean(E) for authors who really meant existence
func (a *Advisor) generic(f *syntax.File, node *sitter.Node, bc syntax.BoolContext, cls *classifier.Classification) *Diagnosis {
	raw := f.Text(node)
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	rewrite, ok := safeRewrite(cls.Kind, raw, syntax.IsPrimary(node))
	if !ok {
		return nil
	}
	alts := []Suggestion{{Label: "safe default", Text: rewrite}}
	if cls.Kind == classifier.KindArray || cls.Kind == classifier.KindObject {
		alts = append(alts, Suggestion{
			Label: "explicit coercion if a boolean was truly intended",
			Text:  "Boolean(" + raw + ")",
			Atom:  true,
		})
	}

	key, msg := message(cls.Kind, bc.Position, raw)
	return &Diagnosis{
		Node:         node,
		Kind:         cls.Kind,
		Confidence:   cls.Confidence,
		Evidence:     cls.Evidence,
		Position:     bc.Position,
		MessageKey:   key,
		Message:      msg,
		Rewrite:      alts[0].Text,
		Alternatives: alts,
	}
}

// specialized builds the single-element construction diagnosis. The
// alternatives are ordered by decreasing likelihood of matching intent:
// the element itself, construction from the element as an iterable, and
// a size check on the container exactly as written.
func (a *Advisor) specialized(f *syntax.File, node *sitter.Node, bc syntax.BoolContext, cls *classifier.Classification) *Diagnosis {
	call, ok := syntax.CallOf(node)
	if !ok || len(call.Args) != 1 {
		return nil
	}
	elems := syntax.ArrayElements(syntax.Unwrap(call.Args[0]))
	if len(elems) != 1 {
		return nil
	}
	elem := f.Text(elems[0])
	ctor := f.IdentName(call.Callee)
	if strings.TrimSpace(elem) == "" || ctor == "" {
		return nil
	}

	spelling := ctor
	if call.IsNew {
		spelling = "new " + ctor
	}
	alts := []Suggestion{
		{
			Label:  "check the element directly",
			Text:   elem,
			Unsafe: true,
			Atom:   syntax.IsPrimary(elems[0]),
		},
		{
			Label:  "construct from the raw element, not a wrapping array, then check size",
			Text:   fmt.Sprintf("%s(%s).size > 0", spelling, elem),
			Unsafe: true,
		},
		{
			Label: "keep constructing the one-element container, just check its size",
			Text:  f.Text(node) + ".size > 0",
		},
	}

	return &Diagnosis{
		Node:       node,
		Kind:       cls.Kind,
		Confidence: cls.Confidence,
		Evidence:   cls.Evidence,
		Position:   bc.Position,
		MessageKey: "singleElementConstructor",
		Message: fmt.Sprintf("'%s' builds a container around a single element and is always truthy; did you mean '%s'?",
			f.Text(node), elem),
		Rewrite:      alts[0].Text,
		Alternatives: alts,
		Specialized:  true,
	}
}

// safeRewrite builds the emptiness test for a kind. Non-primary
// expressions get grouping parentheses before a suffix is attached.
// Expressions containing optional chains keep the chain safe: a ?.
// suffix for .length/.size, a ?? {} fallback before Object.keys.
func safeRewrite(kind classifier.Kind, raw string, primary bool) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}
	optional := strings.Contains(raw, "?.")

	grouped := raw
	if !primary {
		grouped = "(" + raw + ")"
	}

	switch kind {
	case classifier.KindArray:
		if optional {
			return grouped + "?.length > 0", true
		}
		return grouped + ".length > 0", true
	case classifier.KindObject:
		if optional {
			return "Object.keys(" + raw + " ?? {}).length > 0", true
		}
		return "Object.keys(" + raw + ").length > 0", true
	case classifier.KindArrayLike:
		if optional {
			return grouped + "?.size > 0", true
		}
		return grouped + ".size > 0", true
	}
	return "", false
}

// message picks the catalog entry for a kind and position. Logical
// operands get their own phrasing for arrays and objects; container
// wording already covers every position.
func message(kind classifier.Kind, pos syntax.BoolPosition, expr string) (key, text string) {
	logical := pos == syntax.PositionLogical
	switch kind {
	case classifier.KindArray:
		if logical {
			return "arrayTruthyLogical",
				fmt.Sprintf("Array '%s' is always truthy; this operand never guards against an empty array", expr)
		}
		return "arrayTruthy",
			fmt.Sprintf("Array '%s' is always truthy, even when empty", expr)
	case classifier.KindObject:
		if logical {
			return "objectTruthyLogical",
				fmt.Sprintf("Object '%s' is always truthy; this operand never guards against an empty object", expr)
		}
		return "objectTruthy",
			fmt.Sprintf("Object '%s' is always truthy, even with no keys", expr)
	case classifier.KindArrayLike:
		return "arrayLikeTruthy",
			fmt.Sprintf("Container '%s' is always truthy, even when empty", expr)
	}
	return "", ""
}

func isNegation(n *sitter.Node) bool {
	if n == nil || n.Type() != "unary_expression" {
		return false
	}
	op := n.ChildByFieldName("operator")
	return op != nil && op.Type() == "!"
}

// insideExplicitCoercion reports whether node is the operand of a !! pair
// or the sole argument of a Boolean(...) call. Both spell out truthiness
// on purpose, which allowExplicitBoolean treats as author intent.
func insideExplicitCoercion(f *syntax.File, n *sitter.Node) bool {
	p1, _ := syntax.Enclosing(n)
	if isNegation(p1) {
		p2, _ := syntax.Enclosing(p1)
		if isNegation(p2) {
			return true
		}
	}
	if p1 != nil && p1.Type() == "arguments" {
		p2, _ := syntax.Enclosing(p1)
		if call, ok := syntax.CallOf(p2); ok && !call.IsNew &&
			f.IdentName(call.Callee) == "Boolean" && len(call.Args) == 1 {
			return true
		}
	}
	return false
}

// guardedAndOperand reports whether node is the left operand of && whose
// right side re-checks emptiness, as in items && items.length > 0. The
// right side only needs the shape of a guard, not the same receiver.
func guardedAndOperand(f *syntax.File, n *sitter.Node, pos syntax.BoolPosition) bool {
	if pos != syntax.PositionLogical {
		return false
	}
	parent, _ := syntax.Enclosing(n)
	if parent == nil || parent.Type() != "binary_expression" {
		return false
	}
	if op := parent.ChildByFieldName("operator"); op == nil || op.Type() != "&&" {
		return false
	}
	left := syntax.Unwrap(parent.ChildByFieldName("left"))
	if left == nil || !syntax.SameNode(left, n) {
		return false
	}
	return isEmptinessGuard(f, syntax.Unwrap(parent.ChildByFieldName("right")))
}

// isEmptinessGuard recognizes expressions that re-check a collection's
// emptiness: a .length/.size access, or a comparison with one on either
// side (which also covers Object.keys(x).length > 0).
func isEmptinessGuard(f *syntax.File, n *sitter.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type() {
	case "member_expression":
		m, ok := f.MemberOf(n)
		return ok && (m.Property == "length" || m.Property == "size")
	case "binary_expression":
		op := n.ChildByFieldName("operator")
		if op == nil {
			return false
		}
		switch op.Type() {
		case ">", ">=", "<", "<=", "===", "!==", "==", "!=":
		default:
			return false
		}
		return isEmptinessGuard(f, syntax.Unwrap(n.ChildByFieldName("left"))) ||
			isEmptinessGuard(f, syntax.Unwrap(n.ChildByFieldName("right")))
	}
	return false
}

// receiverOfEmptinessCheck reports whether node is the object of a
// .length/.size member access. Hosts sometimes present the receiver
// rather than the access; the access is what sits in boolean position.
func receiverOfEmptinessCheck(f *syntax.File, n *sitter.Node) bool {
	parent, child := syntax.Enclosing(n)
	if parent == nil || parent.Type() != "member_expression" {
		return false
	}
	m, ok := f.MemberOf(parent)
	if !ok || (m.Property != "length" && m.Property != "size") {
		return false
	}
	return syntax.SameNode(m.Object, child)
}
