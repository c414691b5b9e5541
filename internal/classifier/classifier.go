// Package classifier determines the collection kind of JavaScript
// expressions found in boolean positions. Evidence is consulted in tiers,
// strongest first: an oracle verdict, then literals, known static factory
// calls, container construction, array-returning methods, vocabulary
// property names, and finally identifier naming. The first tier that
// matches wins; expressions no tier recognizes stay unclassified.
package classifier

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"collint/internal/oracle"
	"collint/internal/syntax"
	"collint/internal/vocab"
)

// Kind is the collection kind an expression is believed to hold
type Kind string

const (
	KindArray     Kind = "array"     // has .length
	KindObject    Kind = "object"    // keys checked via Object.keys
	KindArrayLike Kind = "arraylike" // has .size
)

func (k Kind) valid() bool {
	switch k {
	case KindArray, KindObject, KindArrayLike:
		return true
	}
	return false
}

// Evidence records which tier produced a classification
type Evidence int

const (
	EvidenceOracle Evidence = iota
	EvidenceLiteral
	EvidenceStaticMethod
	EvidenceConstructor
	EvidenceArrayMethod
	EvidenceProperty
	EvidenceExactName
	EvidencePattern
)

func (e Evidence) String() string {
	switch e {
	case EvidenceOracle:
		return "oracle"
	case EvidenceLiteral:
		return "literal"
	case EvidenceStaticMethod:
		return "static-method"
	case EvidenceConstructor:
		return "constructor"
	case EvidenceArrayMethod:
		return "array-method"
	case EvidenceProperty:
		return "property"
	case EvidenceExactName:
		return "exact-name"
	case EvidencePattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// Classification is the classifier's verdict about one expression.
// Suspicious marks container construction around a single element, the
// shape behind most intended-membership-test bugs.
type Classification struct {
	Kind       Kind
	Confidence int
	Evidence   Evidence
	Suspicious bool
}

// staticFactories maps known static calls to the kind they return.
// Object.keys/values/entries return arrays, not objects.
var staticFactories = map[string]map[string]Kind{
	"Object": {
		"keys":        KindArray,
		"values":      KindArray,
		"entries":     KindArray,
		"create":      KindObject,
		"assign":      KindObject,
		"fromEntries": KindObject,
	},
	"Array": {"from": KindArray, "of": KindArray},
}

// Classifier classifies expressions against a vocabulary, optionally
// consulting an oracle for expressions syntax cannot decide
type Classifier struct {
	vocab  *vocab.Vocabulary
	oracle oracle.Oracle
	strict bool
}

// New creates a classifier. A nil oracle disables the oracle tier;
// strict enables the naming-pattern tier.
func New(v *vocab.Vocabulary, o oracle.Oracle, strict bool) *Classifier {
	return &Classifier{vocab: v, oracle: o, strict: strict}
}

// FilePass binds a classifier to one parsed file, carrying the per-file
// state the naming tiers need
type FilePass struct {
	c            *Classifier
	file         *syntax.File
	destructured map[string]struct{}
}

// ForFile prepares a classification pass over one file
func (c *Classifier) ForFile(f *syntax.File) *FilePass {
	return &FilePass{c: c, file: f, destructured: f.DestructuredNames()}
}

// Classify determines the collection kind of an expression, or nil when
// no evidence tier matches
func (p *FilePass) Classify(ctx context.Context, node *sitter.Node) *Classification {
	node = syntax.Unwrap(node)

	if p.c.oracle != nil {
		// Oracle failures degrade to syntax-only classification
		if res, err := p.c.oracle.ResolveType(ctx, p.file, node); err == nil && res != nil {
			if kind := Kind(res.Kind); kind.valid() {
				conf := res.Confidence
				if conf > 100 {
					conf = 100
				}
				return &Classification{Kind: kind, Confidence: conf, Evidence: EvidenceOracle}
			}
		}
	}

	switch node.Type() {
	case "array":
		return &Classification{Kind: KindArray, Confidence: 100, Evidence: EvidenceLiteral}
	case "object":
		return &Classification{Kind: KindObject, Confidence: 100, Evidence: EvidenceLiteral}
	}

	if cls := p.staticCall(node); cls != nil {
		return cls
	}
	if cls := p.construction(node); cls != nil {
		return cls
	}
	if cls := p.arrayMethod(node); cls != nil {
		return cls
	}
	if cls := p.memberProperty(node); cls != nil {
		return cls
	}
	return p.identifierName(node)
}

// staticCall recognizes Object.keys(x) and friends, classifying by the
// kind the call returns
func (p *FilePass) staticCall(node *sitter.Node) *Classification {
	call, ok := syntax.CallOf(node)
	if !ok || call.IsNew {
		return nil
	}
	m, ok := p.file.MemberOf(call.Callee)
	if !ok {
		return nil
	}
	methods, ok := staticFactories[p.file.IdentName(m.Object)]
	if !ok {
		return nil
	}
	kind, ok := methods[m.Property]
	if !ok {
		return nil
	}
	return &Classification{Kind: kind, Confidence: 95, Evidence: EvidenceStaticMethod}
}

// construction recognizes container construction, with or without new.
// A single-element array argument marks the classification suspicious:
// new Set([x]) in a boolean position is almost always a mistyped
// membership or emptiness test.
func (p *FilePass) construction(node *sitter.Node) *Classification {
	call, ok := syntax.CallOf(node)
	if !ok {
		return nil
	}
	name := p.file.IdentName(call.Callee)
	if name == "" {
		return nil
	}

	switch name {
	case "Array":
		return &Classification{Kind: KindArray, Confidence: 95, Evidence: EvidenceConstructor}
	case "Object":
		return &Classification{Kind: KindObject, Confidence: 95, Evidence: EvidenceConstructor}
	}
	if !p.c.vocab.IsArrayLikeConstructor(name) {
		return nil
	}

	switch len(call.Args) {
	case 0:
		return &Classification{Kind: KindArrayLike, Confidence: 80, Evidence: EvidenceConstructor}
	case 1:
		arg := syntax.Unwrap(call.Args[0])
		if arg.Type() != "array" {
			// Constructed from an unknown iterable
			return nil
		}
		elems := syntax.ArrayElements(arg)
		switch len(elems) {
		case 0:
			return &Classification{Kind: KindArrayLike, Confidence: 80, Evidence: EvidenceConstructor}
		case 1:
			if elems[0].Type() == "spread_element" {
				// [...xs] may expand to any length
				return nil
			}
			return &Classification{Kind: KindArrayLike, Confidence: 95, Evidence: EvidenceConstructor, Suspicious: true}
		default:
			// Deliberately populated
			return nil
		}
	default:
		return nil
	}
}

// arrayMethod recognizes calls to methods that return a fresh array
// regardless of receiver
func (p *FilePass) arrayMethod(node *sitter.Node) *Classification {
	call, ok := syntax.CallOf(node)
	if !ok || call.IsNew {
		return nil
	}
	m, ok := p.file.MemberOf(call.Callee)
	if !ok {
		return nil
	}
	if !p.c.vocab.IsArrayMethod(m.Property) {
		return nil
	}
	return &Classification{Kind: KindArray, Confidence: 85, Evidence: EvidenceArrayMethod}
}

// memberProperty classifies member accesses by vocabulary property name.
// Deep paths are skipped: a.b.items says more about b than about the
// vocabulary, so only single-hop accesses count.
func (p *FilePass) memberProperty(node *sitter.Node) *Classification {
	m, ok := p.file.MemberOf(node)
	if !ok {
		return nil
	}
	if m.Object.Type() == "member_expression" {
		return nil
	}
	kind, ok := p.c.vocab.PropertyKind(m.Property)
	if !ok {
		return nil
	}
	return &Classification{Kind: Kind(kind), Confidence: 75, Evidence: EvidenceProperty}
}

// identifierName classifies bare identifiers by vocabulary name, then by
// naming pattern under strict mode. Names bound by destructuring are
// skipped: the binding source could hold anything.
func (p *FilePass) identifierName(node *sitter.Node) *Classification {
	name := p.file.IdentName(node)
	if name == "" {
		return nil
	}
	if _, ok := p.destructured[name]; ok {
		return nil
	}

	if kind, ok := p.c.vocab.NameKind(name); ok {
		return &Classification{Kind: Kind(kind), Confidence: 85, Evidence: EvidenceExactName}
	}

	if !p.c.strict {
		return nil
	}
	kind, weak, ok := p.c.vocab.PatternKind(name)
	if !ok {
		return nil
	}
	conf := 65
	if weak {
		conf = 60
	}
	return &Classification{Kind: Kind(kind), Confidence: conf, Evidence: EvidencePattern}
}
