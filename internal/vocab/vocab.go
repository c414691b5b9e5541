// Package vocab holds the collection-name vocabulary consulted by the
// classifier: property names, exact identifier names, and naming patterns
// that suggest a collection kind. The built-in lists ship as embedded YAML
// and are data, not code — callers may extend or replace them per run.
package vocab

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/vocabulary.yaml
var defaultYAML []byte

// Lists holds one name list per collection kind
type Lists struct {
	Array     []string `yaml:"array"`
	Object    []string `yaml:"object"`
	ArrayLike []string `yaml:"arraylike"`
}

// Definition is the serialized form of a vocabulary
type Definition struct {
	// Properties are member-access property names suggesting a kind
	Properties Lists `yaml:"properties"`

	// Names are exact identifier names suggesting a kind
	Names Lists `yaml:"names"`

	// Patterns are identifier regular expressions suggesting a kind,
	// consulted only under strict naming
	Patterns Lists `yaml:"patterns"`

	// PluralArrays enables the weak bare-plural heuristic for arrays.
	// A nil override keeps the current setting.
	PluralArrays *bool `yaml:"plural_arrays"`

	// ArrayMethods are instance methods that return a fresh array
	ArrayMethods []string `yaml:"array_methods"`

	// ArrayLikeConstructors are container constructors exposing .size
	ArrayLikeConstructors []string `yaml:"arraylike_constructors"`
}

// Merge combines user-supplied lists with the receiver. With replace set,
// non-empty user lists take the place of the matching built-in list;
// otherwise they extend it. Empty user lists always keep the built-in.
func (d Definition) Merge(over Definition, replace bool) Definition {
	merged := d
	merged.Properties = mergeLists(d.Properties, over.Properties, replace)
	merged.Names = mergeLists(d.Names, over.Names, replace)
	merged.Patterns = mergeLists(d.Patterns, over.Patterns, replace)
	merged.ArrayMethods = mergeList(d.ArrayMethods, over.ArrayMethods, replace)
	merged.ArrayLikeConstructors = mergeList(d.ArrayLikeConstructors, over.ArrayLikeConstructors, replace)
	if over.PluralArrays != nil {
		merged.PluralArrays = over.PluralArrays
	}
	return merged
}

func mergeLists(base, over Lists, replace bool) Lists {
	return Lists{
		Array:     mergeList(base.Array, over.Array, replace),
		Object:    mergeList(base.Object, over.Object, replace),
		ArrayLike: mergeList(base.ArrayLike, over.ArrayLike, replace),
	}
}

func mergeList(base, over []string, replace bool) []string {
	if len(over) == 0 {
		return base
	}
	if replace {
		return over
	}
	out := make([]string, 0, len(base)+len(over))
	out = append(out, base...)
	out = append(out, over...)
	return out
}

type pattern struct {
	re   *regexp.Regexp
	kind string
}

// Vocabulary is a compiled, immutable vocabulary ready for lookups
type Vocabulary struct {
	properties   map[string]string
	names        map[string]string
	patterns     []pattern
	plural       *regexp.Regexp
	arrayMethods map[string]struct{}
	constructors map[string]struct{}
}

var pluralRe = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*s$`)

// Default returns the compiled built-in vocabulary
func Default() (*Vocabulary, error) {
	def, err := DefaultDefinition()
	if err != nil {
		return nil, err
	}
	return Compile(def)
}

// DefaultDefinition returns the built-in vocabulary definition, for callers
// that want to merge overrides before compiling
func DefaultDefinition() (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(defaultYAML, &def); err != nil {
		return Definition{}, fmt.Errorf("parse built-in vocabulary: %w", err)
	}
	return def, nil
}

// DefaultChecksum fingerprints the embedded vocabulary, for cache keying
func DefaultChecksum() string {
	sum := sha256.Sum256(defaultYAML)
	return hex.EncodeToString(sum[:8])
}

// Compile builds lookup structures from a definition. When a name appears
// in more than one kind list, the first kind in array, object, arraylike
// order wins, keeping classification deterministic.
func Compile(def Definition) (*Vocabulary, error) {
	v := &Vocabulary{
		properties:   make(map[string]string),
		names:        make(map[string]string),
		arrayMethods: make(map[string]struct{}),
		constructors: make(map[string]struct{}),
	}

	addKinded(v.properties, def.Properties)
	addKinded(v.names, def.Names)

	for _, src := range []struct {
		exprs []string
		kind  string
	}{
		{def.Patterns.Array, "array"},
		{def.Patterns.Object, "object"},
		{def.Patterns.ArrayLike, "arraylike"},
	} {
		for _, expr := range src.exprs {
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("compile %s pattern %q: %w", src.kind, expr, err)
			}
			v.patterns = append(v.patterns, pattern{re: re, kind: src.kind})
		}
	}

	if def.PluralArrays != nil && *def.PluralArrays {
		v.plural = pluralRe
	}

	for _, m := range def.ArrayMethods {
		v.arrayMethods[m] = struct{}{}
	}
	for _, c := range def.ArrayLikeConstructors {
		v.constructors[c] = struct{}{}
	}

	return v, nil
}

func addKinded(m map[string]string, lists Lists) {
	for _, src := range []struct {
		names []string
		kind  string
	}{
		{lists.Array, "array"},
		{lists.Object, "object"},
		{lists.ArrayLike, "arraylike"},
	} {
		for _, n := range src.names {
			if _, ok := m[n]; !ok {
				m[n] = src.kind
			}
		}
	}
}

// PropertyKind looks up a member-access property name
func (v *Vocabulary) PropertyKind(name string) (string, bool) {
	k, ok := v.properties[name]
	return k, ok
}

// NameKind looks up an exact identifier name
func (v *Vocabulary) NameKind(name string) (string, bool) {
	k, ok := v.names[name]
	return k, ok
}

// PatternKind matches an identifier against the naming patterns. A weak
// result comes from the bare-plural heuristic rather than an explicit
// pattern and deserves less confidence.
func (v *Vocabulary) PatternKind(name string) (kind string, weak, ok bool) {
	for _, p := range v.patterns {
		if p.re.MatchString(name) {
			return p.kind, false, true
		}
	}
	if v.plural != nil && v.plural.MatchString(name) && !strings.HasSuffix(name, "ss") {
		return "array", true, true
	}
	return "", false, false
}

// IsArrayMethod reports whether name is an array-returning instance method
func (v *Vocabulary) IsArrayMethod(name string) bool {
	_, ok := v.arrayMethods[name]
	return ok
}

// IsArrayLikeConstructor reports whether name constructs a .size container
func (v *Vocabulary) IsArrayLikeConstructor(name string) bool {
	_, ok := v.constructors[name]
	return ok
}
