package rules

import (
	"collint/internal/oracle"
	"collint/internal/vocab"
)

// Registry holds all registered rules
type Registry struct {
	rules []Rule
}

// NewRegistry creates a new rule registry
func NewRegistry() *Registry {
	return &Registry{
		rules: make([]Rule, 0),
	}
}

// Register adds a rule to the registry
func (r *Registry) Register(rule Rule) {
	r.rules = append(r.rules, rule)
}

// Rules returns all registered rules
func (r *Registry) Rules() []Rule {
	return r.rules
}

// Get returns a rule by name
func (r *Registry) Get(name string) Rule {
	for _, rule := range r.rules {
		if rule.Name() == name {
			return rule
		}
	}
	return nil
}

// DefaultRegistry returns a registry with all shipped rules. A nil oracle
// leaves rules on syntactic evidence alone.
func DefaultRegistry(v *vocab.Vocabulary, o oracle.Oracle) *Registry {
	r := NewRegistry()
	r.Register(NewCollectionTruthiness(v, o))
	return r
}
