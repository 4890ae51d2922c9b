package rules

import (
	"github.com/molsift/molsift/pkg/types/compound"
)

// Engine evaluates compounds against a fixed, validated set of rule
// definitions.  Evaluation is pure: no I/O, no mutation of the input record,
// and identical inputs always yield identical verdicts, so a single Engine is
// safe for concurrent use.
type Engine struct {
	defs []RuleDefinition
}

// NewEngine validates every definition and returns an Engine over them.
// Validation failures abort construction: evaluating even one compound
// against a malformed rule table would poison the whole run.
func NewEngine(defs []RuleDefinition) (*Engine, error) {
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}
	owned := make([]RuleDefinition, len(defs))
	copy(owned, defs)
	return &Engine{defs: owned}, nil
}

// NewDefaultEngine returns an Engine over the five published rule sets.
func NewDefaultEngine() *Engine {
	e, err := NewEngine(DefaultDefinitions())
	if err != nil {
		// The built-in table is validated by tests; reaching here means a
		// programming error, not a runtime condition.
		panic(err)
	}
	return e
}

// Definitions returns the engine's rule definitions in evaluation order.
func (e *Engine) Definitions() []RuleDefinition {
	return e.defs
}

// Evaluate checks rec against every rule definition and returns one verdict
// per rule, in definition order.  Every criterion of every rule is always
// checked: violations accumulate rather than short-circuiting, so a verdict
// lists the complete set of breached bounds.  Criteria over descriptors that
// are undefined for rec are skipped.
func (e *Engine) Evaluate(rec *compound.DescriptorRecord) []compound.RuleVerdict {
	verdicts := make([]compound.RuleVerdict, 0, len(e.defs))
	for _, def := range e.defs {
		v := compound.RuleVerdict{RuleName: def.Name}
		for _, c := range def.Criteria {
			value, ok := rec.Descriptor(c.Descriptor)
			if !ok {
				continue
			}
			if c.Violated(value) {
				v.Violations = append(v.Violations, c.Message(value))
			}
		}
		verdicts = append(verdicts, v)
	}
	return verdicts
}
