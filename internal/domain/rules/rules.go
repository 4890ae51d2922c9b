// Package rules implements the drug-likeness rule evaluation engine: a
// data-driven table of threshold criteria interpreted by a single generic
// routine.  Adding a rule set is a configuration change, not a code change.
package rules

import (
	"fmt"
	"math"

	"github.com/molsift/molsift/pkg/errors"
	"github.com/molsift/molsift/pkg/types/compound"
)

// ─────────────────────────────────────────────────────────────────────────────
// Criterion
// ─────────────────────────────────────────────────────────────────────────────

// Op is a comparison operator.  Both operators are strict: a descriptor value
// exactly equal to the threshold never violates a criterion.
type Op string

const (
	// OpAbove flags values strictly greater than the threshold.
	OpAbove Op = ">"
	// OpBelow flags values strictly less than the threshold.
	OpBelow Op = "<"
)

// Criterion is one threshold check of a rule: a descriptor label, a strict
// comparison, and the bound.  Descriptors that are undefined for a compound
// (CSP3 with no carbons) are excluded from the check, never treated as a
// violation or defaulted to zero.
type Criterion struct {
	Descriptor string
	Op         Op
	Threshold  float64
}

// Violated reports whether value breaches the criterion.
func (c Criterion) Violated(value float64) bool {
	switch c.Op {
	case OpAbove:
		return value > c.Threshold
	case OpBelow:
		return value < c.Threshold
	default:
		return false
	}
}

// Message renders the human-readable violation description for a measured
// value, e.g. "MW 612.3 exceeds 600" or "Atoms 9 below 20".
func (c Criterion) Message(value float64) string {
	verb := "exceeds"
	if c.Op == OpBelow {
		verb = "below"
	}
	return fmt.Sprintf("%s %s %s %s", c.Descriptor, formatBound(value), verb, formatBound(c.Threshold))
}

// formatBound renders values and thresholds without trailing zeros (600,
// -0.4, 131.6) so messages read like the published rule tables.
func formatBound(v float64) string {
	return fmt.Sprintf("%g", v)
}

// ─────────────────────────────────────────────────────────────────────────────
// RuleDefinition
// ─────────────────────────────────────────────────────────────────────────────

// RuleDefinition is a named, ordered set of criteria.  Definitions are
// process-wide read-only configuration: initialised once, safely shareable.
type RuleDefinition struct {
	Name     string
	Criteria []Criterion
}

// knownDescriptors lists every numeric descriptor label a criterion may
// reference.  Formula is excluded: it is the one non-numeric descriptor.
var knownDescriptors = map[string]bool{
	compound.LabelTPSA:         true,
	compound.LabelWlogP:        true,
	compound.LabelMW:           true,
	compound.LabelAtoms:        true,
	compound.LabelHeavyAtoms:   true,
	compound.LabelFormalCharge: true,
	compound.LabelHeteroatoms:  true,
	compound.LabelCarbon:       true,
	compound.LabelCSP3:         true,
	compound.LabelRings:        true,
	compound.LabelHBD:          true,
	compound.LabelHBA:          true,
	compound.LabelRotBonds:     true,
	compound.LabelMR:           true,
	compound.LabelNHOH:         true,
	compound.LabelNO:           true,
}

// Validate checks that the definition is structurally sound.  A malformed
// definition is a ConfigurationError: every compound would be evaluated
// against broken rules, so the run must abort before any record.
func (d RuleDefinition) Validate() error {
	if d.Name == "" {
		return errors.Configuration("rule definition has no name")
	}
	if len(d.Criteria) == 0 {
		return errors.Configuration("rule definition has no criteria").
			WithDetail("rule=" + d.Name)
	}
	for i, c := range d.Criteria {
		if !knownDescriptors[c.Descriptor] {
			return errors.New(errors.ErrCodeUnknownDescriptor, "criterion references unknown descriptor").
				WithDetail(fmt.Sprintf("rule=%s criterion=%d descriptor=%q", d.Name, i, c.Descriptor))
		}
		if c.Op != OpAbove && c.Op != OpBelow {
			return errors.Configuration("criterion has invalid comparison operator").
				WithDetail(fmt.Sprintf("rule=%s criterion=%d op=%q", d.Name, i, c.Op))
		}
		if math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) {
			return errors.Configuration("criterion threshold is not a finite number").
				WithDetail(fmt.Sprintf("rule=%s criterion=%d", d.Name, i))
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Default rule table
// ─────────────────────────────────────────────────────────────────────────────

// Documented rule names, in the fixed report order.
const (
	RuleLipinski = "Lipinski"
	RuleGhose    = "Ghose"
	RuleVeber    = "Veber"
	RuleEgan     = "Egan"
	RuleMuegge   = "Muegge"
)

// DefaultDefinitions returns the five published drug-likeness rule sets with
// their exact thresholds.  All comparisons are strict: a value equal to a
// bound passes (MW = 500.0 satisfies Lipinski, 500.01 does not).
func DefaultDefinitions() []RuleDefinition {
	return []RuleDefinition{
		{
			Name: RuleLipinski,
			Criteria: []Criterion{
				{Descriptor: compound.LabelMW, Op: OpAbove, Threshold: 500},
				{Descriptor: compound.LabelWlogP, Op: OpAbove, Threshold: 5},
				{Descriptor: compound.LabelNHOH, Op: OpAbove, Threshold: 5},
				{Descriptor: compound.LabelNO, Op: OpAbove, Threshold: 10},
			},
		},
		{
			Name: RuleGhose,
			Criteria: []Criterion{
				{Descriptor: compound.LabelMW, Op: OpBelow, Threshold: 160},
				{Descriptor: compound.LabelMW, Op: OpAbove, Threshold: 480},
				{Descriptor: compound.LabelWlogP, Op: OpBelow, Threshold: -0.4},
				{Descriptor: compound.LabelWlogP, Op: OpAbove, Threshold: 5.6},
				{Descriptor: compound.LabelMR, Op: OpBelow, Threshold: 40},
				{Descriptor: compound.LabelMR, Op: OpAbove, Threshold: 130},
				{Descriptor: compound.LabelAtoms, Op: OpBelow, Threshold: 20},
				{Descriptor: compound.LabelAtoms, Op: OpAbove, Threshold: 70},
			},
		},
		{
			Name: RuleVeber,
			Criteria: []Criterion{
				{Descriptor: compound.LabelRotBonds, Op: OpAbove, Threshold: 10},
				{Descriptor: compound.LabelTPSA, Op: OpAbove, Threshold: 140},
			},
		},
		{
			Name: RuleEgan,
			Criteria: []Criterion{
				{Descriptor: compound.LabelWlogP, Op: OpAbove, Threshold: 5.88},
				{Descriptor: compound.LabelTPSA, Op: OpAbove, Threshold: 131.6},
			},
		},
		{
			Name: RuleMuegge,
			Criteria: []Criterion{
				{Descriptor: compound.LabelMW, Op: OpBelow, Threshold: 200},
				{Descriptor: compound.LabelMW, Op: OpAbove, Threshold: 600},
				{Descriptor: compound.LabelWlogP, Op: OpBelow, Threshold: -2},
				{Descriptor: compound.LabelWlogP, Op: OpAbove, Threshold: 5},
				{Descriptor: compound.LabelTPSA, Op: OpAbove, Threshold: 150},
				{Descriptor: compound.LabelRings, Op: OpAbove, Threshold: 7},
				{Descriptor: compound.LabelCarbon, Op: OpBelow, Threshold: 4},
				{Descriptor: compound.LabelHeteroatoms, Op: OpBelow, Threshold: 1},
				{Descriptor: compound.LabelRotBonds, Op: OpAbove, Threshold: 15},
				{Descriptor: compound.LabelHBA, Op: OpAbove, Threshold: 10},
			},
		},
	}
}

// Subset returns the definitions whose names appear in names, preserving the
// documented order of defs (not the order of names).  An unknown name is a
// ConfigurationError.  An empty names slice returns defs unchanged.
func Subset(defs []RuleDefinition, names []string) ([]RuleDefinition, error) {
	if len(names) == 0 {
		return defs, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	out := make([]RuleDefinition, 0, len(names))
	for _, d := range defs {
		if wanted[d.Name] {
			out = append(out, d)
			delete(wanted, d.Name)
		}
	}
	for n := range wanted {
		return nil, errors.New(errors.ErrCodeUnknownRule, "unknown rule set").
			WithDetail("rule=" + n)
	}
	return out, nil
}
