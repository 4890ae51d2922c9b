// Package compound defines the data transfer shapes exchanged between the
// descriptor provider, the rule evaluation engine, and the report pipeline.
// These types carry no behaviour beyond access and formatting helpers; all
// evaluation logic lives in internal/domain/rules.
package compound

import (
	"fmt"
	"strconv"
)

// ─────────────────────────────────────────────────────────────────────────────
// CompoundInput
// ─────────────────────────────────────────────────────────────────────────────

// CompoundInput is one record of the line-oriented input format: a structure
// notation (SMILES) plus an optional display name.  Created per line during
// input parsing, consumed once by the descriptor provider, not retained.
type CompoundInput struct {
	Notation string `json:"notation"`
	Name     string `json:"name,omitempty"`
}

// DisplayName returns the compound's name, falling back to the notation
// string when no name was supplied.
func (c CompoundInput) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Notation
}

// ─────────────────────────────────────────────────────────────────────────────
// DescriptorRecord
// ─────────────────────────────────────────────────────────────────────────────

// Canonical descriptor labels, in the fixed report order.  The renderer, the
// CSV reformatter, and the rule table all reference descriptors by these
// labels, so the set here is the single source of truth.
const (
	LabelTPSA         = "TPSA"
	LabelWlogP        = "WlogP"
	LabelAtoms        = "Atoms"
	LabelFormalCharge = "FormalCharge"
	LabelHeteroatoms  = "Heteroatoms"
	LabelCarbon       = "Carbon"
	LabelFormula      = "Formula"
	LabelMW           = "MW"
	LabelHeavyAtoms   = "HeavyAtoms"
	LabelCSP3         = "CSP3"
	LabelRings        = "Rings"
	LabelHBD          = "HBD"
	LabelHBA          = "HBA"
	LabelRotBonds     = "RotBonds"
	LabelMR           = "MR"
	LabelNHOH         = "NHOH"
	LabelNO           = "NO"
)

// DescriptorOrder is the documented field order of a report block, NAME
// excluded.  Downstream consumers (the CSV reformatter in particular) treat
// this order as a stable contract.
var DescriptorOrder = []string{
	LabelTPSA, LabelWlogP, LabelAtoms, LabelFormalCharge, LabelHeteroatoms,
	LabelCarbon, LabelFormula, LabelMW, LabelHeavyAtoms, LabelCSP3,
	LabelRings, LabelHBD, LabelHBA, LabelRotBonds, LabelMR, LabelNHOH,
	LabelNO,
}

// DescriptorRecord is the immutable set of named molecular descriptors the
// provider computes for one compound.  All counts are non-negative;
// HeavyAtomCount <= AtomCount.  CSP3 is nil when the compound has no
// sp3-eligible carbons (never substituted with 0).
type DescriptorRecord struct {
	Name string `json:"name"`

	PolarSurfaceArea     float64  `json:"tpsa"`
	PartitionCoefficient float64  `json:"wlogp"`
	MolecularWeight      float64  `json:"mw"`
	AtomCount            int      `json:"atoms"`
	HeavyAtomCount       int      `json:"heavy_atoms"`
	FormalCharge         int      `json:"formal_charge"`
	HeteroatomCount      int      `json:"heteroatoms"`
	CarbonCount          int      `json:"carbon"`
	Formula              string   `json:"formula"`
	CSP3Fraction         *float64 `json:"csp3,omitempty"`
	RingCount            int      `json:"rings"`
	HBD                  int      `json:"hbd"`
	HBA                  int      `json:"hba"`
	RotatableBonds       int      `json:"rot_bonds"`
	MolarRefractivity    float64  `json:"mr"`
	NHOHCount            int      `json:"nhoh"`
	NOCount              int      `json:"no"`
}

// Descriptor returns the numeric value of the descriptor with the given
// label.  The second return is false when the label is unknown, refers to a
// non-numeric descriptor (Formula), or the value is undefined for this
// compound (CSP3 with no carbons); such descriptors must be excluded from
// rule criteria rather than defaulted.
func (r *DescriptorRecord) Descriptor(label string) (float64, bool) {
	switch label {
	case LabelTPSA:
		return r.PolarSurfaceArea, true
	case LabelWlogP:
		return r.PartitionCoefficient, true
	case LabelMW:
		return r.MolecularWeight, true
	case LabelAtoms:
		return float64(r.AtomCount), true
	case LabelHeavyAtoms:
		return float64(r.HeavyAtomCount), true
	case LabelFormalCharge:
		return float64(r.FormalCharge), true
	case LabelHeteroatoms:
		return float64(r.HeteroatomCount), true
	case LabelCarbon:
		return float64(r.CarbonCount), true
	case LabelCSP3:
		if r.CSP3Fraction == nil {
			return 0, false
		}
		return *r.CSP3Fraction, true
	case LabelRings:
		return float64(r.RingCount), true
	case LabelHBD:
		return float64(r.HBD), true
	case LabelHBA:
		return float64(r.HBA), true
	case LabelRotBonds:
		return float64(r.RotatableBonds), true
	case LabelMR:
		return r.MolarRefractivity, true
	case LabelNHOH:
		return float64(r.NHOHCount), true
	case LabelNO:
		return float64(r.NOCount), true
	default:
		return 0, false
	}
}

// FormatValue renders the descriptor with the given label exactly as it
// appears in a report block: floats with two decimals, counts as plain
// integers, CSP3 as "n/a" when undefined.
func (r *DescriptorRecord) FormatValue(label string) string {
	switch label {
	case LabelTPSA:
		return FormatFloat(r.PolarSurfaceArea)
	case LabelWlogP:
		return FormatFloat(r.PartitionCoefficient)
	case LabelMW:
		return FormatFloat(r.MolecularWeight)
	case LabelMR:
		return FormatFloat(r.MolarRefractivity)
	case LabelCSP3:
		return FormatCSP3(r.CSP3Fraction)
	case LabelFormula:
		return r.Formula
	case LabelAtoms:
		return strconv.Itoa(r.AtomCount)
	case LabelHeavyAtoms:
		return strconv.Itoa(r.HeavyAtomCount)
	case LabelFormalCharge:
		return strconv.Itoa(r.FormalCharge)
	case LabelHeteroatoms:
		return strconv.Itoa(r.HeteroatomCount)
	case LabelCarbon:
		return strconv.Itoa(r.CarbonCount)
	case LabelRings:
		return strconv.Itoa(r.RingCount)
	case LabelHBD:
		return strconv.Itoa(r.HBD)
	case LabelHBA:
		return strconv.Itoa(r.HBA)
	case LabelRotBonds:
		return strconv.Itoa(r.RotatableBonds)
	case LabelNHOH:
		return strconv.Itoa(r.NHOHCount)
	case LabelNO:
		return strconv.Itoa(r.NOCount)
	default:
		return ""
	}
}

// FormatFloat renders a descriptor value with the report's two-decimal
// precision.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatCSP3 renders the CSP3 fraction, or "n/a" when the compound has no
// sp3-eligible carbons.
func FormatCSP3(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return FormatFloat(*v)
}

// ─────────────────────────────────────────────────────────────────────────────
// RuleVerdict
// ─────────────────────────────────────────────────────────────────────────────

// RuleVerdict is the outcome of evaluating one compound against one rule set.
// Violations is empty if and only if the compound satisfies every criterion
// of the rule; "No violations" is a render-time sentinel, never stored.
type RuleVerdict struct {
	RuleName   string   `json:"rule"`
	Violations []string `json:"violations,omitempty"`
}

// Passed reports whether the compound satisfies every criterion of the rule.
func (v RuleVerdict) Passed() bool {
	return len(v.Violations) == 0
}

func (v RuleVerdict) String() string {
	if v.Passed() {
		return fmt.Sprintf("%s: no violations", v.RuleName)
	}
	return fmt.Sprintf("%s: %d violations", v.RuleName, len(v.Violations))
}

// Float64Ptr returns a pointer to v.  Convenience for building records with
// a defined CSP3 fraction.
func Float64Ptr(v float64) *float64 { return &v }
