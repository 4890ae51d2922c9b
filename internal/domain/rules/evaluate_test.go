package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molsift/molsift/pkg/errors"
	"github.com/molsift/molsift/pkg/types/compound"
)

// ethanolRecord mirrors the descriptor set of CCO.
func ethanolRecord() *compound.DescriptorRecord {
	return &compound.DescriptorRecord{
		Name:                 "ethanol",
		MolecularWeight:      46.07,
		PartitionCoefficient: -0.31,
		NHOHCount:            1,
		NOCount:              1,
		PolarSurfaceArea:     20.23,
		RotatableBonds:       1,
		RingCount:            0,
		MolarRefractivity:    12.71,
		AtomCount:            9,
		HeavyAtomCount:       3,
		HeteroatomCount:      1,
		CarbonCount:          2,
		HBD:                  1,
		HBA:                  1,
		Formula:              "C2H6O",
		CSP3Fraction:         compound.Float64Ptr(1.0),
	}
}

func verdictByName(t *testing.T, verdicts []compound.RuleVerdict, name string) compound.RuleVerdict {
	t.Helper()
	for _, v := range verdicts {
		if v.RuleName == name {
			return v
		}
	}
	t.Fatalf("no verdict for rule %q", name)
	return compound.RuleVerdict{}
}

func TestEvaluate_Ethanol(t *testing.T) {
	engine := NewDefaultEngine()
	verdicts := engine.Evaluate(ethanolRecord())
	require.Len(t, verdicts, 5)

	// Small molecules clear the upper-bound rule sets.
	for _, name := range []string{RuleLipinski, RuleVeber, RuleEgan} {
		v := verdictByName(t, verdicts, name)
		assert.True(t, v.Passed(), "rule %s reported violations: %v", name, v.Violations)
	}

	// Ghose and Muegge have lower bounds that a 46 Da molecule breaches.
	ghose := verdictByName(t, verdicts, RuleGhose)
	assert.Equal(t, []string{
		"MW 46.07 below 160",
		"MR 12.71 below 40",
		"Atoms 9 below 20",
	}, ghose.Violations)

	muegge := verdictByName(t, verdicts, RuleMuegge)
	assert.Equal(t, []string{
		"MW 46.07 below 200",
		"Carbon 2 below 4",
	}, muegge.Violations)
}

func TestEvaluate_VerdictOrderMatchesDefinitions(t *testing.T) {
	engine := NewDefaultEngine()
	verdicts := engine.Evaluate(ethanolRecord())

	names := make([]string, len(verdicts))
	for i, v := range verdicts {
		names[i] = v.RuleName
	}
	assert.Equal(t, []string{RuleLipinski, RuleGhose, RuleVeber, RuleEgan, RuleMuegge}, names)
}

func TestEvaluate_HeavyCompoundAccumulatesAllViolations(t *testing.T) {
	rec := &compound.DescriptorRecord{
		Name:                 "offender",
		MolecularWeight:      612.3,
		PartitionCoefficient: 6.1,
		PolarSurfaceArea:     160,
		RotatableBonds:       16,
		RingCount:            8,
		HBA:                  11,
		CarbonCount:          3,
		HeteroatomCount:      0,
		// Kept inside their bounds so the expected violation sets below
		// stay exact.
		NHOHCount:         2,
		NOCount:           4,
		MolarRefractivity: 100,
		AtomCount:         40,
		HeavyAtomCount:    35,
		HBD:               2,
	}

	engine := NewDefaultEngine()
	verdicts := engine.Evaluate(rec)

	lipinski := verdictByName(t, verdicts, RuleLipinski)
	assert.Equal(t, []string{
		"MW 612.3 exceeds 500",
		"WlogP 6.1 exceeds 5",
	}, lipinski.Violations)

	veber := verdictByName(t, verdicts, RuleVeber)
	assert.Equal(t, []string{
		"RotBonds 16 exceeds 10",
		"TPSA 160 exceeds 140",
	}, veber.Violations)

	egan := verdictByName(t, verdicts, RuleEgan)
	assert.Equal(t, []string{
		"WlogP 6.1 exceeds 5.88",
		"TPSA 160 exceeds 131.6",
	}, egan.Violations)

	muegge := verdictByName(t, verdicts, RuleMuegge)
	assert.Len(t, muegge.Violations, 8)
	assert.Contains(t, muegge.Violations, "MW 612.3 exceeds 600")
	assert.Contains(t, muegge.Violations, "WlogP 6.1 exceeds 5")
	assert.Contains(t, muegge.Violations, "TPSA 160 exceeds 150")
	assert.Contains(t, muegge.Violations, "Rings 8 exceeds 7")
	assert.Contains(t, muegge.Violations, "Carbon 3 below 4")
	assert.Contains(t, muegge.Violations, "Heteroatoms 0 below 1")
	assert.Contains(t, muegge.Violations, "RotBonds 16 exceeds 15")
	assert.Contains(t, muegge.Violations, "HBA 11 exceeds 10")
}

func TestEvaluate_ExactThresholdIsNotAViolation(t *testing.T) {
	rec := ethanolRecord()
	rec.MolecularWeight = 500.0

	engine := NewDefaultEngine()
	lipinski := verdictByName(t, engine.Evaluate(rec), RuleLipinski)
	assert.True(t, lipinski.Passed(), "MW exactly 500 must pass: %v", lipinski.Violations)

	rec.MolecularWeight = 500.01
	lipinski = verdictByName(t, engine.Evaluate(rec), RuleLipinski)
	require.Len(t, lipinski.Violations, 1)
	assert.Equal(t, "MW 500.01 exceeds 500", lipinski.Violations[0])
}

func TestEvaluate_UndefinedDescriptorIsSkipped(t *testing.T) {
	defs := []RuleDefinition{{
		Name: "Carbons",
		Criteria: []Criterion{
			{Descriptor: compound.LabelCSP3, Op: OpBelow, Threshold: 0.25},
		},
	}}
	engine, err := NewEngine(defs)
	require.NoError(t, err)

	rec := ethanolRecord()
	rec.CSP3Fraction = nil

	verdicts := engine.Evaluate(rec)
	require.Len(t, verdicts, 1)
	assert.True(t, verdicts[0].Passed(), "undefined CSP3 must not violate")
}

func TestEvaluate_IsPureAndRepeatable(t *testing.T) {
	engine := NewDefaultEngine()
	rec := ethanolRecord()
	before := *rec

	first := engine.Evaluate(rec)
	second := engine.Evaluate(rec)

	assert.Equal(t, first, second)
	assert.Equal(t, before, *rec, "evaluation must not mutate the record")
}

func TestNewEngine_RejectsMalformedDefinitions(t *testing.T) {
	cases := []struct {
		name string
		defs []RuleDefinition
		code errors.ErrorCode
	}{
		{
			name: "empty name",
			defs: []RuleDefinition{{Criteria: []Criterion{{Descriptor: compound.LabelMW, Op: OpAbove, Threshold: 1}}}},
			code: errors.CodeConfiguration,
		},
		{
			name: "no criteria",
			defs: []RuleDefinition{{Name: "Empty"}},
			code: errors.CodeConfiguration,
		},
		{
			name: "unknown descriptor",
			defs: []RuleDefinition{{Name: "Bad", Criteria: []Criterion{{Descriptor: "Density", Op: OpAbove, Threshold: 1}}}},
			code: errors.ErrCodeUnknownDescriptor,
		},
		{
			name: "invalid operator",
			defs: []RuleDefinition{{Name: "Bad", Criteria: []Criterion{{Descriptor: compound.LabelMW, Op: ">=", Threshold: 1}}}},
			code: errors.CodeConfiguration,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewEngine(tc.defs)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tc.code), "got %v", err)
		})
	}
}

func TestSubset(t *testing.T) {
	defs := DefaultDefinitions()

	picked, err := Subset(defs, []string{RuleVeber, RuleLipinski})
	require.NoError(t, err)
	require.Len(t, picked, 2)
	// Definition order wins over request order.
	assert.Equal(t, RuleLipinski, picked[0].Name)
	assert.Equal(t, RuleVeber, picked[1].Name)

	all, err := Subset(defs, nil)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	_, err = Subset(defs, []string{"Oprea"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownRule))
}

func TestDefaultDefinitions_AreValid(t *testing.T) {
	for _, d := range DefaultDefinitions() {
		assert.NoError(t, d.Validate(), "rule %s", d.Name)
	}
}
