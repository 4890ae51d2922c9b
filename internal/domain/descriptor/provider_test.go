package descriptor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molsift/molsift/pkg/errors"
)

func TestParse_Methane(t *testing.T) {
	rec, err := NewSMILESProvider().Parse("C")
	require.NoError(t, err)

	assert.Equal(t, 5, rec.AtomCount)
	assert.Equal(t, 1, rec.HeavyAtomCount)
	assert.Equal(t, 1, rec.CarbonCount)
	assert.Equal(t, 0, rec.HeteroatomCount)
	assert.Equal(t, "CH4", rec.Formula)
	assert.InDelta(t, 16.04, rec.MolecularWeight, 1e-9)
	assert.Equal(t, 0, rec.RingCount)
	assert.Equal(t, 0, rec.RotatableBonds)
	assert.Zero(t, rec.PolarSurfaceArea)
	assert.InDelta(t, 0.64, rec.PartitionCoefficient, 1e-9)
	assert.InDelta(t, 6.73, rec.MolarRefractivity, 1e-9)
	require.NotNil(t, rec.CSP3Fraction)
	assert.Equal(t, 1.0, *rec.CSP3Fraction)
}

func TestParse_Ethanol(t *testing.T) {
	rec, err := NewSMILESProvider().Parse("CCO")
	require.NoError(t, err)

	assert.Equal(t, 9, rec.AtomCount)
	assert.Equal(t, 3, rec.HeavyAtomCount)
	assert.Equal(t, 2, rec.CarbonCount)
	assert.Equal(t, 1, rec.HeteroatomCount)
	assert.Equal(t, 0, rec.FormalCharge)
	assert.Equal(t, "C2H6O", rec.Formula)
	assert.InDelta(t, 46.07, rec.MolecularWeight, 1e-9)
	assert.Equal(t, 0, rec.RingCount)
	assert.Equal(t, 0, rec.RotatableBonds)
	assert.Equal(t, 1, rec.NOCount)
	assert.Equal(t, 1, rec.NHOHCount)
	assert.Equal(t, 1, rec.HBD)
	assert.Equal(t, 1, rec.HBA)
	assert.InDelta(t, 20.23, rec.PolarSurfaceArea, 1e-9)
	assert.Equal(t, 0.0, rec.PartitionCoefficient, "near-zero WlogP rounds to plain zero")
	assert.InDelta(t, 12.44, rec.MolarRefractivity, 1e-9)
	require.NotNil(t, rec.CSP3Fraction)
	assert.Equal(t, 1.0, *rec.CSP3Fraction)
}

func TestParse_Benzene(t *testing.T) {
	rec, err := NewSMILESProvider().Parse("c1ccccc1")
	require.NoError(t, err)

	assert.Equal(t, 12, rec.AtomCount)
	assert.Equal(t, 6, rec.HeavyAtomCount)
	assert.Equal(t, 6, rec.CarbonCount)
	assert.Equal(t, "C6H6", rec.Formula)
	assert.InDelta(t, 78.11, rec.MolecularWeight, 1e-9)
	assert.Equal(t, 1, rec.RingCount)
	assert.Equal(t, 0, rec.RotatableBonds)
	assert.Zero(t, rec.PolarSurfaceArea)
	assert.InDelta(t, 1.69, rec.PartitionCoefficient, 1e-9)
	assert.InDelta(t, 26.44, rec.MolarRefractivity, 1e-9)
	require.NotNil(t, rec.CSP3Fraction, "benzene has carbons, so CSP3 is defined")
	assert.Equal(t, 0.0, *rec.CSP3Fraction)
}

func TestParse_Pyridine(t *testing.T) {
	rec, err := NewSMILESProvider().Parse("c1ccncc1")
	require.NoError(t, err)

	assert.Equal(t, "C5H5N", rec.Formula)
	assert.Equal(t, 1, rec.NOCount)
	assert.Equal(t, 0, rec.NHOHCount)
	assert.Equal(t, 0, rec.HBD)
	assert.Equal(t, 1, rec.HBA, "pyridine-type nitrogen accepts")
	assert.InDelta(t, 12.89, rec.PolarSurfaceArea, 1e-6)
}

func TestParse_AceticAcid(t *testing.T) {
	rec, err := NewSMILESProvider().Parse("CC(=O)O")
	require.NoError(t, err)

	assert.Equal(t, "C2H4O2", rec.Formula)
	assert.InDelta(t, 60.05, rec.MolecularWeight, 1e-9)
	assert.Equal(t, 2, rec.NOCount)
	assert.Equal(t, 1, rec.NHOHCount)
	assert.Equal(t, 1, rec.HBD)
	assert.Equal(t, 2, rec.HBA)
	assert.Equal(t, 0, rec.RotatableBonds)
	// Carbonyl plus hydroxyl oxygen.
	assert.InDelta(t, 37.30, rec.PolarSurfaceArea, 1e-6)
}

func TestParse_PropylbenzeneRotatableBonds(t *testing.T) {
	rec, err := NewSMILESProvider().Parse("CCCc1ccccc1")
	require.NoError(t, err)

	assert.Equal(t, 2, rec.RotatableBonds, "terminal methyl and ring bonds never rotate")
	assert.Equal(t, 1, rec.RingCount)
}

func TestParse_FusedRingsCount(t *testing.T) {
	// Naphthalene: two fused rings.
	rec, err := NewSMILESProvider().Parse("c1ccc2ccccc2c1")
	require.NoError(t, err)

	assert.Equal(t, "C10H8", rec.Formula)
	assert.Equal(t, 2, rec.RingCount)
}

func TestParse_BracketAtomsAndCharges(t *testing.T) {
	rec, err := NewSMILESProvider().Parse("[NH4+]")
	require.NoError(t, err)
	assert.Equal(t, "H4N", rec.Formula)
	assert.Equal(t, 1, rec.FormalCharge)
	assert.Equal(t, 4, rec.NHOHCount)

	salt, err := NewSMILESProvider().Parse("[Na+].[Cl-]")
	require.NoError(t, err)
	assert.Equal(t, "ClNa", salt.Formula)
	assert.Equal(t, 0, salt.FormalCharge)
	assert.Equal(t, 2, salt.HeavyAtomCount)
	assert.Equal(t, 2, salt.HeteroatomCount)
	assert.Nil(t, salt.CSP3Fraction, "no carbons, so CSP3 is undefined")
}

func TestParse_TwoDigitRingClosure(t *testing.T) {
	rec, err := NewSMILESProvider().Parse("C%10CCCCC%10")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.RingCount)
	assert.Equal(t, "C6H12", rec.Formula)
}

func TestParse_InvalidStructures(t *testing.T) {
	cases := map[string]string{
		"empty":                "",
		"whitespace":           "   ",
		"unclosed ring":        "C1CC",
		"unmatched open":       "C(C",
		"unmatched close":      "CC)",
		"dangling bond":        "C=",
		"unknown element":      "[Xx]C",
		"unknown char":         "C?C",
		"bad ring number":      "C%1C",
		"unterminated bracket": "[NH4",
		"leading branch":       "(CC)",
		"self ring":            "C11",
	}

	p := NewSMILESProvider()
	for name, notation := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := p.Parse(notation)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidStructure(err), "got %v", err)
		})
	}
}

func TestParse_FloatDescriptorsCarryReportPrecision(t *testing.T) {
	// Additive contributions accumulate binary noise (benzene's raw MW is
	// 78.11399999999999); the record must hold the two-decimal value that
	// the report renders.
	for _, notation := range []string{"CCO", "c1ccccc1", "CC(=O)O", "CCCc1ccccc1"} {
		rec, err := NewSMILESProvider().Parse(notation)
		require.NoError(t, err, notation)

		values := []float64{
			rec.MolecularWeight, rec.PolarSurfaceArea,
			rec.PartitionCoefficient, rec.MolarRefractivity,
		}
		if rec.CSP3Fraction != nil {
			values = append(values, *rec.CSP3Fraction)
		}
		for _, v := range values {
			assert.Equal(t, math.Round(v*100)/100, v, "%s: %v not at two decimals", notation, v)
		}
	}
}

func TestParse_ExplicitHydrogenNodes(t *testing.T) {
	rec, err := NewSMILESProvider().Parse("[CH3][OH]")
	require.NoError(t, err)
	assert.Equal(t, "CH4O", rec.Formula)
	assert.Equal(t, 1, rec.HBD)
	assert.InDelta(t, 20.23, rec.PolarSurfaceArea, 1e-6)
}
