// Package descriptor computes molecular descriptors from SMILES notations.
//
// The built-in provider is an approximate, dependency-free calculator: counts
// (atoms, rings, donors, acceptors) are exact for the supported SMILES
// subset, while TPSA, WlogP, and molar refractivity use additive atomic
// contribution tables.  Callers needing research-grade values can supply
// their own Provider backed by a full cheminformatics toolkit.
package descriptor

import (
	"github.com/molsift/molsift/pkg/types/compound"
)

// Provider turns a structure notation into a DescriptorRecord.  A notation
// that does not encode a valid structure fails with an InvalidStructure
// error; that is the only failure mode.
type Provider interface {
	Parse(notation string) (*compound.DescriptorRecord, error)
}

// SMILESProvider is the built-in Provider over a practical SMILES subset:
// organic-subset and bracket atoms, branches, ring closures (including %nn),
// bond symbols, and dot-separated fragments.
type SMILESProvider struct{}

// NewSMILESProvider returns the built-in provider.  It is stateless and safe
// for concurrent use.
func NewSMILESProvider() *SMILESProvider {
	return &SMILESProvider{}
}

// Parse computes the full descriptor set for notation.  The returned record
// has no Name; the caller owns compound naming.
func (p *SMILESProvider) Parse(notation string) (*compound.DescriptorRecord, error) {
	mol, err := parseSMILES(notation)
	if err != nil {
		return nil, err
	}
	return computeDescriptors(mol), nil
}
