package descriptor

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/molsift/molsift/pkg/types/compound"
)

// atomicWeight covers the organic subset plus the bracket elements common in
// pharmaceutical salts.  Parsing rejects anything outside this table.
var atomicWeight = map[string]float64{
	"H": 1.008, "B": 10.811, "C": 12.011, "N": 14.007, "O": 15.999,
	"F": 18.998, "Si": 28.086, "P": 30.974, "S": 32.065,
	"Cl": 35.453, "Br": 79.904, "I": 126.904,
	"Se": 78.971, "As": 74.922,
	"Li": 6.94, "Na": 22.990, "K": 39.098,
	"Mg": 24.305, "Ca": 40.078, "Zn": 65.38, "Fe": 55.845,
}

// defaultValence drives implicit hydrogen counts for organic-subset atoms.
// Bracket atoms carry explicit hydrogen counts and never consult this table.
var defaultValence = map[string]int{
	"B": 3, "C": 4, "N": 3, "O": 2, "P": 3, "S": 2,
	"F": 1, "Cl": 1, "Br": 1, "I": 1,
}

// crippenContribution holds additive WlogP and molar refractivity terms per
// simplified Wildman-Crippen atom class.
type crippenContribution struct {
	logP float64
	mr   float64
}

var (
	crippenCAliphatic = crippenContribution{0.1441, 2.503}
	crippenCHetero    = crippenContribution{-0.2035, 2.433} // sp3 carbon bonded to a heteroatom
	crippenCAromatic  = crippenContribution{0.1581, 3.350}
	crippenNAliphatic = crippenContribution{-1.0190, 2.262}
	crippenNAromatic  = crippenContribution{-0.3239, 2.202}
	crippenOHydroxyl  = crippenContribution{-0.2893, 0.8238}
	crippenOOther     = crippenContribution{-0.2051, 1.0750}
	crippenOAromatic  = crippenContribution{0.1552, 1.0800}
	crippenHOnCarbon  = crippenContribution{0.1230, 1.057}
	crippenHOnHetero  = crippenContribution{-0.2677, 1.395}

	crippenByElement = map[string]crippenContribution{
		"F": {0.4202, 1.108}, "Cl": {0.6895, 5.853},
		"Br": {0.8456, 8.927}, "I": {0.8857, 14.02},
		"S": {0.6482, 7.591}, "P": {0.8612, 6.920}, "B": {-0.3187, 3.784},
	}
)

// computeDescriptors derives the full descriptor set for a parsed molecule.
func computeDescriptors(m *molecule) *compound.DescriptorRecord {
	for i := range m.atoms {
		if !m.atoms[i].hExplicit {
			m.atoms[i].hcount = implicitHydrogens(m, i)
		}
	}

	rec := &compound.DescriptorRecord{}
	elementCounts := map[string]int{}
	totalH := 0
	sp3Carbons := 0

	for i, a := range m.atoms {
		rec.FormalCharge += a.charge
		if a.symbol == "H" {
			totalH++
			continue
		}
		totalH += a.hcount
		rec.HeavyAtomCount++
		elementCounts[a.symbol]++
		rec.MolecularWeight += atomicWeight[a.symbol]

		nH := attachedHydrogens(m, i)
		switch a.symbol {
		case "C":
			rec.CarbonCount++
			if isSP3Carbon(m, i) {
				sp3Carbons++
			}
		case "N", "O":
			rec.NOCount++
			rec.NHOHCount += nH
			if nH > 0 {
				rec.HBD++
			}
			if !(a.aromatic && nH > 0) {
				rec.HBA++
			}
		}
		if a.symbol != "C" {
			rec.HeteroatomCount++
		}

		rec.PolarSurfaceArea += tpsaContribution(m, i)
		contrib := crippenClass(m, i)
		rec.PartitionCoefficient += contrib.logP
		rec.MolarRefractivity += contrib.mr

		hc := crippenHOnHetero
		if a.symbol == "C" {
			hc = crippenHOnCarbon
		}
		rec.PartitionCoefficient += float64(nH) * hc.logP
		rec.MolarRefractivity += float64(nH) * hc.mr
	}

	rec.AtomCount = rec.HeavyAtomCount + totalH
	rec.MolecularWeight += float64(totalH) * atomicWeight["H"]
	rec.Formula = hillFormula(elementCounts, totalH)
	rec.RingCount = ringCount(m)
	rec.RotatableBonds = rotatableBonds(m)
	if rec.CarbonCount > 0 {
		rec.CSP3Fraction = compound.Float64Ptr(round2(float64(sp3Carbons) / float64(rec.CarbonCount)))
	}

	// Float descriptors are defined at report precision (two decimals).
	// Rounding once here keeps rule evaluation, violation messages, and the
	// rendered block in exact agreement.
	rec.PolarSurfaceArea = round2(rec.PolarSurfaceArea)
	rec.PartitionCoefficient = round2(rec.PartitionCoefficient)
	rec.MolecularWeight = round2(rec.MolecularWeight)
	rec.MolarRefractivity = round2(rec.MolarRefractivity)
	return rec
}

// round2 rounds to two decimals, normalising negative zero.
func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return r
}

// implicitHydrogens fills valence for organic-subset atoms.  Aromatic bonds
// count 1.5 toward the bond order sum, so an unsubstituted aromatic carbon
// (two ring bonds, sum 3) keeps one hydrogen.
func implicitHydrogens(m *molecule, i int) int {
	valence, ok := defaultValence[m.atoms[i].symbol]
	if !ok {
		return 0
	}
	sum := 0.0
	for _, bi := range m.adj[i] {
		b := m.bonds[bi]
		if b.aromatic {
			sum += 1.5
		} else {
			sum += float64(b.order)
		}
	}
	h := valence - int(math.Ceil(sum))
	if h < 0 {
		return 0
	}
	return h
}

// attachedHydrogens counts implicit hydrogens plus bonded explicit [H] atoms.
func attachedHydrogens(m *molecule, i int) int {
	n := m.atoms[i].hcount
	for _, bi := range m.adj[i] {
		if m.atoms[m.bonds[bi].other(i)].symbol == "H" {
			n++
		}
	}
	return n
}

func isSP3Carbon(m *molecule, i int) bool {
	if m.atoms[i].aromatic {
		return false
	}
	for _, bi := range m.adj[i] {
		if m.bonds[bi].order > 1 || m.bonds[bi].aromatic {
			return false
		}
	}
	return true
}

func hasBondOrder(m *molecule, i, order int) bool {
	for _, bi := range m.adj[i] {
		if m.bonds[bi].order == order && !m.bonds[bi].aromatic {
			return true
		}
	}
	return false
}

func hasHeteroNeighbor(m *molecule, i int) bool {
	for _, bi := range m.adj[i] {
		sym := m.atoms[m.bonds[bi].other(i)].symbol
		if sym != "C" && sym != "H" {
			return true
		}
	}
	return false
}

func heavyDegree(m *molecule, i int) int {
	n := 0
	for _, bi := range m.adj[i] {
		if m.atoms[m.bonds[bi].other(i)].symbol != "H" {
			n++
		}
	}
	return n
}

// ringCount is the cyclomatic number of the molecular graph, which equals
// the smallest-set-of-smallest-rings size for the structures this parser
// accepts.
func ringCount(m *molecule) int {
	components := 0
	seen := make([]bool, len(m.atoms))
	for start := range m.atoms {
		if seen[start] {
			continue
		}
		components++
		queue := []int{start}
		seen[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, bi := range m.adj[cur] {
				next := m.bonds[bi].other(cur)
				if !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
	}
	return len(m.bonds) - len(m.atoms) + components
}

// inRing reports whether bond bi lies on a cycle: its endpoints stay
// connected when the bond is removed.
func inRing(m *molecule, bi int) bool {
	target := m.bonds[bi].b
	seen := make([]bool, len(m.atoms))
	queue := []int{m.bonds[bi].a}
	seen[m.bonds[bi].a] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == target {
			return true
		}
		for _, bj := range m.adj[cur] {
			if bj == bi {
				continue
			}
			next := m.bonds[bj].other(cur)
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// rotatableBonds counts acyclic single bonds whose endpoints each connect to
// at least one further heavy atom, so bonds to terminal groups never count.
func rotatableBonds(m *molecule) int {
	n := 0
	for bi, b := range m.bonds {
		if b.order != 1 || b.aromatic {
			continue
		}
		if m.atoms[b.a].symbol == "H" || m.atoms[b.b].symbol == "H" {
			continue
		}
		if heavyDegree(m, b.a) < 2 || heavyDegree(m, b.b) < 2 {
			continue
		}
		if inRing(m, bi) {
			continue
		}
		n++
	}
	return n
}

// tpsaContribution returns the polar surface area term for one atom, using
// the common fragment values for nitrogen, oxygen, sulfur, and phosphorus.
func tpsaContribution(m *molecule, i int) float64 {
	a := m.atoms[i]
	nH := attachedHydrogens(m, i)
	switch a.symbol {
	case "N":
		if a.aromatic {
			if nH > 0 {
				return 15.79
			}
			return 12.89
		}
		if hasBondOrder(m, i, 3) {
			return 23.79
		}
		if hasBondOrder(m, i, 2) {
			if nH > 0 {
				return 23.85
			}
			return 12.36
		}
		switch nH {
		case 0:
			return 3.24
		case 1:
			return 12.03
		default:
			return 26.02
		}
	case "O":
		if a.aromatic {
			return 13.14
		}
		if hasBondOrder(m, i, 2) {
			return 17.07
		}
		if nH > 0 {
			return 20.23
		}
		return 9.23
	case "S":
		if a.aromatic {
			return 28.24
		}
		if hasBondOrder(m, i, 2) {
			return 32.09
		}
		return 25.30
	case "P":
		return 13.59
	default:
		return 0
	}
}

// crippenClass assigns the additive WlogP and refractivity contribution for
// one heavy atom.
func crippenClass(m *molecule, i int) crippenContribution {
	a := m.atoms[i]
	switch a.symbol {
	case "C":
		if a.aromatic {
			return crippenCAromatic
		}
		if hasHeteroNeighbor(m, i) {
			return crippenCHetero
		}
		return crippenCAliphatic
	case "N":
		if a.aromatic {
			return crippenNAromatic
		}
		return crippenNAliphatic
	case "O":
		if a.aromatic {
			return crippenOAromatic
		}
		if attachedHydrogens(m, i) > 0 {
			return crippenOHydroxyl
		}
		return crippenOOther
	default:
		return crippenByElement[a.symbol]
	}
}

// hillFormula renders element counts in Hill order: carbon, hydrogen, then
// remaining elements alphabetically.
func hillFormula(counts map[string]int, totalH int) string {
	var sb strings.Builder
	write := func(sym string, n int) {
		if n <= 0 {
			return
		}
		sb.WriteString(sym)
		if n > 1 {
			sb.WriteString(strconv.Itoa(n))
		}
	}

	if counts["C"] > 0 {
		write("C", counts["C"])
		write("H", totalH)
	}

	rest := make([]string, 0, len(counts))
	for sym := range counts {
		if sym == "C" {
			continue
		}
		rest = append(rest, sym)
	}
	if counts["C"] == 0 && totalH > 0 {
		rest = append(rest, "H")
	}
	sort.Strings(rest)
	for _, sym := range rest {
		if sym == "H" && counts["C"] == 0 {
			write("H", totalH)
			continue
		}
		write(sym, counts[sym])
	}
	return sb.String()
}
