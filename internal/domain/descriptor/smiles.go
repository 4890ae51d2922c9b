package descriptor

import (
	"fmt"
	"strings"

	"github.com/molsift/molsift/pkg/errors"
)

// atom is one parsed atom node.  Bracket atoms carry an exact hydrogen
// count; organic-subset atoms get implicit hydrogens from default valences.
type atom struct {
	symbol    string // element symbol, canonical case ("C", "Cl", "N")
	aromatic  bool
	charge    int
	hcount    int
	hExplicit bool // true for bracket atoms: hcount is authoritative
}

type bond struct {
	a, b     int
	order    int // 1, 2, or 3; aromatic bonds are order 1 with the flag set
	aromatic bool
	closure  bool // created by a ring-closure digit
}

type molecule struct {
	atoms []atom
	bonds []bond
	adj   [][]int // bond indices per atom
}

func (m *molecule) addAtom(a atom) int {
	m.atoms = append(m.atoms, a)
	m.adj = append(m.adj, nil)
	return len(m.atoms) - 1
}

func (m *molecule) addBond(b bond) {
	// Aromatic perception: an undecorated bond between two aromatic atoms
	// is aromatic.
	if !b.aromatic && b.order == 1 && m.atoms[b.a].aromatic && m.atoms[b.b].aromatic {
		b.aromatic = true
	}
	idx := len(m.bonds)
	m.bonds = append(m.bonds, b)
	m.adj[b.a] = append(m.adj[b.a], idx)
	m.adj[b.b] = append(m.adj[b.b], idx)
}

func (b bond) other(i int) int {
	if b.a == i {
		return b.b
	}
	return b.a
}

// organicSubset maps bare (non-bracket) atom spellings to element symbol and
// aromatic flag.  Two-letter symbols must be matched before one-letter ones.
var organicSubset = []struct {
	token    string
	symbol   string
	aromatic bool
}{
	{"Cl", "Cl", false},
	{"Br", "Br", false},
	{"B", "B", false},
	{"C", "C", false},
	{"N", "N", false},
	{"O", "O", false},
	{"P", "P", false},
	{"S", "S", false},
	{"F", "F", false},
	{"I", "I", false},
	{"b", "B", true},
	{"c", "C", true},
	{"n", "N", true},
	{"o", "O", true},
	{"p", "P", true},
	{"s", "S", true},
}

func invalid(notation, reason string) error {
	return errors.InvalidStructure(reason).WithDetail("notation=" + notation)
}

type ringRef struct {
	atom     int
	order    int
	aromatic bool
	set      bool // an explicit bond symbol preceded the closure digit
}

// parseSMILES builds the molecular graph for a SMILES string.  It enforces
// structural validity (matched branches, closed rings, known elements, no
// dangling bonds) and fails with InvalidStructure otherwise.
func parseSMILES(notation string) (*molecule, error) {
	s := strings.TrimSpace(notation)
	if s == "" {
		return nil, invalid(notation, "empty notation")
	}

	mol := &molecule{}
	prev := -1
	var stack []int
	ringOpen := map[int]ringRef{}

	pendingOrder := 0
	pendingAromatic := false
	resetPending := func() {
		pendingOrder = 0
		pendingAromatic = false
	}
	bondPending := func() bool { return pendingOrder != 0 || pendingAromatic }

	attach := func(idx int) {
		if prev >= 0 {
			order := pendingOrder
			if order == 0 {
				order = 1
			}
			mol.addBond(bond{a: prev, b: idx, order: order, aromatic: pendingAromatic})
		}
		prev = idx
		resetPending()
	}

	closeRing := func(num int) error {
		if prev < 0 {
			return invalid(notation, "ring closure before any atom")
		}
		ref, open := ringOpen[num]
		if !open {
			ringOpen[num] = ringRef{atom: prev, order: pendingOrder, aromatic: pendingAromatic, set: bondPending()}
			resetPending()
			return nil
		}
		delete(ringOpen, num)
		if ref.atom == prev {
			return invalid(notation, "ring closure bonds an atom to itself")
		}
		order, aromatic := ref.order, ref.aromatic
		if bondPending() {
			if ref.set && (order != pendingOrder || aromatic != pendingAromatic) {
				return invalid(notation, "conflicting bond symbols on ring closure")
			}
			order, aromatic = pendingOrder, pendingAromatic
		}
		if order == 0 {
			order = 1
		}
		mol.addBond(bond{a: ref.atom, b: prev, order: order, aromatic: aromatic, closure: true})
		resetPending()
		return nil
	}

	i := 0
	for i < len(s) {
		ch := s[i]
		switch {
		case ch == '(':
			if prev < 0 {
				return nil, invalid(notation, "branch opens before any atom")
			}
			stack = append(stack, prev)
			i++
		case ch == ')':
			if len(stack) == 0 {
				return nil, invalid(notation, "unmatched closing parenthesis")
			}
			if bondPending() {
				return nil, invalid(notation, "bond symbol before closing parenthesis")
			}
			prev = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			i++
		case ch == '-' || ch == '/' || ch == '\\':
			pendingOrder = 1
			i++
		case ch == '=':
			pendingOrder = 2
			i++
		case ch == '#':
			pendingOrder = 3
			i++
		case ch == ':':
			pendingOrder = 1
			pendingAromatic = true
			i++
		case ch == '.':
			if bondPending() {
				return nil, invalid(notation, "bond symbol before fragment separator")
			}
			prev = -1
			i++
		case ch >= '0' && ch <= '9':
			if err := closeRing(int(ch - '0')); err != nil {
				return nil, err
			}
			i++
		case ch == '%':
			if i+2 >= len(s) || !isDigit(s[i+1]) || !isDigit(s[i+2]) {
				return nil, invalid(notation, "malformed two-digit ring closure")
			}
			num := int(s[i+1]-'0')*10 + int(s[i+2]-'0')
			if err := closeRing(num); err != nil {
				return nil, err
			}
			i += 3
		case ch == '[':
			a, width, err := parseBracketAtom(s[i:], notation)
			if err != nil {
				return nil, err
			}
			attach(mol.addAtom(a))
			i += width
		default:
			matched := false
			for _, entry := range organicSubset {
				if strings.HasPrefix(s[i:], entry.token) {
					attach(mol.addAtom(atom{symbol: entry.symbol, aromatic: entry.aromatic}))
					i += len(entry.token)
					matched = true
					break
				}
			}
			if !matched {
				return nil, invalid(notation, fmt.Sprintf("unexpected character %q", ch))
			}
		}
	}

	if len(stack) > 0 {
		return nil, invalid(notation, "unmatched opening parenthesis")
	}
	if len(ringOpen) > 0 {
		return nil, invalid(notation, "unclosed ring bond")
	}
	if bondPending() {
		return nil, invalid(notation, "dangling bond at end of notation")
	}
	if len(mol.atoms) == 0 {
		return nil, invalid(notation, "notation contains no atoms")
	}
	return mol, nil
}

// parseBracketAtom parses a bracket atom expression starting at s[0] == '['
// and returns the atom plus the number of bytes consumed.
func parseBracketAtom(s, notation string) (atom, int, error) {
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return atom{}, 0, invalid(notation, "unterminated bracket atom")
	}
	body := s[1:end]
	j := 0

	// Optional isotope. Mass numbers do not affect the descriptor set.
	for j < len(body) && isDigit(body[j]) {
		j++
	}

	var a atom
	switch {
	case j < len(body) && body[j] >= 'A' && body[j] <= 'Z':
		sym := string(body[j])
		j++
		if j < len(body) && body[j] >= 'a' && body[j] <= 'z' {
			two := sym + string(body[j])
			if _, known := atomicWeight[two]; known {
				sym = two
				j++
			}
		}
		a.symbol = sym
	case j < len(body) && strings.ContainsRune("bcnops", rune(body[j])):
		a.symbol = strings.ToUpper(string(body[j]))
		a.aromatic = true
		j++
	default:
		return atom{}, 0, invalid(notation, "bracket atom has no element symbol")
	}
	if _, known := atomicWeight[a.symbol]; !known {
		return atom{}, 0, invalid(notation, fmt.Sprintf("unknown element %q", a.symbol))
	}

	// Optional chirality marker, ignored.
	for j < len(body) && body[j] == '@' {
		j++
	}

	a.hExplicit = true
	if j < len(body) && body[j] == 'H' {
		j++
		a.hcount = 1
		if j < len(body) && isDigit(body[j]) {
			a.hcount = int(body[j] - '0')
			j++
		}
	}

	if j < len(body) && (body[j] == '+' || body[j] == '-') {
		sign := 1
		if body[j] == '-' {
			sign = -1
		}
		mark := body[j]
		j++
		magnitude := 1
		if j < len(body) && isDigit(body[j]) {
			magnitude = int(body[j] - '0')
			j++
		} else {
			for j < len(body) && body[j] == mark {
				magnitude++
				j++
			}
		}
		a.charge = sign * magnitude
	}

	// Optional atom class, ignored.
	if j < len(body) && body[j] == ':' {
		j++
		if j >= len(body) || !isDigit(body[j]) {
			return atom{}, 0, invalid(notation, "malformed atom class")
		}
		for j < len(body) && isDigit(body[j]) {
			j++
		}
	}

	if j != len(body) {
		return atom{}, 0, invalid(notation, fmt.Sprintf("trailing characters in bracket atom %q", body))
	}
	return a, end + 1, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
