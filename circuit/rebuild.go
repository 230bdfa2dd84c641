package circuit

import (
	"fmt"
	"slices"
	"strings"
)

// KeepMask marks, per program index, whether an instruction survives a
// rebuild. A nil mask keeps everything.
type KeepMask []bool

// KeepAll returns a mask that keeps n instructions.
func KeepAll(n int) KeepMask {
	m := make(KeepMask, n)
	for i := range m {
		m[i] = true
	}
	return m
}

// Dropped counts the instructions the mask removes.
func (m KeepMask) Dropped() int {
	n := 0
	for _, keep := range m {
		if !keep {
			n++
		}
	}
	return n
}

// Permutation maps logical qubit index to physical qubit index.
type Permutation []int

// Identity returns the identity permutation on n qubits.
func Identity(n int) Permutation {
	p := make(Permutation, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// IsBijection reports whether p maps {0..len(p)-1} onto itself.
func (p Permutation) IsBijection() bool {
	seen := make([]bool, len(p))
	for _, phys := range p {
		if phys < 0 || phys >= len(p) || seen[phys] {
			return false
		}
		seen[phys] = true
	}
	return true
}

// IsIdentity reports whether p maps every qubit to itself.
func (p Permutation) IsIdentity() bool {
	for i, phys := range p {
		if i != phys {
			return false
		}
	}
	return true
}

// Inverse returns the physical → logical mapping. p must be a bijection.
func (p Permutation) Inverse() Permutation {
	inv := make(Permutation, len(p))
	for logical, phys := range p {
		inv[phys] = logical
	}
	return inv
}

func (p Permutation) String() string {
	parts := make([]string, len(p))
	for logical, phys := range p {
		parts[logical] = fmt.Sprintf("%d→%d", logical, phys)
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Rebuild emits a new circuit holding the instructions of c that keep admits,
// in their original order, with every operand q replaced by perm[q]. Opcodes,
// operand order and parameters are carried over unchanged. A nil keep or perm
// means keep-all or identity.
func Rebuild(c *Circuit, keep KeepMask, perm Permutation) (*Circuit, error) {
	if keep != nil && len(keep) != c.Len() {
		return nil, DimensionError("keep mask covers %d instructions, circuit has %d", len(keep), c.Len())
	}
	if perm != nil {
		if len(perm) != c.NumQubits() {
			return nil, DimensionError("permutation covers %d qubits, circuit has %d", len(perm), c.NumQubits())
		}
		if !perm.IsBijection() {
			return nil, errorf(ErrInvalidPermutation, -1, "%v is not a bijection", perm)
		}
	}

	out := make([]Instruction, 0, c.Len())
	for i, in := range c.instructions {
		if !in.Op.Known() {
			return nil, errorf(ErrUnsupportedOpcode, i, "%s is not in the opcode table", in.Op)
		}
		if keep != nil && !keep[i] {
			continue
		}
		next := Instruction{
			Op:       in.Op,
			Operands: slices.Clone(in.Operands),
			Params:   slices.Clone(in.Params),
		}
		if perm != nil {
			for k, q := range next.Operands {
				next.Operands[k] = perm[q]
			}
		}
		out = append(out, next)
	}
	return &Circuit{numQubits: c.numQubits, instructions: out}, nil
}
