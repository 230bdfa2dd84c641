package circuit

import (
	"fmt"
	"slices"
	"strings"
)

// MaxArity is the largest operand count an instruction may carry.
const MaxArity = 3

// Instruction is one gate application. Operand order is significant:
// controls precede targets.
type Instruction struct {
	Op       Opcode
	Operands []int
	Params   []float64
}

// Gate builds an instruction without parameters.
func Gate(op Opcode, operands ...int) Instruction {
	return Instruction{Op: op, Operands: operands}
}

// ParamGate builds an instruction with parameters.
func ParamGate(op Opcode, params []float64, operands ...int) Instruction {
	return Instruction{Op: op, Operands: operands, Params: params}
}

// Clone returns a deep copy of the instruction.
func (in Instruction) Clone() Instruction {
	return Instruction{
		Op:       in.Op,
		Operands: slices.Clone(in.Operands),
		Params:   slices.Clone(in.Params),
	}
}

// Equal reports whether two instructions match exactly, parameters included.
func (in Instruction) Equal(other Instruction) bool {
	return in.Op == other.Op &&
		slices.Equal(in.Operands, other.Operands) &&
		slices.Equal(in.Params, other.Params)
}

func (in Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(in.Op.String())
	if len(in.Params) > 0 {
		sb.WriteString("(")
		for i, p := range in.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(formatParam(p))
		}
		sb.WriteString(")")
	}
	for i, q := range in.Operands {
		if i == 0 {
			sb.WriteString(" ")
		} else {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "q[%d]", q)
	}
	return sb.String()
}

// Circuit is an immutable ordered instruction stream over a fixed number of
// qubits. Every operand lies in [0, NumQubits).
type Circuit struct {
	numQubits    int
	instructions []Instruction
}

// New validates instrs against a register of n qubits and returns a circuit
// holding its own copy of them.
func New(n int, instrs []Instruction) (*Circuit, error) {
	if n < 0 {
		return nil, errorf(ErrInvalidOperand, -1, "negative qubit count %d", n)
	}
	c := &Circuit{numQubits: n, instructions: make([]Instruction, len(instrs))}
	for i, in := range instrs {
		if err := validate(i, in, n); err != nil {
			return nil, err
		}
		c.instructions[i] = in.Clone()
	}
	return c, nil
}

// MustNew is New for fixed inputs; it panics on validation failure.
func MustNew(n int, instrs ...Instruction) *Circuit {
	c, err := New(n, instrs)
	if err != nil {
		panic(err)
	}
	return c
}

// validate checks the structural invariants of a single instruction. Opcodes
// missing from the table pass; the rebuilder rejects them.
func validate(index int, in Instruction, n int) error {
	if len(in.Operands) == 0 || len(in.Operands) > MaxArity {
		return errorf(ErrInvalidOperand, index, "%s has %d operands, want 1..%d", in.Op, len(in.Operands), MaxArity)
	}
	for pos, q := range in.Operands {
		if q < 0 || q >= n {
			return errorf(ErrInvalidOperand, index, "operand %d is q[%d], register has %d qubits", pos, q, n)
		}
		if slices.Contains(in.Operands[:pos], q) {
			return errorf(ErrInvalidOperand, index, "q[%d] appears twice", q)
		}
	}
	info, ok := in.Op.Info()
	if !ok {
		return nil
	}
	if len(in.Operands) != info.Arity {
		return errorf(ErrInvalidOperand, index, "%s takes %d operands, got %d", info.Name, info.Arity, len(in.Operands))
	}
	if len(in.Params) != info.Params {
		return errorf(ErrInvalidParameter, index, "%s takes %d parameters, got %d", info.Name, info.Params, len(in.Params))
	}
	return nil
}

// NumQubits returns the register size fixed at construction.
func (c *Circuit) NumQubits() int { return c.numQubits }

// Len returns the number of instructions.
func (c *Circuit) Len() int { return len(c.instructions) }

// At returns a copy of the instruction at program index i.
func (c *Circuit) At(i int) Instruction { return c.instructions[i].Clone() }

// Instructions returns a copy of the instruction stream.
func (c *Circuit) Instructions() []Instruction {
	out := make([]Instruction, len(c.instructions))
	for i, in := range c.instructions {
		out[i] = in.Clone()
	}
	return out
}

// Equal reports whether both circuits have the same register size and the
// same instructions in the same order.
func (c *Circuit) Equal(other *Circuit) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.numQubits == other.numQubits &&
		slices.EqualFunc(c.instructions, other.instructions, Instruction.Equal)
}

// CountOps tallies instructions by opcode.
func (c *Circuit) CountOps() map[Opcode]int {
	counts := make(map[Opcode]int)
	for _, in := range c.instructions {
		counts[in.Op]++
	}
	return counts
}

func (c *Circuit) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "circuit(%d qubits, %d instructions)", c.numQubits, len(c.instructions))
	for i, in := range c.instructions {
		fmt.Fprintf(&sb, "\n  %3d: %s", i, in)
	}
	return sb.String()
}
