package circuit

// Role is a qubit's part in one instruction.
type Role uint8

const (
	RoleSolo   Role = iota // single-qubit instruction
	RoleFirst              // first operand of a multi-qubit instruction
	RoleSecond             // any later operand of a multi-qubit instruction
)

func (r Role) String() string {
	switch r {
	case RoleSolo:
		return "solo"
	case RoleFirst:
		return "first"
	case RoleSecond:
		return "second"
	default:
		return "role?"
	}
}

// Entry is one instruction as seen from a single qubit.
type Entry struct {
	Index  int       // program index of the instruction
	Role   Role      // this qubit's part in it
	Pos    int       // operand position of this qubit
	Arity  int       // operand count of the instruction
	Op     Opcode    // opcode of the instruction
	Params []float64 // shared across the instruction's entries; read-only
}

// Timelines is the per-qubit projection of a circuit.
type Timelines struct {
	NumInstructions int
	Qubits          [][]Entry // indexed by qubit, in program order
}

// Project builds the per-qubit timelines of c. Every instruction appears on
// the timeline of each of its operands and nowhere else.
func Project(c *Circuit) Timelines {
	t := Timelines{
		NumInstructions: c.Len(),
		Qubits:          make([][]Entry, c.NumQubits()),
	}
	for i, in := range c.instructions {
		arity := len(in.Operands)
		for pos, q := range in.Operands {
			role := RoleSecond
			switch {
			case arity == 1:
				role = RoleSolo
			case pos == 0:
				role = RoleFirst
			}
			t.Qubits[q] = append(t.Qubits[q], Entry{
				Index:  i,
				Role:   role,
				Pos:    pos,
				Arity:  arity,
				Op:     in.Op,
				Params: in.Params,
			})
		}
	}
	return t
}

// Reassemble rebuilds the circuit a set of timelines was projected from.
func Reassemble(t Timelines) (*Circuit, error) {
	instrs := make([]Instruction, t.NumInstructions)
	seen := make([]int, t.NumInstructions)
	for q, line := range t.Qubits {
		for _, e := range line {
			if e.Index < 0 || e.Index >= t.NumInstructions {
				return nil, errorf(ErrInvalidOperand, e.Index, "timeline of q[%d] references a missing instruction", q)
			}
			in := &instrs[e.Index]
			if in.Operands == nil {
				in.Op = e.Op
				in.Params = e.Params
				in.Operands = make([]int, e.Arity)
			}
			if e.Pos < 0 || e.Pos >= len(in.Operands) {
				return nil, errorf(ErrInvalidOperand, e.Index, "operand position %d out of range", e.Pos)
			}
			in.Operands[e.Pos] = q
			seen[e.Index]++
		}
	}
	for i, in := range instrs {
		if seen[i] != len(in.Operands) || len(in.Operands) == 0 {
			return nil, errorf(ErrInvalidOperand, i, "timelines cover %d of its operands", seen[i])
		}
	}
	return New(len(t.Qubits), instrs)
}
