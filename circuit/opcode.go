package circuit

import (
	"strconv"
	"strings"
)

// Opcode identifies a gate in the closed instruction set.
type Opcode uint8

const (
	OpInvalid Opcode = iota
	OpI
	OpH
	OpX
	OpY
	OpZ
	OpS
	OpSi
	OpT
	OpTi
	OpV
	OpVi
	OpRx
	OpRy
	OpRz
	OpPhaseShift
	OpU2
	OpU3
	OpCNot
	OpSwap
	OpISwap
	OpPSwap
	OpXY
	OpCPhaseShift
	OpCPhaseShift00
	OpCPhaseShift01
	OpCPhaseShift10
	OpCY
	OpCZ
	OpXX
	OpYY
	OpZZ
	OpCCNot
	OpCSwap

	numOpcodes
)

// OpInfo is one row of the opcode table.
type OpInfo struct {
	Name        string   // canonical name, e.g. "CNot"
	QASM        []string // accepted QASM 2.0 mnemonics; the first is emitted
	Arity       int      // operand count
	Params      int      // parameter count
	SelfInverse bool     // g∘g = identity
}

var opTable = [numOpcodes]OpInfo{
	OpI:             {Name: "I", QASM: []string{"id", "i"}, Arity: 1},
	OpH:             {Name: "H", QASM: []string{"h"}, Arity: 1, SelfInverse: true},
	OpX:             {Name: "X", QASM: []string{"x"}, Arity: 1, SelfInverse: true},
	OpY:             {Name: "Y", QASM: []string{"y"}, Arity: 1, SelfInverse: true},
	OpZ:             {Name: "Z", QASM: []string{"z"}, Arity: 1, SelfInverse: true},
	OpS:             {Name: "S", QASM: []string{"s"}, Arity: 1},
	OpSi:            {Name: "Si", QASM: []string{"sdg"}, Arity: 1},
	OpT:             {Name: "T", QASM: []string{"t"}, Arity: 1},
	OpTi:            {Name: "Ti", QASM: []string{"tdg"}, Arity: 1},
	OpV:             {Name: "V", QASM: []string{"sx"}, Arity: 1},
	OpVi:            {Name: "Vi", QASM: []string{"sxdg"}, Arity: 1},
	OpRx:            {Name: "Rx", QASM: []string{"rx"}, Arity: 1, Params: 1},
	OpRy:            {Name: "Ry", QASM: []string{"ry"}, Arity: 1, Params: 1},
	OpRz:            {Name: "Rz", QASM: []string{"rz"}, Arity: 1, Params: 1},
	OpPhaseShift:    {Name: "PhaseShift", QASM: []string{"p", "u1"}, Arity: 1, Params: 1},
	OpU2:            {Name: "U2", QASM: []string{"u2"}, Arity: 1, Params: 2},
	OpU3:            {Name: "U3", QASM: []string{"u3", "u"}, Arity: 1, Params: 3},
	OpCNot:          {Name: "CNot", QASM: []string{"cx", "cnot"}, Arity: 2, SelfInverse: true},
	OpSwap:          {Name: "Swap", QASM: []string{"swap"}, Arity: 2, SelfInverse: true},
	OpISwap:         {Name: "ISwap", QASM: []string{"iswap"}, Arity: 2},
	OpPSwap:         {Name: "PSwap", QASM: []string{"pswap"}, Arity: 2, Params: 1},
	OpXY:            {Name: "XY", QASM: []string{"xy"}, Arity: 2, Params: 1},
	OpCPhaseShift:   {Name: "CPhaseShift", QASM: []string{"cp", "cu1"}, Arity: 2, Params: 1},
	OpCPhaseShift00: {Name: "CPhaseShift00", QASM: []string{"cphaseshift00"}, Arity: 2, Params: 1},
	OpCPhaseShift01: {Name: "CPhaseShift01", QASM: []string{"cphaseshift01"}, Arity: 2, Params: 1},
	OpCPhaseShift10: {Name: "CPhaseShift10", QASM: []string{"cphaseshift10"}, Arity: 2, Params: 1},
	OpCY:            {Name: "CY", QASM: []string{"cy"}, Arity: 2, SelfInverse: true},
	OpCZ:            {Name: "CZ", QASM: []string{"cz"}, Arity: 2, SelfInverse: true},
	OpXX:            {Name: "XX", QASM: []string{"rxx"}, Arity: 2, Params: 1},
	OpYY:            {Name: "YY", QASM: []string{"ryy"}, Arity: 2, Params: 1},
	OpZZ:            {Name: "ZZ", QASM: []string{"rzz"}, Arity: 2, Params: 1},
	OpCCNot:         {Name: "CCNot", QASM: []string{"ccx", "toffoli"}, Arity: 3, SelfInverse: true},
	OpCSwap:         {Name: "CSwap", QASM: []string{"cswap", "fredkin"}, Arity: 3, SelfInverse: true},
}

// Lookup tables built once from opTable.
var (
	opByName = make(map[string]Opcode, numOpcodes)
	opByQASM = make(map[string]Opcode, 2*numOpcodes)
)

func init() {
	for op := OpI; op < numOpcodes; op++ {
		info := opTable[op]
		opByName[strings.ToLower(info.Name)] = op
		for _, mnemonic := range info.QASM {
			opByQASM[mnemonic] = op
		}
	}
}

// Known reports whether op has a row in the opcode table.
func (op Opcode) Known() bool {
	return op > OpInvalid && op < numOpcodes
}

// Info returns the table row for op. ok is false for opcodes outside the table.
func (op Opcode) Info() (info OpInfo, ok bool) {
	if !op.Known() {
		return OpInfo{}, false
	}
	return opTable[op], true
}

// Arity returns the operand count of op, or 0 if op is unknown.
func (op Opcode) Arity() int {
	if !op.Known() {
		return 0
	}
	return opTable[op].Arity
}

// SelfInverse reports whether op is tagged self-inverse in the opcode table.
func (op Opcode) SelfInverse() bool {
	return op.Known() && opTable[op].SelfInverse
}

func (op Opcode) String() string {
	if !op.Known() {
		return "Opcode(" + strconv.Itoa(int(op)) + ")"
	}
	return opTable[op].Name
}

// Mnemonic returns the QASM 2.0 mnemonic emitted for op.
func (op Opcode) Mnemonic() string {
	if !op.Known() {
		return ""
	}
	return opTable[op].QASM[0]
}

// ParseOpcode resolves a canonical name ("CNot") or QASM mnemonic ("cx"),
// case-insensitively.
func ParseOpcode(name string) (Opcode, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if op, ok := opByQASM[key]; ok {
		return op, true
	}
	op, ok := opByName[key]
	return op, ok
}

// Opcodes returns every known opcode in table order.
func Opcodes() []Opcode {
	ops := make([]Opcode, 0, numOpcodes-1)
	for op := OpI; op < numOpcodes; op++ {
		ops = append(ops, op)
	}
	return ops
}
