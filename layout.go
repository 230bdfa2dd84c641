package main

import "qtermopt/circuit"

// cellInfo describes what occupies a single cell in the circuit grid.
type cellInfo struct {
	instr       *circuit.Instruction // nil for an empty or pass-through cell
	index       int                  // program index of instr
	pos         int                  // operand position of this qubit in instr
	vertAbove   bool
	vertBelow   bool
	passThrough bool
	dropped     bool // removed by gate cancellation
}

// grid is the column layout of a circuit for drawing. Each instruction sits
// in one step; a multi-qubit instruction reserves every wire between its
// outermost operands so the connector can be drawn.
type grid struct {
	numQubits int
	steps     int
	cells     map[[2]int]cellInfo // keyed by (step, qubit)
}

// layoutCircuit packs instructions into the earliest step whose wires are
// free, keeping program order per wire. keep may be nil.
func layoutCircuit(c *circuit.Circuit, keep circuit.KeepMask) grid {
	g := grid{numQubits: c.NumQubits(), cells: make(map[[2]int]cellInfo)}
	next := make([]int, c.NumQubits())

	for i, in := range c.Instructions() {
		lo, hi := in.Operands[0], in.Operands[0]
		for _, q := range in.Operands {
			lo, hi = min(lo, q), max(hi, q)
		}
		step := 0
		for q := lo; q <= hi; q++ {
			step = max(step, next[q])
		}
		for q := lo; q <= hi; q++ {
			next[q] = step + 1
		}
		g.steps = max(g.steps, step+1)

		dropped := keep != nil && !keep[i]
		for q := lo; q <= hi; q++ {
			info := cellInfo{
				index:     i,
				pos:       -1,
				vertAbove: q > lo,
				vertBelow: q < hi,
				dropped:   dropped,
			}
			for pos, operand := range in.Operands {
				if operand == q {
					info.instr = &in
					info.pos = pos
				}
			}
			info.passThrough = info.instr == nil
			g.cells[[2]int{step, q}] = info
		}
	}
	return g
}

// at returns the cell at (step, qubit); the zero cellInfo is an empty wire.
func (g grid) at(step, qubit int) cellInfo {
	return g.cells[[2]int{step, qubit}]
}
