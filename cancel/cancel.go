// Package cancel removes adjacent pairs of identical self-inverse
// single-qubit gates.
//
// Each qubit's timeline is scanned on its own. Only solo entries are
// candidates; a multi-qubit instruction on the qubit closes the window, so
// pairs never span or touch a multi-qubit endpoint. Removing a pair can make
// its neighbours adjacent, and those are considered in turn.
package cancel

import (
	"qtermopt/circuit"
)

// Cancel decides, from the timelines of a circuit, which instructions
// survive. An instruction is dropped iff every timeline containing it marks
// it dropped.
func Cancel(t circuit.Timelines) circuit.KeepMask {
	marks := make([]int, t.NumInstructions)
	seen := make([]int, t.NumInstructions)

	for _, line := range t.Qubits {
		var stack []circuit.Entry
		for _, e := range line {
			seen[e.Index]++
			if e.Role != circuit.RoleSolo {
				stack = stack[:0]
				continue
			}
			if top := len(stack) - 1; top >= 0 && stack[top].Op == e.Op && e.Op.SelfInverse() {
				marks[stack[top].Index]++
				marks[e.Index]++
				stack = stack[:top]
				continue
			}
			stack = append(stack, e)
		}
	}

	keep := make(circuit.KeepMask, t.NumInstructions)
	for i := range keep {
		keep[i] = seen[i] == 0 || marks[i] < seen[i]
	}
	return keep
}

// Apply projects c, cancels, and rebuilds the survivors.
func Apply(c *circuit.Circuit) (*circuit.Circuit, circuit.KeepMask, error) {
	keep := Cancel(circuit.Project(c))
	out, err := circuit.Rebuild(c, keep, nil)
	if err != nil {
		return nil, nil, err
	}
	return out, keep, nil
}
