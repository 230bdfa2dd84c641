// Package gen builds sample circuits to feed the optimiser.
package gen

import (
	"fmt"
	"math"

	"qtermopt/circuit"
)

// QFT returns the quantum Fourier transform on n qubits. Qubits whose entry
// in input is 1 are flipped first to prepare a basis state; input may be
// shorter than n.
func QFT(n int, input []int) (*circuit.Circuit, error) {
	if len(input) > n {
		return nil, fmt.Errorf("qft: %d input bits for %d qubits", len(input), n)
	}
	var instrs []circuit.Instruction
	for q, bit := range input {
		if bit == 1 {
			instrs = append(instrs, circuit.Gate(circuit.OpX, q))
		}
	}
	for i := range n {
		instrs = append(instrs, circuit.Gate(circuit.OpH, i))
		for j := 1; j < n-i; j++ {
			angle := math.Pi / math.Pow(2, float64(j))
			instrs = append(instrs, circuit.ParamGate(circuit.OpCPhaseShift, []float64{angle}, i+j, i))
		}
	}
	return circuit.New(n, instrs)
}

// RepeatedGates returns a four-qubit circuit built from runs of Pauli and
// Hadamard gates; five of its nine instructions survive gate cancellation.
func RepeatedGates() *circuit.Circuit {
	return circuit.MustNew(4,
		circuit.Gate(circuit.OpH, 0),
		circuit.Gate(circuit.OpH, 0),
		circuit.Gate(circuit.OpH, 0),
		circuit.Gate(circuit.OpX, 1),
		circuit.Gate(circuit.OpH, 1),
		circuit.Gate(circuit.OpX, 1),
		circuit.Gate(circuit.OpY, 2),
		circuit.Gate(circuit.OpY, 2),
		circuit.Gate(circuit.OpZ, 3),
	)
}

// Names lists the generators reachable through ByName.
var Names = []string{"qft", "repeated"}

// ByName builds a named sample circuit. n is ignored by fixed-size circuits.
func ByName(name string, n int) (*circuit.Circuit, error) {
	switch name {
	case "qft":
		return QFT(n, nil)
	case "repeated":
		return RepeatedGates(), nil
	default:
		return nil, fmt.Errorf("unknown circuit %q (want one of %v)", name, Names)
	}
}
