package route

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"qtermopt/circuit"
)

// ErrInvalidFidelity reports a fidelity outside [0, 1].
var ErrInvalidFidelity = errors.New("invalid fidelity")

// FidelityModel holds measured error data for a device of n physical qubits.
// Single[q] is the single-qubit fidelity of q; Pair[p][q] the two-qubit
// fidelity of p with q. Pair[q][q] is unused.
type FidelityModel struct {
	Single []float64   `json:"single" yaml:"single"`
	Pair   [][]float64 `json:"pair" yaml:"pair"`
}

// UniformModel returns a model where every qubit and pair has fidelity f.
func UniformModel(n int, f float64) *FidelityModel {
	m := &FidelityModel{Single: make([]float64, n), Pair: make([][]float64, n)}
	for i := range n {
		m.Single[i] = f
		m.Pair[i] = make([]float64, n)
		for j := range n {
			m.Pair[i][j] = f
		}
	}
	return m
}

// Validate checks the model against n qubits: Single must have n entries,
// Pair must be n×n, and every used value must lie in [0, 1].
func (m *FidelityModel) Validate(n int) error {
	if m == nil {
		return circuit.DimensionError("no fidelity model for %d qubits", n)
	}
	if len(m.Single) != n {
		return circuit.DimensionError("single-qubit fidelities cover %d qubits, want %d", len(m.Single), n)
	}
	if len(m.Pair) != n {
		return circuit.DimensionError("pair fidelity matrix has %d rows, want %d", len(m.Pair), n)
	}
	for p, row := range m.Pair {
		if len(row) != n {
			return circuit.DimensionError("pair fidelity row %d has %d entries, want %d", p, len(row), n)
		}
	}
	for q, f := range m.Single {
		if !inUnit(f) {
			return fmt.Errorf("%w: single[%d] = %g", ErrInvalidFidelity, q, f)
		}
	}
	for p, row := range m.Pair {
		for q, f := range row {
			if p != q && !inUnit(f) {
				return fmt.Errorf("%w: pair[%d][%d] = %g", ErrInvalidFidelity, p, q, f)
			}
		}
	}
	return nil
}

func inUnit(f float64) bool {
	return !math.IsNaN(f) && f >= 0 && f <= 1
}

// ParseFidelity decodes a YAML (or JSON) document of the form
//
//	single: [0.99, 0.97]
//	pair: [[0, 0.91], [0.93, 0]]
func ParseFidelity(data []byte) (*FidelityModel, error) {
	var m FidelityModel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode fidelity model: %w", err)
	}
	return &m, nil
}

// LoadFidelity reads a fidelity model from a YAML or JSON file.
func LoadFidelity(path string) (*FidelityModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fidelity model: %w", err)
	}
	return ParseFidelity(data)
}

// Marshal encodes the model as YAML.
func (m *FidelityModel) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}
