package route

import (
	"fmt"
	"strings"

	"qtermopt/circuit"
)

// DemandGraph is an undirected weighted graph over logical qubits. The weight
// of (a, b) counts the two-qubit instructions acting on a and b.
type DemandGraph struct {
	n         int
	weight    [][]int
	neighbors [][]int // ascending
}

// NewDemandGraph counts the two-qubit instructions of c per unordered qubit pair.
func NewDemandGraph(c *circuit.Circuit) DemandGraph {
	n := c.NumQubits()
	w := make([][]int, n)
	for i := range w {
		w[i] = make([]int, n)
	}
	for _, in := range c.Instructions() {
		if len(in.Operands) != 2 {
			continue
		}
		a, b := in.Operands[0], in.Operands[1]
		w[a][b]++
		w[b][a]++
	}
	return newDemandGraph(w)
}

// DemandFromWeights builds a graph from a symmetric weight matrix. The
// diagonal is ignored.
func DemandFromWeights(w [][]int) (DemandGraph, error) {
	n := len(w)
	for a := range w {
		if len(w[a]) != n {
			return DemandGraph{}, circuit.DimensionError("demand row %d has %d entries, want %d", a, len(w[a]), n)
		}
	}
	cp := make([][]int, n)
	for a := range w {
		cp[a] = make([]int, n)
		for b := range w[a] {
			if w[a][b] != w[b][a] || w[a][b] < 0 {
				return DemandGraph{}, fmt.Errorf("demand weight (%d,%d)=%d must be symmetric and non-negative", a, b, w[a][b])
			}
			if a != b {
				cp[a][b] = w[a][b]
			}
		}
	}
	return newDemandGraph(cp), nil
}

func newDemandGraph(w [][]int) DemandGraph {
	g := DemandGraph{n: len(w), weight: w, neighbors: make([][]int, len(w))}
	for a := range w {
		for b, wt := range w[a] {
			if wt > 0 {
				g.neighbors[a] = append(g.neighbors[a], b)
			}
		}
	}
	return g
}

// N returns the number of logical qubits.
func (g DemandGraph) N() int { return g.n }

// Weight returns the weight of edge (a, b), zero when absent.
func (g DemandGraph) Weight(a, b int) int { return g.weight[a][b] }

// Neighbors returns the qubits sharing an edge with a, in ascending order.
func (g DemandGraph) Neighbors(a int) []int { return g.neighbors[a] }

// Demand returns the sum of edge weights incident to a.
func (g DemandGraph) Demand(a int) int {
	total := 0
	for _, b := range g.neighbors[a] {
		total += g.weight[a][b]
	}
	return total
}

// Edges calls fn for every edge (a < b) with its weight.
func (g DemandGraph) Edges(fn func(a, b, weight int)) {
	for a := range g.n {
		for _, b := range g.neighbors[a] {
			if a < b {
				fn(a, b, g.weight[a][b])
			}
		}
	}
}

func (g DemandGraph) String() string {
	var parts []string
	g.Edges(func(a, b, w int) {
		parts = append(parts, fmt.Sprintf("%d-%d:%d", a, b, w))
	})
	return "demand{" + strings.Join(parts, " ") + "}"
}
