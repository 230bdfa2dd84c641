// Package route places logical qubits on physical qubits using measured
// fidelities: busy logical qubits go to good physical qubits, and logical
// neighbours go to physical pairs with high two-qubit fidelity.
package route

import (
	"cmp"
	"container/heap"
	"fmt"
	"slices"

	"qtermopt/circuit"
)

// Strategy selects a placement algorithm.
type Strategy string

const (
	// StrategyGreedy expands outward from the busiest qubit along the
	// demand graph, following the best two-qubit fidelities.
	StrategyGreedy Strategy = "greedy"
	// StrategyRank pairs the i-th busiest logical qubit with the i-th best
	// physical qubit, ignoring pair fidelities.
	StrategyRank Strategy = "rank"
)

// ParseStrategy accepts "greedy" or "rank"; empty means greedy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyGreedy:
		return StrategyGreedy, nil
	case StrategyRank:
		return StrategyRank, nil
	default:
		return "", fmt.Errorf("unknown routing strategy %q", s)
	}
}

// Plan runs the placement algorithm named by s.
func Plan(g DemandGraph, m *FidelityModel, s Strategy) (circuit.Permutation, error) {
	switch s {
	case "", StrategyGreedy:
		return Route(g, m)
	case StrategyRank:
		return RankRoute(g, m)
	default:
		return nil, fmt.Errorf("unknown routing strategy %q", s)
	}
}

// Route computes a logical → physical permutation by greedy frontier
// expansion:
//
//  1. The unplaced logical qubit with the highest demand is seeded on the
//     unplaced physical qubit with the highest single-qubit fidelity.
//  2. Candidates (pair fidelity, logical neighbour, physical qubit) are kept
//     in a max-queue ordered by fidelity, then lowest physical index, then
//     lowest logical index.
//  3. The best candidate whose logical and physical qubits are both still
//     free is placed, and its own free neighbours are pushed against every
//     free physical qubit.
//  4. When the queue drains with qubits left over (a disconnected demand
//     graph), step 1 re-seeds among the remainder.
//
// Ties always resolve to the lowest index, so the result is deterministic.
// If the placement scores below the identity (see Score) the identity is
// returned instead.
func Route(g DemandGraph, m *FidelityModel) (circuit.Permutation, error) {
	n := g.N()
	if err := m.Validate(n); err != nil {
		return nil, err
	}

	p := newPlacement(n)
	for p.placed < n {
		logical, physical := p.seed(g, m)
		p.assign(logical, physical)

		pq := &frontier{}
		p.expand(pq, g, m, logical, physical)
		for pq.Len() > 0 {
			c := heap.Pop(pq).(candidate)
			if p.physTaken[c.physical] || p.perm[c.logical] >= 0 {
				continue
			}
			p.assign(c.logical, c.physical)
			p.expand(pq, g, m, c.logical, c.physical)
		}
	}
	return finish(g, m, p.perm)
}

// RankRoute sorts logical qubits by demand and physical qubits by
// single-qubit fidelity, both descending with ties to the lowest index, and
// pairs them in order.
func RankRoute(g DemandGraph, m *FidelityModel) (circuit.Permutation, error) {
	n := g.N()
	if err := m.Validate(n); err != nil {
		return nil, err
	}

	logical := make([]int, n)
	physical := make([]int, n)
	for i := range n {
		logical[i] = i
		physical[i] = i
	}
	slices.SortStableFunc(logical, func(a, b int) int {
		return cmp.Compare(g.Demand(b), g.Demand(a))
	})
	slices.SortStableFunc(physical, func(a, b int) int {
		return cmp.Compare(m.Single[b], m.Single[a])
	})

	perm := make(circuit.Permutation, n)
	for i := range n {
		perm[logical[i]] = physical[i]
	}
	return finish(g, m, perm)
}

// Score sums the pair fidelity of every demand edge under perm.
func Score(g DemandGraph, m *FidelityModel, perm circuit.Permutation) float64 {
	total := 0.0
	g.Edges(func(a, b, _ int) {
		total += m.Pair[perm[a]][perm[b]]
	})
	return total
}

func finish(g DemandGraph, m *FidelityModel, perm circuit.Permutation) (circuit.Permutation, error) {
	if !perm.IsBijection() {
		return nil, &circuit.Error{Kind: circuit.ErrPermutationInvariant, Index: -1, Msg: fmt.Sprintf("planner produced %v", perm)}
	}
	identity := circuit.Identity(g.N())
	if Score(g, m, perm) < Score(g, m, identity) {
		return identity, nil
	}
	return perm, nil
}

// placement tracks a partial logical → physical assignment.
type placement struct {
	perm      circuit.Permutation // -1 while unplaced
	physTaken []bool
	placed    int
}

func newPlacement(n int) *placement {
	p := &placement{perm: make(circuit.Permutation, n), physTaken: make([]bool, n)}
	for i := range p.perm {
		p.perm[i] = -1
	}
	return p
}

func (p *placement) assign(logical, physical int) {
	p.perm[logical] = physical
	p.physTaken[physical] = true
	p.placed++
}

// seed picks the free logical qubit with the most demand and the free
// physical qubit with the best single-qubit fidelity.
func (p *placement) seed(g DemandGraph, m *FidelityModel) (logical, physical int) {
	logical, physical = -1, -1
	for q := range p.perm {
		if p.perm[q] < 0 && (logical < 0 || g.Demand(q) > g.Demand(logical)) {
			logical = q
		}
		if !p.physTaken[q] && (physical < 0 || m.Single[q] > m.Single[physical]) {
			physical = q
		}
	}
	return logical, physical
}

// expand pushes a candidate for every free neighbour of logical against
// every free physical qubit, scored by the pair fidelity from physical.
func (p *placement) expand(pq *frontier, g DemandGraph, m *FidelityModel, logical, physical int) {
	for _, next := range g.Neighbors(logical) {
		if p.perm[next] >= 0 {
			continue
		}
		for q, taken := range p.physTaken {
			if taken {
				continue
			}
			heap.Push(pq, candidate{fidelity: m.Pair[physical][q], logical: next, physical: q})
		}
	}
}

type candidate struct {
	fidelity float64
	logical  int
	physical int
}

// frontier is a max-heap of candidates.
type frontier []candidate

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	a, b := f[i], f[j]
	if a.fidelity != b.fidelity {
		return a.fidelity > b.fidelity
	}
	if a.physical != b.physical {
		return a.physical < b.physical
	}
	return a.logical < b.logical
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(candidate)) }

func (f *frontier) Pop() any {
	old := *f
	c := old[len(old)-1]
	*f = old[:len(old)-1]
	return c
}
