// Package fidelity builds the characterization circuits whose measurement
// results feed a route.FidelityModel, and turns those results into
// fidelity estimates.
//
// Running the circuits on a device or simulator is left to the caller.
package fidelity

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"qtermopt/circuit"
	"qtermopt/route"
)

// ErrNoShots reports a measurement histogram with no shots in it.
var ErrNoShots = errors.New("no shots recorded")

// MaxQubits is the widest register a Counts key can describe.
const MaxQubits = 64

func checkWidth(n int) error {
	if n < 0 || n > MaxQubits {
		return circuit.DimensionError("%d qubits, histograms hold at most %d", n, MaxQubits)
	}
	return nil
}

// Pair is an ordered qubit pair: the first qubit controls, the second is the
// target.
type Pair [2]int

// Round is a set of pairs with no qubit in common, run in one circuit.
type Round []Pair

// RoundRobin schedules every ordered pair of n qubits into rounds of
// disjoint pairs using the circle method. The first half of the rounds
// covers each unordered pair once; the second half repeats them reversed.
func RoundRobin(n int) []Round {
	if n < 2 {
		return nil
	}
	m := n + n%2 // with n odd, index n is a bye
	ring := make([]int, m)
	for i := range ring {
		ring[i] = i
	}

	var forward []Round
	for r := 0; r < m-1; r++ {
		var round Round
		for i := 0; i < m/2; i++ {
			a, b := ring[i], ring[m-1-i]
			if a >= n || b >= n {
				continue
			}
			round = append(round, Pair{min(a, b), max(a, b)})
		}
		forward = append(forward, round)
		// Rotate all but the first seat.
		last := ring[m-1]
		copy(ring[2:], ring[1:m-1])
		ring[1] = last
	}

	rounds := forward
	for _, round := range forward {
		rev := make(Round, len(round))
		for i, p := range round {
			rev[i] = Pair{p[1], p[0]}
		}
		rounds = append(rounds, rev)
	}
	return rounds
}

// SingleQubitCircuit applies reps Hadamards to every qubit. With reps even
// the ideal outcome is all zeros.
func SingleQubitCircuit(n, reps int) (*circuit.Circuit, error) {
	var instrs []circuit.Instruction
	for q := range n {
		for range reps {
			instrs = append(instrs, circuit.Gate(circuit.OpH, q))
		}
	}
	return circuit.New(n, instrs)
}

// PairCircuit prepares a Bell pair on every pair of the round, so that
// ideally both qubits of each pair always agree.
func PairCircuit(n int, round Round) (*circuit.Circuit, error) {
	var instrs []circuit.Instruction
	for _, p := range round {
		instrs = append(instrs,
			circuit.Gate(circuit.OpH, p[0]),
			circuit.Gate(circuit.OpCNot, p[0], p[1]),
		)
	}
	return circuit.New(n, instrs)
}

// Counts is a measurement histogram. Bit q of a key is the outcome of qubit q.
type Counts map[uint64]int

// ParseCounts converts bitstring keys, qubit 0 first, into Counts.
func ParseCounts(raw map[string]int) (Counts, error) {
	out := make(Counts, len(raw))
	for s, cnt := range raw {
		if len(s) > 64 {
			return nil, fmt.Errorf("bitstring %q is longer than 64 qubits", s)
		}
		var key uint64
		for q, ch := range s {
			switch ch {
			case '0':
			case '1':
				key |= 1 << q
			default:
				return nil, fmt.Errorf("bitstring %q: unexpected %q", s, ch)
			}
		}
		out[key] += cnt
	}
	return out, nil
}

// Shots returns the total number of recorded shots.
func (c Counts) Shots() int {
	total := 0
	for _, cnt := range c {
		total += cnt
	}
	return total
}

// EstimateSingle estimates single-qubit fidelities from the histogram of
// SingleQubitCircuit: F1[q] = sqrt(P(q reads 0)). The square root spreads
// the error over the two gates. n may not exceed MaxQubits.
func EstimateSingle(n int, counts Counts) ([]float64, error) {
	if err := checkWidth(n); err != nil {
		return nil, err
	}
	shots := counts.Shots()
	if shots == 0 {
		return nil, ErrNoShots
	}
	f := make([]float64, n)
	for q := range n {
		zeros := 0
		for state, cnt := range counts {
			if state&(1<<q) == 0 {
				zeros += cnt
			}
		}
		f[q] = math.Sqrt(float64(zeros) / float64(shots))
	}
	return f, nil
}

// EstimatePairs fills a pair fidelity matrix from the histograms of the
// PairCircuit of each round: F2[a][b] = P(a and b agree). counts[i] belongs
// to rounds[i]. Pairs not covered by any round stay zero. n may not exceed
// MaxQubits.
func EstimatePairs(n int, rounds []Round, counts []Counts) ([][]float64, error) {
	if err := checkWidth(n); err != nil {
		return nil, err
	}
	if len(rounds) != len(counts) {
		return nil, circuit.DimensionError("%d rounds but %d histograms", len(rounds), len(counts))
	}
	f := make([][]float64, n)
	for i := range f {
		f[i] = make([]float64, n)
	}
	for r, round := range rounds {
		shots := counts[r].Shots()
		if shots == 0 {
			return nil, fmt.Errorf("round %d: %w", r, ErrNoShots)
		}
		for _, p := range round {
			a, b := p[0], p[1]
			if a < 0 || a >= n || b < 0 || b >= n {
				return nil, circuit.DimensionError("round %d: pair %d-%d outside %d qubits", r, a, b, n)
			}
			agree := 0
			for state, cnt := range counts[r] {
				if bits.OnesCount64(state&(1<<a|1<<b))%2 == 0 {
					agree += cnt
				}
			}
			f[a][b] = float64(agree) / float64(shots)
		}
	}
	return f, nil
}

// Model assembles a validated fidelity model from estimates.
func Model(single []float64, pair [][]float64) (*route.FidelityModel, error) {
	m := &route.FidelityModel{Single: single, Pair: pair}
	if err := m.Validate(len(single)); err != nil {
		return nil, err
	}
	return m, nil
}
