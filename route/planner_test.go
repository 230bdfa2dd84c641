package route

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtermopt/circuit"
)

func randomModel(rng *rand.Rand, n int) *FidelityModel {
	m := UniformModel(n, 0)
	for i := range n {
		m.Single[i] = rng.Float64()
		for j := range n {
			if i != j {
				m.Pair[i][j] = rng.Float64()
			}
		}
	}
	return m
}

func randomCircuit(rng *rand.Rand, n, gates int) *circuit.Circuit {
	var instrs []circuit.Instruction
	for range gates {
		if n > 1 && rng.Intn(2) == 0 {
			a := rng.Intn(n)
			b := (a + 1 + rng.Intn(n-1)) % n
			instrs = append(instrs, circuit.Gate(circuit.OpCNot, a, b))
			continue
		}
		instrs = append(instrs, circuit.Gate(circuit.OpH, rng.Intn(n)))
	}
	c, err := circuit.New(n, instrs)
	if err != nil {
		panic(err)
	}
	return c
}

func TestDemandGraph(t *testing.T) {
	c := circuit.MustNew(4,
		circuit.Gate(circuit.OpCNot, 0, 1),
		circuit.Gate(circuit.OpCNot, 1, 0),
		circuit.ParamGate(circuit.OpCPhaseShift, []float64{0.5}, 2, 1),
		circuit.Gate(circuit.OpCCNot, 0, 1, 3),
		circuit.Gate(circuit.OpH, 3),
	)
	g := NewDemandGraph(c)

	assert.Equal(t, 4, g.N())
	assert.Equal(t, 2, g.Weight(0, 1))
	assert.Equal(t, 2, g.Weight(1, 0))
	assert.Equal(t, 1, g.Weight(1, 2))
	assert.Zero(t, g.Weight(0, 3))
	assert.Equal(t, []int{0, 2}, g.Neighbors(1))
	assert.Equal(t, 3, g.Demand(1))
	assert.Zero(t, g.Demand(3))
	assert.Equal(t, "demand{0-1:2 1-2:1}", g.String())
}

func TestDemandFromWeights(t *testing.T) {
	g, err := DemandFromWeights([][]int{{5, 1}, {1, 0}})
	require.NoError(t, err)
	assert.Zero(t, g.Weight(0, 0))
	assert.Equal(t, 1, g.Demand(0))

	_, err = DemandFromWeights([][]int{{0, 1}, {2, 0}})
	assert.Error(t, err)
	_, err = DemandFromWeights([][]int{{0, 1}, {1}})
	assert.ErrorIs(t, err, circuit.ErrDimensionMismatch)
}

func TestRoutePlacesBusyQubitOnBestQubit(t *testing.T) {
	// Star around logical 2; physical 3 is the best single qubit and
	// physical 3-1 then 3-0 are the best pairs.
	w := [][]int{
		{0, 0, 1, 0},
		{0, 0, 2, 0},
		{1, 2, 0, 0},
		{0, 0, 0, 0},
	}
	g, err := DemandFromWeights(w)
	require.NoError(t, err)
	m := &FidelityModel{
		Single: []float64{0.90, 0.80, 0.85, 0.99},
		Pair: [][]float64{
			{0, 0.5, 0.5, 0.8},
			{0.5, 0, 0.5, 0.9},
			{0.5, 0.5, 0, 0.4},
			{0.8, 0.9, 0.4, 0},
		},
	}

	perm, err := Route(g, m)
	require.NoError(t, err)
	// 2 (demand 3) → 3; pushes for neighbours 0 and 1 against 0,1,2:
	// best is (0.9, phys 1) with logical 0 first by tie-break.
	// Then 1 takes (0.8, phys 0). Logical 3 is re-seeded on phys 2.
	assert.Equal(t, circuit.Permutation{1, 0, 3, 2}, perm)
	assert.GreaterOrEqual(t, Score(g, m, perm), Score(g, m, circuit.Identity(4)))
}

func TestRouteSingleQubit(t *testing.T) {
	g := NewDemandGraph(circuit.MustNew(1, circuit.Gate(circuit.OpH, 0)))
	perm, err := Route(g, UniformModel(1, 0.9))
	require.NoError(t, err)
	assert.Equal(t, circuit.Permutation{0}, perm)
}

func TestRouteEmptyCircuit(t *testing.T) {
	g := NewDemandGraph(circuit.MustNew(3))
	m := &FidelityModel{
		Single: []float64{0.5, 0.7, 0.6},
		Pair:   UniformModel(3, 0.5).Pair,
	}
	perm, err := Route(g, m)
	require.NoError(t, err)
	assert.True(t, perm.IsBijection())
	assert.Len(t, perm, 3)

	perm, err = Route(NewDemandGraph(circuit.MustNew(0)), UniformModel(0, 1))
	require.NoError(t, err)
	assert.Empty(t, perm)
}

func TestRouteDimensionMismatch(t *testing.T) {
	g := NewDemandGraph(circuit.MustNew(3, circuit.Gate(circuit.OpCNot, 0, 1)))

	_, err := Route(g, UniformModel(2, 0.9))
	assert.ErrorIs(t, err, circuit.ErrDimensionMismatch)

	m := UniformModel(3, 0.9)
	m.Pair[1] = m.Pair[1][:2]
	_, err = Route(g, m)
	assert.ErrorIs(t, err, circuit.ErrDimensionMismatch)

	_, err = Route(g, nil)
	assert.ErrorIs(t, err, circuit.ErrDimensionMismatch)

	m = UniformModel(3, 0.9)
	m.Single[0] = 1.5
	_, err = RankRoute(g, m)
	assert.ErrorIs(t, err, ErrInvalidFidelity)
}

func TestRouteProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 100; trial++ {
		n := 1 + rng.Intn(8)
		c := randomCircuit(rng, n, rng.Intn(25))
		g := NewDemandGraph(c)
		m := randomModel(rng, n)

		for _, s := range []Strategy{StrategyGreedy, StrategyRank} {
			perm, err := Plan(g, m, s)
			require.NoError(t, err)
			assert.Len(t, perm, n)
			assert.True(t, perm.IsBijection(), "trial %d %s: %v", trial, s, perm)
			assert.GreaterOrEqual(t, Score(g, m, perm), Score(g, m, circuit.Identity(n)), "trial %d %s", trial, s)

			again, err := Plan(g, m, s)
			require.NoError(t, err)
			assert.Equal(t, perm, again, "trial %d %s", trial, s)
		}
	}
}

func TestRankRoute(t *testing.T) {
	w := [][]int{
		{0, 1, 0},
		{1, 0, 3},
		{0, 3, 0},
	}
	g, err := DemandFromWeights(w)
	require.NoError(t, err)
	m := UniformModel(3, 0.5)
	m.Single = []float64{0.7, 0.9, 0.8}

	perm, err := RankRoute(g, m)
	require.NoError(t, err)
	// demand: 1→4, 2→3, 0→1; fidelity: 1, 2, 0. Uniform pairs tie the
	// identity, so the rank placement stands.
	assert.Equal(t, circuit.Permutation{0, 1, 2}, perm)

	m.Single = []float64{0.9, 0.8, 0.7}
	perm, err = RankRoute(g, m)
	require.NoError(t, err)
	assert.Equal(t, circuit.Permutation{2, 0, 1}, perm)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyGreedy, s)
	s, err = ParseStrategy("rank")
	require.NoError(t, err)
	assert.Equal(t, StrategyRank, s)
	_, err = ParseStrategy("annealing")
	assert.Error(t, err)
	_, err = Plan(DemandGraph{}, nil, Strategy("annealing"))
	assert.Error(t, err)
}

func TestParseFidelity(t *testing.T) {
	m, err := ParseFidelity([]byte("single: [0.99, 0.95]\npair:\n  - [0, 0.9]\n  - [0.92, 0]\n"))
	require.NoError(t, err)
	require.NoError(t, m.Validate(2))
	assert.Equal(t, []float64{0.99, 0.95}, m.Single)
	assert.Equal(t, 0.92, m.Pair[1][0])

	m, err = ParseFidelity([]byte(`{"single": [1], "pair": [[0]]}`))
	require.NoError(t, err)
	require.NoError(t, m.Validate(1))

	data, err := m.Marshal()
	require.NoError(t, err)
	back, err := ParseFidelity(data)
	require.NoError(t, err)
	assert.Equal(t, m, back)

	_, err = ParseFidelity([]byte("single: nope"))
	assert.Error(t, err)
}
