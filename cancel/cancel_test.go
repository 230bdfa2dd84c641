package cancel

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtermopt/circuit"
)

// opsOn lists the opcodes applied to qubit q, in order.
func opsOn(c *circuit.Circuit, q int) []circuit.Opcode {
	var ops []circuit.Opcode
	for _, in := range c.Instructions() {
		for _, operand := range in.Operands {
			if operand == q {
				ops = append(ops, in.Op)
			}
		}
	}
	return ops
}

func TestCancelRepeatedGates(t *testing.T) {
	c := circuit.MustNew(4,
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

	out, keep, err := Apply(c)
	require.NoError(t, err)

	assert.Equal(t, 5, out.Len())
	assert.Equal(t, 4, keep.Dropped())
	assert.Equal(t, []circuit.Opcode{circuit.OpH}, opsOn(out, 0))
	assert.Equal(t, []circuit.Opcode{circuit.OpX, circuit.OpH, circuit.OpX}, opsOn(out, 1))
	assert.Empty(t, opsOn(out, 2))
	assert.Equal(t, []circuit.Opcode{circuit.OpZ}, opsOn(out, 3))
}

func TestCancelNewlyAdjacentPair(t *testing.T) {
	c := circuit.MustNew(1,
		circuit.Gate(circuit.OpH, 0),
		circuit.Gate(circuit.OpX, 0),
		circuit.Gate(circuit.OpX, 0),
		circuit.Gate(circuit.OpH, 0),
		circuit.Gate(circuit.OpZ, 0),
	)
	keep := Cancel(circuit.Project(c))
	assert.Equal(t, circuit.KeepMask{false, false, false, false, true}, keep)
}

func TestCancelLeavesNonSelfInverse(t *testing.T) {
	c := circuit.MustNew(1,
		circuit.Gate(circuit.OpS, 0),
		circuit.Gate(circuit.OpS, 0),
		circuit.Gate(circuit.OpT, 0),
		circuit.Gate(circuit.OpT, 0),
		circuit.ParamGate(circuit.OpRx, []float64{0.5}, 0),
		circuit.ParamGate(circuit.OpRx, []float64{0.5}, 0),
		circuit.Gate(circuit.OpI, 0),
		circuit.Gate(circuit.OpI, 0),
	)
	keep := Cancel(circuit.Project(c))
	assert.Zero(t, keep.Dropped())
}

func TestCancelNeverRemovesMultiQubit(t *testing.T) {
	c := circuit.MustNew(3,
		circuit.Gate(circuit.OpCNot, 0, 1),
		circuit.Gate(circuit.OpCNot, 0, 1),
		circuit.Gate(circuit.OpCCNot, 0, 1, 2),
		circuit.Gate(circuit.OpCCNot, 0, 1, 2),
		circuit.Gate(circuit.OpSwap, 1, 2),
		circuit.Gate(circuit.OpSwap, 1, 2),
	)
	keep := Cancel(circuit.Project(c))
	assert.Equal(t, circuit.KeepMask{true, true, true, true, true, true}, keep)
}

func TestCancelStopsAtMultiQubitEntry(t *testing.T) {
	c := circuit.MustNew(2,
		circuit.Gate(circuit.OpH, 0),
		circuit.Gate(circuit.OpCNot, 0, 1),
		circuit.Gate(circuit.OpH, 0),
		circuit.Gate(circuit.OpX, 1),
		circuit.Gate(circuit.OpX, 1),
	)
	keep := Cancel(circuit.Project(c))
	assert.Equal(t, circuit.KeepMask{true, true, true, false, false}, keep)
}

func TestCancelIgnoresOtherQubitsBetweenPair(t *testing.T) {
	c := circuit.MustNew(3,
		circuit.Gate(circuit.OpZ, 0),
		circuit.Gate(circuit.OpCNot, 1, 2),
		circuit.Gate(circuit.OpH, 1),
		circuit.Gate(circuit.OpZ, 0),
	)
	keep := Cancel(circuit.Project(c))
	assert.Equal(t, circuit.KeepMask{false, true, true, false}, keep)
}

func TestCancelSingleQubitAndEmpty(t *testing.T) {
	one := circuit.MustNew(1,
		circuit.Gate(circuit.OpY, 0),
		circuit.Gate(circuit.OpY, 0),
		circuit.Gate(circuit.OpY, 0),
	)
	out, _, err := Apply(one)
	require.NoError(t, err)
	assert.Equal(t, []circuit.Opcode{circuit.OpY}, opsOn(out, 0))

	empty := circuit.MustNew(3)
	out, keep, err := Apply(empty)
	require.NoError(t, err)
	assert.Empty(t, keep)
	assert.True(t, empty.Equal(out))
}

func TestCancelIdentityWithoutPairs(t *testing.T) {
	c := circuit.MustNew(2,
		circuit.Gate(circuit.OpH, 0),
		circuit.Gate(circuit.OpX, 0),
		circuit.Gate(circuit.OpH, 1),
		circuit.Gate(circuit.OpCZ, 0, 1),
		circuit.Gate(circuit.OpH, 1),
	)
	out, keep, err := Apply(c)
	require.NoError(t, err)
	assert.Zero(t, keep.Dropped())
	assert.True(t, c.Equal(out))
}

func TestCancelIsIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	singles := []circuit.Opcode{circuit.OpH, circuit.OpX, circuit.OpY, circuit.OpZ, circuit.OpS}

	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(4)
		var instrs []circuit.Instruction
		for k := rng.Intn(30); k > 0; k-- {
			if n > 1 && rng.Intn(5) == 0 {
				a := rng.Intn(n)
				b := (a + 1 + rng.Intn(n-1)) % n
				instrs = append(instrs, circuit.Gate(circuit.OpCNot, a, b))
				continue
			}
			instrs = append(instrs, circuit.Gate(singles[rng.Intn(len(singles))], rng.Intn(n)))
		}
		c, err := circuit.New(n, instrs)
		require.NoError(t, err)

		once, _, err := Apply(c)
		require.NoError(t, err)
		twice, keep, err := Apply(once)
		require.NoError(t, err)

		assert.Zero(t, keep.Dropped(), "trial %d", trial)
		assert.True(t, once.Equal(twice), "trial %d", trial)
		assert.Equal(t, 0, (c.Len()-once.Len())%2, "pairs only, trial %d", trial)
	}
}
