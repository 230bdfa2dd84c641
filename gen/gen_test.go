package gen

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtermopt/circuit"
)

func TestQFT(t *testing.T) {
	c, err := QFT(3, []int{1, 0, 1})
	require.NoError(t, err)

	ops := c.CountOps()
	assert.Equal(t, 2, ops[circuit.OpX])
	assert.Equal(t, 3, ops[circuit.OpH])
	assert.Equal(t, 3, ops[circuit.OpCPhaseShift])

	// X q0, X q2, H q0, CP(pi/2) q1,q0, ...
	assert.Equal(t, circuit.ParamGate(circuit.OpCPhaseShift, []float64{math.Pi / 2}, 1, 0), c.At(3))
	assert.Equal(t, circuit.ParamGate(circuit.OpCPhaseShift, []float64{math.Pi / 4}, 2, 0), c.At(4))

	_, err = QFT(1, []int{1, 1})
	assert.Error(t, err)
}

func TestByName(t *testing.T) {
	for _, name := range Names {
		c, err := ByName(name, 4)
		require.NoError(t, err, name)
		assert.Equal(t, 4, c.NumQubits(), name)
	}
	_, err := ByName("grover", 3)
	assert.Error(t, err)
	assert.Equal(t, 9, RepeatedGates().Len())
}
