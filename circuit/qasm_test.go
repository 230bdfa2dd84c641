package circuit

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestParseQASMBasic(t *testing.T) {
	qasm := `OPENQASM 2.0;
include "qelib1.inc";

qreg q[3];
creg c[3];

h q[1];
cx q[1], q[2];
cx q[0],q[1];
barrier q[0], q[1], q[2];
h q[0];
ccx q[0], q[1], q[2]; // toffoli
rz(pi/2) q[2];`

	c, err := ParseQASM(qasm)
	if err != nil {
		t.Fatalf("ParseQASM error: %v", err)
	}

	// Expected instructions in order:
	// 0: H q[1]
	// 1: CNot q[1],q[2]
	// 2: CNot q[0],q[1]
	// 3: H q[0]
	// 4: CCNot q[0],q[1],q[2]
	// 5: Rz(pi/2) q[2]
	if c.NumQubits() != 3 {
		t.Fatalf("expected 3 qubits, got %d", c.NumQubits())
	}
	if c.Len() != 6 {
		t.Fatalf("expected 6 instructions, got %d", c.Len())
	}

	want := []Instruction{
		Gate(OpH, 1),
		Gate(OpCNot, 1, 2),
		Gate(OpCNot, 0, 1),
		Gate(OpH, 0),
		Gate(OpCCNot, 0, 1, 2),
		ParamGate(OpRz, []float64{math.Pi / 2}, 2),
	}
	for i, w := range want {
		if got := c.At(i); !got.Equal(w) {
			t.Errorf("instruction %d: got %s, want %s", i, got, w)
		}
	}
}

func TestParseQASMInfersRegister(t *testing.T) {
	c, err := ParseQASM("x q[0];\ncx q[0], q[4];")
	if err != nil {
		t.Fatalf("ParseQASM error: %v", err)
	}
	if c.NumQubits() != 5 {
		t.Errorf("expected 5 qubits inferred from operands, got %d", c.NumQubits())
	}
}

func TestParseQASMErrors(t *testing.T) {
	tests := []struct {
		name string
		qasm string
		kind error
	}{
		{"unknown gate", "qreg q[1];\nfoo q[0];", ErrUnsupportedOpcode},
		{"measurement", "qreg q[1];\nh q[0];\nmeasure q[0] -> c[0];", ErrUnsupportedOpcode},
		{"operand out of range", "qreg q[2];\ncx q[0], q[2];", ErrInvalidOperand},
		{"wrong arity", "qreg q[2];\ncx q[0];", ErrInvalidOperand},
		{"missing parameter", "qreg q[1];\nrx q[0];", ErrInvalidParameter},
		{"repeated operand", "qreg q[2];\ncx q[1], q[1];", ErrInvalidOperand},
		{"register overflows int", "qreg q[99999999999999999999];\nh q[0];", ErrInvalidOperand},
		{"register too large", "qreg q[100000000000];\nh q[0];", ErrInvalidOperand},
		{"operand overflows int", "h q[99999999999999999999];", ErrInvalidOperand},
		{"inferred register too large", "h q[70000];", ErrInvalidOperand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQASM(tt.qasm)
			if !errors.Is(err, tt.kind) {
				t.Errorf("ParseQASM error = %v, want kind %v", err, tt.kind)
			}
		})
	}
}

func TestParseQASMRejectsSecondRegister(t *testing.T) {
	_, err := ParseQASM("qreg q[1];\nqreg r[1];\nh q[0];")
	if err == nil {
		t.Fatal("expected an error for a second quantum register")
	}
}

func TestRoundTripQASM(t *testing.T) {
	c := MustNew(3,
		Gate(OpH, 0),
		Gate(OpSi, 1),
		Gate(OpV, 2),
		Gate(OpCNot, 0, 2),
		ParamGate(OpCPhaseShift, []float64{math.Pi / 4}, 2, 1),
		ParamGate(OpU3, []float64{0.1, -0.25, math.Pi}, 0),
		Gate(OpCSwap, 2, 0, 1),
		ParamGate(OpRz, []float64{math.Pi / 3}, 0),
		ParamGate(OpRz, []float64{2 * math.Pi / 3}, 1),
		ParamGate(OpRz, []float64{math.Pi/3 + 5e-11}, 2),
		ParamGate(OpRx, []float64{-math.Pi / 6}, 0),
	)

	qasm := c.QASM()
	if !strings.Contains(qasm, "qreg q[3];") {
		t.Errorf("expected register declaration, got:\n%s", qasm)
	}
	if !strings.Contains(qasm, "cp(pi/4) q[2], q[1];") {
		t.Errorf("expected 'cp(pi/4) q[2], q[1];' in QASM, got:\n%s", qasm)
	}

	c2, err := ParseQASM(qasm)
	if err != nil {
		t.Fatalf("round-trip parse: %v", err)
	}
	if !c.Equal(c2) {
		t.Errorf("round-trip mismatch:\n%s\nvs\n%s", c, c2)
	}
}

func TestParseParamExpr(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"1.5707", 1.5707, true},
		{"-0.5", -0.5, true},
		{"3.14e-2", 3.14e-2, true},
		{"pi", math.Pi, true},
		{"PI", math.Pi, true},
		{"pi/2", math.Pi / 2, true},
		{"2pi", 2 * math.Pi, true},
		{"2*pi", 2 * math.Pi, true},
		{"3*pi/4", 3 * math.Pi / 4, true},
		{"-pi/2", -math.Pi / 2, true},
		{"pi/0", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseParamExpr(tt.input)
		if ok != tt.ok {
			t.Errorf("parseParamExpr(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && math.Abs(got-tt.want) > 1e-10 {
			t.Errorf("parseParamExpr(%q) = %g, want %g", tt.input, got, tt.want)
		}
	}
}

func TestFormatParam(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{math.Pi, "pi"},
		{math.Pi / 2, "pi/2"},
		{math.Pi / 4, "pi/4"},
		{3 * math.Pi / 4, "3*pi/4"},
		{-math.Pi, "-pi"},
		{2 * math.Pi, "2*pi"},
		{1.5, "1.5"},
		{0, "0"},
		{0.01, "0.01"},
	}

	for _, tt := range tests {
		got := formatParam(tt.input)
		if got != tt.want {
			t.Errorf("formatParam(%g) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatParamRoundTripsExactly(t *testing.T) {
	runtimeThird, _ := parseParamExpr("pi/3")
	values := []float64{
		math.Pi / 3,
		2 * math.Pi / 3,
		math.Pi/3 + 5e-11,
		-math.Pi / 6,
		runtimeThird,
		-runtimeThird,
		1e-300,
		-0.25,
	}
	for _, v := range values {
		s := formatParam(v)
		got, ok := parseParamExpr(s)
		if !ok || got != v {
			t.Errorf("formatParam(%v) = %q, parses back to %v", v, s, got)
		}
	}
	if s := formatParam(runtimeThird); s != "pi/3" {
		t.Errorf("formatParam(%v) = %q, want \"pi/3\"", runtimeThird, s)
	}
}

func TestParseQASMAcceptsLargestRegister(t *testing.T) {
	c, err := ParseQASM(fmt.Sprintf("qreg q[%d];\nh q[%d];", MaxQASMQubits, MaxQASMQubits-1))
	if err != nil {
		t.Fatalf("ParseQASM error: %v", err)
	}
	if c.NumQubits() != MaxQASMQubits {
		t.Errorf("NumQubits = %d, want %d", c.NumQubits(), MaxQASMQubits)
	}
}

func TestParseParams(t *testing.T) {
	if params, err := ParseParams("pi/2"); err != nil || len(params) != 1 {
		t.Errorf("ParseParams('pi/2') should return 1 param, got %v (%v)", params, err)
	}
	if params, err := ParseParams("pi/2, pi/4,"); err != nil || len(params) != 2 {
		t.Errorf("ParseParams('pi/2, pi/4,') should return 2 params, got %v (%v)", params, err)
	}
	if _, err := ParseParams("pi/2,bogus"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("ParseParams('pi/2,bogus') error = %v, want ErrInvalidParameter", err)
	}
}
