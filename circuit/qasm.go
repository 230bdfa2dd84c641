package circuit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MaxQASMQubits bounds the register size ParseQASM accepts, declared or
// inferred from operands.
const MaxQASMQubits = 1 << 16

// Pre-compiled regexps for QASM parsing.
var (
	gateLineRegex = regexp.MustCompile(`^(\w+)\s*(?:\(\s*(` + paramPattern + `(?:\s*,\s*` + paramPattern + `)*)\s*\))?\s+(\w+\[\d+\](?:\s*,\s*\w+\[\d+\])*)\s*;?$`)
	operandRegex  = regexp.MustCompile(`(\w+)\[(\d+)\]`)
	qregRegex     = regexp.MustCompile(`^qreg\s+(\w+)\s*\[\s*(\d+)\s*\]\s*;?$`)
)

// ParseQASM reads an OpenQASM 2.0 program into a circuit. The register size
// comes from the qreg declaration, or from the largest operand when there is
// none; either way it may not exceed MaxQASMQubits. Barriers are scheduling
// hints and are skipped; measurement, reset and classically controlled
// statements have no opcode and are rejected.
func ParseQASM(src string) (*Circuit, error) {
	var (
		instrs  []Instruction
		regName string
		n       = -1
		maxQ    = -1
	)

	for lineNo, line := range strings.Split(src, "\n") {
		lineNo++
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "OPENQASM"),
			strings.HasPrefix(line, "include"),
			strings.HasPrefix(line, "creg"),
			strings.HasPrefix(line, "barrier"):
			continue
		case strings.HasPrefix(line, "qreg"):
			matches := qregRegex.FindStringSubmatch(line)
			if matches == nil {
				return nil, fmt.Errorf("qasm line %d: malformed register %q", lineNo, line)
			}
			if regName != "" {
				return nil, fmt.Errorf("qasm line %d: only one quantum register is supported", lineNo)
			}
			size, err := strconv.Atoi(matches[2])
			if err != nil || size > MaxQASMQubits {
				return nil, errorf(ErrInvalidOperand, -1, "qasm line %d: register size %s exceeds %d", lineNo, matches[2], MaxQASMQubits)
			}
			regName, n = matches[1], size
			continue
		case strings.HasPrefix(line, "measure"),
			strings.HasPrefix(line, "reset"),
			strings.HasPrefix(line, "if"):
			return nil, errorf(ErrUnsupportedOpcode, len(instrs), "qasm line %d: %q", lineNo, line)
		}

		matches := gateLineRegex.FindStringSubmatch(line)
		if matches == nil {
			return nil, fmt.Errorf("qasm line %d: cannot parse %q", lineNo, line)
		}
		op, ok := ParseOpcode(matches[1])
		if !ok {
			return nil, errorf(ErrUnsupportedOpcode, len(instrs), "qasm line %d: unknown gate %q", lineNo, matches[1])
		}

		var params []float64
		if matches[2] != "" {
			var err error
			params, err = ParseParams(matches[2])
			if err != nil {
				return nil, fmt.Errorf("qasm line %d: %w", lineNo, err)
			}
		}

		var operands []int
		for _, om := range operandRegex.FindAllStringSubmatch(matches[3], -1) {
			if regName != "" && om[1] != regName {
				return nil, fmt.Errorf("qasm line %d: unknown register %q", lineNo, om[1])
			}
			q, err := strconv.Atoi(om[2])
			if err != nil || q >= MaxQASMQubits {
				return nil, errorf(ErrInvalidOperand, len(instrs), "qasm line %d: qubit index %s exceeds %d", lineNo, om[2], MaxQASMQubits-1)
			}
			operands = append(operands, q)
			maxQ = max(maxQ, q)
		}
		instrs = append(instrs, Instruction{Op: op, Operands: operands, Params: params})
	}

	if n < 0 {
		n = maxQ + 1
	}
	return New(n, instrs)
}

// QASM renders the circuit as an OpenQASM 2.0 program over register q.
func (c *Circuit) QASM() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n\n", c.numQubits)

	for _, in := range c.instructions {
		if !in.Op.Known() {
			fmt.Fprintf(&sb, "// unsupported %s\n", in.Op)
			continue
		}
		sb.WriteString(in.Op.Mnemonic())
		if len(in.Params) > 0 {
			sb.WriteString("(")
			for i, p := range in.Params {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(formatParam(p))
			}
			sb.WriteString(")")
		}
		for i, q := range in.Operands {
			if i == 0 {
				sb.WriteString(" ")
			} else {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "q[%d]", q)
		}
		sb.WriteString(";\n")
	}
	return sb.String()
}
