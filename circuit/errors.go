package circuit

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrInvalidOperand       = errors.New("invalid operand")
	ErrInvalidParameter     = errors.New("invalid parameter")
	ErrDimensionMismatch    = errors.New("dimension mismatch")
	ErrUnsupportedOpcode    = errors.New("unsupported opcode")
	ErrInvalidPermutation   = errors.New("invalid permutation")
	ErrPermutationInvariant = errors.New("permutation invariant violation")
)

// Error carries the kind of a failure plus the instruction it concerns.
// Index is -1 when the failure is not tied to one instruction.
type Error struct {
	Kind  error
	Index int
	Msg   string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Index >= 0 && e.Msg != "":
		return fmt.Sprintf("%s: instruction %d: %s", e.Kind, e.Index, e.Msg)
	case e.Index >= 0:
		return fmt.Sprintf("%s: instruction %d", e.Kind, e.Index)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Unwrap() error { return e.Kind }

func errorf(kind error, index int, format string, args ...any) error {
	return &Error{Kind: kind, Index: index, Msg: fmt.Sprintf(format, args...)}
}

// DimensionError reports a shape mismatch outside any single instruction.
func DimensionError(format string, args ...any) error {
	return errorf(ErrDimensionMismatch, -1, format, args...)
}
