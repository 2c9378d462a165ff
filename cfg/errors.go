package cfg

import (
	"errors"
	"fmt"
)

// ErrNotCFG is returned if a grammar cannot be constructed because its
// description is not representable as a CFG by this backend.
var ErrNotCFG = errors.New("not representable as a CFG by this backend")

// ErrUnsupportedK is matched by errors for lookahead depths beyond the
// configured ceiling (or below 0).
var ErrUnsupportedK = errors.New("unsupported lookahead depth")

// KError reports a lookahead depth which is not supported by a grammar.
type KError struct {
	K   int // requested depth
	Max int // configured ceiling
}

func (e *KError) Error() string {
	return fmt.Sprintf("lookahead depth k=%d not supported (maximum is %d)", e.K, e.Max)
}

// Is makes KError match ErrUnsupportedK.
func (e *KError) Is(target error) bool {
	return target == ErrUnsupportedK
}

// InvariantError is the panic value for malformed symbol graphs. It indicates a
// bug in the producer of the symbols, not a recoverable runtime condition.
type InvariantError struct {
	Op     string  // operation during which the violation was detected
	Symbol *Symbol // offending symbol, may be nil
	Msg    string
}

func (e *InvariantError) Error() string {
	if e.Symbol == nil {
		return fmt.Sprintf("cfg: invariant violated during %s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("cfg: invariant violated during %s at %s: %s", e.Op, e.Symbol, e.Msg)
}

func violation(op string, x *Symbol, format string, args ...interface{}) {
	err := &InvariantError{Op: op, Symbol: x, Msg: fmt.Sprintf(format, args...)}
	tracer().Errorf("%s", err.Error())
	panic(err)
}
