package trap

import "fmt"

// Reason identifies why a Wasm trap fired.
type Reason uint8

const (
	// ReasonUnreachable means an unreachable instruction executed.
	ReasonUnreachable Reason = iota
	// ReasonMemoryOutOfBounds means a linear memory access was out of bounds.
	ReasonMemoryOutOfBounds
	// ReasonTableOutOfBounds means a table access was out of bounds.
	ReasonTableOutOfBounds
	// ReasonIndirectCallToNull means call_indirect hit a null table entry.
	ReasonIndirectCallToNull
	// ReasonBadSignature means call_indirect hit a signature mismatch.
	ReasonBadSignature
	// ReasonIntegerOverflow means an integer operation overflowed.
	ReasonIntegerOverflow
	// ReasonIntegerDivisionByZero means an integer division by zero.
	ReasonIntegerDivisionByZero
	// ReasonBadConversionToInteger means a float could not convert to an integer.
	ReasonBadConversionToInteger
	// ReasonStackOverflow means the call stack was exhausted.
	ReasonStackOverflow
	// ReasonInterrupt means execution was interrupted by the embedder.
	ReasonInterrupt
)

func (r Reason) String() string {
	switch r {
	case ReasonUnreachable:
		return "wasm `unreachable` instruction executed"
	case ReasonMemoryOutOfBounds:
		return "out of bounds memory access"
	case ReasonTableOutOfBounds:
		return "undefined element: out of bounds table access"
	case ReasonIndirectCallToNull:
		return "uninitialized element"
	case ReasonBadSignature:
		return "indirect call type mismatch"
	case ReasonIntegerOverflow:
		return "integer overflow"
	case ReasonIntegerDivisionByZero:
		return "integer divide by zero"
	case ReasonBadConversionToInteger:
		return "invalid conversion to integer"
	case ReasonStackOverflow:
		return "call stack exhausted"
	case ReasonInterrupt:
		return "interrupt"
	default:
		return fmt.Sprintf("unknown trap reason %d", uint8(r))
	}
}

// Trap is a Wasm trap together with the backtrace captured when it fired.
// It is the error value the runtime surfaces to embedders when guest code
// faults.
type Trap struct {
	Reason    Reason
	Backtrace Backtrace
}

// New builds a trap for a fault raised from a host call, after the exit
// trampoline recorded the boundary state.
func New(reason Reason, ts *ThreadState) *Trap {
	return &Trap{Reason: reason, Backtrace: Capture(ts)}
}

// NewFromSignal builds a trap for a hardware fault caught mid-execution.
// pc and fp come from the interrupted machine context, since the exit
// trampoline never ran.
func NewFromSignal(reason Reason, ts *ThreadState, pc, fp uintptr) *Trap {
	return &Trap{Reason: reason, Backtrace: CaptureTrap(ts, pc, fp)}
}

// Error implements the error interface.
func (t *Trap) Error() string {
	return fmt.Sprintf("wasm trap: %s\n%s", t.Reason, t.Backtrace)
}
