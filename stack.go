package wasmtime

// StackWords is a read-only, word-addressed view of raw stack memory.
//
// It exists for diagnostic tooling that wants to show the memory a stack
// walk traversed; the walker itself reads through the architecture layer's
// single word-read primitive and never goes through this interface.
type StackWords interface {
	// Word returns the pointer-sized word stored at addr.
	// addr must lie within Bounds and be word-aligned.
	Word(addr uintptr) (uintptr, error)

	// Bounds returns the half-open address range [lo, hi) covered by
	// this view.
	Bounds() (lo, hi uintptr)
}
