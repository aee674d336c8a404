package trap

import (
	"fmt"
	"iter"
	"strings"
)

// Frame is one Wasm stack frame: a program counter inside Wasm-compiled
// code and the frame pointer of the frame it belongs to.
type Frame struct {
	pc uintptr
	fp uintptr
}

// PC returns this frame's program counter.
func (f Frame) PC() uintptr { return f.pc }

// FP returns this frame's frame pointer.
func (f Frame) FP() uintptr { return f.fp }

// Backtrace is an ordered Wasm stack trace, innermost frame first.
// It is immutable once captured.
type Backtrace struct {
	frames []Frame
}

// Empty returns a backtrace with no frames, used when the calling context
// has never entered Wasm.
func Empty() Backtrace {
	return Backtrace{}
}

// Len returns the number of frames in the trace.
func (b Backtrace) Len() int {
	return len(b.frames)
}

// Frames returns the frames innermost-first. The sequence is finite and
// re-iterable; iterating twice yields identical results.
func (b Backtrace) Frames() iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		for _, f := range b.frames {
			if !yield(f) {
				return
			}
		}
	}
}

// String renders the trace one frame per line, for logs and diagnostics.
// Symbolication of the addresses is left to layers above this package.
func (b Backtrace) String() string {
	if len(b.frames) == 0 {
		return "wasm backtrace: (empty)"
	}
	var sb strings.Builder
	sb.WriteString("wasm backtrace:")
	for i, f := range b.frames {
		fmt.Fprintf(&sb, "\n  %2d: pc=%#016x fp=%#016x", i, f.pc, f.fp)
	}
	return sb.String()
}
