//go:build amd64 || arm64 || riscv64

package trap_test

import (
	"strings"
	"testing"

	"github.com/kpreisser/wasmtime/stackimage"
	"github.com/kpreisser/wasmtime/trap"
)

func buildStack(t *testing.T, frameCounts ...int) (*stackimage.Image, *trap.ThreadState) {
	t.Helper()
	im, err := stackimage.New(frameCounts...)
	if err != nil {
		t.Fatalf("stackimage.New(%v): %v", frameCounts, err)
	}
	ts := trap.NewThreadState()
	im.Wire(ts)
	return im, ts
}

func assertFrames(t *testing.T, bt trap.Backtrace, pcs, fps []uintptr) {
	t.Helper()
	if bt.Len() != len(pcs) {
		t.Fatalf("captured %d frames, want %d", bt.Len(), len(pcs))
	}
	i := 0
	for f := range bt.Frames() {
		if f.PC() != pcs[i] || f.FP() != fps[i] {
			t.Errorf("frame %d = {pc: %#x, fp: %#x}, want {pc: %#x, fp: %#x}",
				i, f.PC(), f.FP(), pcs[i], fps[i])
		}
		i++
	}
}

func TestCaptureEmptyContext(t *testing.T) {
	bt := trap.Capture(trap.NewThreadState())
	if bt.Len() != 0 {
		t.Fatalf("capture on a wasm-free thread yielded %d frames", bt.Len())
	}
}

func TestCaptureSingleRegion(t *testing.T) {
	im, ts := buildStack(t, 4)
	pcs, fps := im.Frames()
	assertFrames(t, trap.Capture(ts), pcs, fps)
}

func TestCaptureTwoRegions(t *testing.T) {
	// Wasm -> host -> Wasm: the innermost region's frames come first,
	// immediately followed by the older region's, no gaps or reordering.
	im, ts := buildStack(t, 2, 3)
	pcs, fps := im.Frames()
	if len(pcs) != 5 {
		t.Fatalf("fixture built %d frames, want 5", len(pcs))
	}
	assertFrames(t, trap.Capture(ts), pcs, fps)
}

func TestCaptureVacuousRecordSkipped(t *testing.T) {
	// The middle native call never entered Wasm; its record contributes
	// nothing and must not stop traversal of the older region.
	im, ts := buildStack(t, 2, 0, 3)
	pcs, fps := im.Frames()
	if len(pcs) != 5 {
		t.Fatalf("fixture built %d frames, want 5", len(pcs))
	}
	assertFrames(t, trap.Capture(ts), pcs, fps)
}

func TestCaptureTrailingVacuousRecord(t *testing.T) {
	im, ts := buildStack(t, 2, 0)
	pcs, fps := im.Frames()
	assertFrames(t, trap.Capture(ts), pcs, fps)
}

func TestCaptureManyRegions(t *testing.T) {
	im, ts := buildStack(t, 1, 2, 3, 4)
	pcs, fps := im.Frames()
	bt := trap.Capture(ts)
	if bt.Len() != 10 {
		t.Fatalf("captured %d frames, want 10", bt.Len())
	}
	assertFrames(t, bt, pcs, fps)
}

func TestCaptureRepeatable(t *testing.T) {
	_, ts := buildStack(t, 2, 3)
	bt := trap.Capture(ts)

	var first, second []trap.Frame
	for f := range bt.Frames() {
		first = append(first, f)
	}
	for f := range bt.Frames() {
		second = append(second, f)
	}
	if len(first) != len(second) {
		t.Fatalf("iteration lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("frame %d differs between iterations", i)
		}
	}
}

func TestWalkStopAfterFirstFrame(t *testing.T) {
	shapes := [][]int{{3}, {2, 3}, {2, 0, 3}, {1, 1, 1}}
	for _, shape := range shapes {
		_, ts := buildStack(t, shape...)
		var frames []trap.Frame
		trap.Walk(ts, func(f trap.Frame) trap.Control {
			frames = append(frames, f)
			return trap.Stop
		})
		if len(frames) != 1 {
			t.Errorf("shape %v: visitor saw %d frames after stopping at the first, want 1", shape, len(frames))
		}
	}
}

func TestWalkStopCrossesRegions(t *testing.T) {
	// Stopping in the second region must abort the whole capture, not
	// just the region being walked.
	im, ts := buildStack(t, 2, 3)
	pcs, _ := im.Frames()

	var frames []trap.Frame
	trap.Walk(ts, func(f trap.Frame) trap.Control {
		frames = append(frames, f)
		if len(frames) == 3 {
			return trap.Stop
		}
		return trap.Continue
	})
	if len(frames) != 3 {
		t.Fatalf("visitor saw %d frames, want 3", len(frames))
	}
	if frames[2].PC() != pcs[2] {
		t.Errorf("frame 2 pc = %#x, want %#x", frames[2].PC(), pcs[2])
	}
}

func TestCaptureTrapOverride(t *testing.T) {
	// A hardware trap interrupts Wasm before the exit trampoline runs:
	// the live record has no exit pc/fp, and trap dispatch supplies the
	// faulting pair instead.
	im, ts := buildStack(t, 2, 3)
	inner := im.Regions()[0]
	ts.Limits().LastWasmExitPC = 0
	ts.Limits().LastWasmExitFP = 0

	bt := trap.CaptureTrap(ts, inner.ExitPC, inner.ExitFP)
	pcs, fps := im.Frames()
	assertFrames(t, bt, pcs, fps)
}

func TestCaptureAfterPopCall(t *testing.T) {
	// Returning from the nested call restores the outer region as the
	// innermost; a capture then sees only the outer region.
	im, ts := buildStack(t, 2, 3)
	ts.PopCall()

	outer := im.Regions()[1]
	assertFrames(t, trap.Capture(ts), outer.PCs, outer.FPs)
}

func TestMalformedBoundaryRecordPanics(t *testing.T) {
	ts := trap.NewThreadState()
	ts.Limits().LastWasmExitFP = 0x900 // exit fp without an exit pc

	defer func() {
		if recover() == nil {
			t.Error("capture over a malformed boundary record did not panic")
		}
	}()
	trap.Capture(ts)
}

func TestTrapError(t *testing.T) {
	_, ts := buildStack(t, 2)
	err := trap.New(trap.ReasonUnreachable, ts)
	msg := err.Error()
	if !strings.Contains(msg, "unreachable") || !strings.Contains(msg, "wasm backtrace") {
		t.Errorf("trap error = %q", msg)
	}
	if err.Backtrace.Len() != 2 {
		t.Errorf("trap backtrace has %d frames, want 2", err.Backtrace.Len())
	}
}

func TestTrapFromSignal(t *testing.T) {
	im, ts := buildStack(t, 3)
	inner := im.Regions()[0]
	ts.Limits().LastWasmExitPC = 0
	ts.Limits().LastWasmExitFP = 0

	err := trap.NewFromSignal(trap.ReasonMemoryOutOfBounds, ts, inner.ExitPC, inner.ExitFP)
	if err.Backtrace.Len() != 3 {
		t.Errorf("trap backtrace has %d frames, want 3", err.Backtrace.Len())
	}
	if !strings.Contains(err.Error(), "out of bounds memory access") {
		t.Errorf("trap error = %q", err.Error())
	}
}
