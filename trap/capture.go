package trap

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kpreisser/wasmtime/trap/internal/arch"
)

// Control is returned by a Visitor after each frame.
type Control uint8

const (
	// Continue keeps walking older frames.
	Continue Control = iota
	// Stop aborts the entire multi-region capture immediately, not just
	// the region being walked.
	Stop
)

// Visitor receives frames innermost-first during a streaming walk.
type Visitor func(Frame) Control

// Capture collects the thread's current Wasm backtrace.
//
// Returns the empty backtrace when no Wasm is on the stack, e.g. when a
// host function called another host function that wanted a trace.
func Capture(ts *ThreadState) Backtrace {
	return capture(ts, 0, 0, false)
}

// CaptureTrap collects the Wasm backtrace after a hardware trap.
//
// When a trap is caught mid-execution the Wasm-to-host exit trampoline
// never ran, so the boundary record does not describe the innermost frame;
// trap dispatch supplies the faulting pc/fp instead.
func CaptureTrap(ts *ThreadState, pc, fp uintptr) Backtrace {
	return capture(ts, pc, fp, true)
}

func capture(ts *ThreadState, pc, fp uintptr, trapped bool) Backtrace {
	var frames []Frame
	walk(ts, pc, fp, trapped, func(f Frame) Control {
		frames = append(frames, f)
		return Continue
	})
	return Backtrace{frames: frames}
}

// Walk streams the thread's current Wasm frames to visit, innermost-first,
// without building a Backtrace.
func Walk(ts *ThreadState, visit Visitor) {
	walk(ts, 0, 0, false, visit)
}

// WalkTrap is Walk with the trap-override pc/fp, see CaptureTrap.
func WalkTrap(ts *ThreadState, pc, fp uintptr, visit Visitor) {
	walk(ts, pc, fp, true, visit)
}

func walk(ts *ThreadState, trapPC, trapFP uintptr, trapped bool, visit Visitor) {
	a := arch.Host()
	log := Logger()
	log.Debug("capturing wasm backtrace")

	pc, fp := trapPC, trapFP
	if !trapped {
		// Exited Wasm through the exit trampoline, or no Wasm on the
		// stack at all.
		pc = ts.limits.LastWasmExitPC
		fp = ts.limits.LastWasmExitFP
		if pc == 0 {
			if fp != 0 {
				panic(fmt.Sprintf("BUG: last wasm exit fp %#x without an exit pc", fp))
			}
			log.Debug("no wasm on stack")
			return
		}
	}

	// The innermost contiguous region, bounded by the live entry SP.
	if walkRegion(a, pc, fp, ts.limits.LastWasmEntrySP, visit) == Stop {
		log.Debug("capture stopped by visitor")
		return
	}

	// Each older region in turn, next-older first. The chain's oldest
	// record is the sentinel: every record saves the state of the
	// *previous* call into Wasm, so the record pushed by the thread's
	// first call has nothing to describe.
	for cs := ts.head; cs != nil; cs = cs.prev {
		if cs.prev == nil {
			if cs.OldLastWasmEntrySP != 0 || cs.OldLastWasmExitPC != 0 || cs.OldLastWasmExitFP != 0 {
				panic(fmt.Sprintf("BUG: oldest call state is not vacuous: pc=%#x fp=%#x sp=%#x",
					cs.OldLastWasmExitPC, cs.OldLastWasmExitFP, cs.OldLastWasmEntrySP))
			}
			log.Debug("done capturing wasm backtrace")
			return
		}

		// A native call that never entered Wasm. Contributes no frames.
		if cs.vacuous() {
			if cs.OldLastWasmExitPC != 0 || cs.OldLastWasmExitFP != 0 {
				panic(fmt.Sprintf("BUG: vacuous call state has exit pc=%#x fp=%#x",
					cs.OldLastWasmExitPC, cs.OldLastWasmExitFP))
			}
			continue
		}

		if walkRegion(a, cs.OldLastWasmExitPC, cs.OldLastWasmExitFP, cs.OldLastWasmEntrySP, visit) == Stop {
			log.Debug("capture stopped by visitor")
			return
		}
	}

	panic("BUG: ran past the call-state chain without reaching its sentinel")
}

// walkRegion walks one contiguous region of Wasm frames, starting at the
// frame described by pc/fp and ending when the frame-pointer chain crosses
// entrySP back into the trampoline that entered the region.
//
// All of our architectures' stacks grow down and look vaguely like this:
//
//	| ...               |
//	| Native Frames     |
//	| ...               |
//	|-------------------|
//	| ...               | <-- Trampoline FP            |
//	| Trampoline Frame  |                              |
//	| ...               | <-- Trampoline SP (entrySP)  |
//	|-------------------|                            Stack
//	| Return Address    |                            Grows
//	| Previous FP       | <-- Wasm FP                Down
//	| ...               |                              |
//	| Wasm Frames       |                              |
//	| ...               |                              V
//
// entrySP is guaranteed to be above all of the region's Wasm frame pointers
// but at or below the trampoline's own frame pointer. If the first Wasm
// function takes many arguments, some may be spilled to the stack between
// the return address and the trampoline frame, which is why the exact gap
// between the oldest Wasm FP and entrySP varies and why the region-end
// comparator belongs to the architecture layer.
func walkRegion(a arch.Arch, pc, fp, entrySP uintptr, visit Visitor) Control {
	if pc == 0 || fp == 0 || entrySP == 0 {
		panic(fmt.Sprintf("BUG: region walk with zero state: pc=%#x fp=%#x entrySP=%#x", pc, fp, entrySP))
	}
	a.AssertEntrySPAligned(entrySP)

	// The exit trampolines record fp on the assumption that the saved
	// previous frame pointer sits at offset zero on every target.
	if off := a.NextOlderFPOffset(); off != 0 {
		panic(fmt.Sprintf("BUG: next-older-fp offset %d, expected 0", off))
	}

	log := Logger()
	log.Debug("walking contiguous wasm region",
		zap.Uintptr("pc", pc),
		zap.Uintptr("fp", fp),
		zap.Uintptr("entry_sp", entrySP))

	for {
		// fp is a frame pointer from Wasm-compiled code, which preserves
		// frame pointers; it is safe to read its linkage words. Since the
		// stack grows down, it must sit at or below the entry SP.
		if fp > entrySP {
			panic(fmt.Sprintf("BUG: fp %#x above region entry sp %#x", fp, entrySP))
		}
		a.AssertFPAligned(fp)

		log.Debug("wasm frame", zap.Uintptr("pc", pc), zap.Uintptr("fp", fp))

		if visit(Frame{pc: pc, fp: fp}) == Stop {
			return Stop
		}

		pc = a.NextOlderPC(fp)

		// The next older frame pointer may belong to the trampoline
		// rather than another Wasm frame, but it is trusted either way:
		// the trampoline maintains a proper frame pointer too.
		candidate := arch.ReadWord(fp + a.NextOlderFPOffset())
		if a.ReachedEntrySP(candidate, entrySP) {
			log.Debug("done walking wasm region")
			return Continue
		}

		// Older frames live at higher addresses, strictly.
		if candidate <= fp {
			panic(fmt.Sprintf("BUG: next older fp %#x does not grow past fp %#x", candidate, fp))
		}
		fp = candidate
	}
}
