// Package wasmtime provides the trap-handling core of a frame-pointer
// preserving WebAssembly runtime.
//
// The runtime compiles Wasm to native code that preserves frame pointers,
// so a Wasm-only backtrace can be captured by chasing frame-pointer chains
// through the native stack while skipping interleaved host frames.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	wasmtime/            Root package with the word-addressed StackWords view
//	├── trap/            Trap values, backtrace capture, per-thread call state
//	│   └── internal/arch/   Per-architecture frame-pointer linkage primitives
//	├── errors/          Structured error types for debugging
//	├── stackimage/      Synthetic all-Wasm stack fixtures for tests and tooling
//	└── cmd/tracewalk/   Interactive inspector for stack walks
//
// # Quick Start
//
// Capture the current Wasm backtrace for a thread:
//
//	ts := trap.NewThreadState()
//	// ... trampolines maintain ts around native<->Wasm transitions ...
//
//	bt := trap.Capture(ts)
//	for f := range bt.Frames() {
//	    fmt.Printf("pc=%#x fp=%#x\n", f.PC(), f.FP())
//	}
//
// From a signal handler that caught a trap before the exit trampoline ran,
// supply the faulting pc/fp instead:
//
//	bt := trap.CaptureTrap(ts, faultPC, faultFP)
//
// # Thread Safety
//
// A ThreadState is exclusively owned by one executing thread. The boundary
// record and call-state chain are mutated only by that thread's transition
// trampolines, strictly before or after a capture, never during one. No
// locking is required or performed.
//
// # Failure Model
//
// Stack walking performs raw reads of stack memory. Every read is guarded by
// structural assertions (alignment, frame-pointer ordering, region bounds);
// a violated assertion panics immediately rather than returning an error,
// because it signals either a code-generation defect or stack corruption,
// and chasing a corrupted pointer any further risks arbitrary memory access.
package wasmtime
