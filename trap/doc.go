// Package trap provides Wasm trap values and backtrace capture.
//
// Capturing a Wasm backtrace is two problems:
//
//  1. identifying the contiguous runs of Wasm frames on the native stack,
//     skipping over interleaved host frames, and
//
//  2. walking the frames within one such run.
//
// For (1), the native<->Wasm transition trampolines record the entry stack
// pointer and exit pc/fp of every transition. The most recent record lives
// in a thread's RuntimeLimits; older records are snapshotted onto the
// thread's CallState chain whenever a native call might reenter Wasm. For
// (2), the code generator preserves frame pointers in all Wasm-compiled
// code, so a simple frame-pointer traversal from the exit fp up to the entry
// stack pointer visits every frame in the run.
//
// # Capture Shapes
//
// Capture and Walk read the live boundary record; CaptureTrap and WalkTrap
// take an explicit pc/fp for the innermost frame, supplied by trap dispatch
// when a hardware trap interrupted Wasm before the exit trampoline could
// run. The Capture variants collect a Backtrace; the Walk variants stream
// frames to a Visitor without allocating, which is useful for cheap
// existence checks.
//
// # Failure Model
//
// A capture either completes (possibly cut short by a Visitor returning
// Stop, which is a normal terminal state) or panics. Misaligned pointers,
// frame pointers that do not grow strictly outward, malformed call-state
// records and a chain without its sentinel all indicate stack corruption or
// a code-generation defect; the panic is deliberate and must not be
// recovered, since continuing to chase a corrupted pointer risks arbitrary
// memory access.
package trap
