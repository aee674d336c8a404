package arch

import (
	"fmt"
	"unsafe"
)

// Arch exposes the frame-pointer linkage primitives of one CPU architecture.
//
// The fp passed to NextOlderPC and expected at NextOlderFPOffset must be a
// genuine, ABI-preserved Wasm frame pointer. That guarantee comes from the
// code generator, which compiles Wasm with frame pointers preserved; it is
// spot-checked here via alignment assertions, never fully verified.
type Arch interface {
	// NextOlderPC reads the return-address linkage word reachable from
	// the trusted Wasm frame pointer fp.
	NextOlderPC(fp uintptr) uintptr

	// NextOlderFPOffset is the byte offset from fp at which the saved
	// previous frame pointer is stored. The walker asserts this is zero
	// on every target; the exit trampolines rely on the same layout.
	NextOlderFPOffset() uintptr

	// ReachedEntrySP reports whether candidateFP has walked back out of
	// the Wasm region into the trampoline's frame. candidateFP is the
	// saved previous frame pointer read from the innermost-remaining
	// Wasm frame; entrySP is the stack pointer the trampoline recorded
	// when it entered the region.
	ReachedEntrySP(candidateFP, entrySP uintptr) bool

	// AssertEntrySPAligned panics if sp violates the ABI stack alignment.
	AssertEntrySPAligned(sp uintptr)

	// AssertFPAligned panics if fp violates the ABI frame alignment.
	AssertFPAligned(fp uintptr)
}

// ReadWord reads one pointer-sized word at addr.
//
// addr must be a mapped, word-aligned host address inside the stack region
// being walked. Callers establish that through the frame-pointer invariants
// (fp alignment, monotonic outward growth, entry-SP bound) before every
// call; this is the only place in the module that dereferences a raw
// address.
func ReadWord(addr uintptr) uintptr {
	//nolint:govet // addr originates from a live frame pointer, not a Go pointer.
	return *(*uintptr)(unsafe.Pointer(addr))
}

func assertAligned16(what string, v uintptr) {
	if v%16 != 0 {
		panic(fmt.Sprintf("BUG: %s %#x is not 16-byte aligned", what, v))
	}
}
