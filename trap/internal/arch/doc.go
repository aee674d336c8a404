// Package arch provides the per-architecture primitives for frame-pointer
// stack walking.
//
// Each supported architecture contributes one implementation of the Arch
// interface, selected by build tags. The walker is written once against the
// interface; nothing outside this package dereferences raw stack addresses.
//
// All supported targets share the same linkage layout: the saved previous
// frame pointer lives at offset 0 from the current frame pointer and the
// return address at offset 8. What does differ between architectures is the
// region-end comparator: whether a candidate frame pointer equal to the
// region's entry stack pointer already belongs to the trampoline. That
// choice follows from each architecture's calling convention (stack-argument
// spill between the trampoline frame and the first Wasm frame), so a new
// backend must derive its comparator from its own ABI rather than copy
// another's.
package arch
