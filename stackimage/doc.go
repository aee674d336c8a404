// Package stackimage fabricates all-Wasm stack regions in host memory.
//
// The backtrace walker in the trap package chases real frame-pointer chains
// laid down by the code generator. Exercising it without a code generator
// requires memory that looks exactly like such a chain: frames at increasing
// addresses, the saved previous frame pointer at offset 0 and the return
// address at offset 8 of every frame, a 16-byte aligned entry stack pointer
// above the oldest frame, and the oldest frame's saved frame pointer
// crossing that bound into a pretend trampoline frame.
//
// An Image builds one or more such regions in aligned buffers, reports the
// boundary state a real trampoline would have recorded, and can wire a
// trap.ThreadState the way the trampolines would during a nested
// Wasm->host->Wasm call chain. Tests and the tracewalk inspector both build
// their stacks here.
package stackimage
