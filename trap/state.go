package trap

import "fmt"

// RuntimeLimits is a thread's live boundary record: the pc/fp of the most
// recent Wasm->native exit and the native stack pointer recorded when the
// innermost Wasm region was entered.
//
// It is written only by the transition trampolines running on the owning
// thread, strictly before or after any capture, never during one. The
// capture code treats it as read-only.
//
// Invariant: LastWasmExitPC == 0 if and only if LastWasmExitFP == 0. Both
// zero means no Wasm currently sits on top of the native call stack.
type RuntimeLimits struct {
	LastWasmExitPC  uintptr
	LastWasmExitFP  uintptr
	LastWasmEntrySP uintptr
}

// CallState is the boundary record as it stood when a potentially
// Wasm-reentrant native call began, snapshotted by PushCall. One CallState
// exists per nested native call; together they chain the older contiguous
// Wasm regions of the thread's stack, most recent first.
//
// A CallState with OldLastWasmEntrySP == 0 is vacuous: its native call
// never actually entered Wasm. Vacuous records contribute no frames but are
// pushed anyway so the chain mirrors the call structure exactly. The oldest
// record in a chain is always vacuous, because the limits were zero before
// the thread's first call into Wasm; it acts as the chain's sentinel.
type CallState struct {
	OldLastWasmExitPC  uintptr
	OldLastWasmExitFP  uintptr
	OldLastWasmEntrySP uintptr

	// prev points to the next older record. It is a non-owning reference
	// used only for traversal order; the ThreadState owns the chain.
	prev *CallState
}

// Prev returns the next older record, or nil for the sentinel.
func (cs *CallState) Prev() *CallState {
	return cs.prev
}

func (cs *CallState) vacuous() bool {
	return cs.OldLastWasmEntrySP == 0
}

// ThreadState holds the boundary record and call-state chain of one
// executing thread. It is created with the thread's execution context and
// torn down with it, and must never be shared across threads; its only
// writers are the transition trampolines running on the owning thread.
type ThreadState struct {
	limits RuntimeLimits
	head   *CallState
}

// NewThreadState returns the state for a thread that has not entered Wasm.
func NewThreadState() *ThreadState {
	return &ThreadState{}
}

// Limits exposes the live boundary record for the transition trampolines.
func (ts *ThreadState) Limits() *RuntimeLimits {
	return &ts.limits
}

// Head returns the most recent call-state record, or nil if the thread has
// never pushed one.
func (ts *ThreadState) Head() *CallState {
	return ts.head
}

// EnterWasm records the native stack pointer at a host->Wasm entry.
// Called by the entry trampoline.
func (ts *ThreadState) EnterWasm(entrySP uintptr) {
	ts.limits.LastWasmEntrySP = entrySP
}

// ExitWasm records the pc/fp of a Wasm->host exit.
// Called by the exit trampoline; pc and fp must both be non-zero.
func (ts *ThreadState) ExitWasm(pc, fp uintptr) {
	if pc == 0 || fp == 0 {
		panic(fmt.Sprintf("BUG: wasm exit with zero pc/fp: pc=%#x fp=%#x", pc, fp))
	}
	ts.limits.LastWasmExitPC = pc
	ts.limits.LastWasmExitFP = fp
}

// PushCall snapshots the boundary record onto the call-state chain and
// clears it for the nested call. Called around every native call that might
// reenter Wasm, including calls that never do; those produce vacuous
// records.
func (ts *ThreadState) PushCall() {
	ts.head = &CallState{
		OldLastWasmExitPC:  ts.limits.LastWasmExitPC,
		OldLastWasmExitFP:  ts.limits.LastWasmExitFP,
		OldLastWasmEntrySP: ts.limits.LastWasmEntrySP,
		prev:               ts.head,
	}
	ts.limits = RuntimeLimits{}
}

// PopCall restores the boundary record saved by the matching PushCall and
// unlinks the record.
func (ts *ThreadState) PopCall() {
	cs := ts.head
	if cs == nil {
		panic("BUG: PopCall with no pushed call state")
	}
	ts.limits = RuntimeLimits{
		LastWasmExitPC:  cs.OldLastWasmExitPC,
		LastWasmExitFP:  cs.OldLastWasmExitFP,
		LastWasmEntrySP: cs.OldLastWasmEntrySP,
	}
	ts.head = cs.prev
	cs.prev = nil
}
