package trap

import "testing"

func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	f()
}

func TestNewThreadState(t *testing.T) {
	ts := NewThreadState()
	if *ts.Limits() != (RuntimeLimits{}) {
		t.Errorf("fresh limits = %+v, want zero", *ts.Limits())
	}
	if ts.Head() != nil {
		t.Error("fresh thread state has a call-state record")
	}
}

func TestTrampolineHooks(t *testing.T) {
	ts := NewThreadState()
	ts.EnterWasm(0x1000)
	ts.ExitWasm(0x42, 0x900)

	l := ts.Limits()
	if l.LastWasmEntrySP != 0x1000 || l.LastWasmExitPC != 0x42 || l.LastWasmExitFP != 0x900 {
		t.Errorf("limits = %+v", *l)
	}
}

func TestExitWasmZeroPanics(t *testing.T) {
	ts := NewThreadState()
	mustPanic(t, "ExitWasm(0, fp)", func() { ts.ExitWasm(0, 0x900) })
	mustPanic(t, "ExitWasm(pc, 0)", func() { ts.ExitWasm(0x42, 0) })
}

func TestPushCallSnapshotsAndClears(t *testing.T) {
	ts := NewThreadState()
	ts.EnterWasm(0x1000)
	ts.ExitWasm(0x42, 0x900)

	ts.PushCall()

	if *ts.Limits() != (RuntimeLimits{}) {
		t.Errorf("limits after push = %+v, want zero", *ts.Limits())
	}
	cs := ts.Head()
	if cs == nil {
		t.Fatal("no call-state record after push")
	}
	if cs.OldLastWasmExitPC != 0x42 || cs.OldLastWasmExitFP != 0x900 || cs.OldLastWasmEntrySP != 0x1000 {
		t.Errorf("snapshot = %+v", *cs)
	}
	if cs.Prev() != nil {
		t.Error("first record should be the chain's oldest")
	}
}

func TestPopCallRestores(t *testing.T) {
	ts := NewThreadState()
	ts.EnterWasm(0x1000)
	ts.ExitWasm(0x42, 0x900)
	saved := *ts.Limits()

	ts.PushCall()
	ts.EnterWasm(0x2000)
	ts.ExitWasm(0x43, 0x1900)
	ts.PopCall()

	if *ts.Limits() != saved {
		t.Errorf("limits after pop = %+v, want %+v", *ts.Limits(), saved)
	}
	if ts.Head() != nil {
		t.Error("record still linked after pop")
	}
}

func TestPushPopNesting(t *testing.T) {
	ts := NewThreadState()

	ts.PushCall() // thread's first call into Wasm; vacuous sentinel
	ts.EnterWasm(0x1000)
	ts.ExitWasm(0x42, 0x900)
	ts.PushCall() // nested reentrant call

	inner := ts.Head()
	if inner.OldLastWasmEntrySP != 0x1000 {
		t.Errorf("inner snapshot sp = %#x, want 0x1000", inner.OldLastWasmEntrySP)
	}
	sentinel := inner.Prev()
	if sentinel == nil {
		t.Fatal("no sentinel record")
	}
	if sentinel.OldLastWasmExitPC != 0 || sentinel.OldLastWasmExitFP != 0 || sentinel.OldLastWasmEntrySP != 0 {
		t.Errorf("sentinel = %+v, want vacuous", *sentinel)
	}
	if sentinel.Prev() != nil {
		t.Error("sentinel has an older record")
	}

	ts.PopCall()
	ts.PopCall()
	if ts.Head() != nil {
		t.Error("chain not empty after matching pops")
	}
}

func TestPopCallEmptyPanics(t *testing.T) {
	mustPanic(t, "PopCall on empty chain", func() { NewThreadState().PopCall() })
}
