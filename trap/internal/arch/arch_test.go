//go:build amd64 || arm64 || riscv64

package arch

import (
	"testing"
	"unsafe"
)

func TestHostLinkageLayout(t *testing.T) {
	a := Host()
	if off := a.NextOlderFPOffset(); off != 0 {
		t.Fatalf("NextOlderFPOffset() = %d, want 0", off)
	}

	// Fabricate one frame: saved fp at [fp], return address at [fp+8].
	buf := make([]uintptr, 4)
	buf[0] = 0x1111
	buf[1] = 0x2222
	fp := uintptr(unsafe.Pointer(&buf[0]))

	if got := ReadWord(fp + a.NextOlderFPOffset()); got != 0x1111 {
		t.Errorf("saved fp word = %#x, want 0x1111", got)
	}
	if got := a.NextOlderPC(fp); got != 0x2222 {
		t.Errorf("NextOlderPC = %#x, want 0x2222", got)
	}
}

func TestHostReachedEntrySP(t *testing.T) {
	a := Host()
	tests := []struct {
		name        string
		fp, entrySP uintptr
		want        bool
	}{
		{"below bound", 0x1000, 0x2000, false},
		{"at bound", 0x2000, 0x2000, true},
		{"above bound", 0x3000, 0x2000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.ReachedEntrySP(tt.fp, tt.entrySP); got != tt.want {
				t.Errorf("ReachedEntrySP(%#x, %#x) = %v, want %v", tt.fp, tt.entrySP, got, tt.want)
			}
		})
	}
}

func TestHostAlignmentAsserts(t *testing.T) {
	a := Host()

	a.AssertEntrySPAligned(0x1000)
	a.AssertFPAligned(0x2030 & ^uintptr(15))

	assertPanics := func(name string, f func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s did not panic", name)
			}
		}()
		f()
	}
	assertPanics("misaligned entry sp", func() { a.AssertEntrySPAligned(0x1008) })
	assertPanics("misaligned fp", func() { a.AssertFPAligned(0x1004) })
}
