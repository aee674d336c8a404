package stackimage

import (
	"unsafe"

	"github.com/kpreisser/wasmtime"
	"github.com/kpreisser/wasmtime/errors"
)

// RegionWords is a read-only, word-addressed view over one fabricated
// region's backing memory. It implements wasmtime.StackWords.
type RegionWords struct {
	region Region
}

var _ wasmtime.StackWords = (*RegionWords)(nil)

// Bounds returns the half-open address range covered by the region's
// buffer, from the innermost frame pointer up past the pretend trampoline.
func (w *RegionWords) Bounds() (lo, hi uintptr) {
	return w.region.lo, w.region.hi
}

// Word returns the word stored at addr.
func (w *RegionWords) Word(addr uintptr) (uintptr, error) {
	if addr < w.region.lo || addr >= w.region.hi {
		return 0, errors.New(errors.PhaseFixture, errors.KindOutOfBounds).
			Detail("address %#x outside region [%#x, %#x)", addr, w.region.lo, w.region.hi).
			Build()
	}
	if addr%unsafe.Sizeof(uintptr(0)) != 0 {
		return 0, errors.New(errors.PhaseFixture, errors.KindInvalidInput).
			Detail("address %#x is not word aligned", addr).
			Build()
	}
	return w.region.buf[(addr-uintptr(unsafe.Pointer(&w.region.buf[0])))/unsafe.Sizeof(uintptr(0))], nil
}
