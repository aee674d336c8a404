package stackimage

import (
	"unsafe"

	"github.com/kpreisser/wasmtime/errors"
	"github.com/kpreisser/wasmtime/trap"
)

const (
	// wordsPerFrame is the synthetic frame size in words: the FP/return
	// address linkage pair plus two words of pretend locals, keeping
	// every frame pointer 16-byte aligned.
	wordsPerFrame = 4

	// trampolineWords is the slack above the oldest frame reserved for
	// the pretend trampoline frame the region's entry SP points into.
	trampolineWords = 8
)

// Region describes one fabricated contiguous Wasm region: the boundary
// state a real trampoline pair would have recorded around it, plus the
// frames a walk over it must produce.
type Region struct {
	ExitPC  uintptr // pc of the innermost frame
	ExitFP  uintptr // fp of the innermost frame
	EntrySP uintptr // stack pointer recorded by the entering trampoline

	// PCs and FPs hold the expected frames, innermost first.
	PCs []uintptr
	FPs []uintptr

	buf []uintptr
	lo  uintptr
	hi  uintptr
}

// Image holds one or more fabricated regions. The frame-pointer chains
// point into buffers owned by the Image; keep the Image referenced for as
// long as any walk over its addresses may run.
type Image struct {
	regions []Region
}

// New fabricates one region per positive count, each with that many frames.
// Counts are given innermost-first, mirroring capture order. A zero count
// marks a native call that never entered Wasm; it fabricates no memory and
// Wire turns it into a vacuous call-state record. The first count must be
// positive, since the innermost region is the one the live boundary record
// describes.
func New(frameCounts ...int) (*Image, error) {
	if len(frameCounts) == 0 {
		return nil, errors.InvalidInput(errors.PhaseFixture, "at least one region required")
	}
	if frameCounts[0] <= 0 {
		return nil, errors.InvalidInput(errors.PhaseFixture, "innermost region must have frames")
	}

	im := &Image{regions: make([]Region, 0, len(frameCounts))}
	for i, n := range frameCounts {
		if n < 0 {
			return nil, errors.New(errors.PhaseFixture, errors.KindInvalidInput).
				Detail("region %d has negative frame count %d", i, n).
				Build()
		}
		if n == 0 {
			im.regions = append(im.regions, Region{})
			continue
		}
		im.regions = append(im.regions, buildRegion(i, n))
	}
	return im, nil
}

// Regions returns the fabricated regions, innermost first. Vacuous entries
// have a zero EntrySP and no frames.
func (im *Image) Regions() []Region {
	return im.regions
}

// Frames returns the expected capture result over the whole image:
// every region's frames, innermost region first.
func (im *Image) Frames() (pcs, fps []uintptr) {
	for _, r := range im.regions {
		pcs = append(pcs, r.PCs...)
		fps = append(fps, r.FPs...)
	}
	return pcs, fps
}

// Wire installs the image into ts as if the trampolines had run a nested
// Wasm->host->Wasm call chain: the outermost region is entered first, each
// nested native call pushes a call-state record, and the innermost region
// ends up in the live boundary record.
func (im *Image) Wire(ts *trap.ThreadState) {
	ts.PushCall() // the thread's first call into Wasm; becomes the sentinel

	for i := len(im.regions) - 1; i >= 1; i-- {
		r := im.regions[i]
		if r.EntrySP != 0 {
			ts.EnterWasm(r.EntrySP)
			ts.ExitWasm(r.ExitPC, r.ExitFP)
		}
		ts.PushCall()
	}

	inner := im.regions[0]
	ts.EnterWasm(inner.EntrySP)
	ts.ExitWasm(inner.ExitPC, inner.ExitFP)
}

// buildRegion lays out n frames at increasing addresses:
//
//	base:              fp[0]   -> [saved fp[1],   pc[1], pad, pad]
//	base+32:           fp[1]   -> [saved fp[2],   pc[2], pad, pad]
//	...
//	base+(n-1)*32:     fp[n-1] -> [trampoline fp, hostPC, pad, pad]
//	base+n*32:         entry SP (bottom edge of the pretend trampoline)
//
// The trampoline fp stored in the oldest frame sits above the entry SP, so
// the walker's boundary comparator fires there.
func buildRegion(idx, n int) Region {
	// Slack for aligning the base frame pointer.
	buf := make([]uintptr, n*wordsPerFrame+trampolineWords+4)

	// 16-byte align the base frame pointer.
	base := 0
	for uintptr(unsafe.Pointer(&buf[base]))%16 != 0 {
		base++
	}

	addr := func(word int) uintptr {
		return uintptr(unsafe.Pointer(&buf[base+word]))
	}

	r := Region{
		buf: buf,
		lo:  addr(0),
		hi:  addr(n*wordsPerFrame + trampolineWords),
	}

	// Distinct, recognizable synthetic pcs; never dereferenced.
	pc := func(frame int) uintptr {
		return uintptr(0x710000 + idx*0x10000 + frame*0x10)
	}

	for f := 0; f < n; f++ {
		r.FPs = append(r.FPs, addr(f*wordsPerFrame))
		r.PCs = append(r.PCs, pc(f))
	}
	r.EntrySP = addr(n * wordsPerFrame)
	r.ExitPC = r.PCs[0]
	r.ExitFP = r.FPs[0]

	for f := 0; f < n-1; f++ {
		buf[base+f*wordsPerFrame] = r.FPs[f+1]   // saved previous fp
		buf[base+f*wordsPerFrame+1] = r.PCs[f+1] // return address
	}
	// The oldest frame links into the pretend trampoline.
	buf[base+(n-1)*wordsPerFrame] = r.EntrySP + 16
	buf[base+(n-1)*wordsPerFrame+1] = pc(n) // host-side return address, discarded by the walker

	return r
}

// Words exposes the region's backing memory as a word-addressed view for
// diagnostics. Vacuous regions have no memory and return nil.
func (r Region) Words() *RegionWords {
	if r.EntrySP == 0 {
		return nil
	}
	return &RegionWords{region: r}
}
