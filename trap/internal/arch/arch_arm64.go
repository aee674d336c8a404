//go:build arm64

package arch

//	     (high address)
//	+----------------------+
//	|    Native Frames     |
//	+----------------------+
//	|   Trampoline Frame   | <---- entry SP at the bottom edge
//	+----------------------+
//	|       Saved LR       |
//	|      Saved FP        | <---- Wasm FP
//	|     Wasm Frames      |
//	+----------------------+
//	     (low address)
//
// The generated code saves the FP/LR pair at the top of every frame, so the
// previous frame pointer is at [fp] and the return address at [fp+8], the
// same layout as x86-64.
type arm64 struct{}

// Host returns the Arch for the build target.
func Host() Arch { return arm64{} }

func (arm64) NextOlderPC(fp uintptr) uintptr { return ReadWord(fp + 8) }

func (arm64) NextOlderFPOffset() uintptr { return 0 }

func (arm64) ReachedEntrySP(candidateFP, entrySP uintptr) bool {
	return candidateFP >= entrySP
}

func (arm64) AssertEntrySPAligned(sp uintptr) { assertAligned16("entry sp", sp) }

func (arm64) AssertFPAligned(fp uintptr) { assertAligned16("fp", fp) }
