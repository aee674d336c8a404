//go:build amd64

package arch

//	     (high address)
//	+----------------------+
//	|    Native Frames     |
//	+----------------------+
//	|   Trampoline Frame   | <---- entry SP at the bottom edge
//	+----------------------+
//	|    Return Address    |
//	|     Caller_RBP       | <---- Wasm FP
//	|     Wasm Frames      |
//	+----------------------+
//	     (low address)
//
// The saved caller RBP sits at [rbp] and the return address at [rbp+8].
type amd64 struct{}

// Host returns the Arch for the build target.
func Host() Arch { return amd64{} }

func (amd64) NextOlderPC(fp uintptr) uintptr { return ReadWord(fp + 8) }

func (amd64) NextOlderFPOffset() uintptr { return 0 }

// ReachedEntrySP uses >= : the entry SP may coincide with the saved
// trampoline RBP when no stack arguments were spilled between the
// trampoline frame and the first Wasm frame.
func (amd64) ReachedEntrySP(candidateFP, entrySP uintptr) bool {
	return candidateFP >= entrySP
}

func (amd64) AssertEntrySPAligned(sp uintptr) { assertAligned16("entry sp", sp) }

func (amd64) AssertFPAligned(fp uintptr) { assertAligned16("fp", fp) }
