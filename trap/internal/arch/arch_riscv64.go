//go:build riscv64

package arch

// riscv64 mirrors the x86-64 layout: saved previous FP at [fp], return
// address at [fp+8], 16-byte stack alignment.
type riscv64 struct{}

// Host returns the Arch for the build target.
func Host() Arch { return riscv64{} }

func (riscv64) NextOlderPC(fp uintptr) uintptr { return ReadWord(fp + 8) }

func (riscv64) NextOlderFPOffset() uintptr { return 0 }

func (riscv64) ReachedEntrySP(candidateFP, entrySP uintptr) bool {
	return candidateFP >= entrySP
}

func (riscv64) AssertEntrySPAligned(sp uintptr) { assertAligned16("entry sp", sp) }

func (riscv64) AssertFPAligned(fp uintptr) { assertAligned16("fp", fp) }
