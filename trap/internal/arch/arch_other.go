//go:build !(amd64 || arm64 || riscv64)

package arch

// Host returns the Arch for the build target.
func Host() Arch {
	panic("unsupported architecture")
}
