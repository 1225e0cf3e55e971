package simd

// init sets the kernel pointers based on the active ISA. This runs after
// the capability_*.go init() has detected CPU features and selected the
// active ISA (init order follows file name order within the package).
func init() {
	switch activeISA {
	case AVX512, SVE2:
		// 512-bit-class machines sustain four independent lane groups.
		kernelTernaryDot = ternaryDotBlocked
	}
}
