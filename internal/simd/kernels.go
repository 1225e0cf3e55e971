package simd

// Kernel function pointers - set once at init, zero runtime overhead.
// The generic lane-structured implementations are the default;
// kernels_select.go overrides them when a wider ISA is active.
var (
	kernelTernaryDot = ternaryDotGeneric
	kernelWidenInt8  = widenInt8Generic
)

// ============================================================================
// Public API - Zero-overhead dispatch through function pointers
// ============================================================================

// TernaryDot computes the exact integer dot product of n packed ternary
// weights (computation layout, 4 elements per byte, low bit pair first,
// decode = pair−1) with int32 activations. n == 0 yields 0.
//
// SAFETY: Assumes len(weights) >= (n+3)/4 and len(activations) >= n whenever
// n > 0. Caller MUST ensure this; the hot loop is contract-free.
func TernaryDot(weights []byte, activations []int32, n int) int32 {
	return kernelTernaryDot(weights, activations, n)
}

// WidenInt8 widens int8 activations into dst as int32.
//
// SAFETY: Assumes len(dst) >= len(src). Caller MUST ensure this.
func WidenInt8(dst []int32, src []int8) {
	kernelWidenInt8(dst, src)
}
