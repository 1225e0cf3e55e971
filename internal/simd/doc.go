// Package simd provides the vectorized ternary dot-product and activation
// widening kernels.
//
// # Supported Platforms
//
//   - x86-64: AVX-512, AVX2
//   - ARM64: NEON, SVE2
//
// Runtime CPU feature detection selects the kernel variant at package init.
// Every variant implements the same contract and runs against the same
// correctness tests; set BITNET_SIMD to pin a specific selection.
//
// # Operations
//
//   - TernaryDot: packed 2-bit ternary weights × int32 activations
//   - WidenInt8: int8 → int32 activation widening
//
// Kernels process elements in fixed 16-element lane groups: one packed
// 32-bit weight word is expanded by per-lane shifts and a 2-bit mask,
// decoded with a single subtract across lanes, multiplied elementwise and
// accumulated per lane. A trailing partial group is handled with an
// element-count-derived lane mask, never a scalar catch-up loop, and the
// final accumulator is reduced by fixed pairwise halving.
package simd
