// Package testutil provides testing utilities for the ternary kernels.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random source plus helpers for
// generating ternary weight vectors and int8 activations, and the naive
// reference dot product that kernel results are checked against.
//
//	rng := testutil.NewRNG(seed)
//	weights := rng.TernaryVector(1024)
//	acts := rng.Int8Activations(1024)
//	want := testutil.ReferenceDot(weights, acts)
package testutil
