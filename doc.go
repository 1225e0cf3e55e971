// Package bitnet accelerates ternary-weight dot products for low-bit
// quantized inference.
//
// Weights are ternary ({-1, 0, +1}) packed two bits per element. The storage
// encoding used by model files is not directly consumable by a vectorized
// kernel, so this package re-encodes each tensor once at load time into a
// computation layout whose 2-bit pairs decode with a single subtract, caches
// the result, and serves inference calls with a pointer lookup plus a fully
// lane-structured dot-product kernel (no per-element decode loop, masked
// tail handling).
//
// # Quick Start
//
//	eng := bitnet.New()
//	defer eng.Close()
//
//	// Load time: transcode + register each weight tensor once.
//	h, err := eng.CacheWeights(storageBytes, elements)
//
//	// Inference time: handle lookup + vectorized kernel. Activations are
//	// widened internally from int8 to the kernel's int32 working width.
//	score := eng.VecDotCached(h, activations)
//
// Tensors that bypass caching can use the fallback path, which transcodes
// inline per call:
//
//	score := eng.VecDotDirect(storageBytes, activations)
//
// The cache trades one extra copy of the packed weights for the elimination
// of per-call transcoding; see the weightcache package for lifecycle and
// concurrency details.
package bitnet
