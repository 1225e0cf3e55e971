package bitnet

import (
	"context"
	"sync"
	"time"

	"github.com/HyperFoldUK/BitNet/internal/simd"
	"github.com/HyperFoldUK/BitNet/internal/ternary"
	"github.com/HyperFoldUK/BitNet/weightcache"
)

// Engine couples the weight cache with the dot-product kernels. It owns the
// cache and per-call scratch buffers; weight and activation inputs stay
// caller-owned.
//
// All methods are safe for concurrent use, with the cache's documented
// load/infer overlap semantics.
type Engine struct {
	cache   *weightcache.Cache
	logger  *Logger
	metrics MetricsCollector

	// Scratch pools replace per-call allocations on the inference path:
	// widened int32 activations and, on the fallback path, the inline
	// transcode target.
	widenPool   sync.Pool
	scratchPool sync.Pool
}

// New creates an Engine with an empty weight cache.
func New(opts ...Option) *Engine {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Engine{
		cache:   weightcache.New(weightcache.WithLogger(o.logger.Logger)),
		logger:  o.logger,
		metrics: o.metricsCollector,
		widenPool: sync.Pool{
			New: func() any { return new([]int32) },
		},
		scratchPool: sync.Pool{
			New: func() any { return new([]byte) },
		},
	}
}

// CacheWeights transcodes a storage-layout tensor of n ternary elements and
// registers it, returning the handle for cached dispatch. Call once per
// tensor at load time; the caller keeps ownership of storage.
func (e *Engine) CacheWeights(storage []byte, n int) (weightcache.Handle, error) {
	start := time.Now()
	h, err := e.cache.Put(storage, n)
	e.metrics.RecordCacheWeights(time.Since(start), err)
	e.logger.LogCacheWeights(n, ternary.BytesFor(n), err)
	return h, err
}

// CacheWeightsBatch registers many tensors in one call, transcoding in
// parallel. On any failure nothing is registered.
func (e *Engine) CacheWeightsBatch(ctx context.Context, tensors []weightcache.Tensor) ([]weightcache.Handle, error) {
	start := time.Now()
	handles, err := e.cache.PutBatch(ctx, tensors)
	e.metrics.RecordCacheWeights(time.Since(start), err)
	return handles, err
}

// ReleaseWeights frees one cached tensor. Idempotent; returns false for
// stale or zero handles.
func (e *Engine) ReleaseWeights(h weightcache.Handle) bool {
	released := e.cache.Release(h)
	e.metrics.RecordRelease(released)
	return released
}

// CacheStats reports the cache's entry count, cached bytes and lookup
// traffic. Because both layouts pack four elements per byte, TotalBytes is
// also the exact extra footprint relative to the caller-retained
// storage-layout copies (a deliberate ~1x overhead in exchange for
// transcode-free inference).
func (e *Engine) CacheStats() weightcache.Stats {
	return e.cache.Stats()
}

// Close releases the weight cache and every buffer it owns. Outstanding
// handles become misses; the fail-soft dot paths then produce zeros.
func (e *Engine) Close() error {
	return e.cache.Close()
}

// DotCached computes the integer dot product of a cached tensor with int8
// activations, using len(activations) as the element count. The boolean is
// false when the handle does not resolve or the entry is too short for
// len(activations) elements; both fail soft to 0.
func (e *Engine) DotCached(h weightcache.Handle, activations []int8) (int32, bool) {
	n := len(activations)
	weights, ok := e.cache.Bytes(h)
	if !ok || len(weights) < ternary.BytesFor(n) {
		e.metrics.RecordVecDot(n, true, false)
		return 0, false
	}
	res := e.dot(weights, activations)
	e.metrics.RecordVecDot(n, true, true)
	return res, true
}

// DotDirect computes the integer dot product for an uncached storage-layout
// tensor, transcoding the needed byte range inline into pooled scratch.
// This reintroduces the per-call O(n) transcode and exists for tensors that
// bypass caching. A storage buffer shorter than the packed length of
// len(activations) elements yields 0.
func (e *Engine) DotDirect(storage []byte, activations []int8) int32 {
	n := len(activations)
	e.metrics.RecordVecDot(n, false, true)
	if n == 0 {
		return 0
	}
	need := ternary.BytesFor(n)
	if len(storage) < need {
		return 0
	}

	sb := e.scratchPool.Get().(*[]byte)
	if cap(*sb) < need {
		*sb = make([]byte, need)
	}
	scratch := (*sb)[:need]
	ternary.TranscodeInto(scratch, storage[:need])

	res := e.dot(scratch, activations)
	e.scratchPool.Put(sb)
	return res
}

// VecDotCached is the cached inference entry point: handle lookup, widen,
// kernel. An unresolved handle fails soft to 0 rather than faulting.
func (e *Engine) VecDotCached(h weightcache.Handle, activations []int8) float32 {
	res, _ := e.DotCached(h, activations)
	return float32(res)
}

// VecDotDirect is the fallback inference entry point for uncached tensors.
func (e *Engine) VecDotDirect(storage []byte, activations []int8) float32 {
	return float32(e.DotDirect(storage, activations))
}

// VecDot is the hybrid entry point. The caller-supplied useCache flag alone
// selects the path: when true, weights must be a handle from CacheWeights;
// when false, storage must be the raw storage-layout bytes. The layout of a
// pointer is never inferred from the data itself.
func (e *Engine) VecDot(h weightcache.Handle, storage []byte, activations []int8, useCache bool) float32 {
	if useCache {
		return e.VecDotCached(h, activations)
	}
	return e.VecDotDirect(storage, activations)
}

// dot widens activations into pooled int32 scratch and runs the kernel.
func (e *Engine) dot(weights []byte, activations []int8) int32 {
	n := len(activations)
	if n == 0 {
		return 0
	}

	wb := e.widenPool.Get().(*[]int32)
	if cap(*wb) < n {
		*wb = make([]int32, n)
	}
	wide := (*wb)[:n]
	simd.WidenInt8(wide, activations)

	res := simd.TernaryDot(weights, wide, n)
	e.widenPool.Put(wb)
	return res
}
