package bitnet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bitnet "github.com/HyperFoldUK/BitNet"
	"github.com/HyperFoldUK/BitNet/internal/ternary"
	"github.com/HyperFoldUK/BitNet/testutil"
	"github.com/HyperFoldUK/BitNet/weightcache"
)

func onesActivations(n int) []int8 {
	out := make([]int8, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

// TestEndToEndRepeatingPattern caches a 64-element repeating [-1,0,+1]
// tensor and dots it with all-ones activations: the result must equal the
// signed sum of the pattern itself.
func TestEndToEndRepeatingPattern(t *testing.T) {
	eng := bitnet.New()
	defer eng.Close()

	const n = 64
	values := make([]int8, n)
	var want int32
	for i := range values {
		values[i] = int8(i%3) - 1 // -1, 0, +1, -1, ...
		want += int32(values[i])
	}

	h, err := eng.CacheWeights(ternary.PackStorage(values), n)
	require.NoError(t, err)

	got := eng.VecDotCached(h, onesActivations(n))
	assert.Equal(t, float32(want), got)

	s := eng.CacheStats()
	assert.Equal(t, 1, s.Entries)
	assert.Equal(t, int64(ternary.BytesFor(n)), s.TotalBytes)
}

// TestCachedMatchesDirect verifies the cached and fallback paths agree on
// randomized tensors of awkward lengths.
func TestCachedMatchesDirect(t *testing.T) {
	eng := bitnet.New()
	defer eng.Close()

	rng := testutil.NewRNG(17)
	for _, n := range []int{1, 15, 16, 17, 64, 100, 1000, 1027} {
		values := rng.TernaryVector(n)
		activations := rng.Int8Activations(n)
		storage := ternary.PackStorage(values)
		want := testutil.ReferenceDot(values, activations)

		h, err := eng.CacheWeights(storage, n)
		require.NoError(t, err)

		cached, ok := eng.DotCached(h, activations)
		require.True(t, ok)
		assert.Equal(t, want, cached, "cached path, n=%d", n)

		direct := eng.DotDirect(storage, activations)
		assert.Equal(t, want, direct, "fallback path, n=%d", n)
	}
}

// TestSparsityEquivalence pushes tensors with varying zero-weight fractions
// through the full cached path; results stay exact regardless of sparsity.
func TestSparsityEquivalence(t *testing.T) {
	eng := bitnet.New()
	defer eng.Close()

	rng := testutil.NewRNG(5)
	for _, zeroFrac := range []float64{0.0, 0.4, 0.8} {
		values := rng.SparseTernaryVector(300, zeroFrac)
		activations := rng.Int8Activations(300)

		h, err := eng.CacheWeights(ternary.PackStorage(values), len(values))
		require.NoError(t, err)

		got, ok := eng.DotCached(h, activations)
		require.True(t, ok)
		assert.Equal(t, testutil.ReferenceDot(values, activations), got, "zeroFrac=%v", zeroFrac)
	}
}

func TestHybridRouting(t *testing.T) {
	eng := bitnet.New()
	defer eng.Close()

	values := []int8{1, 1, -1, 0, 1, -1, 0, 0, 1, 1, 1, -1}
	activations := []int8{3, -2, 5, 7, 1, 1, 9, -9, 2, 2, 2, 4}
	storage := ternary.PackStorage(values)

	var want int32
	for i := range values {
		want += int32(values[i]) * int32(activations[i])
	}

	h, err := eng.CacheWeights(storage, len(values))
	require.NoError(t, err)

	// The flag alone selects the path; both must agree.
	assert.Equal(t, float32(want), eng.VecDot(h, nil, activations, true))
	assert.Equal(t, float32(want), eng.VecDot(weightcache.Handle{}, storage, activations, false))
}

// TestFailSoftZero: an unresolved handle on the cached path produces a zero
// result, not a fault.
func TestFailSoftZero(t *testing.T) {
	eng := bitnet.New()
	defer eng.Close()

	activations := onesActivations(32)

	got := eng.VecDotCached(weightcache.Handle{}, activations)
	assert.Equal(t, float32(0), got)

	res, ok := eng.DotCached(weightcache.Handle{}, activations)
	assert.False(t, ok)
	assert.Equal(t, int32(0), res)

	// Released handles behave the same way.
	values := []int8{1, -1, 0, 1}
	h, err := eng.CacheWeights(ternary.PackStorage(values), len(values))
	require.NoError(t, err)
	require.True(t, eng.ReleaseWeights(h))

	assert.Equal(t, float32(0), eng.VecDotCached(h, onesActivations(4)))
}

func TestDotCachedLengthMismatch(t *testing.T) {
	eng := bitnet.New()
	defer eng.Close()

	// A 4-element entry cannot serve 16 activations; fail soft, not panic.
	values := []int8{1, -1, 0, 1}
	h, err := eng.CacheWeights(ternary.PackStorage(values), len(values))
	require.NoError(t, err)

	res, ok := eng.DotCached(h, onesActivations(16))
	assert.False(t, ok)
	assert.Equal(t, int32(0), res)
}

func TestDotDirectShortStorage(t *testing.T) {
	eng := bitnet.New()
	defer eng.Close()

	// 16 elements need 4 packed bytes; 1 byte fails soft to zero.
	assert.Equal(t, int32(0), eng.DotDirect([]byte{0x00}, onesActivations(16)))
	assert.Equal(t, int32(0), eng.DotDirect(nil, onesActivations(16)))
}

func TestEmptyActivations(t *testing.T) {
	eng := bitnet.New()
	defer eng.Close()

	values := []int8{1, -1, 0, 1}
	h, err := eng.CacheWeights(ternary.PackStorage(values), len(values))
	require.NoError(t, err)

	res, ok := eng.DotCached(h, nil)
	assert.True(t, ok)
	assert.Equal(t, int32(0), res)
	assert.Equal(t, int32(0), eng.DotDirect([]byte{0x00}, nil))
}

func TestMetricsCollection(t *testing.T) {
	mc := &bitnet.BasicMetricsCollector{}
	eng := bitnet.New(bitnet.WithMetricsCollector(mc))
	defer eng.Close()

	values := []int8{1, -1, 0, 1, 1, 1, -1, 0}
	storage := ternary.PackStorage(values)
	activations := onesActivations(len(values))

	h, err := eng.CacheWeights(storage, len(values))
	require.NoError(t, err)
	_, err = eng.CacheWeights(nil, 8)
	require.Error(t, err)

	eng.VecDotCached(h, activations)
	eng.VecDotCached(weightcache.Handle{}, activations)
	eng.VecDotDirect(storage, activations)

	assert.Equal(t, int64(2), mc.CacheWeightsCount.Load())
	assert.Equal(t, int64(1), mc.CacheWeightsErrors.Load())
	assert.Equal(t, int64(2), mc.VecDotCached.Load())
	assert.Equal(t, int64(1), mc.VecDotHandleMisses.Load())
	assert.Equal(t, int64(1), mc.VecDotFallback.Load())

	require.True(t, eng.ReleaseWeights(h))
	require.False(t, eng.ReleaseWeights(h))
	assert.Equal(t, int64(2), mc.ReleaseCount.Load())
	assert.Equal(t, int64(1), mc.ReleaseStale.Load())
}

func TestEngineCloseFailsSoft(t *testing.T) {
	eng := bitnet.New()

	values := []int8{1, -1, 0, 1}
	h, err := eng.CacheWeights(ternary.PackStorage(values), len(values))
	require.NoError(t, err)

	require.NoError(t, eng.Close())
	require.NoError(t, eng.Close(), "double close")

	assert.Equal(t, float32(0), eng.VecDotCached(h, onesActivations(4)))

	_, err = eng.CacheWeights(ternary.PackStorage(values), len(values))
	assert.ErrorIs(t, err, weightcache.ErrClosed)
}
