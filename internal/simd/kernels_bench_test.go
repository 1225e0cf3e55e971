package simd

import (
	"math/rand"
	"testing"

	"github.com/HyperFoldUK/BitNet/internal/ternary"
)

// Benchmarks compare the kernel variants at typical hidden-dimension sizes.
// Run with BITNET_SIMD=generic to pin the portable variant:
//
//	go test ./internal/simd -run '^$' -bench . -benchmem
//	BITNET_SIMD=generic go test ./internal/simd -run '^$' -bench . -benchmem

func benchInputs(n int) ([]byte, []int32) {
	r := rand.New(rand.NewSource(1))
	values := make([]int8, n)
	for i := range values {
		values[i] = int8(r.Intn(3) - 1)
	}
	activations := make([]int32, n)
	for i := range activations {
		activations[i] = int32(r.Intn(255) - 127)
	}
	return ternary.PackComputation(values), activations
}

func benchmarkDot(b *testing.B, fn func([]byte, []int32, int) int32, n int) {
	weights, activations := benchInputs(n)
	b.SetBytes(int64(n))
	b.ResetTimer()
	var sink int32
	for i := 0; i < b.N; i++ {
		sink = fn(weights, activations, n)
	}
	_ = sink
}

func BenchmarkTernaryDotGeneric_2048(b *testing.B) { benchmarkDot(b, ternaryDotGeneric, 2048) }
func BenchmarkTernaryDotBlocked_2048(b *testing.B) { benchmarkDot(b, ternaryDotBlocked, 2048) }
func BenchmarkTernaryDotActive_2048(b *testing.B)  { benchmarkDot(b, TernaryDot, 2048) }
func BenchmarkTernaryDotActive_4096(b *testing.B)  { benchmarkDot(b, TernaryDot, 4096) }
func BenchmarkTernaryDotActive_4097(b *testing.B)  { benchmarkDot(b, TernaryDot, 4097) }

func BenchmarkWidenInt8_4096(b *testing.B) {
	src := make([]int8, 4096)
	dst := make([]int32, 4096)
	b.SetBytes(4096)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		WidenInt8(dst, src)
	}
}
