package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// TernaryVector generates n random ternary values in {-1, 0, +1}.
// Locks only once per call.
func (r *RNG) TernaryVector(n int) []int8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int8, n)
	for i := range out {
		out[i] = int8(r.rand.Intn(3) - 1)
	}
	return out
}

// SparseTernaryVector generates n ternary values where each element is zero
// with probability zeroFrac and otherwise ±1 with equal probability.
func (r *RNG) SparseTernaryVector(n int, zeroFrac float64) []int8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int8, n)
	for i := range out {
		if r.rand.Float64() < zeroFrac {
			continue
		}
		out[i] = int8(r.rand.Intn(2)*2 - 1)
	}
	return out
}

// Int8Activations generates n random activations spanning the full int8
// range.
func (r *RNG) Int8Activations(n int) []int8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int8, n)
	for i := range out {
		out[i] = int8(r.rand.Intn(256) - 128)
	}
	return out
}

// ReferenceDot computes the naive element-wise dot product used as ground
// truth for the vectorized kernels.
func ReferenceDot(weights, activations []int8) int32 {
	var sum int32
	for i := range weights {
		sum += int32(weights[i]) * int32(activations[i])
	}
	return sum
}
