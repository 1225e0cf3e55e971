package simd

import "encoding/binary"

// Lanes is the kernel lane width: the number of ternary elements unpacked,
// decoded, multiplied and accumulated per step. 16 elements = one 32-bit
// packed weight word.
const Lanes = 16

// packedBytes is the number of weight bytes consumed per lane group.
const packedBytes = Lanes / 4

// accumLanes expands one packed weight word across all lanes (per-lane right
// shift, 2-bit mask), decodes with a subtract-by-one, multiplies against the
// activation lanes and adds into the per-lane accumulator.
//
// SAFETY: Assumes len(act) >= Lanes. Caller's responsibility.
func accumLanes(acc *[Lanes]int32, packed uint32, act []int32) {
	act = act[:Lanes:Lanes]
	for l := 0; l < Lanes; l++ {
		w := int32((packed>>(uint(l)*2))&0x3) - 1
		acc[l] += w * act[l]
	}
}

// accumTail handles the final partial lane group (rem elements, 0 < rem <
// Lanes). Both the loads and the multiply are masked by an
// element-count-derived lane mask; all Lanes lanes execute regardless of rem.
func accumTail(acc *[Lanes]int32, weights []byte, act []int32, rem int) {
	var wb [packedBytes]byte
	copy(wb[:], weights) // masked weight load
	packed := binary.LittleEndian.Uint32(wb[:])

	var av [Lanes]int32
	copy(av[:rem], act[:rem]) // masked activation load, dead lanes zero

	for l := 0; l < Lanes; l++ {
		m := int32(l-rem) >> 31 // all-ones for lanes < rem, zero beyond
		w := (int32((packed>>(uint(l)*2))&0x3) - 1) & m
		acc[l] += w * (av[l] & m)
	}
}

// reduceLanes performs the horizontal reduction of the lane accumulator as a
// fixed sequence of pairwise width-halving additions: 16 → 8 → 4 → 2 → 1.
func reduceLanes(acc *[Lanes]int32) int32 {
	for l := 0; l < 8; l++ {
		acc[l] += acc[l+8]
	}
	for l := 0; l < 4; l++ {
		acc[l] += acc[l+4]
	}
	acc[0] += acc[2]
	acc[1] += acc[3]
	return acc[0] + acc[1]
}

// ternaryDotGeneric is the portable lane-structured kernel: one 16-element
// lane group per step, masked tail, pairwise reduction.
func ternaryDotGeneric(weights []byte, activations []int32, n int) int32 {
	var acc [Lanes]int32
	i := 0
	for ; i+Lanes <= n; i += Lanes {
		packed := binary.LittleEndian.Uint32(weights[i/4:])
		accumLanes(&acc, packed, activations[i:])
	}
	if i < n {
		accumTail(&acc, weights[i/4:], activations[i:n], n-i)
	}
	return reduceLanes(&acc)
}

// ternaryDotBlocked processes four independent lane groups per iteration,
// matching the deeper pipelines and wider registers of AVX-512/SVE2
// machines, then falls through to the generic path for the remainder
// (which still ends in a masked tail, never a scalar loop).
func ternaryDotBlocked(weights []byte, activations []int32, n int) int32 {
	const block = 4 * Lanes

	var acc0, acc1, acc2, acc3 [Lanes]int32
	i := 0
	for ; i+block <= n; i += block {
		base := i / 4
		accumLanes(&acc0, binary.LittleEndian.Uint32(weights[base:]), activations[i:])
		accumLanes(&acc1, binary.LittleEndian.Uint32(weights[base+packedBytes:]), activations[i+Lanes:])
		accumLanes(&acc2, binary.LittleEndian.Uint32(weights[base+2*packedBytes:]), activations[i+2*Lanes:])
		accumLanes(&acc3, binary.LittleEndian.Uint32(weights[base+3*packedBytes:]), activations[i+3*Lanes:])
	}

	for l := 0; l < Lanes; l++ {
		acc0[l] += acc1[l] + acc2[l] + acc3[l]
	}
	total := reduceLanes(&acc0)

	if i < n {
		total += ternaryDotGeneric(weights[i/4:], activations[i:n], n-i)
	}
	return total
}
