// Package ternary implements the packed 2-bit ternary weight encodings and
// the branchless re-encoding between them.
//
// Two layouts share the same physical shape (4 elements per byte, low bit
// pair first):
//
//   - Storage layout: the packing as persisted by the model loader. A 2-bit
//     pair decodes as 00→+1, 01→−1, 10→0. The pattern 11 does not occur in
//     well-formed tensors but every operation here remains total over it.
//   - Computation layout: a re-encoding chosen so that a 2-bit pair decodes
//     as value−1 (00→−1, 01→0, 10→+1), which the dot-product kernels exploit
//     with a single vectorized subtract instead of a lookup table.
//
// Transcode is the only operation that changes layout.
package ternary

// ElemsPerByte is the number of ternary elements packed into one byte.
const ElemsPerByte = 4

// BytesFor returns the packed size in bytes of n ternary elements.
func BytesFor(n int) int {
	return (n + ElemsPerByte - 1) / ElemsPerByte
}

// Transcode converts one storage-layout byte to computation layout.
//
// For each 2-bit pair (hi,lo) the output pair is (^(hi^lo)&1, hi), so the
// storage alphabet {00,01,10,11} maps to {10,00,01,11} and the output pair
// decodes as pair−1. Pure, total and branchless; it is a bijection on every
// 2-bit sub-field, so applying it byte-wise over a tensor preserves the
// packing while switching the alphabet.
func Transcode(b byte) byte {
	lo := b & 0x55
	hi := b & 0xAA
	outLo := hi >> 1
	outHi := (^(outLo ^ lo) & 0x55) << 1
	return outHi | outLo
}

// TranscodeInto applies Transcode over src, writing into dst.
//
// SAFETY: Assumes len(dst) >= len(src). Caller's responsibility.
func TranscodeInto(dst, src []byte) {
	for i, b := range src {
		dst[i] = Transcode(b)
	}
}

// storageValue is the documented storage-layout decoding table. Entry 3 is
// the out-of-domain pattern; it is listed so that decoding stays total and
// consistent with the transcoded alphabet (11→11, 3−1=2).
var storageValue = [4]int32{1, -1, 0, 2}

// DecodeStorage returns the ternary value of element i of a storage-layout
// buffer.
func DecodeStorage(buf []byte, i int) int32 {
	pair := (buf[i/ElemsPerByte] >> uint((i%ElemsPerByte)*2)) & 0x3
	return storageValue[pair]
}

// DecodeComputation returns the ternary value of element i of a
// computation-layout buffer: the 2-bit pair minus one.
func DecodeComputation(buf []byte, i int) int32 {
	pair := (buf[i/ElemsPerByte] >> uint((i%ElemsPerByte)*2)) & 0x3
	return int32(pair) - 1
}

// PackStorage packs ternary values {-1,0,+1} into a storage-layout buffer.
// Used by loaders and tests to synthesize tensors.
func PackStorage(values []int8) []byte {
	buf := make([]byte, BytesFor(len(values)))
	for i, v := range values {
		var pair byte
		switch v {
		case 1:
			pair = 0
		case -1:
			pair = 1
		default:
			pair = 2
		}
		buf[i/ElemsPerByte] |= pair << uint((i%ElemsPerByte)*2)
	}
	return buf
}

// PackComputation packs ternary values {-1,0,+1} directly into computation
// layout (value+1 per pair). Test helper for exercising kernels without a
// transcoding step.
func PackComputation(values []int8) []byte {
	buf := make([]byte, BytesFor(len(values)))
	for i, v := range values {
		pair := byte(v + 1)
		buf[i/ElemsPerByte] |= pair << uint((i%ElemsPerByte)*2)
	}
	return buf
}
