package simd

// widenInt8Generic widens int8 activations to the kernel's working int32
// width, one lane group at a time.
//
// SAFETY: Assumes len(dst) >= len(src). Caller's responsibility.
func widenInt8Generic(dst []int32, src []int8) {
	n := len(src)
	i := 0
	for ; i+Lanes <= n; i += Lanes {
		d := dst[i : i+Lanes : i+Lanes]
		s := src[i : i+Lanes : i+Lanes]
		for l := 0; l < Lanes; l++ {
			d[l] = int32(s[l])
		}
	}
	for ; i < n; i++ {
		dst[i] = int32(src[i])
	}
}
