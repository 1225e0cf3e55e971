//go:build !amd64 && !arm64

package simd

func init() {
	// No feature flags to detect; this still honors a BITNET_SIMD=generic
	// override for symmetry with the other platforms.
	initCapabilities()
}
