// Package hexenc lowercase-hex-encodes arbitrary byte slices in place
// into a caller-supplied destination, bounds-checking every write.
package hexenc

import "github.com/ethanadams/sigv4/internal/sigv4err"

const digits = "0123456789abcdef"

// Len returns the number of destination bytes Encode needs for n source
// bytes.
func Len(n int) int { return n * 2 }

// Encode writes the lowercase hex encoding of src into dst and returns
// the number of bytes written. dst and src may not overlap.
func Encode(dst, src []byte) (int, error) {
	need := Len(len(src))
	if len(dst) < need {
		return 0, sigv4err.New(sigv4err.InsufficientMemory, "hexenc: destination too small")
	}
	for i, b := range src {
		dst[i*2] = digits[b>>4]
		dst[i*2+1] = digits[b&0x0f]
	}
	return need, nil
}
