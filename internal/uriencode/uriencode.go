// Package uriencode implements RFC 3986 percent-encoding with the two
// knobs AWS SigV4 canonicalization needs: whether '/' is preserved, and
// whether '=' gets double-encoded (so the single-encoded form survives
// a second pass of the same encoder, as used for query values).
package uriencode

import "github.com/ethanadams/sigv4/internal/sigv4err"

const upperHex = "0123456789ABCDEF"

func isUnreserved(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '~':
		return true
	default:
		return false
	}
}

// EncodedLen returns the number of destination bytes Encode needs for
// src under the given flags, without writing anything.
func EncodedLen(src []byte, encodeSlash, doubleEncodeEquals bool) int {
	n := 0
	for _, c := range src {
		switch {
		case isUnreserved(c):
			n++
		case c == '/' && !encodeSlash:
			n++
		case c == '=' && doubleEncodeEquals:
			n += 5 // %253D
		default:
			n += 3 // %XX
		}
	}
	return n
}

// Encode percent-encodes src into dst per RFC 3986, returning the number
// of bytes written to dst. Unreserved characters (A-Z a-z 0-9 - _ . ~)
// are copied verbatim. '/' is copied verbatim unless encodeSlash is set,
// in which case it becomes %2F. When doubleEncodeEquals is set, '=' is
// written as %253D — the single-encoded %3D re-encoded — so that a
// second encoding pass over an already-encoded value still protects the
// literal '='. Every other byte becomes %XX with uppercase hex digits.
//
// Encode fails with InsufficientMemory as soon as dst cannot hold the
// next encoded character; everything written up to that point is left
// in place but must be treated as invalid by the caller.
func Encode(dst, src []byte, encodeSlash, doubleEncodeEquals bool) (int, error) {
	pos := 0
	writePercent := func(c byte) error {
		if pos+3 > len(dst) {
			return sigv4err.New(sigv4err.InsufficientMemory, "uriencode: destination too small")
		}
		dst[pos] = '%'
		dst[pos+1] = upperHex[c>>4]
		dst[pos+2] = upperHex[c&0x0f]
		pos += 3
		return nil
	}

	for _, c := range src {
		switch {
		case isUnreserved(c):
			if pos+1 > len(dst) {
				return pos, sigv4err.New(sigv4err.InsufficientMemory, "uriencode: destination too small")
			}
			dst[pos] = c
			pos++
		case c == '/' && !encodeSlash:
			if pos+1 > len(dst) {
				return pos, sigv4err.New(sigv4err.InsufficientMemory, "uriencode: destination too small")
			}
			dst[pos] = c
			pos++
		case c == '=' && doubleEncodeEquals:
			// %3D re-encoded: '%' -> %25, '3' and 'D' pass through unreserved.
			if pos+5 > len(dst) {
				return pos, sigv4err.New(sigv4err.InsufficientMemory, "uriencode: destination too small")
			}
			copy(dst[pos:pos+5], "%253D")
			pos += 5
		default:
			if err := writePercent(c); err != nil {
				return pos, err
			}
		}
	}
	return pos, nil
}
