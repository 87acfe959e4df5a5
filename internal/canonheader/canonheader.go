// Package canonheader parses an HTTP header block, sorts it by key, and
// emits the canonical-headers text plus the signed-headers list the
// signer's credential needs. Trimming and sorting are skipped for
// input the caller already marked canonical — that text is copied
// through, though it is still parsed once to recover the ordered key
// list for the signed-headers line.
package canonheader

import (
	"github.com/ethanadams/sigv4/internal/procbuf"
	"github.com/ethanadams/sigv4/internal/sigv4err"
	"github.com/ethanadams/sigv4/internal/sortutil"
)

// Pair is a header key/value, sliced directly from the caller's input
// buffer — never copied until emission.
type Pair struct {
	Key   []byte
	Value []byte
}

// Parse splits headers into up to maxPairs (key,value) pairs. When
// canonical is false, lines are CRLF-terminated and end with a blank
// line; when true, lines are LF-terminated and the block already ends
// in the signer's canonical form (key:value\n ... \n). Parse never
// mutates headers; every returned span aliases it.
func Parse(headers []byte, canonical bool, maxPairs int) ([]Pair, error) {
	var pairs []Pair
	pos := 0
	n := len(headers)

	for pos < n {
		// An empty key (value terminator found immediately) marks the
		// end-of-headers blank line.
		colon := indexByte(headers[pos:], ':')
		lineEnd := -1
		if !canonical {
			lineEnd = indexCRLF(headers[pos:])
		} else {
			lineEnd = indexByte(headers[pos:], '\n')
		}
		if lineEnd == 0 {
			// blank line: end of header block
			pos += lineEndWidth(canonical)
			break
		}
		if colon < 0 || lineEnd < 0 || colon > lineEnd {
			return nil, sigv4err.New(sigv4err.InvalidParameter, "canonheader: malformed header block")
		}

		key := headers[pos : pos+colon]
		valStart := pos + colon + 1
		valEnd := pos + lineEnd
		value := headers[valStart:valEnd]

		if len(pairs) >= maxPairs {
			return nil, sigv4err.New(sigv4err.MaxHeaderPairCountExceeded, "canonheader: too many header pairs")
		}
		pairs = append(pairs, Pair{Key: key, Value: value})

		pos += lineEnd + lineEndWidth(canonical)
	}

	return pairs, nil
}

func lineEndWidth(canonical bool) int {
	if canonical {
		return 1 // LF
	}
	return 2 // CRLF
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

func indexCRLF(b []byte) int {
	for i := 0; i+1 < len(b); i++ {
		if b[i] == '\r' && b[i+1] == '\n' {
			return i
		}
	}
	return -1
}

func isTrimmable(c byte) bool { return c == ' ' || c == '\t' }

// collapse returns a newly allocated copy of value with leading and
// trailing spaces/tabs dropped and each inner run collapsed to one space.
func collapse(value []byte) []byte {
	out := make([]byte, 0, len(value))
	inSpace := false
	started := false
	for _, c := range value {
		if isTrimmable(c) {
			if started {
				inSpace = true
			}
			continue
		}
		if inSpace {
			out = append(out, ' ')
			inSpace = false
		}
		out = append(out, c)
		started = true
	}
	return out
}

func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// compareKeys implements the three-stage, case-insensitive tiebreak:
// compare bytes lowercased up to the shorter length, then fall back to
// length. This is exactly what a byte-lexicographic compare already
// gives once case is folded, so ties only remain for genuinely
// identical (case-insensitive) keys.
func compareKeys(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		ca, cb := lowerByte(a[i]), lowerByte(b[i])
		if ca != cb {
			return int(ca) - int(cb)
		}
	}
	return len(a) - len(b)
}

func comparePairs(a, b Pair) int {
	if c := compareKeys(a.Key, b.Key); c != 0 {
		return c
	}
	return compareBytesRaw(a.Value, b.Value)
}

func compareBytesRaw(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i])
		}
	}
	return len(a) - len(b)
}

// Canonicalize writes the canonical headers block (terminated by a
// blank line) followed by the signed-headers line into buf, returning
// the start offset and length of the signed-headers substring within
// buf.Data so the caller can copy it into the Authorization prefix
// before the buffer is reused for later phases.
func Canonicalize(buf *procbuf.Buffer, headers []byte, canonical bool, maxPairs int) (signedStart, signedLen int, err error) {
	pairs, err := Parse(headers, canonical, maxPairs)
	if err != nil {
		return 0, 0, err
	}

	if canonical {
		// Already-canonical input is assumed pre-sorted and pre-trimmed;
		// copy it through untouched, the signed-headers list below just
		// follows the order it was parsed in.
		if err := buf.Append(headers); err != nil {
			return 0, 0, err
		}
	} else {
		sortutil.Sort(pairs, comparePairs)
		for _, p := range pairs {
			for _, c := range p.Key {
				if err := buf.AppendByte(lowerByte(c)); err != nil {
					return 0, 0, err
				}
			}
			if err := buf.AppendByte(':'); err != nil {
				return 0, 0, err
			}
			if err := buf.Append(collapse(p.Value)); err != nil {
				return 0, 0, err
			}
			if err := buf.AppendByte('\n'); err != nil {
				return 0, 0, err
			}
		}
		if err := buf.AppendByte('\n'); err != nil {
			return 0, 0, err
		}
	}

	signedStart = buf.Cursor
	for i, p := range pairs {
		if i > 0 {
			if err := buf.AppendByte(';'); err != nil {
				return 0, 0, err
			}
		}
		for _, c := range p.Key {
			if err := buf.AppendByte(lowerByte(c)); err != nil {
				return 0, 0, err
			}
		}
	}
	signedLen = buf.Cursor - signedStart
	if err := buf.AppendByte('\n'); err != nil {
		return 0, 0, err
	}
	return signedStart, signedLen, nil
}
