// Package canonquery parses an HTTP query string, sorts its (field,
// value) pairs, and emits the canonical query line the signer needs.
package canonquery

import (
	"github.com/ethanadams/sigv4/internal/procbuf"
	"github.com/ethanadams/sigv4/internal/sigv4err"
	"github.com/ethanadams/sigv4/internal/sortutil"
	"github.com/ethanadams/sigv4/internal/uriencode"
)

// Pair is a query field/value, sliced directly from the caller's query
// buffer.
type Pair struct {
	Field []byte
	Value []byte
}

// Parse splits query into up to maxPairs pairs. Fields are delimited by
// '&', and the first '=' within a field separates it from its value;
// any further '=' bytes belong to the value. Empty values are allowed;
// empty fields are not.
func Parse(query []byte, maxPairs int) ([]Pair, error) {
	if len(query) == 0 {
		return nil, nil
	}

	var pairs []Pair
	start := 0
	for start <= len(query) {
		end := start
		for end < len(query) && query[end] != '&' {
			end++
		}
		segment := query[start:end]
		if len(segment) == 0 {
			return nil, sigv4err.New(sigv4err.InvalidParameter, "canonquery: empty field")
		}

		eq := indexByte(segment, '=')
		var field, value []byte
		if eq < 0 {
			field = segment
			value = segment[len(segment):]
		} else {
			field = segment[:eq]
			value = segment[eq+1:]
		}
		if len(field) == 0 {
			return nil, sigv4err.New(sigv4err.InvalidParameter, "canonquery: empty field")
		}

		if len(pairs) >= maxPairs {
			return nil, sigv4err.New(sigv4err.MaxQueryPairCountExceeded, "canonquery: too many query pairs")
		}
		pairs = append(pairs, Pair{Field: field, Value: value})

		if end == len(query) {
			break
		}
		start = end + 1
	}
	return pairs, nil
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

// comparePairs orders by field, then value, with the shorter of two
// byte-equal prefixes sorting first. That three-stage tiebreak reduces
// exactly to a byte-lexicographic compare extended by length, which is
// what this computes directly.
func comparePairs(a, b Pair) int {
	if c := compareBytes(a.Field, b.Field); c != 0 {
		return c
	}
	return compareBytes(a.Value, b.Value)
}

func compareBytes(a, b []byte) int {
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

// Canonicalize writes the sorted, URI-encoded canonical query line
// (terminated by '\n') into buf. Fields are encoded with
// encodeSlash=true, doubleEncodeEquals=false; values with
// encodeSlash=true, doubleEncodeEquals=true, so a literal '=' inside a
// value is written as %253D (%3D encoded once more) rather than
// re-splitting the pair.
func Canonicalize(buf *procbuf.Buffer, query []byte, maxPairs int) error {
	pairs, err := Parse(query, maxPairs)
	if err != nil {
		return err
	}
	sortutil.Sort(pairs, comparePairs)

	for i, p := range pairs {
		if i > 0 {
			if err := buf.AppendByte('&'); err != nil {
				return err
			}
		}
		n, err := uriencode.Encode(buf.Tail(), p.Field, true, false)
		if err != nil {
			return err
		}
		buf.Cursor += n
		if err := buf.AppendByte('='); err != nil {
			return err
		}
		n, err = uriencode.Encode(buf.Tail(), p.Value, true, true)
		if err != nil {
			return err
		}
		buf.Cursor += n
	}
	return buf.AppendByte('\n')
}
