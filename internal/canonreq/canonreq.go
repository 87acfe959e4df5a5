// Package canonreq orchestrates the leaf canonicalizers into the five
// canonical-request lines, written directly into the signer's shared
// processing buffer.
package canonreq

import (
	"github.com/ethanadams/sigv4/internal/canonheader"
	"github.com/ethanadams/sigv4/internal/canonquery"
	"github.com/ethanadams/sigv4/internal/hashiface"
	"github.com/ethanadams/sigv4/internal/hexenc"
	"github.com/ethanadams/sigv4/internal/procbuf"
	"github.com/ethanadams/sigv4/internal/sigv4err"
	"github.com/ethanadams/sigv4/internal/uriencode"
)

// Flags mirrors the caller's pre-canonicalization hints.
type Flags struct {
	PathIsCanonical     bool
	QueryIsCanonical    bool
	HeadersAreCanonical bool
}

// Params is the subset of the request the builder needs.
type Params struct {
	Method  []byte
	Path    []byte
	Query   []byte
	Headers []byte
	Payload []byte
	Flags   Flags
	Service string
}

// Build writes "METHOD\nURI\nQUERY\nheaders\n\nsignedHeaders\nhexPayloadHash"
// into buf and returns the start/length of the signed-headers substring
// within buf.Data, so the caller can copy it out before the buffer is
// reused for the string-to-sign phase.
func Build(buf *procbuf.Buffer, p Params, hash hashiface.HashProvider, maxHeaderPairs, maxQueryPairs int) (signedStart, signedLen int, err error) {
	if len(p.Method) == 0 {
		return 0, 0, sigv4err.New(sigv4err.InvalidParameter, "canonreq: empty method")
	}
	if err := buf.Append(p.Method); err != nil {
		return 0, 0, err
	}
	if err := buf.AppendByte('\n'); err != nil {
		return 0, 0, err
	}

	if err := writeCanonicalURI(buf, p.Path, p.Flags.PathIsCanonical, p.Service); err != nil {
		return 0, 0, err
	}

	if err := writeCanonicalQuery(buf, p.Query, p.Flags.QueryIsCanonical, maxQueryPairs); err != nil {
		return 0, 0, err
	}

	if len(p.Headers) == 0 {
		return 0, 0, sigv4err.New(sigv4err.InvalidParameter, "canonreq: empty headers")
	}
	signedStart, signedLen, err = canonheader.Canonicalize(buf, p.Headers, p.Flags.HeadersAreCanonical, maxHeaderPairs)
	if err != nil {
		return 0, 0, err
	}

	if err := writePayloadHash(buf, p.Payload, hash); err != nil {
		return 0, 0, err
	}

	return signedStart, signedLen, nil
}

func writeCanonicalURI(buf *procbuf.Buffer, path []byte, isCanonical bool, service string) error {
	if len(path) == 0 {
		path = []byte("/")
	}

	if isCanonical {
		if err := buf.Append(path); err != nil {
			return err
		}
		return buf.AppendByte('\n')
	}

	// First encoding pass, written at the cursor.
	n1, err := uriencode.Encode(buf.Tail(), path, false, false)
	if err != nil {
		return err
	}
	firstStart := buf.Cursor

	if service == "s3" {
		buf.Cursor += n1
		return buf.AppendByte('\n')
	}

	// Second pass: re-encode the first-pass bytes into the buffer's
	// remaining tail (past the first-pass output), then relocate the
	// doubled result back over the cursor position. copy() tolerates
	// the resulting overlap (it behaves like memmove), so the forward
	// relocation below is always safe regardless of how n1 and n2
	// compare.
	secondRegionStart := firstStart + n1
	if secondRegionStart > len(buf.Data) {
		return sigv4err.New(sigv4err.InsufficientMemory, "canonreq: no room for second URI encoding pass")
	}
	n2, err := uriencode.Encode(buf.Data[secondRegionStart:], buf.Data[firstStart:firstStart+n1], false, false)
	if err != nil {
		return err
	}
	if secondRegionStart+n2 > len(buf.Data) {
		return sigv4err.New(sigv4err.InsufficientMemory, "canonreq: no room for second URI encoding pass")
	}
	copy(buf.Data[firstStart:firstStart+n2], buf.Data[secondRegionStart:secondRegionStart+n2])
	buf.Cursor = firstStart + n2
	return buf.AppendByte('\n')
}

func writeCanonicalQuery(buf *procbuf.Buffer, query []byte, isCanonical bool, maxPairs int) error {
	if len(query) == 0 {
		return buf.AppendByte('\n')
	}
	if isCanonical {
		if err := buf.Append(query); err != nil {
			return err
		}
		return buf.AppendByte('\n')
	}
	return canonquery.Canonicalize(buf, query, maxPairs)
}

func writePayloadHash(buf *procbuf.Buffer, payload []byte, hash hashiface.HashProvider) error {
	d := hash.DigestLen()
	scratchStart := buf.Cursor
	if scratchStart+d > len(buf.Data) {
		return sigv4err.New(sigv4err.InsufficientMemory, "canonreq: no room for payload hash scratch")
	}
	if err := hash.Init(); err != nil {
		return sigv4err.Wrap(sigv4err.HashError, "canonreq: hash init failed", err)
	}
	if len(payload) > 0 {
		if err := hash.Update(payload); err != nil {
			return sigv4err.Wrap(sigv4err.HashError, "canonreq: hash update failed", err)
		}
	}
	if _, err := hash.Final(buf.Data[scratchStart : scratchStart+d]); err != nil {
		return sigv4err.Wrap(sigv4err.HashError, "canonreq: hash final failed", err)
	}

	hexLen := hexenc.Len(d)
	if scratchStart+d+hexLen > len(buf.Data) {
		return sigv4err.New(sigv4err.InsufficientMemory, "canonreq: no room for payload hash hex")
	}
	if _, err := hexenc.Encode(buf.Data[scratchStart+d:scratchStart+d+hexLen], buf.Data[scratchStart:scratchStart+d]); err != nil {
		return err
	}
	// Relocate the hex digest over the binary digest it was computed
	// from; copy() tolerates the overlap.
	copy(buf.Data[scratchStart:scratchStart+hexLen], buf.Data[scratchStart+d:scratchStart+d+hexLen])
	buf.Cursor = scratchStart + hexLen
	return nil
}
