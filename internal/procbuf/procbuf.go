// Package procbuf is the single processing buffer shared by canonical
// request construction, hashing, string-to-sign assembly, and signing
// key derivation. It is the Go stand-in for the signer's CanonicalContext:
// a byte slice, a cursor, and the invariant that remaining = len(Data) -
// Cursor. Phases beyond simple sequential appends (the double-URI-encode
// overlap, the string-to-sign overwrite) operate on Data/Cursor directly
// rather than through Append, since they deliberately break the
// append-only discipline.
package procbuf

import "github.com/ethanadams/sigv4/internal/sigv4err"

// Buffer wraps a caller-owned byte slice with an append cursor.
type Buffer struct {
	Data   []byte
	Cursor int
}

// New wraps buf for sequential writes starting at offset 0.
func New(buf []byte) *Buffer {
	return &Buffer{Data: buf}
}

// Remaining returns the number of unused bytes after the cursor.
func (b *Buffer) Remaining() int {
	return len(b.Data) - b.Cursor
}

// Append copies p to the cursor position and advances it, failing with
// InsufficientMemory if p does not fit.
func (b *Buffer) Append(p []byte) error {
	if len(p) > b.Remaining() {
		return sigv4err.New(sigv4err.InsufficientMemory, "procbuf: buffer exhausted")
	}
	copy(b.Data[b.Cursor:], p)
	b.Cursor += len(p)
	return nil
}

// AppendByte appends a single byte.
func (b *Buffer) AppendByte(c byte) error {
	if b.Remaining() < 1 {
		return sigv4err.New(sigv4err.InsufficientMemory, "procbuf: buffer exhausted")
	}
	b.Data[b.Cursor] = c
	b.Cursor++
	return nil
}

// Tail returns the unused suffix of Data, i.e. Data[Cursor:].
func (b *Buffer) Tail() []byte {
	return b.Data[b.Cursor:]
}
