// Package hmacengine computes HMAC(K, M) using only a hashiface.HashProvider
// — no full HMAC primitive is assumed to exist on the hash. A single
// reusable key buffer of length B backs the whole computation, so a
// caller can derive long HMAC chains (as SigV4's signing-key derivation
// does) without allocating a new key buffer per round.
package hmacengine

import (
	"github.com/ethanadams/sigv4/internal/hashiface"
	"github.com/ethanadams/sigv4/internal/sigv4err"
)

const (
	ipad = 0x36
	opad = 0x5c
)

// Engine is the stateful HMAC construction from the signer design: key
// bytes accumulate into a B-byte working buffer (hashing down any
// overflow past B), the ipad-keyed block starts the hash, data is fed,
// and Final restores the opad-keyed block to finish.
type Engine struct {
	hash      hashiface.HashProvider
	keyBuf    []byte // length == hash.BlockLen(), owned by the caller
	keyLen    int    // accumulated bytes while in the buffering phase
	overflow  bool   // true once accumulated key length exceeded B
	dataBegun bool
}

// New builds an Engine over hash using keyBuf as its B-byte working
// buffer. keyBuf must have length >= hash.BlockLen(), and the hash's
// digest length must not exceed its block length — the HMAC
// construction here assumes D <= B so the hashed-down key still fits.
func New(hash hashiface.HashProvider, keyBuf []byte) (*Engine, error) {
	if hash == nil {
		return nil, sigv4err.New(sigv4err.InvalidParameter, "hmacengine: nil hash provider")
	}
	b, d := hash.BlockLen(), hash.DigestLen()
	if b <= 0 || d <= 0 {
		return nil, sigv4err.New(sigv4err.InvalidParameter, "hmacengine: hash reports non-positive block or digest length")
	}
	if d > b {
		return nil, sigv4err.New(sigv4err.InvalidParameter, "hmacengine: digest length exceeds block length")
	}
	if len(keyBuf) < b {
		return nil, sigv4err.New(sigv4err.InsufficientMemory, "hmacengine: key buffer shorter than block length")
	}
	return &Engine{hash: hash, keyBuf: keyBuf[:b]}, nil
}

// Reset clears the accumulated key so the Engine can be reused for a
// fresh HMAC computation over the same hash and key buffer.
func (e *Engine) Reset() {
	e.keyLen = 0
	e.overflow = false
	e.dataBegun = false
}

// AppendKey feeds additional key material. Key bytes accumulate in the
// working buffer until they would exceed its length B, at which point
// the engine switches to hashing the key down to D bytes instead of
// buffering it verbatim.
func (e *Engine) AppendKey(data []byte) error {
	if e.dataBegun {
		return sigv4err.New(sigv4err.InvalidParameter, "hmacengine: AppendKey called after BeginData")
	}
	if len(data) == 0 {
		return nil
	}
	if !e.overflow && e.keyLen+len(data) <= len(e.keyBuf) {
		copy(e.keyBuf[e.keyLen:], data)
		e.keyLen += len(data)
		return nil
	}
	if !e.overflow {
		e.overflow = true
		if err := e.hash.Init(); err != nil {
			return sigv4err.Wrap(sigv4err.HashError, "hmacengine: hash init failed", err)
		}
		if err := e.hash.Update(e.keyBuf[:e.keyLen]); err != nil {
			return sigv4err.Wrap(sigv4err.HashError, "hmacengine: hash update failed", err)
		}
	}
	if err := e.hash.Update(data); err != nil {
		return sigv4err.Wrap(sigv4err.HashError, "hmacengine: hash update failed", err)
	}
	return nil
}

// BeginData completes the key phase and starts the inner (ipad) hash.
// Oversized keys are finalized down to a D-byte digest first; either
// way the working buffer is zero-padded to B bytes, XOR-ed with ipad,
// and fed to a freshly initialized hash.
func (e *Engine) BeginData() error {
	if e.dataBegun {
		return sigv4err.New(sigv4err.InvalidParameter, "hmacengine: BeginData called twice")
	}
	d := e.hash.DigestLen()
	if e.overflow {
		n, err := e.hash.Final(e.keyBuf[:d])
		if err != nil {
			return sigv4err.Wrap(sigv4err.HashError, "hmacengine: hash final failed", err)
		}
		e.keyLen = n
	}
	for i := e.keyLen; i < len(e.keyBuf); i++ {
		e.keyBuf[i] = 0
	}
	for i := range e.keyBuf {
		e.keyBuf[i] ^= ipad
	}
	if err := e.hash.Init(); err != nil {
		return sigv4err.Wrap(sigv4err.HashError, "hmacengine: hash init failed", err)
	}
	if err := e.hash.Update(e.keyBuf); err != nil {
		return sigv4err.Wrap(sigv4err.HashError, "hmacengine: hash update failed", err)
	}
	e.dataBegun = true
	return nil
}

// WriteData feeds message bytes into the inner hash. BeginData must
// have been called first.
func (e *Engine) WriteData(data []byte) error {
	if !e.dataBegun {
		return sigv4err.New(sigv4err.InvalidParameter, "hmacengine: WriteData called before BeginData")
	}
	if len(data) == 0 {
		return nil
	}
	if err := e.hash.Update(data); err != nil {
		return sigv4err.Wrap(sigv4err.HashError, "hmacengine: hash update failed", err)
	}
	return nil
}

// Final computes the inner digest, flips the working buffer from
// ipad-keyed to opad-keyed (XOR with ipad^opad restores the original
// key, the second XOR applies opad), and hashes the opad-keyed block
// followed by the inner digest into out. The Engine resets itself
// afterward so it is immediately reusable.
func (e *Engine) Final(out []byte) (int, error) {
	if !e.dataBegun {
		return 0, sigv4err.New(sigv4err.InvalidParameter, "hmacengine: Final called before BeginData")
	}
	d := e.hash.DigestLen()
	if len(out) < d {
		return 0, sigv4err.New(sigv4err.InsufficientMemory, "hmacengine: output shorter than digest length")
	}

	var inner [maxDigestScratch]byte
	if _, err := e.hash.Final(inner[:d]); err != nil {
		return 0, sigv4err.Wrap(sigv4err.HashError, "hmacengine: hash final failed", err)
	}

	for i := range e.keyBuf {
		e.keyBuf[i] ^= ipad ^ opad
	}
	if err := e.hash.Init(); err != nil {
		return 0, sigv4err.Wrap(sigv4err.HashError, "hmacengine: hash init failed", err)
	}
	if err := e.hash.Update(e.keyBuf); err != nil {
		return 0, sigv4err.Wrap(sigv4err.HashError, "hmacengine: hash update failed", err)
	}
	if err := e.hash.Update(inner[:d]); err != nil {
		return 0, sigv4err.Wrap(sigv4err.HashError, "hmacengine: hash update failed", err)
	}
	n, err := e.hash.Final(out[:d])
	if err != nil {
		return 0, sigv4err.Wrap(sigv4err.HashError, "hmacengine: hash final failed", err)
	}
	e.Reset()
	return n, nil
}

// maxDigestScratch bounds the stack-allocated inner-digest buffer used
// by Final. 64 bytes covers every hash this module is documented to
// support (up to SHA-512).
const maxDigestScratch = 64

// Sum is the one-shot convenience wrapped around Engine: it computes
// HMAC(key, data) in a single call using keyBuf as scratch space, which
// must be at least hash.BlockLen() bytes.
func Sum(hash hashiface.HashProvider, keyBuf, key, data, out []byte) (int, error) {
	e, err := New(hash, keyBuf)
	if err != nil {
		return 0, err
	}
	if err := e.AppendKey(key); err != nil {
		return 0, err
	}
	if err := e.BeginData(); err != nil {
		return 0, err
	}
	if err := e.WriteData(data); err != nil {
		return 0, err
	}
	return e.Final(out)
}
