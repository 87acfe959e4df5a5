// Package stdhash adapts the standard library's crypto hashes to
// hashiface.HashProvider. It exists for tests, the demo CLI, and callers
// who just want SHA-256/SHA-384/SHA-512 without writing their own
// adapter — the signing core itself never imports crypto/*.
package stdhash

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"github.com/ethanadams/sigv4/internal/sigv4err"
)

// Provider wraps a stdlib hash.Hash as a hashiface.HashProvider.
type Provider struct {
	newHash   func() hash.Hash
	h         hash.Hash
	blockLen  int
	digestLen int
}

func newProvider(newHash func() hash.Hash, blockLen, digestLen int) *Provider {
	return &Provider{newHash: newHash, blockLen: blockLen, digestLen: digestLen}
}

// SHA256 returns a HashProvider backed by crypto/sha256.
func SHA256() *Provider { return newProvider(sha256.New, sha256.BlockSize, sha256.Size) }

// SHA384 returns a HashProvider backed by crypto/sha512 (384-bit mode).
func SHA384() *Provider { return newProvider(sha512.New384, sha512.BlockSize, sha512.Size384) }

// SHA512 returns a HashProvider backed by crypto/sha512.
func SHA512() *Provider { return newProvider(sha512.New, sha512.BlockSize, sha512.Size) }

func (p *Provider) Init() error {
	p.h = p.newHash()
	return nil
}

func (p *Provider) Update(data []byte) error {
	if p.h == nil {
		return sigv4err.New(sigv4err.InvalidParameter, "stdhash: Update before Init")
	}
	_, err := p.h.Write(data)
	return err
}

func (p *Provider) Final(out []byte) (int, error) {
	if p.h == nil {
		return 0, sigv4err.New(sigv4err.InvalidParameter, "stdhash: Final before Init")
	}
	if len(out) < p.digestLen {
		return 0, sigv4err.New(sigv4err.InsufficientMemory, "stdhash: output shorter than digest length")
	}
	sum := p.h.Sum(nil)
	n := copy(out, sum)
	return n, nil
}

func (p *Provider) BlockLen() int  { return p.blockLen }
func (p *Provider) DigestLen() int { return p.digestLen }
