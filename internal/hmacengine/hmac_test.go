package hmacengine_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethanadams/sigv4/internal/hmacengine"
	"github.com/ethanadams/sigv4/internal/stdhash"
)

// TestSum_RFC4231Vectors checks the engine against the standard
// HMAC-SHA256 test vectors from RFC 4231.
func TestSum_RFC4231Vectors(t *testing.T) {
	cases := []struct {
		name string
		key  []byte
		data []byte
		want string
	}{
		{
			name: "case 1",
			key:  mustRepeat(0x0b, 20),
			data: []byte("Hi There"),
			want: "b0344c61d8db38535ca8afceaf0bf12b881dc200c9833da726e9376c2e32cff7",
		},
		{
			name: "case 2 (Jefe)",
			key:  []byte("Jefe"),
			data: []byte("what do ya want for nothing?"),
			want: "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			hash := stdhash.SHA256()
			keyBuf := make([]byte, hash.BlockLen())
			out := make([]byte, hash.DigestLen())

			n, err := hmacengine.Sum(hash, keyBuf, c.key, c.data, out)
			require.NoError(t, err)
			require.Equal(t, hash.DigestLen(), n)
			want, err := hex.DecodeString(c.want)
			require.NoError(t, err)
			require.Equal(t, want, out)
		})
	}
}

// TestSum_KeyLongerThanBlockLength exercises the hash-down path in
// AppendKey/BeginData: a key longer than the hash's block length must
// be hashed to a digest before use, per RFC 2104.
func TestSum_KeyLongerThanBlockLength(t *testing.T) {
	hash := stdhash.SHA256()
	keyBuf := make([]byte, hash.BlockLen())
	longKey := mustRepeat(0xaa, hash.BlockLen()+17)
	out := make([]byte, hash.DigestLen())

	n, err := hmacengine.Sum(hash, keyBuf, longKey, []byte("some data"), out)
	require.NoError(t, err)
	require.Equal(t, hash.DigestLen(), n)

	// Hashing the long key down first and computing HMAC with the
	// digest as key must produce the same result.
	hash.Init()
	hash.Update(longKey)
	digest := make([]byte, hash.DigestLen())
	hash.Final(digest)

	keyBuf2 := make([]byte, hash.BlockLen())
	out2 := make([]byte, hash.DigestLen())
	_, err = hmacengine.Sum(hash, keyBuf2, digest, []byte("some data"), out2)
	require.NoError(t, err)
	require.Equal(t, out2, out)
}

func TestEngine_ReusableAfterFinal(t *testing.T) {
	hash := stdhash.SHA256()
	keyBuf := make([]byte, hash.BlockLen())
	e, err := hmacengine.New(hash, keyBuf)
	require.NoError(t, err)

	require.NoError(t, e.AppendKey([]byte("key")))
	require.NoError(t, e.BeginData())
	require.NoError(t, e.WriteData([]byte("data")))
	out1 := make([]byte, hash.DigestLen())
	_, err = e.Final(out1)
	require.NoError(t, err)

	// Engine resets itself after Final; a second independent
	// computation over the same Engine/keyBuf must succeed.
	require.NoError(t, e.AppendKey([]byte("key")))
	require.NoError(t, e.BeginData())
	require.NoError(t, e.WriteData([]byte("data")))
	out2 := make([]byte, hash.DigestLen())
	_, err = e.Final(out2)
	require.NoError(t, err)

	require.Equal(t, out1, out2)
}

func mustRepeat(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}
