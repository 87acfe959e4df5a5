package canonreq_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethanadams/sigv4/internal/canonreq"
	"github.com/ethanadams/sigv4/internal/procbuf"
	"github.com/ethanadams/sigv4/internal/stdhash"
)

func TestBuild_NonS3DoubleEncodesPath(t *testing.T) {
	buf := procbuf.New(make([]byte, 1024))
	hash := stdhash.SHA256()

	_, _, err := canonreq.Build(buf, canonreq.Params{
		Method:  []byte("GET"),
		Path:    []byte("/a b"),
		Headers: []byte("host:example.amazonaws.com\r\n\r\n"),
		Service: "execute-api",
	}, hash, 10, 10)
	require.NoError(t, err)

	out := string(buf.Data[:buf.Cursor])
	// '/a b' single-encodes to '/a%20b'; a second pass re-encodes '%'
	// to '%25', yielding '/a%2520b'.
	require.Contains(t, out, "/a%2520b\n")
}

func TestBuild_S3SingleEncodesPath(t *testing.T) {
	buf := procbuf.New(make([]byte, 1024))
	hash := stdhash.SHA256()

	_, _, err := canonreq.Build(buf, canonreq.Params{
		Method:  []byte("GET"),
		Path:    []byte("/a b"),
		Headers: []byte("host:examplebucket.s3.amazonaws.com\r\n\r\n"),
		Service: "s3",
	}, hash, 10, 10)
	require.NoError(t, err)

	out := string(buf.Data[:buf.Cursor])
	require.Contains(t, out, "/a%20b\n")
}

func TestBuild_DefaultsEmptyPathToSlash(t *testing.T) {
	buf := procbuf.New(make([]byte, 1024))
	hash := stdhash.SHA256()

	_, _, err := canonreq.Build(buf, canonreq.Params{
		Method:  []byte("GET"),
		Headers: []byte("host:example.amazonaws.com\r\n\r\n"),
		Service: "execute-api",
	}, hash, 10, 10)
	require.NoError(t, err)
	require.Contains(t, string(buf.Data[:buf.Cursor]), "GET\n/\n\n")
}

func TestBuild_EmptyMethodRejected(t *testing.T) {
	buf := procbuf.New(make([]byte, 256))
	hash := stdhash.SHA256()
	_, _, err := canonreq.Build(buf, canonreq.Params{
		Headers: []byte("host:example.amazonaws.com\r\n\r\n"),
		Service: "execute-api",
	}, hash, 10, 10)
	require.Error(t, err)
}

func TestBuild_PayloadHashIsHexEncodedSHA256(t *testing.T) {
	buf := procbuf.New(make([]byte, 1024))
	hash := stdhash.SHA256()

	_, _, err := canonreq.Build(buf, canonreq.Params{
		Method:  []byte("PUT"),
		Path:    []byte("/"),
		Headers: []byte("host:example.amazonaws.com\r\n\r\n"),
		Payload: []byte("hello world"),
		Service: "execute-api",
	}, hash, 10, 10)
	require.NoError(t, err)

	out := string(buf.Data[:buf.Cursor])
	// sha256("hello world")
	require.Contains(t, out, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9")
}
