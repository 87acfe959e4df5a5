package sigv4_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethanadams/sigv4/internal/stdhash"
	"github.com/ethanadams/sigv4/sigv4"
)

// TestGenerateHTTPAuthorization_ClassicVector signs the request of AWS's
// "get-vanilla" SigV4 test-suite case: a bare GET to
// https://example.amazonaws.com/ for service "service" in region
// "us-east-1". The secret key here has '/' where the documented example
// key has '+', so the expected signature is not the published one; it
// was computed independently for this secret.
func TestGenerateHTTPAuthorization_ClassicVector(t *testing.T) {
	params := &sigv4.Parameters{
		Credentials: sigv4.Credentials{
			AccessKeyID:     "AKIDEXAMPLE",
			SecretAccessKey: "wJalrXUtnFEMI/K7MDENG/bPxRfiCYEXAMPLEKEY",
		},
		DateISO8601: "20150830T123600Z",
		Region:      "us-east-1",
		Service:     "service",
		HTTP: sigv4.HTTPParameters{
			Method:  []byte("GET"),
			Path:    []byte("/"),
			Headers: []byte("host:example.amazonaws.com\r\nx-amz-date:20150830T123600Z\r\n\r\n"),
		},
		Crypto: stdhash.SHA256(),
	}

	authBuf := make([]byte, 512)
	authLen, sigStart, sigLen, err := sigv4.GenerateHTTPAuthorization(params, authBuf)
	require.NoError(t, err)

	want := "AWS4-HMAC-SHA256 Credential=AKIDEXAMPLE/20150830/us-east-1/service/aws4_request, " +
		"SignedHeaders=host;x-amz-date, " +
		"Signature=ea21d6f05e96a897f6000a1a293f0a5bf0f92a00343409e820dce329ca6365ea"
	require.Equal(t, want, string(authBuf[:authLen]))
	require.Equal(t, "ea21d6f05e96a897f6000a1a293f0a5bf0f92a00343409e820dce329ca6365ea", string(authBuf[sigStart:sigStart+sigLen]))
}

func TestGenerateHTTPAuthorization_S3SingleEncodesPath(t *testing.T) {
	// S3 canonical URIs are single-encoded and '/' is always preserved,
	// unlike the double-encoding every other service uses.
	params := &sigv4.Parameters{
		Credentials: sigv4.Credentials{
			AccessKeyID:     "AKIDEXAMPLE",
			SecretAccessKey: "wJalrXUtnFEMI/K7MDENG/bPxRfiCYEXAMPLEKEY",
		},
		DateISO8601: "20150830T123600Z",
		Region:      "us-east-1",
		Service:     "s3",
		HTTP: sigv4.HTTPParameters{
			Method:  []byte("GET"),
			Path:    []byte("/a b/key"),
			Headers: []byte("host:examplebucket.s3.amazonaws.com\r\nx-amz-date:20150830T123600Z\r\n\r\n"),
		},
		Crypto: stdhash.SHA256(),
	}
	authBuf := make([]byte, 512)
	_, sigStart, sigLen, err := sigv4.GenerateHTTPAuthorization(params, authBuf)
	require.NoError(t, err)
	// Signature over the canonical URI "/a%20b/key"; the double-encoded
	// "/a%2520b/key" would give a different signature.
	require.Equal(t, "c9e3e920f507313b30e2c845beb872ae2a5d152f8756a99f3d36fee21e50fe2e", string(authBuf[sigStart:sigStart+sigLen]))
}

func TestGenerateHTTPAuthorization_RequiresCredentials(t *testing.T) {
	params := &sigv4.Parameters{
		DateISO8601: "20150830T123600Z",
		Region:      "us-east-1",
		Service:     "service",
		HTTP: sigv4.HTTPParameters{
			Method:  []byte("GET"),
			Headers: []byte("host:example.amazonaws.com\r\n\r\n"),
		},
		Crypto: stdhash.SHA256(),
	}
	authBuf := make([]byte, 512)
	_, _, _, err := sigv4.GenerateHTTPAuthorization(params, authBuf)
	require.Error(t, err)
	kind, ok := sigv4.KindOf(err)
	require.True(t, ok)
	require.Equal(t, sigv4.InvalidParameter, kind)
}

func TestGenerateHTTPAuthorization_AuthBufTooSmall(t *testing.T) {
	params := &sigv4.Parameters{
		Credentials: sigv4.Credentials{
			AccessKeyID:     "AKIDEXAMPLE",
			SecretAccessKey: "wJalrXUtnFEMI/K7MDENG/bPxRfiCYEXAMPLEKEY",
		},
		DateISO8601: "20150830T123600Z",
		Region:      "us-east-1",
		Service:     "service",
		HTTP: sigv4.HTTPParameters{
			Method:  []byte("GET"),
			Path:    []byte("/"),
			Headers: []byte("host:example.amazonaws.com\r\nx-amz-date:20150830T123600Z\r\n\r\n"),
		},
		Crypto: stdhash.SHA256(),
	}
	tiny := make([]byte, 8)
	_, _, _, err := sigv4.GenerateHTTPAuthorization(params, tiny)
	require.Error(t, err)
	kind, ok := sigv4.KindOf(err)
	require.True(t, ok)
	require.Equal(t, sigv4.InsufficientMemory, kind)
}

func TestAwsIotDateToIso8601(t *testing.T) {
	out := make([]byte, 16)

	require.NoError(t, sigv4.AwsIotDateToIso8601([]byte("2015-08-30T12:36:00Z"), out))
	require.Equal(t, "20150830T123600Z", string(out))

	require.NoError(t, sigv4.AwsIotDateToIso8601([]byte("Sun, 30 Aug 2015 12:36:00 GMT"), out))
	require.Equal(t, "20150830T123600Z", string(out))
}
