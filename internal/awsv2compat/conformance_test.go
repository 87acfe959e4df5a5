package awsv2compat_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/stretchr/testify/require"

	"github.com/ethanadams/sigv4/internal/awsv2compat"
	"github.com/ethanadams/sigv4/internal/stdhash"
	"github.com/ethanadams/sigv4/sigv4"
)

// TestSignatureMatchesSDK signs the same request with this module's
// core signer and with aws-sdk-go-v2's own v4.Signer, and checks that
// both land on the same signature. This is the conformance check
// internal/awsv2compat's package doc refers to.
func TestSignatureMatchesSDK(t *testing.T) {
	const (
		accessKeyID     = "AKIDEXAMPLE"
		secretAccessKey = "wJalrXUtnFEMI/K7MDENG/bPxRfiCYEXAMPLEKEY"
		region          = "us-east-1"
		service         = "service"
		host            = "example.amazonaws.com"
		dateISO8601     = "20150830T123600Z"
	)
	signingTime, err := time.Parse("20060102T150405Z", dateISO8601)
	require.NoError(t, err)

	resolver := awsv2compat.NewStatic(accessKeyID, secretAccessKey, "")
	creds, err := resolver.Resolve(context.Background())
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, "https://"+host+"/", nil)
	require.NoError(t, err)
	req.Host = host
	req.Header.Set("X-Amz-Date", dateISO8601)

	const emptyPayloadHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

	sdkSigner := v4.NewSigner()
	err = sdkSigner.SignHTTP(context.Background(), aws.Credentials{
		AccessKeyID:     creds.AccessKeyID,
		SecretAccessKey: creds.SecretAccessKey,
	}, req, emptyPayloadHash, service, region, signingTime)
	require.NoError(t, err)
	sdkAuth := req.Header.Get("Authorization")
	require.NotEmpty(t, sdkAuth)

	headers := "host:" + host + "\r\n" + "x-amz-date:" + dateISO8601 + "\r\n\r\n"
	authBuf := make([]byte, 512)
	authLen, _, _, err := sigv4.GenerateHTTPAuthorization(&sigv4.Parameters{
		Credentials: sigv4.Credentials{
			AccessKeyID:     creds.AccessKeyID,
			SecretAccessKey: creds.SecretAccessKey,
		},
		DateISO8601: dateISO8601,
		Region:      region,
		Service:     service,
		HTTP: sigv4.HTTPParameters{
			Method:  []byte("GET"),
			Path:    []byte("/"),
			Headers: []byte(headers),
		},
		Crypto: stdhash.SHA256(),
	}, authBuf)
	require.NoError(t, err)
	ours := string(authBuf[:authLen])

	require.Equal(t, sdkAuth, ours, "sigv4 core signature must match aws-sdk-go-v2's own v4 signer output")
}
