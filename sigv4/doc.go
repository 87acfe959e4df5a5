// Package sigv4 computes AWS Signature Version 4 HTTP Authorization
// header values. Given a request (method, path, query, headers,
// payload), credentials, a request timestamp, a target region and
// service, and a caller-supplied incremental hash, GenerateHTTPAuthorization
// produces the canonical request, the string-to-sign, the derived
// signing key, the final signature, and the assembled Authorization
// value.
//
// The hash primitive is never hard-wired: callers implement HashProvider
// over whatever incremental hash context they have (crypto/sha256,
// an embedded driver, a hardware accelerator). See internal/stdhash for
// a stdlib-backed adapter suitable for tests and the demo CLI.
//
// This package does no network I/O, credential acquisition, or
// presigned-URL generation — only header-style Authorization values —
// and does not support S3 chunked-payload streaming.
package sigv4
