package sigv4

import "github.com/ethanadams/sigv4/internal/hashiface"

// HashProvider is the capability set a caller supplies in place of a
// hard-wired SHA-256: init, incremental update, and final digest, plus
// the block and digest lengths the HMAC construction needs. A single
// HashProvider is used for one signing call and is re-initialized by
// the library before every independent hash chain that call requires.
type HashProvider = hashiface.HashProvider

// Constants carried over from the original AWS IoT embedded SigV4
// library. The core never enforces the length constants — real SigV4
// credentials (STS, IoT, non-AWS-compatible services) vary — they are
// exposed purely for caller convenience.
const (
	// SecurityTokenHeader is the conventional header name for a
	// session token. The library never injects it: whether it is
	// present, and therefore signed, is entirely caller-controlled.
	SecurityTokenHeader = "x-amz-security-token"

	// AccessKeyIDLength is the length of a standard AWS access key ID.
	AccessKeyIDLength = 20
	// SecretAccessKeyLength is the length of a standard AWS secret key.
	SecretAccessKeyLength = 40
)
