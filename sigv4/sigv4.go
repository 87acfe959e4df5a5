package sigv4

import (
	"github.com/ethanadams/sigv4/internal/canonreq"
	"github.com/ethanadams/sigv4/internal/hexenc"
	"github.com/ethanadams/sigv4/internal/hmacengine"
	"github.com/ethanadams/sigv4/internal/isodate"
	"github.com/ethanadams/sigv4/internal/procbuf"
	"github.com/ethanadams/sigv4/internal/sigv4err"
)

// AwsIotDateToIso8601 converts an RFC 3339 ("2015-08-30T12:36:00Z") or
// RFC 5322 ("Sun, 30 Aug 2015 12:36:00 GMT") timestamp into the 16-byte
// ISO 8601 basic form ("20150830T123600Z") the rest of this package
// expects in Parameters.DateISO8601. out must be at least
// isodate.IsoLen bytes; date's length selects which format is parsed.
func AwsIotDateToIso8601(date []byte, out []byte) error {
	dt, err := isodate.ParseAny(date)
	if err != nil {
		return err
	}
	return isodate.WriteISO8601Basic(dt, out)
}

// GenerateHTTPAuthorization computes the SigV4 Authorization header
// value for params and writes it into authBuf. It returns the total
// length written to authBuf, and the start/length of the hex signature
// substring within authBuf (the bytes after "Signature="), so a caller
// that only wants the raw signature need not re-parse the header.
//
// The computation proceeds in a single caller-supplied scratch buffer
// (params.ProcessingBuffer, or one allocated per call): the canonical
// request is built there first; its signed-headers substring is copied
// into authBuf immediately, before the buffer is overwritten in place
// by the string-to-sign, the derived signing key, and finally the raw
// signature. Besides the scratch buffer (when ProcessingBuffer is nil),
// the call allocates only small strings: the credential scope, the
// Authorization prefix, the string-to-sign header, and "AWS4"+secret.
func GenerateHTTPAuthorization(params *Parameters, authBuf []byte) (authLen, sigStart, sigLen int, err error) {
	if params == nil {
		return 0, 0, 0, sigv4err.New(sigv4err.InvalidParameter, "sigv4: nil parameters")
	}
	if params.Crypto == nil {
		return 0, 0, 0, sigv4err.New(sigv4err.InvalidParameter, "sigv4: nil hash provider")
	}
	if len(params.DateISO8601) != isodate.IsoLen {
		return 0, 0, 0, sigv4err.Newf(sigv4err.InvalidParameter, "sigv4: DateISO8601 must be %d bytes", isodate.IsoLen)
	}
	if params.Region == "" || params.Service == "" {
		return 0, 0, 0, sigv4err.New(sigv4err.InvalidParameter, "sigv4: region and service are required")
	}
	if params.Credentials.AccessKeyID == "" || params.Credentials.SecretAccessKey == "" {
		return 0, 0, 0, sigv4err.New(sigv4err.InvalidParameter, "sigv4: credentials are required")
	}

	hash := params.Crypto
	blockLen, digestLen := hash.BlockLen(), hash.DigestLen()
	if blockLen <= 0 || blockLen > MaxBlockLen || digestLen <= 0 || digestLen > MaxDigestLen {
		return 0, 0, 0, sigv4err.New(sigv4err.InvalidParameter, "sigv4: hash block/digest length out of supported range")
	}

	dateStamp := params.DateISO8601[:8] // YYYYMMDD
	credentialScope := dateStamp + "/" + params.Region + "/" + params.Service + "/aws4_request"

	// --- Step 1: canonical request, built in the scratch buffer.
	buf := procbuf.New(params.processingBuffer())
	flags := params.HTTP.Flags
	pathCanon, queryCanon, headersCanon := flags.resolved()

	signedStart, signedLen, err := canonreq.Build(buf, canonreq.Params{
		Method:  params.HTTP.Method,
		Path:    params.HTTP.Path,
		Query:   params.HTTP.Query,
		Headers: params.HTTP.Headers,
		Payload: params.HTTP.Payload,
		Service: params.Service,
		Flags: canonreq.Flags{
			PathIsCanonical:     pathCanon,
			QueryIsCanonical:    queryCanon,
			HeadersAreCanonical: headersCanon,
		},
	}, hash, params.maxHeaderPairCount(), params.maxQueryPairCount())
	if err != nil {
		return 0, 0, 0, err
	}
	canonicalReqLen := buf.Cursor

	// --- Step 2: assemble the Authorization prefix into authBuf now,
	// while the signed-headers substring still lives in the scratch
	// buffer. The signature hex is appended last, once it's known.
	algorithm := params.algorithm()
	prefix := algorithm + " Credential=" + params.Credentials.AccessKeyID + "/" + credentialScope + ", SignedHeaders="
	need := len(prefix) + signedLen + len(", Signature=") + hexenc.Len(digestLen)
	if len(authBuf) < need {
		return 0, 0, 0, sigv4err.New(sigv4err.InsufficientMemory, "sigv4: authorization buffer too small")
	}
	n := copy(authBuf, prefix)
	n += copy(authBuf[n:], buf.Data[signedStart:signedStart+signedLen])
	n += copy(authBuf[n:], ", Signature=")
	sigStart = n
	sigLen = hexenc.Len(digestLen)

	// --- Step 3: hash the canonical request, hex-encode it into scratch
	// past the canonical request bytes, then relocate the hex digest
	// back to the front of the buffer — this is where the overwrite of
	// the canonical request begins, so everything needed from it
	// (the signed-headers substring) has already been copied out above.
	hashScratch := canonicalReqLen
	if hashScratch+digestLen > len(buf.Data) {
		return 0, 0, 0, sigv4err.New(sigv4err.InsufficientMemory, "sigv4: no room to hash canonical request")
	}
	if err := hash.Init(); err != nil {
		return 0, 0, 0, sigv4err.Wrap(sigv4err.HashError, "sigv4: hash init failed", err)
	}
	if err := hash.Update(buf.Data[:canonicalReqLen]); err != nil {
		return 0, 0, 0, sigv4err.Wrap(sigv4err.HashError, "sigv4: hash update failed", err)
	}
	if _, err := hash.Final(buf.Data[hashScratch : hashScratch+digestLen]); err != nil {
		return 0, 0, 0, sigv4err.Wrap(sigv4err.HashError, "sigv4: hash final failed", err)
	}
	hexScratch := hashScratch + digestLen
	hexLen := hexenc.Len(digestLen)
	if hexScratch+hexLen > len(buf.Data) {
		return 0, 0, 0, sigv4err.New(sigv4err.InsufficientMemory, "sigv4: no room to hex-encode canonical request hash")
	}
	if _, err := hexenc.Encode(buf.Data[hexScratch:hexScratch+hexLen], buf.Data[hashScratch:hashScratch+digestLen]); err != nil {
		return 0, 0, 0, err
	}
	copy(buf.Data[0:hexLen], buf.Data[hexScratch:hexScratch+hexLen])

	// --- Step 4: string-to-sign, overwriting the buffer from byte 0
	// onward now that the hashed canonical request's hex form is
	// already relocated to the front.
	sts := procbuf.New(buf.Data)
	sts.Cursor = hexLen
	stringToSign := algorithm + "\n" + params.DateISO8601 + "\n" + credentialScope + "\n"
	// Shift the hex digest forward to offset headerLen (copy() tolerates
	// the overlap), then write the header in front of it at offset 0.
	headerLen := len(stringToSign)
	if headerLen+hexLen > len(sts.Data) {
		return 0, 0, 0, sigv4err.New(sigv4err.InsufficientMemory, "sigv4: no room to assemble string-to-sign")
	}
	copy(sts.Data[headerLen:headerLen+hexLen], sts.Data[0:hexLen])
	copy(sts.Data[0:headerLen], stringToSign)
	sts.Cursor = headerLen + hexLen
	stsLen := sts.Cursor

	// --- Step 5: derive the signing key via the HMAC chain
	// AWS4<secret> -> date -> region -> service -> "aws4_request",
	// writing each intermediate digest into alternating slots in the
	// buffer's tail so the key buffer the HMAC engine uses never
	// overlaps the string-to-sign bytes at the front.
	keyBufStart := len(buf.Data) - blockLen
	slotA := keyBufStart - digestLen
	slotB := slotA - digestLen
	if slotB < stsLen {
		return 0, 0, 0, sigv4err.New(sigv4err.InsufficientMemory, "sigv4: processing buffer too small for key derivation")
	}
	keyBuf := buf.Data[keyBufStart : keyBufStart+blockLen]
	slots := [2][]byte{buf.Data[slotA : slotA+digestLen], buf.Data[slotB : slotB+digestLen]}
	cur := 0

	if _, err := hmacengine.Sum(hash, keyBuf, []byte("AWS4"+params.Credentials.SecretAccessKey), []byte(dateStamp), slots[cur]); err != nil {
		return 0, 0, 0, err
	}
	next := 1 - cur
	if _, err := hmacengine.Sum(hash, keyBuf, slots[cur], []byte(params.Region), slots[next]); err != nil {
		return 0, 0, 0, err
	}
	cur = next
	next = 1 - cur
	if _, err := hmacengine.Sum(hash, keyBuf, slots[cur], []byte(params.Service), slots[next]); err != nil {
		return 0, 0, 0, err
	}
	cur = next
	next = 1 - cur
	if _, err := hmacengine.Sum(hash, keyBuf, slots[cur], []byte("aws4_request"), slots[next]); err != nil {
		return 0, 0, 0, err
	}
	cur = next
	signingKey := slots[cur]

	// --- Step 6: the final signature, HMAC(signingKey, stringToSign),
	// hex-encoded directly into authBuf at the reserved position.
	sigRaw := slots[1-cur] // the other slot is free scratch now
	if _, err := hmacengine.Sum(hash, keyBuf, signingKey, buf.Data[:stsLen], sigRaw); err != nil {
		return 0, 0, 0, err
	}
	if _, err := hexenc.Encode(authBuf[sigStart:sigStart+sigLen], sigRaw[:digestLen]); err != nil {
		return 0, 0, 0, err
	}

	authLen = sigStart + sigLen
	return authLen, sigStart, sigLen, nil
}
