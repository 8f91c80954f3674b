package webhook

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/md4"
	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
)

// DefaultAlgorithm is used when the header carries no algorithm segment.
const DefaultAlgorithm = "sha256"

// SignatureHeader is the parsed form of the OpenPayU-Signature header value,
// e.g. "sender=checkout;signature=abc;algorithm=SHA256;content=DOCUMENT".
type SignatureHeader map[string]string

// ParseSignatureHeader splits the value on ';' and every segment on its first '='.
// Segments without '=' are dropped. Keys are lower-cased.
func ParseSignatureHeader(value string) SignatureHeader {
	h := make(SignatureHeader)
	for _, part := range strings.Split(value, ";") {
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		h[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(val)
	}
	return h
}

// Signature returns the received signature and whether it was present.
func (h SignatureHeader) Signature() (string, bool) {
	s, ok := h["signature"]
	return s, ok && s != ""
}

// Algorithm returns the lower-cased algorithm token, DefaultAlgorithm when absent.
func (h SignatureHeader) Algorithm() string {
	if a := h["algorithm"]; a != "" {
		return strings.ToLower(a)
	}
	return DefaultAlgorithm
}

// Verification is the outcome of a single signature check.
// Err is nil when the signature matched.
type Verification struct {
	Header    string
	Algorithm string
	Received  string
	// Expected holds every signature that would have been accepted.
	Expected []string
	Err      error
}

// Verified reports whether the received signature matched.
func (v Verification) Verified() bool {
	return v.Err == nil
}

var namedDigests = map[string]func() hash.Hash{
	"sha":         sha1.New,
	"sha1":        sha1.New,
	"sha224":      sha256.New224,
	"sha256":      sha256.New,
	"sha384":      sha512.New384,
	"sha512":      sha512.New,
	"sha512-224":  sha512.New512_224,
	"sha512-256":  sha512.New512_256,
	"sha3-224":    sha3.New224,
	"sha3-256":    sha3.New256,
	"sha3-384":    sha3.New384,
	"sha3-512":    sha3.New512,
	"md4":         md4.New,
	"ripemd160":   ripemd160.New,
	"blake2b-256": unkeyed(blake2b.New256),
	"blake2b-512": unkeyed(blake2b.New512),
	"blake2s-256": unkeyed(blake2s.New256),
}

// unkeyed adapts the BLAKE2 constructors, which take an optional key, to the
// plain constructor shape expected by hmac.New.
func unkeyed(fn func(key []byte) (hash.Hash, error)) func() hash.Hash {
	return func() hash.Hash {
		h, _ := fn(nil)
		return h
	}
}

// Verify checks header against the HMAC (or, for md5, the salted digest) of body
// keyed with secret. It never panics on malformed input and returns expected
// failure kinds through Verification.Err.
func Verify(secret string, body []byte, header string) Verification {
	v := Verification{Header: header}
	if header == "" {
		v.Err = ErrMissingSignature
		return v
	}

	parsed := ParseSignatureHeader(header)
	v.Algorithm = parsed.Algorithm()

	received, ok := parsed.Signature()
	if !ok {
		v.Err = ErrMalformedHeader
		return v
	}
	v.Received = received

	if v.Algorithm == "md5" {
		// Both concatenation orders are accepted for compatibility. This means
		// two digests verify for one body, not one canonical convention.
		v.Expected = []string{
			md5Hex(body, []byte(secret)),
			md5Hex([]byte(secret), body),
		}
	} else {
		newHash, ok := namedDigests[v.Algorithm]
		if !ok {
			v.Err = fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, v.Algorithm)
			return v
		}
		mac := hmac.New(newHash, []byte(secret))
		mac.Write(body)
		v.Expected = []string{hex.EncodeToString(mac.Sum(nil))}
	}

	for _, expected := range v.Expected {
		if SecureCompare(expected, received) {
			return v
		}
	}

	v.Err = fmt.Errorf("%w for algorithm %s", ErrSignatureMismatch, v.Algorithm)
	return v
}

// SecureCompare reports whether a and b are equal. Only the length check leaks
// timing; the byte comparison runs in constant time.
func SecureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func md5Hex(parts ...[]byte) string {
	h := md5.New()
	for _, p := range parts {
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
