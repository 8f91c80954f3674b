package webhook

import "errors"

// Result.Err capitalizes these messages for the HTTP response body.
var (
	// ErrMissingSignature is returned when the signature header is absent or empty.
	ErrMissingSignature = errors.New("missing OpenPayU signature header")

	// ErrMalformedHeader is returned when the header carries no signature segment.
	ErrMalformedHeader = errors.New("malformed OpenPayU signature header: missing signature")

	// ErrUnsupportedAlgorithm is returned for algorithm tokens with no known digest.
	ErrUnsupportedAlgorithm = errors.New("unsupported signature algorithm")

	// ErrSignatureMismatch is returned when no expected signature matches.
	ErrSignatureMismatch = errors.New("signature verification failed")

	// ErrPayloadParse is returned when the body is not valid JSON.
	ErrPayloadParse = errors.New("failed to parse webhook payload")

	// ErrConfiguration is returned by NewProcessor when no secret is available.
	ErrConfiguration = errors.New("webhook second key not configured")
)
