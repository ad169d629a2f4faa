package fallback

import "errors"

// MaxKeyLength is the maximum allowed length for a fallback key.
const MaxKeyLength = 512

// Sentinel errors for fallback operations.
var (
	// ErrInvalidKey indicates an empty, blank, or malformed key.
	ErrInvalidKey = errors.New("fallback: key is invalid")

	// ErrKeyTooLong indicates a key exceeding MaxKeyLength.
	ErrKeyTooLong = errors.New("fallback: key exceeds max length")
)
