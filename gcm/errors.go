package gcm

import "errors"

// ErrCipherKey is returned by SetKey when the underlying cipher rejects the
// key (unsupported length, for instance).
var ErrCipherKey = errors.New("gcm: cipher rejected key")

// ErrBlockSize is returned by SetKey when the underlying cipher's block
// size is not the 16 bytes GCM is defined over.
var ErrBlockSize = errors.New("gcm: cipher block size is not 16 bytes")

// ErrEmptyIV is returned by SetIV when given a zero-length IV; GCM's
// fallback IV-hash path requires at least one byte.
var ErrEmptyIV = errors.New("gcm: IV must be at least 1 byte")

// ErrState is returned when a call arrives out of the state machine's
// permitted order: AAD after data has started, anything before SetKey,
// encrypt/decrypt/tag before SetIV, and so on.
var ErrState = errors.New("gcm: operation not permitted in current state")

// ErrLengthMismatch is returned by Encrypt and Decrypt when dst and src
// are not the same length.
var ErrLengthMismatch = errors.New("gcm: dst and src must be the same length")
