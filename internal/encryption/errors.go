package encryption

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKeyLength is returned when a key is not exactly KeySize bytes.
	ErrInvalidKeyLength = errors.New("invalid key length")
	// ErrInvalidNonceLength is returned when a nonce is not exactly NonceSize bytes.
	ErrInvalidNonceLength = errors.New("invalid nonce length")
	// ErrInvalidTagLength is returned when an authentication tag is not exactly TagSize bytes.
	ErrInvalidTagLength = errors.New("invalid tag length")
	// ErrAuthentication is returned when the tag does not verify against key, nonce and ciphertext.
	// No plaintext is released alongside it.
	ErrAuthentication = errors.New("message authentication failed")
	// ErrBackend is returned when the underlying cipher implementation fails.
	ErrBackend = errors.New("cipher backend failure")
	// ErrUnknownBackend is returned for a backend name that is not supported.
	ErrUnknownBackend = errors.New("unknown cipher backend")
)

// backendError flattens err into an ErrBackend carrying only its message.
func backendError(op string, err error) error {
	return fmt.Errorf("%w: %s: %s", ErrBackend, op, err.Error())
}
