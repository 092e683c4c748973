package encryption

import (
	"crypto/rand"
	"fmt"
	"io"
)

const (
	// KeySize is the required key size for AES-256.
	KeySize = 32
	// NonceSize is the size of a GCM nonce.
	NonceSize = 12
	// TagSize is the size of a GCM authentication tag.
	TagSize = 16
	// Algorithm is the identifier recorded in manifests.
	Algorithm = "AES-256-GCM"
)

// Cipher performs AES-256-GCM encryption and decryption with a chosen backend.
// It holds no key material and is safe for concurrent use as long as its random source is.
type Cipher struct {
	// backend selects the implementation
	backend Backend

	// random supplies nonces for the Go backend
	random io.Reader
}

// NewCipher creates a Cipher for backend. A nil random uses crypto/rand.Reader.
// The Tink backend draws nonces from Tink's own generator and ignores random.
func NewCipher(backend Backend, random io.Reader) (*Cipher, error) {
	switch backend {
	case BackendGo, BackendTink:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}

	if random == nil {
		random = rand.Reader
	}

	return &Cipher{backend: backend, random: random}, nil
}

// Default returns a Cipher using the Go backend and crypto/rand.
func Default() *Cipher {
	return &Cipher{backend: BackendGo, random: rand.Reader}
}

// Backend reports which implementation the Cipher uses.
func (c *Cipher) Backend() Backend {
	return c.backend
}

// ValidateKey checks that key has the length AES-256 requires.
func ValidateKey(key []byte) error {
	if len(key) != KeySize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeyLength, len(key), KeySize)
	}

	return nil
}

// Encrypt seals plaintext under key with a freshly generated nonce.
// The key length is checked before any entropy is consumed.
func (c *Cipher) Encrypt(key, plaintext []byte) (*Sealed, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	if c.backend == BackendTink {
		return sealTink(key, plaintext)
	}

	return sealGCM(key, plaintext, c.random)
}

// Decrypt opens ciphertext with key, nonce and tag.
// Any verification failure returns ErrAuthentication and a nil plaintext.
func (c *Cipher) Decrypt(key, nonce, tag, ciphertext []byte) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidNonceLength, len(nonce), NonceSize)
	}

	if len(tag) != TagSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidTagLength, len(tag), TagSize)
	}

	if c.backend == BackendTink {
		return openTink(key, nonce, tag, ciphertext)
	}

	return openGCM(key, nonce, tag, ciphertext)
}

// Encrypt seals plaintext with the default Cipher.
func Encrypt(key, plaintext []byte) (*Sealed, error) {
	return Default().Encrypt(key, plaintext)
}

// Decrypt opens ciphertext with the default Cipher.
func Decrypt(key, nonce, tag, ciphertext []byte) ([]byte, error) {
	return Default().Decrypt(key, nonce, tag, ciphertext)
}

