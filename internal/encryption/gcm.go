package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"io"
)

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, backendError("creating cipher", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, backendError("creating GCM", err)
	}

	return aead, nil
}

// sealGCM encrypts plaintext with the standard library, reading the nonce from random.
func sealGCM(key, plaintext []byte, random io.Reader) (*Sealed, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(random, nonce); err != nil {
		return nil, backendError("generating nonce", err)
	}

	// Seal appends the tag to the ciphertext.
	out := aead.Seal(nil, nonce, plaintext, nil)
	split := len(out) - TagSize

	if split != len(plaintext) {
		return nil, fmt.Errorf("%w: unexpected sealed length %d", ErrBackend, len(out))
	}

	return &Sealed{
		Ciphertext: out[:split:split],
		Nonce:      nonce,
		Tag:        out[split:],
	}, nil
}

func openGCM(key, nonce, tag, ciphertext []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	message := make([]byte, 0, len(ciphertext)+len(tag))
	message = append(message, ciphertext...)
	message = append(message, tag...)

	plaintext, err := aead.Open(nil, nonce, message, nil)
	if err != nil {
		return nil, ErrAuthentication
	}

	return plaintext, nil
}
