package packaging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/idelchi/tmps/internal/digest"
	"github.com/idelchi/tmps/internal/manifest"
)

// CiphertextPath resolves the ciphertext file named by m inside dir.
// Names carrying directory components are rejected.
func CiphertextPath(dir string, m *manifest.Manifest) (string, error) {
	name := m.Encryption.CiphertextFile
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}

	return filepath.Join(dir, name), nil
}

// Verify checks, without the key, that the ciphertext in dir matches the digest recorded in m.
func Verify(dir string, m *manifest.Manifest) error {
	path, err := CiphertextPath(dir, m)
	if err != nil {
		return err
	}

	sum, err := digest.File(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	if !digest.Equal(sum, m.Integrity.CiphertextSHA256) {
		return fmt.Errorf("%w: ciphertext %q has sha256 %s, manifest records %s",
			ErrDigestMismatch, path, sum, m.Integrity.CiphertextSHA256)
	}

	return nil
}

// Unpack decrypts the package in dir described by m and returns the plaintext.
// Both recorded digests are checked; the plaintext is only returned if they match.
func (p *Packager) Unpack(key []byte, dir string, m *manifest.Manifest) ([]byte, error) {
	path, err := CiphertextPath(dir, m)
	if err != nil {
		return nil, err
	}

	ciphertext, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: reading ciphertext: %w", ErrIO, err)
	}

	if sum := digest.Hex(ciphertext); !digest.Equal(sum, m.Integrity.CiphertextSHA256) {
		return nil, fmt.Errorf("%w: ciphertext %q has sha256 %s, manifest records %s",
			ErrDigestMismatch, path, sum, m.Integrity.CiphertextSHA256)
	}

	nonce, err := m.Nonce()
	if err != nil {
		return nil, err
	}

	tag, err := m.Tag()
	if err != nil {
		return nil, err
	}

	plaintext, err := p.cipher.Decrypt(key, nonce, tag, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decrypting %q: %w", path, err)
	}

	if sum := digest.Hex(plaintext); !digest.Equal(sum, m.Integrity.PlaintextSHA256) {
		return nil, fmt.Errorf("%w: plaintext has sha256 %s, manifest records %s",
			ErrDigestMismatch, sum, m.Integrity.PlaintextSHA256)
	}

	return plaintext, nil
}
