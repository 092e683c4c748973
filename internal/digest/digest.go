// Package digest computes the SHA-256 fingerprints recorded in package manifests.
package digest

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Size is the length of a digest in bytes.
const Size = sha256.Size

// Empty is the hex digest of zero bytes of input.
const Empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// Sum returns the SHA-256 digest of data.
func Sum(data []byte) [Size]byte {
	return sha256.Sum256(data)
}

// Hex returns the lowercase hex encoding of the SHA-256 digest of data.
func Hex(data []byte) string {
	sum := Sum(data)

	return hex.EncodeToString(sum[:])
}

// File streams the file at path through SHA-256 and returns the hex digest.
func File(path string) (string, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("opening %q for hashing: %w", path, err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("hashing %q: %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Parse decodes a hex digest into its raw form.
// It fails unless the input is exactly 64 hex characters.
func Parse(s string) ([Size]byte, error) {
	var sum [Size]byte

	decoded, err := hex.DecodeString(s)
	if err != nil {
		return sum, fmt.Errorf("parsing digest: %w", err)
	}

	if len(decoded) != Size {
		return sum, fmt.Errorf("digest is %d bytes, want %d", len(decoded), Size)
	}

	copy(sum[:], decoded)

	return sum, nil
}

// Equal reports whether two hex digests name the same value.
// Malformed input never compares equal.
func Equal(a, b string) bool {
	left, err := Parse(a)
	if err != nil {
		return false
	}

	right, err := Parse(b)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(left[:], right[:]) == 1
}
