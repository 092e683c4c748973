package encryption

// Sealed is the output of a single encryption.
type Sealed struct {
	// Ciphertext has the same length as the plaintext.
	Ciphertext []byte

	// Nonce is the NonceSize-byte value generated for this encryption.
	Nonce []byte

	// Tag is the TagSize-byte authentication tag.
	Tag []byte
}
