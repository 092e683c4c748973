// Package encryption provides AES-256-GCM authenticated encryption of whole in-memory buffers.
// Each call generates a fresh 96-bit nonce and returns the ciphertext, nonce and 128-bit tag separately,
// so they can be recorded in a package manifest. Keys are 32 bytes and are never stored.
//
// Two interchangeable backends produce the same AEAD: the Go standard library and Tink.
package encryption
