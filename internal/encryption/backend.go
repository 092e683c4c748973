package encryption

import "fmt"

// Backend names the implementation that performs the AEAD operations.
// It is recorded in the manifest's encryption section.
type Backend string

const (
	// BackendGo uses crypto/aes and crypto/cipher from the standard library.
	BackendGo Backend = "go-crypto"
	// BackendTink uses a Tink AEAD primitive.
	BackendTink Backend = "tink-go"
)

// Backends lists the supported backends.
func Backends() []Backend {
	return []Backend{BackendGo, BackendTink}
}

// ParseBackend resolves a backend name. An empty name selects BackendGo.
func ParseBackend(name string) (Backend, error) {
	switch Backend(name) {
	case "", BackendGo:
		return BackendGo, nil
	case BackendTink:
		return BackendTink, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

func (b Backend) String() string {
	return string(b)
}
