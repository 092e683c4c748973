package encryption

import (
	"bytes"
	"fmt"

	"github.com/tink-crypto/tink-go/v2/aead"
	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"
	aes_gcmpb "github.com/tink-crypto/tink-go/v2/proto/aes_gcm_go_proto"
	tinkpb "github.com/tink-crypto/tink-go/v2/proto/tink_go_proto"
	"github.com/tink-crypto/tink-go/v2/tink"

	"google.golang.org/protobuf/proto"
)

const aesGCMTypeURL = "type.googleapis.com/google.crypto.tink.AesGcmKey"

// sealTink encrypts plaintext with a Tink AEAD and splits its
// nonce || ciphertext || tag output into the Sealed fields.
func sealTink(key, plaintext []byte) (*Sealed, error) {
	primitive, err := newTinkAEAD(key)
	if err != nil {
		return nil, err
	}

	out, err := primitive.Encrypt(plaintext, nil)
	if err != nil {
		return nil, backendError("encrypting", err)
	}

	if len(out) != NonceSize+len(plaintext)+TagSize {
		return nil, fmt.Errorf("%w: unexpected sealed length %d", ErrBackend, len(out))
	}

	split := NonceSize + len(plaintext)

	return &Sealed{
		Ciphertext: out[NonceSize:split:split],
		Nonce:      out[:NonceSize:NonceSize],
		Tag:        out[split:],
	}, nil
}

func openTink(key, nonce, tag, ciphertext []byte) ([]byte, error) {
	primitive, err := newTinkAEAD(key)
	if err != nil {
		return nil, err
	}

	message := make([]byte, 0, len(nonce)+len(ciphertext)+len(tag))
	message = append(message, nonce...)
	message = append(message, ciphertext...)
	message = append(message, tag...)

	plaintext, err := primitive.Decrypt(message, nil)
	if err != nil {
		return nil, ErrAuthentication
	}

	return plaintext, nil
}

func newTinkAEAD(key []byte) (tink.AEAD, error) {
	handle, err := newAEADKeyHandle(key)
	if err != nil {
		return nil, err
	}

	primitive, err := aead.New(handle)
	if err != nil {
		return nil, backendError("creating AEAD", err)
	}

	return primitive, nil
}

// newAEADKeyHandle creates a Tink keyset handle for AES-GCM from raw key bytes.
// The key uses the RAW output prefix so ciphertexts carry no Tink key id.
func newAEADKeyHandle(key []byte) (*keyset.Handle, error) {
	serializedKey, err := proto.Marshal(&aes_gcmpb.AesGcmKey{
		Version:  0,
		KeyValue: key,
	})
	if err != nil {
		return nil, backendError("serializing AesGcmKey", err)
	}

	keySet := &tinkpb.Keyset{
		PrimaryKeyId: 1,
		Key: []*tinkpb.Keyset_Key{
			{
				KeyData: &tinkpb.KeyData{
					TypeUrl:         aesGCMTypeURL,
					Value:           serializedKey,
					KeyMaterialType: tinkpb.KeyData_SYMMETRIC,
				},
				Status:           tinkpb.KeyStatusType_ENABLED,
				KeyId:            1,
				OutputPrefixType: tinkpb.OutputPrefixType_RAW,
			},
		},
	}

	serializedKeyset, err := proto.Marshal(keySet)
	if err != nil {
		return nil, backendError("serializing keyset", err)
	}

	handle, err := insecurecleartextkeyset.Read(
		keyset.NewBinaryReader(bytes.NewReader(serializedKeyset)))
	if err != nil {
		return nil, backendError("creating keyset handle", err)
	}

	return handle, nil
}
