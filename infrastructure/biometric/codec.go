package biometric

import (
	"encoding/binary"
	"errors"
	"math"

	"campuspass.io/infrastructure/cryptography"
)

var ErrMalformedTemplate = errors.New("biometric: malformed template blob")

// TemplateCodec serializes an embedding and seals it for storage. The key
// comes from configuration at process start; it is never derived from
// request data. Encryption is AES-GCM with a per-record random nonce - the
// nonce travels with the ciphertext on the stored template.
type TemplateCodec struct {
	key *string
}

// NewTemplateCodec builds a codec over an explicit hex key. Pass nil to use
// the TEMPLATE_ENC_KEY environment key.
func NewTemplateCodec(key *string) *TemplateCodec {
	return &TemplateCodec{key: key}
}

func (tc *TemplateCodec) Encode(embedding []float64) (ciphertext []byte, nonce []byte, err error) {
	if len(embedding) != EmbeddingLength {
		return nil, nil, ErrEmbeddingLengthMismatch
	}
	payload := make([]byte, 8*len(embedding))
	for i, v := range embedding {
		binary.LittleEndian.PutUint64(payload[i*8:], math.Float64bits(v))
	}
	return cryptography.EncryptBlob(payload, tc.key)
}

func (tc *TemplateCodec) Decode(ciphertext []byte, nonce []byte) ([]float64, error) {
	payload, err := cryptography.DecryptBlob(ciphertext, nonce, tc.key)
	if err != nil {
		return nil, err
	}
	if len(payload)%8 != 0 || len(payload)/8 != EmbeddingLength {
		return nil, ErrMalformedTemplate
	}
	embedding := make([]float64, EmbeddingLength)
	for i := range embedding {
		embedding[i] = math.Float64frombits(binary.LittleEndian.Uint64(payload[i*8:]))
	}
	return embedding, nil
}
