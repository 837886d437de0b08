package cryptography

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"campuspass.io/application/utils"
)

var CryptoHasher Hasher = argonHasher{}

// ErrDecryptionFailed covers wrong-key and corrupted-blob failures. Callers
// must keep it distinct from a missing record.
var ErrDecryptionFailed = errors.New("cryptography: decryption failed")

// EncryptBlob seals a payload with AES-GCM under the configured key and a
// fresh random nonce. The nonce must be persisted alongside the ciphertext;
// it is worthless to an attacker but required for decryption.
func EncryptBlob(payload []byte, keyString *string) (ciphertext []byte, nonce []byte, err error) {
	if keyString == nil {
		keyString = utils.GetStringPointer(os.Getenv("TEMPLATE_ENC_KEY"))
	}

	key, err := hex.DecodeString(*keyString)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid key format: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create aead: %w", err)
	}

	nonce = make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = aead.Seal(nil, nonce, payload, nil)
	return ciphertext, nonce, nil
}

// DecryptBlob opens an AES-GCM sealed payload. Any authentication failure
// surfaces as ErrDecryptionFailed - corrupted-but-parseable output is not a
// possible outcome with an AEAD.
func DecryptBlob(ciphertext []byte, nonce []byte, keyString *string) ([]byte, error) {
	if keyString == nil {
		keyString = utils.GetStringPointer(os.Getenv("TEMPLATE_ENC_KEY"))
	}

	key, err := hex.DecodeString(*keyString)
	if err != nil {
		return nil, fmt.Errorf("invalid key format: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create aead: %w", err)
	}
	if len(nonce) != aead.NonceSize() {
		return nil, ErrDecryptionFailed
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}
