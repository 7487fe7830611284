package zipcrack

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
)

// aeadEngine is the AEAD cipher KeyStore entries are sealed with.
type aeadEngine struct {
	aead cipher.AEAD
}

// newAEADEngine builds an AES-256-GCM engine from a 32-byte key.
func newAEADEngine(key []byte) (*aeadEngine, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("AES-256 requires a 32-byte key, got %d bytes", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &aeadEngine{aead: aead}, nil
}

// seal encrypts plaintext under a freshly generated nonce, returning
// nonce||ciphertext.
func (e *aeadEngine) seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := e.aead.Seal(nonce, nonce, plaintext, nil)
	return out, nil
}

// open reverses seal, splitting the leading nonce back off before
// decrypting.
func (e *aeadEngine) open(sealed []byte) ([]byte, error) {
	n := e.aead.NonceSize()
	if len(sealed) < n {
		return nil, ErrAuthFailed
	}

	nonce, ciphertext := sealed[:n], sealed[n:]
	plaintext, err := e.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}
