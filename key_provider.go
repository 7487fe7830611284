package zipcrack

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// Argon2idParams controls the (default, recommended) Argon2id key
// derivation a KeyStore uses to turn a passphrase into a master key.
type Argon2idParams struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltSize    int
	KeySize     int
}

// PBKDF2Params controls the fallback key derivation for environments where
// Argon2id's memory cost is unavailable (e.g. constrained containers).
type PBKDF2Params struct {
	Iterations int
	SaltSize   int
	KeySize    int
}

func defaultArgon2idParams() Argon2idParams {
	return Argon2idParams{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 4,
		SaltSize:    32,
		KeySize:     64, // KeyStore needs 32 bytes for AEAD + 32 for entry naming
	}
}

func defaultPBKDF2Params() PBKDF2Params {
	return PBKDF2Params{
		Iterations: 200000,
		SaltSize:   32,
		KeySize:    64,
	}
}

// passphraseKeyProvider derives a master key from a passphrase and salt,
// using either Argon2id (default) or PBKDF2-HMAC-SHA256 (usePBKDF2).
type passphraseKeyProvider struct {
	passphrase   []byte
	useArgon2id  bool
	argon2Params Argon2idParams
	pbkdf2Params PBKDF2Params
}

func newPassphraseKeyProvider(passphrase []byte) *passphraseKeyProvider {
	return &passphraseKeyProvider{
		passphrase:   passphrase,
		useArgon2id:  true,
		argon2Params: defaultArgon2idParams(),
		pbkdf2Params: defaultPBKDF2Params(),
	}
}

// usePBKDF2 switches this provider to PBKDF2-HMAC-SHA256.
func (p *passphraseKeyProvider) usePBKDF2(params PBKDF2Params) {
	p.useArgon2id = false
	if params.Iterations == 0 {
		params.Iterations = defaultPBKDF2Params().Iterations
	}
	if params.SaltSize == 0 {
		params.SaltSize = defaultPBKDF2Params().SaltSize
	}
	if params.KeySize == 0 {
		params.KeySize = defaultPBKDF2Params().KeySize
	}
	p.pbkdf2Params = params
}

// deriveKey derives a masterKey-sized key from the passphrase and salt.
func (p *passphraseKeyProvider) deriveKey(salt []byte) ([]byte, error) {
	if len(p.passphrase) == 0 {
		return nil, errors.New("passphrase cannot be empty")
	}
	if len(salt) == 0 {
		return nil, errors.New("salt cannot be empty")
	}

	if p.useArgon2id {
		return argon2.IDKey(
			p.passphrase,
			salt,
			p.argon2Params.Iterations,
			p.argon2Params.Memory,
			p.argon2Params.Parallelism,
			uint32(p.argon2Params.KeySize),
		), nil
	}

	return pbkdf2.Key(
		p.passphrase,
		salt,
		p.pbkdf2Params.Iterations,
		p.pbkdf2Params.KeySize,
		sha256.New,
	), nil
}

// generateSalt returns a fresh random salt sized for whichever KDF is
// active.
func (p *passphraseKeyProvider) generateSalt() ([]byte, error) {
	size := p.pbkdf2Params.SaltSize
	if p.useArgon2id {
		size = p.argon2Params.SaltSize
	}

	salt := make([]byte, size)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}
