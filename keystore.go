package zipcrack

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// KeyStore persists recovered Keys triples to a directory, under a
// passphrase-derived master key: entries are named deterministically (via a
// CMAC/S2V tag over the caller's label) and sealed (via AES-256-GCM), so the
// directory listing alone never reveals the labels a user chose.
type KeyStore struct {
	dir   string
	aead  *aeadEngine
	namer *nameEngine
	salt  []byte
}

// keystoreEntry is the on-disk JSON payload, sealed under the AEAD engine.
type keystoreEntry struct {
	Label string `json:"label"`
	X     uint32 `json:"x"`
	Y     uint32 `json:"y"`
	Z     uint32 `json:"z"`
}

const keystoreSaltFile = "keystore.salt"

// NewKeyStore opens (or initializes) a KeyStore rooted at dir, deriving its
// master key from passphrase. The salt is persisted alongside entries on
// first use so later opens of the same directory derive the same key.
func NewKeyStore(dir string, passphrase []byte) (*KeyStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, NewArchiveError(dir, "", err)
	}

	provider := newPassphraseKeyProvider(passphrase)

	saltPath := filepath.Join(dir, keystoreSaltFile)
	salt, err := os.ReadFile(saltPath)
	if os.IsNotExist(err) {
		salt, err = provider.generateSalt()
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(saltPath, salt, 0o600); err != nil {
			return nil, NewArchiveError(saltPath, "", err)
		}
	} else if err != nil {
		return nil, NewArchiveError(saltPath, "", err)
	}

	masterKey, err := provider.deriveKey(salt)
	if err != nil {
		return nil, err
	}
	if len(masterKey) < 64 {
		return nil, fmt.Errorf("derived key too short: got %d bytes, need 64", len(masterKey))
	}

	aead, err := newAEADEngine(masterKey[:32])
	if err != nil {
		return nil, err
	}
	namer, err := newNameEngine(masterKey[32:64])
	if err != nil {
		return nil, err
	}

	return &KeyStore{dir: dir, aead: aead, namer: namer, salt: salt}, nil
}

// entryPath deterministically maps label to an on-disk filename: a CMAC/S2V
// tag over the label, bound to the store's salt as associated data, hex-encoded.
func (s *KeyStore) entryPath(label string) string {
	tag := s.namer.derive(label, s.salt)
	name := hex.EncodeToString(tag)
	return filepath.Join(s.dir, name+".entry")
}

// Save seals keys under label and writes it to the store, generating a
// fresh random UUID-derived temp filename to write atomically before rename.
func (s *KeyStore) Save(label string, keys *Keys) error {
	entry := keystoreEntry{Label: label, X: keys.X(), Y: keys.Y(), Z: keys.Z()}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal keystore entry: %w", err)
	}

	sealed, err := s.aead.seal(payload)
	if err != nil {
		return err
	}

	path := s.entryPath(label)
	tmp := filepath.Join(s.dir, "."+uuid.NewString()+".tmp")

	if err := os.WriteFile(tmp, sealed, 0o600); err != nil {
		return NewArchiveError(tmp, "", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return NewArchiveError(path, "", err)
	}
	return nil
}

// Load recovers the Keys previously saved under label.
func (s *KeyStore) Load(label string) (*Keys, error) {
	path := s.entryPath(label)

	sealed, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrEntryNotFound
	} else if err != nil {
		return nil, NewArchiveError(path, "", err)
	}

	payload, err := s.aead.open(sealed)
	if err != nil {
		return nil, err
	}

	var entry keystoreEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keystore entry: %w", err)
	}

	keys := NewKeys()
	keys.Set(entry.X, entry.Y, entry.Z)
	return keys, nil
}

// List returns the labels of every entry currently in the store. Since
// on-disk names are deterministic but non-reversible hashes, this requires
// decrypting every entry to recover its original label.
func (s *KeyStore) List() ([]string, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, NewArchiveError(s.dir, "", err)
	}

	var labels []string
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".entry" {
			continue
		}

		sealed, err := os.ReadFile(filepath.Join(s.dir, de.Name()))
		if err != nil {
			continue
		}
		payload, err := s.aead.open(sealed)
		if err != nil {
			continue
		}
		var entry keystoreEntry
		if err := json.Unmarshal(payload, &entry); err != nil {
			continue
		}
		labels = append(labels, entry.Label)
	}
	return labels, nil
}
