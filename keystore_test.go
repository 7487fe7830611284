package zipcrack

import (
	"path/filepath"
	"testing"
)

func TestKeyStoreSaveLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")

	store, err := NewKeyStore(dir, []byte("correct horse battery staple"))
	if err != nil {
		t.Fatalf("NewKeyStore: %v", err)
	}

	keys := NewKeys()
	keys.Set(0x11223344, 0x55667788, 0x99aabbcc)

	if err := store.Save("my-archive.zip", keys); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load("my-archive.zip")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.X() != keys.X() || loaded.Y() != keys.Y() || loaded.Z() != keys.Z() {
		t.Fatalf("loaded (%#x, %#x, %#x) != saved (%#x, %#x, %#x)",
			loaded.X(), loaded.Y(), loaded.Z(), keys.X(), keys.Y(), keys.Z())
	}
}

func TestKeyStoreLoadMissingEntry(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")

	store, err := NewKeyStore(dir, []byte("passphrase"))
	if err != nil {
		t.Fatalf("NewKeyStore: %v", err)
	}

	if _, err := store.Load("never-saved"); err != ErrEntryNotFound {
		t.Fatalf("Load = %v, want ErrEntryNotFound", err)
	}
}

// Entry names are derived from the passphrase-derived key, so a store
// reopened with the wrong passphrase looks under a different name and does
// not find the entry at all.
func TestKeyStoreWrongPassphraseCannotLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")

	store, err := NewKeyStore(dir, []byte("right passphrase"))
	if err != nil {
		t.Fatalf("NewKeyStore: %v", err)
	}

	keys := NewKeys()
	if err := store.Save("label", keys); err != nil {
		t.Fatalf("Save: %v", err)
	}

	wrongStore, err := NewKeyStore(dir, []byte("wrong passphrase"))
	if err != nil {
		t.Fatalf("NewKeyStore (reopen): %v", err)
	}

	if _, err := wrongStore.Load("label"); err == nil {
		t.Fatal("expected Load with the wrong passphrase to fail, got nil error")
	}
}

func TestKeyStoreList(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")

	store, err := NewKeyStore(dir, []byte("passphrase"))
	if err != nil {
		t.Fatalf("NewKeyStore: %v", err)
	}

	labels := []string{"one", "two", "three"}
	for _, l := range labels {
		if err := store.Save(l, NewKeys()); err != nil {
			t.Fatalf("Save(%q): %v", l, err)
		}
	}

	got, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != len(labels) {
		t.Fatalf("List returned %d labels, want %d", len(got), len(labels))
	}

	seen := make(map[string]bool)
	for _, l := range got {
		seen[l] = true
	}
	for _, l := range labels {
		if !seen[l] {
			t.Fatalf("List missing label %q", l)
		}
	}
}
