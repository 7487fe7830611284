package zipcrack

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeTestZip(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := w.Write(content); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
}

func TestZipEntryReaderReadsStoredBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archive.zip")
	content := []byte("raw stored entry contents")
	writeTestZip(t, path, map[string][]byte{"entry.bin": content})

	got, err := ZipEntryReader{}.ReadEntry(path, "entry.bin", 0)
	if err != nil {
		t.Fatalf("ReadEntry: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("ReadEntry = %q, want %q", got, content)
	}
}

func TestZipEntryReaderMissingEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archive.zip")
	writeTestZip(t, path, map[string][]byte{"entry.bin": []byte("x")})

	_, err := ZipEntryReader{}.ReadEntry(path, "missing.bin", 0)
	if err == nil {
		t.Fatal("expected an error for a missing entry, got nil")
	}
}

func TestRawFileReaderRespectsMaxBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "raw.bin")
	if err := os.WriteFile(path, []byte("0123456789"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := RawFileReader{}.ReadEntry("", path, 4)
	if err != nil {
		t.Fatalf("ReadEntry: %v", err)
	}
	if string(got) != "0123" {
		t.Fatalf("ReadEntry = %q, want %q", got, "0123")
	}
}

func TestAutoPairMatchesByCRC32(t *testing.T) {
	dir := t.TempDir()
	plainPath := filepath.Join(dir, "plain.zip")
	cipherPath := filepath.Join(dir, "cipher.zip")

	shared := []byte("identical content so the CRC32 values match")
	writeTestZip(t, plainPath, map[string][]byte{"readme.txt": shared})
	writeTestZip(t, cipherPath, map[string][]byte{"readme.txt.enc": shared, "other.bin": []byte("unrelated")})

	plainEntry, cipherEntry, err := AutoPair(plainPath, cipherPath)
	if err != nil {
		t.Fatalf("AutoPair: %v", err)
	}
	if plainEntry != "readme.txt" || cipherEntry != "readme.txt.enc" {
		t.Fatalf("AutoPair = (%q, %q), want (readme.txt, readme.txt.enc)", plainEntry, cipherEntry)
	}
}

func TestAutoPairNoMatch(t *testing.T) {
	dir := t.TempDir()
	plainPath := filepath.Join(dir, "plain.zip")
	cipherPath := filepath.Join(dir, "cipher.zip")

	writeTestZip(t, plainPath, map[string][]byte{"a.txt": []byte("aaa")})
	writeTestZip(t, cipherPath, map[string][]byte{"b.txt": []byte("bbb")})

	if _, _, err := AutoPair(plainPath, cipherPath); err == nil {
		t.Fatal("expected an error when no entries share a CRC32, got nil")
	}
}
