package zipcrack

import (
	"archive/zip"
	"io"
	"os"
)

// EntryReader is the external-collaborator interface the core core relies
// on to obtain raw (still ZipCrypto-encrypted, still compressed) entry
// bytes, starting at the entry's 12-byte header. Archive parsing itself is
// a non-goal of the attack core; this interface is the seam.
type EntryReader interface {
	// ReadEntry returns the raw bytes of entry inside archivePath, starting
	// at the ZipCrypto header, reading at most maxBytes bytes (0 =
	// unlimited).
	ReadEntry(archivePath, entryName string, maxBytes int) ([]byte, error)
}

// RawFileReader reads a bare file as if it already were one archive entry's
// raw bytes: archivePath is ignored and entryName is the file path. This
// backs the reference CLI's -c/-p (no-archive) flags.
type RawFileReader struct{}

// ReadEntry implements EntryReader by reading entryName directly off disk.
func (RawFileReader) ReadEntry(_ string, entryName string, maxBytes int) ([]byte, error) {
	f, err := os.Open(entryName)
	if err != nil {
		return nil, NewArchiveError(entryName, "", err)
	}
	defer f.Close()

	var r io.Reader = f
	if maxBytes > 0 {
		r = io.LimitReader(f, int64(maxBytes))
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, NewArchiveError(entryName, "", err)
	}
	return data, nil
}

// ZipEntryReader reads an entry's raw (compressed, still-encrypted) bytes
// directly out of a ZIP archive via archive/zip, backing the reference
// CLI's -C/-P flags.
type ZipEntryReader struct{}

// ReadEntry implements EntryReader by locating entryName in the ZIP archive
// at archivePath and reading its raw compressed data.
func (ZipEntryReader) ReadEntry(archivePath, entryName string, maxBytes int) ([]byte, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, NewArchiveError(archivePath, entryName, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != entryName {
			continue
		}
		return readRawEntry(f, maxBytes)
	}

	return nil, NewArchiveError(archivePath, entryName, ErrArchiveEntryNotFound)
}

// readRawEntry opens f in raw mode (compressed bytes, undecrypted,
// undecompressed) and reads up to maxBytes bytes of it.
func readRawEntry(f *zip.File, maxBytes int) ([]byte, error) {
	rc, err := f.OpenRaw()
	if err != nil {
		return nil, NewArchiveError("", f.Name, err)
	}

	var r io.Reader = rc
	if maxBytes > 0 {
		r = io.LimitReader(rc, int64(maxBytes))
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, NewArchiveError("", f.Name, err)
	}
	return data, nil
}

// AutoPair scans plainZip's entries for CRC32 values and returns the name
// of the first entry in cipherZip whose stored CRC32 matches, along with
// the matching plaintext entry's name. This automates the common case of
// "I have an unencrypted copy of the same archive" without requiring the
// caller to name entries explicitly.
func AutoPair(plainZipPath, cipherZipPath string) (plainEntry, cipherEntry string, err error) {
	plainZr, err := zip.OpenReader(plainZipPath)
	if err != nil {
		return "", "", NewArchiveError(plainZipPath, "", err)
	}
	defer plainZr.Close()

	cipherZr, err := zip.OpenReader(cipherZipPath)
	if err != nil {
		return "", "", NewArchiveError(cipherZipPath, "", err)
	}
	defer cipherZr.Close()

	crcToName := make(map[uint32]string, len(plainZr.File))
	for _, f := range plainZr.File {
		crcToName[f.CRC32] = f.Name
	}

	for _, f := range cipherZr.File {
		if name, ok := crcToName[f.CRC32]; ok {
			return name, f.Name, nil
		}
	}

	return "", "", NewArchiveError(cipherZipPath, "", ErrNoMatchingEntry)
}
