package zipcrack

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
)

// Decipherer strips the ZipCrypto stream cipher off raw entry bytes given a
// recovered Keys triple, and optionally inflates the result when the entry
// was stored with DEFLATE compression.
type Decipherer struct {
	keys *Keys
}

// NewDecipherer builds a Decipherer around a recovered key triple. keys is
// cloned so the caller's copy is left untouched by the stream state
// advancing through Decrypt.
func NewDecipherer(keys *Keys) *Decipherer {
	clone := NewKeys()
	clone.Set(keys.X(), keys.Y(), keys.Z())
	return &Decipherer{keys: clone}
}

// Decrypt strips the 12-byte header and the per-byte keystream off raw,
// returning the plain (still possibly compressed) entry bytes.
func (d *Decipherer) Decrypt(raw []byte) ([]byte, error) {
	if len(raw) < headerSize {
		return nil, NewDecipherIOError("", ErrUnsupportedCipher)
	}

	out := make([]byte, len(raw)-headerSize)
	for i, c := range raw {
		p := c ^ d.keys.KeystreamByte()
		d.keys.Update(p)
		if i >= headerSize {
			out[i-headerSize] = p
		}
	}
	return out, nil
}

// DecryptAndInflate decrypts raw and, if compressed is true, inflates the
// result as a raw DEFLATE stream (the format ZIP entries use internally).
func (d *Decipherer) DecryptAndInflate(raw []byte, compressed bool) ([]byte, error) {
	plain, err := d.Decrypt(raw)
	if err != nil {
		return nil, err
	}
	if !compressed {
		return plain, nil
	}

	fr := flate.NewReader(bytes.NewReader(plain))
	defer fr.Close()

	inflated, err := io.ReadAll(fr)
	if err != nil {
		return nil, NewDecipherIOError("", err)
	}
	return inflated, nil
}
