package zipcrack

// headerSize is the length, in bytes, of the ZipCrypto encryption header:
// twelve bytes of keystream-encrypted random padding prefixed to every
// entry's compressed data.
const headerSize = 12

// Data bundles the known plaintext, the ciphertext it was cut from, and the
// keystream derived by XORing the two together. offset is the position of
// the first plaintext byte relative to the first byte of ciphertext after
// the header (may be negative, so long as headerSize+offset >= 0).
type Data struct {
	Plaintext  []byte
	Ciphertext []byte
	Keystream  []byte
	Offset     int
}

// NewData validates and assembles a Data from known plaintext, the
// encrypted stream it came from (including the 12-byte header), and the
// plaintext's offset within the post-header ciphertext.
func NewData(plaintext, ciphertext []byte, offset int) (*Data, error) {
	if err := validateOffset(offset); err != nil {
		return nil, err
	}
	if err := validatePlaintextSize(plaintext); err != nil {
		return nil, err
	}
	if err := validateCiphertextSize(ciphertext, plaintext, offset); err != nil {
		return nil, err
	}

	keystream := make([]byte, len(plaintext))
	base := headerSize + offset
	for i, p := range plaintext {
		keystream[i] = p ^ ciphertext[base+i]
	}

	return &Data{
		Plaintext:  plaintext,
		Ciphertext: ciphertext,
		Keystream:  keystream,
		Offset:     offset,
	}, nil
}
