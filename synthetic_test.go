package zipcrack

// buildSyntheticSession forward-simulates a ZipCrypto session starting from
// the standard initial state, producing a full ciphertext (12-byte header
// included) and the plaintext it encrypts. Used by the attack, Z-reduction,
// and driver tests to exercise the whole recovery pipeline against data
// with a known-correct answer, since no real archive fixtures are available
// to this test suite.
func buildSyntheticSession(headerBytes []byte, plaintext []byte) (ciphertext []byte, headerAndPlainZ []uint32) {
	keys := NewKeys()

	full := make([]byte, 0, len(headerBytes)+len(plaintext))
	full = append(full, headerBytes...)
	full = append(full, plaintext...)

	ciphertext = make([]byte, len(full))
	headerAndPlainZ = make([]uint32, len(full))
	for i, p := range full {
		headerAndPlainZ[i] = keys.Z()
		ciphertext[i] = p ^ keys.KeystreamByte()
		keys.Update(p)
	}
	return ciphertext, headerAndPlainZ
}

// syntheticHeader is a fixed, arbitrary 12-byte header; its value does not
// matter to the attack (it is never treated as known plaintext), only its
// length.
var syntheticHeader = []byte{0xaa, 0x17, 0x42, 0x01, 0xff, 0x00, 0x5c, 0x9d, 0x33, 0x71, 0x08, 0xe4}

// syntheticPlaintext is known plaintext long enough for Z-reduction to
// collapse the initial ~2^22-candidate set down to a handful before the
// 12-position guess tree takes over.
var syntheticPlaintext = []byte("The quick brown fox jumps over the lazy dog. Known-plaintext attacks need roughly a dozen bytes.")

// buildSyntheticData returns a Data ready to attack, plus the true Z state
// at every keystream position (indexed the same as data.Keystream), for
// tests that want to assert the recovery pipeline actually finds the right
// answer rather than merely terminating.
func buildSyntheticData() (*Data, []uint32) {
	ciphertext, zStates := buildSyntheticSession(syntheticHeader, syntheticPlaintext)
	data, err := NewData(syntheticPlaintext, ciphertext, 0)
	if err != nil {
		panic(err)
	}
	// zStates covers header+plaintext; keystream (and Data.Plaintext) only
	// covers the plaintext portion, offset by len(syntheticHeader).
	return data, zStates[len(syntheticHeader):]
}
