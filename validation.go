package zipcrack

import "fmt"

// Boundary validation, invoked once at Data construction. Everything past
// this point is either a guaranteed invariant or a silent filter rejection
// inside the attack — see errors.go and SPEC_FULL.md §7.

// minPlaintextSize is Attack.SIZE: the attack needs twelve contiguous
// keystream bytes to anchor its guess tree.
const minPlaintextSize = 12

// validatePlaintextSize checks that enough known plaintext was supplied.
func validatePlaintextSize(plaintext []byte) error {
	if len(plaintext) < minPlaintextSize {
		return NewInputError("plaintext", fmt.Sprintf(
			"need at least %d bytes of known plaintext, got %d", minPlaintextSize, len(plaintext)))
	}
	return nil
}

// validateOffset checks that offset does not reach before the start of the
// 12-byte encryption header.
func validateOffset(offset int) error {
	if headerSize+offset < 0 {
		return NewInputError("offset", fmt.Sprintf(
			"offset %d is too small: header(%d)+offset must be >= 0", offset, headerSize))
	}
	return nil
}

// validateCiphertextSize checks that the ciphertext covers the header, the
// offset, and the whole known-plaintext run.
func validateCiphertextSize(ciphertext, plaintext []byte, offset int) error {
	need := headerSize + offset + len(plaintext)
	if len(plaintext) > len(ciphertext) {
		return NewInputError("ciphertext", "ciphertext is smaller than plaintext")
	}
	if need > len(ciphertext) {
		return NewInputError("offset", fmt.Sprintf(
			"offset is too large: need %d bytes of ciphertext, got %d", need, len(ciphertext)))
	}
	return nil
}
