package zipcrack

import "fmt"

// Keys holds the ZipCrypto cipher's three 32-bit internal state words and
// advances them forward (absorbing a plaintext byte) or backward (absorbing
// a ciphertext byte and reversing the corresponding forward step).
type Keys struct {
	x, y, z uint32

	crc32tab *crc32Tab
	keystab  *keystreamTab
}

// initial X/Y/Z for a fresh ZipCrypto session, before any bytes are
// absorbed.
const (
	initialX uint32 = 0x12345678
	initialY uint32 = 0x23456789
	initialZ uint32 = 0x34567890
)

// NewKeys returns a Keys in the session-initial state, backed by the
// package-wide precomputed tables.
func NewKeys() *Keys {
	return &Keys{
		x:        initialX,
		y:        initialY,
		z:        initialZ,
		crc32tab: sharedCrc32Tab,
		keystab:  sharedKeystreamTab,
	}
}

// newKeysWithTables builds a session-initial Keys bound to explicit tables
// instead of the package-wide singletons.
func newKeysWithTables(crc32tab *crc32Tab, keystab *keystreamTab) *Keys {
	return &Keys{
		x:        initialX,
		y:        initialY,
		z:        initialZ,
		crc32tab: crc32tab,
		keystab:  keystab,
	}
}

// Set overwrites the internal state with an already-known triple.
func (k *Keys) Set(x, y, z uint32) {
	k.x, k.y, k.z = x, y, z
}

// X, Y, Z return the current internal state words.
func (k *Keys) X() uint32 { return k.x }
func (k *Keys) Y() uint32 { return k.y }
func (k *Keys) Z() uint32 { return k.z }

// KeystreamByte returns the keystream byte the current state produces,
// i.e. lsb((Z|3)*((Z|3)^1) >> 8).
func (k *Keys) KeystreamByte() byte {
	return keystreamByte(k.z)
}

// Update advances the state forward by absorbing plaintext byte p.
func (k *Keys) Update(p byte) {
	k.x = k.crc32tab.crc32(k.x, p)
	k.y = (k.y+uint32(lsb(k.x)))*multConst + 1
	k.z = k.crc32tab.crc32(k.z, msb(k.y))
}

// UpdateBack reverses Update given the ciphertext byte c corresponding to
// the plaintext byte p = c ^ KeystreamByte() that was most recently
// absorbed.
func (k *Keys) UpdateBack(c byte) {
	k.z = k.crc32tab.crc32inv(k.z, msb(k.y))
	k.y = (k.y-1)*multInv - uint32(lsb(k.x))
	k.x = k.crc32tab.crc32inv(k.x, c^k.keystab.getByte(k.z))
}

// String renders the triple the way the reference CLI does: three
// space-separated lowercase 8-hex-digit words.
func (k *Keys) String() string {
	return fmt.Sprintf("%08x %08x %08x", k.x, k.y, k.z)
}

// ParseKeys parses three hex words (as produced by String) back into a
// Keys in that exact state.
func ParseKeys(xs, ys, zs string) (*Keys, error) {
	var x, y, z uint32
	if _, err := fmt.Sscanf(xs, "%x", &x); err != nil {
		return nil, NewInputError("key.x", fmt.Sprintf("invalid hex word %q", xs))
	}
	if _, err := fmt.Sscanf(ys, "%x", &y); err != nil {
		return nil, NewInputError("key.y", fmt.Sprintf("invalid hex word %q", ys))
	}
	if _, err := fmt.Sscanf(zs, "%x", &z); err != nil {
		return nil, NewInputError("key.z", fmt.Sprintf("invalid hex word %q", zs))
	}
	keys := NewKeys()
	keys.Set(x, y, z)
	return keys, nil
}
