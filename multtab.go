package zipcrack

// multConst and multInv are the ZipCrypto Y-recurrence multiplier and its
// modular inverse mod 2^32.
const (
	multConst uint32 = 0x08088405
	multInv   uint32 = 0xd94fa8cd
)

// multTab precomputes b*MULTINV for every byte b, plus two "fiber" tables:
// the set of bytes whose product's msb equals a given byte, at two
// different byte alignments. These power the Y-list expansion in Attack,
// where a byte of a running product is known and the completing byte must
// be enumerated.
type multTab struct {
	multinv [256]uint32

	// msbProdFiber2[m] lists every byte b with msb(b*MULTINV) == m.
	msbProdFiber2 [256][]byte

	// msbProdFiber3[m] lists every byte b with msb((b*MULTINV)<<8) == m,
	// i.e. the second-highest byte of the product.
	msbProdFiber3 [256][]byte
}

func newMultTab() *multTab {
	t := &multTab{}
	for b := 0; b < 256; b++ {
		t.multinv[b] = uint32(b) * multInv
	}
	for b := 0; b < 256; b++ {
		m2 := msb(t.multinv[b])
		t.msbProdFiber2[m2] = append(t.msbProdFiber2[m2], byte(b))

		m3 := msb(t.multinv[b] << 8)
		t.msbProdFiber3[m3] = append(t.msbProdFiber3[m3], byte(b))
	}
	return t
}

// getMultinv returns b*MULTINV as computed at construction time.
func (t *multTab) getMultinv(b byte) uint32 {
	return t.multinv[b]
}

// getMsbProdFiber2 returns every byte b with msb(b*MULTINV) == m.
func (t *multTab) getMsbProdFiber2(m byte) []byte {
	return t.msbProdFiber2[m]
}

// getMsbProdFiber3 returns every byte b with msb((b*MULTINV)<<8) == m.
func (t *multTab) getMsbProdFiber3(m byte) []byte {
	return t.msbProdFiber3[m]
}
