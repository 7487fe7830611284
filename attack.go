package zipcrack

// AttackSize is the width of the guess tree: twelve consecutive keystream
// positions are enough to pin down a full (X, Y, Z) triple.
const AttackSize = 12

// Attack holds one 12-position guess-tree workspace: three 12-word arrays
// building up Z[i0..i0+11], Y[i0..i0+11], and X[i0..i0+11], anchored at a
// fixed keystream index i0. An Attack is created once per search and may be
// cheaply cloned per worker goroutine; the tables it reads are shared and
// read-only.
type Attack struct {
	zList [AttackSize]uint32
	yList [AttackSize]uint32
	xList [AttackSize]uint32

	data  *Data
	index int // i0: zList[k] corresponds to the state producing keystream[i0+k]

	crc32tab *crc32Tab
	multtab  *multTab
	keystab  *keystreamTab
}

// NewAttack builds an Attack anchored at keystream position index, using
// the package-wide shared tables.
func NewAttack(data *Data, index int) *Attack {
	ensureTables()
	return newAttackWithTables(data, index, sharedCrc32Tab, sharedMultTab, sharedKeystreamTab)
}

func newAttackWithTables(data *Data, index int, crc32tab *crc32Tab, multtab *multTab, keystab *keystreamTab) *Attack {
	return &Attack{
		data:     data,
		index:    index,
		crc32tab: crc32tab,
		multtab:  multtab,
		keystab:  keystab,
	}
}

// Clone returns an independent copy of the workspace (the three guess
// arrays are copied by value; data and the shared tables are shared
// read-only), for dispatching onto a separate worker goroutine.
func (a *Attack) Clone() *Attack {
	clone := *a
	return &clone
}

// CarryOut seeds zList[11] with a candidate Z{i0+11}[2,32) value and runs
// the guess tree. It returns true iff every filter in phases A, B, and C
// was satisfied, in which case Keys() returns the recovered triple.
func (a *Attack) CarryOut(z11_2_32 uint32) bool {
	a.zList[AttackSize-1] = z11_2_32
	return a.exploreZLists(AttackSize - 1)
}

// Keys constructs the recovered key triple at position i0+7 and
// back-propagates it across the preceding ciphertext (including the
// 12-byte header) to the session-initial state.
func (a *Attack) Keys() *Keys {
	keys := NewKeys()
	keys.Set(a.xList[7], a.yList[7], a.zList[7])

	prefixLen := headerSize + a.data.Offset + a.index + 7
	for i := prefixLen - 1; i >= 0; i-- {
		keys.UpdateBack(a.data.Ciphertext[i])
	}
	return keys
}

// exploreZLists is phase A: complete the Z-list from position i down to 0,
// then hand off to the Y-list search (the i==0 base case).
func (a *Attack) exploreZLists(i int) bool {
	if i != 0 {
		zim1_10_32 := a.crc32tab.zim1_10_32(a.zList[i])

		for _, zim1_2_16 := range a.keystab.getZi2_16Vector(a.data.Keystream[a.index+i-1], zim1_10_32) {
			a.zList[i-1] = zim1_10_32 | zim1_2_16

			a.zList[i] = (a.zList[i] & mask2_32) |
				((a.crc32tab.crc32inv(a.zList[i], 0) ^ a.zList[i-1]) >> 8)

			if i < AttackSize-1 {
				a.yList[i+1] = a.crc32tab.yi_24_32(a.zList[i+1], a.zList[i])
			}

			if a.exploreZLists(i - 1) {
				return true
			}
		}
		return false
	}

	// Z-list complete: iterate over possible Y11[8,32) values, tracking the
	// running product prod == (Y11[8,32) - 1) * MULTINV incrementally.
	prod := (a.multtab.getMultinv(msb(a.yList[11])) << 24) - multInv
	for y11_8_24 := uint32(0); y11_8_24 < (1 << 24); y11_8_24 += 1 << 8 {
		for _, y11_0_8 := range a.multtab.getMsbProdFiber3(msb(a.yList[10]) - msb(prod)) {
			if prod+a.multtab.getMultinv(y11_0_8)-(a.yList[10]&mask24_32) <= maxdiff0_24 {
				a.yList[11] = uint32(y11_0_8) | y11_8_24 | (a.yList[11] & mask24_32)
				if a.exploreYLists(11) {
					return true
				}
			}
		}
		prod += multInv << 8
	}
	return false
}

// exploreYLists is phase B: complete the Y-list from position i down to 3,
// then hand off to testXList.
func (a *Attack) exploreYLists(i int) bool {
	if i != 3 {
		fy := (a.yList[i] - 1) * multInv
		ffy := (fy - 1) * multInv

		for _, xi_0_8 := range a.multtab.getMsbProdFiber2(msb(ffy - (a.yList[i-2] & mask24_32))) {
			yim1 := fy - uint32(xi_0_8)

			if ffy-a.multtab.getMultinv(xi_0_8)-(a.yList[i-2]&mask24_32) <= maxdiff0_24 &&
				msb(yim1) == msb(a.yList[i-1]) {
				a.yList[i-1] = yim1
				a.xList[i] = uint32(xi_0_8)

				if a.exploreYLists(i - 1) {
					return true
				}
			}
		}
		return false
	}

	return a.testXList()
}

// testXList is phase C: rebuild X5..X7 from the CRC forward relation,
// verify X8..X11 against the plaintext, roll X7 back to X3, and check the
// final cross-consistency bound against Y1[26,32).
func (a *Attack) testXList() bool {
	for i := 5; i <= 7; i++ {
		a.xList[i] = (a.crc32tab.crc32(a.xList[i-1], a.data.Plaintext[a.index+i-1]) & mask8_32) |
			uint32(lsb(a.xList[i]))
	}

	x := a.xList[7]
	for i := 8; i <= 11; i++ {
		x = a.crc32tab.crc32(x, a.data.Plaintext[a.index+i-1])
		if lsb(x) != lsb(a.xList[i]) {
			return false
		}
	}

	x = a.xList[7]
	for i := 6; i >= 3; i-- {
		x = a.crc32tab.crc32inv(x, a.data.Plaintext[a.index+i])
	}

	y1_26_32 := a.crc32tab.yi_24_32(a.zList[1], a.zList[0]) & mask26_32
	diff := ((a.yList[3]-1)*multInv-uint32(lsb(x))-1)*multInv - y1_26_32
	return diff <= maxdiff0_26
}
