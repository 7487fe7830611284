package zipcrack

import "slices"

// Zreduction generates the initial Zi[2,32) candidate set at the last
// keystream position and prunes it back through the keystream, tracking
// the smallest vector seen so the attack can be anchored at the cheapest
// position.
type Zreduction struct {
	keystream []byte
	vector    []uint32
	index     int

	crc32tab *crc32Tab
	keystab  *keystreamTab

	progress ProgressFunc
}

// zreductionWaitSize and zreductionTrackSize are the tuning constants of
// the tracking policy: once the smallest vector seen drops to at most
// waitSize, a countdown of four times that smallest size (bestSize*4) is
// armed before giving up on finding anything smaller.
const (
	zreductionWaitSize  = 1 << 8
	zreductionTrackSize = 1 << 16
)

// NewZreduction builds a Zreduction over the given keystream, using the
// package-wide shared tables.
func NewZreduction(keystream []byte) *Zreduction {
	ensureTables()
	return &Zreduction{
		keystream: keystream,
		crc32tab:  sharedCrc32Tab,
		keystab:   sharedKeystreamTab,
	}
}

// SetProgress installs a callback invoked with (done, total) during Reduce.
func (z *Zreduction) SetProgress(fn ProgressFunc) {
	z.progress = fn
}

// Generate seeds the candidate vector with every (high<<16 | zi_2_16) for
// every zi_2_16 producing the keystream's last byte, over every possible
// high half.
func (z *Zreduction) Generate() {
	z.index = len(z.keystream)
	z.vector = make([]uint32, 0, 1<<22)

	last := z.keystream[len(z.keystream)-1]
	for _, zi2_16 := range z.keystab.getZi2_16Array(last) {
		for high := uint32(0); high < (1 << 16); high++ {
			z.vector = append(z.vector, high<<16|zi2_16)
		}
	}
}

// Reduce walks the keystream backward from its end to AttackSize,
// repeatedly replacing the candidate vector with the Z{i-1}[2,32) set
// consistent with keystream[i-1], while tracking the smallest vector seen.
func (z *Zreduction) Reduce() {
	tracking := false
	var bestCopy []uint32
	bestIndex, bestSize := 0, zreductionTrackSize

	waiting := false
	wait := 0

	total := len(z.keystream) - AttackSize

	for i := z.index - 1; i >= AttackSize; i-- {
		zim1_10_32_vector := make([]uint32, 0, len(z.vector))
		for _, zi2_32 := range z.vector {
			zim1_10_32 := z.crc32tab.zim1_10_32(zi2_32)
			if z.keystab.hasZi2_16(z.keystream[i-1], zim1_10_32) {
				zim1_10_32_vector = append(zim1_10_32_vector, zim1_10_32)
			}
		}

		slices.Sort(zim1_10_32_vector)
		zim1_10_32_vector = slices.Compact(zim1_10_32_vector)

		zim1_2_32_vector := make([]uint32, 0, len(zim1_10_32_vector))
		for _, zim1_10_32 := range zim1_10_32_vector {
			for _, zim1_2_16 := range z.keystab.getZi2_16Vector(z.keystream[i-1], zim1_10_32) {
				zim1_2_32_vector = append(zim1_2_32_vector, zim1_10_32|zim1_2_16)
			}
		}

		if len(zim1_2_32_vector) <= bestSize {
			tracking = true
			bestIndex = i - 1
			bestSize = len(zim1_2_32_vector)
			waiting = false
		} else if tracking {
			if bestIndex == i {
				bestCopy, z.vector = z.vector, bestCopy

				if bestSize <= zreductionWaitSize {
					waiting = true
					wait = bestSize * 4
				}
			}

			wait--
			if waiting && wait == 0 {
				break
			}
		}

		z.vector = zim1_2_32_vector

		if z.progress != nil {
			done := len(z.keystream) - i
			z.progress(done, total)
		}
	}

	if tracking {
		if bestIndex != AttackSize-1 {
			z.vector, bestCopy = bestCopy, z.vector
		}
		z.index = bestIndex
	} else {
		z.index = AttackSize - 1
	}
}

// Size returns the number of candidates currently in the vector.
func (z *Zreduction) Size() int {
	return len(z.vector)
}

// Index returns the keystream position the surviving vector is anchored
// at, as set by Reduce. After Generate alone it is len(keystream), one past
// the position (len(keystream)-1) the seeded vector belongs to.
func (z *Zreduction) Index() int {
	return z.index
}

// Vector returns the surviving Zi[2,32) candidates.
func (z *Zreduction) Vector() []uint32 {
	return z.vector
}
