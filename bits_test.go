package zipcrack

import "testing"

func TestLsbMsb(t *testing.T) {
	const v uint32 = 0xaabbccdd
	if got := lsb(v); got != 0xdd {
		t.Errorf("lsb(%#x) = %#x, want 0xdd", v, got)
	}
	if got := msb(v); got != 0xaa {
		t.Errorf("msb(%#x) = %#x, want 0xaa", v, got)
	}
}

func TestMaskConstants(t *testing.T) {
	cases := []struct {
		name string
		mask uint32
		want uint32
	}{
		{"mask0_16", mask0_16, 0x0000ffff},
		{"mask2_32", mask2_32, 0xfffffffc},
		{"mask8_32", mask8_32, 0xffffff00},
		{"mask10_32", mask10_32, 0xfffffc00},
		{"mask24_32", mask24_32, 0xff000000},
		{"mask26_32", mask26_32, 0xfc000000},
	}
	for _, c := range cases {
		if c.mask != c.want {
			t.Errorf("%s = %#x, want %#x", c.name, c.mask, c.want)
		}
	}
}
