package zipcrack

import "testing"

func TestKeysUpdateUpdateBackRoundTrip(t *testing.T) {
	keys := NewKeys()
	plaintext := []byte("the quick brown fox jumps over the lazy dog")

	ciphertext := make([]byte, len(plaintext))
	for i, p := range plaintext {
		ciphertext[i] = p ^ keys.KeystreamByte()
		keys.Update(p)
	}

	// keys now holds the state after absorbing the whole plaintext; replay
	// backward across the ciphertext and expect to land on the initial
	// session state.
	for i := len(ciphertext) - 1; i >= 0; i-- {
		keys.UpdateBack(ciphertext[i])
	}

	if keys.X() != initialX || keys.Y() != initialY || keys.Z() != initialZ {
		t.Fatalf("round trip landed at (%#x, %#x, %#x), want (%#x, %#x, %#x)",
			keys.X(), keys.Y(), keys.Z(), initialX, initialY, initialZ)
	}
}

func TestKeysStringParseRoundTrip(t *testing.T) {
	keys := NewKeys()
	keys.Set(0x8879dfed, 0x14335b6b, 0x8dc58b53)

	parsed, err := ParseKeys("8879dfed", "14335b6b", "8dc58b53")
	if err != nil {
		t.Fatalf("ParseKeys: %v", err)
	}

	if parsed.X() != keys.X() || parsed.Y() != keys.Y() || parsed.Z() != keys.Z() {
		t.Fatalf("parsed (%#x, %#x, %#x) != original (%#x, %#x, %#x)",
			parsed.X(), parsed.Y(), parsed.Z(), keys.X(), keys.Y(), keys.Z())
	}

	if got, want := keys.String(), "8879dfed 14335b6b 8dc58b53"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestParseKeysRejectsInvalidHex(t *testing.T) {
	if _, err := ParseKeys("zzzz", "0", "0"); err == nil {
		t.Fatal("expected an error for invalid hex word, got nil")
	}
}
