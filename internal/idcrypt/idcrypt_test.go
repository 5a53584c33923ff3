package idcrypt

import (
	"testing"

	"github.com/google/uuid"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c, err := New("unit-test-secret")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 16; i++ {
		id := uuid.New()
		ext := c.Encode(id)
		if ext == id.String() {
			t.Fatalf("external id leaks raw key: %s", ext)
		}
		back, err := c.Decode(ext)
		if err != nil {
			t.Fatalf("Decode(%q): %v", ext, err)
		}
		if back != id {
			t.Fatalf("round trip mismatch: got %s want %s", back, id)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	c, _ := New("unit-test-secret")
	id := uuid.New()
	if c.Encode(id) != c.Encode(id) {
		t.Fatal("Encode is not deterministic for the same key")
	}
	other, _ := New("another-secret")
	if c.Encode(id) == other.Encode(id) {
		t.Fatal("Encode ignored the key")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	c, _ := New("unit-test-secret")
	for _, bad := range []string{"", "zz", "1234", "not-hex-at-all"} {
		if _, err := c.Decode(bad); err == nil {
			t.Fatalf("Decode(%q) accepted malformed input", bad)
		}
	}
}
