package crypto

import "testing"

func TestHexDigestIsDeterministic(t *testing.T) {
	a := HexDigest([]byte("hello"))
	b := HexDigest([]byte("hello"))
	if a != b {
		t.Errorf("HexDigest not deterministic: %s != %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}

func TestHexDigestDiffersOnInput(t *testing.T) {
	a := HexDigest([]byte("hello"))
	b := HexDigest([]byte("world"))
	if a == b {
		t.Error("different inputs produced the same digest")
	}
}
