package crypto

import "testing"

func TestMerkleRootEmpty(t *testing.T) {
	if got := MerkleRoot(nil); got != "0" {
		t.Errorf("expected sentinel \"0\" for empty input, got %s", got)
	}
}

func TestMerkleRootSingle(t *testing.T) {
	got := MerkleRoot([]string{"abc"})
	expected := HexDigest([]byte("abc" + "abc"))
	if got != expected {
		t.Errorf("single leaf should hash against itself, got %s want %s", got, expected)
	}
}

func TestMerkleRootEven(t *testing.T) {
	root := MerkleRoot([]string{"a", "b"})
	expected := HexDigest([]byte("a" + "b"))
	if root != expected {
		t.Errorf("got %s, want %s", root, expected)
	}
}

func TestMerkleRootOddDuplicatesLast(t *testing.T) {
	// 3 leaves: level 0 pads to [a, b, c, c]
	root := MerkleRoot([]string{"a", "b", "c"})

	left := HexDigest([]byte("a" + "b"))
	right := HexDigest([]byte("c" + "c"))
	expected := HexDigest([]byte(left + right))

	if root != expected {
		t.Errorf("got %s, want %s", root, expected)
	}
}

func TestMerkleRootFiveLeavesDoesNotPanic(t *testing.T) {
	// Five leaves require duplication at more than one level; this must not
	// panic regardless of how many odd levels occur on the way down.
	leaves := []string{"a", "b", "c", "d", "e"}
	root := MerkleRoot(leaves)
	if root == "" {
		t.Error("expected a non-empty root")
	}
}
