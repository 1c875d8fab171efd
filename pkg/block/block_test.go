package block

import (
	"testing"

	"github.com/powsim/powsim/pkg/crypto"
	"github.com/powsim/powsim/pkg/txn"
)

func TestNewComputesMerkleRootAndHash(t *testing.T) {
	tx, err := txn.NewCoinbase("addr", 100, 1000)
	if err != nil {
		t.Fatal(err)
	}

	b := New(0, 1000, []*txn.Transaction{tx}, "0")
	if want := crypto.HexDigest([]byte(tx.ID + tx.ID)); b.MerkleRoot != want {
		t.Errorf("single-tx block should have a merkle root equal to the tx id hashed with itself, got %s want %s", b.MerkleRoot, want)
	}
	if b.Hash != b.CalculateHash() {
		t.Error("stored hash should match recomputed hash")
	}
}

func TestMeetsDifficulty(t *testing.T) {
	cases := []struct {
		hash       string
		difficulty int
		want       bool
	}{
		{"00abc", 2, true},
		{"0abc", 2, false},
		{"000", 3, true},
		{"00", 3, false},
	}

	for _, c := range cases {
		if got := MeetsDifficulty(c.hash, c.difficulty); got != c.want {
			t.Errorf("MeetsDifficulty(%q, %d) = %v, want %v", c.hash, c.difficulty, got, c.want)
		}
	}
}
