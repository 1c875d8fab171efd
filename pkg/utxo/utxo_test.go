package utxo

import "testing"

func TestBuildAndDecodeID(t *testing.T) {
	id := BuildID("abc123", 7)
	txID, index, ok := DecodeID(id)
	if !ok {
		t.Fatal("expected successful decode")
	}
	if txID != "abc123" || index != 7 {
		t.Errorf("got txID=%s index=%d", txID, index)
	}
}

func TestDecodeIDRejectsNonDigitSuffix(t *testing.T) {
	if _, _, ok := DecodeID("abcx"); ok {
		t.Error("expected decode to fail on non-digit suffix")
	}
}

func TestUTXOIDMatchesBuildID(t *testing.T) {
	u := UTXO{TxID: "tx1", OutputIndex: 3, Amount: 10, RecipientAddress: "addr"}
	if u.ID() != BuildID("tx1", 3) {
		t.Error("UTXO.ID() should match BuildID")
	}
}

func TestSetApplySpendsAndCredits(t *testing.T) {
	set := NewSet()
	set.ApplyCredits([]UTXO{
		{TxID: "tx1", OutputIndex: 0, Amount: 100, RecipientAddress: "addr1"},
		{TxID: "tx1", OutputIndex: 1, Amount: 50, RecipientAddress: "addr2"},
	})

	if set.Size() != 2 {
		t.Fatalf("expected 2 UTXOs, got %d", set.Size())
	}
	if set.TotalValue() != 150 {
		t.Errorf("expected total value 150, got %d", set.TotalValue())
	}

	set.ApplySpends([]string{BuildID("tx1", 0)})
	if set.Size() != 1 {
		t.Errorf("expected 1 UTXO after spend, got %d", set.Size())
	}
	if set.Exists(BuildID("tx1", 0)) {
		t.Error("spent UTXO should no longer exist")
	}
}

func TestSetSnapshotIsIndependent(t *testing.T) {
	set := NewSet()
	set.Add(UTXO{TxID: "tx1", OutputIndex: 0, Amount: 10, RecipientAddress: "addr"})

	snap := set.Snapshot()
	set.Remove(BuildID("tx1", 0))

	if _, ok := snap[BuildID("tx1", 0)]; !ok {
		t.Error("snapshot should not be affected by later mutation")
	}
}
