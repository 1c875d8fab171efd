package txn

import (
	"testing"

	"github.com/powsim/powsim/pkg/utxo"
)

func TestNewCoinbaseIsCoinbase(t *testing.T) {
	tx, err := NewCoinbase("addr1", 5000000000, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if !tx.IsCoinbase() {
		t.Error("expected coinbase transaction")
	}
	if tx.ID == "" {
		t.Error("expected non-empty id")
	}
}

func TestTwoCoinbasesDontCollide(t *testing.T) {
	a, err := NewCoinbase("addr1", 100, 1000)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewCoinbase("addr1", 100, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Error("two coinbases with identical fields collided")
	}
}

func TestNewRejectsTooManyOutputs(t *testing.T) {
	outputs := make([]TxOutput, utxo.MaxOutputsPerTransaction+1)
	for i := range outputs {
		outputs[i] = TxOutput{Amount: 1, RecipientAddress: "addr"}
	}

	if _, err := New(nil, outputs, 1000); err == nil {
		t.Error("expected error for too many outputs")
	}
}

func TestIsValidChecksBalance(t *testing.T) {
	set := map[string]utxo.UTXO{
		"utxo0": {TxID: "prevtx", OutputIndex: 0, Amount: 100, RecipientAddress: "sender"},
	}

	tx, err := New(
		[]TxInput{{UTXOID: "utxo0", UTXOOutputIndex: 0, SenderAddress: "sender"}},
		[]TxOutput{{Amount: 50, RecipientAddress: "recipient"}},
		1000,
	)
	if err != nil {
		t.Fatal(err)
	}
	if !tx.IsValid(set) {
		t.Error("expected transaction spending less than input to be valid")
	}
}

func TestIsValidRejectsOverspend(t *testing.T) {
	set := map[string]utxo.UTXO{
		"utxo0": {TxID: "prevtx", OutputIndex: 0, Amount: 100, RecipientAddress: "sender"},
	}

	tx, err := New(
		[]TxInput{{UTXOID: "utxo0", UTXOOutputIndex: 0, SenderAddress: "sender"}},
		[]TxOutput{{Amount: 500, RecipientAddress: "recipient"}},
		1000,
	)
	if err != nil {
		t.Fatal(err)
	}
	if tx.IsValid(set) {
		t.Error("expected overspend to be invalid")
	}
}

func TestIsValidRejectsMissingUTXO(t *testing.T) {
	tx, err := New(
		[]TxInput{{UTXOID: "nonexistent", UTXOOutputIndex: 0, SenderAddress: "sender"}},
		[]TxOutput{{Amount: 1, RecipientAddress: "recipient"}},
		1000,
	)
	if err != nil {
		t.Fatal(err)
	}
	if tx.IsValid(map[string]utxo.UTXO{}) {
		t.Error("expected transaction referencing a missing UTXO to be invalid")
	}
}

func TestSigningPayloadUsesOuterAmount(t *testing.T) {
	p1 := SigningPayload("utxo1", 0, 100)
	p2 := SigningPayload("utxo1", 0, 200)
	if string(p1) == string(p2) {
		t.Error("expected differing amounts to produce differing payloads")
	}
}
