package consensus

import (
	"context"
	"strings"
	"testing"

	"github.com/powsim/powsim/pkg/block"
	"github.com/powsim/powsim/pkg/mining"
	"github.com/powsim/powsim/pkg/txn"
)

func mineGenesis(t *testing.T) *block.Block {
	t.Helper()
	tx, err := txn.NewCoinbase("addr", 100, 1000)
	if err != nil {
		t.Fatal(err)
	}
	b := block.New(0, 1000, []*txn.Transaction{tx}, "0")
	if _, err := mining.Mine(context.Background(), b, 1); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestValidateSelfAcceptsMinedBlock(t *testing.T) {
	b := mineGenesis(t)
	if err := ValidateSelf(b, 1); err != nil {
		t.Errorf("expected a properly mined block to validate, got %v", err)
	}
}

func TestValidateSelfRejectsTamperedHash(t *testing.T) {
	b := mineGenesis(t)
	// Still meets difficulty 1, so only the recompute check can catch it.
	b.Hash = "0" + strings.Repeat("f", 63)
	if err := ValidateSelf(b, 1); err == nil {
		t.Error("expected tampered hash to be rejected")
	}
}

func TestValidateLinkChecksIndexAndPreviousHash(t *testing.T) {
	genesis := mineGenesis(t)

	tx, err := txn.NewCoinbase("addr", 100, 2000)
	if err != nil {
		t.Fatal(err)
	}
	next := block.New(genesis.Index+1, 2000, []*txn.Transaction{tx}, genesis.Hash)
	if _, err := mining.Mine(context.Background(), next, 1); err != nil {
		t.Fatal(err)
	}

	if err := ValidateLink(genesis, next, 1); err != nil {
		t.Errorf("expected valid link, got %v", err)
	}

	wrongIndex := block.New(genesis.Index+2, 2000, []*txn.Transaction{tx}, genesis.Hash)
	if _, err := mining.Mine(context.Background(), wrongIndex, 1); err != nil {
		t.Fatal(err)
	}
	if err := ValidateLink(genesis, wrongIndex, 1); err == nil {
		t.Error("expected index mismatch to be rejected")
	}
}
