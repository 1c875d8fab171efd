package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/powsim/powsim/pkg/txn"
	"github.com/powsim/powsim/pkg/utxo"
)

func TestNewWalletHasZeroBalance(t *testing.T) {
	w, err := New()
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), w.Balance())
	assert.NotEmpty(t, w.Address())
}

func TestAddUTXOIgnoresForeignAddress(t *testing.T) {
	w, err := New()
	assert.NoError(t, err)

	w.AddUTXO(utxo.UTXO{TxID: "tx1", OutputIndex: 0, Amount: 100, RecipientAddress: "someone-else"})
	assert.Equal(t, uint64(0), w.Balance())
}

func TestCreateTransactionFailsWithoutFunds(t *testing.T) {
	w, err := New()
	assert.NoError(t, err)

	_, err = w.CreateTransaction("recipient", 1, 1000)
	assert.Error(t, err)
}

func TestCreateTransactionSpendsAndMakesChange(t *testing.T) {
	w, err := New()
	assert.NoError(t, err)

	w.AddUTXO(utxo.UTXO{TxID: "tx1", OutputIndex: 0, Amount: 1000, RecipientAddress: w.Address()})

	tx, err := w.CreateTransaction("recipient", 400, 1000)
	assert.NoError(t, err)
	assert.Len(t, tx.Inputs, 1)
	assert.Len(t, tx.Outputs, 2)

	total := uint64(0)
	for _, out := range tx.Outputs {
		total += out.Amount
	}
	assert.Equal(t, uint64(1000), total)
}

func TestUpdateUTXOsAppliesSpendsAndCredits(t *testing.T) {
	w, err := New()
	assert.NoError(t, err)

	w.AddUTXO(utxo.UTXO{TxID: "tx1", OutputIndex: 0, Amount: 1000, RecipientAddress: w.Address()})

	tx, err := w.CreateTransaction("recipient", 400, 1000)
	assert.NoError(t, err)

	// Balance stays unchanged until the transaction is confirmed via UpdateUTXOs.
	assert.Equal(t, uint64(1000), w.Balance())

	w.UpdateUTXOs([]*txn.Transaction{tx})
	assert.Equal(t, uint64(600), w.Balance())
}
