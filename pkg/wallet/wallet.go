// Package wallet holds a single keypair, its address and the UTXOs it owns,
// and builds the transactions that spend them.
package wallet

import (
	"fmt"
	"sync"

	"github.com/powsim/powsim/pkg/crypto"
	"github.com/powsim/powsim/pkg/keys"
	"github.com/powsim/powsim/pkg/txn"
	"github.com/powsim/powsim/pkg/utxo"
)

// Wallet is one participant's identity: a single keypair, unlike a
// multi-address keyring. Balance is tracked incrementally alongside the
// UTXO list rather than summed on each read.
type Wallet struct {
	mu         sync.RWMutex
	privateKey *keys.PrivateKey
	publicKey  *keys.PublicKey
	address    string
	balance    uint64
	utxos      []utxo.UTXO
}

// New generates a fresh keypair and derives its address.
func New() (*Wallet, error) {
	priv, err := keys.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate wallet key: %w", err)
	}

	pub := priv.PublicKey()
	return &Wallet{
		privateKey: priv,
		publicKey:  pub,
		address:    pub.Address(),
	}, nil
}

// Address returns the wallet's single address.
func (w *Wallet) Address() string {
	return w.address
}

// PublicKey returns the wallet's public key.
func (w *Wallet) PublicKey() *keys.PublicKey {
	return w.publicKey
}

// Balance returns the total amount across every UTXO this wallet holds.
func (w *Wallet) Balance() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.balance
}

// AddUTXO credits the wallet with u, if it actually belongs to this
// wallet's address.
func (w *Wallet) AddUTXO(u utxo.UTXO) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if u.RecipientAddress != w.address {
		return
	}
	w.balance += u.Amount
	w.utxos = append(w.utxos, u)
}

// RemoveUTXO marks the UTXO for the given transaction id and output index as
// spent, if this wallet is still holding it.
func (w *Wallet) RemoveUTXO(txID string, outputIndex int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.removeUTXOLocked(txID, outputIndex)
}

func (w *Wallet) removeUTXOLocked(txID string, outputIndex int) {
	for i, u := range w.utxos {
		if u.TxID == txID && u.OutputIndex == outputIndex {
			w.balance -= u.Amount
			w.utxos = append(w.utxos[:i], w.utxos[i+1:]...)
			return
		}
	}
}

func (w *Wallet) hasUTXOLocked(txID string, outputIndex int) bool {
	for _, u := range w.utxos {
		if u.TxID == txID && u.OutputIndex == outputIndex {
			return true
		}
	}
	return false
}

// CreateTransaction spends enough of this wallet's UTXOs, in the order they
// were added, to cover amount, sending it to recipientAddress and returning
// any surplus as a change output back to this wallet. It fails if the
// wallet's balance cannot cover amount.
func (w *Wallet) CreateTransaction(recipientAddress string, amount uint64, timestamp int64) (*txn.Transaction, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if amount > w.balance {
		return nil, fmt.Errorf("insufficient balance: have %d, need %d", w.balance, amount)
	}

	var selected []utxo.UTXO
	var selectedAmount uint64
	for _, u := range w.utxos {
		selected = append(selected, u)
		selectedAmount += u.Amount
		if selectedAmount >= amount {
			break
		}
	}

	inputs := make([]txn.TxInput, 0, len(selected))
	for _, u := range selected {
		id := u.ID()
		payload := txn.SigningPayload(id, u.OutputIndex, amount)
		digest := crypto.Digest(payload)
		sig, err := w.privateKey.Sign(digest[:])
		if err != nil {
			return nil, fmt.Errorf("sign input %s: %w", id, err)
		}

		inputs = append(inputs, txn.TxInput{
			UTXOID:          id,
			UTXOOutputIndex: u.OutputIndex,
			Signature:       sig.Serialize(),
			SenderAddress:   w.address,
		})
	}

	outputs := []txn.TxOutput{{Amount: amount, RecipientAddress: recipientAddress}}
	if change := selectedAmount - amount; change > 0 {
		outputs = append(outputs, txn.TxOutput{Amount: change, RecipientAddress: w.address})
	}

	return txn.New(inputs, outputs, timestamp)
}

// UpdateUTXOs applies a batch of confirmed transactions to this wallet's
// UTXO list: spent inputs belonging to this wallet are removed, new outputs
// addressed to this wallet are added. Both checks guard against
// double-application, since a wallet may see the same block more than once.
func (w *Wallet) UpdateUTXOs(transactions []*txn.Transaction) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, tx := range transactions {
		for _, in := range tx.Inputs {
			if in.SenderAddress != w.address {
				continue
			}
			id, outputIndex, ok := utxo.DecodeID(in.UTXOID)
			if !ok {
				continue
			}
			if w.hasUTXOLocked(id, outputIndex) {
				w.removeUTXOLocked(id, outputIndex)
			}
		}

		for i, out := range tx.Outputs {
			if out.RecipientAddress != w.address {
				continue
			}
			if w.hasUTXOLocked(tx.ID, i) {
				continue
			}
			u := utxo.UTXO{
				TxID:             tx.ID,
				OutputIndex:      i,
				Amount:           out.Amount,
				RecipientAddress: w.address,
			}
			w.balance += u.Amount
			w.utxos = append(w.utxos, u)
		}
	}
}
