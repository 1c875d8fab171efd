package txn

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/powsim/powsim/pkg/crypto"
	"github.com/powsim/powsim/pkg/utxo"
)

// TxInput spends a single UTXO.
type TxInput struct {
	UTXOID          string
	UTXOOutputIndex int
	Signature       []byte
	SenderAddress   string
}

// TxOutput credits an address.
type TxOutput struct {
	Amount           uint64
	RecipientAddress string
}

// Transaction moves value from a set of inputs to a set of outputs. A
// transaction with no inputs and at least one output is a coinbase: the
// source of newly minted coins rather than a transfer of existing ones.
type Transaction struct {
	ID        string
	Inputs    []TxInput
	Outputs   []TxOutput
	Timestamp int64
}

// New builds a transaction from the given inputs and outputs, stamping it
// with the given timestamp and computing its id. The caller is responsible for
// signing each input before broadcasting.
func New(inputs []TxInput, outputs []TxOutput, timestamp int64) (*Transaction, error) {
	if len(outputs) > utxo.MaxOutputsPerTransaction {
		return nil, fmt.Errorf("transaction has %d outputs, at most %d are addressable", len(outputs), utxo.MaxOutputsPerTransaction)
	}

	tx := &Transaction{
		Inputs:    inputs,
		Outputs:   outputs,
		Timestamp: timestamp,
	}
	tx.ID = tx.calculateHash()
	return tx, nil
}

// NewCoinbase builds the reward-minting transaction that opens a block. Its
// id is the content hash with a random 64-bit nonce appended, so that two
// coinbase transactions paying the same address the same reward in the same
// second never collide.
func NewCoinbase(recipientAddress string, reward uint64, timestamp int64) (*Transaction, error) {
	tx := &Transaction{
		Inputs:    nil,
		Outputs:   []TxOutput{{Amount: reward, RecipientAddress: recipientAddress}},
		Timestamp: timestamp,
	}

	nonce, err := randomUint64()
	if err != nil {
		return nil, fmt.Errorf("coinbase nonce: %w", err)
	}

	tx.ID = fmt.Sprintf("%s%d", tx.calculateHash(), nonce)
	return tx, nil
}

func randomUint64() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

// calculateHash reproduces the exact content hash: each input's UTXO id,
// output index and sender address, each output's amount and recipient, and
// finally the timestamp, all concatenated and hashed once with SHA-256.
func (tx *Transaction) calculateHash() string {
	var b strings.Builder
	for _, in := range tx.Inputs {
		fmt.Fprintf(&b, "%s%d%s", in.UTXOID, in.UTXOOutputIndex, in.SenderAddress)
	}
	for _, out := range tx.Outputs {
		fmt.Fprintf(&b, "%d%s", out.Amount, out.RecipientAddress)
	}
	fmt.Fprintf(&b, "%d", tx.Timestamp)

	return crypto.HexDigest([]byte(b.String()))
}

// IsCoinbase reports whether this transaction mints new coins rather than
// spending existing UTXOs.
func (tx *Transaction) IsCoinbase() bool {
	return len(tx.Inputs) == 0 && len(tx.Outputs) > 0
}

// TotalOutputAmount sums every output's amount.
func (tx *Transaction) TotalOutputAmount() uint64 {
	var total uint64
	for _, out := range tx.Outputs {
		total += out.Amount
	}
	return total
}

// TotalInputAmount sums the amount of every input, looked up by UTXO id
// against the given set. Inputs whose UTXO cannot be found contribute
// nothing, matching the lookup-by-id semantics used elsewhere.
func (tx *Transaction) TotalInputAmount(utxos map[string]utxo.UTXO) uint64 {
	var total uint64
	for _, in := range tx.Inputs {
		if u, ok := utxos[in.UTXOID]; ok {
			total += u.Amount
		}
	}
	return total
}

// IsValid checks a transaction's balance against a UTXO set. A coinbase
// transaction is always valid. Otherwise every input must reference a UTXO
// that still exists, and total output value must not exceed total input
// value - any surplus is simply left unspent (dropped), since this network
// has no fee market to collect it into.
//
// Signatures are deliberately not checked here: a node only holds its own
// private key, never the public keys of its peers, so signature
// verification is an input-existence-and-balance check, nothing more.
func (tx *Transaction) IsValid(utxos map[string]utxo.UTXO) bool {
	if tx.IsCoinbase() {
		return true
	}

	for _, in := range tx.Inputs {
		if _, ok := utxos[in.UTXOID]; !ok {
			return false
		}
	}

	if tx.TotalOutputAmount() > tx.TotalInputAmount(utxos) {
		return false
	}

	return true
}

// SigningPayload builds the bytes an input's signature is computed over:
// the UTXO id being spent, its output index, and the transaction's total
// spend amount (not the UTXO's own amount - every input in a transaction
// signs over the same requested amount).
func SigningPayload(utxoID string, outputIndex int, amount uint64) []byte {
	return []byte(fmt.Sprintf("%s%d%d", utxoID, outputIndex, amount))
}
