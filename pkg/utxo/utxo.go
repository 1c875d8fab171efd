// Package utxo tracks unspent transaction outputs keyed by their string id.
package utxo

import "fmt"

// UTXO is an unspent output belonging to some prior transaction.
type UTXO struct {
	TxID             string
	OutputIndex      int
	Amount           uint64
	RecipientAddress string
}

// ID returns the canonical UTXO identifier: the owning transaction id with
// the decimal output index appended. Because the index is recovered later
// by reading only the last character of this string, a transaction may
// carry at most MaxOutputsPerTransaction outputs - the format has no
// delimiter between the two fields.
func (u UTXO) ID() string {
	return BuildID(u.TxID, u.OutputIndex)
}

// BuildID concatenates a transaction id and output index into a UTXO id.
func BuildID(txID string, outputIndex int) string {
	return fmt.Sprintf("%s%d", txID, outputIndex)
}

// DecodeID recovers the owning transaction id and output index from a UTXO
// id by reading its last character as a single decimal digit. This only
// works for output indices 0-9; the split point is always the final
// character, never a search for one.
func DecodeID(id string) (txID string, outputIndex int, ok bool) {
	if len(id) < 2 {
		return "", 0, false
	}

	last := id[len(id)-1]
	if last < '0' || last > '9' {
		return "", 0, false
	}

	return id[:len(id)-1], int(last - '0'), true
}

// MaxOutputsPerTransaction is the limit implied by single-digit output-index
// encoding in UTXO ids.
const MaxOutputsPerTransaction = 10
