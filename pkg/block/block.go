// Package block defines the proof-of-work block, its hash and the difficulty
// check; the nonce search lives in pkg/mining.
package block

import (
	"fmt"
	"strings"

	"github.com/powsim/powsim/pkg/crypto"
	"github.com/powsim/powsim/pkg/txn"
)

// Block is a single link in a node's chain: an ordered set of transactions
// (coinbase first) committed under a Merkle root and sealed by a
// proof-of-work hash.
type Block struct {
	Index        uint64
	Timestamp    int64
	Transactions []*txn.Transaction
	PreviousHash string
	MerkleRoot   string
	Nonce        uint64
	Hash         string
}

// New builds a block with its Merkle root computed but not yet mined - Hash
// is left at whatever Nonce(0) produces until Mine is called.
func New(index uint64, timestamp int64, transactions []*txn.Transaction, previousHash string) *Block {
	b := &Block{
		Index:        index,
		Timestamp:    timestamp,
		Transactions: transactions,
		PreviousHash: previousHash,
	}
	b.MerkleRoot = b.computeMerkleRoot()
	b.Hash = b.CalculateHash()
	return b
}

func (b *Block) computeMerkleRoot() string {
	ids := make([]string, len(b.Transactions))
	for i, tx := range b.Transactions {
		ids[i] = tx.ID
	}
	return crypto.MerkleRoot(ids)
}

// CalculateHash reproduces the block's content hash from its header fields:
// index, timestamp, Merkle root, previous hash and nonce, concatenated and
// hashed once with SHA-256.
func (b *Block) CalculateHash() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d%d%s%s%d", b.Index, b.Timestamp, b.MerkleRoot, b.PreviousHash, b.Nonce)
	return crypto.HexDigest([]byte(sb.String()))
}

// MeetsDifficulty reports whether a hash starts with the required number of
// leading '0' hex characters.
func MeetsDifficulty(hash string, difficulty int) bool {
	if len(hash) < difficulty {
		return false
	}
	return strings.Count(hash[:difficulty], "0") == difficulty
}

// String renders a short summary, in the teacher's Printf-heavy style.
func (b *Block) String() string {
	return fmt.Sprintf("Block #%d [prev=%s hash=%s txs=%d]", b.Index, short(b.PreviousHash), short(b.Hash), len(b.Transactions))
}

func short(hash string) string {
	if len(hash) <= 10 {
		return hash
	}
	return hash[:10]
}
