// Package consensus holds the rules a chain must satisfy to be accepted,
// independent of which node is doing the checking.
package consensus

import (
	"errors"

	"github.com/powsim/powsim/pkg/block"
	"github.com/powsim/powsim/pkg/crypto"
)

var (
	errInvalidIndex           = errors.New("consensus: block index does not follow previous block")
	errInvalidPreviousHash    = errors.New("consensus: previous hash does not match")
	errInvalidHash            = errors.New("consensus: stored hash does not match recomputed hash")
	errInsufficientProofOfWork = errors.New("consensus: hash does not meet difficulty target")
	errInvalidMerkleRoot      = errors.New("consensus: merkle root does not match transactions")
	errMissingCoinbase        = errors.New("consensus: first transaction in a non-empty block must be a coinbase")
)

// Params are the network-wide constants every node validates against. There
// is no retargeting here - Difficulty and MiningReward are fixed for the
// life of the network, unlike Bitcoin's halving schedule and epoch-based
// difficulty adjustment.
type Params struct {
	Difficulty   int
	MiningReward uint64
}

// DefaultParams mirrors the reference implementation's defaults.
func DefaultParams() Params {
	return Params{
		Difficulty:   2,
		MiningReward: 50 * 100_000_000,
	}
}

// ValidateLink checks that candidate correctly extends prev: sequential
// index, matching previous-hash pointer, a self-consistent content hash, a
// proof-of-work hash meeting difficulty, and a Merkle root that matches the
// block's own transaction list.
func ValidateLink(prev, candidate *block.Block, difficulty int) error {
	if candidate.Index != prev.Index+1 {
		return errInvalidIndex
	}
	if candidate.PreviousHash != prev.Hash {
		return errInvalidPreviousHash
	}
	return ValidateSelf(candidate, difficulty)
}

// ValidateSelf checks a block's internal consistency: its stored hash must
// match a freshly recomputed one, that hash must meet the difficulty
// target, and the Merkle root must match the block's transactions. It does
// not check linkage to a previous block - see ValidateLink for that.
func ValidateSelf(b *block.Block, difficulty int) error {
	if b.Hash != b.CalculateHash() {
		return errInvalidHash
	}
	if !block.MeetsDifficulty(b.Hash, difficulty) {
		return errInsufficientProofOfWork
	}

	ids := make([]string, len(b.Transactions))
	for i, tx := range b.Transactions {
		ids[i] = tx.ID
	}
	if got := crypto.MerkleRoot(ids); b.MerkleRoot != got {
		return errInvalidMerkleRoot
	}

	if len(b.Transactions) > 0 && !b.Transactions[0].IsCoinbase() {
		return errMissingCoinbase
	}

	return nil
}
