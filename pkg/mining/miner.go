// Package mining implements proof-of-work nonce search over a block.
package mining

import (
	"context"
	"errors"
	"time"

	"github.com/powsim/powsim/pkg/block"
)

// ErrAborted is returned when mining is cancelled via context before a
// valid nonce is found. The block passed in is left with whatever nonce and
// hash it carried on entry - mining never commits a partial attempt.
var ErrAborted = errors.New("mining aborted")

// Stats summarizes one mining attempt.
type Stats struct {
	Attempts uint64
	Elapsed  time.Duration
	HashRate float64
}

// Mine searches for a nonce that makes b.Hash satisfy difficulty, mutating
// b.Nonce and b.Hash in place on success. It checks ctx between attempts, so
// an optional cancellation token can stop an otherwise unbounded loop;
// without cancellation the search runs until it succeeds, by design, since
// a miner that gives up without a block would break the chain it feeds.
func Mine(ctx context.Context, b *block.Block, difficulty int) (Stats, error) {
	start := time.Now()
	var attempts uint64

	origNonce, origHash := b.Nonce, b.Hash

	nonce := uint64(0)
	b.Nonce = nonce
	hash := b.CalculateHash()

	for !block.MeetsDifficulty(hash, difficulty) {
		select {
		case <-ctx.Done():
			b.Nonce, b.Hash = origNonce, origHash
			return Stats{Attempts: attempts, Elapsed: time.Since(start)}, ErrAborted
		default:
		}

		nonce++
		b.Nonce = nonce
		hash = b.CalculateHash()
		attempts++
	}
	b.Hash = hash

	elapsed := time.Since(start)
	stats := Stats{Attempts: attempts, Elapsed: elapsed}
	if elapsed > 0 {
		stats.HashRate = float64(attempts) / elapsed.Seconds()
	}
	return stats, nil
}
