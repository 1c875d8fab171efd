// Package mempool holds transactions that have been broadcast but not yet
// mined into a block.
package mempool

import (
	"sync"

	"github.com/powsim/powsim/pkg/txn"
)

// Pool is an ordered, deduplicated set of pending transactions. Order is
// insertion order: transactions are pulled into a block in the order they
// arrived, with no fee-based prioritization - this network has no fee
// market to rank by.
type Pool struct {
	mu    sync.RWMutex
	order []*txn.Transaction
	byID  map[string]*txn.Transaction
}

// New creates an empty pool.
func New() *Pool {
	return &Pool{
		byID: make(map[string]*txn.Transaction),
	}
}

// Add inserts tx if its id is not already present. It reports whether the
// transaction was actually added, guarding against the transaction being
// pushed twice into the same pool - once by its originating node and again
// by a broadcast loop that doesn't know it's talking to the sender.
func (p *Pool) Add(tx *txn.Transaction) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byID[tx.ID]; exists {
		return false
	}

	p.byID[tx.ID] = tx
	p.order = append(p.order, tx)
	return true
}

// Remove deletes the transaction with the given id, if present.
func (p *Pool) Remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removeLocked(id)
}

func (p *Pool) removeLocked(id string) {
	if _, exists := p.byID[id]; !exists {
		return
	}
	delete(p.byID, id)
	for i, tx := range p.order {
		if tx.ID == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// RemoveAll deletes every transaction with an id in ids, the usual cleanup
// after those transactions have been mined into a block.
func (p *Pool) RemoveAll(ids []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range ids {
		p.removeLocked(id)
	}
}

// Transactions returns a copy of the pool's contents in insertion order.
func (p *Pool) Transactions() []*txn.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*txn.Transaction, len(p.order))
	copy(out, p.order)
	return out
}

// Has reports whether a transaction with the given id is pending.
func (p *Pool) Has(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.byID[id]
	return ok
}

// Size returns the number of pending transactions.
func (p *Pool) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.order)
}

// Clear empties the pool.
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.order = nil
	p.byID = make(map[string]*txn.Transaction)
}
