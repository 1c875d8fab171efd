package utxo

import (
	"fmt"
	"sync"
)

// Set is the full collection of unspent outputs a node knows about, guarded
// for concurrent access the way the node and network layers share it.
type Set struct {
	mu    sync.RWMutex
	utxos map[string]UTXO
}

// NewSet creates an empty UTXO set.
func NewSet() *Set {
	return &Set{
		utxos: make(map[string]UTXO),
	}
}

// Add inserts a UTXO, keyed by its id.
func (s *Set) Add(u UTXO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.utxos[u.ID()] = u
}

// Remove deletes the UTXO with the given id, if present.
func (s *Set) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.utxos, id)
}

// Get looks up a UTXO by id.
func (s *Set) Get(id string) (UTXO, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.utxos[id]
	return u, ok
}

// Exists reports whether a UTXO id is present.
func (s *Set) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.utxos[id]
	return ok
}

// Size returns the number of tracked UTXOs.
func (s *Set) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.utxos)
}

// TotalValue sums the amount of every tracked UTXO.
func (s *Set) TotalValue() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total uint64
	for _, u := range s.utxos {
		total += u.Amount
	}
	return total
}

// Snapshot returns a copy of the underlying map, taken under the read lock,
// for callers that need to read many entries without holding the set's lock
// for the duration (transaction/block validation).
func (s *Set) Snapshot() map[string]UTXO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]UTXO, len(s.utxos))
	for k, v := range s.utxos {
		out[k] = v
	}
	return out
}

// ApplySpends removes the UTXOs consumed by a set of input ids.
func (s *Set) ApplySpends(inputUTXOIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range inputUTXOIDs {
		delete(s.utxos, id)
	}
}

// ApplyCredits adds the new UTXOs produced by a transaction's outputs.
func (s *Set) ApplyCredits(credits []UTXO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range credits {
		s.utxos[u.ID()] = u
	}
}

// Clear empties the set.
func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.utxos = make(map[string]UTXO)
}

// String renders a short human-readable summary.
func (s *Set) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total uint64
	for _, u := range s.utxos {
		total += u.Amount
	}
	return fmt.Sprintf("UTXOSet{count=%d, total=%d}", len(s.utxos), total)
}
