package monitoring

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics collects simulation-wide counters, shared across every node in
// the network.
type Metrics struct {
	mu sync.RWMutex

	blocksMined     uint64
	blockMiningTime time.Duration
	avgBlockTime    time.Duration

	txCreated  uint64
	txRejected uint64

	nodeCount      int32
	validatorCount int32

	mempoolSize int32
	utxoSetSize uint64

	manipulationAttempts  uint64
	manipulationsRejected uint64
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordBlockMined records a successfully mined block and its mining time.
func (m *Metrics) RecordBlockMined(miningTime time.Duration) {
	n := atomic.AddUint64(&m.blocksMined, 1)

	m.mu.Lock()
	m.blockMiningTime += miningTime
	m.avgBlockTime = m.blockMiningTime / time.Duration(n)
	m.mu.Unlock()
}

// GetBlocksMined returns the total number of blocks mined.
func (m *Metrics) GetBlocksMined() uint64 {
	return atomic.LoadUint64(&m.blocksMined)
}

// GetAvgBlockMiningTime returns the average time spent mining a block.
func (m *Metrics) GetAvgBlockMiningTime() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.avgBlockTime
}

// RecordTxCreated records a transaction accepted into the network.
func (m *Metrics) RecordTxCreated() {
	atomic.AddUint64(&m.txCreated, 1)
}

// RecordTxRejected records a transaction that failed validation.
func (m *Metrics) RecordTxRejected() {
	atomic.AddUint64(&m.txRejected, 1)
}

// GetTxCreated returns the total number of accepted transactions.
func (m *Metrics) GetTxCreated() uint64 {
	return atomic.LoadUint64(&m.txCreated)
}

// GetTxRejected returns the total number of rejected transactions.
func (m *Metrics) GetTxRejected() uint64 {
	return atomic.LoadUint64(&m.txRejected)
}

// SetNodeCount sets the current number of nodes in the network.
func (m *Metrics) SetNodeCount(count int) {
	atomic.StoreInt32(&m.nodeCount, int32(count))
}

// GetNodeCount returns the current number of nodes.
func (m *Metrics) GetNodeCount() int {
	return int(atomic.LoadInt32(&m.nodeCount))
}

// SetValidatorCount sets the current number of nodes acting as validator.
// This should only ever be 0 or 1 under the single-validator invariant.
func (m *Metrics) SetValidatorCount(count int) {
	atomic.StoreInt32(&m.validatorCount, int32(count))
}

// GetValidatorCount returns the current validator count.
func (m *Metrics) GetValidatorCount() int {
	return int(atomic.LoadInt32(&m.validatorCount))
}

// SetMempoolSize sets the current network-level mempool size.
func (m *Metrics) SetMempoolSize(size int) {
	atomic.StoreInt32(&m.mempoolSize, int32(size))
}

// GetMempoolSize returns the current network-level mempool size.
func (m *Metrics) GetMempoolSize() int {
	return int(atomic.LoadInt32(&m.mempoolSize))
}

// SetUTXOSetSize sets the validator's UTXO set size after the last block.
func (m *Metrics) SetUTXOSetSize(size uint64) {
	atomic.StoreUint64(&m.utxoSetSize, size)
}

// GetUTXOSetSize returns the last recorded UTXO set size.
func (m *Metrics) GetUTXOSetSize() uint64 {
	return atomic.LoadUint64(&m.utxoSetSize)
}

// RecordManipulationAttempt records an attempted chain manipulation and
// whether the network's honest majority rejected it.
func (m *Metrics) RecordManipulationAttempt(rejected bool) {
	atomic.AddUint64(&m.manipulationAttempts, 1)
	if rejected {
		atomic.AddUint64(&m.manipulationsRejected, 1)
	}
}

// GetManipulationAttempts returns the total number of manipulation attempts.
func (m *Metrics) GetManipulationAttempts() uint64 {
	return atomic.LoadUint64(&m.manipulationAttempts)
}

// GetManipulationsRejected returns how many of those attempts were rejected.
func (m *Metrics) GetManipulationsRejected() uint64 {
	return atomic.LoadUint64(&m.manipulationsRejected)
}

// Summary returns a metrics summary suitable for logging or display.
func (m *Metrics) Summary() map[string]interface{} {
	return map[string]interface{}{
		"blocks_mined":             m.GetBlocksMined(),
		"avg_block_mining_time_ms": m.GetAvgBlockMiningTime().Milliseconds(),
		"tx_created":               m.GetTxCreated(),
		"tx_rejected":              m.GetTxRejected(),
		"node_count":               m.GetNodeCount(),
		"validator_count":          m.GetValidatorCount(),
		"mempool_size":             m.GetMempoolSize(),
		"utxo_set_size":            m.GetUTXOSetSize(),
		"manipulation_attempts":    m.GetManipulationAttempts(),
		"manipulations_rejected":   m.GetManipulationsRejected(),
	}
}

// Global metrics instance
var globalMetrics = NewMetrics()

// GetGlobalMetrics returns the global metrics instance.
func GetGlobalMetrics() *Metrics {
	return globalMetrics
}
