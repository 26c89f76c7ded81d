package transaction

import (
	"fmt"
	"sync"
	"time"
)

// TransactionStatus represents the current state of a transaction
type TransactionStatus int

const (
	TxActive TransactionStatus = iota
	TxCommitted
	TxAborted
)

func (ts TransactionStatus) String() string {
	switch ts {
	case TxActive:
		return "ACTIVE"
	case TxCommitted:
		return "COMMITTED"
	case TxAborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}

type TransactionStats struct {
	TuplesRead    int
	TuplesWritten int
	TuplesDeleted int
}

// TransactionContext is the handle operators carry for the transaction they
// run under. The execution core only reads its status and records statistics;
// lifetime is managed by whoever created it.
type TransactionContext struct {
	ID *TransactionID

	status    TransactionStatus
	startTime time.Time
	endTime   time.Time
	mutex     sync.RWMutex

	tuplesRead    int
	tuplesWritten int
	tuplesDeleted int
}

func NewTransactionContext(tid *TransactionID) *TransactionContext {
	if tid == nil {
		tid = NewTransactionID()
	}
	return &TransactionContext{
		ID:        tid,
		status:    TxActive,
		startTime: time.Now(),
	}
}

// IsActive returns true if the transaction is still active
func (tc *TransactionContext) IsActive() bool {
	tc.mutex.RLock()
	defer tc.mutex.RUnlock()
	return tc.status == TxActive
}

func (tc *TransactionContext) GetStatus() TransactionStatus {
	tc.mutex.RLock()
	defer tc.mutex.RUnlock()
	return tc.status
}

// Commit marks the transaction committed. Only an active transaction can commit.
func (tc *TransactionContext) Commit() error {
	return tc.finish(TxCommitted)
}

// Abort marks the transaction aborted. Only an active transaction can abort.
func (tc *TransactionContext) Abort() error {
	return tc.finish(TxAborted)
}

func (tc *TransactionContext) finish(status TransactionStatus) error {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	if tc.status != TxActive {
		return fmt.Errorf("transaction %s is %s", tc.ID, tc.status)
	}
	tc.status = status
	tc.endTime = time.Now()
	return nil
}

// RecordTupleRead increments the tuples read counter
func (tc *TransactionContext) RecordTupleRead() {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()
	tc.tuplesRead++
}

// RecordTupleWrite increments the tuples written counter
func (tc *TransactionContext) RecordTupleWrite() {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()
	tc.tuplesWritten++
}

// RecordTupleDelete increments the tuples deleted counter
func (tc *TransactionContext) RecordTupleDelete() {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()
	tc.tuplesDeleted++
}

// GetStatistics returns a snapshot of transaction statistics
func (tc *TransactionContext) GetStatistics() TransactionStats {
	tc.mutex.RLock()
	defer tc.mutex.RUnlock()

	return TransactionStats{
		TuplesRead:    tc.tuplesRead,
		TuplesWritten: tc.tuplesWritten,
		TuplesDeleted: tc.tuplesDeleted,
	}
}

// Duration returns how long the transaction has been running
func (tc *TransactionContext) Duration() time.Duration {
	tc.mutex.RLock()
	defer tc.mutex.RUnlock()
	return tc.durationLocked()
}

func (tc *TransactionContext) durationLocked() time.Duration {
	endTime := tc.endTime
	if endTime.IsZero() {
		endTime = time.Now()
	}
	return endTime.Sub(tc.startTime)
}

// String returns a string representation of the transaction context
func (tc *TransactionContext) String() string {
	tc.mutex.RLock()
	defer tc.mutex.RUnlock()

	return fmt.Sprintf("Transaction %s [Status=%s, Duration=%v, Written=%d, Deleted=%d]",
		tc.ID.String(), tc.status.String(), tc.durationLocked(),
		tc.tuplesWritten, tc.tuplesDeleted)
}
