package memory

import (
	"fmt"

	"querycore/pkg/concurrency/transaction"
	dberror "querycore/pkg/error"
	"querycore/pkg/iterator"
	"querycore/pkg/primitives"
	"querycore/pkg/tuple"
)

// SequentialScan iterates over every live tuple of a table in slot order.
// It reads a snapshot taken at Open; Rewind replays the same snapshot.
type SequentialScan struct {
	base      *iterator.BaseIterator
	store     *Store
	tx        *transaction.TransactionContext
	tableID   primitives.TableID
	tupleDesc *tuple.TupleDescription
	tuples    []*tuple.Tuple
	pos       int
}

// NewSeqScan creates a sequential scan over tableID. tx may be nil for scans
// outside a transaction, such as statistics collection.
func NewSeqScan(store *Store, tx *transaction.TransactionContext, tableID primitives.TableID) (*SequentialScan, error) {
	if store == nil {
		return nil, dberror.IllegalState("NewSeqScan", "SequentialScan", "store cannot be nil")
	}

	tupleDesc, err := store.GetTupleDesc(tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tuple desc for table %d: %w", tableID, err)
	}

	ss := &SequentialScan{
		store:     store,
		tx:        tx,
		tableID:   tableID,
		tupleDesc: tupleDesc,
	}
	ss.base = iterator.NewBaseIterator(ss.readNext)
	return ss, nil
}

// Open snapshots the table's live tuples.
func (ss *SequentialScan) Open() error {
	if ss.base.IsOpen() {
		return dberror.IllegalState("Open", "SequentialScan", "iterator already opened")
	}

	tuples, err := ss.store.snapshot(ss.tableID)
	if err != nil {
		return fmt.Errorf("failed to scan table %d: %w", ss.tableID, err)
	}

	ss.tuples = tuples
	ss.pos = 0
	ss.base.MarkOpened()
	return nil
}

func (ss *SequentialScan) readNext() (*tuple.Tuple, error) {
	if ss.pos >= len(ss.tuples) {
		return nil, nil
	}

	t := ss.tuples[ss.pos]
	ss.pos++
	if ss.tx != nil {
		ss.tx.RecordTupleRead()
	}
	return t, nil
}

func (ss *SequentialScan) HasNext() (bool, error) {
	return ss.base.HasNext()
}

func (ss *SequentialScan) Next() (*tuple.Tuple, error) {
	return ss.base.Next()
}

func (ss *SequentialScan) Rewind() error {
	if err := ss.base.Rewind(); err != nil {
		return err
	}
	ss.pos = 0
	return nil
}

func (ss *SequentialScan) Close() error {
	if err := ss.base.Close(); err != nil {
		return err
	}
	ss.tuples = nil
	return nil
}

func (ss *SequentialScan) GetTupleDesc() *tuple.TupleDescription {
	return ss.tupleDesc
}

// TableID returns the scanned table.
func (ss *SequentialScan) TableID() primitives.TableID {
	return ss.tableID
}

func (ss *SequentialScan) Children() []iterator.DbIterator {
	return nil
}

func (ss *SequentialScan) SetChildren(children []iterator.DbIterator) error {
	if len(children) != 0 {
		return dberror.IllegalState("SetChildren", "SequentialScan", "leaf iterator takes no children, got %d", len(children))
	}
	return nil
}

var _ iterator.DbIterator = (*SequentialScan)(nil)
