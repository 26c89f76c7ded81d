package memory

import (
	"sync"

	"querycore/pkg/concurrency/transaction"
	dberror "querycore/pkg/error"
	"querycore/pkg/iterator"
	"querycore/pkg/primitives"
	"querycore/pkg/tuple"
)

// Store is an in-memory tuple store. It implements the mutation and schema
// interfaces consumed by the Insert and Delete operators and serves full
// table scans. Changes are visible immediately; Abort rolls back the
// changes a transaction made.
type Store struct {
	tables *TableManager
	mutex  sync.RWMutex
	undo   map[int64][]undoEntry
}

// NewStore creates a store over tm. A nil tm gets a fresh TableManager.
func NewStore(tm *TableManager) *Store {
	if tm == nil {
		tm = NewTableManager()
	}
	return &Store{
		tables: tm,
		undo:   make(map[int64][]undoEntry),
	}
}

// Tables returns the store's catalog.
func (s *Store) Tables() *TableManager {
	return s.tables
}

// GetTupleDesc returns the schema of tableID.
func (s *Store) GetTupleDesc(tableID primitives.TableID) (*tuple.TupleDescription, error) {
	return s.tables.GetTupleDesc(tableID)
}

// InsertTuple stores a copy of t in tableID and sets t.RecordID to the new
// tuple's location.
func (s *Store) InsertTuple(tx *transaction.TransactionContext, tableID primitives.TableID, t *tuple.Tuple) error {
	if err := checkActive(tx, "InsertTuple"); err != nil {
		return err
	}
	if t == nil {
		return dberror.IllegalState("InsertTuple", "Store", "tuple cannot be nil")
	}

	info, err := s.tables.getTableInfo(tableID)
	if err != nil {
		return err
	}
	if !info.TupleDesc.Equals(t.TupleDesc) {
		return dberror.SchemaMismatch("InsertTuple", "Store", "tuple schema %s does not match table %s schema %s",
			t.TupleDesc, info.Name, info.TupleDesc)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	rid := info.insert(t)
	t.RecordID = rid
	s.record(tx, undoEntry{table: info, inserted: rid})
	return nil
}

// DeleteTuple removes the tuple located by t.RecordID.
func (s *Store) DeleteTuple(tx *transaction.TransactionContext, t *tuple.Tuple) error {
	if err := checkActive(tx, "DeleteTuple"); err != nil {
		return err
	}
	if t == nil || t.RecordID == nil {
		return dberror.IllegalState("DeleteTuple", "Store", "tuple has no record id")
	}

	info, err := s.tables.getTableInfo(t.RecordID.TableID)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	removed, ok := info.remove(t.RecordID)
	if !ok {
		return dberror.IllegalState("DeleteTuple", "Store", "no tuple at %s", t.RecordID)
	}
	s.record(tx, undoEntry{table: info, deleted: removed})
	return nil
}

// NumTuples returns the number of live tuples in tableID.
func (s *Store) NumTuples(tableID primitives.TableID) (int, error) {
	info, err := s.tables.getTableInfo(tableID)
	if err != nil {
		return 0, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return info.NumTuples(), nil
}

// Scan returns an unopened full scan of tableID outside any transaction.
func (s *Store) Scan(tableID primitives.TableID) (iterator.DbIterator, error) {
	scan, err := NewSeqScan(s, nil, tableID)
	if err != nil {
		return nil, err
	}
	return scan, nil
}

// snapshot copies the live tuples of tableID.
func (s *Store) snapshot(tableID primitives.TableID) ([]*tuple.Tuple, error) {
	info, err := s.tables.getTableInfo(tableID)
	if err != nil {
		return nil, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return info.snapshot(), nil
}

func checkActive(tx *transaction.TransactionContext, operation string) error {
	if tx == nil {
		return dberror.IllegalState(operation, "Store", "transaction cannot be nil")
	}
	if !tx.IsActive() {
		return dberror.TransactionAborted(operation, "Store", "transaction %s is %s", tx.ID, tx.GetStatus())
	}
	return nil
}
