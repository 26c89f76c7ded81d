package memory

import (
	"querycore/pkg/concurrency/transaction"
	dberror "querycore/pkg/error"
	"querycore/pkg/logging"
	"querycore/pkg/tuple"
)

// undoEntry reverses one change. Exactly one of inserted and deleted is set.
type undoEntry struct {
	table    *TableInfo
	inserted *tuple.RecordID
	deleted  *tuple.Tuple
}

// record appends e to the undo log of tx. Callers hold s.mutex.
func (s *Store) record(tx *transaction.TransactionContext, e undoEntry) {
	id := tx.ID.ID()
	s.undo[id] = append(s.undo[id], e)
}

// Commit finalizes tx and forgets its undo log.
func (s *Store) Commit(tx *transaction.TransactionContext) error {
	return s.finalizeTransaction(tx, true)
}

// Abort rolls back every change tx made, newest first, and marks it aborted.
// A transaction already aborted elsewhere is still rolled back.
func (s *Store) Abort(tx *transaction.TransactionContext) error {
	return s.finalizeTransaction(tx, false)
}

func (s *Store) finalizeTransaction(tx *transaction.TransactionContext, commit bool) error {
	if tx == nil {
		return dberror.IllegalState("finalizeTransaction", "Store", "transaction cannot be nil")
	}
	if commit && !tx.IsActive() {
		return dberror.TransactionAborted("Commit", "Store", "transaction %s is %s", tx.ID, tx.GetStatus())
	}
	if !commit && tx.GetStatus() == transaction.TxCommitted {
		return dberror.IllegalState("Abort", "Store", "transaction %s already committed", tx.ID)
	}

	s.mutex.Lock()
	entries := s.undo[tx.ID.ID()]
	delete(s.undo, tx.ID.ID())
	if !commit {
		for i := len(entries) - 1; i >= 0; i-- {
			entries[i].revert()
		}
	}
	s.mutex.Unlock()

	var err error
	switch {
	case commit:
		err = tx.Commit()
	case tx.GetStatus() == transaction.TxActive:
		err = tx.Abort()
	}
	if err != nil {
		return err
	}

	logger := logging.WithTx(tx.ID.ID())
	if commit {
		logger.Debug("transaction committed", "changes", len(entries))
	} else {
		logger.Info("transaction rolled back", "changes", len(entries))
	}
	return nil
}

func (e undoEntry) revert() {
	if e.inserted != nil {
		e.table.remove(e.inserted)
		return
	}
	e.table.restore(e.deleted)
}
