package dml

import (
	"querycore/pkg/concurrency/transaction"
	dberror "querycore/pkg/error"
	"querycore/pkg/iterator"
	"querycore/pkg/tuple"
)

// DeleteOperator deletes every tuple of its child and emits the number of
// deleted rows. Tuples are located by their RecordID.
type DeleteOperator struct {
	*mutationOperator
	store TupleDeleter
}

// NewDeleteOperator creates a delete of child's tuples.
//
// Returns ILLEGAL_STATE for a nil transaction, child or store.
func NewDeleteOperator(tx *transaction.TransactionContext, child iterator.DbIterator, store TupleDeleter, opts ...Option) (*DeleteOperator, error) {
	if store == nil {
		return nil, dberror.IllegalState("NewDeleteOperator", "Delete", "tuple store cannot be nil")
	}

	base, err := newMutationOperator("delete", "deleted", tx, child, opts)
	if err != nil {
		return nil, err
	}

	op := &DeleteOperator{
		mutationOperator: base,
		store:            store,
	}
	base.apply = op.delete
	base.record = base.opts.metrics.RowsDeleted
	return op, nil
}

func (op *DeleteOperator) delete(t *tuple.Tuple) error {
	if err := op.store.DeleteTuple(op.tx, t); err != nil {
		return err
	}
	op.tx.RecordTupleDelete()
	return nil
}

var (
	_ iterator.DbIterator = (*InsertOperator)(nil)
	_ iterator.DbIterator = (*DeleteOperator)(nil)
)
