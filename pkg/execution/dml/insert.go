package dml

import (
	"context"
	"fmt"

	"querycore/pkg/concurrency/transaction"
	dberror "querycore/pkg/error"
	"querycore/pkg/iterator"
	"querycore/pkg/primitives"
	"querycore/pkg/tuple"
)

// InsertOperator inserts every tuple of its child into a table and emits
// the number of inserted rows.
type InsertOperator struct {
	*mutationOperator
	tableID   primitives.TableID
	store     TupleInserter
	tableDesc *tuple.TupleDescription
}

// NewInsertOperator creates an insert of child's tuples into tableID.
//
// Returns ILLEGAL_STATE for a nil transaction, child, store or catalog, and
// SCHEMA_MISMATCH when the child's schema differs from the table's.
func NewInsertOperator(
	tx *transaction.TransactionContext,
	child iterator.DbIterator,
	tableID primitives.TableID,
	store TupleInserter,
	catalog SchemaCatalog,
	opts ...Option,
) (*InsertOperator, error) {
	if store == nil {
		return nil, dberror.IllegalState("NewInsertOperator", "Insert", "tuple store cannot be nil")
	}
	if catalog == nil {
		return nil, dberror.IllegalState("NewInsertOperator", "Insert", "catalog cannot be nil")
	}

	base, err := newMutationOperator("insert", "inserted", tx, child, opts)
	if err != nil {
		return nil, err
	}

	tableDesc, err := catalog.GetTupleDesc(tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve schema of table %s: %w", tableID, err)
	}

	op := &InsertOperator{
		mutationOperator: base,
		tableID:          tableID,
		store:            store,
		tableDesc:        tableDesc,
	}
	if err := op.checkSchema(child.GetTupleDesc()); err != nil {
		return nil, err
	}

	base.attrs = append(base.attrs, "table_id", uint64(tableID))
	base.apply = op.insert
	base.record = func(ctx context.Context, n int64) {
		base.opts.metrics.RowsInserted(ctx, tableID, n)
	}
	return op, nil
}

func (op *InsertOperator) checkSchema(childDesc *tuple.TupleDescription) error {
	if !op.tableDesc.Equals(childDesc) {
		return dberror.SchemaMismatch("NewInsertOperator", "Insert",
			"child schema %s does not match table %s schema %s", childDesc, op.tableID, op.tableDesc)
	}
	return nil
}

func (op *InsertOperator) insert(t *tuple.Tuple) error {
	if err := op.store.InsertTuple(op.tx, op.tableID, t); err != nil {
		return err
	}
	op.tx.RecordTupleWrite()
	return nil
}

// TableID returns the target table.
func (op *InsertOperator) TableID() primitives.TableID {
	return op.tableID
}

// SetChildren replaces the child. The new child must match the table schema.
func (op *InsertOperator) SetChildren(children []iterator.DbIterator) error {
	if !op.IsOpen() && len(children) == 1 && children[0] != nil {
		if err := op.checkSchema(children[0].GetTupleDesc()); err != nil {
			return err
		}
	}
	return op.UnaryOperator.SetChildren(children)
}
