package dml

import (
	"querycore/pkg/concurrency/transaction"
	"querycore/pkg/primitives"
	"querycore/pkg/tuple"
)

// TupleInserter adds a tuple to a table under a transaction.
type TupleInserter interface {
	InsertTuple(tx *transaction.TransactionContext, tableID primitives.TableID, t *tuple.Tuple) error
}

// TupleDeleter removes a tuple, located by its RecordID, under a transaction.
type TupleDeleter interface {
	DeleteTuple(tx *transaction.TransactionContext, t *tuple.Tuple) error
}

// SchemaCatalog resolves a table's schema.
type SchemaCatalog interface {
	GetTupleDesc(tableID primitives.TableID) (*tuple.TupleDescription, error)
}
