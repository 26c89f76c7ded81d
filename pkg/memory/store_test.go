package memory

import (
	"errors"
	"testing"

	"querycore/pkg/concurrency/transaction"
	dberror "querycore/pkg/error"
	"querycore/pkg/primitives"
	"querycore/pkg/tuple"
	"querycore/pkg/types"
)

func TestStore_InsertAssignsRecordIDs(t *testing.T) {
	s, tableID := newUsersStore(t)
	tx := transaction.NewTransactionContext(nil)

	first := userTuple(1, "ada")
	second := userTuple(2, "grace")
	mustInsert(t, s, tx, tableID, first, second)

	if !first.RecordID.Equals(tuple.NewRecordID(tableID, 0)) {
		t.Errorf("first RecordID = %s", first.RecordID)
	}
	if !second.RecordID.Equals(tuple.NewRecordID(tableID, 1)) {
		t.Errorf("second RecordID = %s", second.RecordID)
	}
	if n, _ := s.NumTuples(tableID); n != 2 {
		t.Errorf("NumTuples() = %d, want 2", n)
	}
}

func TestStore_InsertStoresCopy(t *testing.T) {
	s, tableID := newUsersStore(t)
	tx := transaction.NewTransactionContext(nil)

	tup := userTuple(1, "ada")
	mustInsert(t, s, tx, tableID, tup)
	if err := tup.SetField(0, types.NewIntField(42)); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}

	if got := scanIDs(t, s, tableID); !equalIDs(got, []int64{1}) {
		t.Errorf("stored tuple changed with caller's copy: %v", got)
	}
}

func TestStore_InsertErrors(t *testing.T) {
	s, tableID := newUsersStore(t)
	intOnly := tuple.MustTupleDesc([]types.Type{types.IntType}, nil)

	committed := transaction.NewTransactionContext(nil)
	if err := committed.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	tests := []struct {
		name    string
		tx      *transaction.TransactionContext
		tableID primitives.TableID
		tup     *tuple.Tuple
		want    error
	}{
		{
			name:    "inactive transaction",
			tx:      committed,
			tableID: tableID,
			tup:     userTuple(1, "ada"),
			want:    dberror.ErrTransactionAborted,
		},
		{
			name:    "nil transaction",
			tableID: tableID,
			tup:     userTuple(1, "ada"),
			want:    dberror.ErrIllegalState,
		},
		{
			name:    "unknown table",
			tx:      transaction.NewTransactionContext(nil),
			tableID: 999,
			tup:     userTuple(1, "ada"),
			want:    dberror.ErrIllegalState,
		},
		{
			name:    "schema mismatch",
			tx:      transaction.NewTransactionContext(nil),
			tableID: tableID,
			tup:     tuple.NewBuilder(intOnly).AddInt(1).MustBuild(),
			want:    dberror.ErrSchemaMismatch,
		},
		{
			name:    "nil tuple",
			tx:      transaction.NewTransactionContext(nil),
			tableID: tableID,
			want:    dberror.ErrIllegalState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.InsertTuple(tt.tx, tt.tableID, tt.tup)
			if !errors.Is(err, tt.want) {
				t.Errorf("InsertTuple() error = %v, want %v", err, tt.want)
			}
		})
	}

	if n, _ := s.NumTuples(tableID); n != 0 {
		t.Errorf("rejected inserts left %d tuples", n)
	}
}

func TestStore_DeleteTuple(t *testing.T) {
	s, tableID := newUsersStore(t)
	tx := transaction.NewTransactionContext(nil)

	a, b, c := userTuple(1, "a"), userTuple(2, "b"), userTuple(3, "c")
	mustInsert(t, s, tx, tableID, a, b, c)

	if err := s.DeleteTuple(tx, b); err != nil {
		t.Fatalf("DeleteTuple failed: %v", err)
	}
	if got := scanIDs(t, s, tableID); !equalIDs(got, []int64{1, 3}) {
		t.Errorf("after delete scan = %v", got)
	}

	if err := s.DeleteTuple(tx, b); !errors.Is(err, dberror.ErrIllegalState) {
		t.Errorf("second delete error = %v, want ILLEGAL_STATE", err)
	}
	if err := s.DeleteTuple(tx, userTuple(9, "x")); !errors.Is(err, dberror.ErrIllegalState) {
		t.Errorf("delete without RecordID error = %v, want ILLEGAL_STATE", err)
	}

	d := userTuple(4, "d")
	mustInsert(t, s, tx, tableID, d)
	if d.RecordID.Slot != 3 {
		t.Errorf("deleted slot was reused: new tuple at slot %d", d.RecordID.Slot)
	}
}

func TestStore_AbortRollsBack(t *testing.T) {
	s, tableID := newUsersStore(t)

	setup := transaction.NewTransactionContext(nil)
	a, b := userTuple(1, "a"), userTuple(2, "b")
	mustInsert(t, s, setup, tableID, a, b)
	if err := s.Commit(setup); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	tx := transaction.NewTransactionContext(nil)
	mustInsert(t, s, tx, tableID, userTuple(3, "c"))
	if err := s.DeleteTuple(tx, a); err != nil {
		t.Fatalf("DeleteTuple failed: %v", err)
	}
	if got := scanIDs(t, s, tableID); !equalIDs(got, []int64{2, 3}) {
		t.Fatalf("uncommitted changes not visible: %v", got)
	}

	if err := s.Abort(tx); err != nil {
		t.Fatalf("Abort failed: %v", err)
	}
	if tx.GetStatus() != transaction.TxAborted {
		t.Errorf("status = %s, want ABORTED", tx.GetStatus())
	}
	if got := scanIDs(t, s, tableID); !equalIDs(got, []int64{1, 2}) {
		t.Errorf("after abort scan = %v, want [1 2]", got)
	}
}

func TestStore_AbortAfterExternalAbort(t *testing.T) {
	s, tableID := newUsersStore(t)
	tx := transaction.NewTransactionContext(nil)
	mustInsert(t, s, tx, tableID, userTuple(1, "a"))

	if err := tx.Abort(); err != nil {
		t.Fatalf("tx.Abort failed: %v", err)
	}
	if err := s.Abort(tx); err != nil {
		t.Fatalf("Store.Abort failed: %v", err)
	}
	if n, _ := s.NumTuples(tableID); n != 0 {
		t.Errorf("expected rollback, %d tuples remain", n)
	}
}

func TestStore_CommitKeepsChanges(t *testing.T) {
	s, tableID := newUsersStore(t)
	tx := transaction.NewTransactionContext(nil)
	mustInsert(t, s, tx, tableID, userTuple(1, "a"))

	if err := s.Commit(tx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if err := s.Commit(tx); !errors.Is(err, dberror.ErrTransactionAborted) {
		t.Errorf("second Commit error = %v, want TRANSACTION_ABORTED", err)
	}
	if err := s.Abort(tx); err == nil {
		t.Error("expected error aborting a committed transaction")
	}
	if got := scanIDs(t, s, tableID); !equalIDs(got, []int64{1}) {
		t.Errorf("committed insert lost: %v", got)
	}
}
