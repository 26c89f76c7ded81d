package main

import (
	"errors"
	"testing"

	"querycore/pkg/concurrency/transaction"
	dberror "querycore/pkg/error"
	"querycore/pkg/memory"
	"querycore/pkg/tuple"
	"querycore/pkg/types"
)

func newOrdersStore(t *testing.T) (*memory.Store, *tuple.TupleDescription) {
	t.Helper()
	store := memory.NewStore(nil)
	desc := tuple.MustTupleDesc([]types.Type{types.StringType, types.IntType}, []string{"customer", "amount"})
	if _, err := store.Tables().AddTable("orders", desc); err != nil {
		t.Fatalf("AddTable: %v", err)
	}
	return store, desc
}

func TestRunInTx(t *testing.T) {
	fnErr := errors.New("drain failed")

	tests := []struct {
		name       string
		fn         func(tx *transaction.TransactionContext) error
		wantErr    error
		wantStatus transaction.TransactionStatus
		wantRows   int
	}{
		{
			name:       "success commits",
			fn:         func(*transaction.TransactionContext) error { return nil },
			wantStatus: transaction.TxCommitted,
			wantRows:   1,
		},
		{
			name:       "failure rolls back",
			fn:         func(*transaction.TransactionContext) error { return fnErr },
			wantErr:    fnErr,
			wantStatus: transaction.TxAborted,
		},
		{
			name:       "commit failure is returned",
			fn:         func(tx *transaction.TransactionContext) error { return tx.Abort() },
			wantErr:    dberror.ErrTransactionAborted,
			wantStatus: transaction.TxAborted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, desc := newOrdersStore(t)
			tableID, _ := store.Tables().GetTableID("orders")

			var seen *transaction.TransactionContext
			err := runInTx(store, func(tx *transaction.TransactionContext) error {
				seen = tx
				row := tuple.NewBuilder(desc).AddString("alice").AddInt(10).MustBuild()
				if err := store.InsertTuple(tx, tableID, row); err != nil {
					t.Fatalf("InsertTuple: %v", err)
				}
				return tt.fn(tx)
			})

			if tt.wantErr == nil && err != nil {
				t.Fatalf("runInTx() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("runInTx() error = %v, want %v", err, tt.wantErr)
			}
			if got := seen.GetStatus(); got != tt.wantStatus {
				t.Errorf("status = %s, want %s", got, tt.wantStatus)
			}
			if n, _ := store.NumTuples(tableID); n != tt.wantRows {
				t.Errorf("rows = %d, want %d", n, tt.wantRows)
			}
		})
	}
}
