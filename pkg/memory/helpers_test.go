package memory

import (
	"testing"

	"querycore/pkg/concurrency/transaction"
	"querycore/pkg/primitives"
	"querycore/pkg/tuple"
	"querycore/pkg/types"
)

func usersDesc() *tuple.TupleDescription {
	return tuple.MustTupleDesc(
		[]types.Type{types.IntType, types.StringType},
		[]string{"id", "name"},
	)
}

func userTuple(id int64, name string) *tuple.Tuple {
	return tuple.NewBuilder(usersDesc()).AddInt(id).AddString(name).MustBuild()
}

// newUsersStore returns a store with one empty "users" table.
func newUsersStore(t *testing.T) (*Store, primitives.TableID) {
	t.Helper()
	s := NewStore(nil)
	id, err := s.Tables().AddTable("users", usersDesc())
	if err != nil {
		t.Fatalf("AddTable failed: %v", err)
	}
	return s, id
}

func mustInsert(t *testing.T, s *Store, tx *transaction.TransactionContext, tableID primitives.TableID, tups ...*tuple.Tuple) {
	t.Helper()
	for _, tup := range tups {
		if err := s.InsertTuple(tx, tableID, tup); err != nil {
			t.Fatalf("InsertTuple(%s) failed: %v", tup, err)
		}
	}
}

// scanIDs returns the id column of every live tuple in slot order.
func scanIDs(t *testing.T, s *Store, tableID primitives.TableID) []int64 {
	t.Helper()
	scan, err := s.Scan(tableID)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if err := scan.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer scan.Close()

	var ids []int64
	for {
		hasNext, err := scan.HasNext()
		if err != nil {
			t.Fatalf("HasNext failed: %v", err)
		}
		if !hasNext {
			return ids
		}
		tup, err := scan.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		f, _ := tup.GetField(0)
		ids = append(ids, f.(*types.IntField).Value)
	}
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
