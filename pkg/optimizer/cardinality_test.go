package optimizer

import (
	"context"
	"testing"

	"querycore/pkg/concurrency/transaction"
	"querycore/pkg/execution"
	"querycore/pkg/execution/aggregation"
	"querycore/pkg/execution/dml"
	"querycore/pkg/iterator"
	"querycore/pkg/memory"
	"querycore/pkg/optimizer/statistics"
	"querycore/pkg/primitives"
	"querycore/pkg/tuple"
	"querycore/pkg/types"
)

func numbersDesc() *tuple.TupleDescription {
	return tuple.MustTupleDesc([]types.Type{types.IntType, types.IntType}, []string{"n", "bucket"})
}

// newNumbersStore loads rows (n, n%7) for n in 1..100 and collects their statistics.
func newNumbersStore(t *testing.T) (*memory.Store, primitives.TableID, *CardinalityEstimator) {
	t.Helper()
	store := memory.NewStore(nil)
	tableID, err := store.Tables().AddTable("numbers", numbersDesc())
	if err != nil {
		t.Fatalf("AddTable: %v", err)
	}

	tx := transaction.NewTransactionContext(nil)
	for n := int64(1); n <= 100; n++ {
		row := tuple.NewBuilder(numbersDesc()).AddInt(n).AddInt(n % 7).MustBuild()
		if err := store.InsertTuple(tx, tableID, row); err != nil {
			t.Fatalf("InsertTuple: %v", err)
		}
	}
	if err := store.Commit(tx); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	stats, err := statistics.NewCollector(store, statistics.CollectorConfig{Buckets: 10}).
		Collect(context.Background(), []primitives.TableID{tableID})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	reg, err := statistics.NewRegistry(stats, statistics.DefaultRegistryConfig())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	t.Cleanup(reg.Close)

	return store, tableID, NewCardinalityEstimator(NewSelectivityEstimator(reg))
}

func TestCardinality_OperatorTree(t *testing.T) {
	store, tableID, ce := newNumbersStore(t)

	scan := func() iterator.DbIterator {
		s, err := memory.NewSeqScan(store, nil, tableID)
		if err != nil {
			t.Fatalf("NewSeqScan: %v", err)
		}
		return s
	}
	filter := func(child iterator.DbIterator, op primitives.Predicate, v int64) iterator.DbIterator {
		pred, err := execution.NewPredicate(0, op, types.NewIntField(v))
		if err != nil {
			t.Fatalf("NewPredicate: %v", err)
		}
		f, err := execution.NewFilter(pred, child)
		if err != nil {
			t.Fatalf("NewFilter: %v", err)
		}
		return f
	}
	aggregate := func(child iterator.DbIterator, gField primitives.ColumnID) iterator.DbIterator {
		a, err := aggregation.NewAggregateOperator(child, 0, gField, aggregation.Count)
		if err != nil {
			t.Fatalf("NewAggregateOperator: %v", err)
		}
		return a
	}

	tests := []struct {
		name     string
		op       iterator.DbIterator
		min, max int64
	}{
		{"full scan", scan(), 100, 100},
		{"range filter", filter(scan(), primitives.LessThan, 50), 45, 52},
		{"stacked filters", filter(filter(scan(), primitives.LessThan, 50), primitives.GreaterThan, 200), 0, 0},
		{"grouped aggregate", aggregate(scan(), 1), 10, 10},
		{"ungrouped aggregate", aggregate(filter(scan(), primitives.LessThan, 50), aggregation.NoGrouping), 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ce.EstimateCardinality(tt.op)
			if got < tt.min || got > tt.max {
				t.Errorf("EstimateCardinality() = %d, want in [%d, %d]", got, tt.min, tt.max)
			}
		})
	}
}

func TestCardinality_WithoutStatistics(t *testing.T) {
	ce := NewCardinalityEstimator(nil)

	rows := make([]*tuple.Tuple, 30)
	for i := range rows {
		rows[i] = tuple.NewBuilder(numbersDesc()).AddInt(int64(i)).AddInt(0).MustBuild()
	}
	list, err := iterator.NewListIterator(numbersDesc(), rows)
	if err != nil {
		t.Fatalf("NewListIterator: %v", err)
	}
	if got := ce.EstimateCardinality(list); got != 30 {
		t.Errorf("list cardinality = %d, want 30", got)
	}

	pred, _ := execution.NewPredicate(0, primitives.Equals, types.NewIntField(3))
	f, _ := execution.NewFilter(pred, list)
	if got := ce.EstimateCardinality(f); got != 0 {
		t.Errorf("equality filter over 30 rows = %d, want 0", got)
	}

	store := memory.NewStore(nil)
	tableID, _ := store.Tables().AddTable("numbers", numbersDesc())
	scan, _ := memory.NewSeqScan(store, nil, tableID)
	if got := ce.EstimateCardinality(scan); got != DefaultTableCardinality {
		t.Errorf("scan without stats = %d, want %d", got, DefaultTableCardinality)
	}

	insert, err := dml.NewInsertOperator(transaction.NewTransactionContext(nil), list, tableID, store, store)
	if err != nil {
		t.Fatalf("NewInsertOperator: %v", err)
	}
	if got := ce.EstimateCardinality(insert); got != 1 {
		t.Errorf("insert cardinality = %d, want 1", got)
	}
	if got := ce.EstimateCardinality(nil); got != 0 {
		t.Errorf("nil cardinality = %d", got)
	}
}
