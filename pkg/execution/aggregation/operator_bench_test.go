package aggregation

import (
	"fmt"
	"testing"

	"querycore/pkg/tuple"
)

func benchTuples(n, groups int) []*tuple.Tuple {
	out := make([]*tuple.Tuple, n)
	for i := range out {
		out[i] = groupedTuple(fmt.Sprintf("g%d", i%groups), int64(i))
	}
	return out
}

func BenchmarkIntAggregator_Merge(b *testing.B) {
	for _, groups := range []int{1, 100, 10000} {
		tuples := benchTuples(10000, groups)
		b.Run(fmt.Sprintf("groups=%d", groups), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				agg, err := NewIntAggregator(0, groupedDesc().FieldTypes()[0], 1, Avg)
				if err != nil {
					b.Fatal(err)
				}
				for _, tup := range tuples {
					if err := agg.Merge(tup); err != nil {
						b.Fatal(err)
					}
				}
			}
		})
	}
}

func BenchmarkAggregateOperator(b *testing.B) {
	tuples := benchTuples(10000, 100)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		op, err := NewAggregateOperator(newMockIterator(tuples, groupedDesc()), 1, 0, Sum)
		if err != nil {
			b.Fatal(err)
		}
		if err := op.Open(); err != nil {
			b.Fatal(err)
		}
		for {
			ok, err := op.HasNext()
			if err != nil {
				b.Fatal(err)
			}
			if !ok {
				break
			}
			if _, err := op.Next(); err != nil {
				b.Fatal(err)
			}
		}
		if err := op.Close(); err != nil {
			b.Fatal(err)
		}
	}
}
