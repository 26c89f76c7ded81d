package aggregation

import (
	"fmt"
	"testing"

	"querycore/pkg/iterator"
	"querycore/pkg/tuple"
	"querycore/pkg/types"
)

// mockIterator implements DbIterator for testing
type mockIterator struct {
	tuples    []*tuple.Tuple
	index     int
	isOpen    bool
	openErr   error
	nextErr   error
	nextCalls int
	td        *tuple.TupleDescription
}

func newMockIterator(tuples []*tuple.Tuple, td *tuple.TupleDescription) *mockIterator {
	return &mockIterator{
		tuples: tuples,
		index:  -1,
		td:     td,
	}
}

func (m *mockIterator) Open() error {
	if m.openErr != nil {
		return m.openErr
	}
	m.isOpen = true
	m.index = -1
	return nil
}

func (m *mockIterator) Close() error {
	if !m.isOpen {
		return fmt.Errorf("iterator not open")
	}
	m.isOpen = false
	return nil
}

func (m *mockIterator) HasNext() (bool, error) {
	if !m.isOpen {
		return false, fmt.Errorf("iterator not open")
	}
	return m.index+1 < len(m.tuples), nil
}

func (m *mockIterator) Next() (*tuple.Tuple, error) {
	if !m.isOpen {
		return nil, fmt.Errorf("iterator not open")
	}
	if m.nextErr != nil {
		return nil, m.nextErr
	}
	m.nextCalls++
	m.index++
	if m.index >= len(m.tuples) {
		return nil, fmt.Errorf("no more tuples")
	}
	return m.tuples[m.index], nil
}

func (m *mockIterator) Rewind() error {
	if !m.isOpen {
		return fmt.Errorf("iterator not open")
	}
	m.index = -1
	return nil
}

func (m *mockIterator) GetTupleDesc() *tuple.TupleDescription {
	return m.td
}

func (m *mockIterator) Children() []iterator.DbIterator {
	return nil
}

func (m *mockIterator) SetChildren([]iterator.DbIterator) error {
	return nil
}

// groupedDesc is (name STRING, value INT).
func groupedDesc() *tuple.TupleDescription {
	return tuple.MustTupleDesc(
		[]types.Type{types.StringType, types.IntType},
		[]string{"name", "value"},
	)
}

func groupedTuple(name string, value int64) *tuple.Tuple {
	return tuple.NewBuilder(groupedDesc()).AddString(name).AddInt(value).MustBuild()
}

// sampleTuples is {A:1, A:3, B:5}.
func sampleTuples() []*tuple.Tuple {
	return []*tuple.Tuple{
		groupedTuple("A", 1),
		groupedTuple("A", 3),
		groupedTuple("B", 5),
	}
}

func intOnlyDesc() *tuple.TupleDescription {
	return tuple.MustTupleDesc([]types.Type{types.IntType}, []string{"v"})
}

func intOnlyTuples(values ...int64) []*tuple.Tuple {
	out := make([]*tuple.Tuple, len(values))
	for i, v := range values {
		out[i] = tuple.NewBuilder(intOnlyDesc()).AddInt(v).MustBuild()
	}
	return out
}

// groupedResults drains it into group -> aggregate value.
func groupedResults(t *testing.T, it iterator.DbIterator) map[string]int64 {
	t.Helper()
	tuples, err := iterator.Drain(it)
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}

	out := make(map[string]int64, len(tuples))
	for _, tup := range tuples {
		g, err := tup.GetField(0)
		if err != nil {
			t.Fatalf("GetField(0): %v", err)
		}
		v, err := tup.GetField(1)
		if err != nil {
			t.Fatalf("GetField(1): %v", err)
		}
		if _, dup := out[g.String()]; dup {
			t.Fatalf("group %s emitted twice", g)
		}
		out[g.String()] = v.(*types.IntField).Value
	}
	return out
}

// ungroupedResults drains it into the list of single aggregate values.
func ungroupedResults(t *testing.T, it iterator.DbIterator) []int64 {
	t.Helper()
	tuples, err := iterator.Drain(it)
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}

	out := make([]int64, 0, len(tuples))
	for _, tup := range tuples {
		v, err := tup.GetField(0)
		if err != nil {
			t.Fatalf("GetField(0): %v", err)
		}
		out = append(out, v.(*types.IntField).Value)
	}
	return out
}

func equalGroups(a, b map[string]int64) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func equalValues(a, b []int64) bool {
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
