package core

import (
	"fmt"

	dberror "querycore/pkg/error"
	"querycore/pkg/iterator"
	"querycore/pkg/tuple"
)

// AggregatorIterator provides iterator-based access to aggregation results.
//
// Snapshot Behavior:
// The iterator takes a snapshot of group keys at Open() time and iterates
// through them, fetching aggregate values on demand. This means:
//   - Groups added after Open() are not visible in this iteration
//   - The snapshot is refreshed on each Open() call
//   - Rewind() does NOT refresh the snapshot
//
// Result Format:
//   - Non-grouped aggregates: Single-field tuple containing aggregate value
//   - Grouped aggregates: Two-field tuple (group value, aggregate value)
type AggregatorIterator struct {
	base       *iterator.BaseIterator
	aggregator GroupAggregator         // The aggregator to iterate over
	tupleDesc  *tuple.TupleDescription // Description of result tuples
	groups     []GroupKey              // Snapshot of group keys taken at Open() time
	currentIdx int                     // Current position in groups slice
}

// NewAggregatorIterator creates a new iterator for the given aggregator.
// The iterator is created in closed state - call Open() before use.
//
// Panics:
//   - If agg is nil
func NewAggregatorIterator(agg GroupAggregator) *AggregatorIterator {
	if agg == nil {
		panic("NewAggregatorIterator: aggregator cannot be nil")
	}

	it := &AggregatorIterator{
		aggregator: agg,
		tupleDesc:  agg.GetTupleDesc(),
	}
	it.base = iterator.NewBaseIterator(it.readNext)
	return it
}

// Open initializes the iterator and takes a snapshot of the aggregator's groups.
func (i *AggregatorIterator) Open() error {
	if err := i.base.Open(); err != nil {
		return err
	}

	i.groups = i.aggregator.GetGroups()
	i.currentIdx = 0
	return nil
}

// readNext builds the next result tuple, or returns nil once the snapshot is exhausted.
func (i *AggregatorIterator) readNext() (*tuple.Tuple, error) {
	if i.currentIdx >= len(i.groups) {
		return nil, nil
	}

	key := i.groups[i.currentIdx]
	i.currentIdx++

	aggValue, err := i.aggregator.GetAggregateValue(key)
	if err != nil {
		return nil, fmt.Errorf("failed to get aggregate value for group '%s': %w", key, err)
	}

	resultTuple := tuple.NewTuple(i.tupleDesc)

	if i.aggregator.GetGroupingField() == NoGrouping {
		if err := resultTuple.SetField(0, aggValue); err != nil {
			return nil, fmt.Errorf("failed to set aggregate field: %w", err)
		}
		return resultTuple, nil
	}

	if err := resultTuple.SetField(0, i.aggregator.GroupField(key)); err != nil {
		return nil, fmt.Errorf("failed to set group field: %w", err)
	}
	if err := resultTuple.SetField(1, aggValue); err != nil {
		return nil, fmt.Errorf("failed to set aggregate field: %w", err)
	}
	return resultTuple, nil
}

func (i *AggregatorIterator) HasNext() (bool, error) {
	return i.base.HasNext()
}

func (i *AggregatorIterator) Next() (*tuple.Tuple, error) {
	return i.base.Next()
}

// Rewind resets the iterator to the beginning of the same snapshot.
// To get a fresh snapshot, call Close() followed by Open().
func (i *AggregatorIterator) Rewind() error {
	if err := i.base.Rewind(); err != nil {
		return err
	}
	i.currentIdx = 0
	return nil
}

// Close releases the snapshot. The aggregator itself is not owned by the iterator.
func (i *AggregatorIterator) Close() error {
	if err := i.base.Close(); err != nil {
		return err
	}
	i.groups = nil
	return nil
}

func (i *AggregatorIterator) GetTupleDesc() *tuple.TupleDescription {
	return i.tupleDesc
}

// Children returns nil: the result iterator is a leaf over materialized state.
func (i *AggregatorIterator) Children() []iterator.DbIterator {
	return nil
}

func (i *AggregatorIterator) SetChildren(children []iterator.DbIterator) error {
	if len(children) != 0 {
		return dberror.IllegalState("SetChildren", "AggregatorIterator", "leaf iterator takes no children, got %d", len(children))
	}
	return nil
}
