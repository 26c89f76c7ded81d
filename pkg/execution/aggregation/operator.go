package aggregation

import (
	"context"
	"errors"
	"fmt"

	dberror "querycore/pkg/error"
	"querycore/pkg/iterator"
	"querycore/pkg/logging"
	"querycore/pkg/monitoring"
	"querycore/pkg/primitives"
	"querycore/pkg/tuple"
	"querycore/pkg/types"
)

// Option configures an AggregateOperator.
type Option func(*AggregateOperator)

// WithMetrics records merged tuple counts on m.
func WithMetrics(m *monitoring.ExecutionMetrics) Option {
	return func(agg *AggregateOperator) {
		agg.metrics = m
	}
}

// AggregateOperator is the main aggregation operator that computes aggregates.
// On Open it drains its child into a fresh aggregator, then serves the
// aggregator's result iterator. Rewind replays the results without draining
// the child again.
type AggregateOperator struct {
	*iterator.UnaryOperator
	aField      primitives.ColumnID     // Field to aggregate
	gField      primitives.ColumnID     // Grouping field
	op          AggregateOp             // Aggregation operation
	tupleDesc   *tuple.TupleDescription // Result tuple description
	aggIterator iterator.DbIterator     // Iterator over results, set while open
	metrics     *monitoring.ExecutionMetrics
}

// NewAggregateOperator creates a new aggregate operator over child.
//
// Returns ILLEGAL_STATE for a nil child or an out-of-range field index, and
// UNSUPPORTED_AGGREGATE when op cannot be computed over the aggregated field.
func NewAggregateOperator(child iterator.DbIterator, aField, gField primitives.ColumnID, op AggregateOp, opts ...Option) (*AggregateOperator, error) {
	agg := &AggregateOperator{
		aField: aField,
		gField: gField,
		op:     op,
	}
	for _, opt := range opts {
		opt(agg)
	}

	unary, err := iterator.NewUnaryOperator(child, agg.readNext)
	if err != nil {
		return nil, err
	}
	agg.UnaryOperator = unary

	if err := agg.bind(child.GetTupleDesc()); err != nil {
		return nil, err
	}
	return agg, nil
}

// bind validates the field indices against the child schema and derives the
// output schema from a throwaway aggregator.
func (agg *AggregateOperator) bind(childDesc *tuple.TupleDescription) error {
	aggr, err := agg.newAggregator(childDesc)
	if err != nil {
		return err
	}
	agg.tupleDesc = aggr.GetTupleDesc()
	return nil
}

func (agg *AggregateOperator) newAggregator(childDesc *tuple.TupleDescription) (Aggregator, error) {
	if childDesc == nil {
		return nil, dberror.IllegalState("NewAggregateOperator", "AggregateOperator", "child tuple description cannot be nil")
	}

	aType, err := childDesc.TypeAtIndex(int(agg.aField))
	if err != nil {
		return nil, dberror.IllegalState("NewAggregateOperator", "AggregateOperator", "invalid aggregate field index: %d", agg.aField)
	}

	var gType types.Type
	if agg.gField != NoGrouping {
		gType, err = childDesc.TypeAtIndex(int(agg.gField))
		if err != nil {
			return nil, dberror.IllegalState("NewAggregateOperator", "AggregateOperator", "invalid group field index: %d", agg.gField)
		}
	}

	return newAggregator(agg.gField, gType, agg.aField, aType, agg.op)
}

// Open opens the child, merges every child tuple and opens the result iterator.
// A merge failure closes the operator and is returned.
func (agg *AggregateOperator) Open() error {
	if err := agg.UnaryOperator.Open(); err != nil {
		return err
	}

	aggr, err := agg.newAggregator(agg.GetChild().GetTupleDesc())
	if err != nil {
		return errors.Join(err, agg.UnaryOperator.Close())
	}

	var merged int64
	err = iterator.ForEach(agg.GetChild(), func(t *tuple.Tuple) error {
		if err := aggr.Merge(t); err != nil {
			return fmt.Errorf("error merging tuple: %w", err)
		}
		merged++
		return nil
	})
	if err != nil {
		return errors.Join(err, agg.UnaryOperator.Close())
	}

	results := aggr.Iterator()
	if err := results.Open(); err != nil {
		return errors.Join(fmt.Errorf("failed to open aggregate iterator: %w", err), agg.UnaryOperator.Close())
	}
	agg.aggIterator = results

	agg.metrics.TuplesMerged(context.Background(), agg.op.String(), merged)
	logging.WithOperator("aggregate").Debug("aggregate computed",
		"op", agg.op.String(),
		"merged", merged,
		"grouped", agg.gField != NoGrouping,
	)
	return nil
}

func (agg *AggregateOperator) readNext() (*tuple.Tuple, error) {
	if agg.aggIterator == nil {
		return nil, nil
	}

	hasNext, err := agg.aggIterator.HasNext()
	if err != nil {
		return nil, err
	}
	if !hasNext {
		return nil, nil
	}
	return agg.aggIterator.Next()
}

// Rewind restarts the result stream. The child is not drained again.
func (agg *AggregateOperator) Rewind() error {
	if !agg.IsOpen() {
		return dberror.IllegalState("Rewind", "AggregateOperator", "operator not opened")
	}
	if err := agg.aggIterator.Rewind(); err != nil {
		return fmt.Errorf("failed to rewind aggregate iterator: %w", err)
	}
	return agg.UnaryOperator.Rewind()
}

// Close releases the results and closes the child.
func (agg *AggregateOperator) Close() error {
	if !agg.IsOpen() {
		return dberror.IllegalState("Close", "AggregateOperator", "operator not opened")
	}

	var resultsErr error
	if agg.aggIterator != nil {
		resultsErr = agg.aggIterator.Close()
		agg.aggIterator = nil
	}
	return errors.Join(resultsErr, agg.UnaryOperator.Close())
}

// GroupingField returns the grouping column, or NoGrouping.
func (agg *AggregateOperator) GroupingField() primitives.ColumnID {
	return agg.gField
}

// GetTupleDesc returns the aggregate output schema.
func (agg *AggregateOperator) GetTupleDesc() *tuple.TupleDescription {
	return agg.tupleDesc
}

// SetChildren replaces the child and rebinds the output schema to it. The
// operator is left unchanged when the new child's schema does not fit.
func (agg *AggregateOperator) SetChildren(children []iterator.DbIterator) error {
	if agg.IsOpen() || len(children) != 1 || children[0] == nil {
		return agg.UnaryOperator.SetChildren(children)
	}

	aggr, err := agg.newAggregator(children[0].GetTupleDesc())
	if err != nil {
		return err
	}
	if err := agg.UnaryOperator.SetChildren(children); err != nil {
		return err
	}
	agg.tupleDesc = aggr.GetTupleDesc()
	return nil
}
