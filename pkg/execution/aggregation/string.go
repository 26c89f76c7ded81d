package aggregation

import (
	"querycore/pkg/execution/aggregation/internal/calculators"
	"querycore/pkg/execution/aggregation/internal/core"
	"querycore/pkg/primitives"
	"querycore/pkg/types"
)

// StringAggregator handles aggregation over string fields.
// Only COUNT is supported; other operations fail at construction.
type StringAggregator struct {
	*core.BaseAggregator
}

// NewStringAggregator creates a new string aggregator.
//
// Returns UNSUPPORTED_AGGREGATE for any op other than Count.
func NewStringAggregator(gbField primitives.ColumnID, gbFieldType types.Type, aField primitives.ColumnID, op AggregateOp) (*StringAggregator, error) {
	base, err := core.NewBaseAggregator(gbField, gbFieldType, aField, op, calculators.NewStringCalculator(op))
	if err != nil {
		return nil, err
	}
	return &StringAggregator{BaseAggregator: base}, nil
}

// newAggregator picks the aggregator for the aggregated field's type.
func newAggregator(gbField primitives.ColumnID, gbFieldType types.Type, aField primitives.ColumnID, aType types.Type, op AggregateOp) (Aggregator, error) {
	calc, err := calculators.GetCalculator(aType, op)
	if err != nil {
		return nil, err
	}
	base, err := core.NewBaseAggregator(gbField, gbFieldType, aField, op, calc)
	if err != nil {
		return nil, err
	}
	if aType == types.StringType {
		return &StringAggregator{BaseAggregator: base}, nil
	}
	return &IntAggregator{BaseAggregator: base}, nil
}
