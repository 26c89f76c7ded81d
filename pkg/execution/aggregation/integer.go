package aggregation

import (
	"querycore/pkg/execution/aggregation/internal/calculators"
	"querycore/pkg/execution/aggregation/internal/core"
	"querycore/pkg/primitives"
	"querycore/pkg/types"
)

// IntAggregator handles aggregation over integer fields.
// It supports MIN, MAX, SUM, AVG and COUNT; every result is an integer.
type IntAggregator struct {
	*core.BaseAggregator
}

// NewIntAggregator creates a new integer aggregator.
// Pass NoGrouping as gbField for an ungrouped aggregate; gbFieldType is then ignored.
func NewIntAggregator(gbField primitives.ColumnID, gbFieldType types.Type, aField primitives.ColumnID, op AggregateOp) (*IntAggregator, error) {
	base, err := core.NewBaseAggregator(gbField, gbFieldType, aField, op, calculators.NewIntCalculator(op))
	if err != nil {
		return nil, err
	}
	return &IntAggregator{BaseAggregator: base}, nil
}
