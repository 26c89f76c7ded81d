package core

import (
	"querycore/pkg/primitives"
	"querycore/pkg/tuple"
	"querycore/pkg/types"
)

// GroupAggregator is the read side of an aggregator, used by AggregatorIterator
// to turn accumulated state into result tuples.
type GroupAggregator interface {
	// GetGroups returns every group that has a result row. Order is unspecified.
	GetGroups() []GroupKey

	// GroupField returns the original group-by value for key, or nil for the
	// ungrouped key.
	GroupField(key GroupKey) types.Field

	// GetAggregateValue returns the computed aggregate value for the specified group.
	GetAggregateValue(key GroupKey) (types.Field, error)

	// GetTupleDesc returns the schema of result tuples: [group, aggregate]
	// when grouping, [aggregate] otherwise.
	GetTupleDesc() *tuple.TupleDescription

	// GetGroupingField returns the index of the field used for grouping,
	// or NoGrouping.
	GetGroupingField() primitives.ColumnID
}

// AggregateCalculator defines the interface for computing aggregate functions
// over groups of data. It provides methods to initialize groups, update
// aggregate values incrementally, and retrieve final results.
type AggregateCalculator interface {
	// InitializeGroup sets up initial state for a new group.
	// This method should be called once per group before any UpdateAggregate calls.
	InitializeGroup(key GroupKey)

	// UpdateAggregate processes a new value for the aggregate computation.
	// Returns SCHEMA_MISMATCH if the value has the wrong type.
	UpdateAggregate(key GroupKey, fieldValue types.Field) error

	// GetFinalValue returns the final aggregated value for a group.
	GetFinalValue(key GroupKey) (types.Field, error)

	// ValidateOperation returns UNSUPPORTED_AGGREGATE when op cannot be
	// computed over this calculator's input type.
	ValidateOperation(op AggregateOp) error

	// GetResultType returns the data type of the result that will be produced
	// by the specified aggregate operation.
	GetResultType(op AggregateOp) types.Type

	// InputType is the type of the aggregated field.
	InputType() types.Type
}
