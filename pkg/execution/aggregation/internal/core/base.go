package core

import (
	"fmt"

	dberror "querycore/pkg/error"
	"querycore/pkg/iterator"
	"querycore/pkg/primitives"
	"querycore/pkg/tuple"
	"querycore/pkg/types"
)

// BaseAggregator contains all common aggregation functionality.
//
// The BaseAggregator implements the core logic for SQL aggregation operations
// (COUNT, SUM, AVG, MIN, MAX) with optional GROUP BY support. It delegates
// type-specific calculation logic to an AggregateCalculator implementation.
//
// An aggregator has a single writer: all Merge calls happen before results
// are read, so no locking is done.
type BaseAggregator struct {
	gbField     primitives.ColumnID      // Index of grouping field (NoGrouping for none)
	gbFieldType types.Type               // Type of grouping field
	aField      primitives.ColumnID      // Index of field to aggregate
	op          AggregateOp              // Aggregation operation (COUNT, SUM, AVG, MIN, MAX)
	tupleDesc   *tuple.TupleDescription  // Description of result tuples
	groups      map[GroupKey]types.Field // Original group-by value per key
	order       []GroupKey               // Keys in first-seen order
	calculator  AggregateCalculator      // Type-specific aggregation logic
}

// NewBaseAggregator creates a new BaseAggregator instance.
//
// Parameters:
//   - gbField: Index of the grouping field (use NoGrouping constant for no grouping)
//   - gbFieldType: Type of the grouping field, ignored when gbField is NoGrouping
//   - aField: Index of the field to aggregate
//   - op: Aggregation operation to perform (COUNT, SUM, AVG, MIN, MAX)
//   - calculator: Type-specific calculator for performing aggregations
//
// Returns:
//   - *BaseAggregator: Initialized aggregator ready to process tuples
//   - error: UNSUPPORTED_AGGREGATE if the calculator cannot compute op
func NewBaseAggregator(gbField primitives.ColumnID, gbFieldType types.Type, aField primitives.ColumnID, op AggregateOp, calculator AggregateCalculator) (*BaseAggregator, error) {
	if err := calculator.ValidateOperation(op); err != nil {
		return nil, err
	}

	agg := &BaseAggregator{
		gbField:     gbField,
		gbFieldType: gbFieldType,
		aField:      aField,
		op:          op,
		groups:      make(map[GroupKey]types.Field),
		calculator:  calculator,
	}

	tupleDesc, err := agg.createTupleDesc()
	if err != nil {
		return nil, err
	}
	agg.tupleDesc = tupleDesc
	return agg, nil
}

// createTupleDesc creates the tuple description for aggregation results.
// For non-grouped aggregates, returns a single field with the aggregate result.
// For grouped aggregates, returns two fields: group key and aggregate result.
func (ba *BaseAggregator) createTupleDesc() (*tuple.TupleDescription, error) {
	resultType := ba.calculator.GetResultType(ba.op)

	if ba.gbField == NoGrouping {
		return tuple.NewTupleDesc(
			[]types.Type{resultType},
			[]string{ba.op.String()},
		)
	}
	return tuple.NewTupleDesc(
		[]types.Type{ba.gbFieldType, resultType},
		[]string{"group", ba.op.String()},
	)
}

// GetGroups returns all group keys that have a result row.
//
// An ungrouped COUNT over no input still has one row (count 0); any other
// ungrouped aggregate over no input has none, since there is no NULL value.
func (ba *BaseAggregator) GetGroups() []GroupKey {
	if len(ba.order) == 0 && ba.gbField == NoGrouping && ba.op == Count {
		return []GroupKey{UngroupedKey()}
	}
	out := make([]GroupKey, len(ba.order))
	copy(out, ba.order)
	return out
}

// GroupField returns the group-by value that created key.
func (ba *BaseAggregator) GroupField(key GroupKey) types.Field {
	return ba.groups[key]
}

// GetAggregateValue retrieves the computed aggregate value for a specific group.
func (ba *BaseAggregator) GetAggregateValue(key GroupKey) (types.Field, error) {
	if _, ok := ba.groups[key]; !ok {
		if key.IsUngrouped() && ba.gbField == NoGrouping && ba.op == Count {
			return types.NewIntField(0), nil
		}
		return nil, fmt.Errorf("group %s not found", key)
	}
	return ba.calculator.GetFinalValue(key)
}

// GetTupleDesc returns the tuple description for aggregation result tuples.
func (ba *BaseAggregator) GetTupleDesc() *tuple.TupleDescription {
	return ba.tupleDesc
}

// GetGroupingField returns the index of the grouping field.
func (ba *BaseAggregator) GetGroupingField() primitives.ColumnID {
	return ba.gbField
}

// Op returns the aggregate operation.
func (ba *BaseAggregator) Op() AggregateOp {
	return ba.op
}

// Iterator creates a new iterator over the aggregation results.
// Each result tuple contains the group key (if grouped) and aggregate value.
func (ba *BaseAggregator) Iterator() iterator.DbIterator {
	return NewAggregatorIterator(ba)
}

// Merge processes a new tuple into the aggregate.
//
// The method extracts the group key from the tuple, retrieves the field
// to aggregate, and delegates the actual aggregation to the calculator.
// New groups are automatically initialized on first encounter.
// A tuple whose group or aggregate field has the wrong type is rejected
// with SCHEMA_MISMATCH and leaves the aggregator unchanged.
func (ba *BaseAggregator) Merge(tup *tuple.Tuple) error {
	if tup == nil {
		return dberror.IllegalState("Merge", "Aggregator", "cannot merge nil tuple")
	}

	key, groupField, err := ba.extractGroupKey(tup)
	if err != nil {
		return err
	}

	aggField, err := tup.GetField(int(ba.aField))
	if err != nil {
		return fmt.Errorf("failed to get aggregate field: %w", err)
	}
	if aggField == nil {
		return dberror.IllegalState("Merge", "Aggregator", "aggregate field %d is not set", ba.aField)
	}
	if aggField.Type() != ba.calculator.InputType() {
		return dberror.SchemaMismatch("Merge", "Aggregator", "aggregate field %d: expected %s, got %s",
			ba.aField, ba.calculator.InputType(), aggField.Type())
	}

	if _, ok := ba.groups[key]; !ok {
		ba.calculator.InitializeGroup(key)
		ba.groups[key] = groupField
		ba.order = append(ba.order, key)
	}

	return ba.calculator.UpdateAggregate(key, aggField)
}

// extractGroupKey extracts the grouping key from a tuple.
// For non-grouped aggregates, returns the ungrouped key and a nil field.
func (ba *BaseAggregator) extractGroupKey(tup *tuple.Tuple) (GroupKey, types.Field, error) {
	if ba.gbField == NoGrouping {
		return UngroupedKey(), nil, nil
	}

	groupField, err := tup.GetField(int(ba.gbField))
	if err != nil {
		return GroupKey{}, nil, fmt.Errorf("failed to get grouping field: %w", err)
	}
	if groupField != nil && groupField.Type() != ba.gbFieldType {
		return GroupKey{}, nil, dberror.SchemaMismatch("Merge", "Aggregator", "group field %d: expected %s, got %s",
			ba.gbField, ba.gbFieldType, groupField.Type())
	}

	key, err := KeyOf(groupField)
	if err != nil {
		return GroupKey{}, nil, err
	}
	return key, groupField, nil
}
