package calculators

import (
	"fmt"

	dberror "querycore/pkg/error"
	"querycore/pkg/execution/aggregation/internal/core"
	"querycore/pkg/types"
)

// IntCalculator handles integer-specific aggregation logic.
//
// AVG keeps the running sum and count and divides only when the value is
// read. Division truncates toward zero, so AVG{1,2,3,4} is 2.
type IntCalculator struct {
	groupToAgg   map[core.GroupKey]int64 // Running MIN/MAX/SUM/COUNT per group
	groupToCount map[core.GroupKey]int64 // Number of values merged per group
	op           core.AggregateOp
}

func NewIntCalculator(op core.AggregateOp) *IntCalculator {
	return &IntCalculator{
		groupToAgg:   make(map[core.GroupKey]int64),
		groupToCount: make(map[core.GroupKey]int64),
		op:           op,
	}
}

func (ic *IntCalculator) ValidateOperation(op core.AggregateOp) error {
	switch op {
	case core.Min, core.Max, core.Sum, core.Avg, core.Count:
		return nil
	default:
		return dberror.UnsupportedAggregate("ValidateOperation", "IntCalculator",
			"integer aggregator does not support operation: %s", op)
	}
}

func (ic *IntCalculator) GetResultType(core.AggregateOp) types.Type {
	return types.IntType
}

func (ic *IntCalculator) InputType() types.Type {
	return types.IntType
}

func (ic *IntCalculator) InitializeGroup(key core.GroupKey) {
	ic.groupToAgg[key] = 0
	ic.groupToCount[key] = 0
}

func (ic *IntCalculator) UpdateAggregate(key core.GroupKey, fieldValue types.Field) error {
	intField, ok := fieldValue.(*types.IntField)
	if !ok {
		return typeMismatch(types.IntType, fieldValue)
	}

	v := intField.Value
	current := ic.groupToAgg[key]
	first := ic.groupToCount[key] == 0

	switch ic.op {
	case core.Min:
		if first || v < current {
			ic.groupToAgg[key] = v
		}
	case core.Max:
		if first || v > current {
			ic.groupToAgg[key] = v
		}
	case core.Sum, core.Avg:
		ic.groupToAgg[key] = current + v
	case core.Count:
		ic.groupToAgg[key] = current + 1
	}

	ic.groupToCount[key]++
	return nil
}

func (ic *IntCalculator) GetFinalValue(key core.GroupKey) (types.Field, error) {
	aggValue, ok := ic.groupToAgg[key]
	if !ok {
		return nil, fmt.Errorf("group %s not initialized", key)
	}

	if ic.op == core.Avg {
		count := ic.groupToCount[key]
		if count == 0 {
			return nil, fmt.Errorf("group %s has no values to average", key)
		}
		aggValue /= count
	}
	return types.NewIntField(aggValue), nil
}
