package calculators

import (
	"fmt"

	dberror "querycore/pkg/error"
	"querycore/pkg/execution/aggregation/internal/core"
	"querycore/pkg/types"
)

// StringCalculator counts text values per group. COUNT is the only operation
// defined over text.
type StringCalculator struct {
	op           core.AggregateOp
	groupToCount map[core.GroupKey]int64
}

func NewStringCalculator(op core.AggregateOp) *StringCalculator {
	return &StringCalculator{
		op:           op,
		groupToCount: make(map[core.GroupKey]int64),
	}
}

func (sc *StringCalculator) ValidateOperation(op core.AggregateOp) error {
	if op != core.Count {
		return dberror.UnsupportedAggregate("ValidateOperation", "StringCalculator",
			"string aggregator does not support operation: %s", op)
	}
	return nil
}

func (sc *StringCalculator) GetResultType(core.AggregateOp) types.Type {
	return types.IntType
}

func (sc *StringCalculator) InputType() types.Type {
	return types.StringType
}

func (sc *StringCalculator) InitializeGroup(key core.GroupKey) {
	sc.groupToCount[key] = 0
}

func (sc *StringCalculator) UpdateAggregate(key core.GroupKey, fieldValue types.Field) error {
	if _, ok := fieldValue.(*types.StringField); !ok {
		return typeMismatch(types.StringType, fieldValue)
	}
	sc.groupToCount[key]++
	return nil
}

func (sc *StringCalculator) GetFinalValue(key core.GroupKey) (types.Field, error) {
	count, ok := sc.groupToCount[key]
	if !ok {
		return nil, fmt.Errorf("group %s not initialized", key)
	}
	return types.NewIntField(count), nil
}
