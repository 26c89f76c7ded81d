package calculators

import (
	dberror "querycore/pkg/error"
	"querycore/pkg/execution/aggregation/internal/core"
	"querycore/pkg/types"
)

// GetCalculator returns an AggregateCalculator appropriate for the given field type and aggregate operation.
//
// Returns:
//   - core.AggregateCalculator: calculator for fieldType computing op
//   - error: UNSUPPORTED_AGGREGATE if the field type has no calculator
func GetCalculator(fieldType types.Type, op core.AggregateOp) (core.AggregateCalculator, error) {
	switch fieldType {
	case types.IntType:
		return NewIntCalculator(op), nil
	case types.StringType:
		return NewStringCalculator(op), nil
	default:
		return nil, dberror.UnsupportedAggregate("GetCalculator", "Aggregator",
			"unsupported field type for aggregation: %v", fieldType)
	}
}

func typeMismatch(expected types.Type, got types.Field) error {
	if got == nil {
		return dberror.IllegalState("UpdateAggregate", "Calculator", "aggregate value is not set")
	}
	return dberror.SchemaMismatch("UpdateAggregate", "Calculator", "expected %s, got %s", expected, got.Type())
}
