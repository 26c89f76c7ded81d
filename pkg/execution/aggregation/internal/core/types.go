package core

import (
	"fmt"
	"strings"

	"querycore/pkg/primitives"
)

const (
	// NoGrouping indicates that no grouping field is used in aggregation
	NoGrouping primitives.ColumnID = primitives.InvalidColumnID
)

// AggregateOp represents the type of aggregation operation to perform
type AggregateOp int

const (
	Min AggregateOp = iota
	Max
	Sum
	Avg
	Count
)

// String returns a string representation of the aggregation operation
func (op AggregateOp) String() string {
	switch op {
	case Min:
		return "MIN"
	case Max:
		return "MAX"
	case Sum:
		return "SUM"
	case Avg:
		return "AVG"
	case Count:
		return "COUNT"
	default:
		return "UNKNOWN"
	}
}

// ParseAggregateOp converts an aggregate operation string to AggregateOp enum.
func ParseAggregateOp(opStr string) (AggregateOp, error) {
	switch strings.ToUpper(strings.TrimSpace(opStr)) {
	case "MIN":
		return Min, nil
	case "MAX":
		return Max, nil
	case "SUM":
		return Sum, nil
	case "AVG":
		return Avg, nil
	case "COUNT":
		return Count, nil
	default:
		return 0, fmt.Errorf("unsupported aggregate operation: %s", opStr)
	}
}
