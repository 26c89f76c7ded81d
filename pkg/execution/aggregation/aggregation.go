package aggregation

import (
	"querycore/pkg/execution/aggregation/internal/core"
	"querycore/pkg/iterator"
	"querycore/pkg/tuple"
)

// Re-export types and constants from internal/core
type (
	AggregateOp = core.AggregateOp
	GroupKey    = core.GroupKey
)

const (
	NoGrouping = core.NoGrouping
	Min        = core.Min
	Max        = core.Max
	Sum        = core.Sum
	Avg        = core.Avg
	Count      = core.Count
)

var (
	// ParseAggregateOp converts an aggregate operation string to AggregateOp enum.
	ParseAggregateOp = core.ParseAggregateOp

	// KeyOf builds the group key for a group-by value.
	KeyOf = core.KeyOf

	// UngroupedKey is the single key of an aggregate without GROUP BY.
	UngroupedKey = core.UngroupedKey
)

// Aggregator interface defines the contract for aggregation operations
// This is the fundamental interface that all aggregators must implement
type Aggregator interface {
	// Merge processes a new tuple into the aggregate, grouping as specified
	// This is where the actual aggregation computation happens
	Merge(tup *tuple.Tuple) error

	// Iterator returns a DbIterator over the aggregate results
	// Results are tuples containing either (aggregateValue) or (groupValue, aggregateValue)
	Iterator() iterator.DbIterator

	// GetTupleDesc returns the tuple description for the aggregate results
	GetTupleDesc() *tuple.TupleDescription
}
