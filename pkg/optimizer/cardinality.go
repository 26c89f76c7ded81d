package optimizer

import (
	"math"

	"querycore/pkg/execution"
	"querycore/pkg/execution/aggregation"
	"querycore/pkg/execution/dml"
	"querycore/pkg/iterator"
	"querycore/pkg/memory"
	"querycore/pkg/primitives"
)

// Default constants for cardinality estimation
const (
	DefaultTableCardinality = 1000 // Default table size when no statistics
	GroupFraction           = 0.1  // Share of input rows assumed to start a new group
	MinCardinality          = 1    // Minimum estimated cardinality
)

// CardinalityEstimator estimates the number of rows an operator tree produces.
type CardinalityEstimator struct {
	selectivityEstimator *SelectivityEstimator
}

// NewCardinalityEstimator creates a new cardinality estimator
func NewCardinalityEstimator(se *SelectivityEstimator) *CardinalityEstimator {
	if se == nil {
		se = NewSelectivityEstimator(nil)
	}
	return &CardinalityEstimator{
		selectivityEstimator: se,
	}
}

// EstimateCardinality estimates the output cardinality of op.
func (ce *CardinalityEstimator) EstimateCardinality(op iterator.DbIterator) int64 {
	if op == nil {
		return 0
	}

	switch node := op.(type) {
	case *memory.SequentialScan:
		return ce.estimateScanCardinality(node.TableID())
	case *iterator.ListIterator:
		return int64(node.Len())
	case *execution.Filter:
		return ce.estimateFilterCardinality(node)
	case *aggregation.AggregateOperator:
		return ce.estimateAggregateCardinality(node)
	case *dml.InsertOperator, *dml.DeleteOperator:
		return 1
	default:
		children := op.Children()
		if len(children) == 1 {
			return ce.EstimateCardinality(children[0])
		}
		return DefaultTableCardinality
	}
}

// estimateScanCardinality returns the table size, or the default without statistics.
func (ce *CardinalityEstimator) estimateScanCardinality(tableID primitives.TableID) int64 {
	card := ce.selectivityEstimator.EstimateCardinality(tableID, MaxSelectivity)
	if card < 0 {
		return DefaultTableCardinality
	}
	return card
}

// estimateFilterCardinality scales the child's cardinality by the predicate's
// selectivity. Histograms are consulted only when the filter sits on a scan,
// possibly through other filters, so column indexes refer to the table.
func (ce *CardinalityEstimator) estimateFilterCardinality(node *execution.Filter) int64 {
	childCard := ce.EstimateCardinality(node.GetChild())
	pred := node.Predicate()

	var sel float64
	if tableID, ok := baseTable(node.GetChild()); ok {
		sel = ce.selectivityEstimator.EstimatePredicateSelectivity(tableID, int(pred.Field()), pred.Op(), pred.Operand())
	} else {
		sel = ce.selectivityEstimator.getDefaultSelectivityForOp(pred.Op())
	}

	return int64(math.Round(float64(childCard) * sel))
}

// estimateAggregateCardinality estimates output rows for an aggregation
func (ce *CardinalityEstimator) estimateAggregateCardinality(node *aggregation.AggregateOperator) int64 {
	if node.GroupingField() == aggregation.NoGrouping {
		// No GROUP BY: single row output
		return 1
	}

	childCard := ce.EstimateCardinality(node.GetChild())
	groupCount := int64(float64(childCard) * GroupFraction)
	return int64(math.Max(MinCardinality, math.Min(float64(groupCount), float64(childCard))))
}

// baseTable returns the table scanned under a chain of filters.
func baseTable(op iterator.DbIterator) (primitives.TableID, bool) {
	for {
		switch node := op.(type) {
		case *memory.SequentialScan:
			return node.TableID(), true
		case *execution.Filter:
			op = node.GetChild()
		default:
			return primitives.InvalidTableID, false
		}
	}
}
