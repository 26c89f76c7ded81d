package optimizer

import (
	"math"

	"querycore/pkg/logging"
	"querycore/pkg/optimizer/statistics"
	"querycore/pkg/primitives"
	"querycore/pkg/types"
)

// Default selectivity constants
const (
	DefaultSelectivity  = statistics.DefaultSelectivity // 10% - general unknown predicate
	EqualitySelectivity = 0.01                          // 1% - equality without statistics
	RangeSelectivity    = 0.33                          // 33% - range predicate without statistics
	LikeSelectivity     = 0.2                           // 20% - LIKE predicate
	MaxSelectivity      = 1.0                           // 100% - all rows
)

// SelectivityEstimator estimates the selectivity of predicates
// Selectivity is a value between 0.0 and 1.0 representing the fraction
// of rows that satisfy a predicate
type SelectivityEstimator struct {
	registry *statistics.Registry
}

// NewSelectivityEstimator creates a new selectivity estimator over reg.
// A nil registry is allowed; every estimate then uses the defaults.
func NewSelectivityEstimator(reg *statistics.Registry) *SelectivityEstimator {
	return &SelectivityEstimator{
		registry: reg,
	}
}

// EstimatePredicateSelectivity estimates the selectivity of "field pred value"
// on tableID. Without usable statistics it falls back to per-operator defaults.
func (se *SelectivityEstimator) EstimatePredicateSelectivity(
	tableID primitives.TableID,
	field int,
	pred primitives.Predicate,
	value types.Field,
) float64 {
	if pred == primitives.Like {
		if s, ok := value.(*types.StringField); ok {
			return se.EstimateLikeSelectivity(s.Value)
		}
		return LikeSelectivity
	}

	if se.registry == nil {
		return se.getDefaultSelectivityForOp(pred)
	}

	sel, err := se.registry.EstimateSelectivity(tableID, field, pred, value)
	if err != nil {
		logging.WithColumn(uint64(tableID), field).Debug("falling back to default selectivity",
			"predicate", pred.String(),
			"error", err,
		)
		return se.getDefaultSelectivityForOp(pred)
	}
	return sel
}

// EstimateCardinality returns the expected number of rows of tableID passing
// a predicate of the given selectivity, or -1 when the table has no statistics.
func (se *SelectivityEstimator) EstimateCardinality(tableID primitives.TableID, selectivity float64) int64 {
	if se.registry == nil {
		return -1
	}
	ts, ok := se.registry.Get(tableID)
	if !ok {
		return -1
	}
	return ts.EstimateCardinality(selectivity)
}

// EstimateCombinedSelectivity estimates selectivity for combined predicates
func (se *SelectivityEstimator) EstimateCombinedSelectivity(
	sel1, sel2 float64,
	isAnd bool,
) float64 {
	if isAnd {
		// sel(A AND B) = sel(A) * sel(B) (assuming independence)
		return sel1 * sel2
	}
	// sel(A OR B) = sel(A) + sel(B) - sel(A) * sel(B)
	return sel1 + sel2 - (sel1 * sel2)
}

// EstimateNotSelectivity estimates selectivity for NOT predicate
func (se *SelectivityEstimator) EstimateNotSelectivity(sel float64) float64 {
	return 1.0 - sel
}

func (se *SelectivityEstimator) getDefaultSelectivityForOp(pred primitives.Predicate) float64 {
	switch pred {
	case primitives.Equals:
		return EqualitySelectivity
	case primitives.NotEqual:
		return 1.0 - EqualitySelectivity
	case primitives.GreaterThan, primitives.GreaterThanOrEqual, primitives.LessThan, primitives.LessThanOrEqual:
		return RangeSelectivity
	default:
		return DefaultSelectivity
	}
}

// EstimateLikeSelectivity estimates selectivity for LIKE predicates
func (se *SelectivityEstimator) EstimateLikeSelectivity(pattern string) float64 {
	if pattern == "" {
		return LikeSelectivity
	}

	switch {
	case pattern[0] != '%' && pattern[len(pattern)-1] == '%':
		// Prefix match: relatively selective
		return 0.1
	case pattern[0] == '%' && pattern[len(pattern)-1] != '%':
		// Suffix match: less selective
		return 0.3
	case len(pattern) > 1 && pattern[0] == '%' && pattern[len(pattern)-1] == '%':
		// Substring match: least selective
		return 0.5
	default:
		// Exact match or no wildcards: very selective
		return EqualitySelectivity
	}
}

// EstimateInSelectivity estimates selectivity for IN over valueCount constants
// as the union of as many equality predicates.
func (se *SelectivityEstimator) EstimateInSelectivity(
	tableID primitives.TableID,
	field int,
	values []types.Field,
) float64 {
	sel := 0.0
	for _, v := range values {
		sel = se.EstimateCombinedSelectivity(sel, se.EstimatePredicateSelectivity(tableID, field, primitives.Equals, v), false)
	}
	return math.Min(sel, MaxSelectivity)
}
