package statistics

import (
	"fmt"
	"math"

	json "github.com/goccy/go-json"

	dberror "querycore/pkg/error"
	"querycore/pkg/primitives"
	"querycore/pkg/types"
)

// IntHistogram is an equi-width histogram over a fixed integer range.
//
// Space is O(buckets) regardless of how many values are added. Offsets from
// min are kept in uint64 so that any [min, max] within int64 is representable.
type IntHistogram struct {
	buckets []int64 // Number of values per bucket
	min     int64   // Smallest value that may be added
	max     int64   // Largest value that may be added
	width   uint64  // Integers covered by each bucket, >= 1
	total   int64   // Number of values added
}

// NewIntHistogram creates a histogram of buckets equal-width buckets over [min, max].
//
// Returns ILLEGAL_STATE when buckets < 1 or min > max.
func NewIntHistogram(buckets int, min, max int64) (*IntHistogram, error) {
	if buckets < 1 {
		return nil, dberror.IllegalState("NewIntHistogram", "IntHistogram", "bucket count must be positive, got %d", buckets)
	}
	if min > max {
		return nil, dberror.IllegalState("NewIntHistogram", "IntHistogram", "min %d is greater than max %d", min, max)
	}

	// ceil(span/buckets) written so that a span of 2^64 (which wraps to 0) still works
	span := uint64(max) - uint64(min) + 1
	width := (span-1)/uint64(buckets) + 1
	if width == 0 {
		return nil, dberror.IllegalState("NewIntHistogram", "IntHistogram", "the full int64 range needs at least 2 buckets")
	}

	return &IntHistogram{
		buckets: make([]int64, buckets),
		min:     min,
		max:     max,
		width:   width,
	}, nil
}

// offset returns v - min. v must be within [min, max].
func (h *IntHistogram) offset(v int64) uint64 {
	return uint64(v) - uint64(h.min)
}

func (h *IntHistogram) bucketIndex(v int64) int {
	return int(h.offset(v) / h.width)
}

// effectiveWidth is the number of integers of [min, max] that bucket idx covers.
// The last non-empty bucket may be narrower than width; buckets entirely past
// max have width 0.
func (h *IntHistogram) effectiveWidth(idx int) uint64 {
	last := h.offset(h.max)
	left := uint64(idx) * h.width
	if left > last {
		return 0
	}
	if right := left + h.width - 1; right < last && right >= left {
		return h.width
	}
	return last - left + 1
}

// AddValue records v. Values outside [min, max] are rejected with
// ILLEGAL_STATE and leave the histogram unchanged.
func (h *IntHistogram) AddValue(v int64) error {
	if v < h.min || v > h.max {
		return dberror.IllegalState("AddValue", "IntHistogram", "value %d outside histogram range [%d, %d]", v, h.min, h.max)
	}
	h.buckets[h.bucketIndex(v)]++
	h.total++
	return nil
}

// EstimateSelectivity estimates the fraction of added values satisfying
// "value op v". The result is always within [0, 1]. An empty histogram
// estimates 0; operators other than the six comparisons get DefaultSelectivity.
func (h *IntHistogram) EstimateSelectivity(op primitives.Predicate, v int64) float64 {
	var sel float64
	switch op {
	case primitives.Equals:
		sel = h.equals(v)
	case primitives.NotEqual:
		if h.total == 0 {
			return 0
		}
		sel = 1 - h.equals(v)
	case primitives.LessThan:
		sel = h.lessThan(v)
	case primitives.LessThanOrEqual:
		sel = h.equals(v) + h.lessThan(v)
	case primitives.GreaterThan:
		sel = h.greaterThan(v)
	case primitives.GreaterThanOrEqual:
		sel = h.equals(v) + h.greaterThan(v)
	default:
		return DefaultSelectivity
	}
	return clamp(sel)
}

// equals spreads the count of v's bucket uniformly over the integers it covers.
func (h *IntHistogram) equals(v int64) float64 {
	if h.total == 0 || v < h.min || v > h.max {
		return 0
	}
	idx := h.bucketIndex(v)
	height := float64(h.buckets[idx])
	return height / float64(h.effectiveWidth(idx)) / float64(h.total)
}

func (h *IntHistogram) lessThan(v int64) float64 {
	if h.total == 0 || v <= h.min {
		return 0
	}
	if v > h.max {
		return 1
	}

	idx := h.bucketIndex(v)
	var below int64
	for _, n := range h.buckets[:idx] {
		below += n
	}

	// integers of the bucket strictly left of v
	left := h.offset(v) - uint64(idx)*h.width
	part := float64(h.buckets[idx]) * float64(left) / float64(h.effectiveWidth(idx))
	return (float64(below) + part) / float64(h.total)
}

func (h *IntHistogram) greaterThan(v int64) float64 {
	if h.total == 0 || v >= h.max {
		return 0
	}
	if v < h.min {
		return 1
	}

	idx := h.bucketIndex(v)
	var above int64
	for _, n := range h.buckets[idx+1:] {
		above += n
	}

	// integers of the bucket strictly right of v
	ew := h.effectiveWidth(idx)
	right := uint64(idx)*h.width + ew - 1 - h.offset(v)
	part := float64(h.buckets[idx]) * float64(right) / float64(ew)
	return (float64(above) + part) / float64(h.total)
}

// EstimateField is EstimateSelectivity for a field constant.
// Returns SCHEMA_MISMATCH unless f is an IntField.
func (h *IntHistogram) EstimateField(op primitives.Predicate, f types.Field) (float64, error) {
	intField, ok := f.(*types.IntField)
	if !ok {
		return 0, fieldMismatch("IntHistogram", types.IntType, f)
	}
	return h.EstimateSelectivity(op, intField.Value), nil
}

// AvgSelectivity returns the average selectivity of an arbitrary predicate
// on this column. Without a workload model this is 1.0.
func (h *IntHistogram) AvgSelectivity() float64 {
	return 1.0
}

// Buckets returns a copy of the per-bucket counts.
func (h *IntHistogram) Buckets() []int64 {
	out := make([]int64, len(h.buckets))
	copy(out, h.buckets)
	return out
}

// TotalCount returns the number of values added.
func (h *IntHistogram) TotalCount() int64 {
	return h.total
}

// BucketWidth returns the number of integers each bucket covers.
func (h *IntHistogram) BucketWidth() uint64 {
	return h.width
}

// Range returns the [min, max] the histogram was built for.
func (h *IntHistogram) Range() (int64, int64) {
	return h.min, h.max
}

func (h *IntHistogram) String() string {
	return fmt.Sprintf("IntHistogram(min=%d, max=%d, width=%d, total=%d, buckets=%v)",
		h.min, h.max, h.width, h.total, h.buckets)
}

type histogramSnapshot struct {
	Min         int64   `json:"min"`
	Max         int64   `json:"max"`
	BucketWidth uint64  `json:"bucket_width"`
	TotalCount  int64   `json:"total_count"`
	Buckets     []int64 `json:"buckets"`
}

// MarshalJSON encodes the histogram for EXPLAIN and debug output.
func (h *IntHistogram) MarshalJSON() ([]byte, error) {
	return json.Marshal(histogramSnapshot{
		Min:         h.min,
		Max:         h.max,
		BucketWidth: h.width,
		TotalCount:  h.total,
		Buckets:     h.buckets,
	})
}

func clamp(sel float64) float64 {
	return math.Max(0, math.Min(1, sel))
}

func fieldMismatch(component string, want types.Type, got types.Field) error {
	if got == nil {
		return dberror.IllegalState("EstimateField", component, "constant is not set")
	}
	return dberror.SchemaMismatch("EstimateField", component, "expected %s constant, got %s", want, got.Type())
}
