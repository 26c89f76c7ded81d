package statistics

import (
	"fmt"

	"querycore/pkg/primitives"
	"querycore/pkg/types"
)

var (
	minStringKey = stringKey("")
	maxStringKey = stringKey("zzzz")
)

// stringKey maps s to an integer from its first four bytes, big-endian, so
// that byte-wise ordering of prefixes is preserved.
func stringKey(s string) int64 {
	var v int64
	for i := 0; i < 4; i++ {
		v <<= 8
		if i < len(s) {
			v |= int64(s[i])
		}
	}
	return v
}

// clampedKey is stringKey limited to the histogram range.
func clampedKey(s string) int64 {
	return min(max(stringKey(s), minStringKey), maxStringKey)
}

// StringHistogram estimates selectivity over text columns by mapping each
// string to an integer and delegating to an IntHistogram. Only the first four
// bytes take part in the estimate; strings sorting past "zzzz" count as "zzzz".
type StringHistogram struct {
	hist *IntHistogram
}

// NewStringHistogram creates a string histogram with the given bucket count.
func NewStringHistogram(buckets int) (*StringHistogram, error) {
	h, err := NewIntHistogram(buckets, minStringKey, maxStringKey)
	if err != nil {
		return nil, err
	}
	return &StringHistogram{hist: h}, nil
}

// AddValue records s.
func (h *StringHistogram) AddValue(s string) error {
	return h.hist.AddValue(clampedKey(s))
}

// EstimateSelectivity estimates the fraction of values satisfying "value op s".
func (h *StringHistogram) EstimateSelectivity(op primitives.Predicate, s string) float64 {
	return h.hist.EstimateSelectivity(op, clampedKey(s))
}

// EstimateField is EstimateSelectivity for a field constant.
// Returns SCHEMA_MISMATCH unless f is a StringField.
func (h *StringHistogram) EstimateField(op primitives.Predicate, f types.Field) (float64, error) {
	strField, ok := f.(*types.StringField)
	if !ok {
		return 0, fieldMismatch("StringHistogram", types.StringType, f)
	}
	return h.EstimateSelectivity(op, strField.Value), nil
}

func (h *StringHistogram) AvgSelectivity() float64 {
	return h.hist.AvgSelectivity()
}

func (h *StringHistogram) TotalCount() int64 {
	return h.hist.TotalCount()
}

// Ints exposes the underlying integer histogram.
func (h *StringHistogram) Ints() *IntHistogram {
	return h.hist
}

func (h *StringHistogram) String() string {
	return fmt.Sprintf("StringHistogram(%s)", h.hist)
}

func (h *StringHistogram) MarshalJSON() ([]byte, error) {
	return h.hist.MarshalJSON()
}
