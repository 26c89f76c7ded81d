package statistics

import (
	"errors"
	"math"
	"strings"
	"testing"

	dberror "querycore/pkg/error"
	"querycore/pkg/primitives"
	"querycore/pkg/types"
)

const epsilon = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

var comparisonOps = []primitives.Predicate{
	primitives.Equals,
	primitives.NotEqual,
	primitives.LessThan,
	primitives.LessThanOrEqual,
	primitives.GreaterThan,
	primitives.GreaterThanOrEqual,
}

// uniformHistogram holds each integer of [lo, hi] exactly once.
func uniformHistogram(t testing.TB, buckets int, lo, hi int64) *IntHistogram {
	t.Helper()
	h, err := NewIntHistogram(buckets, lo, hi)
	if err != nil {
		t.Fatalf("NewIntHistogram: %v", err)
	}
	for v := lo; v <= hi; v++ {
		if err := h.AddValue(v); err != nil {
			t.Fatalf("AddValue(%d): %v", v, err)
		}
	}
	return h
}

func TestNewIntHistogram_Validation(t *testing.T) {
	tests := []struct {
		name     string
		buckets  int
		min, max int64
		wantErr  bool
	}{
		{"valid", 10, 0, 99, false},
		{"single value", 1, 5, 5, false},
		{"more buckets than values", 100, 0, 9, false},
		{"zero buckets", 0, 0, 99, true},
		{"negative buckets", -1, 0, 99, true},
		{"min above max", 10, 10, 0, true},
		{"full range one bucket", 1, math.MinInt64, math.MaxInt64, true},
		{"full range", 4, math.MinInt64, math.MaxInt64, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIntHistogram(tt.buckets, tt.min, tt.max)
			if tt.wantErr && !errors.Is(err, dberror.ErrIllegalState) {
				t.Errorf("err = %v, want ILLEGAL_STATE", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestIntHistogram_BucketWidth(t *testing.T) {
	tests := []struct {
		buckets  int
		min, max int64
		want     uint64
	}{
		{10, 0, 99, 10},
		{3, 0, 10, 4},
		{100, 0, 9, 1},
		{1, -5, 5, 11},
		{7, 1, 1, 1},
	}

	for _, tt := range tests {
		h, err := NewIntHistogram(tt.buckets, tt.min, tt.max)
		if err != nil {
			t.Fatalf("NewIntHistogram(%d, %d, %d): %v", tt.buckets, tt.min, tt.max, err)
		}
		if got := h.BucketWidth(); got != tt.want {
			t.Errorf("BucketWidth(%d, [%d, %d]) = %d, want %d", tt.buckets, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestIntHistogram_AddValueOutOfRange(t *testing.T) {
	h, err := NewIntHistogram(10, 0, 99)
	if err != nil {
		t.Fatalf("NewIntHistogram: %v", err)
	}

	for _, v := range []int64{-1, 100, math.MinInt64, math.MaxInt64} {
		if err := h.AddValue(v); !errors.Is(err, dberror.ErrIllegalState) {
			t.Errorf("AddValue(%d) = %v, want ILLEGAL_STATE", v, err)
		}
	}
	if h.TotalCount() != 0 {
		t.Errorf("rejected values were counted: %d", h.TotalCount())
	}
}

// One value per integer in 0..99 with 10 buckets.
func TestIntHistogram_UniformProperties(t *testing.T) {
	h := uniformHistogram(t, 10, 0, 99)

	for v := int64(0); v <= 99; v++ {
		if got := h.EstimateSelectivity(primitives.Equals, v); !approx(got, 0.01) {
			t.Errorf("EQ(%d) = %f, want 0.01", v, got)
		}
		eq := h.EstimateSelectivity(primitives.Equals, v)
		ne := h.EstimateSelectivity(primitives.NotEqual, v)
		if !approx(eq+ne, 1.0) {
			t.Errorf("EQ(%d)+NE(%d) = %f, want 1", v, v, eq+ne)
		}
	}

	tests := []struct {
		op   primitives.Predicate
		v    int64
		want float64
	}{
		{primitives.LessThan, 50, 0.5},
		{primitives.GreaterThanOrEqual, 0, 1.0},
		{primitives.LessThan, 0, 0.0},
		{primitives.LessThanOrEqual, 99, 1.0},
		{primitives.GreaterThan, 99, 0.0},
		{primitives.GreaterThan, -5, 1.0},
		{primitives.LessThan, 500, 1.0},
		{primitives.Equals, 100, 0.0},
		{primitives.Equals, -1, 0.0},
		{primitives.NotEqual, 1000, 1.0},
		{primitives.GreaterThan, 49, 0.5},
		{primitives.LessThanOrEqual, 49, 0.5},
	}

	for _, tt := range tests {
		if got := h.EstimateSelectivity(tt.op, tt.v); !approx(got, tt.want) {
			t.Errorf("%s %d = %f, want %f", tt.op, tt.v, got, tt.want)
		}
	}
}

// With one value per integer every estimate is exact, including in a
// narrower last bucket.
func TestIntHistogram_ExactOnUniformData(t *testing.T) {
	ranges := []struct {
		buckets int
		lo, hi  int64
	}{
		{3, 0, 10},
		{4, -7, 7},
		{10, 0, 99},
		{6, 100, 112},
		{50, 0, 20},
	}

	for _, r := range ranges {
		h := uniformHistogram(t, r.buckets, r.lo, r.hi)
		n := float64(r.hi - r.lo + 1)

		for v := r.lo - 2; v <= r.hi+2; v++ {
			inRange := v >= r.lo && v <= r.hi
			below := math.Max(0, math.Min(n, float64(v-r.lo)))
			above := math.Max(0, math.Min(n, float64(r.hi-v)))

			wantEq := 0.0
			if inRange {
				wantEq = 1 / n
			}
			checks := map[primitives.Predicate]float64{
				primitives.Equals:             wantEq,
				primitives.LessThan:           below / n,
				primitives.GreaterThan:        above / n,
				primitives.LessThanOrEqual:    wantEq + below/n,
				primitives.GreaterThanOrEqual: wantEq + above/n,
			}
			for op, want := range checks {
				if got := h.EstimateSelectivity(op, v); !approx(got, want) {
					t.Errorf("[%d,%d]/%d: %s %d = %f, want %f", r.lo, r.hi, r.buckets, op, v, got, want)
				}
			}
		}
	}
}

func TestIntHistogram_SkewedBucket(t *testing.T) {
	h, err := NewIntHistogram(2, 0, 9)
	if err != nil {
		t.Fatalf("NewIntHistogram: %v", err)
	}
	// bucket 0 covers 0..4, bucket 1 covers 5..9
	for _, v := range []int64{0, 0, 0, 1, 9} {
		if err := h.AddValue(v); err != nil {
			t.Fatalf("AddValue: %v", err)
		}
	}

	if got := h.Buckets(); got[0] != 4 || got[1] != 1 {
		t.Fatalf("Buckets = %v, want [4 1]", got)
	}
	// spread uniformly: 4 values over 5 integers
	if got := h.EstimateSelectivity(primitives.Equals, 3); !approx(got, 4.0/5.0/5.0) {
		t.Errorf("EQ(3) = %f", got)
	}
	if got := h.EstimateSelectivity(primitives.LessThan, 5); !approx(got, 0.8) {
		t.Errorf("LT(5) = %f, want 0.8", got)
	}
}

func TestIntHistogram_Empty(t *testing.T) {
	h, err := NewIntHistogram(10, 0, 99)
	if err != nil {
		t.Fatalf("NewIntHistogram: %v", err)
	}
	for _, op := range comparisonOps {
		for _, v := range []int64{-10, 0, 50, 99, 200} {
			if got := h.EstimateSelectivity(op, v); got != 0 {
				t.Errorf("empty %s %d = %f, want 0", op, v, got)
			}
		}
	}
}

func TestIntHistogram_UnsupportedOp(t *testing.T) {
	h := uniformHistogram(t, 10, 0, 99)
	if got := h.EstimateSelectivity(primitives.Like, 5); got != DefaultSelectivity {
		t.Errorf("LIKE = %f, want %f", got, DefaultSelectivity)
	}
}

func TestIntHistogram_EstimatesInUnitRange(t *testing.T) {
	h, err := NewIntHistogram(7, -1000, 1000)
	if err != nil {
		t.Fatalf("NewIntHistogram: %v", err)
	}
	// deterministic skew
	for i := int64(0); i < 500; i++ {
		if err := h.AddValue((i*i*37)%2001 - 1000); err != nil {
			t.Fatalf("AddValue: %v", err)
		}
	}

	for _, op := range comparisonOps {
		for v := int64(-1100); v <= 1100; v += 13 {
			got := h.EstimateSelectivity(op, v)
			if got < 0 || got > 1 || math.IsNaN(got) {
				t.Fatalf("%s %d = %f outside [0,1]", op, v, got)
			}
		}
	}
}

func TestIntHistogram_FullRange(t *testing.T) {
	h, err := NewIntHistogram(4, math.MinInt64, math.MaxInt64)
	if err != nil {
		t.Fatalf("NewIntHistogram: %v", err)
	}
	for _, v := range []int64{math.MinInt64, -1, 0, math.MaxInt64} {
		if err := h.AddValue(v); err != nil {
			t.Fatalf("AddValue(%d): %v", v, err)
		}
	}

	if got := h.Buckets(); got[0] != 1 || got[1] != 1 || got[2] != 1 || got[3] != 1 {
		t.Errorf("Buckets = %v, want one value each", got)
	}
	if got := h.EstimateSelectivity(primitives.LessThanOrEqual, math.MaxInt64); !approx(got, 1.0) {
		t.Errorf("LTE(max) = %f, want 1", got)
	}
	if got := h.EstimateSelectivity(primitives.GreaterThanOrEqual, math.MinInt64); !approx(got, 1.0) {
		t.Errorf("GTE(min) = %f, want 1", got)
	}
}

func TestIntHistogram_EstimateField(t *testing.T) {
	h := uniformHistogram(t, 10, 0, 99)

	got, err := h.EstimateField(primitives.LessThan, types.NewIntField(50))
	if err != nil || !approx(got, 0.5) {
		t.Errorf("EstimateField(<, 50) = %f, %v", got, err)
	}
	if _, err := h.EstimateField(primitives.LessThan, types.NewStringField("x", 10)); !errors.Is(err, dberror.ErrSchemaMismatch) {
		t.Errorf("string constant: %v, want SCHEMA_MISMATCH", err)
	}
	if _, err := h.EstimateField(primitives.LessThan, nil); !errors.Is(err, dberror.ErrIllegalState) {
		t.Errorf("nil constant: %v, want ILLEGAL_STATE", err)
	}
	if h.AvgSelectivity() != 1.0 {
		t.Errorf("AvgSelectivity = %f", h.AvgSelectivity())
	}
}

func TestIntHistogram_Output(t *testing.T) {
	h := uniformHistogram(t, 2, 0, 3)

	if got := h.String(); got != "IntHistogram(min=0, max=3, width=2, total=4, buckets=[2 2])" {
		t.Errorf("String = %s", got)
	}

	data, err := h.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	for _, want := range []string{`"min":0`, `"max":3`, `"bucket_width":2`, `"total_count":4`, `"buckets":[2,2]`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON %s missing %s", data, want)
		}
	}

	buckets := h.Buckets()
	buckets[0] = 99
	if h.Buckets()[0] != 2 {
		t.Error("Buckets exposed internal state")
	}
}
