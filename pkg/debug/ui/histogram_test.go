package ui

import (
	"strings"
	"testing"

	"querycore/pkg/iterator"
	"querycore/pkg/optimizer/statistics"
	"querycore/pkg/tuple"
	"querycore/pkg/types"
)

func TestBucketBounds(t *testing.T) {
	tests := []struct {
		name           string
		min, max       int64
		width          uint64
		idx            int
		wantLo, wantHi int64
	}{
		{"first bucket", 0, 99, 10, 0, 0, 9},
		{"last bucket", 0, 99, 10, 9, 90, 99},
		{"clamped last bucket", 0, 9, 4, 2, 8, 9},
		{"negative range", -10, -1, 5, 1, -5, -1},
		{"full int64 range", -1 << 63, 1<<63 - 1, 1 << 63, 1, 0, 1<<63 - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := bucketBounds(tt.min, tt.max, tt.width, tt.idx)
			if lo != tt.wantLo || hi != tt.wantHi {
				t.Errorf("bucketBounds() = [%d, %d], want [%d, %d]", lo, hi, tt.wantLo, tt.wantHi)
			}
		})
	}
}

func TestRenderHistogram(t *testing.T) {
	h, err := statistics.NewIntHistogram(4, 1, 8)
	if err != nil {
		t.Fatalf("NewIntHistogram failed: %v", err)
	}
	for _, v := range []int64{1, 2, 2, 3, 8} {
		if err := h.AddValue(v); err != nil {
			t.Fatalf("AddValue(%d) failed: %v", v, err)
		}
	}

	out := RenderHistogram(h, 8)
	for _, want := range []string{"[1, 2]", "[7, 8]", "total: 5", "width: 2", strings.Repeat("█", 8)} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "│"); got != 8 {
		t.Errorf("expected 4 bucket rows, found %d bar edges:\n%s", got, out)
	}
}

func TestRenderHistogram_Empty(t *testing.T) {
	h, _ := statistics.NewIntHistogram(2, 0, 0)
	out := RenderHistogram(h, 0)
	if !strings.Contains(out, "total: 0") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "█") {
		t.Errorf("empty histogram drew a bar:\n%s", out)
	}

	if got := RenderHistogram(nil, 10); !strings.Contains(got, "no histogram") {
		t.Errorf("RenderHistogram(nil) = %q", got)
	}
}

func TestRenderTableStats(t *testing.T) {
	desc := tuple.MustTupleDesc([]types.Type{types.IntType, types.StringType}, []string{"age", "city"})
	rows := []*tuple.Tuple{
		tuple.NewBuilder(desc).AddInt(20).AddString("oslo").MustBuild(),
		tuple.NewBuilder(desc).AddInt(35).AddString("rome").MustBuild(),
	}
	scan, err := iterator.NewListIterator(desc, rows)
	if err != nil {
		t.Fatalf("NewListIterator failed: %v", err)
	}
	ts, err := statistics.ComputeTableStats(scan, 5)
	if err != nil {
		t.Fatalf("ComputeTableStats failed: %v", err)
	}

	out := RenderTableStats(ts, 10)
	for _, want := range []string{"2 tuples", "age", "city", "INT_TYPE", "STRING_TYPE", "[20, 23]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if got := RenderTableStats(nil, 10); !strings.Contains(got, "no statistics") {
		t.Errorf("RenderTableStats(nil) = %q", got)
	}
}
