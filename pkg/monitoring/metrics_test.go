package monitoring

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*ExecutionMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewExecutionMetrics(provider.Meter("test"))
	if err != nil {
		t.Fatalf("NewExecutionMetrics: %v", err)
	}
	return m, reader
}

func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name != name {
				continue
			}
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s: unexpected data type %T", name, md.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestExecutionMetrics_Counters(t *testing.T) {
	ctx := context.Background()
	m, reader := newTestMetrics(t)

	m.RowsInserted(ctx, 1, 3)
	m.RowsInserted(ctx, 2, 2)
	m.RowsDeleted(ctx, 4)
	m.Failure(ctx, "insert", "STORAGE_FAILURE")
	m.TuplesMerged(ctx, "SUM", 10)
	m.ValuesIngested(ctx, 1, 100)

	tests := []struct {
		name string
		want int64
	}{
		{RowsInsertedName, 5},
		{RowsDeletedName, 4},
		{FailuresName, 1},
		{TuplesMergedName, 10},
		{ValuesIngestedName, 100},
	}
	for _, tt := range tests {
		if got := counterTotal(t, reader, tt.name); got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestExecutionMetrics_NilIsNoop(t *testing.T) {
	var m *ExecutionMetrics
	ctx := context.Background()

	m.RowsInserted(ctx, 1, 1)
	m.RowsDeleted(ctx, 1)
	m.Failure(ctx, "delete", "TRANSACTION_ABORTED")
	m.TuplesMerged(ctx, "COUNT", 1)
	m.ValuesIngested(ctx, 1, 1)
}

func TestDefault(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default returned nil")
	}
}
