// Package monitoring exposes OpenTelemetry counters for the execution core.
//
// Operators receive an *ExecutionMetrics through their options. A nil
// *ExecutionMetrics is valid and records nothing, so callers that do not care
// about metrics never need to construct one.
package monitoring

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"querycore/pkg/logging"
	"querycore/pkg/primitives"
)

// MeterName is the instrumentation scope used by Default.
const MeterName = "querycore"

const (
	RowsInsertedName   = "querycore.dml.rows_inserted"
	RowsDeletedName    = "querycore.dml.rows_deleted"
	FailuresName       = "querycore.dml.failures"
	TuplesMergedName   = "querycore.aggregate.tuples_merged"
	ValuesIngestedName = "querycore.stats.values_ingested"
)

// ExecutionMetrics groups the counters recorded by operators and the
// statistics collector.
type ExecutionMetrics struct {
	rowsInserted   metric.Int64Counter
	rowsDeleted    metric.Int64Counter
	failures       metric.Int64Counter
	tuplesMerged   metric.Int64Counter
	valuesIngested metric.Int64Counter
}

// NewExecutionMetrics creates every counter on meter.
func NewExecutionMetrics(meter metric.Meter) (*ExecutionMetrics, error) {
	var (
		m   ExecutionMetrics
		err error
	)

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.rowsInserted, RowsInsertedName, "The total number of tuples inserted by insert operators"},
		{&m.rowsDeleted, RowsDeletedName, "The total number of tuples deleted by delete operators"},
		{&m.failures, FailuresName, "The total number of aborted mutation drains"},
		{&m.tuplesMerged, TuplesMergedName, "The total number of tuples merged into aggregators"},
		{&m.valuesIngested, ValuesIngestedName, "The total number of values added to histograms"},
	}

	for _, c := range counters {
		*c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// Default builds ExecutionMetrics on the global meter provider. If the
// provider refuses to create a counter, a no-op set is returned instead.
func Default() *ExecutionMetrics {
	m, err := NewExecutionMetrics(otel.GetMeterProvider().Meter(MeterName))
	if err != nil {
		logging.WithComponent("monitoring").Warn("init telemetry failed, metrics disabled", "error", err)
		m, _ = NewExecutionMetrics(noop.NewMeterProvider().Meter(MeterName))
	}
	return m
}

func tableAttr(tableID primitives.TableID) attribute.KeyValue {
	return attribute.Int64("table_id", int64(tableID)) // #nosec G115
}

// RowsInserted records n tuples inserted into tableID.
func (m *ExecutionMetrics) RowsInserted(ctx context.Context, tableID primitives.TableID, n int64) {
	if m == nil || n == 0 {
		return
	}
	m.rowsInserted.Add(ctx, n, metric.WithAttributes(tableAttr(tableID)))
}

// RowsDeleted records n tuples deleted.
func (m *ExecutionMetrics) RowsDeleted(ctx context.Context, n int64) {
	if m == nil || n == 0 {
		return
	}
	m.rowsDeleted.Add(ctx, n)
}

// Failure records an aborted drain of operator with the given error code.
func (m *ExecutionMetrics) Failure(ctx context.Context, operator, code string) {
	if m == nil {
		return
	}
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operator", operator),
		attribute.String("code", code),
	))
}

// TuplesMerged records n tuples merged by an aggregator computing op.
func (m *ExecutionMetrics) TuplesMerged(ctx context.Context, op string, n int64) {
	if m == nil || n == 0 {
		return
	}
	m.tuplesMerged.Add(ctx, n, metric.WithAttributes(attribute.String("op", op)))
}

// ValuesIngested records n values added to the histograms of tableID.
func (m *ExecutionMetrics) ValuesIngested(ctx context.Context, tableID primitives.TableID, n int64) {
	if m == nil || n == 0 {
		return
	}
	m.valuesIngested.Add(ctx, n, metric.WithAttributes(tableAttr(tableID)))
}
