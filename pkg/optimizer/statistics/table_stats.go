package statistics

import (
	"context"
	"errors"
	"fmt"
	"math"

	json "github.com/goccy/go-json"

	dberror "querycore/pkg/error"
	"querycore/pkg/iterator"
	"querycore/pkg/logging"
	"querycore/pkg/monitoring"
	"querycore/pkg/primitives"
	"querycore/pkg/tuple"
	"querycore/pkg/types"
)

// ColumnHistogram is the read side shared by IntHistogram and StringHistogram.
type ColumnHistogram interface {
	EstimateField(op primitives.Predicate, f types.Field) (float64, error)
	AvgSelectivity() float64
	TotalCount() int64
	String() string
}

// TableStats holds one histogram per column of a table, built from a full scan.
type TableStats struct {
	tableID     primitives.TableID
	desc        *tuple.TupleDescription
	totalTuples int64
	histograms  []ColumnHistogram
}

// ComputeTableStats scans every tuple of scan twice, first for per-column
// ranges and then to fill the histograms. scan must be closed; it is opened
// and closed again here.
func ComputeTableStats(scan iterator.DbIterator, buckets int) (*TableStats, error) {
	return computeTableStats(context.Background(), primitives.InvalidTableID, scan, buckets, nil)
}

type intRange struct {
	min, max int64
	seen     bool
}

func computeTableStats(ctx context.Context, tableID primitives.TableID, scan iterator.DbIterator, buckets int, metrics *monitoring.ExecutionMetrics) (_ *TableStats, err error) {
	if scan == nil {
		return nil, dberror.IllegalState("ComputeTableStats", "TableStats", "scan cannot be nil")
	}
	if buckets < 1 {
		return nil, dberror.IllegalState("ComputeTableStats", "TableStats", "bucket count must be positive, got %d", buckets)
	}

	desc := scan.GetTupleDesc()
	if desc == nil {
		return nil, dberror.IllegalState("ComputeTableStats", "TableStats", "scan has no tuple description")
	}

	if err := scan.Open(); err != nil {
		return nil, fmt.Errorf("failed to open scan: %w", err)
	}
	defer func() {
		err = errors.Join(err, scan.Close())
	}()

	ranges := make([]intRange, desc.NumFields())
	var total int64
	err = iterator.ForEach(scan, func(t *tuple.Tuple) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		total++
		for i := range ranges {
			f, err := t.GetField(i)
			if err != nil {
				return err
			}
			if v, ok := f.(*types.IntField); ok {
				ranges[i].observe(v.Value)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("range pass failed: %w", err)
	}

	stats := &TableStats{
		tableID:     tableID,
		desc:        desc,
		totalTuples: total,
		histograms:  make([]ColumnHistogram, desc.NumFields()),
	}

	adders := make([]func(types.Field) error, desc.NumFields())
	for i, typ := range desc.FieldTypes() {
		hist, add, err := newColumnHistogram(typ, buckets, ranges[i])
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		stats.histograms[i] = hist
		adders[i] = add
	}

	if err := scan.Rewind(); err != nil {
		return nil, fmt.Errorf("failed to rewind scan: %w", err)
	}

	err = iterator.ForEach(scan, func(t *tuple.Tuple) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i, add := range adders {
			f, err := t.GetField(i)
			if err != nil {
				return err
			}
			if err := add(f); err != nil {
				return fmt.Errorf("column %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("histogram pass failed: %w", err)
	}

	metrics.ValuesIngested(ctx, tableID, total*int64(len(adders)))
	logging.WithTable(uint64(tableID)).Debug("table statistics built",
		"tuples", total,
		"columns", len(adders),
		"buckets", buckets,
	)
	return stats, nil
}

func (r *intRange) observe(v int64) {
	if !r.seen {
		r.min, r.max, r.seen = v, v, true
		return
	}
	r.min = min(r.min, v)
	r.max = max(r.max, v)
}

// newColumnHistogram creates the histogram for a column of type typ and the
// function feeding it one field at a time.
func newColumnHistogram(typ types.Type, buckets int, r intRange) (ColumnHistogram, func(types.Field) error, error) {
	switch typ {
	case types.IntType:
		lo, hi := r.min, r.max
		if !r.seen {
			lo, hi = 0, 0
		}
		if lo == math.MinInt64 && hi == math.MaxInt64 && buckets < 2 {
			buckets = 2
		}
		h, err := NewIntHistogram(buckets, lo, hi)
		if err != nil {
			return nil, nil, err
		}
		return h, func(f types.Field) error {
			v, ok := f.(*types.IntField)
			if !ok {
				return fieldMismatch("TableStats", types.IntType, f)
			}
			return h.AddValue(v.Value)
		}, nil

	case types.StringType:
		h, err := NewStringHistogram(buckets)
		if err != nil {
			return nil, nil, err
		}
		return h, func(f types.Field) error {
			v, ok := f.(*types.StringField)
			if !ok {
				return fieldMismatch("TableStats", types.StringType, f)
			}
			return h.AddValue(v.Value)
		}, nil

	default:
		return nil, nil, dberror.SchemaMismatch("ComputeTableStats", "TableStats", "no histogram for type %s", typ)
	}
}

// TableID returns the table the statistics describe, or InvalidTableID when
// built through ComputeTableStats.
func (ts *TableStats) TableID() primitives.TableID {
	return ts.tableID
}

// TupleDesc returns the schema of the scanned table.
func (ts *TableStats) TupleDesc() *tuple.TupleDescription {
	return ts.desc
}

// TotalTuples returns the number of tuples in the table.
func (ts *TableStats) TotalTuples() int64 {
	return ts.totalTuples
}

// Histogram returns the histogram of column field.
func (ts *TableStats) Histogram(field int) (ColumnHistogram, error) {
	if field < 0 || field >= len(ts.histograms) {
		return nil, dberror.IllegalState("Histogram", "TableStats", "field index %d out of range [0, %d)", field, len(ts.histograms))
	}
	return ts.histograms[field], nil
}

// EstimateSelectivity estimates the fraction of tuples for which
// "field op constant" holds.
func (ts *TableStats) EstimateSelectivity(field int, op primitives.Predicate, constant types.Field) (float64, error) {
	h, err := ts.Histogram(field)
	if err != nil {
		return 0, err
	}
	return h.EstimateField(op, constant)
}

// AvgSelectivity returns the expected selectivity of op on field when the
// constant is unknown.
func (ts *TableStats) AvgSelectivity(field int, op primitives.Predicate) (float64, error) {
	h, err := ts.Histogram(field)
	if err != nil {
		return 0, err
	}
	return h.AvgSelectivity(), nil
}

// EstimateCardinality returns the number of tuples expected to pass a
// predicate of the given selectivity. The result is truncated.
func (ts *TableStats) EstimateCardinality(selectivity float64) int64 {
	return int64(float64(ts.totalTuples) * clamp(selectivity))
}

// EstimateScanCost returns the cost of a full sequential scan.
func (ts *TableStats) EstimateScanCost() float64 {
	return float64(ts.totalTuples) * CostPerTuple
}

type tableStatsSnapshot struct {
	TableID     uint64            `json:"table_id"`
	Schema      string            `json:"schema"`
	TotalTuples int64             `json:"total_tuples"`
	Columns     []ColumnHistogram `json:"columns"`
}

// MarshalJSON encodes the statistics for EXPLAIN and debug output.
func (ts *TableStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(tableStatsSnapshot{
		TableID:     uint64(ts.tableID),
		Schema:      ts.desc.String(),
		TotalTuples: ts.totalTuples,
		Columns:     ts.histograms,
	})
}
