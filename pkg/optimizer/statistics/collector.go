package statistics

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"querycore/pkg/iterator"
	"querycore/pkg/logging"
	"querycore/pkg/monitoring"
	"querycore/pkg/primitives"
)

// ScanProvider opens a fresh full scan of a table. Each call must return an
// independent, unopened iterator.
type ScanProvider interface {
	Scan(tableID primitives.TableID) (iterator.DbIterator, error)
}

// CollectorConfig configures a Collector.
type CollectorConfig struct {
	// Buckets per histogram. Zero means DefaultHistogramBuckets.
	Buckets int

	// Parallelism bounds how many tables are scanned at once. Zero means
	// runtime.GOMAXPROCS(0).
	Parallelism int

	// Metrics, if set, records the number of values added to histograms.
	Metrics *monitoring.ExecutionMetrics
}

// Collector builds TableStats for many tables concurrently. Tables are built
// in parallel, but every TableStats is written by exactly one goroutine.
type Collector struct {
	provider ScanProvider
	config   CollectorConfig
}

// NewCollector creates a collector reading tables through provider.
func NewCollector(provider ScanProvider, config CollectorConfig) *Collector {
	if config.Buckets <= 0 {
		config.Buckets = DefaultHistogramBuckets
	}
	if config.Parallelism <= 0 {
		config.Parallelism = runtime.GOMAXPROCS(0)
	}
	return &Collector{
		provider: provider,
		config:   config,
	}
}

// Collect builds statistics for every table in tableIDs. The first failure
// cancels the remaining scans and is returned.
func (c *Collector) Collect(ctx context.Context, tableIDs []primitives.TableID) (map[primitives.TableID]*TableStats, error) {
	var (
		mu     sync.Mutex
		result = make(map[primitives.TableID]*TableStats, len(tableIDs))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.Parallelism)

	for _, tableID := range tableIDs {
		tableID := tableID
		g.Go(func() error {
			scan, err := c.provider.Scan(tableID)
			if err != nil {
				return fmt.Errorf("failed to scan table %s: %w", tableID, err)
			}

			stats, err := computeTableStats(gctx, tableID, scan, c.config.Buckets, c.config.Metrics)
			if err != nil {
				return fmt.Errorf("failed to build statistics for table %s: %w", tableID, err)
			}

			mu.Lock()
			result[tableID] = stats
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logging.WithComponent("statistics").Warn("statistics collection failed", "error", err)
		return nil, err
	}

	logging.WithComponent("statistics").Info("statistics collected",
		"tables", len(result),
		"buckets", c.config.Buckets,
	)
	return result, nil
}
