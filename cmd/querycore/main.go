// Command querycore loads a generated table into the in-memory store, builds
// its statistics and runs a filtered aggregate over it, printing the
// histograms, the estimated and actual result sizes and the recorded metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"querycore/pkg/concurrency/transaction"
	debugui "querycore/pkg/debug/ui"
	"querycore/pkg/execution"
	"querycore/pkg/execution/aggregation"
	"querycore/pkg/execution/dml"
	"querycore/pkg/iterator"
	"querycore/pkg/logging"
	"querycore/pkg/memory"
	"querycore/pkg/monitoring"
	"querycore/pkg/optimizer"
	"querycore/pkg/optimizer/statistics"
	"querycore/pkg/primitives"
	"querycore/pkg/tuple"
	"querycore/pkg/types"
)

type Configuration struct {
	Rows      int
	Buckets   int
	Threshold int64
	Seed      int64
	LogLevel  string
	JSON      bool
}

var customers = []string{"alice", "bob", "carol", "dave", "erin"}

func main() {
	config := parseArguments()

	level, err := logging.ParseLevel(config.LogLevel)
	if err != nil {
		log.Fatalf("Invalid -log-level: %v", err)
	}
	if err := logging.Init(logging.Config{Level: level}); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Close()

	if err := run(config); err != nil {
		log.Fatalf("querycore: %v", err)
	}
}

// parseArguments processes command-line flags
func parseArguments() Configuration {
	var config Configuration

	flag.IntVar(&config.Rows, "rows", 1000, "Number of generated rows")
	flag.IntVar(&config.Buckets, "buckets", 10, "Histogram buckets per column")
	flag.Int64Var(&config.Threshold, "threshold", 500, "Keep rows with amount > threshold")
	flag.Int64Var(&config.Seed, "seed", 1, "Random seed for the generated rows")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&config.JSON, "json", false, "Print statistics as JSON instead of histograms")

	flag.Parse()

	return config
}

func run(config Configuration) error {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	metrics, err := monitoring.NewExecutionMetrics(provider.Meter(monitoring.MeterName))
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}

	title := lipgloss.NewStyle().Foreground(debugui.PrimaryColor).Bold(true)
	fmt.Println(title.Render("querycore"))

	store := memory.NewStore(nil)
	desc := tuple.MustTupleDesc([]types.Type{types.StringType, types.IntType}, []string{"customer", "amount"})
	tableID, err := store.Tables().AddTable("orders", desc)
	if err != nil {
		return err
	}

	if err := load(store, tableID, desc, config, metrics); err != nil {
		return err
	}

	stats, err := statistics.NewCollector(store, statistics.CollectorConfig{
		Buckets: config.Buckets,
		Metrics: metrics,
	}).Collect(context.Background(), store.Tables().GetAllTableIDs())
	if err != nil {
		return fmt.Errorf("failed to collect statistics: %w", err)
	}

	if config.JSON {
		out, err := json.MarshalIndent(stats[tableID], "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	} else {
		fmt.Println(debugui.RenderTableStats(stats[tableID], debugui.DefaultBarWidth))
	}

	registry, err := statistics.NewRegistry(stats, statistics.DefaultRegistryConfig())
	if err != nil {
		return err
	}
	defer registry.Close()

	if err := query(store, tableID, registry, config, metrics); err != nil {
		return err
	}
	return printMetrics(reader)
}

// load inserts the generated rows through an insert operator.
func load(store *memory.Store, tableID primitives.TableID, desc *tuple.TupleDescription, config Configuration, metrics *monitoring.ExecutionMetrics) error {
	rng := rand.New(rand.NewSource(config.Seed))
	rows := make([]*tuple.Tuple, config.Rows)
	for i := range rows {
		rows[i] = tuple.NewBuilder(desc).
			AddString(customers[rng.Intn(len(customers))]).
			AddInt(rng.Int63n(1000)).
			MustBuild()
	}

	source, err := iterator.NewListIterator(desc, rows)
	if err != nil {
		return err
	}

	return runInTx(store, func(tx *transaction.TransactionContext) error {
		insert, err := dml.NewInsertOperator(tx, source, tableID, store, store, dml.WithMetrics(metrics))
		if err != nil {
			return err
		}
		_, err = iterator.Drain(insert)
		return err
	})
}

// query runs SELECT customer, SUM(amount) WHERE amount > threshold GROUP BY customer.
func query(store *memory.Store, tableID primitives.TableID, registry *statistics.Registry, config Configuration, metrics *monitoring.ExecutionMetrics) error {
	return runInTx(store, func(tx *transaction.TransactionContext) error {
		return runQuery(store, tx, tableID, registry, config, metrics)
	})
}

func runQuery(store *memory.Store, tx *transaction.TransactionContext, tableID primitives.TableID, registry *statistics.Registry, config Configuration, metrics *monitoring.ExecutionMetrics) error {
	scan, err := memory.NewSeqScan(store, tx, tableID)
	if err != nil {
		return err
	}
	pred, err := execution.NewPredicate(1, primitives.GreaterThan, types.NewIntField(config.Threshold))
	if err != nil {
		return err
	}
	filter, err := execution.NewFilter(pred, scan)
	if err != nil {
		return err
	}
	agg, err := aggregation.NewAggregateOperator(filter, 1, 0, aggregation.Sum, aggregation.WithMetrics(metrics))
	if err != nil {
		return err
	}

	estimator := optimizer.NewCardinalityEstimator(optimizer.NewSelectivityEstimator(registry))
	estimated := estimator.EstimateCardinality(filter)

	matched, err := iterator.Drain(filter)
	if err != nil {
		return err
	}
	results, err := iterator.Drain(agg)
	if err != nil {
		return err
	}

	fmt.Println(debugui.RenderLabel("filter", pred.String()))
	fmt.Println(debugui.RenderLabel("estimated rows", fmt.Sprint(estimated)))
	fmt.Println(debugui.RenderLabel("actual rows", fmt.Sprint(len(matched))))

	data := make([][]string, len(results))
	for i, row := range results {
		name, _ := row.GetField(0)
		sum, _ := row.GetField(1)
		data[i] = []string{name.String(), sum.String()}
	}
	fmt.Println(debugui.RenderTable([]string{"customer", "SUM(amount)"}, data))
	return nil
}

func printMetrics(reader *sdkmetric.ManualReader) error {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		return err
	}

	var data [][]string
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			data = append(data, []string{m.Name, fmt.Sprint(total)})
		}
	}
	fmt.Println(debugui.RenderTable([]string{"metric", "value"}, data))
	return nil
}

// runInTx runs fn in a new transaction. It commits when fn succeeds and
// rolls back otherwise. A failed commit is rolled back and returned.
func runInTx(store *memory.Store, fn func(tx *transaction.TransactionContext) error) error {
	tx := transaction.NewTransactionContext(nil)
	if err := fn(tx); err != nil {
		if abortErr := store.Abort(tx); abortErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, abortErr)
		}
		return err
	}
	if err := store.Commit(tx); err != nil {
		if abortErr := store.Abort(tx); abortErr != nil {
			return fmt.Errorf("commit failed: %w (rollback failed: %v)", err, abortErr)
		}
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}
