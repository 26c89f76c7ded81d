package logging

import (
	"log/slog"
)

// WithTx creates a logger with transaction context.
// Use this to automatically include transaction ID in all logs.
//
// Example:
//
//	log := logging.WithTx(tx.ID.ID())
//	log.Info("starting drain")
//	log.Debug("processing", "rows", count)
func WithTx(txID int64) *slog.Logger {
	return GetLogger().With("tx_id", txID)
}

// WithTable creates a logger with table context.
//
// Example:
//
//	log := logging.WithTable(uint64(tableID))
//	log.Info("statistics built", "tuples", n)
func WithTable(tableID uint64) *slog.Logger {
	return GetLogger().With("table_id", tableID)
}

// WithTableTx creates a logger with both transaction and table context.
//
// Example:
//
//	log := logging.WithTableTx(txID, uint64(tableID))
//	log.Info("inserting rows", "count", 10)
func WithTableTx(txID int64, tableID uint64) *slog.Logger {
	return GetLogger().With("tx_id", txID, "table_id", tableID)
}

// WithOperator creates a logger tagged with a physical operator name
// ("insert", "delete", "aggregate", ...).
func WithOperator(name string) *slog.Logger {
	return GetLogger().With("operator", name)
}

// WithColumn creates a logger with table and column context, used while
// building per-column statistics.
func WithColumn(tableID uint64, column int) *slog.Logger {
	return GetLogger().With("table_id", tableID, "column", column)
}

// WithComponent creates a logger with component/subsystem context.
//
// Example:
//
//	log := logging.WithComponent("statistics")
//	log.Info("component initialized")
func WithComponent(component string) *slog.Logger {
	return GetLogger().With("component", component)
}

// WithError creates a logger with error context.
// Use this when logging errors to include the error in structured format.
//
// Example:
//
//	log := logging.WithError(err)
//	log.Error("operation failed", "operation", "insert")
func WithError(err error) *slog.Logger {
	return GetLogger().With("error", err.Error())
}
