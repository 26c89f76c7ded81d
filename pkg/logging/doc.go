// Package logging provides a process-wide structured logger for querycore.
//
// The package wraps [log/slog] and exposes a single global logger instance
// that is initialized once and then retrieved via GetLogger. Operators and
// the statistics collector obtain their logger through this package so that
// log level and output destination are controlled from a single place.
//
// # Initialisation
//
// Call Init once at program startup:
//
//	level, err := logging.ParseLevel(flagValue)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := logging.Init(logging.Config{Level: level, Format: "json"}); err != nil {
//	    log.Fatal(err)
//	}
//
// # Retrieving the logger
//
//	logger := logging.GetLogger()
//	logger.Info("statistics ready", "tables", n)
//
// If GetLogger is called before Init, an INFO text logger on stderr is
// installed lazily.
//
// # Context helpers
//
//	log := logging.WithTx(txID)          // adds tx_id field
//	log := logging.WithTable(tableID)    // adds table_id field
//	log := logging.WithOperator("insert") // adds operator field
package logging
