package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// LogLevel represents logging verbosity
type LogLevel string

const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

// ParseLevel maps a flag value such as "debug" or "WARN" to a LogLevel.
// An empty value is INFO.
func ParseLevel(s string) (LogLevel, error) {
	switch l := LogLevel(strings.ToUpper(strings.TrimSpace(s))); l {
	case "":
		return LevelInfo, nil
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return l, nil
	default:
		return "", fmt.Errorf("unknown log level %q", s)
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config holds logger configuration
type Config struct {
	Level  LogLevel
	Format string    // "json" or "text"
	Writer io.Writer // stderr when nil
}

var (
	current atomic.Pointer[slog.Logger]
	initMu  sync.Mutex
	inited  bool
)

// Init installs the process-wide logger. It fails when Init already ran;
// call Close first to reinitialize.
func Init(config Config) error {
	initMu.Lock()
	defer initMu.Unlock()

	if inited {
		return fmt.Errorf("logger already initialized; call Close() first to reinitialize")
	}
	current.Store(newLogger(config))
	inited = true
	return nil
}

func newLogger(config Config) *slog.Logger {
	w := config.Writer
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: config.Level.slogLevel()}
	if config.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Close drops the installed logger. Later calls fall back to the default.
func Close() {
	initMu.Lock()
	defer initMu.Unlock()

	current.Store(nil)
	inited = false
}

// GetLogger returns the installed logger, or an INFO text logger on stderr
// when Init has not run.
func GetLogger() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}

	l := newLogger(Config{})
	if !current.CompareAndSwap(nil, l) {
		if installed := current.Load(); installed != nil {
			return installed
		}
	}
	return l
}
