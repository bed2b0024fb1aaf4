package commands

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger   *zap.Logger
	loggerMu sync.Mutex
)

// Logger returns the CLI logger. It is a no-op logger until verbose output
// is enabled.
func Logger() *zap.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// SetLogger replaces the CLI logger.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// enableVerboseLogging installs a development logger at debug level.
func enableVerboseLogging() {
	l, err := zap.NewDevelopment()
	if err != nil {
		return
	}
	SetLogger(l)
}
