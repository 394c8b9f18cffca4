package logging

import (
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
)

var (
	globalLogger arbor.ILogger
	loggerMutex  sync.RWMutex
)

// New returns a console logger at the given level ("debug", "info", ...).
func New(level string) arbor.ILogger {
	if level == "" {
		level = "info"
	}
	return arbor.NewLogger().WithConsoleWriter(models.WriterConfiguration{
		Type:             models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString(level)
}

// Init builds the process logger once at startup.
func Init(level string) arbor.ILogger {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	globalLogger = New(level)
	return globalLogger
}

// Get returns the process logger, creating an info-level one if Init was
// never called.
func Get() arbor.ILogger {
	loggerMutex.RLock()
	l := globalLogger
	loggerMutex.RUnlock()
	if l != nil {
		return l
	}

	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	if globalLogger == nil {
		globalLogger = New("info")
	}
	return globalLogger
}

// Discard is for tests: a logger with no writers.
func Discard() arbor.ILogger {
	return arbor.NewLogger()
}
