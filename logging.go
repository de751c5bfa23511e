package settings

import "time"

// WriteLogEvent describes one gated write attempt for logging.
type WriteLogEvent struct {
	Operation Operation
	Scope     OptionScope
	Name      string
	Keys      []string
	Denied    bool
	Duration  time.Duration
	Err       error
}

// WriteLogger records write attempts, including denied and failed ones.
type WriteLogger interface {
	LogWrite(WriteLogEvent)
}

// WriteLoggerFunc adapts a function to WriteLogger.
type WriteLoggerFunc func(WriteLogEvent)

// LogWrite implements WriteLogger.
func (f WriteLoggerFunc) LogWrite(event WriteLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopWriteLogger struct{}

func (noopWriteLogger) LogWrite(WriteLogEvent) {}

// WithLogger attaches a write logger to the store.
func WithLogger(logger WriteLogger) StoreOption {
	return func(cfg *storeConfig) {
		if logger == nil {
			cfg.logger = noopWriteLogger{}
			return
		}
		cfg.logger = logger
	}
}
