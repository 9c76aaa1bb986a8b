package id3

import "go.uber.org/zap"

// logger is a no-op unless the caller installs one with SetLogger.
var logger = zap.NewNop()

// SetLogger installs a logger used for diagnostics such as frames
// skipped during a partial read. Passing nil restores the no-op
// logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
