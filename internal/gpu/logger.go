package gpu

import (
	"log/slog"
	"sync/atomic"

	"cubeviewer/internal/logging"
)

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(logging.Nop())
}

// SetLogger configures the logger used for shader compile logs and missing
// uniforms. By default gpu produces no log output. Pass nil to silence it again.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = logging.Nop()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
