package solver

import (
	"io"
	"log"
)

var (
	opsLogger   *log.Logger
	diagLogger  *log.Logger
	traceLogger *log.Logger
)

// SetLogWriters configures the logging streams for the solver package.
// Pass nil for any writer to disable that stream. The trace stream receives
// every state's value and action after each sweep and is only meant for
// small grids.
func SetLogWriters(ops, diag, trace io.Writer) {
	opsLogger = newLogger("[solver] ", ops)
	diagLogger = newLogger("[solver] ", diag)
	traceLogger = newLogger("[solver] ", trace)
}

func newLogger(prefix string, w io.Writer) *log.Logger {
	if w == nil {
		return nil
	}
	return log.New(w, prefix, log.LstdFlags|log.Lmicroseconds)
}

func opsf(format string, args ...interface{}) {
	if opsLogger != nil {
		opsLogger.Printf(format, args...)
	}
}

func diagf(format string, args ...interface{}) {
	if diagLogger != nil {
		diagLogger.Printf(format, args...)
	}
}

func tracef(format string, args ...interface{}) {
	if traceLogger != nil {
		traceLogger.Printf(format, args...)
	}
}

func tracing() bool { return traceLogger != nil }
