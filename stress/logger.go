package stress

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Logger receives the human-readable run summary. Implementations must be
// safe for use from a single goroutine per Stressor invocation; the
// Stressor itself never logs concurrently within one run.
type Logger interface {
	Log(message string)
}

// writerLogger writes one line per message to an io.Writer.
type writerLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterLogger returns a Logger that writes each message as a line to w.
func NewWriterLogger(w io.Writer) Logger {
	if w == nil {
		w = io.Discard
	}
	return &writerLogger{w: w}
}

func (l *writerLogger) Log(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, message)
}

// defaultLogger is the console-backed logger used when the caller
// provides none.
func defaultLogger() Logger {
	return NewWriterLogger(os.Stdout)
}
