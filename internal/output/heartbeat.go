package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// Heartbeat prints a periodic one-line progress update so a long stress
// run never goes silent long enough for a CI watchdog to kill the job.
type Heartbeat struct {
	ticker     *time.Ticker
	done       chan struct{}
	finished   chan struct{}
	writer     io.Writer
	active     int32
	start      time.Time
	iterations atomic.Int64
}

// NewHeartbeat creates a heartbeat that writes at the given interval.
func NewHeartbeat(interval time.Duration, writer io.Writer) *Heartbeat {
	if writer == nil {
		writer = io.Discard
	}
	return &Heartbeat{
		ticker:   time.NewTicker(interval),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		writer:   writer,
		start:    time.Now(),
	}
}

// Observe records the latest completed-iteration count. Safe to call from
// concurrent batch workers.
func (h *Heartbeat) Observe(completed int64) {
	h.iterations.Store(completed)
}

// Start begins writing updates in a background goroutine.
func (h *Heartbeat) Start() {
	if !atomic.CompareAndSwapInt32(&h.active, 0, 1) {
		return // already running
	}
	go h.run()
}

// Stop halts updates and waits for the writer goroutine to exit.
func (h *Heartbeat) Stop() {
	if atomic.CompareAndSwapInt32(&h.active, 1, 0) {
		close(h.done)
		h.ticker.Stop()
		<-h.finished
	}
}

func (h *Heartbeat) run() {
	defer close(h.finished)
	for {
		select {
		case <-h.ticker.C:
			elapsed := time.Since(h.start)
			n := h.iterations.Load()
			rate := 0.0
			if elapsed > 0 {
				rate = float64(n) / elapsed.Seconds()
			}
			fmt.Fprintf(h.writer, "Iterations: %d | Elapsed: %s | Rate: %.1f/s\n",
				n, elapsed.Round(time.Millisecond), rate)
		case <-h.done:
			return
		}
	}
}
