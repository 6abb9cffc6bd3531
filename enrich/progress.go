package enrich

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Tracker reports pipeline progress to a writer (typically os.Stderr).
// Completions arrive out of order from concurrent workers, so the tracker
// only counts them; it is safe for concurrent use.
type Tracker struct {
	mu             sync.Mutex
	writer         io.Writer
	total          int
	completed      int
	reportInterval int
	lastReported   int
	startTime      time.Time
	started        bool
}

// NewTracker creates a progress tracker for total records, reporting every
// reportInterval completions.
func NewTracker(writer io.Writer, total, reportInterval int) *Tracker {
	if reportInterval < 1 {
		reportInterval = 1
	}
	return &Tracker{
		writer:         writer,
		total:          total,
		reportInterval: reportInterval,
	}
}

// Start begins tracking.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.startTime = time.Now()
	t.started = true
	t.completed = 0
	t.lastReported = 0
}

// Increment records delta additional completions, reporting when an interval
// boundary is crossed.
func (t *Tracker) Increment(delta int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return
	}

	t.completed += delta
	if t.completed > t.total {
		t.completed = t.total
	}

	if t.completed-t.lastReported >= t.reportInterval {
		t.report()
		t.lastReported = t.completed
	}
}

// Finish prints the final progress line.
func (t *Tracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return
	}

	t.report()
	fmt.Fprintln(t.writer)
}

// Elapsed returns the time since Start.
func (t *Tracker) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return 0
	}
	return time.Since(t.startTime)
}

// report prints the current progress. Must be called with the lock held.
func (t *Tracker) report() {
	elapsed := time.Since(t.startTime)
	rate := float64(t.completed) / elapsed.Seconds()

	percentage := 0.0
	if t.total > 0 {
		percentage = float64(t.completed) / float64(t.total) * 100.0
	}

	fmt.Fprintf(t.writer, "\rEnriching: %d/%d (%.1f%%) - %.1f faults/s",
		t.completed, t.total, percentage, rate)
}
