package progress

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Reporter receives progress of a batch operation.
// Implementations must be safe for concurrent Increment calls.
type Reporter interface {
	Start(total int)
	Increment(delta int)
	Finish()
}

// Noop discards all progress.
type Noop struct{}

func (Noop) Start(int)     {}
func (Noop) Increment(int) {}
func (Noop) Finish()       {}

// Tracker prints a single updating progress line to a writer.
type Tracker struct {
	writer         io.Writer
	unit           string
	reportInterval int

	mu           sync.Mutex
	total        int
	current      int
	lastReported int
	startTime    time.Time
	started      bool
	now          func() time.Time
}

var _ Reporter = (*Tracker)(nil)

// NewTracker creates a tracker that reports every reportInterval items.
// unit names the items in the rate, e.g. "emails".
func NewTracker(writer io.Writer, unit string, reportInterval int) *Tracker {
	if reportInterval < 1 {
		reportInterval = 1
	}
	return &Tracker{
		writer:         writer,
		unit:           unit,
		reportInterval: reportInterval,
		now:            time.Now,
	}
}

// Start resets the tracker for a run of total items.
func (p *Tracker) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.current = 0
	p.lastReported = 0
	p.startTime = p.now()
	p.started = true
}

// Increment records delta completed items.
func (p *Tracker) Increment(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.current = min(p.current+delta, p.total)
	if p.current-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.current
	}
}

// Finish prints the final line. Items that never reported stay uncounted.
func (p *Tracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.report()
	fmt.Fprintln(p.writer)
	p.started = false
}

// Elapsed returns the time since Start.
func (p *Tracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}
	return p.now().Sub(p.startTime)
}

// report must be called with the lock held.
func (p *Tracker) report() {
	rate := 0.0
	if elapsed := p.now().Sub(p.startTime).Seconds(); elapsed > 0 {
		rate = float64(p.current) / elapsed
	}

	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rProgress: %d/%d (%.1f%%) - %.1f %s/s",
		p.current, p.total, percentage, rate, p.unit)
}
