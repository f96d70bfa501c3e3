package progress

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock advances one second per reading.
func fakeClock() func() time.Time {
	t := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTestTracker(buf *bytes.Buffer, interval int) *Tracker {
	tr := NewTracker(buf, "emails", interval)
	tr.now = fakeClock()
	return tr
}

func TestTracker_Basic(t *testing.T) {
	var buf bytes.Buffer
	tracker := newTestTracker(&buf, 10)

	tracker.Start(100)
	tracker.Increment(25)
	tracker.Increment(25)
	tracker.Increment(50)

	assert.Greater(t, tracker.Elapsed(), time.Duration(0))

	output := buf.String()
	assert.Contains(t, output, "25/100 (25.0%)")
	assert.Contains(t, output, "100/100 (100.0%)")
	assert.Contains(t, output, "emails/s")
}

func TestTracker_ReportInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := newTestTracker(&buf, 10)

	tracker.Start(100)
	for i := 0; i < 9; i++ {
		tracker.Increment(1)
	}
	assert.Empty(t, buf.String(), "below interval should not report")

	tracker.Increment(1)
	assert.Contains(t, buf.String(), "10/100")
}

func TestTracker_Finish(t *testing.T) {
	var buf bytes.Buffer
	tracker := newTestTracker(&buf, 10)

	tracker.Start(30)
	tracker.Increment(28)
	tracker.Finish()

	output := buf.String()
	assert.Contains(t, output, "28/30", "finish reports what completed")
	assert.True(t, strings.HasSuffix(output, "\n"))
	assert.Equal(t, time.Duration(0), tracker.Elapsed(), "finished tracker is stopped")
}

func TestTracker_ZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := newTestTracker(&buf, 10)

	tracker.Start(0)
	tracker.Finish()

	assert.Contains(t, buf.String(), "0/0 (0.0%)")
}

func TestTracker_IncrementBeyondTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := newTestTracker(&buf, 1)

	tracker.Start(10)
	tracker.Increment(15)

	assert.Contains(t, buf.String(), "10/10")
	assert.NotContains(t, buf.String(), "15/10")
}

func TestTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := newTestTracker(&buf, 1)

	tracker.Increment(5)
	tracker.Finish()

	assert.Empty(t, buf.String())
	assert.Equal(t, time.Duration(0), tracker.Elapsed())
}

func TestTracker_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	tracker := newTestTracker(&buf, 1000)

	tracker.Start(100)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Increment(1)
		}()
	}
	wg.Wait()
	tracker.Finish()

	assert.Contains(t, buf.String(), "100/100")
}

func TestNoop(t *testing.T) {
	var r Reporter = Noop{}
	r.Start(3)
	r.Increment(1)
	r.Finish()
}
