package kernel

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// TraceDepth is the number of diagnostic events a Trace retains.
// Older events are overwritten once the buffer is full.
const TraceDepth = 40

// TraceEvent is one diagnostic record: which primitive was involved, a
// summary of its operands as coordinates, and when it happened.
type TraceEvent struct {
	Time   time.Time
	Label  string
	Detail string
}

func (e TraceEvent) String() string {
	return fmt.Sprintf("%s %s: %s", e.Time.Format(time.RFC3339Nano), e.Label, e.Detail)
}

// Trace is a bounded ring buffer of diagnostic events. It is owned by the
// caller and passed into the pipeline explicitly; a nil *Trace is valid and
// discards all events.
//
// Trace is safe for concurrent use, although the pipeline itself is
// single-threaded per build.
type Trace struct {
	mu     sync.Mutex
	events [TraceDepth]TraceEvent
	next   int
	count  int
}

// NewTrace returns an empty trace.
func NewTrace() *Trace { return &Trace{} }

// Record appends an event, evicting the oldest once the buffer is full.
func (t *Trace) Record(label, format string, args ...any) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.events[t.next] = TraceEvent{
		Time:   time.Now(),
		Label:  label,
		Detail: fmt.Sprintf(format, args...),
	}
	t.next = (t.next + 1) % TraceDepth
	if t.count < TraceDepth {
		t.count++
	}
	t.mu.Unlock()
}

// Events returns a copy of the retained events, oldest first.
func (t *Trace) Events() []TraceEvent {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TraceEvent, 0, t.count)
	start := t.next - t.count
	if start < 0 {
		start += TraceDepth
	}
	for i := 0; i < t.count; i++ {
		out = append(out, t.events[(start+i)%TraceDepth])
	}
	return out
}

// Len returns the number of retained events.
func (t *Trace) Len() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

func (t *Trace) String() string {
	events := t.Events()
	if len(events) == 0 {
		return "(empty trace)"
	}
	var b strings.Builder
	for _, e := range events {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
