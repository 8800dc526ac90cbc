// Package audit records admission decisions and call outcomes.
// The in-memory log is a bounded ring; an optional JSONL sink with
// SHA-256 hash chaining provides the durable, tamper-evident record.
package audit

import (
	"sync"
	"time"
)

// DefaultRetention is the ring capacity used when none is configured.
const DefaultRetention = 1000

// TimestampFormat is the layout used in audit entry timestamps.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Log is an append-only, capacity-bounded audit log. Entries are
// immutable once recorded; when the ring is full the oldest entry is
// dropped to admit the newest. Safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	start   int // index of the oldest entry
	count   int
	sink    *Sink
	now     func() time.Time
}

// NewLog creates a log retaining at most retention entries.
// A retention <= 0 falls back to DefaultRetention.
func NewLog(retention int) *Log {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Log{
		entries: make([]Entry, retention),
		now:     time.Now,
	}
}

// WithSink attaches a durable file sink. Sink write failures are
// swallowed: audit is best-effort and must never fail a request.
func (l *Log) WithSink(s *Sink) *Log {
	l.sink = s
	return l
}

// Record appends an entry, stamping the timestamp if empty.
func (l *Log) Record(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e.Timestamp == "" {
		e.Timestamp = l.now().UTC().Format(TimestampFormat)
	}

	if l.count == len(l.entries) {
		l.entries[l.start] = e
		l.start = (l.start + 1) % len(l.entries)
	} else {
		l.entries[(l.start+l.count)%len(l.entries)] = e
		l.count++
	}

	if l.sink != nil {
		_ = l.sink.Write(e)
	}
}

// Query returns retained entries in chronological order, optionally
// filtered by category. A limit <= 0 means no limit; otherwise the
// most recent limit entries are returned (still oldest-first).
func (l *Log) Query(category string, limit int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, 0, l.count)
	for i := 0; i < l.count; i++ {
		e := l.entries[(l.start+i)%len(l.entries)]
		if category != "" && e.Category != category {
			continue
		}
		out = append(out, e)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Len reports the number of retained entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}
