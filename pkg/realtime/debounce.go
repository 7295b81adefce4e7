package realtime

import (
	"sync"
	"time"
)

// DefaultDelay is how long input must be stable before a search runs.
const DefaultDelay = 300 * time.Millisecond

// Debouncer runs a search once input has been stable for a delay and hands
// the result to emit, but only while the query is still the latest one
// submitted. Results of superseded queries are dropped.
//
// emit calls are serialized, so emit may write to a connection that allows a
// single writer. A slow emit never blocks Submit.
type Debouncer[R any] struct {
	delay  time.Duration
	search func(query string) R
	emit   func(seq uint64, query string, result R)

	// emitMu serializes emit calls; mu guards the fields below it.
	emitMu sync.Mutex

	mu      sync.Mutex
	seq     uint64
	query   string
	timer   *time.Timer
	stopped bool
}

// NewDebouncer returns a Debouncer. A delay <= 0 uses DefaultDelay.
func NewDebouncer[R any](delay time.Duration, search func(string) R, emit func(uint64, string, R)) *Debouncer[R] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer[R]{delay: delay, search: search, emit: emit}
}

// Submit records query as the latest input and returns its sequence number.
// Any pending search for an earlier query is cancelled.
func (d *Debouncer[R]) Submit(query string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	seq := d.seq
	d.query = query
	if d.stopped {
		return seq
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq, query) })
	return seq
}

// Resubmit searches the latest query again, for example after the data it
// searches changed. It returns false when nothing was submitted yet.
func (d *Debouncer[R]) Resubmit() (uint64, bool) {
	d.mu.Lock()
	query, seen := d.query, d.seq > 0
	d.mu.Unlock()
	if !seen {
		return 0, false
	}
	return d.Submit(query), true
}

// Latest returns the sequence number of the most recent Submit.
func (d *Debouncer[R]) Latest() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq
}

func (d *Debouncer[R]) current(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.stopped && d.seq == seq
}

func (d *Debouncer[R]) fire(seq uint64, query string) {
	if !d.current(seq) {
		return
	}
	result := d.search(query)

	d.emitMu.Lock()
	defer d.emitMu.Unlock()
	if !d.current(seq) {
		return
	}
	d.emit(seq, query, result)
}

// Stop cancels any pending search. Later submits are ignored.
func (d *Debouncer[R]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
