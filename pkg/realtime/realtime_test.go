package realtime

import (
	"sync"
	"testing"
	"time"
)

func TestHubBroadcast(t *testing.T) {
	h := NewHub(1)
	id1, ch1 := h.Register()
	id2, ch2 := h.Register()
	if h.Size() != 2 {
		t.Fatalf("Size = %d", h.Size())
	}

	h.Broadcast(NewReloadEvent(map[string]int{"vocabulary": 3}))
	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Type != EventReload || ev.Sizes["vocabulary"] != 3 {
				t.Errorf("unexpected event %+v", ev)
			}
		default:
			t.Error("listener missed event")
		}
	}

	// Full buffers drop instead of blocking.
	h.Broadcast(NewReloadEvent(nil))
	h.Broadcast(NewReloadEvent(nil))
	if len(ch1) != 1 {
		t.Errorf("buffer holds %d events, want 1", len(ch1))
	}

	h.Unregister(id1)
	h.Unregister(id1)
	if _, ok := <-ch1; !ok {
		t.Error("expected the buffered event before close")
	}
	if _, ok := <-ch1; ok {
		t.Error("channel not closed after Unregister")
	}
	h.Unregister(id2)
	if h.Size() != 0 {
		t.Errorf("Size = %d after unregister", h.Size())
	}
}

func TestNewReloadEventSizesNonNil(t *testing.T) {
	if NewReloadEvent(nil).Sizes == nil {
		t.Error("Sizes should be non-nil")
	}
}

type emitted struct {
	seq    uint64
	query  string
	result string
}

type recorder struct {
	mu     sync.Mutex
	out    []emitted
	called chan struct{}
}

func newRecorder() *recorder { return &recorder{called: make(chan struct{}, 16)} }

func (r *recorder) emit(seq uint64, query, result string) {
	r.mu.Lock()
	r.out = append(r.out, emitted{seq, query, result})
	r.mu.Unlock()
	r.called <- struct{}{}
}

func (r *recorder) all() []emitted {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]emitted(nil), r.out...)
}

func upper(q string) string { return "result:" + q }

func TestDebouncerCoalesces(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(50*time.Millisecond, upper, rec.emit)
	defer d.Stop()

	for _, q := range []string{"k", "ko", "kot"} {
		d.Submit(q)
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-rec.called:
	case <-time.After(2 * time.Second):
		t.Fatal("search never emitted")
	}
	time.Sleep(150 * time.Millisecond)

	got := rec.all()
	if len(got) != 1 {
		t.Fatalf("expected 1 emit, got %+v", got)
	}
	if got[0].seq != 3 || got[0].query != "kot" || got[0].result != "result:kot" {
		t.Errorf("emitted %+v", got[0])
	}
}

func TestDebouncerDropsSupersededResult(t *testing.T) {
	rec := newRecorder()
	started := make(chan struct{})
	release := make(chan struct{})

	var d *Debouncer[string]
	search := func(q string) string {
		if q == "slow" {
			close(started)
			<-release
		}
		return upper(q)
	}
	d = NewDebouncer(10*time.Millisecond, search, rec.emit)
	defer d.Stop()

	d.Submit("slow")
	<-started
	// A newer query arrives while the slow search runs.
	d.Submit("fast")
	close(release)

	select {
	case <-rec.called:
	case <-time.After(2 * time.Second):
		t.Fatal("no emit")
	}
	time.Sleep(50 * time.Millisecond)

	got := rec.all()
	if len(got) != 1 || got[0].query != "fast" {
		t.Errorf("expected only the latest query to emit, got %+v", got)
	}
}

func TestDebouncerSlowEmitDoesNotBlockSubmit(t *testing.T) {
	inEmit := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var queries []string

	d := NewDebouncer(10*time.Millisecond, upper, func(_ uint64, q, _ string) {
		mu.Lock()
		queries = append(queries, q)
		first := len(queries) == 1
		mu.Unlock()
		if first {
			close(inEmit)
			<-release
		}
	})
	defer d.Stop()

	d.Submit("kot")
	<-inEmit

	submitted := make(chan uint64, 1)
	go func() { submitted <- d.Submit("pies") }()
	select {
	case seq := <-submitted:
		if seq != 2 {
			t.Errorf("Submit = %d, want 2", seq)
		}
	case <-time.After(time.Second):
		t.Fatal("Submit blocked while emit was running")
	}
	close(release)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(queries)
		mu.Unlock()
		if n == 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(queries) != 2 || queries[1] != "pies" {
		t.Errorf("emitted queries %v", queries)
	}
}

func TestDebouncerResubmitAndStop(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer(10*time.Millisecond, upper, rec.emit)

	if _, ok := d.Resubmit(); ok {
		t.Error("Resubmit before any Submit should report false")
	}

	d.Submit("dom")
	<-rec.called
	seq, ok := d.Resubmit()
	if !ok || seq != 2 {
		t.Fatalf("Resubmit = %d, %v", seq, ok)
	}
	<-rec.called
	if got := rec.all(); len(got) != 2 || got[1].query != "dom" || got[1].seq != 2 {
		t.Errorf("emitted %+v", got)
	}

	d.Stop()
	d.Submit("after stop")
	time.Sleep(50 * time.Millisecond)
	if len(rec.all()) != 2 {
		t.Error("emit after Stop")
	}
	if d.Latest() != 3 {
		t.Errorf("Latest = %d", d.Latest())
	}
}

func TestDebouncerDefaultDelay(t *testing.T) {
	d := NewDebouncer(0, upper, func(uint64, string, string) {})
	if d.delay != DefaultDelay {
		t.Errorf("delay = %v", d.delay)
	}
}
