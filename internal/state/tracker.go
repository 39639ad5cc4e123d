package state

import (
	"context"
	"reflect"
	"sync"
	"time"
)

// Status is the lifecycle phase of a tracked fetch.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Releaser is implemented by values that hold resources which must be freed
// once the value is no longer displayed.
type Releaser interface {
	Release() error
}

// Snapshot is the observable state of a Tracker.
type Snapshot[T any] struct {
	Status    Status
	Value     T
	HasValue  bool
	Err       error
	Seq       uint64
	UpdatedAt time.Time
}

// Loading reports whether a request is in flight.
func (s Snapshot[T]) Loading() bool { return s.Status == StatusLoading }

// Ticket identifies one request started with Begin.
type Ticket struct {
	seq uint64
}

// Seq returns the request's sequence number.
func (t Ticket) Seq() uint64 { return t.seq }

// Tracker drives the idle → loading → success|error cycle of a single-shot
// fetch. Each Begin supersedes the previous request: its context is cancelled
// and a late Resolve for it is discarded.
//
// Subscribers run while the tracker is locked and must not call Begin,
// Resolve or Close synchronously.
type Tracker[T any] struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	closed bool
	cell   *Cell[Snapshot[T]]
}

// NewTracker returns an idle tracker.
func NewTracker[T any]() *Tracker[T] {
	return &Tracker[T]{cell: NewCell(Snapshot[T]{})}
}

// Begin starts a new request. The returned context is cancelled when a newer
// request begins or the tracker is closed.
func (t *Tracker[T]) Begin(ctx context.Context) (context.Context, Ticket) {
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	t.seq++
	seq := t.seq
	reqCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	if t.closed {
		cancel()
	}
	t.cell.Update(func(prev Snapshot[T]) Snapshot[T] {
		prev.Status = StatusLoading
		prev.Err = nil
		prev.Seq = seq
		prev.UpdatedAt = time.Now()
		return prev
	})
	t.mu.Unlock()
	return reqCtx, Ticket{seq: seq}
}

// Resolve records the outcome of the request identified by ticket. It
// returns false, releasing value, when a newer request has begun since.
func (t *Tracker[T]) Resolve(ticket Ticket, value T, err error) bool {
	t.mu.Lock()
	if ticket.seq != t.seq || t.closed {
		t.mu.Unlock()
		if err == nil {
			release(value)
		}
		return false
	}
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}

	var previous Snapshot[T]
	next := t.cell.Update(func(prev Snapshot[T]) Snapshot[T] {
		previous = prev
		snap := Snapshot[T]{Seq: ticket.seq, UpdatedAt: time.Now()}
		if err != nil {
			snap.Status = StatusError
			snap.Err = err
		} else {
			snap.Status = StatusSuccess
			snap.Value = value
			snap.HasValue = true
		}
		return snap
	})
	t.mu.Unlock()

	if previous.HasValue && !sameValue(previous.Value, next.Value) {
		release(previous.Value)
	}
	return true
}

// Snapshot returns the current state.
func (t *Tracker[T]) Snapshot() Snapshot[T] {
	return t.cell.Get()
}

// Subscribe registers fn for state changes.
func (t *Tracker[T]) Subscribe(fn func(Snapshot[T])) (cancel func()) {
	return t.cell.Subscribe(fn)
}

// Close cancels any in-flight request, releases the current value and resets
// the tracker to idle. Later Resolve calls are discarded.
func (t *Tracker[T]) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	var previous Snapshot[T]
	t.cell.Update(func(prev Snapshot[T]) Snapshot[T] {
		previous = prev
		return Snapshot[T]{Seq: prev.Seq, UpdatedAt: time.Now()}
	})
	t.mu.Unlock()

	if previous.HasValue {
		release(previous.Value)
	}
}

func release[T any](value T) {
	if r, ok := any(value).(Releaser); ok && r != nil {
		_ = r.Release()
	}
}

func sameValue[T any](a, b T) bool {
	ra, okA := any(a).(Releaser)
	rb, okB := any(b).(Releaser)
	if !okA || !okB || ra == nil || rb == nil {
		return false
	}
	if !reflect.TypeOf(ra).Comparable() || reflect.TypeOf(ra) != reflect.TypeOf(rb) {
		return false
	}
	return ra == rb
}
