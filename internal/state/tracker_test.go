package state

import (
	"context"
	"errors"
	"testing"
)

type fakeHandle struct {
	name     string
	released int
}

func (h *fakeHandle) Release() error {
	h.released++
	return nil
}

func TestTracker_Lifecycle(t *testing.T) {
	tr := NewTracker[string]()
	if snap := tr.Snapshot(); snap.Status != StatusIdle {
		t.Fatalf("initial status = %v, want idle", snap.Status)
	}

	_, ticket := tr.Begin(context.Background())
	if snap := tr.Snapshot(); !snap.Loading() || snap.Seq != ticket.Seq() {
		t.Fatalf("after Begin = %+v, want loading seq %d", snap, ticket.Seq())
	}

	if !tr.Resolve(ticket, "meow", nil) {
		t.Fatalf("Resolve returned false for current ticket")
	}
	snap := tr.Snapshot()
	if snap.Status != StatusSuccess || snap.Value != "meow" || !snap.HasValue || snap.Err != nil {
		t.Fatalf("after Resolve = %+v, want success meow", snap)
	}

	_, ticket = tr.Begin(context.Background())
	boom := errors.New("boom")
	tr.Resolve(ticket, "", boom)
	snap = tr.Snapshot()
	if snap.Status != StatusError || !errors.Is(snap.Err, boom) || snap.HasValue {
		t.Fatalf("after error = %+v, want error without value", snap)
	}
}

func TestTracker_StaleResolveIsDiscarded(t *testing.T) {
	tr := NewTracker[*fakeHandle]()

	oldCtx, oldTicket := tr.Begin(context.Background())
	_, newTicket := tr.Begin(context.Background())

	if oldCtx.Err() == nil {
		t.Fatalf("superseded request context not cancelled")
	}

	fresh := &fakeHandle{name: "fresh"}
	if !tr.Resolve(newTicket, fresh, nil) {
		t.Fatalf("Resolve(new) returned false")
	}

	stale := &fakeHandle{name: "stale"}
	if tr.Resolve(oldTicket, stale, nil) {
		t.Fatalf("Resolve(old) returned true, want stale result discarded")
	}
	if stale.released != 1 {
		t.Fatalf("stale released %d times, want 1", stale.released)
	}
	if got := tr.Snapshot().Value; got != fresh {
		t.Fatalf("Value = %+v, want fresh handle", got)
	}
	if fresh.released != 0 {
		t.Fatalf("fresh handle released early")
	}
}

func TestTracker_SupersededValueReleased(t *testing.T) {
	tr := NewTracker[*fakeHandle]()

	first := &fakeHandle{name: "first"}
	_, ticket := tr.Begin(context.Background())
	tr.Resolve(ticket, first, nil)

	second := &fakeHandle{name: "second"}
	_, ticket = tr.Begin(context.Background())
	if first.released != 0 {
		t.Fatalf("value released on Begin, want it kept until replaced")
	}
	tr.Resolve(ticket, second, nil)

	if first.released != 1 {
		t.Fatalf("first released %d times, want 1", first.released)
	}
	if second.released != 0 {
		t.Fatalf("second released %d times, want 0", second.released)
	}
}

func TestTracker_CloseReleasesAndDiscards(t *testing.T) {
	tr := NewTracker[*fakeHandle]()

	current := &fakeHandle{}
	_, ticket := tr.Begin(context.Background())
	tr.Resolve(ticket, current, nil)

	ctx, pending := tr.Begin(context.Background())
	tr.Close()
	tr.Close()

	if current.released != 1 {
		t.Fatalf("current released %d times, want 1", current.released)
	}
	if ctx.Err() == nil {
		t.Fatalf("in-flight context not cancelled on Close")
	}
	late := &fakeHandle{}
	if tr.Resolve(pending, late, nil) {
		t.Fatalf("Resolve after Close returned true")
	}
	if late.released != 1 {
		t.Fatalf("late value not released after Close")
	}
	if tr.Snapshot().HasValue {
		t.Fatalf("snapshot keeps value after Close")
	}
}

func TestTracker_SubscribeSeesTransitions(t *testing.T) {
	tr := NewTracker[int]()
	var statuses []Status
	tr.Subscribe(func(s Snapshot[int]) { statuses = append(statuses, s.Status) })

	_, ticket := tr.Begin(context.Background())
	tr.Resolve(ticket, 1, nil)

	if len(statuses) != 2 || statuses[0] != StatusLoading || statuses[1] != StatusSuccess {
		t.Fatalf("statuses = %v, want [loading success]", statuses)
	}
}

func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		StatusIdle:    "idle",
		StatusLoading: "loading",
		StatusSuccess: "success",
		StatusError:   "error",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Fatalf("Status(%d).String() = %q, want %q", s, got, want)
		}
	}
}
