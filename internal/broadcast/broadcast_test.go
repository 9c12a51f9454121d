// v0
// internal/broadcast/broadcast_test.go
package broadcast

import (
	"testing"
	"time"

	"nrgchamp/animeitor/internal/domain"
)

func TestRunsBroadcastReplayThenLiveNoGapNoDup(t *testing.T) {
	b := NewRunsBroadcast(100)

	b.Publish(domain.Run{ID: 1})
	b.Publish(domain.Run{ID: 2})

	sub := b.Subscribe()
	defer sub.Close()

	if len(sub.Replay) != 2 {
		t.Fatalf("expected 2 replayed runs, got %d", len(sub.Replay))
	}

	b.Publish(domain.Run{ID: 3})

	select {
	case r := <-sub.Live:
		if r.ID != 3 {
			t.Fatalf("expected live run 3, got %d", r.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for live run")
	}
}

func TestRunsBroadcastRingCapacityBounded(t *testing.T) {
	b := NewRunsBroadcast(3)
	for i := 0; i < 10; i++ {
		b.Publish(domain.Run{ID: domain.RunID(i)})
	}

	sub := b.Subscribe()
	defer sub.Close()

	if len(sub.Replay) != 3 {
		t.Fatalf("expected ring capped at 3, got %d", len(sub.Replay))
	}
	if sub.Replay[0].ID != 7 {
		t.Fatalf("expected oldest retained run to be 7, got %d", sub.Replay[0].ID)
	}
}

func TestRunsBroadcastPublishNonBlockingOnFullSubscriber(t *testing.T) {
	b := NewRunsBroadcast(10)
	sub := b.Subscribe()
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer+50; i++ {
			b.Publish(domain.Run{ID: domain.RunID(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}

func TestRunsBroadcastSubscribersShareTotalOrder(t *testing.T) {
	b := NewRunsBroadcast(100)
	b.Publish(domain.Run{ID: 1})

	subA := b.Subscribe()
	defer subA.Close()
	b.Publish(domain.Run{ID: 2})
	subB := b.Subscribe()
	defer subB.Close()
	b.Publish(domain.Run{ID: 3})

	collect := func(replay []domain.Run, live <-chan domain.Run, want int) []domain.RunID {
		ids := make([]domain.RunID, 0, want)
		for _, r := range replay {
			ids = append(ids, r.ID)
		}
		for len(ids) < want {
			select {
			case r := <-live:
				ids = append(ids, r.ID)
			case <-time.After(time.Second):
				t.Fatalf("timed out collecting runs, have %v", ids)
			}
		}
		return ids
	}

	a := collect(subA.Replay, subA.Live, 3)
	bb := collect(subB.Replay, subB.Live, 3)
	for i := range a {
		if a[i] != bb[i] {
			t.Fatalf("subscribers diverged at %d: %v vs %v", i, a, bb)
		}
		if a[i] != domain.RunID(i+1) {
			t.Fatalf("expected publish order 1,2,3, got %v", a)
		}
	}
}

func TestTimerBroadcastSuppressesDuplicates(t *testing.T) {
	b := NewTimerBroadcast()
	sub := b.Subscribe()
	defer sub.Close()

	td := domain.TimerData{CurrentTime: 10, ScoreFreezeTime: 100}
	b.Publish(td)
	b.Publish(td) // duplicate, must not be forwarded again

	select {
	case got := <-sub.Live:
		if got != td {
			t.Fatalf("expected %+v, got %+v", td, got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for first publish")
	}

	select {
	case got := <-sub.Live:
		t.Fatalf("expected no second delivery for duplicate value, got %+v", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTimerBroadcastDeliversDistinctValues(t *testing.T) {
	b := NewTimerBroadcast()
	sub := b.Subscribe()
	defer sub.Close()

	b.Publish(domain.TimerData{CurrentTime: 1, ScoreFreezeTime: 100})
	b.Publish(domain.TimerData{CurrentTime: 2, ScoreFreezeTime: 100})

	first := <-sub.Live
	second := <-sub.Live
	if first.CurrentTime != 1 || second.CurrentTime != 2 {
		t.Fatalf("expected distinct ticks in order, got %+v then %+v", first, second)
	}
}
