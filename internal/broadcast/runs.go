// v0
// internal/broadcast/runs.go
package broadcast

import (
	"sync"

	"nrgchamp/animeitor/internal/domain"
)

// subscriberBuffer is the per-subscriber queue capacity. A slow
// subscriber that falls this far behind starts dropping events.
const subscriberBuffer = 256

// RunsBroadcast is the memoising runs fan-out: it keeps a
// capacity-bounded ring of the most recently published runs so a new
// subscriber can replay history before switching to live delivery with
// no gap and no duplicate, then forwards every future Publish to every
// subscriber's own channel. All subscribers observe runs in the order
// Publish was called.
type RunsBroadcast struct {
	mu          sync.Mutex
	ring        []domain.Run
	ringCap     int
	subscribers map[int]chan domain.Run
	nextID      int
}

// NewRunsBroadcast builds a broadcast retaining up to ringCapacity of the
// most recent published runs for replay.
func NewRunsBroadcast(ringCapacity int) *RunsBroadcast {
	if ringCapacity <= 0 {
		ringCapacity = 4096
	}
	return &RunsBroadcast{
		ringCap:     ringCapacity,
		subscribers: make(map[int]chan domain.Run),
	}
}

// Publish appends run to the ring and forwards it to every live
// subscriber. Publish never blocks: a subscriber whose channel is full
// loses this event.
func (b *RunsBroadcast) Publish(run domain.Run) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.ring = append(b.ring, run)
	if len(b.ring) > b.ringCap {
		b.ring = append([]domain.Run(nil), b.ring[len(b.ring)-b.ringCap:]...)
	}
	for _, ch := range b.subscribers {
		select {
		case ch <- run:
		default:
		}
	}
}

// Subscription is a live handle returned by Subscribe: Replay holds the
// ring's runs from before the subscription started, Live streams runs
// published afterward with no gap and no duplicate at the switch-over
// from Replay. A subscriber whose Live buffer is full misses runs (see
// Publish).
type Subscription struct {
	Replay []domain.Run
	Live   <-chan domain.Run
	cancel func()
}

// Close releases the subscription's channel.
func (s *Subscription) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Subscribe registers a new subscriber, snapshotting the current ring as
// Replay before any future Publish can reach the returned Live channel —
// the snapshot-then-register happens under the same lock, so no publish
// can land between them and be silently skipped or duplicated.
func (b *RunsBroadcast) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	replay := append([]domain.Run(nil), b.ring...)
	ch := make(chan domain.Run, subscriberBuffer)
	id := b.nextID
	b.nextID++
	b.subscribers[id] = ch

	return &Subscription{
		Replay: replay,
		Live:   ch,
		cancel: func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if existing, ok := b.subscribers[id]; ok {
				delete(b.subscribers, id)
				close(existing)
			}
		},
	}
}

// SubscriberCount reports how many live subscribers are registered.
func (b *RunsBroadcast) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}
