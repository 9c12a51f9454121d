// v0
// internal/broadcast/timer.go
package broadcast

import (
	"sync"

	"nrgchamp/animeitor/internal/domain"
)

// TimerBroadcast fans out TimerData to every subscriber. A full
// subscriber channel silently misses a tick rather than blocking the
// publisher. Unlike RunsBroadcast it keeps no replay history: a new
// subscriber only sees ticks published after it joins.
type TimerBroadcast struct {
	mu          sync.Mutex
	last        domain.TimerData
	hasLast     bool
	subscribers map[int]chan domain.TimerData
	nextID      int
}

// NewTimerBroadcast builds an empty timer broadcast.
func NewTimerBroadcast() *TimerBroadcast {
	return &TimerBroadcast{subscribers: make(map[int]chan domain.TimerData)}
}

// Publish forwards t to every subscriber, but only if it differs from
// the last value published: duplicate consecutive timer values are
// suppressed at the source, not just on the wire.
func (b *TimerBroadcast) Publish(t domain.TimerData) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.hasLast && b.last.Equal(t) {
		return
	}
	b.last = t
	b.hasLast = true

	for _, ch := range b.subscribers {
		select {
		case ch <- t:
		default:
		}
	}
}

// TimerSubscription is a live handle returned by Subscribe.
type TimerSubscription struct {
	Live   <-chan domain.TimerData
	cancel func()
}

// Close releases the subscription's channel.
func (s *TimerSubscription) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Subscribe registers a new timer subscriber.
func (b *TimerBroadcast) Subscribe() *TimerSubscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan domain.TimerData, subscriberBuffer)
	id := b.nextID
	b.nextID++
	b.subscribers[id] = ch

	return &TimerSubscription{
		Live: ch,
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
func (b *TimerBroadcast) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}
