package service

import (
	"sync"

	"task_tracker/internal/models"
)

// subscriberBuffer bounds how far a slow websocket client can lag before
// events are dropped for it.
const subscriberBuffer = 16

// Broker fans task events out to per-user subscribers. Publishing never
// blocks: a subscriber with a full buffer misses the event.
type Broker struct {
	mu   sync.Mutex
	subs map[int]map[chan models.TaskEvent]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]map[chan models.TaskEvent]struct{})}
}

var _ Events = (*Broker)(nil)

// Subscribe registers a listener for one user's task events. The returned
// cancel func must be called to release the subscription; it closes the
// channel.
func (b *Broker) Subscribe(userID int) (<-chan models.TaskEvent, func()) {
	ch := make(chan models.TaskEvent, subscriberBuffer)

	b.mu.Lock()
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[chan models.TaskEvent]struct{})
	}
	b.subs[userID][ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if set, ok := b.subs[userID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(b.subs, userID)
			}
		}
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber of the given user.
func (b *Broker) Publish(userID int, ev models.TaskEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[userID] {
		select {
		case ch <- ev:
		default: // subscriber too slow, drop
		}
	}
}
