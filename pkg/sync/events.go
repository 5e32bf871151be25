package sync

import (
	"sync"

	"github.com/google/uuid"

	"github.com/study/monero-wallet-core/pkg/storage"
)

// EventKind tags which fields of an Event are populated.
type EventKind int

const (
	EventSyncStateChanged EventKind = iota
	EventProgressUpdate
	EventOutputReceived
	EventReorgDetected
)

// Event is one entry in the engine's broadcast stream. Events for block
// height h are always emitted before events for height h+1, per §5's
// ordering guarantee.
type Event struct {
	Kind EventKind

	State State // EventSyncStateChanged

	Current uint64 // EventProgressUpdate
	Target  uint64 // EventProgressUpdate

	Output storage.OwnedOutput // EventOutputReceived

	FromHeight uint64 // EventReorgDetected
	ToHeight   uint64 // EventReorgDetected
}

// eventBus is a multi-consumer broadcast stream. Delivery to a slow
// subscriber is not guaranteed lossless: per §6, overflow resolves
// newest-wins by dropping the oldest queued event for that subscriber
// rather than blocking the publisher or dropping the new one.
type eventBus struct {
	mu      sync.Mutex
	subs    map[uuid.UUID]chan Event
	bufSize int
}

func newEventBus(bufSize int) *eventBus {
	return &eventBus{subs: make(map[uuid.UUID]chan Event), bufSize: bufSize}
}

// subscribe registers a new consumer and returns its channel plus an
// unsubscribe function. The channel is closed once unsubscribe runs.
func (b *eventBus) subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.New()
	ch := make(chan Event, b.bufSize)
	b.subs[id] = ch

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
	return ch, unsubscribe
}

func (b *eventBus) publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			// Full: drop the oldest queued event for this subscriber and
			// retry once, newest-wins.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- e:
			default:
			}
		}
	}
}
