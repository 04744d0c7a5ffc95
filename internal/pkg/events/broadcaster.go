package events

import (
	"sync"

	"harvesthaven/internal/domain"
)

type Observer func(domain.ListingEvent)

// Broadcaster fans listing-store mutations out to registered observers.
// Observers run synchronously on the publishing goroutine, in registration order.
type Broadcaster struct {
	mu        sync.RWMutex
	nextID    int
	observers map[int]Observer
	order     []int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{observers: make(map[int]Observer)}
}

// Subscribe registers fn and returns a function that removes it again.
func (b *Broadcaster) Subscribe(fn Observer) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.observers[id] = fn
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.observers, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (b *Broadcaster) Publish(ev domain.ListingEvent) {
	b.mu.RLock()
	fns := make([]Observer, 0, len(b.order))
	for _, id := range b.order {
		fns = append(fns, b.observers[id])
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.observers)
}
