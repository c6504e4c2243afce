package state

import "sync"

type Listener func(Snapshot)

// Dispatcher delivers snapshots to subscribers.
type Dispatcher interface {
	Subscribe(l Listener) (unsubscribe func())
	Publish(s Snapshot)
}

// Broadcaster calls every listener synchronously, in registration order.
type Broadcaster struct {
	mu        sync.Mutex
	next      int
	listeners []subscription
}

type subscription struct {
	id int
	fn Listener
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

func (b *Broadcaster) Subscribe(l Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	id := b.next
	b.listeners = append(b.listeners, subscription{id: id, fn: l})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, sub := range b.listeners {
			if sub.id == id {
				b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

func (b *Broadcaster) Publish(s Snapshot) {
	b.mu.Lock()
	listeners := make([]subscription, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.Unlock()

	for _, sub := range listeners {
		sub.fn(s)
	}
}
