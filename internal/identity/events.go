package identity

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType names an auth-state change.
type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

// Event is delivered to subscribers after a session is created or revoked.
type Event struct {
	Type   EventType
	UserID uuid.UUID
	At     time.Time
}

type subscriber struct {
	id int
	fn func(Event)
}

type notifier struct {
	mu   sync.RWMutex
	next int
	subs []subscriber
}

func newNotifier() *notifier {
	return &notifier{}
}

func (n *notifier) subscribe(fn func(Event)) func() {
	n.mu.Lock()
	id := n.next
	n.next++
	n.subs = append(n.subs, subscriber{id: id, fn: fn})
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			for i, sub := range n.subs {
				if sub.id == id {
					n.subs = append(n.subs[:i:i], n.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// publish calls subscribers synchronously in subscription order, outside the lock.
func (n *notifier) publish(evt Event) {
	n.mu.RLock()
	fns := make([]func(Event), 0, len(n.subs))
	for _, sub := range n.subs {
		fns = append(fns, sub.fn)
	}
	n.mu.RUnlock()
	for _, fn := range fns {
		fn(evt)
	}
}
