package service

import "sync"

// EventServerPublish is emitted every time a server publishes its state.
const EventServerPublish = "publish"

// Event is one registry change notification.
type Event struct {
	Type   string `json:"type"`
	Server string `json:"server"`
	Name   string `json:"name"`
	Games  int    `json:"games"`
}

// Broadcaster fans registry events out to subscribers. Slow subscribers
// lose events instead of blocking publishes.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[chan Event]struct{}),
	}
}

// Subscribe registers a new listener. The returned cancel func must be
// called to release it.
func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Broadcast delivers an event to every subscriber that can take it.
func (b *Broadcaster) Broadcast(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
