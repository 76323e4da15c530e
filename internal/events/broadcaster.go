package events

import (
	"sync"
	"sync/atomic"
)

const subscriberBuffer = 100

type Type string

const (
	DisasterOptimizing Type = "disaster.optimizing"
	DisasterOptimized  Type = "disaster.optimized"
	ClassifierProgress Type = "classifier.progress"
	ClassifierIdle     Type = "classifier.idle"
	FormSubmitted      Type = "form.submitted"
	TaskSignup         Type = "volunteer.signup"
)

type Event struct {
	Type Type `json:"type"`
	Data any  `json:"data"`
}

// Publisher is the write side of the Broadcaster.
type Publisher interface {
	Publish(e Event)
}

type Broadcaster struct {
	subscribers map[uint64]chan Event
	nextID      atomic.Uint64
	mu          sync.RWMutex
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]chan Event),
	}
}

func (b *Broadcaster) Subscribe() (uint64, chan Event) {
	id := b.nextID.Add(1)
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()

	return id, ch
}

func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

func (b *Broadcaster) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- e:
		default:
			// Skip slow subscribers
		}
	}
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes all subscriber channels, ending open event streams.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(Event) {}
