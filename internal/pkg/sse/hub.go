package sse

import (
	"sync"
)

// Event is a server-sent event delivered to deviation stream subscribers.
type Event struct {
	Event string
	Data  interface{}
}

// Hub fans deviation events out to HR subscribers. Subscribers either watch
// a single employee or the whole stream.
type Hub struct {
	mu         sync.RWMutex
	byEmployee map[string]map[chan Event]struct{}
	firehose   map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		byEmployee: make(map[string]map[chan Event]struct{}),
		firehose:   make(map[chan Event]struct{}),
	}
}

// Subscribe registers a subscriber for a single employee's events and
// returns the event channel plus a cleanup function.
func (h *Hub) Subscribe(employeeID string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)
	if h.byEmployee[employeeID] == nil {
		h.byEmployee[employeeID] = make(map[chan Event]struct{})
	}
	h.byEmployee[employeeID][ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.byEmployee[employeeID], ch)
		close(ch)
		if len(h.byEmployee[employeeID]) == 0 {
			delete(h.byEmployee, employeeID)
		}
	}
	return ch, cleanup
}

// SubscribeAll registers a subscriber for every employee's events.
func (h *Hub) SubscribeAll() (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)
	h.firehose[ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.firehose, ch)
		close(ch)
	}
	return ch, cleanup
}

// Publish delivers an event to the employee's subscribers and the firehose.
// Delivery is non-blocking; slow subscribers miss events rather than stall
// the publisher.
func (h *Hub) Publish(employeeID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.byEmployee[employeeID] {
		select {
		case ch <- event:
		default:
		}
	}
	for ch := range h.firehose {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers, firehose included.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := len(h.firehose)
	for _, subs := range h.byEmployee {
		total += len(subs)
	}
	return total
}
