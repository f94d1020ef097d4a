package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"coursedeck/internal/eventbus"
)

// coalesced event types only matter in their latest form
var coalesced = map[eventbus.EventType]bool{
	eventbus.EventFilterChanged:     true,
	eventbus.EventQueryStateChanged: true,
}

// EventForwarder moves bus events onto the program. Push never blocks and
// never drops: filter and query states replace their queued predecessor,
// everything else is delivered in order.
type EventForwarder struct {
	mu      sync.Mutex
	queue   []eventbus.DomainEvent
	pending map[eventbus.EventType]int
	wake    chan struct{}
}

// NewEventForwarder creates an empty forwarder
func NewEventForwarder() *EventForwarder {
	return &EventForwarder{
		pending: make(map[eventbus.EventType]int),
		wake:    make(chan struct{}, 1),
	}
}

// Push queues e for delivery. It is safe to call from bus handlers.
func (f *EventForwarder) Push(e eventbus.DomainEvent) {
	f.mu.Lock()
	if coalesced[e.Type()] {
		if i, ok := f.pending[e.Type()]; ok {
			f.queue[i] = nil
		}
		f.pending[e.Type()] = len(f.queue)
	}
	f.queue = append(f.queue, e)
	f.mu.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
	}
}

// Run delivers queued events through send until done is closed
func (f *EventForwarder) Run(done <-chan struct{}, send func(tea.Msg)) {
	for {
		select {
		case <-f.wake:
			for _, e := range f.drain() {
				send(EventMsg{Event: e})
			}
		case <-done:
			return
		}
	}
}

func (f *EventForwarder) drain() []eventbus.DomainEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]eventbus.DomainEvent, 0, len(f.queue))
	for _, e := range f.queue {
		if e != nil {
			out = append(out, e)
		}
	}
	f.queue = f.queue[:0]
	clear(f.pending)
	return out
}
