package bus

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultHistorySize is the number of recent events to retain for replay.
	DefaultHistorySize = 256
)

// SubscriptionID is a unique identifier for event subscriptions.
type SubscriptionID string

// Handler is a function that handles events
type Handler func(Event)

type subscription struct {
	id        SubscriptionID
	eventType EventType
	handler   Handler
}

// Bus is a pub/sub bus with typed and wildcard subscriptions and a bounded
// event history.
//
// Publish delivers synchronously, in subscription order, on the publisher's
// goroutine. Publishers in this module all run on the scheduler thread, so
// handlers observe state changes in exactly the order they happened and must
// not block.
type Bus struct {
	mu          sync.RWMutex
	subs        []*subscription
	subCounter  uint64
	eventSeq    uint64
	history     []Event
	historySize int
	now         func() time.Time
	closed      bool
}

// NewBus creates a new bus with default history size.
func NewBus() *Bus {
	return NewBusWithConfig(DefaultHistorySize, time.Now)
}

// NewBusWithConfig creates a bus with a custom history size and time source.
func NewBusWithConfig(historySize int, now func() time.Time) *Bus {
	if historySize < 0 {
		historySize = 0
	}
	if now == nil {
		now = time.Now
	}
	return &Bus{
		history:     make([]Event, 0, historySize),
		historySize: historySize,
		now:         now,
	}
}

// Subscribe registers a handler for a specific event type.
// Use EventType("") to subscribe to all events (wildcard).
// Returns a subscription ID that can be used to unsubscribe.
func (b *Bus) Subscribe(eventType EventType, handler Handler) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ""
	}

	b.subCounter++
	id := SubscriptionID(fmt.Sprintf("sub_%d", b.subCounter))
	b.subs = append(b.subs, &subscription{
		id:        id,
		eventType: eventType,
		handler:   handler,
	})
	return id
}

// SubscribeMultiple adds a handler for multiple event types
func (b *Bus) SubscribeMultiple(eventTypes []EventType, handler Handler) []SubscriptionID {
	ids := make([]SubscriptionID, 0, len(eventTypes))
	for _, et := range eventTypes {
		ids = append(ids, b.Subscribe(et, handler))
	}
	return ids
}

// Unsubscribe removes a subscription by ID.
func (b *Bus) Unsubscribe(id SubscriptionID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("bus is closed")
	}
	for i, sub := range b.subs {
		if sub.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("subscription %s not found", id)
}

// Publish stamps the event and delivers it to every matching subscriber.
func (b *Bus) Publish(eventType EventType, payload any) Event {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return Event{}
	}
	b.eventSeq++
	event := Event{
		ID:        b.eventSeq,
		Type:      eventType,
		Timestamp: b.now(),
		Payload:   payload,
	}
	b.addToHistoryLocked(event)

	handlers := make([]Handler, 0, len(b.subs))
	for _, sub := range b.subs {
		if sub.eventType == "" || sub.eventType == eventType {
			handlers = append(handlers, sub.handler)
		}
	}
	b.mu.Unlock()

	for _, handler := range handlers {
		handler(event)
	}
	return event
}

func (b *Bus) addToHistoryLocked(event Event) {
	if b.historySize == 0 {
		return
	}
	b.history = append(b.history, event)
	if len(b.history) > b.historySize {
		b.history = b.history[len(b.history)-b.historySize:]
	}
}

// GetHistory returns a copy of the recent event history.
func (b *Bus) GetHistory() []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]Event, len(b.history))
	copy(result, b.history)
	return result
}

// GetHistorySlice returns the last n events.
func (b *Bus) GetHistorySlice(n int) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if n > len(b.history) {
		n = len(b.history)
	}
	if n < 0 {
		n = 0
	}
	result := make([]Event, n)
	copy(result, b.history[len(b.history)-n:])
	return result
}

// SubscriptionsCount returns the total number of active subscriptions.
func (b *Bus) SubscriptionsCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close drops every subscription. Later publishes are ignored.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("bus already closed")
	}
	b.closed = true
	b.subs = nil
	return nil
}
