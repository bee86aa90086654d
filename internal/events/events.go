package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventUserSignedUp     = "user_signed_up"
	EventUserLoggedIn     = "user_logged_in"
	EventUserLoggedOut    = "user_logged_out"
	EventSearchPerformed  = "search_performed"
	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
)

// BookingEventPayload describes the minimal booking snapshot for event consumers.
type BookingEventPayload struct {
	BookingID  int64     `json:"booking_id"`
	UserID     int64     `json:"user_id"`
	WorkerID   int64     `json:"worker_id"`
	WorkerName string    `json:"worker_name"`
	Status     string    `json:"status"`
	Date       time.Time `json:"date"`
}

// SearchEventPayload carries the submitted query and the result size.
type SearchEventPayload struct {
	Service  string `json:"service"`
	Location string `json:"location"`
	Results  int    `json:"results"`
}

// UserEventPayload identifies the account an auth event concerns.
type UserEventPayload struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

// Event represents a lightweight domain event.
type Event struct {
	ID        int64
	Type      string
	Payload   []byte
	CreatedAt time.Time
	Processed bool
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
