package events

import (
	"context"
	"time"
)

// Event types
const (
	EventOrderPlaced          = "order_placed"
	EventOrderStatusUpdated   = "order_status_updated"
	EventOrderCancelled       = "order_cancelled"
	EventBookingCreated       = "booking_created"
	EventBookingStatusUpdated = "booking_status_updated"
	EventBookingCancelled     = "booking_cancelled"
	EventPaymentVerified      = "payment_verified"
	EventPaymentRefunded      = "payment_refunded"
)

type Event struct {
	Event string      `json:"event"`
	Key   string      `json:"key"`
	Data  interface{} `json:"data"`
	At    time.Time   `json:"at"`
}

func New(eventType, key string, data interface{}) Event {
	return Event{Event: eventType, Key: key, Data: data, At: time.Now().UTC()}
}

// Publisher delivers domain events. Implementations must not block the request for long
// and must never turn a delivery problem into a request failure.
type Publisher interface {
	Publish(ctx context.Context, evt Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

// Nop drops every event.
var Nop Publisher = nopPublisher{}

// Multi fans out to every non-nil publisher.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, evt Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(ctx, evt)
		}
	}
}

// Recorder keeps published events in memory; handy in tests.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, evt Event) {
	r.Events = append(r.Events, evt)
}

func (r *Recorder) Types() []string {
	types := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		types = append(types, e.Event)
	}
	return types
}
