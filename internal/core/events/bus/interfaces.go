package bus

import "time"

// EventBus is a synchronous in-process pub/sub bus used by the simulation
// to announce what happened during a tick.
//
// Publish calls the handlers subscribed to the event type in the caller
// goroutine, in subscription order, and joins their errors. All methods are
// safe for concurrent use.
type EventBus interface {
	Publish(event Event) error

	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels sub. Nil is allowed.
	Unsubscribe(sub Subscription) error

	AddObserver(obs Observer)
	RemoveObserver(obs Observer)
	Metrics() Metrics
}

// Event is a read-only message. Tick is the simulation tick it was raised
// in; zero means outside the tick loop.
type Event interface {
	Type() string
	Source() string
	Tick() uint64
	Timestamp() time.Time
	Data() any
}

type EventHandler func(event Event) error

type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel is idempotent.
	Cancel() error
}

// Observer sees every publish. Implementations should return quickly.
type Observer interface {
	OnPublish(event Event)
	OnDelivered(event Event, handlers int, err error, took time.Duration)
}

type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}
