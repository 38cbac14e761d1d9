// Package pubsub provides a generic publish/subscribe event system.
// It carries watcher change signals and log entries from background
// goroutines into the Bubble Tea update loop.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// ChangedEvent signals that the watched repository changed on disk.
	ChangedEvent EventType = "changed"
	// LoggedEvent carries a formatted log entry.
	LoggedEvent EventType = "logged"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
