// Package publisher defines the completion-event publishing contract.
package publisher

import "context"

// Publisher delivers extraction completion events to downstream consumers.
type Publisher interface {
	// Publish sends the payload to the named topic and returns the message ID.
	Publish(ctx context.Context, topic string, payload any) (string, error)
}

// Noop discards every publish. Used when no broker is configured.
type Noop struct{}

// Publish drops the payload and reports success.
func (Noop) Publish(context.Context, string, any) (string, error) {
	return "", nil
}
