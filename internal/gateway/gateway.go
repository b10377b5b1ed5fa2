// Package gateway exposes the boundary abstraction for transmitting a text
// message through an SMS provider.
package gateway

import (
	"context"
	"fmt"
)

// Delivery states reported by providers. Real providers return final states
// asynchronously; the engine only records the id from the synchronous send.
const (
	StatusQueued    = "queued"
	StatusDelivered = "delivered"
)

// Receipt is the tagged result of a successful send.
type Receipt struct {
	ProviderID string
	Status     string
}

// DeliveryError carries the provider's error detail for a rejected or
// failed send.
type DeliveryError struct {
	Detail string
	Err    error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("delivery failed: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("delivery failed: %s", e.Detail)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Gateway is the contract for an SMS delivery implementation.
type Gateway interface {
	// Send transmits a message to the given recipient and returns the
	// provider-assigned receipt. Failures are *DeliveryError values.
	Send(ctx context.Context, to, body string) (Receipt, error)

	// Health checks whether the provider is reachable and usable.
	Health(ctx context.Context) error
}
