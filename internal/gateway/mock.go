package gateway

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

var _ Gateway = (*Mock)(nil)

// Mock is an in-process Gateway for development and tests. Send returns a
// deterministically generated provider id with status queued; a scheduled
// task owned by the Mock flips the record to delivered after a fixed delay.
//
// The delayed flip never blocks or fails Send. Pending flips can be forced
// with Flush or cancelled with Close, so tests don't need to sleep.
type Mock struct {
	delay time.Duration

	mu      sync.Mutex
	counter int
	sent    []MockMessage
	status  map[string]string
	timers  map[string]*time.Timer
}

// MockMessage records one message accepted by the mock gateway.
type MockMessage struct {
	ProviderID string
	To         string
	Body       string
	QueuedAt   time.Time
}

// NewMock creates a mock gateway whose deliveries complete after delay.
func NewMock(delay time.Duration) *Mock {
	return &Mock{
		delay:  delay,
		status: make(map[string]string),
		timers: make(map[string]*time.Timer),
	}
}

// Send accepts the message immediately and schedules the delivery flip.
func (m *Mock) Send(ctx context.Context, to, body string) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, &DeliveryError{Detail: "send cancelled", Err: err}
	}

	m.mu.Lock()
	m.counter++
	id := fmt.Sprintf("mock_%d_%d", m.counter, time.Now().Unix())
	m.sent = append(m.sent, MockMessage{
		ProviderID: id,
		To:         to,
		Body:       body,
		QueuedAt:   time.Now(),
	})
	m.status[id] = StatusQueued
	m.timers[id] = time.AfterFunc(m.delay, func() {
		m.deliver(id, to)
	})
	m.mu.Unlock()

	preview := body
	if len(preview) > 50 {
		preview = preview[:50]
	}
	log.Printf("[MockGateway] SMS queued to %s: %s...", to, preview)

	return Receipt{ProviderID: id, Status: StatusQueued}, nil
}

// Health always succeeds; there is no network dependency.
func (m *Mock) Health(ctx context.Context) error {
	return ctx.Err()
}

func (m *Mock) deliver(id, to string) {
	m.mu.Lock()
	if m.status[id] != StatusQueued {
		m.mu.Unlock()
		return
	}
	m.status[id] = StatusDelivered
	delete(m.timers, id)
	m.mu.Unlock()

	log.Printf("[MockGateway] SMS delivered to %s (%s)", to, id)
}

// Status returns the current delivery status for a provider id.
func (m *Mock) Status(providerID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.status[providerID]
	return s, ok
}

// Sent returns a copy of every message accepted so far, in send order.
func (m *Mock) Sent() []MockMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// Flush fires every pending delivery immediately. Intended for tests that
// need deterministic delivered states without waiting out the delay.
func (m *Mock) Flush() {
	m.mu.Lock()
	pending := make([]string, 0, len(m.timers))
	for id, t := range m.timers {
		t.Stop()
		pending = append(pending, id)
	}
	for _, id := range pending {
		m.status[id] = StatusDelivered
		delete(m.timers, id)
	}
	m.mu.Unlock()
}

// Close cancels all pending delivery flips without marking them delivered.
func (m *Mock) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.timers {
		t.Stop()
		delete(m.timers, id)
	}
}
