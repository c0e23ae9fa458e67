package testutil

import (
	"context"
	"sync"

	"github.com/amimagid/ami-super-app/internal/report"
)

// MockMailer records messages instead of sending them.
type MockMailer struct {
	mu   sync.Mutex
	Sent []*report.Message
	Err  error
}

func (m *MockMailer) Send(_ context.Context, msg *report.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// MockNotifier records published events.
type MockNotifier struct {
	mu     sync.Mutex
	Events []Event
}

type Event struct {
	Type    string
	Payload any
}

func (n *MockNotifier) Publish(eventType string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Events = append(n.Events, Event{Type: eventType, Payload: payload})
}

// Types returns the published event types in order.
func (n *MockNotifier) Types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.Events))
	for i, e := range n.Events {
		out[i] = e.Type
	}
	return out
}
