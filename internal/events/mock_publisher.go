package events

import (
	"context"
	"log/slog"
	"sync"
)

// MockEventPublisher records events in memory for tests.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []*Event
	logger *slog.Logger
	closed bool
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{logger: logger}
}

func (p *MockEventPublisher) Publish(ctx context.Context, event *Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)
	p.logger.Debug("Mock event published", "event_id", event.ID, "event_type", event.Type)
	return nil
}

// GetPublishedEvents returns a copy of everything published so far.
func (p *MockEventPublisher) GetPublishedEvents() []*Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]*Event, len(p.events))
	copy(out, p.events)
	return out
}

func (p *MockEventPublisher) ClearEvents() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

func (p *MockEventPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
