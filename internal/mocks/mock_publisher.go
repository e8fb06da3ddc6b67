package mocks

import (
	"context"
	"sync"

	"github.com/bookstub/bms/internal/events"
)

// MockPublisher records published events in memory. Safe for concurrent use
// because handlers publish from background goroutines.
type MockPublisher struct {
	mu        sync.Mutex
	Created   []events.BookingEvent
	Cancelled []events.BookingEvent
	Err       error
}

func (m *MockPublisher) BookingCreated(_ context.Context, event events.BookingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	m.Created = append(m.Created, event)
	return nil
}

func (m *MockPublisher) BookingCancelled(_ context.Context, event events.BookingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	m.Cancelled = append(m.Cancelled, event)
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

func (m *MockPublisher) CreatedEvents() []events.BookingEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]events.BookingEvent(nil), m.Created...)
}

func (m *MockPublisher) CancelledEvents() []events.BookingEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]events.BookingEvent(nil), m.Cancelled...)
}
