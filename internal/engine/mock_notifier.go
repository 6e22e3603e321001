package engine

import (
	"context"
	"fmt"
	"sync"
)

// MockNotifier is a test double for the Notifier contract. It records every
// send and can be scripted to fail for specific destinations.
type MockNotifier struct {
	failFor map[string]error
	Sent    []MockSend
	mu      sync.Mutex
}

// MockSend is one recorded delivery.
type MockSend struct {
	Destination string
	Text        string
}

// NewMockNotifier creates a mock that accepts every send.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{
		failFor: make(map[string]error),
	}
}

// FailFor makes sends to the given destination return the given error.
func (m *MockNotifier) FailFor(destination string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		err = fmt.Errorf("send to %s failed", destination)
	}
	m.failFor[destination] = err
}

// Send implements service.Notifier.
func (m *MockNotifier) Send(_ context.Context, destination, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.failFor[destination]; ok {
		return err
	}

	m.Sent = append(m.Sent, MockSend{Destination: destination, Text: text})
	return nil
}

// SentTo returns how many messages were delivered to a destination.
func (m *MockNotifier) SentTo(destination string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, s := range m.Sent {
		if s.Destination == destination {
			count++
		}
	}
	return count
}
