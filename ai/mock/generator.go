package mock

import (
	"context"
	"strings"
	"sync/atomic"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// CompleteFunc is called by Complete if set.
	// If nil, uses default canned behavior.
	CompleteFunc func(ctx context.Context, system, user string) (string, error)

	callCount atomic.Int64
}

// NewMockGenerator creates a mock generator with default canned behavior.
// Note: Returns concrete type to allow test assertions via GetMockGenerator().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Complete returns a canned answer derived from the user prompt.
// Default behavior: echoes the first line of the user prompt so tests can
// verify prompt plumbing without a live model.
func (m *MockGenerator) Complete(ctx context.Context, system, user string) (string, error) {
	m.callCount.Add(1)

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, system, user)
	}

	// Honour context cancellation so timeout tests behave like a real client.
	if err := ctx.Err(); err != nil {
		return "", err
	}

	firstLine := user
	if idx := strings.IndexByte(user, '\n'); idx >= 0 {
		firstLine = user[:idx]
	}
	return "Mock answer regarding: " + strings.TrimSpace(firstLine), nil
}

// CallCount returns the number of times Complete was called.
func (m *MockGenerator) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and any injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount.Store(0)
	m.CompleteFunc = nil
}
