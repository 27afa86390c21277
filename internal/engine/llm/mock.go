package llm

import (
	"context"
)

// MockClient is a test double for llm.Client.
type MockClient struct {
	Result []Hint
	Err    error
}

// Explain returns the configured result and error.
func (m *MockClient) Explain(_ context.Context, _ string) ([]Hint, error) {
	return m.Result, m.Err
}
