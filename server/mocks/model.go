// Package mocks provides test doubles for the model client and the
// configuration watcher.
package mocks

import (
	"context"
	"sync"
)

// MockModel is a scriptable model client. It records every prompt it
// receives.
//
// Example usage:
//
//	model := mocks.NewMockModel(func(ctx context.Context, prompt string) (string, error) {
//	    return `{"summary":"ok","definitions":{}}`, nil
//	})
type MockModel struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

// NewMockModel returns a MockModel using generate. A nil generate replies
// with an empty string.
func NewMockModel(generate func(ctx context.Context, prompt string) (string, error)) *MockModel {
	return &MockModel{GenerateFunc: generate}
}

// NewReplyModel returns a MockModel that always answers reply.
func NewReplyModel(reply string) *MockModel {
	return NewMockModel(func(context.Context, string) (string, error) {
		return reply, nil
	})
}

// Generate records prompt and delegates to GenerateFunc.
func (m *MockModel) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	fn := m.GenerateFunc
	m.mu.Unlock()

	if fn == nil {
		return "", nil
	}
	return fn(ctx, prompt)
}

// Prompts returns a copy of the prompts received so far.
func (m *MockModel) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Calls returns how many times Generate was called.
func (m *MockModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}
