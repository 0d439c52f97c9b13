package mocks

import (
	"sync"
	"sync/atomic"

	"github.com/teilomillet/legalease/config"
)

var _ config.Watcher = (*MockConfigWatcher)(nil)

// MockConfigWatcher stands in for config.ConfigWatcher in tests of code
// that follows reloads, such as the log level. Reloads are triggered by
// calling UpdateConfig instead of editing a file.
type MockConfigWatcher struct {
	current atomic.Pointer[config.Config]

	mu     sync.Mutex
	subs   []chan *config.Config
	closed bool
}

// NewMockConfigWatcher starts the watcher with cfg as the current config.
func NewMockConfigWatcher(cfg *config.Config) *MockConfigWatcher {
	w := &MockConfigWatcher{}
	w.current.Store(cfg)
	return w
}

func (w *MockConfigWatcher) GetCurrentConfig() *config.Config {
	return w.current.Load()
}

// Subscribe returns a channel primed with the current config. After Close
// it returns a closed channel.
func (w *MockConfigWatcher) Subscribe() <-chan *config.Config {
	ch := make(chan *config.Config, 1)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		close(ch)
		return ch
	}
	ch <- w.current.Load()
	w.subs = append(w.subs, ch)
	return ch
}

// UpdateConfig stores cfg and hands it to every subscriber. A value the
// subscriber has not read yet is replaced, so the latest config always
// arrives.
func (w *MockConfigWatcher) UpdateConfig(cfg *config.Config) {
	w.current.Store(cfg)

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ch := range w.subs {
		select {
		case <-ch:
		default:
		}
		ch <- cfg
	}
}

// Close ends every subscription.
func (w *MockConfigWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	for _, ch := range w.subs {
		close(ch)
	}
	w.subs = nil
	return nil
}
