package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

var _ Watcher = (*ConfigWatcher)(nil)

// ConfigWatcher reloads the configuration file whenever it changes on disk
// and fans the new value out to subscribers.
type ConfigWatcher struct {
	current    atomic.Pointer[Config]
	configPath string
	watcher    *fsnotify.Watcher
	logger     *zap.Logger

	mu          sync.Mutex
	subscribers []chan *Config
	done        chan struct{}
}

// NewConfigWatcher loads configPath and starts watching it. The parent
// directory is watched so editors that replace the file by rename are seen.
func NewConfigWatcher(configPath string, logger *zap.Logger) (*ConfigWatcher, error) {
	initial, err := LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("load initial config: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch config dir: %w", err)
	}

	cw := &ConfigWatcher{
		configPath: filepath.Clean(configPath),
		watcher:    watcher,
		logger:     logger,
		done:       make(chan struct{}),
	}
	cw.current.Store(initial)

	go cw.watch()
	return cw, nil
}

// Subscribe returns a channel receiving every successfully reloaded config.
// Slow subscribers miss intermediate values.
func (cw *ConfigWatcher) Subscribe() <-chan *Config {
	ch := make(chan *Config, 1)
	cw.mu.Lock()
	cw.subscribers = append(cw.subscribers, ch)
	cw.mu.Unlock()
	return ch
}

// GetCurrentConfig returns the last valid configuration.
func (cw *ConfigWatcher) GetCurrentConfig() *Config {
	return cw.current.Load()
}

func (cw *ConfigWatcher) watch() {
	defer close(cw.done)
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cw.configPath {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				cw.reload()
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Error("config watcher error", zap.Error(err))
		}
	}
}

func (cw *ConfigWatcher) reload() {
	cfg, err := LoadFile(cw.configPath)
	if err != nil {
		// keep serving the previous config
		cw.logger.Error("failed to reload config", zap.String("path", cw.configPath), zap.Error(err))
		return
	}
	cw.current.Store(cfg)

	cw.mu.Lock()
	for _, sub := range cw.subscribers {
		select {
		case sub <- cfg:
		default:
		}
	}
	cw.mu.Unlock()

	cw.logger.Info("configuration reloaded", zap.String("path", cw.configPath))
}

// Close stops watching and closes all subscriber channels.
func (cw *ConfigWatcher) Close() error {
	err := cw.watcher.Close()
	<-cw.done

	cw.mu.Lock()
	for _, sub := range cw.subscribers {
		close(sub)
	}
	cw.subscribers = nil
	cw.mu.Unlock()
	return err
}
