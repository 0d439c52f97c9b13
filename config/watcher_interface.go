package config

// Watcher is anything that can hand out the current configuration and
// publish reloads.
type Watcher interface {
	GetCurrentConfig() *Config
	Subscribe() <-chan *Config
	Close() error
}
