package driven

import "github.com/questtrack/refsync/internal/core/domain"

// ConfigStore provides access to the persisted configuration.
type ConfigStore interface {
	// Settings returns the current, normalised settings.
	Settings() domain.Settings

	// Reload re-reads the configuration from its backing source.
	Reload() error

	// Subscribe returns a channel that receives the new settings whenever
	// the backing source changes, and a cancel function that releases the
	// subscription.
	Subscribe() (<-chan domain.Settings, func())

	// Close releases any resources held by the store.
	Close() error
}
