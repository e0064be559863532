package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/questtrack/refsync/internal/core/domain"
	"github.com/questtrack/refsync/internal/core/ports/driven"
	"github.com/questtrack/refsync/internal/logger"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is a file-based implementation of driven.ConfigStore using
// TOML. Settings are stored in a TOML file within the refsync config
// directory; missing keys fall back to defaults.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	settings domain.Settings

	watcher *fsnotify.Watcher
	subs    map[int]chan domain.Settings
	nextSub int
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.refsync/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".refsync")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		settings: domain.DefaultSettings(),
		subs:     make(map[int]chan domain.Settings),
		done:     make(chan struct{}),
	}

	if err := s.Reload(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}
	s.watcher = watcher

	// Watch the directory rather than the file: editors replace files on
	// save, which would drop a watch on the file itself.
	if err := watcher.Add(configDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching config directory: %w", err)
	}

	s.wg.Add(1)
	go s.watch()

	return s, nil
}

// Settings returns the current, normalised settings.
func (s *ConfigStore) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Reload re-reads the configuration file. A missing file leaves the
// defaults in place.
func (s *ConfigStore) Reload() error {
	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("reading config file: %w", err)
		}
	} else if err := toml.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	settings.Normalise()

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	return nil
}

// Subscribe returns a channel receiving the new settings after each reload
// triggered by a file change, and a cancel function.
func (s *ConfigStore) Subscribe() (<-chan domain.Settings, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan domain.Settings, 1)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Save persists the current settings to disk.
func (s *ConfigStore) Save() error {
	s.mu.RLock()
	settings := s.settings
	s.mu.RUnlock()

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// Close stops the file watcher and releases all subscriptions.
func (s *ConfigStore) Close() error {
	close(s.done)
	err := s.watcher.Close()
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	return err
}

// watch reloads settings when the config file changes and notifies
// subscribers.
func (s *ConfigStore) watch() {
	defer s.wg.Done()

	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.filePath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.Reload(); err != nil {
				logger.Warn("Config reload failed: %v", err)
				continue
			}
			s.notify()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Config watcher error: %v", err)
		}
	}
}

// notify pushes the current settings to all subscribers without blocking.
func (s *ConfigStore) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- s.settings:
		default:
			// Drop the stale pending update and queue the latest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s.settings:
			default:
			}
		}
	}
}
