// Package settings manages the AI endpoint configuration: persisted
// through the repository, optionally overridden from a watched YAML file
// so operators can rotate credentials without a restart.
package settings

import (
	"context"
	"os"
	"sync"

	"tripboard-backend/internal/domain"
	"tripboard-backend/internal/repository"
	appErrors "tripboard-backend/pkg/errors"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Manager holds the live AI config. Unlike graph mutations, config
// changes are persisted immediately, not debounced.
type Manager struct {
	mu      sync.RWMutex
	config  domain.AIConfig
	repo    repository.Repository
	logger  *zap.Logger
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewManager creates a settings manager backed by the repository
func NewManager(repo repository.Repository, logger *zap.Logger) *Manager {
	return &Manager{
		repo:   repo,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Load pulls the persisted config. A missing record leaves the zero
// config in place.
func (m *Manager) Load(ctx context.Context) error {
	cfg, err := m.repo.LoadAIConfig(ctx)
	if err != nil {
		return appErrors.Wrap(err, "failed to load AI config")
	}
	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()
	return nil
}

// AIConfig returns the current config
func (m *Manager) AIConfig() domain.AIConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Update replaces the config and persists it immediately
func (m *Manager) Update(ctx context.Context, cfg domain.AIConfig) error {
	if err := m.repo.SaveAIConfig(ctx, cfg); err != nil {
		return appErrors.Wrap(err, "failed to save AI config")
	}
	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()
	m.logger.Info("AI config updated", zap.Bool("configured", cfg.IsConfigured()))
	return nil
}

// Seed fills in fields the persisted config left empty, typically from
// environment variables at startup. Nothing is written back.
func (m *Manager) Seed(cfg domain.AIConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.config.APIKey == "" {
		m.config.APIKey = cfg.APIKey
	}
	if m.config.Model == "" {
		m.config.Model = cfg.Model
	}
	if m.config.BaseURL == "" {
		m.config.BaseURL = cfg.BaseURL
	}
}

type fileSettings struct {
	AI domain.AIConfig `yaml:"ai"`
}

// WatchFile applies the YAML file now and re-applies it whenever it
// changes. File values override persisted ones field by field but are
// never written back to the repository.
func (m *Manager) WatchFile(path string) error {
	if err := m.applyFile(path); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return appErrors.Wrap(err, "failed to create settings watcher")
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return appErrors.Wrap(err, "failed to watch settings file")
	}
	m.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					if err := m.applyFile(path); err != nil {
						m.logger.Warn("settings file reload failed", zap.String("path", path), zap.Error(err))
					} else {
						m.logger.Info("settings file reloaded", zap.String("path", path))
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				m.logger.Warn("settings watcher error", zap.Error(err))
			case <-m.done:
				return
			}
		}
	}()
	return nil
}

func (m *Manager) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return appErrors.Wrap(err, "failed to read settings file")
	}
	var parsed fileSettings
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return appErrors.Wrap(err, "failed to parse settings file")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if parsed.AI.APIKey != "" {
		m.config.APIKey = parsed.AI.APIKey
	}
	if parsed.AI.Model != "" {
		m.config.Model = parsed.AI.Model
	}
	if parsed.AI.BaseURL != "" {
		m.config.BaseURL = parsed.AI.BaseURL
	}
	return nil
}

// Close stops the file watcher if one is running
func (m *Manager) Close() error {
	close(m.done)
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}
