package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/user/oculus-guard/internal/logger"
)

// Manager handles settings operations.
type Manager struct {
	mu           sync.RWMutex
	settings     Settings
	settingsPath string
}

// NewManager creates a new settings manager.
func NewManager(settingsPath string) *Manager {
	return &Manager{
		settingsPath: settingsPath,
	}
}

// Open creates a manager and loads the settings file.
func Open(settingsPath string) *Manager {
	m := NewManager(settingsPath)
	m.Load()
	return m
}

// Load reads settings from file. A missing or unreadable file leaves the
// defaults in place; it is never fatal.
func (m *Manager) Load() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings = Settings{}

	data, err := os.ReadFile(m.settingsPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warning("Failed to read settings %s: %v", m.settingsPath, err)
		}
		return
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		logger.Warning("Ignoring corrupt settings %s: %v", m.settingsPath, err)
		return
	}
	s.CustomExecutablePath = strings.TrimSpace(s.CustomExecutablePath)
	m.settings = s
}

// Save writes settings to file.
func (m *Manager) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saveUnsafe()
}

func (m *Manager) saveUnsafe() error {
	dir := filepath.Dir(m.settingsPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := yaml.Marshal(m.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(m.settingsPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}

// Get returns a copy of the current settings.
func (m *Manager) Get() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// Path returns the settings file location.
func (m *Manager) Path() string {
	return m.settingsPath
}

// OverridePath returns the saved custom executable path, or "".
func (m *Manager) OverridePath() string {
	return m.Get().CustomExecutablePath
}

// SaveOverridePath stores path as the custom executable path. An empty path
// clears the override.
func (m *Manager) SaveOverridePath(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.CustomExecutablePath = strings.TrimSpace(path)
	return m.saveUnsafe()
}
