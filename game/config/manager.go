package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wricardo/motor-tycoon-game/game/engine"
	"github.com/wricardo/motor-tycoon-game/game/service"
)

// Manager loads and caches balance-config presets from a directory of JSON
// files. It implements service.ConfigManager.
type Manager struct {
	configDir string
	cache     map[string]*engine.BalanceConfig
	mu        sync.RWMutex
}

// NewManager creates a config manager over the given directory.
func NewManager(configDir string) *Manager {
	return &Manager{
		configDir: configDir,
		cache:     make(map[string]*engine.BalanceConfig),
	}
}

// LoadConfig loads a preset by name, using the cache when possible.
func (m *Manager) LoadConfig(name string) (*engine.BalanceConfig, error) {
	name = strings.TrimSuffix(name, ".json")
	if name == "" {
		return m.GetDefault(), nil
	}

	m.mu.RLock()
	cached, ok := m.cache[name]
	m.mu.RUnlock()
	if ok {
		return cached, nil
	}

	path := filepath.Join(m.configDir, name+".json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration not found: %s", name)
	}

	config, err := engine.LoadBalanceConfig(path)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	// Re-check under the write lock in case another goroutine loaded it.
	if existing, ok := m.cache[name]; ok {
		m.mu.Unlock()
		return existing, nil
	}
	m.cache[name] = config
	m.mu.Unlock()

	return config, nil
}

// ListConfigs scans the config directory for available presets.
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		if os.IsNotExist(err) {
			def := m.GetDefault()
			return []*service.ConfigInfo{{ConfigID: def.Name, Name: def.Name, Description: def.Description}}, nil
		}
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var infos []*service.ConfigInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		config, err := m.LoadConfig(id)
		if err != nil {
			continue
		}
		infos = append(infos, &service.ConfigInfo{
			ConfigID:    id,
			Name:        config.Name,
			Description: config.Description,
		})
	}
	if len(infos) == 0 {
		def := m.GetDefault()
		infos = append(infos, &service.ConfigInfo{ConfigID: def.Name, Name: def.Name, Description: def.Description})
	}
	return infos, nil
}

// GetDefault returns the built-in standard rules.
func (m *Manager) GetDefault() *engine.BalanceConfig {
	return engine.DefaultBalanceConfig()
}
