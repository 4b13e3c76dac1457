package config

import (
	"sync/atomic"

	"github.com/saiset-co/sai-pipeline/types"
)

type Manager struct {
	config     atomic.Pointer[types.ServiceConfig]
	configPath string
	loader     *Loader
}

func NewManager(configPath string) (*Manager, error) {
	m := &Manager{
		configPath: configPath,
		loader:     NewLoader(),
	}

	if err := m.Load(); err != nil {
		return nil, types.WrapError(err, "failed to load initial configuration")
	}

	return m, nil
}

func (m *Manager) Load() error {
	config, err := m.loader.LoadFromFile(m.configPath)
	if err != nil {
		return err
	}

	m.config.Store(config)
	return nil
}

func (m *Manager) GetConfig() *types.ServiceConfig {
	return m.config.Load()
}
