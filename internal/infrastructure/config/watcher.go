package config

import (
	"errors"
	"slices"

	"github.com/fsnotify/fsnotify"

	"github.com/bnema/spaced/internal/logging"
)

// Watch reloads the config file whenever it changes on disk and hands the
// new configuration to every OnConfigChange listener. An edit that fails
// validation is logged and the active configuration is kept.
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.watching:
		return nil
	case m.viper.ConfigFileUsed() == "":
		return errors.New("no config file loaded")
	}
	m.viper.OnConfigChange(m.onFileEvent)
	m.viper.WatchConfig()
	m.watching = true
	return nil
}

// OnConfigChange registers fn to run after every applied reload.
// fn runs on the watcher goroutine.
func (m *Manager) OnConfigChange(fn func(*Config)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

func (m *Manager) onFileEvent(e fsnotify.Event) {
	log := logging.NewFromEnv()
	log.Debug().Str("op", e.Op.String()).Str("file", e.Name).Msg("config file event")

	m.mu.Lock()
	if m.ownWrite {
		// Save already installed the config; only viper needs the new file.
		m.ownWrite = false
		if err := m.viper.ReadInConfig(); err != nil {
			log.Warn().Err(err).Msg("failed to re-read saved config")
		}
	} else if err := m.reloadLocked(); err != nil {
		m.mu.Unlock()
		log.Warn().Err(err).Msg("config reload rejected, keeping previous values")
		return
	} else {
		log.Info().Str("file", e.Name).Msg("configuration reloaded")
	}

	cfg := *m.config
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		c := cfg
		fn(&c)
	}
}

func (m *Manager) reloadLocked() error {
	if err := m.viper.ReadInConfig(); err != nil {
		return err
	}
	return m.decode()
}
