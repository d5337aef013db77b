// Package config loads, validates and watches the spaced configuration file.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/bnema/spaced/internal/logging"
)

// envPrefix namespaces environment overrides: SPACED_ENGINE_KIND,
// SPACED_SCROLL_COLLAPSE_DISTANCE and so on.
const envPrefix = "SPACED"

// Manager owns the loaded configuration and its reload listeners.
type Manager struct {
	viper *viper.Viper

	mu        sync.RWMutex
	config    *Config
	listeners []func(*Config)
	watching  bool
	// ownWrite marks the next file event as caused by Save.
	ownWrite bool
}

// NewManager prepares a manager for the config file in the XDG config dir.
// Nothing is read until Load.
func NewManager() (*Manager, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config directory: %w\nCheck XDG_CONFIG_HOME or HOME", err)
	}

	v := viper.New()
	v.SetConfigName(strings.TrimSuffix(configFileName, ".toml"))
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The logger reads the same short names before any config exists.
	for key, env := range map[string]string{
		"logging.level":  envPrefix + "_LOG_LEVEL",
		"logging.format": envPrefix + "_LOG_FORMAT",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	return &Manager{viper: v}, nil
}

// Load reads the config file, writing the defaults first when it does not
// exist, then applies environment overrides and validates the result.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("create config directories: %w", err)
	}
	m.setDefaults()

	if err := m.read(); err != nil {
		return err
	}
	return m.decode()
}

func (m *Manager) read() error {
	err := m.viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		return nil
	case !errors.As(err, &notFound):
		path := m.viper.ConfigFileUsed()
		if path == "" {
			path, _ = GetConfigFile()
		}
		return fmt.Errorf("read config file %s: %w\nThe file must be valid TOML", path, err)
	}

	path, err := writeDefaultConfig()
	if err != nil {
		return fmt.Errorf("create default config: %w", err)
	}
	m.viper.SetConfigFile(path)
	if err := m.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("read new config file: %w", err)
	}
	return nil
}

// decode turns viper's merged state into m.config. Caller holds m.mu.
// On error m.config is left as it was.
func (m *Manager) decode() error {
	cfg := &Config{}
	if err := m.viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decode config file %s: %w", m.viper.ConfigFileUsed(), err)
	}
	if cfg.Database.Path == "" {
		path, err := GetDatabaseFile()
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		cfg.Database.Path = path
	}
	normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// normalizeConfig trims and lower-cases enum values and fills blanks.
// Out-of-range values are left for validateConfig to report.
func normalizeConfig(cfg *Config) {
	clean := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	orDefault := func(s, def string) string {
		if s == "" {
			return def
		}
		return s
	}

	cfg.DefaultURL = orDefault(strings.TrimSpace(cfg.DefaultURL), defaultURL)
	cfg.Engine.Kind = EngineKind(orDefault(clean(string(cfg.Engine.Kind)), string(EngineKindCDP)))
	cfg.Engine.DefaultMode = orDefault(clean(cfg.Engine.DefaultMode), "mobile")
	cfg.Logging.Level = orDefault(clean(cfg.Logging.Level), "info")
	if cfg.Logging.Level == "warning" {
		cfg.Logging.Level = "warn"
	}
	cfg.Logging.Format = orDefault(clean(cfg.Logging.Format), "console")
}

// Get returns a copy of the active configuration, or the defaults before Load.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return DefaultConfig()
	}
	cfg := *m.config
	return &cfg
}

// Save validates cfg, writes it to the config file and makes it active.
func (m *Manager) Save(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}

	path := m.viper.ConfigFileUsed()
	if path == "" {
		var err error
		if path, err = GetConfigFile(); err != nil {
			return err
		}
	}
	if err := WriteConfigOrdered(cfg, path); err != nil {
		return err
	}

	saved := *cfg
	m.config = &saved
	if m.watching {
		// The watcher re-reads the file and notifies listeners.
		m.ownWrite = true
		return nil
	}
	m.viper.SetConfigFile(path)
	return m.viper.ReadInConfig()
}

// GetConfigFile returns the file Load read, or "" before Load.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

// writeDefaultConfig creates config.toml from DefaultConfig with its JSON
// schema beside it, and returns the config path.
func writeDefaultConfig() (string, error) {
	path, err := GetConfigFile()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists: %s", path)
	}
	if err := WriteConfigOrdered(DefaultConfig(), path); err != nil {
		return "", err
	}

	log := logging.NewFromEnv()
	log.Info().Str("path", path).Msg("created default configuration file")
	if _, err := GenerateSchemaFile(); err != nil {
		log.Warn().Err(err).Msg("failed to write config schema")
	}
	return path, nil
}

// setDefaults registers every key of DefaultConfig so environment
// overrides work for keys the file does not mention.
func (m *Manager) setDefaults() {
	for key, value := range defaultKeys(reflect.ValueOf(DefaultConfig()).Elem(), "") {
		m.viper.SetDefault(key, value)
	}
}

// defaultKeys flattens a config struct into dotted mapstructure keys.
func defaultKeys(v reflect.Value, prefix string) map[string]any {
	keys := make(map[string]any)
	for i := range v.NumField() {
		field := v.Type().Field(i)
		name := field.Tag.Get("mapstructure")
		if name == "" || name == "-" {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}
		value := v.Field(i)
		if value.Kind() == reflect.Struct {
			maps.Copy(keys, defaultKeys(value, name))
			continue
		}
		if value.Kind() == reflect.String {
			keys[name] = value.String()
			continue
		}
		keys[name] = value.Interface()
	}
	return keys
}

var (
	globalManager *Manager
	globalOnce    sync.Once
)

// Init creates and loads the process-wide manager. Later calls return the
// first call's error.
func Init() error {
	var err error
	globalOnce.Do(func() {
		var mgr *Manager
		if mgr, err = NewManager(); err != nil {
			return
		}
		if err = mgr.Load(); err != nil {
			return
		}
		globalManager = mgr
	})
	return err
}

// Get returns the process-wide configuration, or the defaults before Init.
func Get() *Config {
	if globalManager == nil {
		return DefaultConfig()
	}
	return globalManager.Get()
}

// GetManager returns the process-wide manager, nil before a successful Init.
func GetManager() *Manager {
	return globalManager
}
