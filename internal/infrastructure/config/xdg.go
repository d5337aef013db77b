package config

import (
	"os"
	"path/filepath"
)

const (
	appName        = "spaced"
	configFileName = "config.toml"
	schemaFileName = "config.schema.json"
	databaseName   = "spaced.sqlite"
)

// XDGDirs are the per-user directories of spaced.
// ENV=dev places all of them under ./.dev/spaced.
type XDGDirs struct {
	ConfigHome string
	DataHome   string
	StateHome  string
}

// GetXDGDirs resolves the directories from the XDG_* variables,
// falling back to ~/.config, ~/.local/share and ~/.local/state.
func GetXDGDirs() (*XDGDirs, error) {
	if os.Getenv("ENV") == "dev" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir := filepath.Join(cwd, ".dev", appName)
		return &XDGDirs{ConfigHome: dir, DataHome: dir, StateHome: dir}, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	resolve := func(env string, fallback ...string) string {
		if base := os.Getenv(env); base != "" {
			return filepath.Join(base, appName)
		}
		return filepath.Join(append(append([]string{home}, fallback...), appName)...)
	}
	return &XDGDirs{
		ConfigHome: resolve("XDG_CONFIG_HOME", ".config"),
		DataHome:   resolve("XDG_DATA_HOME", ".local", "share"),
		StateHome:  resolve("XDG_STATE_HOME", ".local", "state"),
	}, nil
}

// inDir joins name onto the directory pick selects.
func inDir(pick func(*XDGDirs) string, name ...string) (string, error) {
	dirs, err := GetXDGDirs()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{pick(dirs)}, name...)...), nil
}

func configHome(d *XDGDirs) string { return d.ConfigHome }
func dataHome(d *XDGDirs) string   { return d.DataHome }
func stateHome(d *XDGDirs) string  { return d.StateHome }

// GetConfigDir returns the directory holding config.toml.
func GetConfigDir() (string, error) { return inDir(configHome) }

// GetConfigFile returns the path of config.toml.
func GetConfigFile() (string, error) { return inDir(configHome, configFileName) }

// GetSchemaFile returns the path of the generated JSON schema.
func GetSchemaFile() (string, error) { return inDir(configHome, schemaFileName) }

// GetLogDir returns the directory of rotated log files.
func GetLogDir() (string, error) { return inDir(stateHome, "logs") }

// GetDatabaseFile returns the default history database path.
func GetDatabaseFile() (string, error) { return inDir(dataHome, databaseName) }

// EnsureDirectories creates the config, data and state directories.
func EnsureDirectories() error {
	dirs, err := GetXDGDirs()
	if err != nil {
		return err
	}
	for _, dir := range []string{dirs.ConfigHome, dirs.DataHome, dirs.StateHome} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return err
		}
	}
	return nil
}
