package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const configHeader = `# spaced configuration
# Schema: config.schema.json (regenerate with "spaced config schema --write")

`

// WriteConfigOrdered writes cfg as TOML with fields in definition order.
func WriteConfigOrdered(cfg *Config, path string) error {
	data, err := MarshalTOML(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// MarshalTOML encodes cfg the way it is stored on disk.
func MarshalTOML(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	var buf bytes.Buffer
	buf.WriteString(configHeader)
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}
