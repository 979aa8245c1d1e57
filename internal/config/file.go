package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load overlays the config file at path onto cfg. Keys missing from the
// file keep their current values. The format follows the extension:
// .yaml/.yml or .toml.
func Load(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(raw, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (use .yaml, .yml or .toml)", filepath.Ext(path))
	}
	return nil
}
