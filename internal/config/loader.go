package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadTileMatch loads the tile match configuration.
// Search order: customPath -> ~/.tilematch/configs/tilematch.yaml -> ./configs/tilematch.yaml -> embedded default
// Files only need to set the keys they change; the rest keep their defaults.
func LoadTileMatch(customPath string) (TileMatchConfig, error) {
	cfg := DefaultTileMatchConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(ExpandHome(customPath))
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then local configs directory
	for _, path := range []string{userConfigPath("tilematch.yaml"), filepath.Join("configs", "tilematch.yaml")} {
		if path == "" {
			continue
		}
		if loaded, ok := tryLoad(path); ok {
			return loaded, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultTileMatchYAML, &cfg); err != nil {
		return DefaultTileMatchConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// tryLoad reads an optional config file. Unreadable or invalid files are skipped.
func tryLoad(path string) (TileMatchConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TileMatchConfig{}, false
	}
	cfg := DefaultTileMatchConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return TileMatchConfig{}, false
	}
	if cfg.Validate() != nil {
		return TileMatchConfig{}, false
	}
	return cfg, true
}

// DataDir returns the per-user directory holding configs, logs and the database.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tilematch"
	}
	return filepath.Join(home, ".tilematch")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tilematch", "configs", filename)
}
