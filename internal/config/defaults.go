package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/tilematch.yaml
var defaultTileMatchYAML []byte

// DefaultTileMatchConfig returns the default tile match configuration.
func DefaultTileMatchConfig() TileMatchConfig {
	return TileMatchConfig{
		Grid: GridConfig{
			Columns:  3,
			Rows:     3,
			CellSize: 2,
			Origin:   Point{X: -2, Y: -3},
		},
		Scoring: ScoringConfig{
			PerCorrect:   10,
			AdvanceDelay: 2 * time.Second,
		},
		Storage: StorageConfig{
			Path:    "~/.tilematch/tilematch.db",
			Profile: "default",
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.tilematch/tilematch.log",
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "tilematch", "tilematch_practice":
		return defaultTileMatchYAML
	default:
		return nil
	}
}
