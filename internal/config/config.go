// Package config provides YAML-based configuration loading and play presets
// for the tile match game.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tilematch/internal/puzzle"
)

// TileMatchConfig contains all configuration for the tile match game.
type TileMatchConfig struct {
	Grid    GridConfig    `yaml:"grid"`
	Scoring ScoringConfig `yaml:"scoring"`
	Levels  LevelsConfig  `yaml:"levels"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// GridConfig defines board geometry in world units.
type GridConfig struct {
	Columns  int     `yaml:"columns"`
	Rows     int     `yaml:"rows"`
	CellSize float64 `yaml:"cell_size"`
	Origin   Point   `yaml:"origin"` // Center of the bottom-left cell
}

// Point is a world position.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ScoringConfig defines point values and level transition timing.
type ScoringConfig struct {
	PerCorrect       int           `yaml:"per_correct"`
	AdvanceDelay     time.Duration `yaml:"advance_delay"`
	ResetScoreOnLoad bool          `yaml:"reset_score_on_load"`
}

// LevelsConfig selects the level pack.
type LevelsConfig struct {
	Dir   string `yaml:"dir"`   // Empty uses the built-in pack
	Start int    `yaml:"start"` // Zero-based starting level
}

// StorageConfig locates the score database.
type StorageConfig struct {
	Path    string `yaml:"path"`
	Profile string `yaml:"profile"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
}

// GridSpec converts the grid section into engine geometry.
func (c TileMatchConfig) GridSpec() puzzle.GridSpec {
	return puzzle.GridSpec{
		Columns:  c.Grid.Columns,
		Rows:     c.Grid.Rows,
		CellSize: c.Grid.CellSize,
		Origin:   puzzle.V(c.Grid.Origin.X, c.Grid.Origin.Y),
	}
}

// ScoringRules converts the scoring section into engine scoring.
func (c TileMatchConfig) ScoringRules() puzzle.Scoring {
	return puzzle.Scoring{
		PerCorrect:       c.Scoring.PerCorrect,
		AdvanceDelay:     c.Scoring.AdvanceDelay,
		ResetScoreOnLoad: c.Scoring.ResetScoreOnLoad,
	}
}

// Cells returns the number of grid cells after dimension clamping.
func (c TileMatchConfig) Cells() int {
	return max(1, c.Grid.Columns) * max(1, c.Grid.Rows)
}

// Validate reports configuration values the game cannot run with.
func (c TileMatchConfig) Validate() error {
	var errs []error
	if c.Grid.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("grid.cell_size must be positive, got %v", c.Grid.CellSize))
	}
	if c.Scoring.PerCorrect < 0 {
		errs = append(errs, fmt.Errorf("scoring.per_correct must not be negative, got %d", c.Scoring.PerCorrect))
	}
	if c.Scoring.AdvanceDelay < 0 {
		errs = append(errs, fmt.Errorf("scoring.advance_delay must not be negative, got %s", c.Scoring.AdvanceDelay))
	}
	if c.Levels.Start < 0 {
		errs = append(errs, fmt.Errorf("levels.start must not be negative, got %d", c.Levels.Start))
	}
	return errors.Join(errs...)
}
