// Package formats provides pluggable level file format parsers.
package formats

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tilematch/internal/puzzle"
	"gopkg.in/yaml.v3"
)

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Slots    []YAMLSlot        `yaml:"slots"`
	Pieces   []YAMLPiece       `yaml:"pieces,omitempty"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// YAMLSlot represents one expected slot.
type YAMLSlot struct {
	Face           int  `yaml:"face"`
	Cell           int  `yaml:"cell"`
	Rotation       int  `yaml:"rotation,omitempty"`
	Flipped        bool `yaml:"flipped,omitempty"`
	IgnoreFlip     bool `yaml:"ignore_flip,omitempty"`
	AllowDuplicate bool `yaml:"allow_duplicate,omitempty"`
}

// YAMLPiece represents a piece spawned with the level.
type YAMLPiece struct {
	ID         int       `yaml:"id"`
	Front      int       `yaml:"front"`
	Back       *int      `yaml:"back,omitempty"` // Defaults to front
	Rotation   int       `yaml:"rotation,omitempty"`
	Flipped    bool      `yaml:"flipped,omitempty"`
	Symmetric  bool      `yaml:"symmetric,omitempty"`
	TrackUsage *bool     `yaml:"track_usage,omitempty"` // Defaults to true
	Home       *YAMLVec2 `yaml:"home,omitempty"`
}

// YAMLVec2 represents a world position.
type YAMLVec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Level represents a parsed level ready for use.
type Level struct {
	ID       string
	Name     string
	Slots    []puzzle.ExpectedSlot
	Pieces   []puzzle.PieceSpec
	Metadata map[string]string
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yl.ID == "" {
		return Level{}, errors.New("level has no id")
	}

	level := Level{
		ID:       yl.ID,
		Name:     yl.Name,
		Slots:    make([]puzzle.ExpectedSlot, 0, len(yl.Slots)),
		Pieces:   make([]puzzle.PieceSpec, 0, len(yl.Pieces)),
		Metadata: yl.Metadata,
	}
	if level.Name == "" {
		level.Name = yl.ID
	}

	for _, s := range yl.Slots {
		level.Slots = append(level.Slots, puzzle.ExpectedSlot{
			Face:           puzzle.FaceID(s.Face),
			Cell:           s.Cell,
			Rotation:       puzzle.Rotation(s.Rotation),
			Flipped:        s.Flipped,
			IgnoreFlip:     s.IgnoreFlip,
			AllowDuplicate: s.AllowDuplicate,
		})
	}

	for _, p := range yl.Pieces {
		spec := puzzle.PieceSpec{
			ID:          puzzle.PieceID(p.ID),
			Front:       puzzle.FaceID(p.Front),
			Back:        puzzle.FaceID(p.Front),
			Rotation:    puzzle.Rotation(p.Rotation),
			Flipped:     p.Flipped,
			Symmetric:   p.Symmetric,
			TracksUsage: true,
		}
		if p.Back != nil {
			spec.Back = puzzle.FaceID(*p.Back)
		}
		if p.TrackUsage != nil {
			spec.TracksUsage = *p.TrackUsage
		}
		if p.Home != nil {
			spec.Home = puzzle.V(p.Home.X, p.Home.Y)
		}
		level.Pieces = append(level.Pieces, spec)
	}

	return level, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
