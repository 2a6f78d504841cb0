// Package levels loads tile match level packs.
// This package depends on puzzle but puzzle does not depend on levels.
package levels

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/tilematch/internal/puzzle"
	"github.com/vovakirdan/tilematch/internal/puzzle/levels/formats"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Level represents a complete level definition.
type Level struct {
	ID       string
	Name     string
	Slots    []puzzle.ExpectedSlot
	Pieces   []puzzle.PieceSpec
	Metadata map[string]string
	FilePath string
}

// ToPuzzle converts the level into the engine representation.
func (l *Level) ToPuzzle() puzzle.Level {
	return puzzle.Level{
		ID:     l.ID,
		Name:   l.Name,
		Slots:  append([]puzzle.ExpectedSlot(nil), l.Slots...),
		Pieces: append([]puzzle.PieceSpec(nil), l.Pieces...),
	}
}

// ToPuzzle converts a level list, keeping order.
func ToPuzzle(lvls []Level) []puzzle.Level {
	out := make([]puzzle.Level, len(lvls))
	for i := range lvls {
		out[i] = lvls[i].ToPuzzle()
	}
	return out
}

// Loader handles loading levels from a file system tree.
type Loader struct {
	fsys   fs.FS
	root   string
	logger *log.Logger
}

// NewLoader creates a loader reading from a directory on disk.
func NewLoader(root string) *Loader {
	return &Loader{fsys: os.DirFS(root), root: ".", logger: log.New(io.Discard)}
}

// NewFSLoader creates a loader reading from dir inside fsys.
func NewFSLoader(fsys fs.FS, dir string) *Loader {
	return &Loader{fsys: fsys, root: dir, logger: log.New(io.Discard)}
}

// Builtin returns a loader over the level pack compiled into the binary.
func Builtin() *Loader {
	return NewFSLoader(builtinFS, "builtin")
}

// WithLogger sets the logger used to report skipped files.
func (l *Loader) WithLogger(logger *log.Logger) *Loader {
	if logger != nil {
		l.logger = logger
	}
	return l
}

// LoadAll recursively scans and loads all level files.
// Files that fail to parse are skipped. Returns levels sorted by ID.
func (l *Loader) LoadAll() ([]Level, error) {
	var lvls []Level

	err := fs.WalkDir(l.fsys, l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(path.Ext(p))
		if !isSupportedExtension(ext) {
			return nil
		}

		level, err := l.LoadFile(p)
		if err != nil {
			l.logger.Warn("skipping level file", "path", p, "error", err)
			return nil
		}

		lvls = append(lvls, level)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.root, err)
	}

	sort.Slice(lvls, func(i, j int) bool {
		return lvls[i].ID < lvls[j].ID
	})

	return lvls, nil
}

// LoadValid loads every level and keeps those that fit a grid of the given
// cell count. Rejected levels are logged.
func (l *Loader) LoadValid(cells int) ([]Level, error) {
	all, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	valid := all[:0]
	for _, lvl := range all {
		if err := lvl.Validate(cells); err != nil {
			l.logger.Warn("skipping invalid level", "id", lvl.ID, "error", err)
			continue
		}
		valid = append(valid, lvl)
	}
	return valid, nil
}

// LoadFile loads a single level file.
func (l *Loader) LoadFile(p string) (Level, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", p, err)
	}

	parsed, err := parseByExtension(data, strings.ToLower(path.Ext(p)))
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", p, err)
	}

	return Level{
		ID:       parsed.ID,
		Name:     parsed.Name,
		Slots:    parsed.Slots,
		Pieces:   parsed.Pieces,
		Metadata: parsed.Metadata,
		FilePath: p,
	}, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	lvls, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}

	for _, lvl := range lvls {
		if lvl.ID == id {
			return lvl, nil
		}
	}

	return Level{}, fmt.Errorf("level not found: %s", id)
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	lvls, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(lvls))
	for i, lvl := range lvls {
		ids[i] = lvl.ID
	}
	return ids, nil
}

func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

func parseByExtension(data []byte, ext string) (formats.Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return formats.Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
