package levels_test

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"
	"testing/fstest"

	"github.com/vovakirdan/tilematch/internal/puzzle"
	"github.com/vovakirdan/tilematch/internal/puzzle/levels"
)

// getTestdataPath returns path to testdata/levels.
func getTestdataPath() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "testdata", "levels")
}

func TestLoaderLoadAll(t *testing.T) {
	loader := levels.NewLoader(getTestdataPath())

	lvls, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	// broken.yaml and noid.yaml are skipped, README.txt is ignored
	if len(lvls) != 3 {
		t.Fatalf("expected 3 levels, got %d", len(lvls))
	}

	for i := 1; i < len(lvls); i++ {
		if lvls[i-1].ID >= lvls[i].ID {
			t.Errorf("levels not sorted: %s >= %s", lvls[i-1].ID, lvls[i].ID)
		}
	}
}

func TestLoaderLoadLevel01(t *testing.T) {
	loader := levels.NewLoader(getTestdataPath())

	lvl, err := loader.LoadByID("lvl01")
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}

	if lvl.Name != "Intro" {
		t.Errorf("expected Name 'Intro', got %q", lvl.Name)
	}
	if len(lvl.Slots) != 1 || len(lvl.Pieces) != 1 {
		t.Fatalf("expected 1 slot and 1 piece, got %d and %d", len(lvl.Slots), len(lvl.Pieces))
	}

	p := lvl.Pieces[0]
	if p.Back != p.Front {
		t.Errorf("back should default to front, got %d", p.Back)
	}
	if !p.TracksUsage {
		t.Error("track_usage should default to true")
	}
	if p.Home != puzzle.V(4, -3) {
		t.Errorf("expected home (4,-3), got %v", p.Home)
	}
	if filepath.Base(lvl.FilePath) != "lvl01.yaml" {
		t.Errorf("unexpected file path %q", lvl.FilePath)
	}
}

func TestLoaderLoadLevel02(t *testing.T) {
	loader := levels.NewLoader(getTestdataPath())

	lvl, err := loader.LoadByID("lvl02")
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}

	if lvl.Name != "lvl02" {
		t.Errorf("name should default to id, got %q", lvl.Name)
	}
	if lvl.Metadata["author"] != "test" {
		t.Errorf("metadata not parsed: %v", lvl.Metadata)
	}

	want := puzzle.ExpectedSlot{Face: 2, Cell: 3, Flipped: true, AllowDuplicate: true}
	if lvl.Slots[1] != want {
		t.Errorf("slot mismatch: got %+v, want %+v", lvl.Slots[1], want)
	}
	if lvl.Slots[0].Rotation != puzzle.Rot90 {
		t.Errorf("expected rotation 90, got %d", lvl.Slots[0].Rotation)
	}

	p := lvl.Pieces[1]
	if p.TracksUsage || !p.Symmetric || !p.Flipped || p.Rotation != puzzle.Rot180 || p.Back != 2 {
		t.Errorf("piece flags not parsed: %+v", p)
	}
}

func TestLoaderLoadByIDMissing(t *testing.T) {
	loader := levels.NewLoader(getTestdataPath())

	if _, err := loader.LoadByID("nope"); err == nil {
		t.Error("expected error for missing level")
	}
}

func TestLoaderListIDs(t *testing.T) {
	ids, err := levels.NewLoader(getTestdataPath()).ListIDs()
	if err != nil {
		t.Fatalf("ListIDs failed: %v", err)
	}
	want := []string{"lvl01", "lvl02", "lvl03"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestLoaderMissingDir(t *testing.T) {
	loader := levels.NewLoader(filepath.Join(t.TempDir(), "absent"))
	if _, err := loader.LoadAll(); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestLoadValidFiltersByGrid(t *testing.T) {
	fsys := fstest.MapFS{
		"pack/small.yaml": {Data: []byte("id: a\nslots:\n  - { face: 1, cell: 3 }\n")},
		"pack/large.yaml": {Data: []byte("id: b\nslots:\n  - { face: 1, cell: 8 }\n")},
	}
	loader := levels.NewFSLoader(fsys, "pack")

	lvls, err := loader.LoadValid(4)
	if err != nil {
		t.Fatalf("LoadValid failed: %v", err)
	}
	if len(lvls) != 1 || lvls[0].ID != "a" {
		t.Errorf("expected only level a, got %+v", lvls)
	}
}

func TestBuiltinPack(t *testing.T) {
	lvls, err := levels.Builtin().LoadAll()
	if err != nil {
		t.Fatalf("loading builtin pack: %v", err)
	}
	if len(lvls) < 5 {
		t.Fatalf("expected at least 5 builtin levels, got %d", len(lvls))
	}
	for _, lvl := range lvls {
		if err := lvl.Validate(9); err != nil {
			t.Errorf("builtin level %s invalid on a 3x3 grid: %v", lvl.ID, err)
		}
		if len(lvl.Pieces) == 0 {
			t.Errorf("builtin level %s has no pieces", lvl.ID)
		}
	}
}

func TestToPuzzleCopies(t *testing.T) {
	lvl := levels.Level{
		ID:     "x",
		Slots:  []puzzle.ExpectedSlot{{Face: 1, Cell: 0}},
		Pieces: []puzzle.PieceSpec{{ID: 1, Front: 1}},
	}
	out := levels.ToPuzzle([]levels.Level{lvl})
	out[0].Slots[0].Face = 9
	if lvl.Slots[0].Face != 1 {
		t.Error("ToPuzzle must not alias slot storage")
	}
}

func TestValidate(t *testing.T) {
	pieces := func(specs ...puzzle.PieceSpec) []puzzle.PieceSpec { return specs }

	tests := []struct {
		name string
		lvl  levels.Level
		code string
	}{
		{
			name: "valid without pieces",
			lvl:  levels.Level{Slots: []puzzle.ExpectedSlot{{Face: 1, Cell: 0}}},
		},
		{
			name: "valid with pieces",
			lvl: levels.Level{
				Slots:  []puzzle.ExpectedSlot{{Face: 2, Cell: 1, Flipped: true}},
				Pieces: pieces(puzzle.PieceSpec{ID: 1, Front: 1, Back: 2}),
			},
		},
		{
			name: "no slots",
			lvl:  levels.Level{},
			code: "NO_SLOTS",
		},
		{
			name: "cell out of range",
			lvl:  levels.Level{Slots: []puzzle.ExpectedSlot{{Cell: 4}}},
			code: "CELL_OUT_OF_RANGE",
		},
		{
			name: "duplicate cell",
			lvl:  levels.Level{Slots: []puzzle.ExpectedSlot{{Cell: 1}, {Cell: 1, Face: 2}}},
			code: "DUPLICATE_CELL",
		},
		{
			name: "bad slot rotation",
			lvl:  levels.Level{Slots: []puzzle.ExpectedSlot{{Cell: 1, Rotation: 30}}},
			code: "BAD_ROTATION",
		},
		{
			name: "not enough pieces",
			lvl: levels.Level{
				Slots:  []puzzle.ExpectedSlot{{Face: 1, Cell: 0}, {Face: 1, Cell: 1}},
				Pieces: pieces(puzzle.PieceSpec{ID: 1, Front: 1}),
			},
			code: "NOT_ENOUGH_PIECES",
		},
		{
			name: "duplicate piece",
			lvl: levels.Level{
				Slots:  []puzzle.ExpectedSlot{{Face: 1, Cell: 0}},
				Pieces: pieces(puzzle.PieceSpec{ID: 1, Front: 1}, puzzle.PieceSpec{ID: 1, Front: 1}),
			},
			code: "DUPLICATE_PIECE",
		},
		{
			name: "bad piece rotation",
			lvl: levels.Level{
				Slots:  []puzzle.ExpectedSlot{{Face: 1, Cell: 0}},
				Pieces: pieces(puzzle.PieceSpec{ID: 1, Front: 1, Rotation: 360}),
			},
			code: "BAD_ROTATION",
		},
		{
			name: "missing face",
			lvl: levels.Level{
				Slots:  []puzzle.ExpectedSlot{{Face: 7, Cell: 0}},
				Pieces: pieces(puzzle.PieceSpec{ID: 1, Front: 1, Back: 2}),
			},
			code: "MISSING_FACE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lvl.Validate(4)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr levels.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, verr.Code)
			}
		})
	}
}
