package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/tilematch/internal/games/tilematch"
	"github.com/vovakirdan/tilematch/internal/storage"
)

func seededStore(t *testing.T, runs int) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	for i := 1; i <= runs; i++ {
		if _, err := store.SaveRun(storage.RunResult{GameID: tilematch.GameID, Profile: "ada", Score: i, Level: 1}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}
	return store
}

func TestPrintScoresTopTen(t *testing.T) {
	var out bytes.Buffer
	if err := printScores(&out, seededStore(t, 12), tilematch.GameID, false); err != nil {
		t.Fatalf("printScores() failed: %v", err)
	}

	text := out.String()
	if !strings.HasPrefix(text, "High Scores - Tile Match") {
		t.Errorf("unexpected title in %q", text)
	}
	if strings.Contains(text, "\n  11 ") {
		t.Error("top listing should stop at rank 10")
	}
	if !strings.Contains(text, "Runs: 12") {
		t.Error("summary should count every run")
	}
}

func TestPrintScoresAllRuns(t *testing.T) {
	var out bytes.Buffer
	if err := printScores(&out, seededStore(t, 12), tilematch.GameID, true); err != nil {
		t.Fatalf("printScores() failed: %v", err)
	}

	text := out.String()
	if !strings.HasPrefix(text, "All Runs - Tile Match") {
		t.Errorf("unexpected title in %q", text)
	}
	if !strings.Contains(text, "\n  12  ") {
		t.Error("all listing should include rank 12")
	}
}

func TestPrintScoresEmpty(t *testing.T) {
	var out bytes.Buffer
	if err := printScores(&out, seededStore(t, 0), tilematch.PracticeGameID, true); err != nil {
		t.Fatalf("printScores() failed: %v", err)
	}
	if !strings.Contains(out.String(), "No runs recorded yet.") {
		t.Errorf("empty table not reported: %q", out.String())
	}
}
