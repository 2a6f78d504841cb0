package storage

import "github.com/vovakirdan/tilematch/internal/puzzle"

// ProgressStore binds a Store to one profile so the game session can load
// and save its score without knowing about profiles or SQL.
type ProgressStore struct {
	store   *Store
	profile string
	level   int
}

// NewProgressStore creates a progress adapter for profile.
func NewProgressStore(store *Store, profile string) *ProgressStore {
	if profile == "" {
		profile = "default"
	}
	return &ProgressStore{store: store, profile: profile}
}

// Profile returns the bound profile name.
func (p *ProgressStore) Profile() string { return p.profile }

// Level returns the level index last loaded or set.
func (p *ProgressStore) Level() int { return p.level }

// SetLevel records the level index written with the next save.
func (p *ProgressStore) SetLevel(level int) { p.level = level }

// LoadScore returns the persisted score of the profile.
func (p *ProgressStore) LoadScore() (int, error) {
	prog, err := p.store.LoadProgress(p.profile)
	if err != nil {
		return 0, err
	}
	p.level = prog.Level
	return prog.Score, nil
}

// SaveScore persists score for the profile.
func (p *ProgressStore) SaveScore(score int) error {
	return p.store.SaveProgress(p.profile, score, p.level)
}

// Ensure ProgressStore implements puzzle.ScoreStore
var _ puzzle.ScoreStore = (*ProgressStore)(nil)
