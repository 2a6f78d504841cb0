// Package tilematch adapts the puzzle session to the platform game loop:
// it owns the board layout, maps keyboard and mouse input onto piece moves
// and draws the board, the tray and the HUD.
package tilematch

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tilematch/internal/config"
	"github.com/vovakirdan/tilematch/internal/core"
	"github.com/vovakirdan/tilematch/internal/puzzle"
	"github.com/vovakirdan/tilematch/internal/puzzle/levels"
	"github.com/vovakirdan/tilematch/internal/registry"
)

// Game IDs registered by this package.
const (
	GameID         = "tilematch"
	PracticeGameID = "tilematch_practice"
)

// FocusArea indicates where the keyboard cursor is.
type FocusArea int

const (
	FocusBoard FocusArea = iota
	FocusTray
)

// levelRecorder is implemented by score stores that also remember the level.
type levelRecorder interface {
	SetLevel(level int)
}

// Game implements the tile match puzzle.
type Game struct {
	id      string
	title   string
	preset  config.Preset
	persist bool // Campaign runs write their score to the progress store

	rng     *rand.Rand
	cfg     config.TileMatchConfig
	levels  []levels.Level
	session *puzzle.Session
	logger  *log.Logger
	loadErr error

	// Screen dimensions
	screenW  int
	screenH  int
	tickRate int

	// Status
	tick     uint64
	gameOver bool
	won      bool
	paused   bool
	tooSmall bool
	message  string
	msgColor core.Color
	msgTicks int

	// Selection state
	focus     FocusArea
	cursorCol int
	cursorRow int // Row 0 is the bottom row of the board
	traySel   int
	tray      []puzzle.PieceID // Tray order, shuffled per level
	held      *puzzle.Piece
	dragging  bool // Held by the mouse rather than the keyboard
	pointerX  int
	pointerY  int

	lay layout
}

// Package-level variables for configuration
var (
	configPath         string
	levelsDir          string
	selectedStartLevel int
	selectedPreset     = config.PresetCampaign
	progressStore      puzzle.ScoreStore
	gameLogger         *log.Logger
)

// SetConfigPath sets an explicit config file. Empty uses the search order.
func SetConfigPath(path string) {
	configPath = path
}

// SetLevelsDir overrides the level directory. Empty uses the config, then
// the built-in pack.
func SetLevelsDir(dir string) {
	levelsDir = dir
}

// SetStartLevel sets the starting level (1-indexed). 0 means use the config.
func SetStartLevel(level int) {
	selectedStartLevel = level
}

// GetStartLevel returns the currently selected start level.
func GetStartLevel() int {
	return selectedStartLevel
}

// SetPreset selects how the campaign game plays.
func SetPreset(p config.Preset) {
	selectedPreset = p
}

// SetProgressStore sets where the campaign score is loaded from and saved to.
// nil disables persistence.
func SetProgressStore(store puzzle.ScoreStore) {
	progressStore = store
}

// SetLogger sets the logger handed to every new session.
func SetLogger(l *log.Logger) {
	gameLogger = l
}

func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
	registry.Register(PracticeGameID, func() registry.Game {
		return NewPractice()
	})
}

// New creates the campaign game. Its score survives between runs.
func New() *Game {
	return &Game{
		id:      GameID,
		title:   "Tile Match",
		preset:  selectedPreset,
		persist: true,
	}
}

// NewPractice creates a game whose score restarts on every level and is
// never written back.
func NewPractice() *Game {
	return &Game{
		id:     PracticeGameID,
		title:  "Tile Match (Practice)",
		preset: config.PresetPractice,
	}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name.
func (g *Game) Title() string {
	return g.title
}

// Reset initializes or restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	//nolint:errcheck // session logs its own persistence failure
	g.Close()

	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = core.DefaultConfig().TickRate
	}
	g.logger = gameLogger
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}

	g.tick = 0
	g.gameOver = false
	g.won = false
	g.paused = false
	g.loadErr = nil
	g.levels = nil
	g.tray = nil
	g.clearSelection()
	g.notify("", core.ColorDefault)

	g.cfg = g.loadConfig()
	if err := g.startSession(); err != nil {
		g.logger.Error("cannot start session", "game", g.id, "error", err)
		g.loadErr = err
		g.session = nil
	}
	g.calculateLayout()
}

// loadConfig reads the config file and applies the preset. A broken config
// file falls back to the defaults.
func (g *Game) loadConfig() config.TileMatchConfig {
	cfg, err := config.LoadTileMatch(configPath)
	if err != nil {
		g.logger.Warn("config not loaded, using defaults", "path", configPath, "error", err)
		cfg = config.DefaultTileMatchConfig()
	}
	config.ApplyPreset(&cfg, g.preset)
	return cfg
}

// loadLevels returns the playable levels for the configured grid.
func (g *Game) loadLevels() ([]levels.Level, error) {
	return levelLoader(g.cfg, g.logger).LoadValid(g.cfg.Cells())
}

func levelLoader(cfg config.TileMatchConfig, logger *log.Logger) *levels.Loader {
	dir := levelsDir
	if dir == "" {
		dir = cfg.Levels.Dir
	}
	if dir == "" {
		return levels.Builtin().WithLogger(logger)
	}
	return levels.NewLoader(config.ExpandHome(dir)).WithLogger(logger)
}

func (g *Game) startSession() error {
	lvls, err := g.loadLevels()
	if err != nil {
		return err
	}
	if len(lvls) == 0 {
		return puzzle.ErrNoLevels
	}

	grid, err := puzzle.NewGrid(g.cfg.GridSpec(), g.logger)
	if err != nil {
		return err
	}
	solution, err := puzzle.NewSolution(grid, g.logger)
	if err != nil {
		return err
	}

	opts := []puzzle.Option{
		puzzle.WithLogger(g.logger),
		puzzle.WithScoring(g.cfg.ScoringRules()),
		puzzle.WithLevelLoaded(g.onLevelLoaded),
	}
	if g.persist && progressStore != nil {
		opts = append(opts, puzzle.WithStore(progressStore))
	}

	session, err := puzzle.NewSession(grid, solution, levels.ToPuzzle(lvls), opts...)
	if err != nil {
		return err
	}
	g.levels = lvls
	g.session = session
	return session.Initialize(g.startIndex())
}

// startIndex resolves the first level: an explicit selection wins over the
// config. Out-of-range values start from the beginning.
func (g *Game) startIndex() int {
	if selectedStartLevel > 0 && selectedStartLevel <= len(g.levels) {
		start := selectedStartLevel - 1
		selectedStartLevel = 0 // Reset after use
		return start
	}
	if g.cfg.Levels.Start < len(g.levels) {
		return g.cfg.Levels.Start
	}
	return 0
}

// onLevelLoaded runs after every level load, including the first.
func (g *Game) onLevelLoaded(index int) {
	lvl := g.levels[index]
	if len(lvl.Pieces) == 0 {
		g.spawnFromSlots(lvl)
	}

	pieces := g.session.Pieces()
	g.tray = make([]puzzle.PieceID, len(pieces))
	for i, p := range pieces {
		g.tray[i] = p.ID()
	}
	g.rng.Shuffle(len(g.tray), func(i, j int) {
		g.tray[i], g.tray[j] = g.tray[j], g.tray[i]
	})

	g.clearSelection()
	g.calculateLayout()

	if rec, ok := progressStore.(levelRecorder); ok && g.persist {
		rec.SetLevel(index)
	}
	g.notify(fmt.Sprintf("Level %d: %s", index+1, lvl.Name), core.ColorCyan)
}

// spawnFromSlots replaces the live pieces with one piece per slot, showing
// the slot's face on both sides in a random orientation.
func (g *Game) spawnFromSlots(lvl levels.Level) {
	for _, p := range g.session.Pieces() {
		g.session.Remove(p.ID())
	}
	for i, slot := range lvl.Slots {
		spec := puzzle.PieceSpec{
			ID:          puzzle.PieceID(i + 1),
			Front:       slot.Face,
			Back:        slot.Face,
			Rotation:    puzzle.Rotation(g.rng.Intn(4) * 90),
			Flipped:     g.rng.Intn(2) == 1,
			TracksUsage: true,
		}
		if _, err := g.session.Spawn(spec); err != nil {
			g.logger.Error("cannot spawn piece", "level", lvl.ID, "error", err)
		}
	}
}

func (g *Game) clearSelection() {
	g.focus = FocusTray
	g.cursorCol = 0
	g.cursorRow = 0
	g.traySel = 0
	g.held = nil
	g.dragging = false
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if in.Has(core.ActionRestart) {
		g.restart()
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}

	if g.msgTicks > 0 {
		g.msgTicks--
	}

	if g.gameOver || g.paused || g.tooSmall || g.session == nil {
		return core.StepResult{State: g.State()}
	}

	// The board is frozen while the next level is pending.
	if !g.session.AdvancePending() {
		g.handleKeys(in)
		for _, ev := range in.Pointer {
			g.handlePointer(ev)
		}
	}

	g.session.Step(time.Second / time.Duration(g.tickRate))

	if g.session.Finished() {
		g.won = true
		g.gameOver = true
		g.clearSelection()
	}

	return core.StepResult{State: g.State()}
}

// restart clears the board of the current level, or starts a new run once
// the game is over.
func (g *Game) restart() {
	if g.gameOver || g.session == nil {
		g.Reset(core.RuntimeConfig{
			Seed:     g.rng.Int63(),
			ScreenW:  g.screenW,
			ScreenH:  g.screenH,
			TickRate: g.tickRate,
		})
		return
	}
	g.session.ResetGame()
	g.clearSelection()
	g.paused = false
	g.notify("Board cleared", core.ColorYellow)
}

// Resize adapts the layout to new terminal dimensions without losing progress.
func (g *Game) Resize(width, height int) {
	g.screenW = width
	g.screenH = height
	g.calculateLayout()
}

// Close ends the session and writes the score back.
func (g *Game) Close() error {
	if g.session == nil {
		return nil
	}
	err := g.session.Teardown()
	g.session = nil
	return err
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := core.GameState{
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
	if g.session != nil {
		st.Score = g.session.Score()
		st.Level = g.session.Level()
		if g.won {
			st.Level = g.session.LevelCount()
		}
	}
	return st
}

// Session exposes the running puzzle session, nil before Reset or when no
// level could be loaded.
func (g *Game) Session() *puzzle.Session {
	return g.session
}

// Err returns why the last Reset could not start a session.
func (g *Game) Err() error {
	return g.loadErr
}

// notify shows a status line message for a couple of seconds.
func (g *Game) notify(msg string, c core.Color) {
	g.message = msg
	g.msgColor = c
	g.msgTicks = 2 * g.tickRate
	if msg == "" {
		g.msgTicks = 0
	}
}

// LevelCount returns the number of playable levels for the current settings.
func LevelCount() int {
	return len(LevelNames())
}

// LevelNames returns the names of all playable levels.
func LevelNames() []string {
	cfg, err := config.LoadTileMatch(configPath)
	if err != nil {
		cfg = config.DefaultTileMatchConfig()
	}
	lvls, err := levelLoader(cfg, log.New(io.Discard)).LoadValid(cfg.Cells())
	if err != nil {
		return nil
	}
	names := make([]string, len(lvls))
	for i, l := range lvls {
		names[i] = l.Name
	}
	return names
}
