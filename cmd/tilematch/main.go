// tilematch is a terminal tile matching puzzle.
//
// Usage:
//
//	tilematch list              - List available games
//	tilematch play [game]       - Play a game
//	tilematch menu              - Start menu to pick games interactively
//	tilematch levels [dir]      - List and validate a level pack
//	tilematch scores [game]     - Show high scores
//	tilematch config            - Print the effective configuration
//
// Global flags:
//
//	--config <path> - Config file (default: ~/.tilematch/configs/tilematch.yaml)
//	--levels <dir>  - Level pack directory (default: built-in pack)
//	--fps <rate>    - Set tick rate (default: 30)
//	--seed <value>  - Set RNG seed for reproducible trays
//	--db <path>     - Set database path (default: ~/.tilematch/tilematch.db)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tilematch/internal/config"
	"github.com/vovakirdan/tilematch/internal/core"
	"github.com/vovakirdan/tilematch/internal/games/tilematch"
	"github.com/vovakirdan/tilematch/internal/platform/tui"
	"github.com/vovakirdan/tilematch/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagLevels   string
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagProfile  string
	flagLogLevel string
	flagTheme    string
)

var (
	appConfig config.TileMatchConfig
	logger    = log.New(os.Stderr)
	logFile   *os.File
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tilematch",
	Short: "Tile Match - place, rotate and flip tiles in your terminal",
	Long: `Tile Match is a terminal puzzle. Every level shows a grid of cells,
each expecting a tile with a given face, rotation and side. Drag tiles
from the tray onto the board, rotate and flip them until every cell matches.

Available commands:
  list     - Show all available games
  play     - Play directly
  menu     - Interactive game picker menu
  levels   - List or validate a level pack
  scores   - View high scores and profiles
  config   - Print the effective configuration

Examples:
  tilematch play
  tilematch play --level 3 --preset relaxed
  tilematch play tilematch_practice
  tilematch levels ./my-levels
  tilematch scores --profiles`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Level pack directory (empty = config or built-in pack)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (empty = config storage.path)")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "Profile whose score is carried between sessions")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "default", "Menu theme: default, neon, pastel, monochrome")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads the configuration and wires the logger and game settings
// shared by every command.
func setup(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadTileMatch(flagConfig)
	if err != nil {
		return err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagProfile != "" {
		cfg.Storage.Profile = flagProfile
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	appConfig = cfg

	if err := setupLogging(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging to stderr: %v\n", err)
	}

	theme, ok := tui.ThemeByName(flagTheme)
	if !ok {
		logger.Warn("unknown theme, using default", "theme", flagTheme)
	}
	tui.SetTheme(theme)

	tilematch.SetConfigPath(flagConfig)
	tilematch.SetLevelsDir(flagLevels)
	tilematch.SetLogger(logger)
	return nil
}

// setupLogging points the logger at the configured file. The game owns the
// terminal, so nothing is written to stderr while it runs.
func setupLogging(lc config.LogConfig) error {
	level, err := log.ParseLevel(lc.Level)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)

	if lc.File == "" {
		return nil
	}
	path := config.ExpandHome(lc.File)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}
	logFile = f
	logger = log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "tilematch",
		Level:           level,
	})
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if logFile != nil {
		return logFile.Close()
	}
	return nil
}

// openStore opens the score database. Play continues without it.
func openStore() *storage.Store {
	store, err := storage.Open(config.ExpandHome(appConfig.Storage.Path))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("score database unavailable", "path", appConfig.Storage.Path, "error", err)
		return nil
	}
	return store
}

// wireStore hands the profile counter to the campaign game.
func wireStore(store *storage.Store) {
	if store == nil {
		tilematch.SetProgressStore(nil)
		return
	}
	tilematch.SetProgressStore(storage.NewProgressStore(store, appConfig.Storage.Profile))
}

// runtimeConfig builds the runtime config from the terminal size and flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}
