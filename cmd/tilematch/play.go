package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilematch/internal/config"
	"github.com/vovakirdan/tilematch/internal/games/tilematch"
	"github.com/vovakirdan/tilematch/internal/platform/tui"
	"github.com/vovakirdan/tilematch/internal/registry"
)

var (
	flagLevel  int
	flagPreset string
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play a game",
	Long: `Start playing. Without a game argument the campaign starts.

Controls:
  Arrows/WASD  - Move the cursor over the board and the tray
  Space/Enter  - Pick up or drop the tile under the cursor
  E            - Rotate the held or hovered tile a quarter turn
  F            - Flip the held or hovered tile
  Esc/B        - Put the held tile back
  Mouse        - Drag tiles, right click rotates, middle click flips
  R            - Clear the board (new run after the last level)
  P            - Pause
  Q/Ctrl+C     - Quit

Presets:
  campaign - Score carries across levels and sessions
  practice - Score restarts on every level
  relaxed  - Longer pause between levels
  speedrun - Next level loads almost at once

Examples:
  tilematch play
  tilematch play --level 3
  tilematch play --preset speedrun
  tilematch play tilematch_practice`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Start level (1-indexed); 0 opens the level selector")
	playCmd.Flags().StringVar(&flagPreset, "preset", "", "Preset: campaign, practice, relaxed, speedrun")
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := tilematch.GameID
	if len(args) == 1 {
		gameID = args[0]
	}

	// Check if game exists
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q, run 'tilematch list' to see available games", gameID)
	}

	if flagPreset != "" {
		preset, ok := config.ParsePreset(flagPreset)
		if !ok {
			return fmt.Errorf("unknown preset %q", flagPreset)
		}
		// Practice is its own game so its score is never written back.
		if preset == config.PresetPractice {
			gameID = tilematch.PracticeGameID
		} else {
			tilematch.SetPreset(preset)
		}
	}

	cfg := runtimeConfig()

	if flagLevel > 0 {
		if n := tilematch.LevelCount(); flagLevel > n {
			return fmt.Errorf("level %d out of range, the pack has %d levels", flagLevel, n)
		}
		tilematch.SetStartLevel(flagLevel)
	} else {
		selection, updatedCfg, err := tui.RunLevelSelector(cfg)
		if err != nil {
			return err
		}
		cfg = updatedCfg

		// User pressed back or quit
		if selection == nil {
			return nil
		}
		tilematch.SetStartLevel(selection.Level)
	}

	// Create game instance
	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	store := openStore()
	wireStore(store)

	logger.Info("starting game", "game", gameID, "level", tilematch.GetStartLevel(), "profile", appConfig.Storage.Profile)

	runErr := tui.Run(game, cfg, tui.Options{
		Store:   store,
		Profile: appConfig.Storage.Profile,
		Logger:  logger,
	})

	// Close store before reporting
	if store != nil {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: closing scores database: %v\n", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("running game: %w", runErr)
	}
	return nil
}
