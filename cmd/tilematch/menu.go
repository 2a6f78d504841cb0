package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilematch/internal/games/tilematch"
	"github.com/vovakirdan/tilematch/internal/platform/tui"
	"github.com/vovakirdan/tilematch/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a game picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Left/Right to pick the campaign preset
and Enter to select. After a game ends, you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Left/Right   - Change preset
  Enter/Space  - Select game
  Tab          - High scores
  Q            - Quit

Examples:
  tilematch menu
  tilematch menu --profile ada
  tilematch menu --theme neon`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	store := openStore()
	wireStore(store)

	// Cleanup
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	cfg := runtimeConfig()

	// Menu loop
	for {
		// Show menu and get selection
		menuResult, err := tui.RunMenu(store, appConfig.Storage.Profile, cfg)
		if err != nil {
			return err
		}

		// Update config with any size changes
		cfg = menuResult.Config

		// Check if user quit
		if menuResult.Quit {
			return nil
		}

		// Check if user wants scoreboard
		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				return sbErr
			}
			if goBack {
				continue // Back to menu
			}
			return nil // User quit from scoreboard
		}

		gameID := menuResult.GameID
		if gameID == "" {
			return nil
		}
		if gameID == tilematch.GameID {
			tilematch.SetPreset(menuResult.Preset)
		}

		// Show level selector
		selection, updatedCfg, selErr := tui.RunLevelSelector(cfg)
		if selErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", selErr)
			continue
		}
		cfg = updatedCfg

		// User pressed back or quit
		if selection == nil {
			continue
		}
		tilematch.SetStartLevel(selection.Level)

		// Create game instance
		game, err := registry.Create(gameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		// New tray order for each run unless pinned
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		logger.Info("starting game", "game", gameID, "preset", menuResult.Preset, "profile", appConfig.Storage.Profile)

		// Run the game
		if err := tui.Run(game, cfg, tui.Options{
			Store:   store,
			Profile: appConfig.Storage.Profile,
			Logger:  logger,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}

		// Loop back to menu
	}
}
