package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilematch/internal/games/tilematch"
	"github.com/vovakirdan/tilematch/internal/registry"
	"github.com/vovakirdan/tilematch/internal/storage"
)

var (
	flagProfiles     bool
	flagResetProfile string
	flagClearScores  bool
	flagAllRuns      bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores",
	Long: `Display the top 10 runs for a game, every run with --all, or the
saved profile counters.

Examples:
  tilematch scores
  tilematch scores tilematch_practice
  tilematch scores --all
  tilematch scores --profiles
  tilematch scores --reset-profile ada`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagProfiles, "profiles", false, "List saved profiles instead of runs")
	scoresCmd.Flags().StringVar(&flagResetProfile, "reset-profile", "", "Delete the saved score of a profile")
	scoresCmd.Flags().BoolVar(&flagClearScores, "clear", false, "Delete every recorded run of the game")
	scoresCmd.Flags().BoolVar(&flagAllRuns, "all", false, "List every recorded run instead of the top 10")
}

func runScores(_ *cobra.Command, args []string) error {
	gameID := tilematch.GameID
	if len(args) == 1 {
		gameID = args[0]
	}

	// Check if game exists
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q, run 'tilematch list' to see available games", gameID)
	}

	// Open score storage
	store, err := storage.Open(appConfig.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	switch {
	case flagResetProfile != "":
		if err := store.ResetProgress(flagResetProfile); err != nil {
			return err
		}
		fmt.Printf("Profile %q reset.\n", flagResetProfile)
		return nil
	case flagClearScores:
		if err := store.ClearScores(gameID); err != nil {
			return err
		}
		fmt.Printf("Runs of %s cleared.\n", gameID)
		return nil
	case flagProfiles:
		return printProfiles(store)
	}

	return printScores(os.Stdout, store, gameID, flagAllRuns)
}

// printScores writes the run table of a game: the top 10, or every run.
func printScores(w io.Writer, store *storage.Store, gameID string, all bool) error {
	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	var scores []storage.ScoreEntry
	if all {
		scores, err = store.AllScores(gameID)
	} else {
		scores, err = store.TopScores(gameID, 10)
	}
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	title := "High Scores"
	if all {
		title = "All Runs"
	}
	fmt.Fprintf(w, "%s - %s\n\n", title, game.Title())

	if len(scores) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Play 'tilematch play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Fprintf(w, "  %-4s  %-8s  %-6s  %-12s  %s\n", "Rank", "Score", "Levels", "Profile", "Date")
	fmt.Fprintf(w, "  %-4s  %-8s  %-6s  %-12s  %s\n", "----", "-----", "------", "-------", "----")
	for i, entry := range scores {
		fmt.Fprintf(w, "  %-4d  %-8d  %-6d  %-12s  %s\n",
			i+1, entry.Score, entry.Level, entry.Profile, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(gameID)
	if err == nil {
		fmt.Fprintf(w, "\nBest: %d  Runs: %d  Average: %.1f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
		if !stats.LastPlayed.IsZero() {
			fmt.Fprintf(w, "Last played: %s\n", stats.LastPlayed.Format("2006-01-02 15:04"))
		}
	}
	return nil
}

func printProfiles(store *storage.Store) error {
	profiles, err := store.Profiles()
	if err != nil {
		return err
	}

	fmt.Println("Profiles")
	fmt.Println()

	if len(profiles) == 0 {
		fmt.Println("No profiles saved yet.")
		return nil
	}

	fmt.Printf("  %-16s  %-8s  %-6s  %s\n", "Profile", "Score", "Level", "Updated")
	fmt.Printf("  %-16s  %-8s  %-6s  %s\n", "-------", "-----", "-----", "-------")
	for _, p := range profiles {
		fmt.Printf("  %-16s  %-8d  %-6d  %s\n", p.Profile, p.Score, p.Level+1, p.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
