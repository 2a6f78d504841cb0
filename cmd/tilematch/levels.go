package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tilematch/internal/config"
	"github.com/vovakirdan/tilematch/internal/puzzle/levels"
)

var flagStrict bool

var levelsCmd = &cobra.Command{
	Use:   "levels [dir]",
	Short: "List and validate a level pack",
	Long: `List every level of a pack with its slot and piece counts, and report
levels that do not fit the configured grid.

Without a directory the --levels flag, then levels.dir from the config, then
the built-in pack is used.

Examples:
  tilematch levels
  tilematch levels ./my-levels --strict
  tilematch levels show lvl01`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLevels,
}

var levelsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the slots and pieces of one level",
	Args:  cobra.ExactArgs(1),
	RunE:  runLevelsShow,
}

func init() {
	levelsCmd.Flags().BoolVar(&flagStrict, "strict", false, "Exit with an error if any level is invalid")
	levelsCmd.AddCommand(levelsShowCmd)
}

// packLoader picks the level pack the same way the game does.
func packLoader(dir string) (*levels.Loader, string) {
	if dir == "" {
		dir = flagLevels
	}
	if dir == "" {
		dir = appConfig.Levels.Dir
	}
	if dir == "" {
		return levels.Builtin().WithLogger(logger), "built-in"
	}
	return levels.NewLoader(config.ExpandHome(dir)).WithLogger(logger), dir
}

func runLevels(_ *cobra.Command, args []string) error {
	var dir string
	if len(args) == 1 {
		dir = args[0]
	}
	loader, name := packLoader(dir)

	lvls, err := loader.LoadAll()
	if err != nil {
		return err
	}

	fmt.Printf("Level pack: %s (grid %dx%d)\n", name, appConfig.Grid.Columns, appConfig.Grid.Rows)
	fmt.Println()

	if len(lvls) == 0 {
		fmt.Println("No levels found.")
		return nil
	}

	// Calculate column widths
	maxIDLen, maxNameLen := 2, 4
	for _, l := range lvls {
		maxIDLen = max(maxIDLen, len(l.ID))
		maxNameLen = max(maxNameLen, len(l.Name))
	}

	fmt.Printf("  %-*s  %-*s  %5s  %6s  %s\n", maxIDLen, "ID", maxNameLen, "Name", "Slots", "Pieces", "Status")
	fmt.Printf("  %-*s  %-*s  %5s  %6s  %s\n", maxIDLen, "--", maxNameLen, "----", "-----", "------", "------")

	invalid := 0
	for _, l := range lvls {
		status := "ok"
		if err := l.Validate(appConfig.Cells()); err != nil {
			status = err.Error()
			invalid++
		}
		pieces := fmt.Sprintf("%d", len(l.Pieces))
		if len(l.Pieces) == 0 {
			pieces = "auto"
		}
		fmt.Printf("  %-*s  %-*s  %5d  %6s  %s\n", maxIDLen, l.ID, maxNameLen, l.Name, len(l.Slots), pieces, status)
	}

	fmt.Println()
	fmt.Printf("%d levels, %d playable\n", len(lvls), len(lvls)-invalid)

	if flagStrict && invalid > 0 {
		return errors.New("level pack has invalid levels")
	}
	return nil
}

func runLevelsShow(_ *cobra.Command, args []string) error {
	loader, _ := packLoader("")
	lvl, err := loader.LoadByID(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s - %s\n", lvl.ID, lvl.Name)
	if hint := lvl.Metadata["hint"]; hint != "" {
		fmt.Printf("Hint: %s\n", hint)
	}
	fmt.Println()

	fmt.Println("Slots:")
	fmt.Printf("  %4s  %4s  %8s  %7s  %s\n", "Cell", "Face", "Rotation", "Flipped", "Flags")
	for _, s := range lvl.Slots {
		var flags []string
		if s.IgnoreFlip {
			flags = append(flags, "ignore-flip")
		}
		if s.AllowDuplicate {
			flags = append(flags, "allow-duplicate")
		}
		fmt.Printf("  %4d  %4d  %7d%c  %7t  %v\n", s.Cell, s.Face, s.Rotation, s.Rotation.Arrow(), s.Flipped, flags)
	}

	if len(lvl.Pieces) == 0 {
		fmt.Println()
		fmt.Println("Pieces: generated from the slots")
		return nil
	}

	fmt.Println()
	fmt.Println("Pieces:")
	fmt.Printf("  %4s  %5s  %4s  %8s  %7s\n", "ID", "Front", "Back", "Rotation", "Flipped")
	for _, p := range lvl.Pieces {
		fmt.Printf("  %4d  %5d  %4d  %7d%c  %7t\n", p.ID, p.Front, p.Back, p.Rotation, p.Rotation.Arrow(), p.Flipped)
	}

	if err := lvl.Validate(appConfig.Cells()); err != nil {
		fmt.Println()
		fmt.Printf("Invalid: %v\n", err)
	}
	return nil
}
