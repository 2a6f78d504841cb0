package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tilematch/internal/config"
	"github.com/vovakirdan/tilematch/internal/games/tilematch"
)

var flagDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after the search order and flags are applied.
With --defaults the built-in default file is printed instead, ready to be
saved to ~/.tilematch/configs/tilematch.yaml and edited.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagDefaults, "defaults", false, "Print the built-in default config")
}

func runConfig(_ *cobra.Command, _ []string) error {
	if flagDefaults {
		_, err := os.Stdout.Write(config.GetDefaultYAML(tilematch.GameID))
		return err
	}

	out, err := yaml.Marshal(appConfig)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}
