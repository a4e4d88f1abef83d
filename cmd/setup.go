package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/finsight/internal/config"
	"github.com/theirongolddev/finsight/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadFile()
	if err != nil {
		return err
	}

	vals := tui.SetupValuesFrom(fileCfg)
	if err := tui.NewSetupForm(&vals).Run(); err != nil {
		return fmt.Errorf("setup form: %w", err)
	}

	vals.Apply(&fileCfg)
	if err := fileCfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(fileCfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\n  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `finsight` for a report or `finsight tui` for the dashboard.")
	fmt.Println()
	return nil
}
