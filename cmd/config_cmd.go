package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/finsight/internal/config"
	"github.com/theirongolddev/finsight/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [API]")
	fmt.Printf("    Auth URL:     %s\n", cfg.API.AuthURL)
	fmt.Printf("    Insights URL: %s\n", cfg.API.InsightsURL)
	fmt.Printf("    Timeout:      %s\n", cfg.Timeout())
	if cfg.API.Token != "" {
		fmt.Printf("    Token:        %s\n", maskSecret(cfg.API.Token))
	} else {
		fmt.Println("    Token:        not configured (run `finsight login`)")
	}
	fmt.Println()

	fmt.Println("  [Database]")
	dsn := cfg.DatabaseURL()
	fmt.Printf("    %s: %s\n", store.DialectFor(dsn), dsn)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:    %s\n", cfg.Server.Addr)
	if cfg.Server.JWTSecret != "" {
		fmt.Printf("    JWT secret: %s\n", maskSecret(cfg.Server.JWTSecret))
	} else {
		fmt.Println("    JWT secret: development default")
	}
	if cfg.Server.FixturesDir != "" {
		fmt.Printf("    Fixtures:   %s\n", cfg.Server.FixturesDir)
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		fmt.Printf("  Problems:\n    %v\n\n", err)
		return err
	}
	return nil
}

func maskSecret(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
