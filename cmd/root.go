// Package cmd implements the finsight CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/finsight/internal/api"
	"github.com/theirongolddev/finsight/internal/config"
	"github.com/theirongolddev/finsight/internal/tui/theme"
)

var (
	flagQuiet       bool
	flagVerbose     bool
	flagInsightsURL string
	flagAuthURL     string
)

// cfg is the effective configuration, loaded once per invocation.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:               "finsight",
	Short:             "AI spending insights in your terminal",
	Long:              "Fetch your spending analysis from the insights service and show the key findings.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runInsights,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().StringVar(&flagInsightsURL, "insights-url", "", "Insights service base URL (overrides "+config.EnvInsightsURL+")")
	rootCmd.PersistentFlags().StringVar(&flagAuthURL, "auth-url", "", "Auth service base URL")
}

// setup loads .env, configures logging and resolves the effective config.
func setup(_ *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	level := logrus.WarnLevel
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if l, err := logrus.ParseLevel(strings.TrimSpace(v)); err == nil {
			level = l
		}
	}
	if flagVerbose {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)

	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	applyFlags(&cfg)
	theme.SetActive(cfg.Appearance.Theme)

	logrus.WithFields(logrus.Fields{
		"config":   config.ConfigPath(),
		"auth":     cfg.API.AuthURL,
		"insights": cfg.API.InsightsURL,
	}).Debug("config loaded")
	return nil
}

func applyFlags(c *config.Config) {
	if flagInsightsURL != "" {
		c.API.InsightsURL = flagInsightsURL
	}
	if flagAuthURL != "" {
		c.API.AuthURL = flagAuthURL
	}
}

func newClient() *api.Client {
	return api.NewClient(api.Options{
		AuthURL:     cfg.API.AuthURL,
		InsightsURL: cfg.API.InsightsURL,
		Token:       cfg.API.Token,
		Timeout:     cfg.Timeout(),
	})
}

func progress(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
