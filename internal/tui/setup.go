package tui

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/finsight/internal/config"
	"github.com/theirongolddev/finsight/internal/tui/theme"
)

// SetupValues holds the answers collected by the setup form.
type SetupValues struct {
	AuthURL     string
	InsightsURL string
	Token       string
	Theme       string
}

// SetupValuesFrom seeds the form with the current configuration.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		AuthURL:     cfg.API.AuthURL,
		InsightsURL: cfg.API.InsightsURL,
		Token:       cfg.API.Token,
		Theme:       cfg.Appearance.Theme,
	}
}

// Apply copies the answers into cfg.
func (v SetupValues) Apply(cfg *config.Config) {
	cfg.API.AuthURL = strings.TrimSpace(v.AuthURL)
	cfg.API.InsightsURL = strings.TrimSpace(v.InsightsURL)
	cfg.API.Token = strings.TrimSpace(v.Token)
	cfg.Appearance.Theme = v.Theme
}

// NewSetupForm builds the setup wizard. The form writes into vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		themeOpts[i] = huh.NewOption(t.Name, t.Name)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to finsight").
				Description("Point finsight at your auth and insights services."),
			huh.NewInput().
				Title("Auth service URL").
				Description("Serves /api/auth/me and /api/auth/login").
				Validate(validateHTTPURL).
				Value(&vals.AuthURL),
			huh.NewInput().
				Title("Insights service URL").
				Description("Serves /insights/<user id>").
				Validate(validateHTTPURL).
				Value(&vals.InsightsURL),
			huh.NewInput().
				Title("Bearer token").
				Description("Leave empty and run `finsight login` later").
				EchoMode(huh.EchoModePassword).
				Value(&vals.Token),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithTheme(huh.ThemeDracula())
}

func validateHTTPURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("enter an http(s) URL")
	}
	return nil
}

// saveSetup persists the form answers, activates the chosen theme and returns
// the effective configuration with environment overrides applied.
func saveSetup(vals SetupValues) (config.Config, error) {
	cfg, err := config.LoadFile()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	vals.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	theme.SetActive(cfg.Appearance.Theme)
	if err := config.Save(cfg); err != nil {
		return cfg, err
	}
	return config.Load()
}
