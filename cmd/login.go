package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/finsight/internal/config"
)

var flagLoginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store a bearer token",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&flagLoginEmail, "email", "", "Account email")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	email := flagLoginEmail
	var password string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return errors.New("enter an email address")
					}
					return nil
				}).
				Value(&email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password),
		),
	).WithTheme(huh.ThemeDracula())
	if err := form.Run(); err != nil {
		return fmt.Errorf("login form: %w", err)
	}

	token, err := newClient().Login(commandContext(cmd), strings.TrimSpace(email), password)
	if err != nil {
		return err
	}

	// Rewrite from the file alone so env overrides are not persisted.
	fileCfg, err := config.LoadFile()
	if err != nil {
		return err
	}
	fileCfg.API.Token = token
	if err := config.Save(fileCfg); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	fmt.Printf("\n  Signed in as %s\n  Token saved to %s\n\n", email, config.ConfigPath())
	return nil
}
