package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/finsight/internal/seed"
	"github.com/theirongolddev/finsight/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the development test user if it does not exist",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	dsn := cfg.DatabaseURL()
	logrus.WithField("dialect", store.DialectFor(dsn)).Debug("opening user store")

	st, err := store.Open(dsn)
	if err != nil {
		return err
	}
	defer st.Close()

	_, err = seed.New(st, os.Stdout).Run(commandContext(cmd))
	return err
}
