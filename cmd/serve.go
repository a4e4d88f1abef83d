package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/finsight/internal/auth"
	"github.com/theirongolddev/finsight/internal/devserver"
	"github.com/theirongolddev/finsight/internal/store"
)

var (
	flagServeAddr     string
	flagServeFixtures string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local auth and insights backend for development",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	serveCmd.Flags().StringVar(&flagServeFixtures, "fixtures", "", "Directory of <user id>.json insights payloads")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	logrus.SetLevel(max(logrus.GetLevel(), logrus.InfoLevel))

	st, err := store.Open(cfg.DatabaseURL())
	if err != nil {
		return err
	}
	defer st.Close()

	if cfg.Server.JWTSecret == "" {
		logrus.Warn("no JWT secret configured, using the development default")
	}

	addr := cfg.Server.Addr
	if flagServeAddr != "" {
		addr = flagServeAddr
	}
	fixtures := cfg.Server.FixturesDir
	if flagServeFixtures != "" {
		fixtures = flagServeFixtures
	}

	srv := devserver.New(
		devserver.Config{Addr: addr, FixturesDir: fixtures},
		st,
		auth.NewIssuer(cfg.JWTSecret()),
		logrus.StandardLogger(),
	)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
