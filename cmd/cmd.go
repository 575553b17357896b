package cmd

import (
	"context"
	"log/slog"

	"github.com/ictalent/talent-network/cmd/migrate"
	"github.com/ictalent/talent-network/internal/config"
	"github.com/ictalent/talent-network/pkg/logger"
	"github.com/ictalent/talent-network/pkg/logger/slogx"
	"github.com/spf13/cobra"
)

var (
	// root command
	cmd = &cobra.Command{
		Use: "talent-network",
		Long: `Talent token factory: lets every identity create one talent token,
hands out platform tokens through an admin approved faucet, and sells talent tokens.`,
	}

	// sub-commands
	cmds = []*cobra.Command{
		NewVersionCommand(),
		NewRunCommand(),
		migrate.NewCommand(),
	}
)

// Execute runs the root command and returns its error, already printed by cobra.
func Execute(ctx context.Context) error {
	var configFile string

	// Add global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file, E.g. `./config.yaml`")
	flags.String("store", "", "store backend, E.g. `postgres` or `memory`")

	// Bind flags to configuration
	config.BindPFlag("store.backend", flags.Lookup("store"))

	// Initialize configuration and logger on start command
	cobra.OnInitialize(func() {
		// Initialize configuration
		config := config.Parse(configFile)

		// Initialize logger
		if err := logger.Init(config.Logger); err != nil {
			logger.Panic("Something went wrong, can't init logger", slogx.Error(err), slog.Any("config", config.Logger))
		}
	})

	// Register sub-commands
	cmd.AddCommand(cmds...)

	// Execute command
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.DebugContext(ctx, "Error executing command", slogx.Error(err))
		return err //nolint:wrapcheck
	}
	return nil
}
