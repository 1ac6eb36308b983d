package cli

import (
	"context"
	"fmt"
	"os"

	"foodshare-service/internal/app"
	"foodshare-service/internal/config"
	"foodshare-service/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCmd builds the foodsharectl command tree. Connection settings come from the
// same environment variables (and .env file) as the API server.
func NewRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "foodsharectl",
		Short: "Administration tool for the foodshare service",
		Long: `foodsharectl manages a foodshare database directly.

It reads DB_DRIVER, SQLITE_PATH, DATABASE_URL and JWT_SECRET from the environment,
exactly like the API server.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	env := &environment{verbose: &verbose}
	root.AddCommand(newMigrateCmd(env), newUserCmd(env), newTokenCmd(env))
	return root
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type environment struct {
	verbose *bool
}

func (e *environment) logger() *zap.Logger {
	if *e.verbose {
		l, err := zap.NewDevelopment()
		if err == nil {
			return l
		}
	}
	return zap.NewNop()
}

// withStore opens the configured store, runs fn and closes the store.
func (e *environment) withStore(ctx context.Context, fn func(cfg *config.Config, store repository.Store, logger *zap.Logger) error) error {
	cfg := config.Load()
	logger := e.logger()
	if cfg.DBDriver == "memory" {
		return fmt.Errorf("DB_DRIVER=memory has no persistent database to manage")
	}
	store, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cfg, store, logger)
}
