// Package cli implements the hearth command line. Every command except
// serve opens the configured store directly and runs one operation.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hearth-ledger/hearth/internal/daemon"
	"github.com/hearth-ledger/hearth/internal/infra/logging"
)

var (
	configPath string
	currency   string
)

var rootCmd = &cobra.Command{
	Use:   "hearth",
	Short: "Household ledger: accounts, transfers, payments and reconciliation",
	Long: `hearth keeps a household ledger consistent. Transfers and payments are
idempotent by content, both sides must be registered accounts, and
statement balances are recorded as validation amounts per state.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.toml (default $HEARTH_HOME/config.toml)")
	rootCmd.PersistentFlags().StringVar(&currency, "currency", "USD", "ISO 4217 code used to display amounts")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// Root exposes the command tree, mainly for tests.
func Root() *cobra.Command { return rootCmd }

// loadConfig reads the configuration named by --config.
func loadConfig() (daemon.Config, error) {
	return daemon.LoadConfig(configPath)
}

// newLogger builds the zap logger for cfg.
func newLogger(cfg daemon.Config) (*zap.Logger, error) {
	return logging.New(logging.Config{Level: cfg.Log.Level, Development: cfg.Log.Development})
}

// withDaemon opens the store for one command. CLI commands log only
// warnings and above so output stays readable.
func withDaemon(cmd *cobra.Command, fn func(ctx context.Context, d *daemon.Daemon, out io.Writer) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if lvl, _ := logging.ParseLevel(cfg.Log.Level); lvl < zap.WarnLevel {
		cfg.Log.Level = "warn"
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	d, err := daemon.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer d.Close()
	return fn(ctx, d, cmd.OutOrStdout())
}
