package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hearth-ledger/hearth/internal/daemon"
	"github.com/hearth-ledger/hearth/internal/domain"
)

// ─── Parameter CLI ──────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(parameterCmd)
	parameterCmd.AddCommand(parameterSetCmd, parameterGetCmd, parameterListCmd, parameterDeleteCmd)
}

var parameterCmd = &cobra.Command{
	Use:     "parameter",
	Aliases: []string{"param"},
	Short:   "Manage configuration parameters such as payment_account",
}

var parameterSetCmd = &cobra.Command{
	Use:   "set NAME VALUE",
	Short: "Create or update a parameter",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(cmd, func(ctx context.Context, d *daemon.Daemon, out io.Writer) error {
			p, err := d.Parameters.Update(ctx, args[0], args[1])
			if errors.Is(err, domain.ErrNotFound) {
				p, err = d.Parameters.Insert(ctx, args[0], args[1])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s = %s\n", p.ParameterName, p.ParameterValue)
			return nil
		})
	},
}

var parameterGetCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Show a parameter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(cmd, func(ctx context.Context, d *daemon.Daemon, out io.Writer) error {
			p, err := d.Parameters.FindByName(ctx, args[0])
			if err != nil {
				return err
			}
			return printParameters(out, []domain.Parameter{p})
		})
	},
}

var parameterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active parameters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(cmd, func(ctx context.Context, d *daemon.Daemon, out io.Writer) error {
			ps, err := d.Parameters.ListActive(ctx)
			if err != nil {
				return err
			}
			return printParameters(out, ps)
		})
	},
}

var parameterDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a parameter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(cmd, func(ctx context.Context, d *daemon.Daemon, out io.Writer) error {
			p, err := d.Parameters.Delete(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted %s\n", p.ParameterName)
			return nil
		})
	},
}
