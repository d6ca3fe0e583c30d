package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hearth-ledger/hearth/internal/daemon"
	"github.com/hearth-ledger/hearth/internal/domain"
)

// ─── Validation Amount CLI ──────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(validationCmd)
	validationCmd.AddCommand(validationAddCmd, validationListCmd, validationLatestCmd, validationDeleteCmd)
	validationAddCmd.Flags().String("date", "", "Statement date YYYY-MM-DD (default today)")
}

var validationCmd = &cobra.Command{
	Use:     "validation",
	Aliases: []string{"reconcile"},
	Short:   "Record statement balances per account and state",
}

var validationAddCmd = &cobra.Command{
	Use:   "add ACCOUNT cleared|outstanding|future AMOUNT",
	Short: "Record a statement balance",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("date")
		date, err := parseDateFlag(raw)
		if err != nil {
			return err
		}
		amount, err := domain.ParseAmount(args[2])
		if err != nil {
			return err
		}
		return withDaemon(cmd, func(ctx context.Context, d *daemon.Daemon, out io.Writer) error {
			v, err := d.Reconcile.Submit(ctx, args[0], args[1], amount, date)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Recorded %s balance %s for %s on %s (id %d)\n",
				v.TransactionState, formatAmount(v.Amount), v.AccountNameOwner, v.ValidationDate, v.ID)
			return nil
		})
	},
}

var validationListCmd = &cobra.Command{
	Use:   "list ACCOUNT STATE",
	Short: "List recorded balances, newest first",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(cmd, func(ctx context.Context, d *daemon.Daemon, out io.Writer) error {
			vs, err := d.Reconcile.QueryByAccountAndState(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return printValidations(out, vs)
		})
	},
}

var validationLatestCmd = &cobra.Command{
	Use:   "latest ACCOUNT STATE",
	Short: "Show the current balance for an account and state",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(cmd, func(ctx context.Context, d *daemon.Daemon, out io.Writer) error {
			v, err := d.Reconcile.Latest(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return printValidations(out, []domain.ValidationAmount{v})
		})
	},
}

var validationDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a recorded balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withDaemon(cmd, func(ctx context.Context, d *daemon.Daemon, out io.Writer) error {
			v, err := d.Reconcile.Delete(ctx, id)
			if err != nil {
				return err
			}
			return printValidations(out, []domain.ValidationAmount{v})
		})
	},
}
