package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hearth-ledger/hearth/internal/daemon"
)

// ─── Reporting CLI ──────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(totalsCmd, openCmd, dueCmd)
}

var totalsCmd = &cobra.Command{
	Use:   "totals [ACCOUNT]",
	Short: "Show reconciled totals by state, for all accounts or one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(cmd, func(ctx context.Context, d *daemon.Daemon, out io.Writer) error {
			if len(args) == 0 {
				t, err := d.Report.TotalsByState(ctx)
				if err != nil {
					return err
				}
				return printStateTotals(out, t)
			}
			r, err := d.Report.AccountTotals(ctx, args[0])
			if err != nil {
				return err
			}
			if err := printStateTotals(out, r.StateTotals); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nmovement net %s, balanced: %s\n", formatAmount(r.MovementNet), yesNo(r.TotalsBalanced))
			return nil
		})
	},
}

var openCmd = &cobra.Command{
	Use:   "open ACCOUNT",
	Short: "List movements newer than the latest cleared balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(cmd, func(ctx context.Context, d *daemon.Daemon, out io.Writer) error {
			items, err := d.Report.OpenItems(ctx, args[0])
			if err != nil {
				return err
			}
			tw := newTable(out, "KIND", "ID", "DATE", "SOURCE", "DESTINATION", "NET")
			for _, it := range items {
				row(tw, it.Kind, it.MovementID, it.TransactionDate, it.SourceAccount, it.DestinationAccount, formatAmount(it.Net))
			}
			return tw.Flush()
		})
	},
}

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List credit accounts with a balance to pay",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDaemon(cmd, func(ctx context.Context, d *daemon.Daemon, out io.Writer) error {
			due, err := d.Report.PaymentRequired(ctx)
			if err != nil {
				return err
			}
			tw := newTable(out, "ACCOUNT", "CLEARED", "OUTSTANDING")
			for _, r := range due {
				row(tw, r.AccountNameOwner, formatAmount(r.Cleared), formatAmount(r.Outstanding))
			}
			return tw.Flush()
		})
	},
}
