package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hearth-ledger/hearth/internal/app/ledger"
	"github.com/hearth-ledger/hearth/internal/daemon"
	"github.com/hearth-ledger/hearth/internal/domain"
)

// ─── Transfer & Payment CLI ─────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(transferCmd, paymentCmd)

	transferCmd.AddCommand(transferAddCmd, transferListCmd, transferShowCmd, transferDeleteCmd)
	paymentCmd.AddCommand(paymentAddCmd, paymentListCmd, paymentShowCmd, paymentDeleteCmd)

	for _, c := range []*cobra.Command{transferAddCmd, paymentAddCmd} {
		c.Flags().String("date", "", "Transaction date YYYY-MM-DD (default today)")
		c.Flags().String("guid-source", "", "Explicit source GUID (default derived from content)")
		c.Flags().String("guid-destination", "", "Explicit destination GUID")
	}
	for _, c := range []*cobra.Command{transferListCmd, paymentListCmd} {
		c.Flags().Bool("active", false, "Only active records")
	}
}

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Record and inspect transfers between debit accounts",
}

var paymentCmd = &cobra.Command{
	Use:   "payment",
	Short: "Record and inspect credit account payments",
}

type movementFlags struct {
	date                 *domain.Date
	guidSource, guidDest string
}

func readMovementFlags(cmd *cobra.Command) (movementFlags, error) {
	raw, _ := cmd.Flags().GetString("date")
	date, err := parseDateFlag(raw)
	if err != nil {
		return movementFlags{}, err
	}
	gs, _ := cmd.Flags().GetString("guid-source")
	gd, _ := cmd.Flags().GetString("guid-destination")
	return movementFlags{date: &date, guidSource: gs, guidDest: gd}, nil
}

var transferAddCmd = &cobra.Command{
	Use:   "add SOURCE DESTINATION AMOUNT",
	Short: "Record a transfer",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := readMovementFlags(cmd)
		if err != nil {
			return err
		}
		amount, err := domain.ParseAmount(args[2])
		if err != nil {
			return err
		}
		return withDaemon(cmd, func(ctx context.Context, d *daemon.Daemon, out io.Writer) error {
			t, err := d.Ledger.InsertTransfer(ctx, ledger.TransferRequest{
				SourceAccount:      args[0],
				DestinationAccount: args[1],
				TransactionDate:    f.date,
				Amount:             &amount,
				GUIDSource:         f.guidSource,
				GUIDDestination:    f.guidDest,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Recorded transfer %d: %s -> %s %s\n", t.ID, t.SourceAccount, t.DestinationAccount, formatAmount(t.Amount))
			return nil
		})
	},
}

var paymentAddCmd = &cobra.Command{
	Use:   "add SOURCE AMOUNT",
	Short: "Record a payment to the configured payment_account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := readMovementFlags(cmd)
		if err != nil {
			return err
		}
		amount, err := domain.ParseAmount(args[1])
		if err != nil {
			return err
		}
		return withDaemon(cmd, func(ctx context.Context, d *daemon.Daemon, out io.Writer) error {
			p, err := d.Ledger.InsertPayment(ctx, ledger.PaymentRequest{
				SourceAccount:   args[0],
				TransactionDate: f.date,
				Amount:          &amount,
				GUIDSource:      f.guidSource,
				GUIDDestination: f.guidDest,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Recorded payment %d: %s -> %s %s\n", p.ID, p.SourceAccount, p.DestinationAccount, formatAmount(p.Amount))
			return nil
		})
	},
}

var transferListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transfers, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		active, _ := cmd.Flags().GetBool("active")
		return withDaemon(cmd, func(ctx context.Context, d *daemon.Daemon, out io.Writer) error {
			list := d.Ledger.ListTransfers
			if active {
				list = d.Ledger.ListActiveTransfers
			}
			ts, err := list(ctx)
			if err != nil {
				return err
			}
			ms := make([]domain.Movement, len(ts))
			for i, t := range ts {
				ms[i] = t.Movement
			}
			return printMovements(out, ms)
		})
	},
}

var paymentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List payments, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		active, _ := cmd.Flags().GetBool("active")
		return withDaemon(cmd, func(ctx context.Context, d *daemon.Daemon, out io.Writer) error {
			list := d.Ledger.ListPayments
			if active {
				list = d.Ledger.ListActivePayments
			}
			ps, err := list(ctx)
			if err != nil {
				return err
			}
			ms := make([]domain.Movement, len(ps))
			for i, p := range ps {
				ms[i] = p.Movement
			}
			return printMovements(out, ms)
		})
	},
}

var transferShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one transfer",
	Args:  cobra.ExactArgs(1),
	RunE: movementByID(func(ctx context.Context, d *daemon.Daemon, id int64) (domain.Movement, error) {
		t, err := d.Ledger.FindTransfer(ctx, id)
		return t.Movement, err
	}),
}

var transferDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a transfer",
	Args:  cobra.ExactArgs(1),
	RunE: movementByID(func(ctx context.Context, d *daemon.Daemon, id int64) (domain.Movement, error) {
		t, err := d.Ledger.DeleteTransfer(ctx, id)
		return t.Movement, err
	}),
}

var paymentShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one payment",
	Args:  cobra.ExactArgs(1),
	RunE: movementByID(func(ctx context.Context, d *daemon.Daemon, id int64) (domain.Movement, error) {
		p, err := d.Ledger.FindPayment(ctx, id)
		return p.Movement, err
	}),
}

var paymentDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a payment",
	Args:  cobra.ExactArgs(1),
	RunE: movementByID(func(ctx context.Context, d *daemon.Daemon, id int64) (domain.Movement, error) {
		p, err := d.Ledger.DeletePayment(ctx, id)
		return p.Movement, err
	}),
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validationf("", "invalid id %q", s)
	}
	return id, nil
}

func movementByID(op func(context.Context, *daemon.Daemon, int64) (domain.Movement, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withDaemon(cmd, func(ctx context.Context, d *daemon.Daemon, out io.Writer) error {
			m, err := op(ctx, d, id)
			if err != nil {
				return err
			}
			return printMovements(out, []domain.Movement{m})
		})
	}
}
