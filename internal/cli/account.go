package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hearth-ledger/hearth/internal/daemon"
	"github.com/hearth-ledger/hearth/internal/domain"
)

// ─── Account CLI ────────────────────────────────────────────────────────────

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountAddCmd, accountListCmd, accountShowCmd,
		accountActivateCmd, accountDeactivateCmd, accountDeleteCmd, accountRecomputeCmd)

	accountAddCmd.Flags().String("moniker", "", "4-digit account moniker (default 0000)")
	accountListCmd.Flags().Bool("all", false, "Include inactive accounts")
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage accounts",
}

var accountAddCmd = &cobra.Command{
	Use:   "add NAME debit|credit",
	Short: "Register an account (names look like owner_name)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		moniker, _ := cmd.Flags().GetString("moniker")
		return withDaemon(cmd, func(ctx context.Context, d *daemon.Daemon, out io.Writer) error {
			a, err := d.Accounts.Create(ctx, domain.Account{
				AccountNameOwner: args[0],
				AccountType:      domain.AccountType(args[1]),
				Moniker:          moniker,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %s account %s (id %d)\n", a.AccountType, a.AccountNameOwner, a.ID)
			return nil
		})
	},
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		return withDaemon(cmd, func(ctx context.Context, d *daemon.Daemon, out io.Writer) error {
			list := d.Accounts.ListActive
			if all {
				list = d.Accounts.ListAll
			}
			accts, err := list(ctx)
			if err != nil {
				return err
			}
			return printAccounts(out, accts)
		})
	},
}

var accountShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show one account",
	Args:  cobra.ExactArgs(1),
	RunE:  accountAction((*accountActions).find),
}

var accountActivateCmd = &cobra.Command{
	Use:   "activate NAME",
	Short: "Reopen an account",
	Args:  cobra.ExactArgs(1),
	RunE:  accountAction((*accountActions).activate),
}

var accountDeactivateCmd = &cobra.Command{
	Use:   "deactivate NAME",
	Short: "Close an account",
	Args:  cobra.ExactArgs(1),
	RunE:  accountAction((*accountActions).deactivate),
}

var accountDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete an account nothing references",
	Args:  cobra.ExactArgs(1),
	RunE:  accountAction((*accountActions).delete),
}

var accountRecomputeCmd = &cobra.Command{
	Use:   "recompute NAME",
	Short: "Recompute totals from movements and compare with the latest cleared balance",
	Args:  cobra.ExactArgs(1),
	RunE:  accountAction((*accountActions).recompute),
}

// accountActions adapts single-name registry operations to commands.
type accountActions struct{ d *daemon.Daemon }

func (a *accountActions) find(ctx context.Context, name string) (domain.Account, error) {
	return a.d.Accounts.FindByName(ctx, name)
}

func (a *accountActions) activate(ctx context.Context, name string) (domain.Account, error) {
	return a.d.Accounts.Activate(ctx, name)
}

func (a *accountActions) deactivate(ctx context.Context, name string) (domain.Account, error) {
	return a.d.Accounts.Deactivate(ctx, name)
}

func (a *accountActions) delete(ctx context.Context, name string) (domain.Account, error) {
	return a.d.Accounts.Delete(ctx, name)
}

func (a *accountActions) recompute(ctx context.Context, name string) (domain.Account, error) {
	return a.d.Accounts.RecomputeTotals(ctx, name)
}

func accountAction(op func(*accountActions, context.Context, string) (domain.Account, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withDaemon(cmd, func(ctx context.Context, d *daemon.Daemon, out io.Writer) error {
			acct, err := op(&accountActions{d: d}, ctx, args[0])
			if err != nil {
				return err
			}
			return printAccounts(out, []domain.Account{acct})
		})
	}
}
