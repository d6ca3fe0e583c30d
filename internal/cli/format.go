package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Rhymond/go-money"

	"github.com/hearth-ledger/hearth/internal/domain"
)

// formatAmount renders an amount in the display currency, e.g. "$1,250.00".
// The amount is scaled to the currency's minor unit, so JPY shows whole yen.
func formatAmount(a domain.Amount) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		cur = money.GetCurrency(money.USD)
	}
	minor := a.Decimal.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

func newTable(out io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cols ...any) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(tw, strings.Join(parts, "\t"))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func printAccounts(out io.Writer, accts []domain.Account) error {
	tw := newTable(out, "ACCOUNT", "TYPE", "ACTIVE", "MONIKER", "TOTALS", "BALANCED")
	for _, a := range accts {
		row(tw, a.AccountNameOwner, a.AccountType, yesNo(a.ActiveStatus), a.Moniker, formatAmount(a.Totals), yesNo(a.TotalsBalanced))
	}
	return tw.Flush()
}

func printMovements(out io.Writer, ms []domain.Movement) error {
	tw := newTable(out, "ID", "DATE", "SOURCE", "DESTINATION", "AMOUNT", "ACTIVE")
	for _, m := range ms {
		row(tw, m.ID, m.TransactionDate, m.SourceAccount, m.DestinationAccount, formatAmount(m.Amount), yesNo(m.ActiveStatus))
	}
	return tw.Flush()
}

func printValidations(out io.Writer, vs []domain.ValidationAmount) error {
	tw := newTable(out, "ID", "DATE", "ACCOUNT", "STATE", "AMOUNT")
	for _, v := range vs {
		row(tw, v.ID, v.ValidationDate, v.AccountNameOwner, v.TransactionState, formatAmount(v.Amount))
	}
	return tw.Flush()
}

func printParameters(out io.Writer, ps []domain.Parameter) error {
	tw := newTable(out, "NAME", "VALUE", "ACTIVE")
	for _, p := range ps {
		row(tw, p.ParameterName, p.ParameterValue, yesNo(p.ActiveStatus))
	}
	return tw.Flush()
}

func printStateTotals(out io.Writer, t domain.StateTotals) error {
	tw := newTable(out, "STATE", "AMOUNT")
	row(tw, domain.StateCleared, formatAmount(t.Cleared))
	row(tw, domain.StateOutstanding, formatAmount(t.Outstanding))
	row(tw, domain.StateFuture, formatAmount(t.Future))
	row(tw, "total", formatAmount(t.Total))
	return tw.Flush()
}

// parseDateFlag returns today for an empty value.
func parseDateFlag(s string) (domain.Date, error) {
	if s == "" {
		return domain.Today(), nil
	}
	return domain.ParseDate(s)
}
