package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hearth-ledger/hearth/internal/domain"
)

// ─── Account Operations ─────────────────────────────────────────────────────

const accountColumns = `account_id, account_name_owner, account_type, active_status, moniker,
	totals, totals_balanced, date_closed, date_added, date_updated`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var (
		a              domain.Account
		accountType    string
		totals         int64
		closed         sql.NullString
		added, updated string
	)
	err := row.Scan(&a.ID, &a.AccountNameOwner, &accountType, &a.ActiveStatus, &a.Moniker,
		&totals, &a.TotalsBalanced, &closed, &added, &updated)
	if err != nil {
		return domain.Account{}, err
	}
	a.AccountType = domain.AccountType(accountType)
	a.Totals = domain.NewAmountFromCents(totals)
	if closed.Valid {
		if d, err := domain.ParseDate(closed.String); err == nil {
			a.DateClosed = &d
		}
	}
	a.DateAdded = parseTimestamp(added)
	a.DateUpdated = parseTimestamp(updated)
	return a, nil
}

func nullDate(d *domain.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

// InsertAccount persists a new account. A duplicate name is a conflict.
func (db *DB) InsertAccount(ctx context.Context, a domain.Account) (domain.Account, error) {
	ts := now()
	a.DateAdded, a.DateUpdated = ts, ts
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, db.rebind(`
			INSERT INTO accounts (account_name_owner, account_type, active_status, moniker,
				totals, totals_balanced, date_closed, date_added, date_updated)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING account_id
		`), a.AccountNameOwner, string(a.AccountType), a.ActiveStatus, a.Moniker,
			a.Totals.Cents(), a.TotalsBalanced, nullDate(a.DateClosed),
			formatTimestamp(ts), formatTimestamp(ts)).Scan(&a.ID)
	})
	if err != nil {
		return domain.Account{}, translate(err, "account", "insert account "+a.AccountNameOwner)
	}
	return a, nil
}

// GetAccountByName returns the account or a not-found error.
func (db *DB) GetAccountByName(ctx context.Context, name string) (domain.Account, error) {
	row := db.db.QueryRowContext(ctx, db.rebind(
		`SELECT `+accountColumns+` FROM accounts WHERE account_name_owner = ?`), name)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, domain.NotFoundf("account", "account %q not found", name)
	}
	if err != nil {
		return domain.Account{}, translate(err, "account", "get account")
	}
	return a, nil
}

// ListAccounts returns accounts ordered by name.
func (db *DB) ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts`
	var args []any
	if activeOnly {
		query += ` WHERE active_status = ?`
		args = append(args, true)
	}
	query += ` ORDER BY account_name_owner`

	rows, err := db.db.QueryContext(ctx, db.rebind(query), args...)
	if err != nil {
		return nil, translate(err, "account", "list accounts")
	}
	defer rows.Close()

	out := []domain.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, translate(err, "account", "scan account")
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "account", "list accounts")
	}
	return out, nil
}

// SetAccountActive toggles active_status and date_closed.
func (db *DB) SetAccountActive(ctx context.Context, name string, active bool, closed *domain.Date) (domain.Account, error) {
	var out domain.Account
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, db.rebind(`
			UPDATE accounts SET active_status = ?, date_closed = ?, date_updated = ?
			WHERE account_name_owner = ?
		`), active, nullDate(closed), formatTimestamp(now()), name)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.NotFoundf("account", "account %q not found", name)
		}
		out, err = scanAccount(tx.QueryRowContext(ctx, db.rebind(
			`SELECT `+accountColumns+` FROM accounts WHERE account_name_owner = ?`), name))
		return err
	})
	if err != nil {
		return domain.Account{}, translate(err, "account", "update account status")
	}
	return out, nil
}

// UpdateAccountTotals stores recomputed totals.
func (db *DB) UpdateAccountTotals(ctx context.Context, name string, totals domain.Amount, balanced bool) (domain.Account, error) {
	var out domain.Account
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, db.rebind(`
			UPDATE accounts SET totals = ?, totals_balanced = ?, date_updated = ?
			WHERE account_name_owner = ?
		`), totals.Cents(), balanced, formatTimestamp(now()), name)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.NotFoundf("account", "account %q not found", name)
		}
		out, err = scanAccount(tx.QueryRowContext(ctx, db.rebind(
			`SELECT `+accountColumns+` FROM accounts WHERE account_name_owner = ?`), name))
		return err
	})
	if err != nil {
		return domain.Account{}, translate(err, "account", "update account totals")
	}
	return out, nil
}

// DeleteAccount removes an unreferenced account. Referenced accounts are
// rejected by the foreign keys and surface as conflicts.
func (db *DB) DeleteAccount(ctx context.Context, name string) (domain.Account, error) {
	var out domain.Account
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = scanAccount(tx.QueryRowContext(ctx, db.rebind(
			`SELECT `+accountColumns+` FROM accounts WHERE account_name_owner = ?`), name))
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundf("account", "account %q not found", name)
		}
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, db.rebind(`DELETE FROM accounts WHERE account_id = ?`), out.ID)
		return err
	})
	if err != nil {
		return domain.Account{}, translate(err, "account", "delete account "+name)
	}
	return out, nil
}
