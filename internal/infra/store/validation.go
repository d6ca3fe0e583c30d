package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hearth-ledger/hearth/internal/domain"
)

// ─── Validation Amount Operations ───────────────────────────────────────────

const validationColumns = `v.validation_id, v.account_id, a.account_name_owner, v.validation_date,
	v.amount, v.transaction_state, v.active_status, v.date_added, v.date_updated`

const validationFrom = ` FROM validation_amounts v JOIN accounts a ON a.account_id = v.account_id`

func scanValidation(row rowScanner) (domain.ValidationAmount, error) {
	var (
		v              domain.ValidationAmount
		date, state    string
		amount         int64
		added, updated string
	)
	err := row.Scan(&v.ID, &v.AccountID, &v.AccountNameOwner, &date,
		&amount, &state, &v.ActiveStatus, &added, &updated)
	if err != nil {
		return domain.ValidationAmount{}, err
	}
	d, err := domain.ParseDate(date)
	if err != nil {
		return domain.ValidationAmount{}, fmt.Errorf("stored validation_date %q: %w", date, err)
	}
	v.ValidationDate = d
	v.Amount = domain.NewAmountFromCents(amount)
	v.TransactionState = domain.TransactionState(state)
	v.DateAdded = parseTimestamp(added)
	v.DateUpdated = parseTimestamp(updated)
	return v, nil
}

// InsertValidationAmount persists a new snapshot. Earlier snapshots for the
// same account and state are left untouched.
func (db *DB) InsertValidationAmount(ctx context.Context, v domain.ValidationAmount) (domain.ValidationAmount, error) {
	ts := now()
	v.DateAdded, v.DateUpdated = ts, ts
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, db.rebind(`
			INSERT INTO validation_amounts (account_id, validation_date, amount, transaction_state,
				active_status, date_added, date_updated)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING validation_id
		`), v.AccountID, v.ValidationDate.String(), v.Amount.Cents(), string(v.TransactionState),
			v.ActiveStatus, formatTimestamp(ts), formatTimestamp(ts)).Scan(&v.ID)
	})
	if err != nil {
		return domain.ValidationAmount{}, translate(err, "validation_amount", "insert validation amount")
	}
	return v, nil
}

// GetValidationAmount returns one snapshot by id.
func (db *DB) GetValidationAmount(ctx context.Context, id int64) (domain.ValidationAmount, error) {
	v, err := scanValidation(db.db.QueryRowContext(ctx, db.rebind(
		`SELECT `+validationColumns+validationFrom+` WHERE v.validation_id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ValidationAmount{}, domain.NotFoundf("validation_amount", "validation amount %d not found", id)
	}
	if err != nil {
		return domain.ValidationAmount{}, translate(err, "validation_amount", "get validation amount")
	}
	return v, nil
}

// DeleteValidationAmount removes a snapshot and returns it.
func (db *DB) DeleteValidationAmount(ctx context.Context, id int64) (domain.ValidationAmount, error) {
	var out domain.ValidationAmount
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = scanValidation(tx.QueryRowContext(ctx, db.rebind(
			`SELECT `+validationColumns+validationFrom+` WHERE v.validation_id = ?`), id))
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundf("validation_amount", "validation amount %d not found", id)
		}
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, db.rebind(`DELETE FROM validation_amounts WHERE validation_id = ?`), id)
		return err
	})
	if err != nil {
		return domain.ValidationAmount{}, translate(err, "validation_amount", "delete validation amount")
	}
	return out, nil
}

// ListValidationAmounts returns active snapshots for one account and state,
// most recent first.
func (db *DB) ListValidationAmounts(ctx context.Context, accountID int64, state domain.TransactionState) ([]domain.ValidationAmount, error) {
	return db.queryValidations(ctx, `SELECT `+validationColumns+validationFrom+`
		WHERE v.account_id = ? AND v.transaction_state = ? AND v.active_status = ?
		ORDER BY v.validation_date DESC, v.validation_id DESC`,
		accountID, string(state), true)
}

// LatestValidationAmount returns the current snapshot for an account and
// state: the latest validation_date, ties broken by the newest id.
func (db *DB) LatestValidationAmount(ctx context.Context, accountID int64, state domain.TransactionState) (domain.ValidationAmount, error) {
	v, err := scanValidation(db.db.QueryRowContext(ctx, db.rebind(`SELECT `+validationColumns+validationFrom+`
		WHERE v.account_id = ? AND v.transaction_state = ? AND v.active_status = ?
		ORDER BY v.validation_date DESC, v.validation_id DESC
		LIMIT 1`), accountID, string(state), true))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ValidationAmount{}, domain.NotFoundf("validation_amount",
			"no %s validation amount for account %d", state, accountID)
	}
	if err != nil {
		return domain.ValidationAmount{}, translate(err, "validation_amount", "latest validation amount")
	}
	return v, nil
}

// ListActiveValidationAmounts returns every active snapshot, most recent
// first.
func (db *DB) ListActiveValidationAmounts(ctx context.Context) ([]domain.ValidationAmount, error) {
	return db.queryValidations(ctx, `SELECT `+validationColumns+validationFrom+`
		WHERE v.active_status = ?
		ORDER BY v.validation_date DESC, v.validation_id DESC`, true)
}

func (db *DB) queryValidations(ctx context.Context, query string, args ...any) ([]domain.ValidationAmount, error) {
	rows, err := db.db.QueryContext(ctx, db.rebind(query), args...)
	if err != nil {
		return nil, translate(err, "validation_amount", "list validation amounts")
	}
	defer rows.Close()

	out := []domain.ValidationAmount{}
	for rows.Next() {
		v, err := scanValidation(rows)
		if err != nil {
			return nil, translate(err, "validation_amount", "scan validation amount")
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "validation_amount", "list validation amounts")
	}
	return out, nil
}
