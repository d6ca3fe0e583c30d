package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hearth-ledger/hearth/internal/domain"
)

// ─── Parameter Operations ───────────────────────────────────────────────────

const parameterColumns = `parameter_id, parameter_name, parameter_value, active_status, date_added, date_updated`

func scanParameter(row rowScanner) (domain.Parameter, error) {
	var (
		p              domain.Parameter
		added, updated string
	)
	if err := row.Scan(&p.ID, &p.ParameterName, &p.ParameterValue, &p.ActiveStatus, &added, &updated); err != nil {
		return domain.Parameter{}, err
	}
	p.DateAdded = parseTimestamp(added)
	p.DateUpdated = parseTimestamp(updated)
	return p, nil
}

// InsertParameter persists a parameter. A duplicate name is a conflict.
func (db *DB) InsertParameter(ctx context.Context, p domain.Parameter) (domain.Parameter, error) {
	ts := now()
	p.DateAdded, p.DateUpdated = ts, ts
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, db.rebind(`
			INSERT INTO parameters (parameter_name, parameter_value, active_status, date_added, date_updated)
			VALUES (?, ?, ?, ?, ?)
			RETURNING parameter_id
		`), p.ParameterName, p.ParameterValue, p.ActiveStatus, formatTimestamp(ts), formatTimestamp(ts)).Scan(&p.ID)
	})
	if err != nil {
		return domain.Parameter{}, translate(err, "parameter", "insert parameter "+p.ParameterName)
	}
	return p, nil
}

// GetParameter returns a parameter by name, active or not.
func (db *DB) GetParameter(ctx context.Context, name string) (domain.Parameter, error) {
	p, err := scanParameter(db.db.QueryRowContext(ctx, db.rebind(
		`SELECT `+parameterColumns+` FROM parameters WHERE parameter_name = ?`), name))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Parameter{}, domain.NotFoundf("parameter", "parameter %q not found", name)
	}
	if err != nil {
		return domain.Parameter{}, translate(err, "parameter", "get parameter")
	}
	return p, nil
}

// ListParameters returns parameters ordered by name.
func (db *DB) ListParameters(ctx context.Context, activeOnly bool) ([]domain.Parameter, error) {
	query := `SELECT ` + parameterColumns + ` FROM parameters`
	var args []any
	if activeOnly {
		query += ` WHERE active_status = ?`
		args = append(args, true)
	}
	query += ` ORDER BY parameter_name`

	rows, err := db.db.QueryContext(ctx, db.rebind(query), args...)
	if err != nil {
		return nil, translate(err, "parameter", "list parameters")
	}
	defer rows.Close()

	out := []domain.Parameter{}
	for rows.Next() {
		p, err := scanParameter(rows)
		if err != nil {
			return nil, translate(err, "parameter", "scan parameter")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "parameter", "list parameters")
	}
	return out, nil
}

// UpdateParameter replaces a parameter's value.
func (db *DB) UpdateParameter(ctx context.Context, name, value string) (domain.Parameter, error) {
	var out domain.Parameter
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, db.rebind(
			`UPDATE parameters SET parameter_value = ?, date_updated = ? WHERE parameter_name = ?`),
			value, formatTimestamp(now()), name)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.NotFoundf("parameter", "parameter %q not found", name)
		}
		out, err = scanParameter(tx.QueryRowContext(ctx, db.rebind(
			`SELECT `+parameterColumns+` FROM parameters WHERE parameter_name = ?`), name))
		return err
	})
	if err != nil {
		return domain.Parameter{}, translate(err, "parameter", "update parameter")
	}
	return out, nil
}

// DeleteParameter removes a parameter and returns it.
func (db *DB) DeleteParameter(ctx context.Context, name string) (domain.Parameter, error) {
	var out domain.Parameter
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = scanParameter(tx.QueryRowContext(ctx, db.rebind(
			`SELECT `+parameterColumns+` FROM parameters WHERE parameter_name = ?`), name))
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundf("parameter", "parameter %q not found", name)
		}
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, db.rebind(`DELETE FROM parameters WHERE parameter_id = ?`), out.ID)
		return err
	})
	if err != nil {
		return domain.Parameter{}, translate(err, "parameter", "delete parameter")
	}
	return out, nil
}

// Compile-time checks that *DB satisfies every store boundary.
var (
	_ domain.AccountStore          = (*DB)(nil)
	_ domain.MovementStore         = (*DB)(nil)
	_ domain.ValidationAmountStore = (*DB)(nil)
	_ domain.ParameterStore        = (*DB)(nil)
)
