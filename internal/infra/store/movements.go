package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hearth-ledger/hearth/internal/domain"
)

// ─── Movement Operations ────────────────────────────────────────────────────
// Transfers and payments share one shape. The kind picks the table and id
// column; the queries are otherwise identical.

type movementTable struct {
	table string
	id    string
}

var movementTables = map[domain.MovementKind]movementTable{
	domain.KindTransfer: {table: "transfers", id: "transfer_id"},
	domain.KindPayment:  {table: "payments", id: "payment_id"},
}

func tableFor(kind domain.MovementKind) (movementTable, error) {
	t, ok := movementTables[kind]
	if !ok {
		return movementTable{}, domain.Unexpected(string(kind), "resolve table", fmt.Errorf("unknown movement kind %q", kind))
	}
	return t, nil
}

func (t movementTable) columns() string {
	return t.id + `, source_account, destination_account, transaction_date, amount,
		guid_source, guid_destination, active_status, date_added, date_updated`
}

func scanMovement(row rowScanner) (domain.Movement, error) {
	var (
		m              domain.Movement
		date           string
		amount         int64
		added, updated string
	)
	err := row.Scan(&m.ID, &m.SourceAccount, &m.DestinationAccount, &date, &amount,
		&m.GUIDSource, &m.GUIDDestination, &m.ActiveStatus, &added, &updated)
	if err != nil {
		return domain.Movement{}, err
	}
	d, err := domain.ParseDate(date)
	if err != nil {
		return domain.Movement{}, fmt.Errorf("stored transaction_date %q: %w", date, err)
	}
	m.TransactionDate = d
	m.Amount = domain.NewAmountFromCents(amount)
	m.DateAdded = parseTimestamp(added)
	m.DateUpdated = parseTimestamp(updated)
	return m, nil
}

// InsertMovement persists a movement. A repeated (guid_source,
// guid_destination) pair fails the unique index and returns a conflict;
// an unknown account fails the foreign key.
func (db *DB) InsertMovement(ctx context.Context, kind domain.MovementKind, m domain.Movement) (domain.Movement, error) {
	t, err := tableFor(kind)
	if err != nil {
		return domain.Movement{}, err
	}
	ts := now()
	m.DateAdded, m.DateUpdated = ts, ts
	err = db.WithTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, db.rebind(`
			INSERT INTO `+t.table+` (source_account, destination_account, transaction_date, amount,
				guid_source, guid_destination, active_status, date_added, date_updated)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING `+t.id,
		), m.SourceAccount, m.DestinationAccount, m.TransactionDate.String(), m.Amount.Cents(),
			m.GUIDSource, m.GUIDDestination, m.ActiveStatus,
			formatTimestamp(ts), formatTimestamp(ts)).Scan(&m.ID)
	})
	if err != nil {
		return domain.Movement{}, translate(err, string(kind), "insert "+string(kind))
	}
	return m, nil
}

// GetMovement returns one movement by id.
func (db *DB) GetMovement(ctx context.Context, kind domain.MovementKind, id int64) (domain.Movement, error) {
	t, err := tableFor(kind)
	if err != nil {
		return domain.Movement{}, err
	}
	m, err := scanMovement(db.db.QueryRowContext(ctx, db.rebind(
		`SELECT `+t.columns()+` FROM `+t.table+` WHERE `+t.id+` = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Movement{}, domain.NotFoundf(string(kind), "%s %d not found", kind, id)
	}
	if err != nil {
		return domain.Movement{}, translate(err, string(kind), "get "+string(kind))
	}
	return m, nil
}

// FindMovementByGUIDs returns the movement holding a GUID pair.
func (db *DB) FindMovementByGUIDs(ctx context.Context, kind domain.MovementKind, guidSource, guidDestination string) (domain.Movement, error) {
	t, err := tableFor(kind)
	if err != nil {
		return domain.Movement{}, err
	}
	m, err := scanMovement(db.db.QueryRowContext(ctx, db.rebind(
		`SELECT `+t.columns()+` FROM `+t.table+` WHERE guid_source = ? AND guid_destination = ?`),
		guidSource, guidDestination))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Movement{}, domain.NotFoundf(string(kind), "%s with guids %s/%s not found", kind, guidSource, guidDestination)
	}
	if err != nil {
		return domain.Movement{}, translate(err, string(kind), "find "+string(kind))
	}
	return m, nil
}

// DeleteMovement removes a movement and returns it.
func (db *DB) DeleteMovement(ctx context.Context, kind domain.MovementKind, id int64) (domain.Movement, error) {
	t, err := tableFor(kind)
	if err != nil {
		return domain.Movement{}, err
	}
	var out domain.Movement
	err = db.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = scanMovement(tx.QueryRowContext(ctx, db.rebind(
			`SELECT `+t.columns()+` FROM `+t.table+` WHERE `+t.id+` = ?`), id))
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundf(string(kind), "%s %d not found", kind, id)
		}
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, db.rebind(`DELETE FROM `+t.table+` WHERE `+t.id+` = ?`), id)
		return err
	})
	if err != nil {
		return domain.Movement{}, translate(err, string(kind), "delete "+string(kind))
	}
	return out, nil
}

// ListMovements returns movements newest first.
func (db *DB) ListMovements(ctx context.Context, kind domain.MovementKind, activeOnly bool) ([]domain.Movement, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + t.columns() + ` FROM ` + t.table
	var args []any
	if activeOnly {
		query += ` WHERE active_status = ?`
		args = append(args, true)
	}
	query += ` ORDER BY transaction_date DESC, ` + t.id + ` DESC`
	return db.queryMovements(ctx, kind, query, args...)
}

// ListMovementsByAccount returns active movements touching an account,
// newest first.
func (db *DB) ListMovementsByAccount(ctx context.Context, kind domain.MovementKind, accountNameOwner string) ([]domain.Movement, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + t.columns() + ` FROM ` + t.table + `
		WHERE active_status = ? AND (source_account = ? OR destination_account = ?)
		ORDER BY transaction_date DESC, ` + t.id + ` DESC`
	return db.queryMovements(ctx, kind, query, true, accountNameOwner, accountNameOwner)
}

func (db *DB) queryMovements(ctx context.Context, kind domain.MovementKind, query string, args ...any) ([]domain.Movement, error) {
	rows, err := db.db.QueryContext(ctx, db.rebind(query), args...)
	if err != nil {
		return nil, translate(err, string(kind), "list "+string(kind))
	}
	defer rows.Close()

	out := []domain.Movement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, translate(err, string(kind), "scan "+string(kind))
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, string(kind), "list "+string(kind))
	}
	return out, nil
}

// ListGUIDPairs returns every persisted GUID pair key.
func (db *DB) ListGUIDPairs(ctx context.Context, kind domain.MovementKind) ([]string, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := db.db.QueryContext(ctx, `SELECT guid_source, guid_destination FROM `+t.table)
	if err != nil {
		return nil, translate(err, string(kind), "list guids")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var src, dst string
		if err := rows.Scan(&src, &dst); err != nil {
			return nil, translate(err, string(kind), "scan guids")
		}
		out = append(out, domain.GUIDPairKey(src, dst))
	}
	return out, translate(rows.Err(), string(kind), "list guids")
}
