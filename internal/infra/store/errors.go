package store

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/hearth-ledger/hearth/internal/domain"
)

// ─── Constraint Translation ─────────────────────────────────────────────────
// The database is the authority on uniqueness and referential integrity.
// Engine-specific constraint failures become domain kinds here and nowhere
// else, so a duplicate never surfaces as an unexpected error.

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

type constraint int

const (
	constraintNone constraint = iota
	constraintUnique
	constraintForeignKey
	constraintCheck
)

func classify(err error) constraint {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return constraintUnique
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return constraintForeignKey
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return constraintCheck
		}
		// Primary result code only: fall back to the engine message.
		if se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			msg := se.Error()
			switch {
			case strings.Contains(msg, "UNIQUE constraint failed"):
				return constraintUnique
			case strings.Contains(msg, "FOREIGN KEY constraint failed"):
				return constraintForeignKey
			case strings.Contains(msg, "CHECK constraint failed"):
				return constraintCheck
			}
		}
		return constraintNone
	}

	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		switch pe.Code {
		case pgUniqueViolation:
			return constraintUnique
		case pgForeignKeyViolation:
			return constraintForeignKey
		case pgCheckViolation:
			return constraintCheck
		}
	}
	return constraintNone
}

// translate maps a persistence error onto the domain taxonomy. Errors that
// are already classified pass through unchanged.
func translate(err error, entity, op string) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	switch classify(err) {
	case constraintUnique:
		return &domain.Error{Kind: domain.KindConflict, Entity: entity, Message: op + ": duplicate record", Err: err}
	case constraintForeignKey:
		return &domain.Error{Kind: domain.KindConflict, Entity: entity, Message: op + ": record is referenced by or references another record", Err: err}
	case constraintCheck:
		return &domain.Error{Kind: domain.KindValidation, Entity: entity, Message: op + ": value violates a constraint", Err: err}
	}
	return domain.Unexpected(entity, op, err)
}
