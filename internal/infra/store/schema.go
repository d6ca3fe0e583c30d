package store

// ─── Schema ─────────────────────────────────────────────────────────────────
// Each string is a single idempotent statement. Amounts are integer cents,
// calendar dates are YYYY-MM-DD text and audit stamps are RFC 3339 text.
// Uniqueness and referential integrity live here, not in application code.

func sqliteMigrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			account_id         INTEGER PRIMARY KEY AUTOINCREMENT,
			account_name_owner TEXT NOT NULL UNIQUE,
			account_type       TEXT NOT NULL CHECK (account_type IN ('debit', 'credit')),
			active_status      INTEGER NOT NULL DEFAULT 1,
			moniker            TEXT NOT NULL DEFAULT '0000',
			totals             INTEGER NOT NULL DEFAULT 0,
			totals_balanced    INTEGER NOT NULL DEFAULT 0,
			date_closed        TEXT,
			date_added         TEXT NOT NULL,
			date_updated       TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS transfers (
			transfer_id         INTEGER PRIMARY KEY AUTOINCREMENT,
			source_account      TEXT NOT NULL REFERENCES accounts(account_name_owner),
			destination_account TEXT NOT NULL REFERENCES accounts(account_name_owner),
			transaction_date    TEXT NOT NULL,
			amount              INTEGER NOT NULL CHECK (amount > 0),
			guid_source         TEXT NOT NULL,
			guid_destination    TEXT NOT NULL,
			active_status       INTEGER NOT NULL DEFAULT 1,
			date_added          TEXT NOT NULL,
			date_updated        TEXT NOT NULL,
			CHECK (source_account <> destination_account),
			UNIQUE (guid_source, guid_destination)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_date ON transfers(transaction_date)`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_source ON transfers(source_account)`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_destination ON transfers(destination_account)`,

		`CREATE TABLE IF NOT EXISTS payments (
			payment_id          INTEGER PRIMARY KEY AUTOINCREMENT,
			source_account      TEXT NOT NULL REFERENCES accounts(account_name_owner),
			destination_account TEXT NOT NULL REFERENCES accounts(account_name_owner),
			transaction_date    TEXT NOT NULL,
			amount              INTEGER NOT NULL CHECK (amount > 0),
			guid_source         TEXT NOT NULL,
			guid_destination    TEXT NOT NULL,
			active_status       INTEGER NOT NULL DEFAULT 1,
			date_added          TEXT NOT NULL,
			date_updated        TEXT NOT NULL,
			CHECK (source_account <> destination_account),
			UNIQUE (guid_source, guid_destination)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_date ON payments(transaction_date)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_source ON payments(source_account)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_destination ON payments(destination_account)`,

		`CREATE TABLE IF NOT EXISTS validation_amounts (
			validation_id     INTEGER PRIMARY KEY AUTOINCREMENT,
			account_id        INTEGER NOT NULL REFERENCES accounts(account_id),
			validation_date   TEXT NOT NULL,
			amount            INTEGER NOT NULL,
			transaction_state TEXT NOT NULL CHECK (transaction_state IN ('cleared', 'outstanding', 'future')),
			active_status     INTEGER NOT NULL DEFAULT 1,
			date_added        TEXT NOT NULL,
			date_updated      TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_validation_account_state
			ON validation_amounts(account_id, transaction_state, validation_date)`,

		`CREATE TABLE IF NOT EXISTS parameters (
			parameter_id    INTEGER PRIMARY KEY AUTOINCREMENT,
			parameter_name  TEXT NOT NULL UNIQUE,
			parameter_value TEXT NOT NULL,
			active_status   INTEGER NOT NULL DEFAULT 1,
			date_added      TEXT NOT NULL,
			date_updated    TEXT NOT NULL
		)`,
	}
}

func postgresMigrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			account_id         BIGSERIAL PRIMARY KEY,
			account_name_owner TEXT NOT NULL UNIQUE,
			account_type       TEXT NOT NULL CHECK (account_type IN ('debit', 'credit')),
			active_status      BOOLEAN NOT NULL DEFAULT TRUE,
			moniker            TEXT NOT NULL DEFAULT '0000',
			totals             BIGINT NOT NULL DEFAULT 0,
			totals_balanced    BOOLEAN NOT NULL DEFAULT FALSE,
			date_closed        TEXT,
			date_added         TEXT NOT NULL,
			date_updated       TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS transfers (
			transfer_id         BIGSERIAL PRIMARY KEY,
			source_account      TEXT NOT NULL REFERENCES accounts(account_name_owner),
			destination_account TEXT NOT NULL REFERENCES accounts(account_name_owner),
			transaction_date    TEXT NOT NULL,
			amount              BIGINT NOT NULL CHECK (amount > 0),
			guid_source         TEXT NOT NULL,
			guid_destination    TEXT NOT NULL,
			active_status       BOOLEAN NOT NULL DEFAULT TRUE,
			date_added          TEXT NOT NULL,
			date_updated        TEXT NOT NULL,
			CHECK (source_account <> destination_account),
			UNIQUE (guid_source, guid_destination)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_date ON transfers(transaction_date)`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_source ON transfers(source_account)`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_destination ON transfers(destination_account)`,

		`CREATE TABLE IF NOT EXISTS payments (
			payment_id          BIGSERIAL PRIMARY KEY,
			source_account      TEXT NOT NULL REFERENCES accounts(account_name_owner),
			destination_account TEXT NOT NULL REFERENCES accounts(account_name_owner),
			transaction_date    TEXT NOT NULL,
			amount              BIGINT NOT NULL CHECK (amount > 0),
			guid_source         TEXT NOT NULL,
			guid_destination    TEXT NOT NULL,
			active_status       BOOLEAN NOT NULL DEFAULT TRUE,
			date_added          TEXT NOT NULL,
			date_updated        TEXT NOT NULL,
			CHECK (source_account <> destination_account),
			UNIQUE (guid_source, guid_destination)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_date ON payments(transaction_date)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_source ON payments(source_account)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_destination ON payments(destination_account)`,

		`CREATE TABLE IF NOT EXISTS validation_amounts (
			validation_id     BIGSERIAL PRIMARY KEY,
			account_id        BIGINT NOT NULL REFERENCES accounts(account_id),
			validation_date   TEXT NOT NULL,
			amount            BIGINT NOT NULL,
			transaction_state TEXT NOT NULL CHECK (transaction_state IN ('cleared', 'outstanding', 'future')),
			active_status     BOOLEAN NOT NULL DEFAULT TRUE,
			date_added        TEXT NOT NULL,
			date_updated      TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_validation_account_state
			ON validation_amounts(account_id, transaction_state, validation_date)`,

		`CREATE TABLE IF NOT EXISTS parameters (
			parameter_id    BIGSERIAL PRIMARY KEY,
			parameter_name  TEXT NOT NULL UNIQUE,
			parameter_value TEXT NOT NULL,
			active_status   BOOLEAN NOT NULL DEFAULT TRUE,
			date_added      TEXT NOT NULL,
			date_updated    TEXT NOT NULL
		)`,
	}
}
