package domain

import "context"

// ─── Store Interfaces ───────────────────────────────────────────────────────
// Boundaries between the application services and persistence. The
// infrastructure implements them; services depend only on these.
//
// Single-entity reads and deletes return a KindNotFound error when the row
// is absent. List methods return an empty slice instead.

// AccountStore persists accounts.
type AccountStore interface {
	InsertAccount(ctx context.Context, a Account) (Account, error)
	GetAccountByName(ctx context.Context, name string) (Account, error)
	ListAccounts(ctx context.Context, activeOnly bool) ([]Account, error)
	SetAccountActive(ctx context.Context, name string, active bool, closed *Date) (Account, error)
	UpdateAccountTotals(ctx context.Context, name string, totals Amount, balanced bool) (Account, error)
	DeleteAccount(ctx context.Context, name string) (Account, error)
}

// MovementStore persists transfers and payments. Both kinds share one
// shape; kind selects the table.
type MovementStore interface {
	InsertMovement(ctx context.Context, kind MovementKind, m Movement) (Movement, error)
	GetMovement(ctx context.Context, kind MovementKind, id int64) (Movement, error)
	FindMovementByGUIDs(ctx context.Context, kind MovementKind, guidSource, guidDestination string) (Movement, error)
	DeleteMovement(ctx context.Context, kind MovementKind, id int64) (Movement, error)
	ListMovements(ctx context.Context, kind MovementKind, activeOnly bool) ([]Movement, error)
	ListMovementsByAccount(ctx context.Context, kind MovementKind, accountNameOwner string) ([]Movement, error)
	ListGUIDPairs(ctx context.Context, kind MovementKind) ([]string, error)
}

// ValidationAmountStore persists reconciliation snapshots.
type ValidationAmountStore interface {
	InsertValidationAmount(ctx context.Context, v ValidationAmount) (ValidationAmount, error)
	GetValidationAmount(ctx context.Context, id int64) (ValidationAmount, error)
	DeleteValidationAmount(ctx context.Context, id int64) (ValidationAmount, error)
	ListValidationAmounts(ctx context.Context, accountID int64, state TransactionState) ([]ValidationAmount, error)
	LatestValidationAmount(ctx context.Context, accountID int64, state TransactionState) (ValidationAmount, error)
	ListActiveValidationAmounts(ctx context.Context) ([]ValidationAmount, error)
}

// ParameterStore persists configuration parameters.
type ParameterStore interface {
	InsertParameter(ctx context.Context, p Parameter) (Parameter, error)
	GetParameter(ctx context.Context, name string) (Parameter, error)
	ListParameters(ctx context.Context, activeOnly bool) ([]Parameter, error)
	UpdateParameter(ctx context.Context, name, value string) (Parameter, error)
	DeleteParameter(ctx context.Context, name string) (Parameter, error)
}
