package store

import (
	"context"
	"errors"
	"testing"

	"github.com/hearth-ledger/hearth/internal/domain"
)

// ─── Movements ──────────────────────────────────────────────────────────────

func newMovement(src, dst, date, amount, gs, gd string) domain.Movement {
	return domain.Movement{
		SourceAccount:      src,
		DestinationAccount: dst,
		TransactionDate:    domain.MustDate(date),
		Amount:             domain.MustAmount(amount),
		GUIDSource:         gs,
		GUIDDestination:    gd,
		ActiveStatus:       true,
	}
}

func seedPair(t *testing.T, db *DB) {
	t.Helper()
	seedAccount(t, db, "chase_brian", domain.AccountDebit)
	seedAccount(t, db, "savings_brian", domain.AccountDebit)
}

func TestInsertMovement_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedPair(t, db)

	for _, kind := range []domain.MovementKind{domain.KindTransfer, domain.KindPayment} {
		t.Run(string(kind), func(t *testing.T) {
			m, err := db.InsertMovement(ctx, kind, newMovement("chase_brian", "savings_brian", "2026-03-01", "125.50", "g-src-"+string(kind), "g-dst"))
			if err != nil {
				t.Fatalf("InsertMovement() error: %v", err)
			}
			if m.ID == 0 {
				t.Fatal("ID should be assigned")
			}
			got, err := db.GetMovement(ctx, kind, m.ID)
			if err != nil {
				t.Fatalf("GetMovement() error: %v", err)
			}
			if got.Amount.String() != "125.50" {
				t.Errorf("Amount = %s, want 125.50", got.Amount)
			}
			if got.TransactionDate.String() != "2026-03-01" {
				t.Errorf("TransactionDate = %s, want 2026-03-01", got.TransactionDate)
			}
		})
	}
}

func TestInsertMovement_DuplicateGUIDPairIsConflict(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedPair(t, db)

	m := newMovement("chase_brian", "savings_brian", "2026-03-01", "10.00", "g1", "g2")
	if _, err := db.InsertMovement(ctx, domain.KindTransfer, m); err != nil {
		t.Fatalf("first insert error: %v", err)
	}
	_, err := db.InsertMovement(ctx, domain.KindTransfer, m)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("second insert error = %v, want conflict", err)
	}

	all, _ := db.ListMovements(ctx, domain.KindTransfer, false)
	if len(all) != 1 {
		t.Errorf("persisted rows = %d, want 1", len(all))
	}
}

func TestInsertMovement_SameGUIDsOtherKindAllowed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedPair(t, db)

	m := newMovement("chase_brian", "savings_brian", "2026-03-01", "10.00", "g1", "g2")
	if _, err := db.InsertMovement(ctx, domain.KindTransfer, m); err != nil {
		t.Fatal(err)
	}
	if _, err := db.InsertMovement(ctx, domain.KindPayment, m); err != nil {
		t.Errorf("payment with transfer's guids error: %v", err)
	}
}

func TestInsertMovement_UnknownAccountIsConflict(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db, "chase_brian", domain.AccountDebit)

	_, err := db.InsertMovement(context.Background(), domain.KindTransfer,
		newMovement("chase_brian", "ghost_account", "2026-03-01", "10.00", "g1", "g2"))
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("foreign key error = %v, want conflict", err)
	}
}

func TestInsertMovement_SelfTransferIsValidation(t *testing.T) {
	db := newTestDB(t)
	seedAccount(t, db, "chase_brian", domain.AccountDebit)

	_, err := db.InsertMovement(context.Background(), domain.KindTransfer,
		newMovement("chase_brian", "chase_brian", "2026-03-01", "10.00", "g1", "g2"))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("self transfer error = %v, want validation", err)
	}
}

func TestDeleteMovement(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedPair(t, db)

	m, err := db.InsertMovement(ctx, domain.KindTransfer, newMovement("chase_brian", "savings_brian", "2026-03-01", "10.00", "g1", "g2"))
	if err != nil {
		t.Fatal(err)
	}
	deleted, err := db.DeleteMovement(ctx, domain.KindTransfer, m.ID)
	if err != nil {
		t.Fatalf("DeleteMovement() error: %v", err)
	}
	if deleted.GUIDSource != "g1" || deleted.GUIDDestination != "g2" {
		t.Errorf("deleted guids = %s/%s, want g1/g2", deleted.GUIDSource, deleted.GUIDDestination)
	}
	if _, err := db.DeleteMovement(ctx, domain.KindTransfer, 999999); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("delete unknown error = %v, want not found", err)
	}
}

func TestListMovements_OrderAndFilters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedPair(t, db)
	seedAccount(t, db, "other_brian", domain.AccountDebit)

	db.InsertMovement(ctx, domain.KindTransfer, newMovement("chase_brian", "savings_brian", "2026-01-01", "1.00", "a", "a"))
	db.InsertMovement(ctx, domain.KindTransfer, newMovement("savings_brian", "chase_brian", "2026-03-01", "2.00", "b", "b"))
	db.InsertMovement(ctx, domain.KindTransfer, newMovement("other_brian", "savings_brian", "2026-02-01", "3.00", "c", "c"))

	all, err := db.ListMovements(ctx, domain.KindTransfer, true)
	if err != nil {
		t.Fatalf("ListMovements() error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListMovements() = %d rows, want 3", len(all))
	}
	if all[0].TransactionDate.String() != "2026-03-01" || all[2].TransactionDate.String() != "2026-01-01" {
		t.Errorf("order = %s..%s, want newest first", all[0].TransactionDate, all[2].TransactionDate)
	}

	chase, err := db.ListMovementsByAccount(ctx, domain.KindTransfer, "chase_brian")
	if err != nil {
		t.Fatalf("ListMovementsByAccount() error: %v", err)
	}
	if len(chase) != 2 {
		t.Errorf("chase movements = %d, want 2", len(chase))
	}

	keys, err := db.ListGUIDPairs(ctx, domain.KindTransfer)
	if err != nil {
		t.Fatalf("ListGUIDPairs() error: %v", err)
	}
	if len(keys) != 3 {
		t.Errorf("guid pairs = %d, want 3", len(keys))
	}

	payments, err := db.ListMovements(ctx, domain.KindPayment, true)
	if err != nil {
		t.Fatal(err)
	}
	if payments == nil || len(payments) != 0 {
		t.Errorf("payments = %v, want empty non-nil slice", payments)
	}
}

func TestFindMovementByGUIDs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedPair(t, db)

	db.InsertMovement(ctx, domain.KindPayment, newMovement("chase_brian", "savings_brian", "2026-01-01", "1.00", "s", "d"))

	if _, err := db.FindMovementByGUIDs(ctx, domain.KindPayment, "s", "d"); err != nil {
		t.Errorf("FindMovementByGUIDs() error: %v", err)
	}
	if _, err := db.FindMovementByGUIDs(ctx, domain.KindPayment, "d", "s"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("swapped guids error = %v, want not found", err)
	}
}
