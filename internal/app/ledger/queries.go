package ledger

import (
	"context"

	"go.uber.org/zap"

	"github.com/hearth-ledger/hearth/internal/domain"
	"github.com/hearth-ledger/hearth/internal/infra/observability"
)

// ─── Reads & Deletes ────────────────────────────────────────────────────────
// Lists are ordered by transactionDate desc, then id desc, and are never
// nil. Single-record reads and deletes return KindNotFound for an unknown id.

// FindTransfer returns a transfer by id.
func (l *Ledger) FindTransfer(ctx context.Context, id int64) (domain.Transfer, error) {
	m, err := l.store.GetMovement(ctx, domain.KindTransfer, id)
	if err != nil {
		return domain.Transfer{}, err
	}
	return domain.Transfer{Movement: m}, nil
}

// FindPayment returns a payment by id.
func (l *Ledger) FindPayment(ctx context.Context, id int64) (domain.Payment, error) {
	m, err := l.store.GetMovement(ctx, domain.KindPayment, id)
	if err != nil {
		return domain.Payment{}, err
	}
	return domain.Payment{Movement: m}, nil
}

// DeleteTransfer removes a transfer and returns it as it was.
func (l *Ledger) DeleteTransfer(ctx context.Context, id int64) (domain.Transfer, error) {
	m, err := l.delete(ctx, domain.KindTransfer, id)
	if err != nil {
		return domain.Transfer{}, err
	}
	return domain.Transfer{Movement: m}, nil
}

// DeletePayment removes a payment and returns it as it was.
func (l *Ledger) DeletePayment(ctx context.Context, id int64) (domain.Payment, error) {
	m, err := l.delete(ctx, domain.KindPayment, id)
	if err != nil {
		return domain.Payment{}, err
	}
	return domain.Payment{Movement: m}, nil
}

// delete leaves the GUID pair in the Bloom filter; the next insert of the
// same pair falls through to the lookup and succeeds.
func (l *Ledger) delete(ctx context.Context, kind domain.MovementKind, id int64) (m domain.Movement, err error) {
	defer func() {
		observability.MovementDeletes.WithLabelValues(string(kind), observability.Outcome(err, domain.Code)).Inc()
	}()
	m, err = l.store.DeleteMovement(ctx, kind, id)
	if err != nil {
		if domain.KindOf(err) == domain.KindUnexpected {
			l.log.Error("movement delete failed", zap.String("kind", string(kind)), zap.Int64("id", id), zap.Error(err))
		}
		return domain.Movement{}, err
	}
	l.invalidate(m.SourceAccount, m.DestinationAccount)
	l.log.Info("movement deleted", zap.String("kind", string(kind)), zap.Int64("id", id))
	return m, nil
}

// ListTransfers returns every transfer.
func (l *Ledger) ListTransfers(ctx context.Context) ([]domain.Transfer, error) {
	return l.listTransfers(ctx, false)
}

// ListActiveTransfers returns active transfers.
func (l *Ledger) ListActiveTransfers(ctx context.Context) ([]domain.Transfer, error) {
	return l.listTransfers(ctx, true)
}

// ListPayments returns every payment.
func (l *Ledger) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	return l.listPayments(ctx, false)
}

// ListActivePayments returns active payments.
func (l *Ledger) ListActivePayments(ctx context.Context) ([]domain.Payment, error) {
	return l.listPayments(ctx, true)
}

func (l *Ledger) listTransfers(ctx context.Context, activeOnly bool) ([]domain.Transfer, error) {
	ms, err := l.store.ListMovements(ctx, domain.KindTransfer, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Transfer, 0, len(ms))
	for _, m := range ms {
		out = append(out, domain.Transfer{Movement: m})
	}
	return out, nil
}

func (l *Ledger) listPayments(ctx context.Context, activeOnly bool) ([]domain.Payment, error) {
	ms, err := l.store.ListMovements(ctx, domain.KindPayment, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Payment, 0, len(ms))
	for _, m := range ms {
		out = append(out, domain.Payment{Movement: m})
	}
	return out, nil
}
