// Package reconcile records externally reported balances ("validation
// amounts") per account and transaction state. Snapshots are never
// merged or overwritten: every submission is a new record and readers
// pick the latest by validation date, then by id.
package reconcile

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/hearth-ledger/hearth/internal/domain"
	"github.com/hearth-ledger/hearth/internal/infra/logging"
	"github.com/hearth-ledger/hearth/internal/infra/observability"
)

const entity = "validation_amount"

// AccountFinder resolves accounts by name.
type AccountFinder interface {
	FindByName(ctx context.Context, name string) (domain.Account, error)
}

// Invalidator drops cached per-account reporting state.
type Invalidator interface {
	Invalidate(accountNameOwners ...string)
}

// Submission is the request body for recording a snapshot.
type Submission struct {
	ValidationDate   *domain.Date   `json:"validationDate"`
	Amount           *domain.Amount `json:"amount"`
	TransactionState string         `json:"transactionState"`
	ActiveStatus     *bool          `json:"activeStatus,omitempty"`
}

// DecodeSubmission parses a submission strictly. A missing validation
// date defaults to today at submit time.
func DecodeSubmission(r io.Reader) (Submission, error) {
	var s Submission
	if err := domain.DecodeStrict(r, entity, &s); err != nil {
		return Submission{}, err
	}
	switch {
	case s.Amount == nil:
		return Submission{}, domain.Validationf(entity, "amount is required")
	case s.TransactionState == "":
		return Submission{}, domain.Validationf(entity, "transactionState is required")
	}
	return s, nil
}

// Service records and queries reconciliation snapshots.
type Service struct {
	accounts AccountFinder
	store    domain.ValidationAmountStore
	cache    Invalidator
	log      *zap.Logger
}

// New creates a reconciliation service. cache may be nil.
func New(accounts AccountFinder, store domain.ValidationAmountStore, cache Invalidator, log *zap.Logger) *Service {
	return &Service{
		accounts: accounts,
		store:    store,
		cache:    cache,
		log:      logging.OrNop(log).Named("reconcile"),
	}
}

// Submit persists a new snapshot. An unknown state, an amount with more
// than two fractional digits, or an unknown account is a validation
// error. Negative amounts are allowed.
func (s *Service) Submit(ctx context.Context, accountNameOwner, state string, amount domain.Amount, date domain.Date) (domain.ValidationAmount, error) {
	return s.submit(ctx, accountNameOwner, state, amount, date, true)
}

func (s *Service) submit(ctx context.Context, accountNameOwner, state string, amount domain.Amount, date domain.Date, active bool) (out domain.ValidationAmount, err error) {
	stateLabel := "invalid"
	defer func() {
		observability.ValidationSubmissions.WithLabelValues(stateLabel, observability.Outcome(err, domain.Code)).Inc()
		if err != nil && domain.KindOf(err) == domain.KindUnexpected {
			s.log.Error("validation amount submit failed", zap.String("account", accountNameOwner), zap.Error(err))
		}
	}()

	st, err := domain.ParseTransactionState(state)
	if err != nil {
		return domain.ValidationAmount{}, err
	}
	stateLabel = string(st)
	if err := domain.ValidateAmount(entity, amount); err != nil {
		return domain.ValidationAmount{}, err
	}
	if date.IsZero() {
		date = domain.Today()
	}

	acct, err := s.accounts.FindByName(ctx, accountNameOwner)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ValidationAmount{}, domain.Validationf(entity, "account %q does not exist", domain.NormalizeAccountName(accountNameOwner))
	}
	if err != nil {
		return domain.ValidationAmount{}, err
	}

	out, err = s.store.InsertValidationAmount(ctx, domain.ValidationAmount{
		AccountID:        acct.ID,
		ValidationDate:   date,
		Amount:           amount,
		TransactionState: st,
		ActiveStatus:     active,
	})
	if err != nil {
		return domain.ValidationAmount{}, err
	}
	out.AccountNameOwner = acct.AccountNameOwner
	s.invalidate(acct.AccountNameOwner)
	s.log.Debug("validation amount recorded",
		zap.String("account", acct.AccountNameOwner),
		zap.String("state", string(st)),
		zap.Stringer("amount", amount),
		zap.Stringer("date", date))
	return out, nil
}

// SubmitRequest records a decoded submission.
func (s *Service) SubmitRequest(ctx context.Context, accountNameOwner string, sub Submission) (domain.ValidationAmount, error) {
	var date domain.Date
	if sub.ValidationDate != nil {
		date = *sub.ValidationDate
	}
	var amount domain.Amount
	if sub.Amount != nil {
		amount = *sub.Amount
	}
	active := sub.ActiveStatus == nil || *sub.ActiveStatus
	return s.submit(ctx, accountNameOwner, sub.TransactionState, amount, date, active)
}

// QueryByAccountAndState returns active snapshots, newest first. An
// unknown account yields an empty result; an unknown state does not.
func (s *Service) QueryByAccountAndState(ctx context.Context, accountNameOwner, state string) ([]domain.ValidationAmount, error) {
	st, err := domain.ParseTransactionState(state)
	if err != nil {
		return nil, err
	}
	acct, err := s.accounts.FindByName(ctx, accountNameOwner)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.ValidationAmount{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.store.ListValidationAmounts(ctx, acct.ID, st)
}

// Latest returns the most recent active snapshot for the account and
// state.
func (s *Service) Latest(ctx context.Context, accountNameOwner, state string) (domain.ValidationAmount, error) {
	st, err := domain.ParseTransactionState(state)
	if err != nil {
		return domain.ValidationAmount{}, err
	}
	acct, err := s.accounts.FindByName(ctx, accountNameOwner)
	if err != nil {
		return domain.ValidationAmount{}, err
	}
	return s.store.LatestValidationAmount(ctx, acct.ID, st)
}

// Find returns one snapshot by id.
func (s *Service) Find(ctx context.Context, id int64) (domain.ValidationAmount, error) {
	return s.store.GetValidationAmount(ctx, id)
}

// Delete removes a snapshot and returns it.
func (s *Service) Delete(ctx context.Context, id int64) (domain.ValidationAmount, error) {
	v, err := s.store.DeleteValidationAmount(ctx, id)
	if err != nil {
		return domain.ValidationAmount{}, err
	}
	s.invalidate(v.AccountNameOwner)
	s.log.Info("validation amount deleted", zap.Int64("id", id), zap.String("account", v.AccountNameOwner))
	return v, nil
}

// ListActive returns every active snapshot.
func (s *Service) ListActive(ctx context.Context) ([]domain.ValidationAmount, error) {
	return s.store.ListActiveValidationAmounts(ctx)
}

func (s *Service) invalidate(name string) {
	if s.cache != nil && name != "" {
		s.cache.Invalidate(name)
	}
}
