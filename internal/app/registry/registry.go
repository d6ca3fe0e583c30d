// Package registry owns the account lifecycle: creation, lookup,
// activation toggles, guarded deletion and totals recomputation.
package registry

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/hearth-ledger/hearth/internal/domain"
	"github.com/hearth-ledger/hearth/internal/infra/logging"
	"github.com/hearth-ledger/hearth/internal/infra/observability"
)

// DefaultMoniker is stored when an account is created without one.
const DefaultMoniker = "0000"

// Invalidator drops cached per-account reporting state.
type Invalidator interface {
	Invalidate(accountNameOwners ...string)
}

// Service manages accounts.
type Service struct {
	accounts    domain.AccountStore
	movements   domain.MovementStore
	validations domain.ValidationAmountStore
	cache       Invalidator
	log         *zap.Logger
}

// New creates an account registry. cache may be nil.
func New(accounts domain.AccountStore, movements domain.MovementStore,
	validations domain.ValidationAmountStore, cache Invalidator, log *zap.Logger) *Service {
	return &Service{
		accounts:    accounts,
		movements:   movements,
		validations: validations,
		cache:       cache,
		log:         logging.OrNop(log).Named("registry"),
	}
}

// Create persists a new active account with zero totals. Uniqueness is
// decided by the store's unique index, not a pre-check.
func (s *Service) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	return s.CreateWithStatus(ctx, a, true)
}

// CreateWithStatus is Create with an explicit initial status. An inactive
// account is written closed as of today in the same insert.
func (s *Service) CreateWithStatus(ctx context.Context, a domain.Account, active bool) (out domain.Account, err error) {
	defer func() { s.observe("create", err) }()

	name := domain.NormalizeAccountName(a.AccountNameOwner)
	if err := domain.ValidateAccountNameOwner(name); err != nil {
		return domain.Account{}, err
	}
	typ, err := domain.ParseAccountType(string(a.AccountType))
	if err != nil {
		return domain.Account{}, err
	}
	moniker := a.Moniker
	if moniker == "" {
		moniker = DefaultMoniker
	}
	if err := domain.ValidateMoniker(moniker); err != nil {
		return domain.Account{}, err
	}

	rec := domain.Account{
		AccountNameOwner: name,
		AccountType:      typ,
		ActiveStatus:     active,
		Moniker:          moniker,
		Totals:           domain.Zero,
	}
	if !active {
		today := domain.Today()
		rec.DateClosed = &today
	}
	out, err = s.accounts.InsertAccount(ctx, rec)
	if err != nil {
		return domain.Account{}, err
	}
	s.log.Info("account created", zap.String("account", name), zap.String("type", string(typ)), zap.Bool("active", active))
	return out, nil
}

// FindByName returns the account, active or not.
func (s *Service) FindByName(ctx context.Context, name string) (domain.Account, error) {
	return s.accounts.GetAccountByName(ctx, domain.NormalizeAccountName(name))
}

// Exists reports whether an account with this name is registered.
func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.FindByName(ctx, name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Activate marks the account active and clears dateClosed. Idempotent.
func (s *Service) Activate(ctx context.Context, name string) (out domain.Account, err error) {
	defer func() { s.observe("activate", err) }()
	out, err = s.accounts.SetAccountActive(ctx, domain.NormalizeAccountName(name), true, nil)
	if err != nil {
		return domain.Account{}, err
	}
	s.invalidate(out.AccountNameOwner)
	return out, nil
}

// Deactivate marks the account inactive and stamps dateClosed with
// today. Idempotent; a second call re-stamps the date.
func (s *Service) Deactivate(ctx context.Context, name string) (out domain.Account, err error) {
	defer func() { s.observe("deactivate", err) }()
	today := domain.Today()
	out, err = s.accounts.SetAccountActive(ctx, domain.NormalizeAccountName(name), false, &today)
	if err != nil {
		return domain.Account{}, err
	}
	s.invalidate(out.AccountNameOwner)
	return out, nil
}

// Delete removes an account nothing references. A referenced account is
// rejected by the store's foreign keys as a conflict.
func (s *Service) Delete(ctx context.Context, name string) (out domain.Account, err error) {
	defer func() { s.observe("delete", err) }()
	out, err = s.accounts.DeleteAccount(ctx, domain.NormalizeAccountName(name))
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.log.Debug("account delete refused", zap.String("account", name), zap.Error(err))
		}
		return domain.Account{}, err
	}
	s.invalidate(out.AccountNameOwner)
	s.log.Info("account deleted", zap.String("account", out.AccountNameOwner))
	return out, nil
}

// ListActive returns active accounts ordered by name.
func (s *Service) ListActive(ctx context.Context) ([]domain.Account, error) {
	return s.accounts.ListAccounts(ctx, true)
}

// ListAll returns every account ordered by name.
func (s *Service) ListAll(ctx context.Context) ([]domain.Account, error) {
	return s.accounts.ListAccounts(ctx, false)
}

// RecomputeTotals sets totals to the signed sum of the account's active
// movements and marks them balanced when they equal the latest active
// cleared snapshot.
func (s *Service) RecomputeTotals(ctx context.Context, name string) (out domain.Account, err error) {
	defer func() { s.observe("recompute", err) }()

	acct, err := s.FindByName(ctx, name)
	if err != nil {
		return domain.Account{}, err
	}

	totals, err := s.MovementNet(ctx, acct.AccountNameOwner)
	if err != nil {
		return domain.Account{}, err
	}

	balanced := false
	latest, err := s.validations.LatestValidationAmount(ctx, acct.ID, domain.StateCleared)
	switch {
	case err == nil:
		balanced = latest.Amount.Equal(totals)
	case !errors.Is(err, domain.ErrNotFound):
		return domain.Account{}, err
	}

	out, err = s.accounts.UpdateAccountTotals(ctx, acct.AccountNameOwner, totals, balanced)
	if err != nil {
		return domain.Account{}, err
	}
	s.invalidate(out.AccountNameOwner)
	return out, nil
}

// MovementNet is the signed sum of active transfers and payments touching
// the account: incoming minus outgoing.
func (s *Service) MovementNet(ctx context.Context, accountNameOwner string) (domain.Amount, error) {
	net := domain.Zero
	for _, kind := range []domain.MovementKind{domain.KindTransfer, domain.KindPayment} {
		ms, err := s.movements.ListMovementsByAccount(ctx, kind, accountNameOwner)
		if err != nil {
			return domain.Zero, err
		}
		for _, m := range ms {
			net = net.Add(m.NetFor(accountNameOwner))
		}
	}
	return net, nil
}

func (s *Service) invalidate(name string) {
	if s.cache != nil {
		s.cache.Invalidate(name)
	}
}

func (s *Service) observe(op string, err error) {
	observability.AccountOperations.WithLabelValues(op, observability.Outcome(err, domain.Code)).Inc()
	if domain.KindOf(err) == domain.KindUnexpected && err != nil {
		s.log.Error("account operation failed", zap.String("op", op), zap.Error(err))
	}
}
