// Package report answers read-only questions over accounts, movements and
// reconciliation snapshots. Per-account results are cached in process and
// dropped when the ledger, the registry or reconciliation writes; a read
// racing a write may see the previous value.
package report

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/hearth-ledger/hearth/internal/domain"
	"github.com/hearth-ledger/hearth/internal/infra/logging"
)

var movementKinds = []domain.MovementKind{domain.KindTransfer, domain.KindPayment}

// Service computes reports.
type Service struct {
	accounts    domain.AccountStore
	movements   domain.MovementStore
	validations domain.ValidationAmountStore
	log         *zap.Logger

	mu     sync.RWMutex
	cache  map[string]domain.AccountReport
	gen    uint64 // bumped on every invalidation
	flight singleflight.Group
}

// New creates a reporting service.
func New(accounts domain.AccountStore, movements domain.MovementStore,
	validations domain.ValidationAmountStore, log *zap.Logger) *Service {
	return &Service{
		accounts:    accounts,
		movements:   movements,
		validations: validations,
		log:         logging.OrNop(log).Named("report"),
		cache:       make(map[string]domain.AccountReport),
	}
}

// Invalidate drops cached reports for the named accounts.
func (s *Service) Invalidate(accountNameOwners ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	for _, name := range accountNameOwners {
		delete(s.cache, name)
	}
}

// InvalidateAll empties the cache.
func (s *Service) InvalidateAll() {
	s.mu.Lock()
	s.gen++
	s.cache = make(map[string]domain.AccountReport)
	s.mu.Unlock()
}

// AccountTotals returns the reconciled totals for one account together
// with its movement-derived net.
func (s *Service) AccountTotals(ctx context.Context, name string) (domain.AccountReport, error) {
	acct, err := s.accounts.GetAccountByName(ctx, domain.NormalizeAccountName(name))
	if err != nil {
		return domain.AccountReport{}, err
	}
	return s.report(ctx, acct)
}

// TotalsByState sums the latest active snapshot per active account and
// state.
func (s *Service) TotalsByState(ctx context.Context) (domain.StateTotals, error) {
	accts, err := s.accounts.ListAccounts(ctx, true)
	if err != nil {
		return domain.StateTotals{}, err
	}
	var totals domain.StateTotals
	for _, a := range accts {
		r, err := s.report(ctx, a)
		if err != nil {
			return domain.StateTotals{}, err
		}
		totals.Add(domain.StateCleared, r.Cleared)
		totals.Add(domain.StateOutstanding, r.Outstanding)
		totals.Add(domain.StateFuture, r.Future)
	}
	return totals, nil
}

// PaymentRequired lists active credit accounts whose latest cleared plus
// outstanding balance is not zero, ordered by name.
func (s *Service) PaymentRequired(ctx context.Context) ([]domain.AccountReport, error) {
	accts, err := s.accounts.ListAccounts(ctx, true)
	if err != nil {
		return nil, err
	}
	out := []domain.AccountReport{}
	for _, a := range accts {
		if a.AccountType != domain.AccountCredit {
			continue
		}
		r, err := s.report(ctx, a)
		if err != nil {
			return nil, err
		}
		if !r.Cleared.Add(r.Outstanding).IsZero() {
			out = append(out, r)
		}
	}
	return out, nil
}

// OpenItems returns active movements touching the account dated after its
// latest cleared snapshot, or all of them when it was never reconciled.
// Newest first.
func (s *Service) OpenItems(ctx context.Context, name string) ([]domain.OpenItem, error) {
	acct, err := s.accounts.GetAccountByName(ctx, domain.NormalizeAccountName(name))
	if err != nil {
		return nil, err
	}

	var since *domain.Date
	latest, err := s.validations.LatestValidationAmount(ctx, acct.ID, domain.StateCleared)
	switch {
	case err == nil:
		since = &latest.ValidationDate
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	out := []domain.OpenItem{}
	for _, kind := range movementKinds {
		ms, err := s.movements.ListMovementsByAccount(ctx, kind, acct.AccountNameOwner)
		if err != nil {
			return nil, err
		}
		for _, m := range ms {
			if since != nil && !m.TransactionDate.After(since.Time) {
				continue
			}
			out = append(out, domain.OpenItem{
				Kind:       kind,
				MovementID: m.ID,
				Movement:   m,
				Net:        m.NetFor(acct.AccountNameOwner),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].TransactionDate.Equal(out[j].TransactionDate.Time) {
			return out[i].TransactionDate.After(out[j].TransactionDate.Time)
		}
		return out[i].MovementID > out[j].MovementID
	})
	return out, nil
}

// report returns the cached report for acct. Concurrent misses for one
// account share a single computation.
func (s *Service) report(ctx context.Context, acct domain.Account) (domain.AccountReport, error) {
	s.mu.RLock()
	r, ok := s.cache[acct.AccountNameOwner]
	gen := s.gen
	s.mu.RUnlock()
	if ok {
		return r, nil
	}

	v, err, _ := s.flight.Do(acct.AccountNameOwner, func() (any, error) {
		r, err := s.compute(ctx, acct)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		// A write that landed while computing makes r suspect; serve it
		// once but do not keep it.
		if s.gen == gen {
			s.cache[acct.AccountNameOwner] = r
		}
		s.mu.Unlock()
		return r, nil
	})
	if err != nil {
		return domain.AccountReport{}, err
	}
	return v.(domain.AccountReport), nil
}

func (s *Service) compute(ctx context.Context, acct domain.Account) (domain.AccountReport, error) {
	r := domain.AccountReport{
		AccountNameOwner: acct.AccountNameOwner,
		AccountType:      acct.AccountType,
	}

	for _, st := range domain.TransactionStates {
		v, err := s.validations.LatestValidationAmount(ctx, acct.ID, st)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return domain.AccountReport{}, err
		}
		r.StateTotals.Add(st, v.Amount)
		if st == domain.StateCleared {
			d := v.ValidationDate
			r.LastCleared = &d
		}
	}

	for _, kind := range movementKinds {
		ms, err := s.movements.ListMovementsByAccount(ctx, kind, acct.AccountNameOwner)
		if err != nil {
			return domain.AccountReport{}, err
		}
		for _, m := range ms {
			r.MovementNet = r.MovementNet.Add(m.NetFor(acct.AccountNameOwner))
		}
	}
	r.TotalsBalanced = r.LastCleared != nil && r.MovementNet.Equal(r.Cleared)

	s.log.Debug("account report computed", zap.String("account", acct.AccountNameOwner))
	return r, nil
}
