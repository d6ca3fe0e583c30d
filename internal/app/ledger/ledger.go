// Package ledger records transfers and payments. Every movement is
// idempotent by content: its GUID pair is either supplied or derived from
// the content, and the store's unique index rejects a second copy.
//
// Insert pipeline:
//  1. Structural checks (fields, amount precision and sign, GUIDs)
//  2. Referential checks (both accounts resolve, active, compatible types)
//  3. Duplicate fast path (Bloom filter, then lookup)
//  4. Persist; a unique violation is the authoritative duplicate signal
//  5. Invalidate cached totals for both accounts
package ledger

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/hearth-ledger/hearth/internal/domain"
	"github.com/hearth-ledger/hearth/internal/infra/dsa"
	"github.com/hearth-ledger/hearth/internal/infra/logging"
	"github.com/hearth-ledger/hearth/internal/infra/observability"
)

// AccountReader is the read-only view of the account registry.
type AccountReader interface {
	FindByName(ctx context.Context, name string) (domain.Account, error)
	Exists(ctx context.Context, name string) (bool, error)
}

// ParameterLookup resolves active configuration parameters.
type ParameterLookup interface {
	Lookup(ctx context.Context, name string) (string, error)
}

// CacheInvalidator drops cached per-account totals.
type CacheInvalidator interface {
	Invalidate(accountNameOwners ...string)
}

// Config controls the duplicate fast path.
type Config struct {
	Bloom dsa.BloomConfig
}

// DefaultConfig returns ledger defaults.
func DefaultConfig() Config {
	return Config{Bloom: dsa.DefaultBloomConfig()}
}

// Ledger records and queries money movements.
type Ledger struct {
	accounts AccountReader
	params   ParameterLookup
	store    domain.MovementStore
	cache    CacheInvalidator
	log      *zap.Logger

	// seen is fixed at construction; each filter locks internally.
	seen map[domain.MovementKind]*dsa.Filter
}

// New creates a ledger. cache may be nil.
func New(cfg Config, accounts AccountReader, params ParameterLookup,
	store domain.MovementStore, cache CacheInvalidator, log *zap.Logger) *Ledger {
	return &Ledger{
		accounts: accounts,
		params:   params,
		store:    store,
		cache:    cache,
		log:      logging.OrNop(log).Named("ledger"),
		seen: map[domain.MovementKind]*dsa.Filter{
			domain.KindTransfer: dsa.NewFilter(cfg.Bloom),
			domain.KindPayment:  dsa.NewFilter(cfg.Bloom),
		},
	}
}

// Warm seeds the duplicate fast path from persisted GUID pairs.
func (l *Ledger) Warm(ctx context.Context) error {
	for kind, bf := range l.seen {
		keys, err := l.store.ListGUIDPairs(ctx, kind)
		if err != nil {
			return err
		}
		bf.Rebuild(keys)
		st := bf.Stats()
		l.log.Info("duplicate filter warmed",
			zap.String("kind", string(kind)),
			zap.Int("pairs", st.Pairs),
			zap.Float64("est_fp_rate", st.FPRate))
	}
	return nil
}

// InsertTransfer records a transfer between two active debit accounts.
func (l *Ledger) InsertTransfer(ctx context.Context, req TransferRequest) (domain.Transfer, error) {
	m, err := l.insert(ctx, domain.KindTransfer, req.draft(), l.resolveTransfer)
	if err != nil {
		return domain.Transfer{}, err
	}
	return domain.Transfer{Movement: m}, nil
}

// InsertPayment records a payment from an active credit account to the
// configured payment account.
func (l *Ledger) InsertPayment(ctx context.Context, req PaymentRequest) (domain.Payment, error) {
	m, err := l.insert(ctx, domain.KindPayment, req.draft(), l.resolvePayment)
	if err != nil {
		return domain.Payment{}, err
	}
	return domain.Payment{Movement: m}, nil
}

// resolver performs the kind-specific referential checks and may fill in
// the destination.
type resolver func(ctx context.Context, m domain.Movement) (domain.Movement, error)

func distinct(entity string, m domain.Movement) error {
	if m.DestinationAccount != "" && m.SourceAccount == m.DestinationAccount {
		return domain.Validationf(entity, "sourceAccount and destinationAccount must differ")
	}
	return nil
}

func (l *Ledger) insert(ctx context.Context, kind domain.MovementKind, d draft, resolve resolver) (out domain.Movement, err error) {
	defer func() {
		observability.MovementsTotal.WithLabelValues(string(kind), observability.Outcome(err, domain.Code)).Inc()
		switch domain.KindOf(err) {
		case domain.KindUnexpected:
			if err != nil {
				l.log.Error("movement insert failed", zap.String("kind", string(kind)), zap.Stringer("request", d), zap.Error(err))
			}
		case domain.KindConfiguration:
			l.log.Warn("movement rejected by configuration", zap.String("kind", string(kind)), zap.Error(err))
		default:
			l.log.Debug("movement rejected", zap.String("kind", string(kind)), zap.Stringer("request", d), zap.Error(err))
		}
	}()

	entity := string(kind)
	m, err := d.normalize(kind, kind == domain.KindTransfer)
	if err != nil {
		return domain.Movement{}, err
	}
	if err := distinct(entity, m); err != nil {
		return domain.Movement{}, err
	}
	if m, err = resolve(ctx, m); err != nil {
		return domain.Movement{}, err
	}
	if err := distinct(entity, m); err != nil {
		return domain.Movement{}, err
	}
	if m.GUIDSource == "" {
		m.GUIDSource, m.GUIDDestination = domain.DeriveGUIDs(kind, m.SourceAccount, m.DestinationAccount, m.TransactionDate, m.Amount)
	}

	key := domain.GUIDPairKey(m.GUIDSource, m.GUIDDestination)
	if err := l.checkDuplicate(ctx, kind, m, key); err != nil {
		return domain.Movement{}, err
	}

	out, err = l.store.InsertMovement(ctx, kind, m)
	if err != nil {
		return domain.Movement{}, err
	}
	l.filter(kind).Remember(key)
	l.invalidate(out.SourceAccount, out.DestinationAccount)
	l.log.Info("movement recorded",
		zap.String("kind", entity),
		zap.Int64("id", out.ID),
		zap.String("source", out.SourceAccount),
		zap.String("destination", out.DestinationAccount),
		zap.Stringer("amount", out.Amount))
	return out, nil
}

// checkDuplicate consults the Bloom filter and confirms a hit with a
// lookup. A miss proves nothing was stored; the unique index still
// guards concurrent inserts.
func (l *Ledger) checkDuplicate(ctx context.Context, kind domain.MovementKind, m domain.Movement, key string) error {
	if !l.filter(kind).MayContain(key) {
		return nil
	}
	existing, err := l.store.FindMovementByGUIDs(ctx, kind, m.GUIDSource, m.GUIDDestination)
	switch {
	case err == nil:
		observability.DuplicateFastPath.WithLabelValues(string(kind)).Inc()
		return domain.Conflictf(string(kind), "%s with guidSource %s and guidDestination %s already exists (id %d)",
			kind, m.GUIDSource, m.GUIDDestination, existing.ID)
	case errors.Is(err, domain.ErrNotFound):
		observability.BloomFalsePositives.WithLabelValues(string(kind)).Inc()
		return nil
	default:
		return err
	}
}

func (l *Ledger) resolveTransfer(ctx context.Context, m domain.Movement) (domain.Movement, error) {
	entity := string(domain.KindTransfer)
	if _, err := l.requireAccount(ctx, entity, "sourceAccount", m.SourceAccount, domain.AccountDebit); err != nil {
		return m, err
	}
	if _, err := l.requireAccount(ctx, entity, "destinationAccount", m.DestinationAccount, domain.AccountDebit); err != nil {
		return m, err
	}
	return m, nil
}

// resolvePayment takes the destination from the payment_account
// parameter. A missing or unusable parameter is a configuration error; a
// request that disagrees with it is the caller's error.
func (l *Ledger) resolvePayment(ctx context.Context, m domain.Movement) (domain.Movement, error) {
	entity := string(domain.KindPayment)

	dest, err := l.paymentAccount(ctx)
	if err != nil {
		return m, err
	}
	if m.DestinationAccount != "" && m.DestinationAccount != dest {
		return m, domain.Validationf(entity, "destinationAccount %q does not match the configured payment account %q",
			m.DestinationAccount, dest)
	}
	m.DestinationAccount = dest

	if _, err := l.requireAccount(ctx, entity, "sourceAccount", m.SourceAccount, domain.AccountCredit); err != nil {
		return m, err
	}
	return m, nil
}

// paymentAccount returns the configured payment account after checking it
// is a registered, active debit account.
func (l *Ledger) paymentAccount(ctx context.Context) (string, error) {
	entity := string(domain.KindPayment)
	value, err := l.params.Lookup(ctx, domain.PaymentAccountParameter)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.Configurationf(entity, "parameter %q is not set", domain.PaymentAccountParameter)
	}
	if err != nil {
		return "", err
	}

	name := domain.NormalizeAccountName(value)
	acct, err := l.accounts.FindByName(ctx, name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "", domain.Configurationf(entity, "parameter %q names unknown account %q", domain.PaymentAccountParameter, name)
	case err != nil:
		return "", err
	case acct.AccountType != domain.AccountDebit:
		return "", domain.Configurationf(entity, "parameter %q names %s account %q, want debit",
			domain.PaymentAccountParameter, acct.AccountType, name)
	case !acct.ActiveStatus:
		return "", domain.Configurationf(entity, "parameter %q names inactive account %q", domain.PaymentAccountParameter, name)
	}
	return name, nil
}

// requireAccount resolves an account named in a request. An unknown
// account is the caller's error, not a missing resource.
func (l *Ledger) requireAccount(ctx context.Context, entity, field, name string, want domain.AccountType) (domain.Account, error) {
	name = domain.NormalizeAccountName(name)
	acct, err := l.accounts.FindByName(ctx, name)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.Account{}, domain.Validationf(entity, "%s %q does not exist", field, name)
	case err != nil:
		return domain.Account{}, err
	case !acct.ActiveStatus:
		return domain.Account{}, domain.Validationf(entity, "%s %q is not active", field, name)
	case acct.AccountType != want:
		return domain.Account{}, domain.Validationf(entity, "%s %q is a %s account, want %s", field, name, acct.AccountType, want)
	}
	return acct, nil
}

func (l *Ledger) filter(kind domain.MovementKind) *dsa.Filter {
	return l.seen[kind]
}

func (l *Ledger) invalidate(names ...string) {
	if l.cache != nil {
		l.cache.Invalidate(names...)
	}
}
