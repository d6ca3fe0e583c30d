package reconcile

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearth-ledger/hearth/internal/app/registry"
	"github.com/hearth-ledger/hearth/internal/domain"
	"github.com/hearth-ledger/hearth/internal/infra/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := store.OpenSQLite(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	accounts := registry.New(db, db, db, nil, nil)
	_, err = accounts.Create(context.Background(), domain.Account{AccountNameOwner: "chase_brian", AccountType: domain.AccountDebit})
	require.NoError(t, err)
	return New(accounts, db, nil, nil)
}

func TestSubmit_RoundTrip(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	v, err := s.Submit(ctx, "chase_brian", "cleared", domain.MustAmount("100.50"), domain.MustDate("2026-02-01"))
	require.NoError(t, err)
	assert.NotZero(t, v.ID)
	assert.Equal(t, domain.StateCleared, v.TransactionState)
	assert.Equal(t, "chase_brian", v.AccountNameOwner)

	got, err := s.QueryByAccountAndState(ctx, "chase_brian", "cleared")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "100.50", got[0].Amount.String())
	assert.Equal(t, domain.StateCleared, got[0].TransactionState)
}

func TestSubmit_Precision(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	date := domain.MustDate("2026-02-01")

	_, err := s.Submit(ctx, "chase_brian", "cleared", domain.MustAmount("25.123456"), date)
	assert.ErrorIs(t, err, domain.ErrValidation)

	v, err := s.Submit(ctx, "chase_brian", "cleared", domain.MustAmount("9999.99"), date)
	require.NoError(t, err)
	assert.Equal(t, "9999.99", v.Amount.String())

	v, err = s.Submit(ctx, "chase_brian", "outstanding", domain.MustAmount("-42.10"), date)
	require.NoError(t, err)
	assert.Equal(t, "-42.10", v.Amount.String())
}

func TestSubmit_AmountOutOfRange(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	date := domain.MustDate("2026-02-01")

	for _, amount := range []string{"100000000000000000000.00", "-100000000000000000000.00", "92233720368547758.08", "-1000000000.00"} {
		_, err := s.Submit(ctx, "chase_brian", "cleared", domain.MustAmount(amount), date)
		assert.ErrorIs(t, err, domain.ErrValidation, amount)
	}
	got, err := s.QueryByAccountAndState(ctx, "chase_brian", "cleared")
	require.NoError(t, err)
	assert.Empty(t, got)

	v, err := s.Submit(ctx, "chase_brian", "outstanding", domain.MustAmount("-999999999.99"), date)
	require.NoError(t, err)
	assert.Equal(t, "-999999999.99", v.Amount.String())
}

func TestSubmit_StateParsing(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	date := domain.MustDate("2026-02-01")

	_, err := s.Submit(ctx, "chase_brian", "INVALID_STATE", domain.MustAmount("1.00"), date)
	assert.ErrorIs(t, err, domain.ErrValidation)

	v, err := s.Submit(ctx, "chase_brian", "Future", domain.MustAmount("1.00"), date)
	require.NoError(t, err)
	assert.Equal(t, domain.StateFuture, v.TransactionState)
}

func TestSubmit_UnknownAccount(t *testing.T) {
	s := newTestService(t)
	_, err := s.Submit(context.Background(), "ghost_brian", "cleared", domain.MustAmount("1.00"), domain.MustDate("2026-02-01"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSubmit_DefaultsDateToToday(t *testing.T) {
	s := newTestService(t)
	v, err := s.Submit(context.Background(), "chase_brian", "cleared", domain.MustAmount("1.00"), domain.Date{})
	require.NoError(t, err)
	assert.Equal(t, domain.Today().String(), v.ValidationDate.String())
}

func TestQueryByAccountAndState(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.QueryByAccountAndState(ctx, "chase_brian", "INVALID_STATE")
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := s.QueryByAccountAndState(ctx, "ghost_brian", "cleared")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = s.QueryByAccountAndState(ctx, "chase_brian", "outstanding")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLatest_RetainsAllPicksNewest(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Latest(ctx, "chase_brian", "cleared")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Submit(ctx, "chase_brian", "cleared", domain.MustAmount("10.00"), domain.MustDate("2026-02-01"))
	require.NoError(t, err)
	_, err = s.Submit(ctx, "chase_brian", "cleared", domain.MustAmount("30.00"), domain.MustDate("2026-03-01"))
	require.NoError(t, err)
	_, err = s.Submit(ctx, "chase_brian", "cleared", domain.MustAmount("20.00"), domain.MustDate("2026-02-15"))
	require.NoError(t, err)
	tie, err := s.Submit(ctx, "chase_brian", "cleared", domain.MustAmount("31.00"), domain.MustDate("2026-03-01"))
	require.NoError(t, err)

	latest, err := s.Latest(ctx, "chase_brian", "CLEARED")
	require.NoError(t, err)
	assert.Equal(t, tie.ID, latest.ID)
	assert.Equal(t, "31.00", latest.Amount.String())

	all, err := s.QueryByAccountAndState(ctx, "chase_brian", "cleared")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = s.Latest(ctx, "ghost_brian", "cleared")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindDeleteListActive(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	list, err := s.ListActive(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	v, err := s.Submit(ctx, "chase_brian", "cleared", domain.MustAmount("5.00"), domain.MustDate("2026-02-01"))
	require.NoError(t, err)

	found, err := s.Find(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "chase_brian", found.AccountNameOwner)

	_, err = s.Delete(ctx, v.ID)
	require.NoError(t, err)
	_, err = s.Find(ctx, v.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Delete(ctx, v.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubmitRequest_Inactive(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	sub, err := DecodeSubmission(strings.NewReader(
		`{"validationDate":"2026-02-01","amount":12.00,"transactionState":"cleared","activeStatus":false}`))
	require.NoError(t, err)
	_, err = s.SubmitRequest(ctx, "chase_brian", sub)
	require.NoError(t, err)

	_, err = s.Latest(ctx, "chase_brian", "cleared")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDecodeSubmission(t *testing.T) {
	sub, err := DecodeSubmission(strings.NewReader(`{"amount":25.123456,"transactionState":"cleared"}`))
	require.NoError(t, err)
	assert.Nil(t, sub.ValidationDate)

	for name, body := range map[string]string{
		"unknown field": `{"amount":1,"transactionState":"cleared","note":"x"}`,
		"no amount":     `{"transactionState":"cleared"}`,
		"no state":      `{"amount":1}`,
		"bad date":      `{"amount":1,"transactionState":"cleared","validationDate":"yesterday"}`,
		"not json":      `amount=1`,
		"empty":         ``,
		"trailing":      `{"amount":1,"transactionState":"cleared"} {}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSubmission(strings.NewReader(body))
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	_, err = DecodeSubmission(strings.NewReader(""))
	assert.EqualError(t, err, "validation_amount: request body is empty")
}
