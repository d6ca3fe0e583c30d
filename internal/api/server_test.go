package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hearth-ledger/hearth/internal/app/ledger"
	"github.com/hearth-ledger/hearth/internal/app/params"
	"github.com/hearth-ledger/hearth/internal/app/reconcile"
	"github.com/hearth-ledger/hearth/internal/app/registry"
	"github.com/hearth-ledger/hearth/internal/app/report"
	"github.com/hearth-ledger/hearth/internal/domain"
	"github.com/hearth-ledger/hearth/internal/infra/store"
)

// ─── Test Harness ───────────────────────────────────────────────────────────

func setupAPI(t *testing.T) http.Handler {
	t.Helper()
	db, err := store.OpenSQLite(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	rep := report.New(db, db, db, nil)
	accounts := registry.New(db, db, db, rep, nil)
	parameters := params.New(db, nil)
	srv := NewServer(Services{
		Accounts:   accounts,
		Ledger:     ledger.New(ledger.DefaultConfig(), accounts, parameters, db, rep, nil),
		Reconcile:  reconcile.New(accounts, db, rep, nil),
		Report:     rep,
		Parameters: parameters,
	}, nil)
	srv.EnableMetrics()
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func expect(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, w.Code, w.Body.String())
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var b errorBody
	decode(t, w, &b)
	return b.Error.Code
}

func createAccount(t *testing.T, h http.Handler, name, typ string) {
	t.Helper()
	w := do(t, h, http.MethodPost, "/api/account",
		fmt.Sprintf(`{"accountNameOwner":%q,"accountType":%q}`, name, typ))
	expect(t, w, http.StatusCreated)
}

// ─── Status Mapping ─────────────────────────────────────────────────────────

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.Validationf("x", "bad"), http.StatusBadRequest},
		{domain.NotFoundf("x", "gone"), http.StatusNotFound},
		{domain.Conflictf("x", "dup"), http.StatusConflict},
		{domain.Configurationf("x", "unset"), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", domain.NotFoundf("x", "gone")), http.StatusNotFound},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h := setupAPI(t)
	expect(t, do(t, h, http.MethodGet, "/health", ""), http.StatusOK)

	do(t, h, http.MethodGet, "/api/transfer/select", "")
	w := do(t, h, http.MethodGet, "/metrics", "")
	expect(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "hearth_http_requests_total") {
		t.Error("metrics output missing hearth_http_requests_total")
	}
}

// ─── Accounts ───────────────────────────────────────────────────────────────

func TestAccountLifecycle(t *testing.T) {
	h := setupAPI(t)
	createAccount(t, h, "chase_brian", "debit")

	w := do(t, h, http.MethodPost, "/api/account", `{"accountNameOwner":"CHASE_BRIAN","accountType":"debit"}`)
	expect(t, w, http.StatusConflict)
	if code := errorCode(t, w); code != "CONFLICT" {
		t.Errorf("code = %q, want CONFLICT", code)
	}

	expect(t, do(t, h, http.MethodPost, "/api/account", `{"accountNameOwner":"bad","accountType":"debit"}`), http.StatusBadRequest)
	expect(t, do(t, h, http.MethodPost, "/api/account", `{"accountNameOwner":"a_b","accountType":"debit","color":"red"}`), http.StatusBadRequest)

	w = do(t, h, http.MethodGet, "/api/account/select/chase_brian", "")
	expect(t, w, http.StatusOK)
	var a domain.Account
	decode(t, w, &a)
	if a.AccountNameOwner != "chase_brian" || a.AccountType != domain.AccountDebit {
		t.Errorf("unexpected account: %+v", a)
	}

	expect(t, do(t, h, http.MethodGet, "/api/account/select/ghost_brian", ""), http.StatusNotFound)

	w = do(t, h, http.MethodPut, "/api/account/deactivate/chase_brian", "")
	expect(t, w, http.StatusOK)
	decode(t, w, &a)
	if a.ActiveStatus || a.DateClosed == nil {
		t.Errorf("deactivate: %+v", a)
	}

	w = do(t, h, http.MethodGet, "/api/account/select/active", "")
	expect(t, w, http.StatusOK)
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("active list = %s, want []", w.Body.String())
	}

	expect(t, do(t, h, http.MethodPut, "/api/account/activate/chase_brian", ""), http.StatusOK)
	w = do(t, h, http.MethodGet, "/api/account/active", "")
	expect(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "chase_brian") {
		t.Errorf("active alias = %s, want chase_brian", w.Body.String())
	}
	expect(t, do(t, h, http.MethodPut, "/api/account/activate/ghost_brian", ""), http.StatusNotFound)

	expect(t, do(t, h, http.MethodDelete, "/api/account/chase_brian", ""), http.StatusOK)
	expect(t, do(t, h, http.MethodDelete, "/api/account/chase_brian", ""), http.StatusNotFound)
}

func TestAccountInsert_Inactive(t *testing.T) {
	h := setupAPI(t)

	w := do(t, h, http.MethodPost, "/api/account", `{"accountNameOwner":"old_brian","accountType":"debit","activeStatus":false}`)
	expect(t, w, http.StatusCreated)
	var a domain.Account
	decode(t, w, &a)
	if a.ActiveStatus || a.DateClosed == nil {
		t.Errorf("inserted account = %+v, want inactive and closed", a)
	}

	w = do(t, h, http.MethodGet, "/api/account/select/old_brian", "")
	expect(t, w, http.StatusOK)
	decode(t, w, &a)
	if a.ActiveStatus {
		t.Error("stored account is active")
	}
}

func TestAccountDelete_ReferencedIsConflict(t *testing.T) {
	h := setupAPI(t)
	createAccount(t, h, "chase_brian", "debit")
	createAccount(t, h, "savings_brian", "debit")

	expect(t, do(t, h, http.MethodPost, "/api/transfer",
		`{"sourceAccount":"chase_brian","destinationAccount":"savings_brian","transactionDate":"2026-01-02","amount":5.00}`),
		http.StatusCreated)

	w := do(t, h, http.MethodDelete, "/api/account/chase_brian", "")
	expect(t, w, http.StatusConflict)
}

// ─── Transfers ──────────────────────────────────────────────────────────────

func TestTransferEndpoints(t *testing.T) {
	h := setupAPI(t)
	createAccount(t, h, "chase_brian", "debit")
	createAccount(t, h, "savings_brian", "debit")

	w := do(t, h, http.MethodGet, "/api/transfer/select", "")
	expect(t, w, http.StatusOK)
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("empty transfer list = %s, want []", w.Body.String())
	}

	payload := `{"sourceAccount":"chase_brian","destinationAccount":"savings_brian","transactionDate":"2026-01-02","amount":100.25}`
	w = do(t, h, http.MethodPost, "/api/transfer", payload)
	expect(t, w, http.StatusCreated)
	var created struct {
		TransferID      int64   `json:"transferId"`
		Amount          float64 `json:"amount"`
		GUIDSource      string  `json:"guidSource"`
		GUIDDestination string  `json:"guidDestination"`
	}
	decode(t, w, &created)
	if created.TransferID == 0 || created.GUIDSource == "" || created.Amount != 100.25 {
		t.Fatalf("unexpected transfer: %+v", created)
	}

	w = do(t, h, http.MethodPost, "/api/transfer", payload)
	expect(t, w, http.StatusConflict)
	if code := errorCode(t, w); code != "CONFLICT" {
		t.Errorf("code = %q, want CONFLICT", code)
	}

	expect(t, do(t, h, http.MethodPost, "/api/transfer",
		`{"sourceAccount":"chase_brian","destinationAccount":"savings_brian","transactionDate":"2026-01-02","amount":25.123}`),
		http.StatusBadRequest)
	expect(t, do(t, h, http.MethodPost, "/api/transfer",
		`{"sourceAccount":"ghost_brian","destinationAccount":"savings_brian","transactionDate":"2026-01-02","amount":1}`),
		http.StatusBadRequest)

	path := fmt.Sprintf("/api/transfer/%d", created.TransferID)
	expect(t, do(t, h, http.MethodGet, path, ""), http.StatusOK)
	expect(t, do(t, h, http.MethodGet, "/api/transfer/abc", ""), http.StatusBadRequest)

	w = do(t, h, http.MethodDelete, path, "")
	expect(t, w, http.StatusOK)
	var deleted struct {
		Amount          float64 `json:"amount"`
		GUIDSource      string  `json:"guidSource"`
		GUIDDestination string  `json:"guidDestination"`
	}
	decode(t, w, &deleted)
	if deleted.Amount != created.Amount || deleted.GUIDSource != created.GUIDSource || deleted.GUIDDestination != created.GUIDDestination {
		t.Errorf("deleted %+v differs from created %+v", deleted, created)
	}

	expect(t, do(t, h, http.MethodGet, path, ""), http.StatusNotFound)
	expect(t, do(t, h, http.MethodDelete, "/api/transfer/999999", ""), http.StatusNotFound)
}

func TestTransferInsert_AmountOutOfRange(t *testing.T) {
	h := setupAPI(t)
	createAccount(t, h, "chase_brian", "debit")
	createAccount(t, h, "savings_brian", "debit")

	for _, amount := range []string{"100000000000000000000.00", "92233720368547758.08"} {
		w := do(t, h, http.MethodPost, "/api/transfer",
			`{"sourceAccount":"chase_brian","destinationAccount":"savings_brian","transactionDate":"2026-01-02","amount":`+amount+`}`)
		expect(t, w, http.StatusBadRequest)
		if code := errorCode(t, w); code != "BAD_REQUEST" {
			t.Errorf("amount %s: code = %q, want BAD_REQUEST", amount, code)
		}
	}

	w := do(t, h, http.MethodGet, "/api/transfer/select", "")
	expect(t, w, http.StatusOK)
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("transfer list = %s, want []", w.Body.String())
	}
}

// ─── Payments ───────────────────────────────────────────────────────────────

func TestPaymentConfiguration(t *testing.T) {
	h := setupAPI(t)
	createAccount(t, h, "chase_brian", "debit")
	createAccount(t, h, "amex_brian", "credit")

	payment := func(date string) string {
		return fmt.Sprintf(`{"sourceAccount":"amex_brian","transactionDate":%q,"amount":75.00}`, date)
	}

	w := do(t, h, http.MethodPost, "/api/payment", payment("2026-02-01"))
	expect(t, w, http.StatusInternalServerError)
	if code := errorCode(t, w); code != "CONFIGURATION" {
		t.Fatalf("code = %q, want CONFIGURATION", code)
	}

	expect(t, do(t, h, http.MethodPost, "/api/parameter",
		`{"parameterName":"payment_account","parameterValue":"chase_brian"}`), http.StatusCreated)

	w = do(t, h, http.MethodPost, "/api/payment", payment("2026-02-01"))
	expect(t, w, http.StatusCreated)
	var p struct {
		PaymentID          int64  `json:"paymentId"`
		DestinationAccount string `json:"destinationAccount"`
	}
	decode(t, w, &p)
	if p.PaymentID == 0 || p.DestinationAccount != "chase_brian" {
		t.Errorf("unexpected payment: %+v", p)
	}

	expect(t, do(t, h, http.MethodDelete, "/api/parameter/payment_account", ""), http.StatusOK)
	w = do(t, h, http.MethodPost, "/api/payment", payment("2026-02-02"))
	expect(t, w, http.StatusInternalServerError)
	if code := errorCode(t, w); code != "CONFIGURATION" {
		t.Errorf("code = %q, want CONFIGURATION", code)
	}

	expect(t, do(t, h, http.MethodPost, "/api/parameter",
		`{"parameterName":"payment_account","parameterValue":"chase_brian"}`), http.StatusCreated)
	expect(t, do(t, h, http.MethodPost, "/api/payment", payment("2026-02-02")), http.StatusCreated)

	w = do(t, h, http.MethodGet, "/api/payment/active", "")
	expect(t, w, http.StatusOK)
	var list []map[string]any
	decode(t, w, &list)
	if len(list) != 2 {
		t.Errorf("active payments = %d, want 2", len(list))
	}
	expect(t, do(t, h, http.MethodDelete, "/api/payment/999999", ""), http.StatusNotFound)
}

// ─── Validation Amounts ─────────────────────────────────────────────────────

func TestValidationAmountEndpoints(t *testing.T) {
	h := setupAPI(t)
	createAccount(t, h, "chase_brian", "debit")

	expect(t, do(t, h, http.MethodPost, "/api/validation/amount/insert/chase_brian",
		`{"validationDate":"2026-02-01","amount":25.123456,"transactionState":"cleared"}`), http.StatusBadRequest)
	expect(t, do(t, h, http.MethodPost, "/api/validation/amount/insert/chase_brian",
		`{"validationDate":"2026-02-01","amount":1.00,"transactionState":"INVALID_STATE"}`), http.StatusBadRequest)

	w := do(t, h, http.MethodPost, "/api/validation/amount/insert/chase_brian",
		`{"validationDate":"2026-02-01","amount":100.50,"transactionState":"cleared"}`)
	expect(t, w, http.StatusOK)
	var v struct {
		ValidationID     int64   `json:"validationId"`
		Amount           float64 `json:"amount"`
		TransactionState string  `json:"transactionState"`
	}
	decode(t, w, &v)
	if v.Amount != 100.50 || v.TransactionState != "cleared" {
		t.Errorf("unexpected validation amount: %+v", v)
	}

	expect(t, do(t, h, http.MethodPost, "/api/validation/amount/insert/chase_brian",
		`{"validationDate":"2026-02-02","amount":9999.99,"transactionState":"cleared"}`), http.StatusOK)

	w = do(t, h, http.MethodGet, "/api/validation/amount/select/chase_brian/cleared", "")
	expect(t, w, http.StatusOK)
	var list []map[string]any
	decode(t, w, &list)
	if len(list) != 2 {
		t.Fatalf("select returned %d records, want 2", len(list))
	}

	expect(t, do(t, h, http.MethodGet, "/api/validation/amount/select/chase_brian/INVALID_STATE", ""), http.StatusBadRequest)

	w = do(t, h, http.MethodGet, "/api/validation/amount/latest/chase_brian/cleared", "")
	expect(t, w, http.StatusOK)
	var latest struct {
		Amount float64 `json:"amount"`
	}
	decode(t, w, &latest)
	if latest.Amount != 9999.99 {
		t.Errorf("latest amount = %v, want 9999.99", latest.Amount)
	}
	expect(t, do(t, h, http.MethodGet, "/api/validation/amount/latest/chase_brian/future", ""), http.StatusNotFound)

	path := fmt.Sprintf("/api/validation/amount/%d", v.ValidationID)
	expect(t, do(t, h, http.MethodGet, path, ""), http.StatusOK)
	expect(t, do(t, h, http.MethodDelete, path, ""), http.StatusOK)
	expect(t, do(t, h, http.MethodGet, path, ""), http.StatusNotFound)
}

// ─── Parameters & Reports ───────────────────────────────────────────────────

func TestParameterEndpoints(t *testing.T) {
	h := setupAPI(t)

	expect(t, do(t, h, http.MethodPost, "/api/parameter", `{"parameterName":"timezone","parameterValue":"UTC"}`), http.StatusCreated)
	expect(t, do(t, h, http.MethodPost, "/api/parameter", `{"parameterName":"timezone","parameterValue":"UTC"}`), http.StatusConflict)
	expect(t, do(t, h, http.MethodPost, "/api/parameter", `{"parameterName":"","parameterValue":"UTC"}`), http.StatusBadRequest)

	w := do(t, h, http.MethodPut, "/api/parameter/timezone", `{"parameterValue":"Europe/Paris"}`)
	expect(t, w, http.StatusOK)
	var p domain.Parameter
	decode(t, w, &p)
	if p.ParameterValue != "Europe/Paris" {
		t.Errorf("value = %q", p.ParameterValue)
	}

	expect(t, do(t, h, http.MethodGet, "/api/parameter/select/timezone", ""), http.StatusOK)
	expect(t, do(t, h, http.MethodGet, "/api/parameter/select/missing", ""), http.StatusNotFound)
	expect(t, do(t, h, http.MethodPut, "/api/parameter/missing", `{"parameterValue":"x"}`), http.StatusNotFound)
	expect(t, do(t, h, http.MethodDelete, "/api/parameter/timezone", ""), http.StatusOK)
	expect(t, do(t, h, http.MethodDelete, "/api/parameter/timezone", ""), http.StatusNotFound)
}

func TestReportEndpoints(t *testing.T) {
	h := setupAPI(t)
	createAccount(t, h, "chase_brian", "debit")
	createAccount(t, h, "amex_brian", "credit")

	expect(t, do(t, h, http.MethodPost, "/api/validation/amount/insert/amex_brian",
		`{"validationDate":"2026-02-01","amount":-120.00,"transactionState":"cleared"}`), http.StatusOK)

	w := do(t, h, http.MethodGet, "/api/account/totals", "")
	expect(t, w, http.StatusOK)
	var totals struct {
		Cleared float64 `json:"totalsCleared"`
		Total   float64 `json:"totals"`
	}
	decode(t, w, &totals)
	if totals.Cleared != -120 || totals.Total != -120 {
		t.Errorf("totals = %+v", totals)
	}

	w = do(t, h, http.MethodGet, "/api/account/payment/required", "")
	expect(t, w, http.StatusOK)
	var due []map[string]any
	decode(t, w, &due)
	if len(due) != 1 || due[0]["accountNameOwner"] != "amex_brian" {
		t.Errorf("payment required = %v", due)
	}

	expect(t, do(t, h, http.MethodGet, "/api/account/totals/chase_brian", ""), http.StatusOK)
	expect(t, do(t, h, http.MethodGet, "/api/account/totals/ghost_brian", ""), http.StatusNotFound)
	expect(t, do(t, h, http.MethodGet, "/api/account/open/chase_brian", ""), http.StatusOK)
	expect(t, do(t, h, http.MethodGet, "/api/account/open/ghost_brian", ""), http.StatusNotFound)
	expect(t, do(t, h, http.MethodPut, "/api/account/recompute/chase_brian", ""), http.StatusOK)
}

func TestInternalErrorHidesMessage(t *testing.T) {
	srv := NewServer(Services{}, nil)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	srv.writeError(w, r, domain.Unexpected("transfer", "insert transfer", errors.New("disk on fire")))

	expect(t, w, http.StatusInternalServerError)
	var b errorBody
	decode(t, w, &b)
	if b.Error.Code != "INTERNAL" || strings.Contains(b.Error.Message, "disk") {
		t.Errorf("leaked internal error: %+v", b.Error)
	}
}
