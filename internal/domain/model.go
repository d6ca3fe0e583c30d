// Package domain contains pure ledger types with no infrastructure imports.
// Everything else in hearth depends on it; it depends on nothing internal.
package domain

import (
	"encoding/json"
	"time"
)

// ─── Account Types ──────────────────────────────────────────────────────────

// AccountType is the accounting side of an account.
type AccountType string

const (
	AccountDebit  AccountType = "debit"
	AccountCredit AccountType = "credit"
)

// AccountTypes lists the closed set in canonical form.
var AccountTypes = []AccountType{AccountDebit, AccountCredit}

// ─── Transaction States ─────────────────────────────────────────────────────

// TransactionState tags a reconciliation snapshot. States are categories,
// not stages: a snapshot never moves between them.
type TransactionState string

const (
	StateCleared     TransactionState = "cleared"
	StateOutstanding TransactionState = "outstanding"
	StateFuture      TransactionState = "future"
)

// TransactionStates lists the closed set in canonical form.
var TransactionStates = []TransactionState{StateCleared, StateOutstanding, StateFuture}

// ─── Entities ───────────────────────────────────────────────────────────────

// Account is a named debit or credit account owned by a household member.
type Account struct {
	ID               int64       `json:"accountId"`
	AccountNameOwner string      `json:"accountNameOwner"`
	AccountType      AccountType `json:"accountType"`
	ActiveStatus     bool        `json:"activeStatus"`
	Moniker          string      `json:"moniker"`
	Totals           Amount      `json:"totals"`
	TotalsBalanced   bool        `json:"totalsBalanced"`
	DateClosed       *Date       `json:"dateClosed,omitempty"`
	DateAdded        time.Time   `json:"dateAdded"`
	DateUpdated      time.Time   `json:"dateUpdated"`
}

// MovementKind distinguishes the two money-movement record families.
// Both share one shape and one set of invariants.
type MovementKind string

const (
	KindTransfer MovementKind = "transfer"
	KindPayment  MovementKind = "payment"
)

// Movement is an immutable record of money moving between two accounts.
type Movement struct {
	ID                 int64     `json:"-"`
	SourceAccount      string    `json:"sourceAccount"`
	DestinationAccount string    `json:"destinationAccount"`
	TransactionDate    Date      `json:"transactionDate"`
	Amount             Amount    `json:"amount"`
	GUIDSource         string    `json:"guidSource"`
	GUIDDestination    string    `json:"guidDestination"`
	ActiveStatus       bool      `json:"activeStatus"`
	DateAdded          time.Time `json:"dateAdded"`
	DateUpdated        time.Time `json:"dateUpdated"`
}

// Transfer moves money between two debit accounts.
type Transfer struct {
	Movement
}

// MarshalJSON renders the record id as transferId.
func (t Transfer) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TransferID int64 `json:"transferId"`
		Movement
	}{t.ID, t.Movement})
}

// Payment settles a credit account from the configured payment account.
type Payment struct {
	Movement
}

// MarshalJSON renders the record id as paymentId.
func (p Payment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		PaymentID int64 `json:"paymentId"`
		Movement
	}{p.ID, p.Movement})
}

// Touches reports whether the movement involves the named account.
func (m Movement) Touches(accountNameOwner string) bool {
	return m.SourceAccount == accountNameOwner || m.DestinationAccount == accountNameOwner
}

// NetFor returns the signed effect of the movement on an account:
// negative for the source, positive for the destination.
func (m Movement) NetFor(accountNameOwner string) Amount {
	switch accountNameOwner {
	case m.SourceAccount:
		return m.Amount.Neg()
	case m.DestinationAccount:
		return m.Amount
	default:
		return Zero
	}
}

// ValidationAmount is a reconciliation snapshot: the balance an external
// statement reported for an account under one transaction state.
type ValidationAmount struct {
	ID               int64            `json:"validationId"`
	AccountID        int64            `json:"accountId"`
	AccountNameOwner string           `json:"accountNameOwner,omitempty"`
	ValidationDate   Date             `json:"validationDate"`
	Amount           Amount           `json:"amount"`
	TransactionState TransactionState `json:"transactionState"`
	ActiveStatus     bool             `json:"activeStatus"`
	DateAdded        time.Time        `json:"dateAdded"`
	DateUpdated      time.Time        `json:"dateUpdated"`
}

// Parameter is a key/value configuration entry.
type Parameter struct {
	ID             int64     `json:"parameterId"`
	ParameterName  string    `json:"parameterName"`
	ParameterValue string    `json:"parameterValue"`
	ActiveStatus   bool      `json:"activeStatus"`
	DateAdded      time.Time `json:"dateAdded"`
	DateUpdated    time.Time `json:"dateUpdated"`
}

// PaymentAccountParameter names the parameter holding the debit account
// that every payment settles against.
const PaymentAccountParameter = "payment_account"

// ─── Reporting ──────────────────────────────────────────────────────────────

// StateTotals sums reconciled balances by transaction state.
type StateTotals struct {
	Cleared     Amount `json:"totalsCleared"`
	Outstanding Amount `json:"totalsOutstanding"`
	Future      Amount `json:"totalsFuture"`
	Total       Amount `json:"totals"`
}

// Add accumulates one snapshot into the totals.
func (t *StateTotals) Add(state TransactionState, a Amount) {
	switch state {
	case StateCleared:
		t.Cleared = t.Cleared.Add(a)
	case StateOutstanding:
		t.Outstanding = t.Outstanding.Add(a)
	case StateFuture:
		t.Future = t.Future.Add(a)
	}
	t.Total = t.Total.Add(a)
}

// AccountReport is the per-account reconciliation view.
type AccountReport struct {
	AccountNameOwner string      `json:"accountNameOwner"`
	AccountType      AccountType `json:"accountType"`
	StateTotals
	MovementNet    Amount `json:"movementNet"`
	TotalsBalanced bool   `json:"totalsBalanced"`
	LastCleared    *Date  `json:"lastCleared,omitempty"`
}

// OpenItem is a movement not yet covered by a cleared snapshot.
type OpenItem struct {
	Kind       MovementKind `json:"kind"`
	MovementID int64        `json:"id"`
	Movement
	Net Amount `json:"net"`
}
