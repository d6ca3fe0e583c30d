package ledger

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hearth-ledger/hearth/internal/domain"
)

// ─── Requests ───────────────────────────────────────────────────────────────
// Each entity has its own closed request shape. Unknown fields, trailing
// data and missing required fields are validation errors.

// TransferRequest is the payload for recording a transfer. GUIDs are
// optional; when omitted they are derived from the content.
type TransferRequest struct {
	SourceAccount      string         `json:"sourceAccount"`
	DestinationAccount string         `json:"destinationAccount"`
	TransactionDate    *domain.Date   `json:"transactionDate"`
	Amount             *domain.Amount `json:"amount"`
	GUIDSource         string         `json:"guidSource,omitempty"`
	GUIDDestination    string         `json:"guidDestination,omitempty"`
	ActiveStatus       *bool          `json:"activeStatus,omitempty"`
}

// PaymentRequest is the payload for recording a payment. The destination
// is taken from the payment_account parameter; when supplied it must
// agree with it.
type PaymentRequest struct {
	SourceAccount      string         `json:"sourceAccount"`
	DestinationAccount string         `json:"destinationAccount,omitempty"`
	TransactionDate    *domain.Date   `json:"transactionDate"`
	Amount             *domain.Amount `json:"amount"`
	GUIDSource         string         `json:"guidSource,omitempty"`
	GUIDDestination    string         `json:"guidDestination,omitempty"`
	ActiveStatus       *bool          `json:"activeStatus,omitempty"`
}

// DecodeTransferRequest parses a transfer payload strictly.
func DecodeTransferRequest(r io.Reader) (TransferRequest, error) {
	var req TransferRequest
	if err := domain.DecodeStrict(r, string(domain.KindTransfer), &req); err != nil {
		return TransferRequest{}, err
	}
	if err := req.draft().required(string(domain.KindTransfer), true); err != nil {
		return TransferRequest{}, err
	}
	return req, nil
}

// DecodePaymentRequest parses a payment payload strictly.
func DecodePaymentRequest(r io.Reader) (PaymentRequest, error) {
	var req PaymentRequest
	if err := domain.DecodeStrict(r, string(domain.KindPayment), &req); err != nil {
		return PaymentRequest{}, err
	}
	if err := req.draft().required(string(domain.KindPayment), false); err != nil {
		return PaymentRequest{}, err
	}
	return req, nil
}

// draft is the kind-independent form of a movement request.
type draft struct {
	source, destination  string
	date                 *domain.Date
	amount               *domain.Amount
	guidSource, guidDest string
	active               *bool
}

func (r TransferRequest) draft() draft {
	return draft{r.SourceAccount, r.DestinationAccount, r.TransactionDate, r.Amount,
		r.GUIDSource, r.GUIDDestination, r.ActiveStatus}
}

func (r PaymentRequest) draft() draft {
	return draft{r.SourceAccount, r.DestinationAccount, r.TransactionDate, r.Amount,
		r.GUIDSource, r.GUIDDestination, r.ActiveStatus}
}

// required reports the first missing required field.
func (d draft) required(entity string, needDestination bool) error {
	var missing string
	switch {
	case d.source == "":
		missing = "sourceAccount"
	case needDestination && d.destination == "":
		missing = "destinationAccount"
	case d.date == nil:
		missing = "transactionDate"
	case d.amount == nil:
		missing = "amount"
	}
	if missing != "" {
		return domain.Validationf(entity, "%s is required", missing)
	}
	return nil
}

// normalize applies the structural checks that need no storage: names,
// amount precision and sign, and the GUID pair.
func (d draft) normalize(kind domain.MovementKind, needDestination bool) (domain.Movement, error) {
	entity := string(kind)
	if err := d.required(entity, needDestination); err != nil {
		return domain.Movement{}, err
	}
	if err := domain.ValidatePositiveAmount(entity, *d.amount); err != nil {
		return domain.Movement{}, err
	}

	m := domain.Movement{
		SourceAccount:      domain.NormalizeAccountName(d.source),
		DestinationAccount: domain.NormalizeAccountName(d.destination),
		TransactionDate:    *d.date,
		Amount:             *d.amount,
		ActiveStatus:       true,
	}
	if d.active != nil {
		m.ActiveStatus = *d.active
	}

	switch {
	case d.guidSource == "" && d.guidDest == "":
	case d.guidSource == "" || d.guidDest == "":
		return domain.Movement{}, domain.Validationf(entity, "guidSource and guidDestination must be supplied together")
	default:
		var err error
		if m.GUIDSource, err = domain.NormalizeGUID(entity, "guidSource", d.guidSource); err != nil {
			return domain.Movement{}, err
		}
		if m.GUIDDestination, err = domain.NormalizeGUID(entity, "guidDestination", d.guidDest); err != nil {
			return domain.Movement{}, err
		}
		if m.GUIDSource == m.GUIDDestination {
			return domain.Movement{}, domain.Validationf(entity, "guidSource and guidDestination must differ")
		}
	}
	return m, nil
}

// String renders a request for logs.
func (d draft) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s -> %s", d.source, d.destination)
	if d.amount != nil {
		fmt.Fprintf(&buf, " %s", d.amount)
	}
	if d.date != nil {
		fmt.Fprintf(&buf, " on %s", d.date)
	}
	return buf.String()
}
