package domain

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ─── Constraint Layer ───────────────────────────────────────────────────────
// Field-level rules shared by the registry, the ledger and reconciliation.
// Each check returns a KindValidation error; none of them touches storage.

const (
	MaxAccountNameLength    = 40
	MaxParameterNameLength  = 50
	MaxParameterValueLength = 50
)

var (
	accountNamePattern = regexp.MustCompile(`^[a-z0-9-]+_[a-z0-9-]+$`)
	monikerPattern     = regexp.MustCompile(`^\d{4}$`)
)

// MaxAmount bounds the magnitude of any single amount. Sums of many
// bounded amounts still fit the int64 cents column.
var MaxAmount = NewAmountFromCents(99_999_999_999)

// ValidateAmount rejects amounts with more than two fractional digits or
// a magnitude above MaxAmount. Amounts are never rounded.
func ValidateAmount(entity string, a Amount) error {
	if !a.HasCentPrecision() {
		return Validationf(entity, "amount %s has more than two fractional digits", a.Decimal.String())
	}
	if a.Decimal.Abs().GreaterThan(MaxAmount.Decimal) {
		return Validationf(entity, "amount %s exceeds the maximum of %s", a.Decimal.String(), MaxAmount)
	}
	return nil
}

// ValidatePositiveAmount additionally requires a > 0.
func ValidatePositiveAmount(entity string, a Amount) error {
	if err := ValidateAmount(entity, a); err != nil {
		return err
	}
	if !a.Decimal.IsPositive() {
		return Validationf(entity, "amount must be greater than zero, got %s", a)
	}
	return nil
}

// ParseAccountType matches the closed account-type set case-insensitively
// and returns the canonical form.
func ParseAccountType(s string) (AccountType, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	for _, t := range AccountTypes {
		if string(t) == in {
			return t, nil
		}
	}
	return "", Validationf("account", "unrecognized account type %q", s)
}

// ParseTransactionState matches the closed state set case-insensitively
// and returns the canonical form.
func ParseTransactionState(s string) (TransactionState, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	for _, st := range TransactionStates {
		if string(st) == in {
			return st, nil
		}
	}
	return "", Validationf("validation_amount", "unrecognized transaction state %q", s)
}

// NormalizeAccountName returns the persisted form of an account name.
func NormalizeAccountName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidateAccountNameOwner checks a normalized account name.
func ValidateAccountNameOwner(name string) error {
	switch {
	case name == "":
		return Validationf("account", "accountNameOwner is required")
	case len(name) > MaxAccountNameLength:
		return Validationf("account", "accountNameOwner exceeds %d characters", MaxAccountNameLength)
	case !accountNamePattern.MatchString(name):
		return Validationf("account", "accountNameOwner %q must look like owner_name", name)
	}
	return nil
}

// ValidateMoniker checks the optional 4-digit account moniker.
func ValidateMoniker(m string) error {
	if !monikerPattern.MatchString(m) {
		return Validationf("account", "moniker %q must be 4 digits", m)
	}
	return nil
}

// ValidateParameter checks a parameter's name and value.
func ValidateParameter(name, value string) error {
	switch {
	case name == "":
		return Validationf("parameter", "parameterName is required")
	case len(name) > MaxParameterNameLength:
		return Validationf("parameter", "parameterName exceeds %d characters", MaxParameterNameLength)
	case value == "":
		return Validationf("parameter", "parameterValue is required")
	case len(value) > MaxParameterValueLength:
		return Validationf("parameter", "parameterValue exceeds %d characters", MaxParameterValueLength)
	}
	return nil
}

// NormalizeGUID validates a caller-supplied GUID and returns its canonical
// lower-case form.
func NormalizeGUID(entity, field, s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", Validationf(entity, "%s %q is not a valid GUID", field, s)
	}
	return id.String(), nil
}
