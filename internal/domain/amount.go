package domain

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ─── Amount ─────────────────────────────────────────────────────────────────

// Amount is a fixed-point monetary value. Valid amounts carry at most two
// fractional digits; the persisted form is integer cents.
type Amount struct {
	decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{decimal.Zero}

// NewAmountFromCents builds an amount from integer cents.
func NewAmountFromCents(cents int64) Amount {
	return Amount{decimal.New(cents, -2)}
}

// MustAmount parses s and panics on malformed input. Intended for tests
// and constants.
func MustAmount(s string) Amount {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return Amount{d}
}

// ParseAmount parses a decimal string without any rounding.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, Validationf("amount", "malformed amount %q", s)
	}
	return Amount{d}, nil
}

// Cents returns the amount in integer cents. Callers must have validated
// the amount first: extra digits are truncated and magnitudes beyond
// int64 wrap.
func (a Amount) Cents() int64 {
	return a.Decimal.Shift(2).IntPart()
}

// HasCentPrecision reports whether the amount has at most two fractional
// digits.
func (a Amount) HasCentPrecision() bool {
	return a.Decimal.Truncate(2).Equal(a.Decimal)
}

func (a Amount) Add(b Amount) Amount { return Amount{a.Decimal.Add(b.Decimal)} }
func (a Amount) Sub(b Amount) Amount { return Amount{a.Decimal.Sub(b.Decimal)} }
func (a Amount) Neg() Amount         { return Amount{a.Decimal.Neg()} }
func (a Amount) Equal(b Amount) bool { return a.Decimal.Equal(b.Decimal) }
func (a Amount) String() string      { return a.Decimal.StringFixed(2) }

// MarshalJSON renders the amount as a bare number with two decimals.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.StringFixed(2)), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string. The exact
// textual precision is preserved so validation can reject it.
func (a *Amount) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return Validationf("amount", "amount is required")
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return Validationf("amount", "malformed amount %s", b)
	}
	a.Decimal = d
	return nil
}

// ─── Date ───────────────────────────────────────────────────────────────────

// DateLayout is the wire and storage layout of calendar dates.
const DateLayout = time.DateOnly

// Date is a calendar date with no time-of-day or zone.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date.
func Today() Date { return NewDate(time.Now()) }

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, Validationf("date", "malformed date %q, want YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// MustDate parses s and panics on malformed input.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string { return d.Time.Format(DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", d.String())), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`""`)) {
		return Validationf("date", "date is required")
	}
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return Validationf("date", "malformed date %s", b)
	}
	parsed, err := ParseDate(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
