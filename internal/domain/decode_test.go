package domain

import (
	"errors"
	"strings"
	"testing"
)

type decodeTarget struct {
	Name   string  `json:"name"`
	Amount *Amount `json:"amount"`
}

func TestDecodeStrict(t *testing.T) {
	var v decodeTarget
	if err := DecodeStrict(strings.NewReader(`{"name":"x","amount":"1.50"}`), "thing", &v); err != nil {
		t.Fatalf("DecodeStrict() error: %v", err)
	}
	if v.Name != "x" || v.Amount == nil || v.Amount.String() != "1.50" {
		t.Errorf("decoded = %+v", v)
	}
}

func TestDecodeStrict_Rejects(t *testing.T) {
	tests := []struct {
		name, body, wantMsg string
	}{
		{"empty", ``, "thing: request body is empty"},
		{"unknown field", `{"name":"x","extra":1}`, ""},
		{"trailing data", `{"name":"x"} {"name":"y"}`, "thing: unexpected data after request body"},
		{"not json", `name=x`, ""},
		{"field error keeps message", `{"amount":"abc"}`, `thing: malformed amount "abc"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v decodeTarget
			err := DecodeStrict(strings.NewReader(tt.body), "thing", &v)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("DecodeStrict() error = %v, want validation", err)
			}
			if tt.wantMsg != "" && err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}
