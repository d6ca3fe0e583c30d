package domain

import (
	"encoding/json"
	"errors"
	"io"
)

// DecodeStrict decodes exactly one JSON document from r into v. Unknown
// fields, an empty body and trailing data are validation errors for
// entity; field errors raised by domain types keep their message.
func DecodeStrict(r io.Reader, entity string, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var de *Error
		switch {
		case errors.As(err, &de):
			return &Error{Kind: KindValidation, Entity: entity, Message: de.Message}
		case errors.Is(err, io.EOF):
			return Validationf(entity, "request body is empty")
		default:
			return Validationf(entity, "malformed request: %v", err)
		}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Validationf(entity, "unexpected data after request body")
	}
	return nil
}
