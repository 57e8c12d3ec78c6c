package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go-inventory-api/pkg/validator"
)

var (
	ErrNotFound        = errors.New("data tidak ditemukan")
	ErrMalformedBody   = errors.New("format JSON tidak valid")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError carries field-keyed messages; nothing was written.
type ValidationError struct {
	Errors validator.Errors
}

func (e *ValidationError) Error() string {
	fields := e.Errors.Fields()
	return fmt.Sprintf("validation failed on %s", strings.Join(fields, ", "))
}

func newValidationError(errs validator.Errors) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}

// decodeBody decodes a JSON object over form and reports which keys were supplied.
// Type mismatches become field errors; anything that is not a JSON object is ErrMalformedBody.
func decodeBody(body []byte, form interface{}) (map[string]json.RawMessage, validator.Errors, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		body = []byte("{}")
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if keys == nil {
		keys = map[string]json.RawMessage{}
	}

	errs := validator.Errors{}
	if err := json.Unmarshal(body, form); err != nil {
		var ute *json.UnmarshalTypeError
		if !errors.As(err, &ute) || ute.Field == "" {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		errs.Add(ute.Field, fmt.Sprintf("%s tidak valid.", ute.Field))
	}
	return keys, errs, nil
}

// DecodeRequest decodes a JSON request body into req. A field of the wrong type
// is a ValidationError; a body that is not a JSON object is ErrMalformedBody.
func DecodeRequest(body []byte, req interface{}) error {
	_, errs, err := decodeBody(body, req)
	if err != nil {
		return err
	}
	return newValidationError(errs)
}
