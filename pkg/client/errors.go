package client

import (
	"fmt"
	"net/http"
)

// NetworkError is a transport failure: the server was not reached or the response was unreadable.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
	Errors  map[string][]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

func (e *APIError) IsUnauthenticated() bool { return e.Status == http.StatusUnauthorized }
func (e *APIError) IsForbidden() bool       { return e.Status == http.StatusForbidden }
func (e *APIError) IsNotFound() bool        { return e.Status == http.StatusNotFound }
func (e *APIError) IsValidation() bool      { return e.Status == http.StatusUnprocessableEntity }

// errorBody covers both the {success,...} and the {status,...} error envelopes.
type errorBody struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}
