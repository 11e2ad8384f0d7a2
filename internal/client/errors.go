package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned when the backend responds with a status >= 400.
type APIError struct {
	Status int
	// Message is the backend's "message", if any.
	Message string
	// FieldErrors holds the "errors" object: field -> messages.
	FieldErrors map[string][]string
	// Messages holds a flat "data" list of messages.
	Messages []string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend %d", e.Status)
}

// AsAPIError extracts an *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAuthFailure reports a 401 or 403 response.
func IsAuthFailure(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden)
}

// IsValidation reports a 422 response.
func IsValidation(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Status == http.StatusUnprocessableEntity
}

func decodeError(status int, raw []byte) *APIError {
	apiErr := &APIError{Status: status}

	var env struct {
		Message string                     `json:"message"`
		Errors  map[string]json.RawMessage `json:"errors"`
		Data    json.RawMessage            `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return apiErr
	}
	apiErr.Message = env.Message

	if len(env.Errors) > 0 {
		apiErr.FieldErrors = make(map[string][]string, len(env.Errors))
		for field, v := range env.Errors {
			apiErr.FieldErrors[field] = stringList(v)
		}
	}

	if data := bytes.TrimSpace(env.Data); len(data) > 0 && data[0] == '[' {
		var msgs []string
		if err := json.Unmarshal(data, &msgs); err == nil {
			apiErr.Messages = msgs
		}
	}
	return apiErr
}

// stringList accepts ["a", "b"] or "a".
func stringList(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}
	return nil
}
