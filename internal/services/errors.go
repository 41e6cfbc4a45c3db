package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnauthorized means the backend rejected the session token. The caller
// must drop the session and send the user to the login page.
var ErrUnauthorized = errors.New("session rejected by backend")

type APIError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Endpoint, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == 401 {
		return ErrUnauthorized
	}
	return nil
}

// errorDetail extracts the backend's {"detail": ...} message. Validation
// errors carry a list of objects with a msg field.
func errorDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return strings.TrimSpace(string(raw))
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return string(body.Detail)
}

// UserMessage is the text shown to an operator for err.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" && apiErr.StatusCode < 500 {
		return apiErr.Detail
	}
	if errors.Is(err, ErrUnauthorized) {
		return "Your session has expired. Please sign in again."
	}
	return "The backend is unavailable. Please try again."
}
