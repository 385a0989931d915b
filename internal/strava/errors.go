package strava

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnauthorized = errors.New("strava: unauthorized")
	ErrRateLimited  = errors.New("strava: rate limit exceeded")
)

// FieldError is one entry of the "errors" array of a Strava error response.
type FieldError struct {
	Resource string `json:"resource"`
	Field    string `json:"field"`
	Code     string `json:"code"`
}

// APIError is a non-2xx response from the Strava API.
type APIError struct {
	StatusCode int
	Message    string       `json:"message"`
	Errors     []FieldError `json:"errors"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if len(e.Errors) == 0 {
		return fmt.Sprintf("strava api error [%d]: %s", e.StatusCode, msg)
	}
	fields := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		fields = append(fields, fmt.Sprintf("%s.%s: %s", fe.Resource, fe.Field, fe.Code))
	}
	return fmt.Sprintf("strava api error [%d]: %s (%s)", e.StatusCode, msg, strings.Join(fields, ", "))
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return nil
	}
}

func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if len(body) > 0 {
		// body is best effort, keep the status code regardless
		_ = json.Unmarshal(body, apiErr)
	}
	apiErr.StatusCode = statusCode
	return apiErr
}
