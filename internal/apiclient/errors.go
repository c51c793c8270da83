package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mindwell/sessionctl/internal/model"
)

// APIError is a non-2xx response from the backend. Message carries the
// server-provided text verbatim when the body had one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap maps the well-known status codes onto the model sentinels so
// callers can branch with errors.Is instead of inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return model.ErrNotFound
	case http.StatusConflict:
		return model.ErrExists
	}
	return nil
}

func newAPIError(statusCode int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}

	message := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			message = payload.Message
		case payload.Error != "":
			message = payload.Error
		}
	}
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", statusCode)
	}

	return &APIError{StatusCode: statusCode, Message: message}
}
