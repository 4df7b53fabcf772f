package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// StatusError is returned when the remote API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("remote api returned status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("remote api returned status %d", e.StatusCode)
}

// IsForbidden reports whether err is a 403 from the remote API.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsNotFound reports whether err is a 404 from the remote API.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

func hasStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

func newStatusError(code int, body []byte) *StatusError {
	return &StatusError{
		StatusCode: code,
		Body:       string(body),
		Detail:     detailFrom(body),
	}
}

// detailFrom pulls a human message out of common error bodies:
// {"detail": "..."}, {"message": "..."} or {"error": "..."}.
func detailFrom(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"detail", "message", "error"} {
		if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
