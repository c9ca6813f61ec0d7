package gateway

import (
	"errors"
	"fmt"
)

// ErrSessionExpired is returned by any call that receives a 401. By the time
// the caller sees it the persisted credentials have already been purged and
// the session-invalidated hooks have fired.
var ErrSessionExpired = errors.New("session expired")

// APIError carries a structured error reported by the backend (non-2xx with
// an envelope body, e.g. validation failures on writes).
type APIError struct {
	StatusCode int    // HTTP status code
	Status     string // envelope status field, normally "error"
	Message    string // backend-supplied message
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend error (%d)", e.StatusCode)
}

// AsAPIError extracts an *APIError from an error chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
