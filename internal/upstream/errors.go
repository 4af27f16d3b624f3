package upstream

import (
	"errors"
	"fmt"
)

// NetworkError means the request failed before any response arrived
// (DNS, connect, timeout). Never retried automatically; the user retries
// by repeating the triggering action.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a non-2xx response with a machine-readable body. The body
// shape is owned by the backend; unknown bodies keep the raw text in Message.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("upstream rejected (%d %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("upstream rejected (%d): %s", e.StatusCode, e.Message)
}

// IsRejected reports whether err is a server rejection (non-2xx with body),
// as opposed to a transport failure.
func IsRejected(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
