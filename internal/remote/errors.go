package remote

import (
	"errors"
	"fmt"
)

// Error is a failure reported by the backend. Code is one of the domain error codes.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("backend error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error %d (%s): %s", e.Status, e.Code, e.Message)
}

// CodeOf returns the backend error code carried by err, or "" if there is none.
func CodeOf(err error) string {
	var remoteErr *Error
	if errors.As(err, &remoteErr) {
		return remoteErr.Code
	}
	return ""
}
