package api

import "fmt"

// Error is the single error kind surfaced by the client. Status 0 means the
// request never produced a response (DNS, connection refused, timeout);
// Status > 0 means the server answered with that error status.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsTransport reports whether the error represents a transport-level failure.
func (e *Error) IsTransport() bool {
	return e.Status == 0
}

func transportError(err error) *Error {
	return &Error{Status: 0, Message: fmt.Sprintf("network error: %v", err)}
}
