package search

import (
	"errors"
	"fmt"
)

var (
	// ErrSuperseded is returned for a query that a newer one replaced before
	// its response arrived.
	ErrSuperseded = errors.New("search: superseded by a newer query")
	// ErrContract is returned when the backend answers with a body that does
	// not match the expected result shape.
	ErrContract = errors.New("search: response violates backend contract")
)

// maxErrorBody bounds how much of a failed response is kept.
const maxErrorBody = 4 << 10

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("search: backend returned %d", e.StatusCode)
	}
	return fmt.Sprintf("search: backend returned %d: %s", e.StatusCode, e.Body)
}
