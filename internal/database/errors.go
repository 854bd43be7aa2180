package database

import (
	"errors"
	"fmt"
)

var (
	// ErrNoResult is returned by QueryOne when the statement matched no rows.
	ErrNoResult = errors.New("no result")

	// ErrAmbiguousResult is returned by QueryOne when more than one row matched.
	ErrAmbiguousResult = errors.New("ambiguous result")
)

type AmbiguousResultError struct {
	Count int
}

func (e *AmbiguousResultError) Error() string {
	return fmt.Sprintf("expected 1 result, got %d", e.Count)
}

func (e *AmbiguousResultError) Unwrap() error {
	return ErrAmbiguousResult
}

// QueryError carries the statement that failed in the driver.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error: %v\nQuery: %s", e.Err, e.Query)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
