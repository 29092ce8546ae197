package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAssumptions marks configuration errors that reject a whole run.
	ErrInvalidAssumptions = errors.New("invalid assumptions")
	// ErrNonPositiveShares is returned when projected shares outstanding are <= 0.
	ErrNonPositiveShares = errors.New("non-positive share count")
	// ErrUnknownParameter is returned for an unsupported sensitivity parameter.
	ErrUnknownParameter = errors.New("unknown sensitivity parameter")
	// ErrUnknownScenario is returned when a P/E scenario label does not exist.
	ErrUnknownScenario = errors.New("unknown valuation scenario")
)

// YearError flags the projection year in which an arithmetic error occurred.
type YearError struct {
	Year int
	Err  error
}

func (e *YearError) Error() string {
	return fmt.Sprintf("year %d: %v", e.Year, e.Err)
}

func (e *YearError) Unwrap() error { return e.Err }
