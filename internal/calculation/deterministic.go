package calculation

import (
	"time"

	"github.com/google/uuid"
)

// nowFunc returns the current time (override in tests for determinism).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }

// runIDFunc returns the identifier stamped on each report.
var runIDFunc = func() string { return uuid.NewString() }

// SetRunIDFunc overrides the run ID provider (use only in tests).
func SetRunIDFunc(f func() string) { runIDFunc = f }
