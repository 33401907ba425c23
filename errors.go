package advisor

import "errors"

// Sentinel errors shared across the analytics core. Callers are expected to
// test them with errors.Is.
var (
	// ErrDataUnavailable reports that upstream market data (prices or
	// fundamentals) is missing or empty. It is recoverable: scorers and the
	// risk engine degrade to partial results, only leaf accessors with
	// literally nothing to return surface it.
	ErrDataUnavailable = errors.New("market data unavailable")

	// ErrInsufficientHistory reports that a series is shorter than the
	// statistical minimum of a metric. Treated like ErrDataUnavailable,
	// per metric.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrNotFound reports that the subject of an operation (a portfolio or a
	// position) does not exist. Unlike missing data it is a definite failure,
	// never silently defaulted.
	ErrNotFound = errors.New("not found")
)
