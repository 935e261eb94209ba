// internal/domain/analytics/errors.go

package analytics

import (
	"errors"
)

// Pipeline error taxonomy
var (
	// ErrMissingInput means the channel identifier was not supplied
	ErrMissingInput = errors.New("missing channel identifier")

	// ErrNotFound means the channel or report does not exist
	ErrNotFound = errors.New("not found")

	// ErrInsufficientData means no video produced a feature row
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// ErrNoConvergence means an iterative centrality measure hit its cap
	ErrNoConvergence = errors.New("centrality did not converge")

	// ErrModelTraining means the regressor could not be fit
	ErrModelTraining = errors.New("model training failed")

	// ErrUnexpected wraps any other pipeline failure
	ErrUnexpected = errors.New("unexpected analytics failure")
)
