package interp

import "github.com/ecmago/ecmago/internal/errors"

// cancellationError is raised when a Context's execution deadline (spec §5
// cancellation/timeout model) is exhausted mid-script.
func cancellationError() error {
	return errors.New(errors.RangeError, "Script execution deadline exceeded")
}
