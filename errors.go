package idpc

import "errors"

// Sentinel errors returned by the clustering stages. Stages wrap them with
// detail via fmt.Errorf("%w: ..."), so callers should match with errors.Is.
var (
	// ErrInvalidInput is returned for point sets that are too small, ragged,
	// or contain non-finite coordinates, and for out-of-range parameters.
	ErrInvalidInput = errors.New("idpc: invalid input")

	// ErrUnsupportedMethod is returned when a cutoff or density method
	// selector names a variant that is not implemented.
	ErrUnsupportedMethod = errors.New("idpc: unsupported method")

	// ErrInsufficientPoints is returned when the data set is too small for
	// the requested neighborhood density.
	ErrInsufficientPoints = errors.New("idpc: insufficient points")

	// ErrTooManyCenters is returned when the requested center count is not
	// strictly smaller than the number of points.
	ErrTooManyCenters = errors.New("idpc: too many centers")
)
