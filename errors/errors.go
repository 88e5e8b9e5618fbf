// Package errors defines all exported error sentinels for the hashbin library.
//
// This is the single source of truth for error values. Both the top-level
// hashbin package and internal packages import from here, ensuring errors.Is
// checks work across package boundaries.
//
// Every specific sentinel wraps one of the two categories, so callers can
// test either the exact cause or the broad class:
//
//	errors.Is(err, hasherrors.ErrInvalidNumBins) // exact
//	errors.Is(err, hasherrors.ErrConfig)         // any configuration error
package errors

import (
	"errors"
	"fmt"
)

// Categories
var (
	// ErrConfig is returned when a hasher cannot be constructed from the
	// supplied configuration. It is fatal to that hasher instance.
	ErrConfig = errors.New("hashbin: invalid configuration")

	// ErrUnsupportedInput is returned per call when the input structure is not
	// supported by the requested operation. No partial output is produced.
	ErrUnsupportedInput = errors.New("hashbin: unsupported input")
)

// Configuration errors
var (
	ErrInvalidNumBins = fmt.Errorf("%w: num_bins must be a positive 32-bit integer", ErrConfig)
	ErrInvalidSalt    = fmt.Errorf("%w: salt must be a single integer or exactly 2 integers", ErrConfig)
	ErrInvalidMask    = fmt.Errorf("%w: mask_value must be a string or integer", ErrConfig)
	ErrInvalidWorkers = fmt.Errorf("%w: workers must not be negative", ErrConfig)
)

// Persisted configuration errors
var (
	ErrInvalidConfig   = fmt.Errorf("%w: malformed persisted configuration", ErrConfig)
	ErrInvalidMagic    = fmt.Errorf("%w: invalid magic number", ErrConfig)
	ErrInvalidVersion  = fmt.Errorf("%w: unsupported version", ErrConfig)
	ErrTruncatedConfig = fmt.Errorf("%w: configuration data is truncated", ErrConfig)
	ErrChecksumFailed  = fmt.Errorf("%w: configuration checksum verification failed", ErrConfig)
)

// Input errors
var (
	ErrRaggedCross   = fmt.Errorf("%w: crossing ragged input is not supported", ErrUnsupportedInput)
	ErrMaskWithCross = fmt.Errorf("%w: crossing with a mask_value is not supported", ErrUnsupportedInput)
	ErrNoColumns     = fmt.Errorf("%w: crossing requires at least one column", ErrUnsupportedInput)
	ErrShapeMismatch = fmt.Errorf("%w: column shapes are inconsistent", ErrUnsupportedInput)
	ErrInvalidSparse = fmt.Errorf("%w: malformed sparse matrix", ErrUnsupportedInput)
	ErrInvalidRagged = fmt.Errorf("%w: malformed ragged column", ErrUnsupportedInput)
)
