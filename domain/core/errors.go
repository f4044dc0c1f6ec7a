package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrEmptyDataset  = errors.New("dataset has no columns or rows")
	ErrRaggedColumns = errors.New("dataset columns differ in length")
	ErrNonFinite     = errors.New("dataset contains non-finite value")
	ErrColumnMissing = errors.New("column not found")

	// Configuration errors
	ErrUnknownEncoding   = errors.New("unknown encoding method")
	ErrUnknownPartition  = errors.New("unknown partition mode")
	ErrUnknownRankMethod = errors.New("unknown rank method")
	ErrInvalidPartition  = errors.New("invalid partition parameters")
	ErrInvalidBattery    = errors.New("invalid test battery parameters")

	// Stream errors
	ErrInvalidSymbol = errors.New("stream contains a symbol other than 0 or 1")
)

// NewUnknownEncodingError reports an encoding method that is not registered
func NewUnknownEncodingError(method string) error {
	return fmt.Errorf("%w: %q", ErrUnknownEncoding, method)
}

// NewPartitionError reports partition parameters that cannot produce a stream
func NewPartitionError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidPartition, reason)
}

// NewColumnError attaches the column name to a dataset error
func NewColumnError(column string, err error) error {
	return fmt.Errorf("column %s: %w", column, err)
}

// IsInputError reports whether err was caused by a malformed dataset
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyDataset) ||
		errors.Is(err, ErrRaggedColumns) ||
		errors.Is(err, ErrNonFinite) ||
		errors.Is(err, ErrColumnMissing)
}

// IsConfigurationError reports whether err is a fatal configuration error
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrUnknownEncoding) ||
		errors.Is(err, ErrUnknownPartition) ||
		errors.Is(err, ErrUnknownRankMethod) ||
		errors.Is(err, ErrInvalidPartition) ||
		errors.Is(err, ErrInvalidBattery)
}
