package gokeyset

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderKeyMissing is returned when the order key cannot be read from
	// the last record of a batch, typically because a custom Select left the
	// column out.
	ErrOrderKeyMissing = errors.New("order key not present in result")
	// ErrPrimaryKeyMissing is the InBatches counterpart of ErrOrderKeyMissing
	// for the primary key used to scope a batch.
	ErrPrimaryKeyMissing = errors.New("primary key not present in result")
	ErrInvalidBatchSize  = errors.New("batch size must be a positive integer")
	ErrNoOrderKey        = errors.New("no order key: set one explicitly or use a model with a primary key")
	ErrUnknownColumn     = errors.New("unknown column")
)

// ConfigurationError reports an iteration that cannot run, or cannot go on,
// with the given settings. It is never retried: the iteration stops and the
// side effects of batches already handled are left in place.
type ConfigurationError struct {
	error
}

// Unwrap returns the inner, wrapped error.
func (err ConfigurationError) Unwrap() error {
	return err.error
}

func (err ConfigurationError) Error() string {
	return fmt.Sprintf("invalid batch configuration: %s", err.error)
}

func newConfigurationError(err error) error {
	var cerr ConfigurationError
	if errors.As(err, &cerr) {
		return err
	}

	return ConfigurationError{err}
}
