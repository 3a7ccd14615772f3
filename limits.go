package gokeyset

const (
	// DefaultBatchSize is used when no batch size is configured.
	DefaultBatchSize = 1000
)

// IsNormalizedBatchSize returns the batch size to use and whether the
// requested one was usable as is. Zero selects DefaultBatchSize. A negative
// size is not usable and yields an error.
func IsNormalizedBatchSize(batchSize int) (int, bool, error) {
	switch {
	case batchSize < 0:
		return 0, false, newConfigurationError(ErrInvalidBatchSize)
	case batchSize == 0:
		return DefaultBatchSize, false, nil
	default:
		return batchSize, true, nil
	}
}

// NormalizeBatchSize is IsNormalizedBatchSize without the strictness flag.
func NormalizeBatchSize(batchSize int) (int, error) {
	ret, _, err := IsNormalizedBatchSize(batchSize)
	return ret, err
}
