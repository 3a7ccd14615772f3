package gokeyset

import (
	"fmt"
)

// RawOptions is the iteration configuration as it appears in job payloads
// and config files. Inline it to embed:
//
//	type BackfillJob struct {
//	    Batching gokeyset.RawOptions `json:",inline" yaml:",inline"`
//	}
type RawOptions struct {
	// BatchSize - maximum number of records per batch. Zero selects
	// DefaultBatchSize.
	BatchSize int `json:"batchSize" yaml:"batchSize"`
	// Order - "column [asc|desc]". Empty orders by the primary key, ascending.
	Order string `json:"order" yaml:"order"`
	// StartToken - token obtained via Cursor.String() to resume after.
	// If empty, the iteration starts from the beginning.
	StartToken string `json:"startToken" yaml:"startToken"`
}

// Options is the decoded form of RawOptions.
type Options struct {
	BatchSize  int
	OrderBy    OrderBy
	StartAfter *Cursor
}

// Decode validates RawOptions. Order columns are resolved through
// columnMapping when it is not nil.
func (o RawOptions) Decode(columnMapping ColumnMapping) (Options, error) {
	batchSize, err := NormalizeBatchSize(o.BatchSize)
	if err != nil {
		return Options{}, err
	}

	ret := Options{
		BatchSize: batchSize,
	}

	if o.Order != "" {
		ret.OrderBy, err = ParseOrder(o.Order, columnMapping)
		if err != nil {
			return Options{}, newConfigurationError(err)
		}
	}

	ret.StartAfter, err = DecodeCursor(o.StartToken)
	if err != nil {
		return Options{}, newConfigurationError(fmt.Errorf("invalid start token: %w", err))
	}

	return ret, nil
}
