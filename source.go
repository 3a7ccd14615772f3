package gokeyset

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Source is the collection a Batcher iterates over.
type Source[T any] interface {
	// PrimaryKey returns the column identifying a record.
	PrimaryKey() (string, error)
	// Accessor resolves the reader of column on a record.
	Accessor(column string) (Accessor[T], error)
	// Fetch executes req and returns its records in order.
	Fetch(ctx context.Context, req PageRequest) ([]T, error)
	// Scope returns the originating collection narrowed to the given
	// primary keys.
	Scope(ids []any) *gorm.DB
}

// Accessor reads a column value from a record. The flag is false when the
// record does not carry the column.
type Accessor[T any] func(record T) (any, bool)

// Getters - accessors for the columns the iteration reads from a record:
// the order key and, for InBatches, the primary key.
// Example:
//
//	gokeyset.Getters[models.Player]{
//		"id":          func(p models.Player) any { return p.ID },
//		"deposit_sum": func(p models.Player) any { return p.DepositSum },
//	}
//
// A getter returning nil, or a nil pointer, reports the column as absent.
type Getters[T any] map[string]func(T) any

// accessor returns the getter registered for column, trying the column as
// written first and its unqualified name second.
func (g Getters[T]) accessor(column string) (Accessor[T], bool) {
	getter, ok := g[column]
	if !ok {
		getter, ok = g[unqualified(column)]
	}
	if !ok {
		return nil, false
	}

	return func(record T) (any, bool) {
		value := getter(record)
		return value, !lo.IsNil(value)
	}, true
}

// resolveAccessor prefers an explicit getter over the one the source derives.
func resolveAccessor[T any](getters Getters[T], source Source[T], column string) (Accessor[T], error) {
	if accessor, ok := getters.accessor(column); ok {
		return accessor, nil
	}

	accessor, err := source.Accessor(column)
	if err != nil {
		return nil, fmt.Errorf("cannot read column '%s': %w", column, err)
	}

	return accessor, nil
}
