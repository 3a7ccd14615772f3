package gokeyset

import (
	"gorm.io/gorm"
)

// Batch is a single batch handed to an InBatches handler. It carries the
// records already fetched, so reading them never queries again, and a query
// scoped to exactly their primary keys for follow-up statements:
//
//	err := gokeyset.New[User](db).InBatches(ctx, func(batch *gokeyset.Batch[User]) error {
//		return batch.DB().Update("migrated", true).Error
//	})
type Batch[T any] struct {
	number  int
	records []T
	ids     []any
	cursor  Cursor
	scope   *gorm.DB
}

// Number returns the 1-based position of the batch in the iteration.
func (b *Batch[T]) Number() int {
	return b.number
}

// Records returns the records of the batch in iteration order.
func (b *Batch[T]) Records() []T {
	return b.records
}

// IDs returns the primary keys of the records, in the same order.
func (b *Batch[T]) IDs() []any {
	return b.ids
}

// Len returns the number of records in the batch.
func (b *Batch[T]) Len() int {
	return len(b.records)
}

// Cursor returns the boundary after the last record of the batch. Persist
// its String() to resume an interrupted iteration with WithStartAfter.
func (b *Batch[T]) Cursor() Cursor {
	return b.cursor
}

// DB returns the originating query narrowed to the primary keys of the batch.
func (b *Batch[T]) DB() *gorm.DB {
	return b.scope
}
