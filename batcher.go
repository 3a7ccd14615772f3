package gokeyset

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Alp4ka/gokeyset/internal/logging"
)

// Batcher walks a collection in batches ordered by a single key, using the
// last key of each batch as the lower (or upper, for DESC) bound of the
// next one instead of an OFFSET.
//
// The zero configuration orders by the primary key, ascending, in batches of
// DefaultBatchSize.
type Batcher[T any] struct {
	source    Source[T]
	batchSize int
	orderBy   OrderBy
	start     *Cursor
	getters   Getters[T]
	logger    *zerolog.Logger
}

// New returns a Batcher over the records of db. db may already carry
// conditions, joins or a custom Select.
func New[T any](db *gorm.DB) *Batcher[T] {
	return FromSource[T](NewGORMSource[T](db))
}

// FromSource returns a Batcher over an arbitrary Source.
func FromSource[T any](source Source[T]) *Batcher[T] {
	return &Batcher[T]{
		source: source,
	}
}

// WithBatchSize sets the maximum number of records per batch. Zero restores
// DefaultBatchSize.
func (b *Batcher[T]) WithBatchSize(batchSize int) *Batcher[T] {
	if b == nil {
		b = new(Batcher[T])
	}

	b.batchSize = batchSize

	return b
}

// WithOrder sets the order key and its direction.
//
// IMPORTANT:
// The key should be unique. Records sharing the key value with the last
// record of a batch are skipped.
func (b *Batcher[T]) WithOrder(orderBy OrderBy) *Batcher[T] {
	if b == nil {
		b = new(Batcher[T])
	}

	b.orderBy = orderBy

	return b
}

// WithOrderKey sets the order key, keeping the direction.
func (b *Batcher[T]) WithOrderKey(column string) *Batcher[T] {
	if b == nil {
		b = new(Batcher[T])
	}

	b.orderBy.Column = column

	return b
}

// WithDirection sets the direction, keeping the order key.
func (b *Batcher[T]) WithDirection(direction Direction) *Batcher[T] {
	if b == nil {
		b = new(Batcher[T])
	}

	b.orderBy.Direction = direction

	return b
}

// WithGetters sets explicit accessors for the order key and primary key.
// Columns without a getter are read by the source.
func (b *Batcher[T]) WithGetters(getters Getters[T]) *Batcher[T] {
	if b == nil {
		b = new(Batcher[T])
	}

	b.getters = getters

	return b
}

// WithStartAfter resumes an iteration right after cursor. A nil cursor
// starts from the beginning.
func (b *Batcher[T]) WithStartAfter(cursor *Cursor) *Batcher[T] {
	if b == nil {
		b = new(Batcher[T])
	}

	b.start = cursor

	return b
}

// WithLogger overrides the logger found in the iteration context.
func (b *Batcher[T]) WithLogger(logger zerolog.Logger) *Batcher[T] {
	if b == nil {
		b = new(Batcher[T])
	}

	b.logger = &logger

	return b
}

// WithOptions applies decoded Options on top of the current configuration.
// Zero fields keep the current settings.
func (b *Batcher[T]) WithOptions(options Options) *Batcher[T] {
	if b == nil {
		b = new(Batcher[T])
	}

	if options.BatchSize != 0 {
		b = b.WithBatchSize(options.BatchSize)
	}
	if options.OrderBy.Column != "" {
		b = b.WithOrder(options.OrderBy)
	}
	if options.StartAfter != nil {
		b = b.WithStartAfter(options.StartAfter)
	}

	return b
}

// FindEach calls fn for every record, batch after batch.
func (b *Batcher[T]) FindEach(ctx context.Context, fn func(record T) error) error {
	return b.FindInBatches(ctx, func(records []T) error {
		for _, record := range records {
			if err := fn(record); err != nil {
				return err
			}
		}

		return nil
	})
}

// FindInBatches calls fn once per batch with its records.
func (b *Batcher[T]) FindInBatches(ctx context.Context, fn func(records []T) error) error {
	return b.run(ctx, false, func(batch *Batch[T]) error {
		return fn(batch.records)
	})
}

// InBatches calls fn once per batch with a Batch scoped to its primary keys.
func (b *Batcher[T]) InBatches(ctx context.Context, fn func(batch *Batch[T]) error) error {
	return b.run(ctx, true, fn)
}

type iteration[T any] struct {
	first PageRequest
	key   Accessor[T]
	id    Accessor[T]
}

func (b *Batcher[T]) prepare(scoped bool) (*iteration[T], error) {
	if b == nil || b.source == nil {
		return nil, errors.New("batcher has no source")
	}

	batchSize, err := NormalizeBatchSize(b.batchSize)
	if err != nil {
		return nil, err
	}

	orderBy := b.orderBy
	if orderBy.Direction == "" {
		orderBy.Direction = DirectionASC
	}

	var pk string
	if orderBy.Column == "" || scoped {
		pk, err = b.source.PrimaryKey()
		if err != nil {
			return nil, newConfigurationError(err)
		}
	}
	if orderBy.Column == "" {
		orderBy.Column = pk
	}

	if err = orderBy.validate(); err != nil {
		return nil, newConfigurationError(err)
	}

	if b.start != nil {
		if err = b.start.validate(orderBy); err != nil {
			return nil, newConfigurationError(fmt.Errorf("cannot resume: %w", err))
		}
	}

	it := &iteration[T]{
		first: newPageRequest(orderBy, batchSize, b.start),
	}

	it.key, err = resolveAccessor(b.getters, b.source, orderBy.Column)
	if err != nil {
		return nil, newConfigurationError(err)
	}

	if scoped {
		it.id, err = resolveAccessor(b.getters, b.source, pk)
		if err != nil {
			return nil, newConfigurationError(err)
		}
	}

	return it, nil
}

func (b *Batcher[T]) run(ctx context.Context, scoped bool, fn func(batch *Batch[T]) error) error {
	it, err := b.prepare(scoped)
	if err != nil {
		return err
	}

	logger := b.logger
	if logger == nil {
		logger = logging.Ctx(ctx)
	}

	req := it.first
	total := 0

	for number := 1; ; number++ {
		records, err := b.source.Fetch(ctx, req)
		if err != nil {
			return fmt.Errorf("cannot fetch batch %d: %w", number, err)
		}

		if len(records) == 0 {
			break
		}

		value, ok := it.key(records[len(records)-1])
		if !ok {
			return newConfigurationError(fmt.Errorf("%w: column '%s'", ErrOrderKeyMissing, req.orderBy.Column))
		}

		batch := &Batch[T]{
			number:  number,
			records: records,
			cursor:  NewCursor(req.orderBy, value),
		}

		if scoped {
			batch.ids = make([]any, 0, len(records))
			for _, record := range records {
				id, ok := it.id(record)
				if !ok {
					return newConfigurationError(ErrPrimaryKeyMissing)
				}
				batch.ids = append(batch.ids, id)
			}
			batch.scope = b.source.Scope(batch.ids)
		}

		logger.Debug().
			Int("batch", number).
			Int("size", len(records)).
			Stringer("cursor", batch.cursor).
			Msg("yielding batch")

		if err = fn(batch); err != nil {
			return err
		}

		total += len(records)

		if len(records) < req.limit {
			break
		}

		req = req.After(batch.cursor)
	}

	logger.Debug().Int("records", total).Msg("batch iteration finished")

	return nil
}
