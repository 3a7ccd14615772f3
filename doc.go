// Package gokeyset provides keyset (cursor) batch iteration over GORM queries.
//
// Overview
//
// A Batcher walks a collection in batches of a bounded size. Each batch is
// ordered by a single order key; the key of the last record in a batch
// becomes the strict boundary ("key > last" for ASC, "key < last" for DESC)
// of the next one. No OFFSET is ever issued, so the cost of a batch does not
// grow with its position, and handlers may update or delete the records they
// were given without disturbing the iteration.
//
// Key concepts
//   - Batcher: configures and drives the iteration. FindEach yields records,
//     FindInBatches yields slices, InBatches yields Batch values scoped to
//     the primary keys of the batch.
//   - Source: the collection being iterated. GORMSource wraps a *gorm.DB.
//   - Cursor: the boundary between batches; its String() is a resumable token.
//   - Getters: explicit accessors for the order key and primary key.
//
// The iteration stops after an empty batch or a batch shorter than the
// batch size. It stops early on the first handler error, which is returned
// unchanged.
//
// Limitations
//
// The order key should be unique: records that share the key value with the
// last record of a batch are skipped. Records inserted behind the cursor
// while iterating are not visited.
package gokeyset
