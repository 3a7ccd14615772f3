package gokeyset

import (
	"gorm.io/gorm"
)

// NoResultCacheKey is the gorm setting every batch query carries. Result
// caching plugins registered on the *gorm.DB must bypass the cache when it
// is set: a cached batch is stale as soon as the handler has touched it, and
// retaining every batch defeats the point of batching.
const NoResultCacheKey = "gokeyset:skip_result_cache"

func disableResultCache(db *gorm.DB) *gorm.DB {
	return db.Set(NoResultCacheKey, true)
}

// PageRequest describes the query for a single batch. It is a value: After
// returns a new request and never changes the receiver.
type PageRequest struct {
	orderBy OrderBy
	limit   int
	cursor  *Cursor
}

func newPageRequest(orderBy OrderBy, limit int, cursor *Cursor) PageRequest {
	return PageRequest{
		orderBy: orderBy,
		limit:   limit,
		cursor:  cursor,
	}
}

// After returns the request for the batch following cursor.
func (r PageRequest) After(cursor Cursor) PageRequest {
	r.cursor = &cursor
	return r
}

// GetOrder returns the order key of the request.
func (r PageRequest) GetOrder() OrderBy {
	return r.orderBy
}

// GetLimit returns the batch size.
func (r PageRequest) GetLimit() int {
	return r.limit
}

// GetCursor returns the boundary of the request. The first batch of an
// iteration that was not resumed has none.
func (r PageRequest) GetCursor() (Cursor, bool) {
	if r.cursor == nil {
		return Cursor{}, false
	}

	return *r.cursor, true
}

// Apply renders the request on top of a gorm query: reorder by the key,
// filter past the cursor, limit to the batch size and skip result caches.
func (r PageRequest) Apply(db *gorm.DB) *gorm.DB {
	db = disableResultCache(db)
	db = r.orderBy.Apply(db)
	if r.cursor != nil {
		db = r.cursor.Apply(db)
	}

	return db.Limit(r.limit)
}
