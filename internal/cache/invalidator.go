package cache

import (
	"context"

	"inkwell/internal/observability"
)

// FeedInvalidator purges the feed cache after mutations. Invalidation
// is coarse: a like on one post can change its rendered count on every
// cached page that includes it, so the whole listing namespace goes,
// not individual pages. Callers must invoke it only after the database
// has confirmed the mutation.
type FeedInvalidator struct {
	store Store
}

// NewFeedInvalidator returns a FeedInvalidator over the given store.
func NewFeedInvalidator(store Store) *FeedInvalidator {
	return &FeedInvalidator{store: store}
}

// PurgeListings removes every cached feed payload, listings and detail
// entries alike. Failures are absorbed by the store; a stale cache is
// preferred over a failed user-facing write.
func (i *FeedInvalidator) PurgeListings(ctx context.Context) {
	i.store.DeleteByPrefix(ctx, FeedNamespace)
	observability.CachePurges.WithLabelValues(FeedNamespace).Inc()
}
