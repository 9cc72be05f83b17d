// Package service holds the application's business logic between the
// HTTP handlers and the repositories.
package service

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"

	"gorm.io/gorm"
)

// FeedService is the read path for the post feed: try the cache, fall
// back to assembly from the database on a miss, then populate the cache
// with a TTL. Cache failures never fail a read; database failures
// always do.
type FeedService struct {
	postRepo repository.PostRepository
	store    cache.Store
}

// NewFeedService returns a FeedService over the given repository and
// cache store.
func NewFeedService(postRepo repository.PostRepository, store cache.Store) *FeedService {
	return &FeedService{postRepo: postRepo, store: store}
}

// ListFeed serves a feed listing. On a hit the cached payload is
// returned unchanged; on a miss the feed is assembled from the database
// and cached best-effort for cache.ListTTL.
func (s *FeedService) ListFeed(ctx context.Context, q repository.FeedQuery) ([]*models.FeedEntry, error) {
	key := cache.FeedListKey(q.Search, q.Offset, q.Limit, q.ViewerID)

	var entries []*models.FeedEntry
	if s.store.GetJSON(ctx, key, &entries) {
		observability.CacheHits.WithLabelValues(cache.FeedNamespace).Inc()
		return entries, nil
	}
	observability.CacheMisses.WithLabelValues(cache.FeedNamespace).Inc()

	entries, err := s.postRepo.ListFeed(ctx, q)
	if err != nil {
		// A store failure is a hard error, never an empty feed.
		return nil, err
	}
	if entries == nil {
		entries = []*models.FeedEntry{}
	}

	s.store.SetJSON(ctx, key, entries, cache.ListTTL)
	return entries, nil
}

// GetPost serves a single post's feed entry through the same
// cache-aside path as listings. Detail keys live in the feed namespace
// and are purged together with it.
func (s *FeedService) GetPost(ctx context.Context, postID, viewerID uint) (*models.FeedEntry, error) {
	key := cache.FeedDetailKey(postID, viewerID)

	var entry models.FeedEntry
	if s.store.GetJSON(ctx, key, &entry) {
		observability.CacheHits.WithLabelValues(cache.FeedNamespace).Inc()
		return &entry, nil
	}
	observability.CacheMisses.WithLabelValues(cache.FeedNamespace).Inc()

	assembled, err := s.postRepo.GetFeedEntry(ctx, postID, viewerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", postID)
	}
	if err != nil {
		return nil, err
	}

	s.store.SetJSON(ctx, key, assembled, cache.ListTTL)
	return assembled, nil
}
