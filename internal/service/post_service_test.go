package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint) (*models.Post, error)
	updateFn        func(context.Context, *models.Post) error
	deleteFn        func(context.Context, uint) error
	listFeedFn      func(context.Context, repository.FeedQuery) ([]*models.FeedEntry, error)
	getFeedEntryFn  func(context.Context, uint, uint) (*models.FeedEntry, error)
	listByAuthorFn  func(context.Context, uint, int, int, uint) ([]*models.FeedEntry, error)
	likeFn          func(context.Context, uint, uint) error
	unlikeFn        func(context.Context, uint, uint) error
	favoriteFn      func(context.Context, uint, uint) error
	unfavoriteFn    func(context.Context, uint, uint) error
	listFavoritesFn func(context.Context, uint, int, int) ([]*models.FeedEntry, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) ListFeed(ctx context.Context, q repository.FeedQuery) ([]*models.FeedEntry, error) {
	return s.listFeedFn(ctx, q)
}
func (s *postRepoStub) GetFeedEntry(ctx context.Context, id, viewerID uint) (*models.FeedEntry, error) {
	return s.getFeedEntryFn(ctx, id, viewerID)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, limit, offset int, viewerID uint) ([]*models.FeedEntry, error) {
	return s.listByAuthorFn(ctx, authorID, limit, offset, viewerID)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) error {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) error {
	return s.unlikeFn(ctx, userID, postID)
}
func (s *postRepoStub) Favorite(ctx context.Context, userID, postID uint) error {
	return s.favoriteFn(ctx, userID, postID)
}
func (s *postRepoStub) Unfavorite(ctx context.Context, userID, postID uint) error {
	return s.unfavoriteFn(ctx, userID, postID)
}
func (s *postRepoStub) ListFavorites(ctx context.Context, userID uint, limit, offset int) ([]*models.FeedEntry, error) {
	return s.listFavoritesFn(ctx, userID, limit, offset)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		updateFn:  func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
		listFeedFn: func(_ context.Context, _ repository.FeedQuery) ([]*models.FeedEntry, error) {
			return nil, nil
		},
		getFeedEntryFn: func(_ context.Context, id, _ uint) (*models.FeedEntry, error) {
			return &models.FeedEntry{ID: id}, nil
		},
		listByAuthorFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.FeedEntry, error) {
			return nil, nil
		},
		likeFn:       func(_ context.Context, _, _ uint) error { return nil },
		unlikeFn:     func(_ context.Context, _, _ uint) error { return nil },
		favoriteFn:   func(_ context.Context, _, _ uint) error { return nil },
		unfavoriteFn: func(_ context.Context, _, _ uint) error { return nil },
		listFavoritesFn: func(_ context.Context, _ uint, _, _ int) ([]*models.FeedEntry, error) {
			return nil, nil
		},
	}
}

// setupTestStore returns a real cache store over an in-process Redis so
// purge behavior can be observed end to end.
func setupTestStore(t *testing.T) (cache.Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return cache.NewRedisStore(rdb), mr
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

// assertNotFoundError asserts that err is an AppError with code NOT_FOUND.
func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	store, _ := setupTestStore(t)
	svc := NewPostService(noopPostRepo(), cache.NewFeedInvalidator(store), nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreatePostInput
	}{
		{"missing title", CreatePostInput{UserID: 1, Content: "body"}},
		{"missing content", CreatePostInput{UserID: 1, Title: "title"}},
		{"title too long", CreatePostInput{UserID: 1, Title: strings.Repeat("a", 256), Content: "body"}},
		{"content too long", CreatePostInput{UserID: 1, Title: "title", Content: strings.Repeat("a", 50001)}},
		{"bad status", CreatePostInput{UserID: 1, Title: "title", Content: "body", Status: "archived"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(ctx, tt.input)
			assertValidationError(t, err)
		})
	}
}

func TestPostService_CreatePost_DefaultsToPublished(t *testing.T) {
	store, _ := setupTestStore(t)
	repo := noopPostRepo()

	var created *models.Post
	repo.createFn = func(_ context.Context, post *models.Post) error {
		created = post
		post.ID = 1
		return nil
	}

	svc := NewPostService(repo, cache.NewFeedInvalidator(store), nil)
	_, err := svc.CreatePost(context.Background(), CreatePostInput{UserID: 1, Title: "t", Content: "c"})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, models.PostStatusPublished, created.Status)
}

func TestPostService_CreatePost_PurgesFeedCache(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	store.SetJSON(ctx, cache.FeedListKey("", 0, 10, 0), []string{"stale"}, time.Minute)

	svc := NewPostService(noopPostRepo(), cache.NewFeedInvalidator(store), nil)
	_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, Title: "t", Content: "c"})
	require.NoError(t, err)

	assert.False(t, mr.Exists(cache.FeedListKey("", 0, 10, 0)))
}

func TestPostService_CreatePost_NoPurgeOnStoreFailure(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	store.SetJSON(ctx, cache.FeedListKey("", 0, 10, 0), []string{"cached"}, time.Minute)

	repo := noopPostRepo()
	repo.createFn = func(_ context.Context, _ *models.Post) error { return assert.AnError }

	svc := NewPostService(repo, cache.NewFeedInvalidator(store), nil)
	_, err := svc.CreatePost(ctx, CreatePostInput{UserID: 1, Title: "t", Content: "c"})
	assert.Error(t, err)

	// The write never committed, so the cache stays intact.
	assert.True(t, mr.Exists(cache.FeedListKey("", 0, 10, 0)))
}

func TestPostService_UpdatePost_OwnerOnly(t *testing.T) {
	store, _ := setupTestStore(t)
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 10}, nil
	}

	svc := NewPostService(repo, cache.NewFeedInvalidator(store), nil)
	_, err := svc.UpdatePost(context.Background(), UpdatePostInput{UserID: 7, PostID: 1, Title: "new"})
	assertUnauthorizedError(t, err)
}

func TestPostService_DeletePost_AdminOverride(t *testing.T) {
	store, _ := setupTestStore(t)
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 10}, nil
	}

	isAdmin := func(_ context.Context, userID uint) (bool, error) { return userID == 99, nil }
	svc := NewPostService(repo, cache.NewFeedInvalidator(store), isAdmin)

	err := svc.DeletePost(context.Background(), 99, 1)
	assert.NoError(t, err)

	err = svc.DeletePost(context.Background(), 7, 1)
	assertUnauthorizedError(t, err)
}

func TestPostService_DeletePost_MissingPost(t *testing.T) {
	store, _ := setupTestStore(t)
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewPostService(repo, cache.NewFeedInvalidator(store), nil)
	err := svc.DeletePost(context.Background(), 1, 42)
	assertNotFoundError(t, err)
}

func TestPostService_LikePost_DuplicateIsConflict(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	store.SetJSON(ctx, cache.FeedListKey("", 0, 10, 0), []string{"cached"}, time.Minute)

	repo := noopPostRepo()
	repo.likeFn = func(_ context.Context, _, _ uint) error {
		return models.NewConflictError("Already liked")
	}

	svc := NewPostService(repo, cache.NewFeedInvalidator(store), nil)
	_, err := svc.LikePost(ctx, 1, 2)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)

	// A rejected duplicate changes nothing, so nothing is purged.
	assert.True(t, mr.Exists(cache.FeedListKey("", 0, 10, 0)))
}

func TestPostService_LikePost_PurgesAfterWrite(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	store.SetJSON(ctx, cache.FeedListKey("", 0, 10, 0), []string{"stale"}, time.Minute)
	store.SetJSON(ctx, cache.FeedDetailKey(2, 0), "stale", time.Minute)

	svc := NewPostService(noopPostRepo(), cache.NewFeedInvalidator(store), nil)
	entry, err := svc.LikePost(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(2), entry.ID)

	assert.False(t, mr.Exists(cache.FeedListKey("", 0, 10, 0)))
	assert.False(t, mr.Exists(cache.FeedDetailKey(2, 0)))
}

func TestPostService_LikePost_MissingPost(t *testing.T) {
	store, _ := setupTestStore(t)
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewPostService(repo, cache.NewFeedInvalidator(store), nil)
	_, err := svc.LikePost(context.Background(), 1, 42)
	assertNotFoundError(t, err)
}

func TestPostService_UnlikePost_MissingLike(t *testing.T) {
	store, _ := setupTestStore(t)
	repo := noopPostRepo()
	repo.unlikeFn = func(_ context.Context, _, _ uint) error {
		return models.NewNotFoundError("Like", 2)
	}

	svc := NewPostService(repo, cache.NewFeedInvalidator(store), nil)
	_, err := svc.UnlikePost(context.Background(), 1, 2)
	assertNotFoundError(t, err)
}

func TestPostService_FavoritePost_PurgesAfterWrite(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	store.SetJSON(ctx, cache.FeedListKey("", 0, 10, 7), []string{"stale"}, time.Minute)

	svc := NewPostService(noopPostRepo(), cache.NewFeedInvalidator(store), nil)
	_, err := svc.FavoritePost(ctx, 7, 2)
	require.NoError(t, err)

	assert.False(t, mr.Exists(cache.FeedListKey("", 0, 10, 7)))
}
