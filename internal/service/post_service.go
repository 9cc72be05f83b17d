package service

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"gorm.io/gorm"
)

const (
	maxTitleLen   = 255
	maxContentLen = 50000
)

// PostService owns post mutations and the like/favorite edges. Every
// successful mutation purges the feed cache namespace, strictly after
// the database confirms the write, so a reader observing the purge and
// re-reading never repopulates the cache with pre-mutation data.
type PostService struct {
	postRepo    repository.PostRepository
	invalidator *cache.FeedInvalidator
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

// CreatePostInput carries the fields for creating a post.
type CreatePostInput struct {
	UserID  uint
	Title   string
	Content string
	Status  string
}

// UpdatePostInput carries the fields for updating a post. Empty fields
// are left unchanged.
type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Title   string
	Content string
	Status  string
}

// NewPostService returns a PostService. isAdmin may be nil, in which
// case only owners can delete posts.
func NewPostService(
	postRepo repository.PostRepository,
	invalidator *cache.FeedInvalidator,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		invalidator: invalidator,
		isAdmin:     isAdmin,
	}
}

// CreatePost validates and stores a new post, then purges the feed
// cache and returns the freshly assembled entry.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.FeedEntry, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 255 characters)")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	status := in.Status
	if status == "" {
		status = models.PostStatusPublished
	}
	if !models.IsValidPostStatus(status) {
		return nil, models.NewValidationError("Invalid status")
	}

	post := &models.Post{
		Title:   in.Title,
		Content: in.Content,
		Status:  status,
		UserID:  in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	s.invalidator.PurgeListings(ctx)

	return s.postRepo.GetFeedEntry(ctx, post.ID, in.UserID)
}

// UpdatePost applies the provided fields to the caller's own post.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.FeedEntry, error) {
	post, err := s.getPost(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own posts")
	}

	if in.Title != "" {
		if len(in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 255 characters)")
		}
		post.Title = in.Title
	}
	if in.Content != "" {
		if len(in.Content) > maxContentLen {
			return nil, models.NewValidationError("Content too long (max 50000 characters)")
		}
		post.Content = in.Content
	}
	if in.Status != "" {
		if !models.IsValidPostStatus(in.Status) {
			return nil, models.NewValidationError("Invalid status")
		}
		post.Status = in.Status
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	s.invalidator.PurgeListings(ctx)

	return s.postRepo.GetFeedEntry(ctx, post.ID, in.UserID)
}

// DeletePost removes the caller's own post, or any post when the caller
// is an admin. Comment cleanup cascades in the store.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}

	if post.UserID != userID {
		if s.isAdmin == nil {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}
	s.invalidator.PurgeListings(ctx)
	return nil
}

// LikePost records the caller's like. A duplicate like is a conflict,
// enforced by the database constraint.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) (*models.FeedEntry, error) {
	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}
	if err := s.postRepo.Like(ctx, userID, postID); err != nil {
		return nil, err
	}
	s.invalidator.PurgeListings(ctx)
	return s.postRepo.GetFeedEntry(ctx, postID, userID)
}

// UnlikePost removes the caller's like; missing likes are not found.
func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) (*models.FeedEntry, error) {
	if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
		return nil, err
	}
	s.invalidator.PurgeListings(ctx)
	return s.postRepo.GetFeedEntry(ctx, postID, userID)
}

// FavoritePost records the caller's favorite. A duplicate favorite is a
// conflict, enforced by the database constraint.
func (s *PostService) FavoritePost(ctx context.Context, userID, postID uint) (*models.FeedEntry, error) {
	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}
	if err := s.postRepo.Favorite(ctx, userID, postID); err != nil {
		return nil, err
	}
	s.invalidator.PurgeListings(ctx)
	return s.postRepo.GetFeedEntry(ctx, postID, userID)
}

// UnfavoritePost removes the caller's favorite; missing favorites are
// not found.
func (s *PostService) UnfavoritePost(ctx context.Context, userID, postID uint) (*models.FeedEntry, error) {
	if err := s.postRepo.Unfavorite(ctx, userID, postID); err != nil {
		return nil, err
	}
	s.invalidator.PurgeListings(ctx)
	return s.postRepo.GetFeedEntry(ctx, postID, userID)
}

// ListFavorites returns the caller's favorited posts.
func (s *PostService) ListFavorites(ctx context.Context, userID uint, limit, offset int) ([]*models.FeedEntry, error) {
	return s.postRepo.ListFavorites(ctx, userID, limit, offset)
}

// ListByAuthor returns an author's posts; drafts only for the author.
func (s *PostService) ListByAuthor(ctx context.Context, authorID uint, limit, offset int, viewerID uint) ([]*models.FeedEntry, error) {
	return s.postRepo.ListByAuthor(ctx, authorID, limit, offset, viewerID)
}

func (s *PostService) getPost(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", postID)
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}
