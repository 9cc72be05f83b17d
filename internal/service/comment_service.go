package service

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"gorm.io/gorm"
)

const maxCommentLen = 10000

// CommentService owns comment reads and mutations. Comment mutations
// change the counts rendered in cached feed entries, so they purge the
// feed namespace after the database write, like post mutations do.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	invalidator *cache.FeedInvalidator
}

// CreateCommentInput carries the fields for creating a comment.
type CreateCommentInput struct {
	UserID          uint
	PostID          uint
	Content         string
	ParentCommentID *uint
}

// NewCommentService returns a CommentService.
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	invalidator *cache.FeedInvalidator,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		invalidator: invalidator,
	}
}

// CreateComment validates and stores a comment on an existing post.
// A parent comment, when given, must belong to the same post.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, err
	}

	if in.ParentCommentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentCommentID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", *in.ParentCommentID)
		}
		if err != nil {
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		Content:         in.Content,
		UserID:          in.UserID,
		PostID:          in.PostID,
		ParentCommentID: in.ParentCommentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	s.invalidator.PurgeListings(ctx)

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListComments returns a post's comments newest first.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

// DeleteComment removes the caller's own comment.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Comment", commentID)
	}
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return models.NewUnauthorizedError("You can only delete your own comments")
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}
	s.invalidator.PurgeListings(ctx)
	return nil
}
