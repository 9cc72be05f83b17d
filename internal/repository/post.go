package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// FeedQuery holds the normalized parameters of a feed listing read.
type FeedQuery struct {
	Search   string
	Offset   int
	Limit    int
	ViewerID uint
}

// PostRepository defines the interface for post data operations,
// including feed assembly and the like/favorite edges.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error

	ListFeed(ctx context.Context, q FeedQuery) ([]*models.FeedEntry, error)
	GetFeedEntry(ctx context.Context, id, viewerID uint) (*models.FeedEntry, error)
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int, viewerID uint) ([]*models.FeedEntry, error)

	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
	Favorite(ctx context.Context, userID, postID uint) error
	Unfavorite(ctx context.Context, userID, postID uint) error
	ListFavorites(ctx context.Context, userID uint, limit, offset int) ([]*models.FeedEntry, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("User").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// Delete soft deletes the post. The store cascades comment cleanup;
// the cache layer is not involved here.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Post{}, id).Error
}

// applyFeedDetails adds subqueries computing the counts and viewer
// flags for each post in a single SELECT, at assembly time.
func (r *postRepository) applyFeedDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count"

	if viewerID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as is_liked"+
			", EXISTS(SELECT 1 FROM favorites WHERE favorites.post_id = posts.id AND favorites.user_id = ?) as is_favorited",
			viewerID, viewerID)
	}

	return db.Select(selectQuery + ", false as is_liked, false as is_favorited")
}

// ListFeed assembles the public feed: published posts only, optional
// case-insensitive search over title and content, newest first with
// identity ascending as the deterministic tie-break.
func (r *postRepository) ListFeed(ctx context.Context, q FeedQuery) ([]*models.FeedEntry, error) {
	base := r.applyFeedDetails(r.db.WithContext(ctx), q.ViewerID).
		Preload("User").
		Where("status = ?", models.PostStatusPublished)

	if q.Search != "" {
		like := "%" + q.Search + "%"
		base = base.Where("title ILIKE ? OR content ILIKE ?", like, like)
	}

	var posts []*models.Post
	err := base.
		Order("created_at DESC, id ASC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return projectFeed(posts), nil
}

// GetFeedEntry assembles a single post's feed entry with its counts and
// the viewer's flags.
func (r *postRepository) GetFeedEntry(ctx context.Context, id, viewerID uint) (*models.FeedEntry, error) {
	var post models.Post
	err := r.applyFeedDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return models.NewFeedEntry(&post), nil
}

// ListByAuthor returns an author's posts newest first. Unpublished
// posts are included only when the viewer is the author.
func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int, viewerID uint) ([]*models.FeedEntry, error) {
	base := r.applyFeedDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where("user_id = ?", authorID)

	if viewerID != authorID {
		base = base.Where("status = ?", models.PostStatusPublished)
	}

	var posts []*models.Post
	err := base.
		Order("created_at DESC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return projectFeed(posts), nil
}

func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	err := r.db.WithContext(ctx).Create(&models.Like{UserID: userID, PostID: postID}).Error
	if models.IsUniqueViolation(err) {
		return models.NewConflictError("Already liked")
	}
	return err
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Like", postID)
	}
	return nil
}

func (r *postRepository) Favorite(ctx context.Context, userID, postID uint) error {
	err := r.db.WithContext(ctx).Create(&models.Favorite{UserID: userID, PostID: postID}).Error
	if models.IsUniqueViolation(err) {
		return models.NewConflictError("Already favorited")
	}
	return err
}

func (r *postRepository) Unfavorite(ctx context.Context, userID, postID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Favorite", postID)
	}
	return nil
}

// ListFavorites returns the feed entries for the posts the user has
// favorited, most recently favorited first.
func (r *postRepository) ListFavorites(ctx context.Context, userID uint, limit, offset int) ([]*models.FeedEntry, error) {
	var posts []*models.Post
	err := r.applyFeedDetails(r.db.WithContext(ctx), userID).
		Preload("User").
		Joins("JOIN favorites ON favorites.post_id = posts.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return projectFeed(posts), nil
}

func projectFeed(posts []*models.Post) []*models.FeedEntry {
	entries := make([]*models.FeedEntry, 0, len(posts))
	for _, p := range posts {
		entries = append(entries, models.NewFeedEntry(p))
	}
	return entries
}
