package models

import "time"

// UnknownAuthor is the display name used when a post's owning user row
// cannot be resolved. Referential integrity should prevent this, but the
// store does not guarantee enforcement at this layer.
const UnknownAuthor = "Unknown"

// FeedEntry is the read-only projection of a post served to readers.
// It combines the post with its author's display name, the like and
// comment counts at assembly time, and the viewer's own flags when a
// viewer identity is known. A FeedEntry is never persisted; it lives
// only as a cache value and is rebuilt from scratch on every miss.
type FeedEntry struct {
	ID             uint      `json:"id"`
	UserID         uint      `json:"user_id"`
	AuthorUsername string    `json:"author_username"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Status         string    `json:"status"`
	LikesCount     int       `json:"likes_count"`
	CommentsCount  int       `json:"comments_count"`
	IsLiked        bool      `json:"is_liked"`
	IsFavorited    bool      `json:"is_favorited"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewFeedEntry projects a post (with its computed counts and flags)
// into a FeedEntry, substituting the author sentinel when the owning
// user record was not found.
func NewFeedEntry(post *Post) *FeedEntry {
	author := post.User.Username
	if author == "" {
		author = UnknownAuthor
	}
	return &FeedEntry{
		ID:             post.ID,
		UserID:         post.UserID,
		AuthorUsername: author,
		Title:          post.Title,
		Content:        post.Content,
		Status:         post.Status,
		LikesCount:     post.LikesCount,
		CommentsCount:  post.CommentsCount,
		IsLiked:        post.IsLiked,
		IsFavorited:    post.IsFavorited,
		CreatedAt:      post.CreatedAt,
		UpdatedAt:      post.UpdatedAt,
	}
}
