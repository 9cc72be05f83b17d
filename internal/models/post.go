package models

import (
	"time"

	"gorm.io/gorm"
)

// Post lifecycle statuses. Only published posts are eligible for the public feed.
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// Post is an article written by a user.
type Post struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	Content   string         `gorm:"not null" json:"content"`
	Status    string         `gorm:"not null;default:published;index" json:"status"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->;-:migration" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->;-:migration" json:"comments_count"`
	// IsLiked indicates whether the requesting user liked this post (computed)
	IsLiked bool `gorm:"->;-:migration" json:"is_liked"`
	// IsFavorited indicates whether the requesting user favorited this post (computed)
	IsFavorited bool `gorm:"->;-:migration" json:"is_favorited"`
}

// IsValidPostStatus reports whether s is a recognized post status.
func IsValidPostStatus(s string) bool {
	return s == PostStatusDraft || s == PostStatusPublished
}
