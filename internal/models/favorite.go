package models

import "time"

// Favorite represents a user's bookmark of a post.
// The combination of UserID and PostID must be unique; the database
// constraint is the source of truth for duplicate rejection.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Post Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
}
