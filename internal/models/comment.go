package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post. Comments may reply to another
// comment on the same post via ParentCommentID (single-level threading).
type Comment struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Content         string         `gorm:"not null" json:"content"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	PostID          uint           `gorm:"not null;index" json:"post_id"`
	ParentCommentID *uint          `gorm:"index" json:"parent_comment_id,omitempty"`
	User            User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
