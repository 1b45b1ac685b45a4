// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a text post in the Yatube application. The image is
// optional and stored as a path relative to the media root.
type Post struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Text      string `gorm:"type:text;not null" json:"text"`
	AuthorID  uint   `gorm:"not null;index" json:"author_id"`
	Author    User   `gorm:"foreignKey:AuthorID" json:"author"`
	GroupID   *uint  `gorm:"index" json:"group_id,omitempty"`
	Group     *Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	ImagePath string `json:"image_path,omitempty"`
	ThumbPath string `json:"thumb_path,omitempty"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int            `gorm:"->" json:"comments_count"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
