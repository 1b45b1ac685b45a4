// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Follow is a directed edge from a follower to an author. The composite
// unique index guarantees at most one row per (follower, author) pair.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follow_edge" json:"follower_id"`
	AuthorID   uint      `gorm:"not null;uniqueIndex:idx_follow_edge" json:"author_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	Follower User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Author   User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
