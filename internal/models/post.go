package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post holds both the canonical body of a post and its denormalized counters.
// The counters and the Deleted flag are written exclusively through the
// counter repository's bounded operations; the rest of the row belongs to the
// content repository. Deletion is a soft flag so audit trails stay readable.
type Post struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID        string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	MediaRefs     []string  `gorm:"serializer:json" json:"media_refs"`
	Hashtags      []string  `gorm:"serializer:json" json:"hashtags"`
	LikesCount    int       `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int       `gorm:"not null;default:0" json:"comments_count"`
	SharesCount   int       `gorm:"not null;default:0" json:"shares_count"`
	Deleted       bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BeforeCreate assigns an opaque unique id when none was provided.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "posts"
}

// Comment represents a comment on a post. Creation requires the parent post
// to exist and not be soft-deleted; existing comments remain listable even
// after the post is deleted.
type Comment struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	PostID     string    `gorm:"type:varchar(36);not null;index" json:"post_id"`
	UserID     string    `gorm:"type:varchar(36);not null" json:"user_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	LikesCount int       `gorm:"not null;default:0" json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BeforeCreate assigns an opaque unique id when none was provided.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for GORM.
func (Comment) TableName() string {
	return "comments"
}
