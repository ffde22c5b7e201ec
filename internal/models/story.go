package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoryTTL is how long a story stays visible after creation. The same
// duration bounds the recency window for viewer listings, but the two windows
// are anchored differently: a story expires 24h after creation, a view goes
// stale 24h after the viewing itself.
const StoryTTL = 24 * time.Hour

// Story is an ephemeral media post. Expiry is authoritative at read time via
// ExpiresAt comparison; rows are not physically deleted.
type Story struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	MediaRef   string    `gorm:"not null" json:"media_ref"`
	ViewsCount int       `gorm:"not null;default:0" json:"views_count"`
	ExpiresAt  time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate assigns an opaque unique id when none was provided.
func (s *Story) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for GORM.
func (Story) TableName() string {
	return "stories"
}
