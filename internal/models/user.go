// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered account. FollowersCount and FollowingCount are
// denormalized counters adjusted only through the counter repository; relation
// rows in the follows table remain the source of truth.
type User struct {
	ID                string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name              string    `gorm:"not null" json:"name"`
	Email             string    `gorm:"uniqueIndex;not null" json:"email"`
	Password          string    `gorm:"not null" json:"-"`
	Bio               string    `gorm:"type:text" json:"bio"`
	ProfilePictureURL string    `json:"profile_picture_url"`
	IsPrivate         bool      `gorm:"not null;default:false" json:"is_private"`
	FollowersCount    int       `gorm:"not null;default:0" json:"followers_count"`
	FollowingCount    int       `gorm:"not null;default:0" json:"following_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// BeforeCreate assigns an opaque unique id when none was provided.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}
