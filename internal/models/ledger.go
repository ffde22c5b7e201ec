package models

import "time"

// The ledger models below record existence facts for pair relations. Each
// carries a composite unique index; inserting with ON CONFLICT DO NOTHING and
// inspecting RowsAffected is the single arbiter of "did this happen for the
// first time". Rows are never mutated after creation.

// Like records that a user liked a post. The existence of this row is exactly
// equivalent to that user's like being counted in the post's likes counter.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_likes_post_user" json:"post_id"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_likes_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Like) TableName() string {
	return "likes"
}

// Follow records that FollowerID follows FollowingID. Self-follows are
// rejected before any row is written.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_follows_pair" json:"follower_id"`
	FollowingID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_follows_pair;index" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Follow) TableName() string {
	return "follows"
}

// Share is the audit trail linking a shared post copy back to its origin.
type Share struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OriginalPostID string    `gorm:"type:varchar(36);not null;index" json:"original_post_id"`
	SharedPostID   string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"shared_post_id"`
	UserID         string    `gorm:"type:varchar(36);not null" json:"user_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Share) TableName() string {
	return "shares"
}

// StoryView records that a viewer saw a story. Views are never deleted; they
// age out of viewer listings once ViewedAt is more than 24h in the past,
// independently of the story's own expiry.
type StoryView struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	StoryID  string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_story_views_pair" json:"story_id"`
	ViewerID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_story_views_pair" json:"viewer_id"`
	ViewedAt time.Time `gorm:"autoCreateTime" json:"viewed_at"`
}

// TableName specifies the table name for GORM.
func (StoryView) TableName() string {
	return "story_views"
}
