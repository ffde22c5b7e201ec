package repository

import (
	"context"

	"redesocial/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository manages rows in the follows ledger.
type FollowRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new FollowRepository.
func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Create inserts the (follower, following) fact. Returns true only when the
// row was actually inserted.
func (r *FollowRepository) Create(ctx context.Context, followerID, followingID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Follow{FollowerID: followerID, FollowingID: followingID})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Delete removes the follow fact. Returns true only when a row was removed.
func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Exists reports whether follower currently follows following.
func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListFollowers returns the users following userID, most recent follow
// first. Page is zero based; out-of-range pages produce an empty slice.
func (r *FollowRepository) ListFollowers(ctx context.Context, userID string, page, size int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at DESC").
		Offset(page * size).
		Limit(size).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListFollowing returns the users userID follows, most recent follow first.
func (r *FollowRepository) ListFollowing(ctx context.Context, userID string, page, size int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Offset(page * size).
		Limit(size).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
