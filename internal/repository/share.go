package repository

import (
	"context"

	"redesocial/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShareRepository manages the share audit trail.
type ShareRepository struct {
	db *gorm.DB
}

// NewShareRepository creates a new ShareRepository.
func NewShareRepository(db *gorm.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

// Create records that sharedPostID was derived from originalPostID by
// userID. Returns true when the fact was newly recorded.
func (r *ShareRepository) Create(ctx context.Context, originalPostID, sharedPostID, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Share{
			OriginalPostID: originalPostID,
			SharedPostID:   sharedPostID,
			UserID:         userID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ListByOriginal returns the share facts pointing at a post.
func (r *ShareRepository) ListByOriginal(ctx context.Context, originalPostID string) ([]models.Share, error) {
	var shares []models.Share
	err := r.db.WithContext(ctx).
		Where("original_post_id = ?", originalPostID).
		Order("created_at DESC").
		Find(&shares).Error
	if err != nil {
		return nil, err
	}
	return shares, nil
}
