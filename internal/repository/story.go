package repository

import (
	"context"
	"errors"
	"time"

	"redesocial/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoryRepository manages story rows and the story view ledger.
type StoryRepository struct {
	db *gorm.DB
}

// NewStoryRepository creates a new StoryRepository.
func NewStoryRepository(db *gorm.DB) *StoryRepository {
	return &StoryRepository{db: db}
}

// Create persists a new story.
func (r *StoryRepository) Create(ctx context.Context, story *models.Story) error {
	return r.db.WithContext(ctx).Create(story).Error
}

// GetByID fetches a story regardless of expiry. Callers apply expiry rules
// per operation; view recording deliberately ignores them.
func (r *StoryRepository) GetByID(ctx context.Context, id string) (*models.Story, error) {
	var story models.Story
	err := r.db.WithContext(ctx).First(&story, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("story", id)
		}
		return nil, err
	}
	return &story, nil
}

// ListActiveByUser returns a user's unexpired stories, oldest first.
func (r *StoryRepository) ListActiveByUser(ctx context.Context, userID string, now time.Time) ([]models.Story, error) {
	var stories []models.Story
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, now).
		Order("created_at ASC").
		Find(&stories).Error
	if err != nil {
		return nil, err
	}
	return stories, nil
}

// CountExpired counts stories whose expiry has passed. The reaper uses this
// for advisory reporting only; no rows are removed.
func (r *StoryRepository) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Story{}).
		Where("expires_at <= ?", now).
		Count(&count).Error
	return count, err
}

// CreateView records that viewerID saw storyID. Returns true only when the
// pair was newly recorded.
func (r *StoryRepository) CreateView(ctx context.Context, storyID, viewerID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.StoryView{StoryID: storyID, ViewerID: viewerID})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ListRecentViews returns views of a story whose viewing happened after the
// cutoff, most recent first. The cutoff is anchored on the view time, not
// the story's lifetime.
func (r *StoryRepository) ListRecentViews(ctx context.Context, storyID string, cutoff time.Time) ([]models.StoryView, error) {
	var views []models.StoryView
	err := r.db.WithContext(ctx).
		Where("story_id = ? AND viewed_at > ?", storyID, cutoff).
		Order("viewed_at DESC").
		Find(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}
