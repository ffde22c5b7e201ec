package repository

import (
	"context"
	"errors"

	"redesocial/internal/models"

	"gorm.io/gorm"
)

// PostRepository manages canonical post rows. Counter columns on posts are
// off limits here; they belong to CounterRepository.
type PostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create persists a new post.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// GetByID fetches a post regardless of its deletion state. Callers decide
// how a soft-deleted post is treated for their operation.
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", id)
		}
		return nil, err
	}
	return &post, nil
}

// GetByUserID returns a user's visible posts, newest first.
func (r *PostRepository) GetByUserID(ctx context.Context, userID string, page, size int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND deleted = ?", userID, false).
		Order("created_at DESC").
		Offset(page * size).
		Limit(size).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// MarkDeleted sets the soft-delete flag. Returns true when the flag flipped
// from visible to deleted by this call.
func (r *PostRepository) MarkDeleted(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND deleted = ?", id, false).
		Update("deleted", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
