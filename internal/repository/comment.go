package repository

import (
	"context"

	"redesocial/internal/models"

	"gorm.io/gorm"
)

// CommentRepository manages comment rows.
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create persists a new comment.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListByPost returns a post's comments, newest first. Comments survive the
// parent post's soft deletion, so no deleted filter is applied here.
func (r *CommentRepository) ListByPost(ctx context.Context, postID string, page, size int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Offset(page * size).
		Limit(size).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
