// Package repository contains data access layers for the interaction engine.
// Each store concern gets its own repository: content rows, ledger facts, and
// denormalized counters are never mixed in one method.
package repository

import (
	"context"

	"redesocial/internal/models"

	"gorm.io/gorm"
)

// CounterRepository is the only write path for denormalized counters. Every
// adjustment is a single atomic SQL statement: increments add one, decrements
// clamp at zero inside the statement itself, so no interleaving of concurrent
// requests can drive a counter negative or lose an update.
type CounterRepository struct {
	db *gorm.DB
}

// NewCounterRepository creates a new CounterRepository.
func NewCounterRepository(db *gorm.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

func (r *CounterRepository) inc(ctx context.Context, model interface{}, id, column string) error {
	return r.db.WithContext(ctx).Model(model).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1")).Error
}

// Clamped decrement. The CASE runs inside the UPDATE so the floor holds under
// concurrency without a read-modify-write cycle.
func (r *CounterRepository) dec(ctx context.Context, model interface{}, id, column string) error {
	return r.db.WithContext(ctx).Model(model).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr("CASE WHEN "+column+" > 0 THEN "+column+" - 1 ELSE 0 END")).Error
}

// IncPostLikes adds one to a post's likes counter.
func (r *CounterRepository) IncPostLikes(ctx context.Context, postID string) error {
	return r.inc(ctx, &models.Post{}, postID, "likes_count")
}

// DecPostLikes subtracts one from a post's likes counter, clamped at zero.
func (r *CounterRepository) DecPostLikes(ctx context.Context, postID string) error {
	return r.dec(ctx, &models.Post{}, postID, "likes_count")
}

// IncPostComments adds one to a post's comments counter.
func (r *CounterRepository) IncPostComments(ctx context.Context, postID string) error {
	return r.inc(ctx, &models.Post{}, postID, "comments_count")
}

// IncPostShares adds one to a post's shares counter.
func (r *CounterRepository) IncPostShares(ctx context.Context, postID string) error {
	return r.inc(ctx, &models.Post{}, postID, "shares_count")
}

// IncUserFollowers adds one to a user's followers counter.
func (r *CounterRepository) IncUserFollowers(ctx context.Context, userID string) error {
	return r.inc(ctx, &models.User{}, userID, "followers_count")
}

// DecUserFollowers subtracts one from a user's followers counter, clamped at zero.
func (r *CounterRepository) DecUserFollowers(ctx context.Context, userID string) error {
	return r.dec(ctx, &models.User{}, userID, "followers_count")
}

// IncUserFollowing adds one to a user's following counter.
func (r *CounterRepository) IncUserFollowing(ctx context.Context, userID string) error {
	return r.inc(ctx, &models.User{}, userID, "following_count")
}

// DecUserFollowing subtracts one from a user's following counter, clamped at zero.
func (r *CounterRepository) DecUserFollowing(ctx context.Context, userID string) error {
	return r.dec(ctx, &models.User{}, userID, "following_count")
}

// IncStoryViews adds one to a story's views counter.
func (r *CounterRepository) IncStoryViews(ctx context.Context, storyID string) error {
	return r.inc(ctx, &models.Story{}, storyID, "views_count")
}
