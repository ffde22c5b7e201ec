package service

import (
	"context"
	"strings"
	"time"

	"redesocial/internal/events"
	"redesocial/internal/models"
	"redesocial/internal/repository"
)

// SharedContentPrefix is prepended to a post's content when it is shared.
const SharedContentPrefix = "Shared: "

// PostService handles the post lifecycle: creation, reads, sharing, and
// soft deletion.
type PostService struct {
	posts    *repository.PostRepository
	shares   *repository.ShareRepository
	counters *repository.CounterRepository
	sink     events.Sink
	timeout  time.Duration
}

// NewPostService creates a new PostService.
func NewPostService(
	posts *repository.PostRepository,
	shares *repository.ShareRepository,
	counters *repository.CounterRepository,
	sink events.Sink,
	timeout time.Duration,
) *PostService {
	return &PostService{posts: posts, shares: shares, counters: counters, sink: sink, timeout: timeout}
}

// Create publishes a new post. Hashtags are extracted from the content at
// write time and stored alongside it.
func (s *PostService) Create(ctx context.Context, userID, content string, mediaRefs []string) (*models.Post, error) {
	if strings.TrimSpace(content) == "" && len(mediaRefs) == 0 {
		return nil, models.NewValidationError("post must have content or media")
	}

	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()

	post := &models.Post{
		UserID:    userID,
		Content:   content,
		MediaRefs: mediaRefs,
		Hashtags:  models.ExtractHashtags(content),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, models.NewDependencyError("post write", err)
	}

	if err := s.sink.Emit(ctx, events.PostCreated(post.ID, userID, content, post.Hashtags)); err != nil {
		return nil, models.NewDependencyError("post event publish", err)
	}
	return post, nil
}

// Get returns a post by id. Soft-deleted posts read as missing.
func (s *PostService) Get(ctx context.Context, postID string) (*models.Post, error) {
	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Deleted {
		return nil, models.NewNotFoundError("post", postID)
	}
	return post, nil
}

// GetByUser returns a user's visible posts, newest first.
func (s *PostService) GetByUser(ctx context.Context, userID string, page, size int) ([]models.Post, error) {
	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()
	return s.posts.GetByUserID(ctx, userID, page, size)
}

// Delete soft-deletes a post owned by userID. Deleting is idempotent for the
// flag but not for the announcement: the deletion event is emitted on every
// call, including repeats, so downstream caches always converge.
func (s *PostService) Delete(ctx context.Context, postID, userID string) error {
	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewUnauthorizedError("only the author can delete this post")
	}

	flipped, err := s.posts.MarkDeleted(ctx, postID)
	if err != nil {
		return models.NewDependencyError("post delete", err)
	}

	// DeletePolicy re-announces on repeats too.
	if events.DeletePolicy.ShouldEmit(flipped) {
		if err := s.sink.Emit(ctx, events.PostDeleted(postID, userID)); err != nil {
			return models.NewDependencyError("delete event publish", err)
		}
	}
	return nil
}

// Share creates a new post derived from an existing one, records the share
// fact, bumps the original's shares counter, and announces the share. The
// derived post's content is the original's prefixed with SharedContentPrefix,
// and its hashtags are re-extracted from that derived content.
func (s *PostService) Share(ctx context.Context, originalPostID, userID string) (*models.Post, error) {
	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()

	original, err := s.posts.GetByID(ctx, originalPostID)
	if err != nil {
		return nil, err
	}
	if original.Deleted {
		return nil, models.NewNotFoundError("post", originalPostID)
	}

	content := SharedContentPrefix + original.Content
	shared := &models.Post{
		UserID:    userID,
		Content:   content,
		MediaRefs: original.MediaRefs,
		Hashtags:  models.ExtractHashtags(content),
	}
	if err := s.posts.Create(ctx, shared); err != nil {
		return nil, models.NewDependencyError("shared post write", err)
	}

	created, err := s.shares.Create(ctx, originalPostID, shared.ID, userID)
	if err != nil {
		return nil, models.NewDependencyError("share ledger write", err)
	}
	if !created {
		// The shared post id is fresh, so the fact cannot already exist.
		return shared, nil
	}

	if err := s.counters.IncPostShares(ctx, originalPostID); err != nil {
		return nil, models.NewDependencyError("shares counter increment", err)
	}

	if events.SharePolicy.ShouldEmit(created) {
		if err := s.sink.Emit(ctx, events.ShareCreated(originalPostID, shared.ID, userID, original.UserID)); err != nil {
			return nil, models.NewDependencyError("share event publish", err)
		}
	}
	return shared, nil
}
