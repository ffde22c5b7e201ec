package service

import (
	"context"
	"time"

	"redesocial/internal/events"
	"redesocial/internal/models"
	"redesocial/internal/repository"
)

// LikeService handles liking and unliking posts.
type LikeService struct {
	likes    *repository.LikeRepository
	posts    *repository.PostRepository
	counters *repository.CounterRepository
	sink     events.Sink
	timeout  time.Duration
}

// NewLikeService creates a new LikeService.
func NewLikeService(
	likes *repository.LikeRepository,
	posts *repository.PostRepository,
	counters *repository.CounterRepository,
	sink events.Sink,
	timeout time.Duration,
) *LikeService {
	return &LikeService{likes: likes, posts: posts, counters: counters, sink: sink, timeout: timeout}
}

// Like records that userID liked postID. Repeating the call is a no-op:
// the counter moves and the event fires only when the ledger accepted the
// fact for the first time.
func (s *LikeService) Like(ctx context.Context, postID, userID string) error {
	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.Deleted {
		return models.NewNotFoundError("post", postID)
	}

	created, err := s.likes.Create(ctx, postID, userID)
	if err != nil {
		return models.NewDependencyError("like ledger write", err)
	}
	if !created {
		return nil
	}

	if err := s.counters.IncPostLikes(ctx, postID); err != nil {
		return models.NewDependencyError("likes counter increment", err)
	}

	if events.LikePolicy.ShouldEmit(created) {
		if err := s.sink.Emit(ctx, events.LikeCreated(postID, userID, post.UserID)); err != nil {
			return models.NewDependencyError("like event publish", err)
		}
	}
	return nil
}

// Unlike removes userID's like of postID. The counter decrement is clamped
// at zero and no event is ever emitted. Unliking a post that was never liked
// succeeds without touching anything.
func (s *LikeService) Unlike(ctx context.Context, postID, userID string) error {
	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()

	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return err
	}

	removed, err := s.likes.Delete(ctx, postID, userID)
	if err != nil {
		return models.NewDependencyError("like ledger delete", err)
	}
	if !removed {
		return nil
	}

	if err := s.counters.DecPostLikes(ctx, postID); err != nil {
		return models.NewDependencyError("likes counter decrement", err)
	}
	return nil
}

// HasLiked reports whether userID currently likes postID.
func (s *LikeService) HasLiked(ctx context.Context, postID, userID string) (bool, error) {
	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()
	return s.likes.Exists(ctx, postID, userID)
}
