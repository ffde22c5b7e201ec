package service

import (
	"context"
	"time"

	"redesocial/internal/models"
	"redesocial/internal/repository"
)

// FollowService handles the follow relation between users. Follow changes
// adjust both sides' counters but never emit events.
type FollowService struct {
	follows  *repository.FollowRepository
	users    *repository.UserRepository
	counters *repository.CounterRepository
	timeout  time.Duration
}

// NewFollowService creates a new FollowService.
func NewFollowService(
	follows *repository.FollowRepository,
	users *repository.UserRepository,
	counters *repository.CounterRepository,
	timeout time.Duration,
) *FollowService {
	return &FollowService{follows: follows, users: users, counters: counters, timeout: timeout}
}

// Follow records that followerID follows followingID. The target's followers
// counter and the follower's following counter move only when the relation
// was newly created.
func (s *FollowService) Follow(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return models.NewCannotFollowSelfError()
	}

	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()

	for _, id := range []string{followerID, followingID} {
		exists, err := s.users.Exists(ctx, id)
		if err != nil {
			return models.NewDependencyError("user lookup", err)
		}
		if !exists {
			return models.NewNotFoundError("user", id)
		}
	}

	created, err := s.follows.Create(ctx, followerID, followingID)
	if err != nil {
		return models.NewDependencyError("follow ledger write", err)
	}
	if !created {
		return nil
	}

	if err := s.counters.IncUserFollowers(ctx, followingID); err != nil {
		return models.NewDependencyError("followers counter increment", err)
	}
	if err := s.counters.IncUserFollowing(ctx, followerID); err != nil {
		return models.NewDependencyError("following counter increment", err)
	}
	return nil
}

// Unfollow removes the relation. Both decrements clamp at zero, and
// unfollowing someone never followed is a silent no-op.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return models.NewCannotFollowSelfError()
	}

	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()

	removed, err := s.follows.Delete(ctx, followerID, followingID)
	if err != nil {
		return models.NewDependencyError("follow ledger delete", err)
	}
	if !removed {
		return nil
	}

	if err := s.counters.DecUserFollowers(ctx, followingID); err != nil {
		return models.NewDependencyError("followers counter decrement", err)
	}
	if err := s.counters.DecUserFollowing(ctx, followerID); err != nil {
		return models.NewDependencyError("following counter decrement", err)
	}
	return nil
}

// IsFollowing reports whether followerID currently follows followingID.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()
	return s.follows.Exists(ctx, followerID, followingID)
}

// ListFollowers returns the users following userID, newest follow first.
func (s *FollowService) ListFollowers(ctx context.Context, userID string, page, size int) ([]models.User, error) {
	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, models.NewDependencyError("user lookup", err)
	}
	if !exists {
		return nil, models.NewNotFoundError("user", userID)
	}
	return s.follows.ListFollowers(ctx, userID, page, size)
}

// ListFollowing returns the users userID follows, newest follow first.
func (s *FollowService) ListFollowing(ctx context.Context, userID string, page, size int) ([]models.User, error) {
	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, models.NewDependencyError("user lookup", err)
	}
	if !exists {
		return nil, models.NewNotFoundError("user", userID)
	}
	return s.follows.ListFollowing(ctx, userID, page, size)
}
