package service

import (
	"context"
	"time"

	"redesocial/internal/events"
	"redesocial/internal/models"
	"redesocial/internal/observability"
	"redesocial/internal/repository"
)

// StoryService handles the ephemeral story lifecycle. Expiry is enforced at
// read time from ExpiresAt; nothing in the system depends on rows being
// physically removed.
type StoryService struct {
	stories  *repository.StoryRepository
	counters *repository.CounterRepository
	sink     events.Sink
	timeout  time.Duration
	now      func() time.Time
}

// NewStoryService creates a new StoryService.
func NewStoryService(
	stories *repository.StoryRepository,
	counters *repository.CounterRepository,
	sink events.Sink,
	timeout time.Duration,
) *StoryService {
	return &StoryService{
		stories:  stories,
		counters: counters,
		sink:     sink,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Create publishes a story that expires StoryTTL after creation.
func (s *StoryService) Create(ctx context.Context, userID, mediaRef string) (*models.Story, error) {
	if mediaRef == "" {
		return nil, models.NewValidationError("story media reference is required")
	}

	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()

	now := s.now().UTC()
	story := &models.Story{
		UserID:    userID,
		MediaRef:  mediaRef,
		ExpiresAt: now.Add(models.StoryTTL),
		CreatedAt: now,
	}
	if err := s.stories.Create(ctx, story); err != nil {
		return nil, models.NewDependencyError("story write", err)
	}

	if err := s.sink.Emit(ctx, events.StoryCreated(story.ID, userID)); err != nil {
		return nil, models.NewDependencyError("story event publish", err)
	}
	return story, nil
}

// ListActive returns a user's unexpired stories, oldest first. A story whose
// expiry instant has passed never appears here, whatever its view count.
func (s *StoryService) ListActive(ctx context.Context, userID string) ([]models.Story, error) {
	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()
	return s.stories.ListActiveByUser(ctx, userID, s.now().UTC())
}

// RecordView records that viewerID saw storyID. The view is accepted even on
// an expired story: clients can race expiry, and a late view fact is more
// truthful than a rejected one. The counter moves only on the first view per
// viewer; repeats are silent no-ops. Views never emit events.
func (s *StoryService) RecordView(ctx context.Context, storyID, viewerID string) error {
	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()

	if _, err := s.stories.GetByID(ctx, storyID); err != nil {
		return err
	}

	created, err := s.stories.CreateView(ctx, storyID, viewerID)
	if err != nil {
		return models.NewDependencyError("story view write", err)
	}
	if !created {
		return nil
	}

	if err := s.counters.IncStoryViews(ctx, storyID); err != nil {
		return models.NewDependencyError("views counter increment", err)
	}
	return nil
}

// ListViewers returns the views of a story that happened within the last
// StoryTTL, most recent first. The window is anchored on each view's own
// timestamp, not on the story's lifetime, so an old story can still show
// fresh viewers and a fresh story hides none.
func (s *StoryService) ListViewers(ctx context.Context, storyID string) ([]models.StoryView, error) {
	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()

	if _, err := s.stories.GetByID(ctx, storyID); err != nil {
		return nil, err
	}
	cutoff := s.now().UTC().Add(-models.StoryTTL)
	return s.stories.ListRecentViews(ctx, storyID, cutoff)
}

// CleanupExpired reports how many stories have passed their expiry. It is
// advisory only. Correctness never depends on it running; reads already
// filter on ExpiresAt.
func (s *StoryService) CleanupExpired(ctx context.Context) (int64, error) {
	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()

	count, err := s.stories.CountExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		observability.ExpiredStoriesSeen.Add(float64(count))
		observability.GlobalLogger.Info("Expired stories observed", "count", count)
	}
	return count, nil
}

// StartCleanup runs CleanupExpired on a fixed interval until stop is closed.
func (s *StoryService) StartCleanup(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := s.CleanupExpired(context.Background()); err != nil {
					observability.GlobalLogger.Error("Story cleanup failed", "error", err)
				}
			case <-stop:
				return
			}
		}
	}()
}
