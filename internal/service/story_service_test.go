package service

import (
	"context"
	"testing"
	"time"

	"redesocial/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStory_ExpiresExactlyAfterTTL(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newUser(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	env.stories.now = func() time.Time { return base }

	story, err := env.stories.Create(ctx, alice.ID, "media://s1")
	require.NoError(t, err)
	assert.Equal(t, base.Add(models.StoryTTL), story.ExpiresAt)

	// Just before expiry the story is active
	env.stories.now = func() time.Time { return base.Add(models.StoryTTL - time.Second) }
	active, err := env.stories.ListActive(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	// At the expiry instant it is gone
	env.stories.now = func() time.Time { return base.Add(models.StoryTTL) }
	active, err = env.stories.ListActive(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestRecordView_IdempotentPerViewer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newUser(t)
	bob := env.newUser(t)

	story, err := env.stories.Create(ctx, alice.ID, "media://s1")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, env.stories.RecordView(ctx, story.ID, bob.ID))
	}

	var got models.Story
	require.NoError(t, env.db.First(&got, "id = ?", story.ID).Error)
	assert.Equal(t, 1, got.ViewsCount)
}

func TestRecordView_AcceptedOnExpiredStory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newUser(t)
	bob := env.newUser(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	env.stories.now = func() time.Time { return base }
	story, err := env.stories.Create(ctx, alice.ID, "media://s1")
	require.NoError(t, err)

	// Two days later the story is long expired, yet the view still lands
	env.stories.now = func() time.Time { return base.Add(48 * time.Hour) }
	require.NoError(t, env.stories.RecordView(ctx, story.ID, bob.ID))

	var got models.Story
	require.NoError(t, env.db.First(&got, "id = ?", story.ID).Error)
	assert.Equal(t, 1, got.ViewsCount)
}

func TestRecordView_MissingStoryIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	bob := env.newUser(t)

	err := env.stories.RecordView(context.Background(), "no-such-story", bob.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestListViewers_RecencyWindowIsAnchoredOnViews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newUser(t)
	bob := env.newUser(t)
	carol := env.newUser(t)

	story, err := env.stories.Create(ctx, alice.ID, "media://s1")
	require.NoError(t, err)

	require.NoError(t, env.stories.RecordView(ctx, story.ID, bob.ID))
	require.NoError(t, env.stories.RecordView(ctx, story.ID, carol.ID))

	// Age bob's view past the recency window; the story itself stays as-is
	stale := time.Now().UTC().Add(-25 * time.Hour)
	require.NoError(t, env.db.Model(&models.StoryView{}).
		Where("story_id = ? AND viewer_id = ?", story.ID, bob.ID).
		Update("viewed_at", stale).Error)

	viewers, err := env.stories.ListViewers(ctx, story.ID)
	require.NoError(t, err)
	require.Len(t, viewers, 1)
	assert.Equal(t, carol.ID, viewers[0].ViewerID)
}

func TestCleanupExpired_CountsWithoutDeleting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newUser(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	env.stories.now = func() time.Time { return base }
	_, err := env.stories.Create(ctx, alice.ID, "media://s1")
	require.NoError(t, err)
	_, err = env.stories.Create(ctx, alice.ID, "media://s2")
	require.NoError(t, err)

	env.stories.now = func() time.Time { return base.Add(25 * time.Hour) }
	count, err := env.stories.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Advisory only: the rows are still there
	var remaining int64
	require.NoError(t, env.db.Model(&models.Story{}).Count(&remaining).Error)
	assert.Equal(t, int64(2), remaining)
}
