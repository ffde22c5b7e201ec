package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type captureSink struct {
	events []Event
	fail   bool
}

func (s *captureSink) Emit(_ context.Context, event Event) error {
	if s.fail {
		return assert.AnError
	}
	s.events = append(s.events, event)
	return nil
}

func (s *captureSink) Close() error { return nil }

func newOutboxDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&OutboxRecord{}))
	return db
}

func TestOutboxRelay_DrainForwardsOnce(t *testing.T) {
	db := newOutboxDB(t)
	ctx := context.Background()

	sink := NewOutboxSink(db)
	require.NoError(t, sink.Emit(ctx, New(TypeLikeCreated, "p1", map[string]string{"postId": "p1"})))
	require.NoError(t, sink.Emit(ctx, New(TypePostDeleted, "p2", map[string]string{"postId": "p2"})))

	downstream := &captureSink{}
	relay := NewRelay(db, downstream, time.Second)

	n, err := relay.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, downstream.events, 2)
	assert.Equal(t, TypeLikeCreated, downstream.events[0].Type)
	assert.Equal(t, "p1", downstream.events[0].Payload["postId"])

	// A second drain finds nothing new
	n, err = relay.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, downstream.events, 2)
}

func TestOutboxRelay_FailedDownstreamKeepsRecordPending(t *testing.T) {
	db := newOutboxDB(t)
	ctx := context.Background()

	sink := NewOutboxSink(db)
	require.NoError(t, sink.Emit(ctx, New(TypeCommentCreated, "p1", map[string]string{"commentId": "c1"})))

	downstream := &captureSink{fail: true}
	relay := NewRelay(db, downstream, time.Second)

	_, err := relay.Drain(ctx)
	require.Error(t, err)

	// The record survives for the next drain, giving at-least-once delivery
	downstream.fail = false
	n, err := relay.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, downstream.events, 1)
	assert.Equal(t, "c1", downstream.events[0].Payload["commentId"])
}

func TestPolicy_AsymmetricEmission(t *testing.T) {
	assert.True(t, LikePolicy.ShouldEmit(true))
	assert.False(t, LikePolicy.ShouldEmit(false))

	assert.False(t, UnlikePolicy.ShouldEmit(true))
	assert.False(t, UnlikePolicy.ShouldEmit(false))

	assert.True(t, DeletePolicy.ShouldEmit(true))
	assert.True(t, DeletePolicy.ShouldEmit(false))

	assert.False(t, FollowPolicy.ShouldEmit(true))
	assert.False(t, FollowPolicy.ShouldEmit(false))

	// Comments are never repeats; every accepted one announces
	assert.True(t, CommentPolicy.ShouldEmit(true))
	assert.True(t, CommentPolicy.ShouldEmit(false))

	assert.True(t, SharePolicy.ShouldEmit(true))
	assert.False(t, SharePolicy.ShouldEmit(false))

	assert.True(t, StoryPolicy.ShouldEmit(true))
	assert.False(t, StoryPolicy.ShouldEmit(false))
}
