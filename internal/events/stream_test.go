package events

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStreamClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestStreamSink_EmitAppendsEntry(t *testing.T) {
	client := newStreamClient(t)
	sink := NewStreamSink(client, "content-events")
	ctx := context.Background()

	event := LikeCreated("p1", "u1", "author1")
	require.NoError(t, sink.Emit(ctx, event))

	entries, err := client.XRange(ctx, "content-events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, event.ID, entries[0].Values["id"])
	assert.Equal(t, TypeLikeCreated, entries[0].Values["type"])
	assert.Equal(t, "p1", entries[0].Values["key"])
	assert.Contains(t, entries[0].Values["payload"], `"postAuthorId":"author1"`)
}

func TestStreamSink_EventsCarryDistinctIDs(t *testing.T) {
	client := newStreamClient(t)
	sink := NewStreamSink(client, "content-events")
	ctx := context.Background()

	first := PostDeleted("p1", "u1")
	second := PostDeleted("p1", "u1")
	require.NoError(t, sink.Emit(ctx, first))
	require.NoError(t, sink.Emit(ctx, second))

	// Re-announcements of the same fact stay distinguishable downstream
	assert.NotEqual(t, first.ID, second.ID)

	entries, err := client.XRange(ctx, "content-events", "-", "+").Result()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestUserChannel(t *testing.T) {
	assert.Equal(t, "notifications:user:u42", UserChannel("u42"))
}
