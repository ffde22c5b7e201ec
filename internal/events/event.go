// Package events defines the interaction events the engine emits and the
// sinks that carry them downstream.
package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the interaction services.
const (
	TypePostCreated    = "post.created"
	TypePostDeleted    = "post.deleted"
	TypeLikeCreated    = "like.created"
	TypeCommentCreated = "comment.created"
	TypeShareCreated   = "share.created"
	TypeStoryCreated   = "story.created"
)

// Event is a single interaction fact emitted after the stores were written.
// Delivery is at-least-once; consumers must deduplicate on ID.
type Event struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Key        string            `json:"key"`
	OccurredAt time.Time         `json:"occurredAt"`
	Payload    map[string]string `json:"payload"`
}

// New builds an event with a fresh ID and the current timestamp. Key is the
// partition key downstream brokers hash on.
func New(eventType, key string, payload map[string]string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// PostCreated describes a newly published post.
func PostCreated(postID, userID, content string, hashtags []string) Event {
	payload := map[string]string{"postId": postID, "userId": userID, "content": content}
	if len(hashtags) > 0 {
		payload["hashtags"] = strings.Join(hashtags, ",")
	}
	return New(TypePostCreated, postID, payload)
}

// PostDeleted describes a soft-deleted post. It is emitted on every delete
// call, including repeats on an already-deleted post.
func PostDeleted(postID, userID string) Event {
	return New(TypePostDeleted, postID, map[string]string{"postId": postID, "userId": userID})
}

// LikeCreated describes the first like of a post by a user.
func LikeCreated(postID, userID, postAuthorID string) Event {
	return New(TypeLikeCreated, postID, map[string]string{
		"postId":       postID,
		"userId":       userID,
		"postAuthorId": postAuthorID,
	})
}

// CommentCreated describes a new comment on a post.
func CommentCreated(commentID, postID, userID, postAuthorID, content string) Event {
	return New(TypeCommentCreated, postID, map[string]string{
		"commentId":    commentID,
		"postId":       postID,
		"userId":       userID,
		"postAuthorId": postAuthorID,
		"content":      content,
	})
}

// ShareCreated describes a share and the derived post it produced.
func ShareCreated(originalPostID, sharedPostID, userID, originalAuthorID string) Event {
	return New(TypeShareCreated, originalPostID, map[string]string{
		"originalPostId":   originalPostID,
		"sharedPostId":     sharedPostID,
		"userId":           userID,
		"originalAuthorId": originalAuthorID,
	})
}

// StoryCreated describes a newly published story.
func StoryCreated(storyID, userID string) Event {
	return New(TypeStoryCreated, storyID, map[string]string{"storyId": storyID, "userId": userID})
}

// Sink carries events downstream. Emit must be safe for concurrent use.
type Sink interface {
	Emit(ctx context.Context, event Event) error
	Close() error
}
