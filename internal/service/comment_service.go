package service

import (
	"context"
	"strings"
	"time"

	"redesocial/internal/events"
	"redesocial/internal/models"
	"redesocial/internal/repository"
)

// CommentService handles commenting on posts. Comments are not idempotent:
// every accepted comment is a new fact, moves the counter, and emits an
// event.
type CommentService struct {
	comments *repository.CommentRepository
	posts    *repository.PostRepository
	counters *repository.CounterRepository
	sink     events.Sink
	timeout  time.Duration
}

// NewCommentService creates a new CommentService.
func NewCommentService(
	comments *repository.CommentRepository,
	posts *repository.PostRepository,
	counters *repository.CounterRepository,
	sink events.Sink,
	timeout time.Duration,
) *CommentService {
	return &CommentService{comments: comments, posts: posts, counters: counters, sink: sink, timeout: timeout}
}

// Create adds a comment to a visible post.
func (s *CommentService) Create(ctx context.Context, postID, userID, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("comment content cannot be empty")
	}

	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Deleted {
		return nil, models.NewNotFoundError("post", postID)
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, models.NewDependencyError("comment write", err)
	}

	if err := s.counters.IncPostComments(ctx, postID); err != nil {
		return nil, models.NewDependencyError("comments counter increment", err)
	}

	if err := s.sink.Emit(ctx, events.CommentCreated(comment.ID, postID, userID, post.UserID, content)); err != nil {
		return nil, models.NewDependencyError("comment event publish", err)
	}
	return comment, nil
}

// ListByPost returns a post's comments, newest first. Listing works on
// soft-deleted posts too: existing comments outlive the post's visibility.
func (s *CommentService) ListByPost(ctx context.Context, postID string, page, size int) ([]models.Comment, error) {
	ctx, cancel := opCtx(ctx, s.timeout)
	defer cancel()

	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID, page, size)
}
