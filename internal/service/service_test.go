package service

import (
	"context"
	"testing"
	"time"

	"redesocial/internal/database"
	"redesocial/internal/events"
	"redesocial/internal/models"
	"redesocial/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordingSink captures emitted events for assertions.
type recordingSink struct {
	events []events.Event
}

func (s *recordingSink) Emit(_ context.Context, event events.Event) error {
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) Close() error { return nil }

func (s *recordingSink) ofType(eventType string) []events.Event {
	var out []events.Event
	for _, e := range s.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type testEnv struct {
	db       *gorm.DB
	sink     *recordingSink
	users    *repository.UserRepository
	posts    *repository.PostRepository
	likes    *LikeService
	follows  *FollowService
	comments *CommentService
	postsSvc *PostService
	stories  *StoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sink := &recordingSink{}
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)
	shareRepo := repository.NewShareRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	counterRepo := repository.NewCounterRepository(db)

	timeout := 3 * time.Second
	return &testEnv{
		db:       db,
		sink:     sink,
		users:    userRepo,
		posts:    postRepo,
		likes:    NewLikeService(likeRepo, postRepo, counterRepo, sink, timeout),
		follows:  NewFollowService(followRepo, userRepo, counterRepo, timeout),
		comments: NewCommentService(commentRepo, postRepo, counterRepo, sink, timeout),
		postsSvc: NewPostService(postRepo, shareRepo, counterRepo, sink, timeout),
		stories:  NewStoryService(storyRepo, counterRepo, sink, timeout),
	}
}

func (e *testEnv) newUser(t *testing.T) *models.User {
	t.Helper()
	user := &models.User{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Password: "hashed",
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) newPost(t *testing.T, userID, content string) *models.Post {
	t.Helper()
	post, err := e.postsSvc.Create(context.Background(), userID, content, nil)
	require.NoError(t, err)
	return post
}

func (e *testEnv) loadPost(t *testing.T, id string) *models.Post {
	t.Helper()
	post, err := e.posts.GetByID(context.Background(), id)
	require.NoError(t, err)
	return post
}

func (e *testEnv) loadUser(t *testing.T, id string) *models.User {
	t.Helper()
	user, err := e.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	return user
}

func TestLike_IdempotentAndEmitsOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newUser(t)
	bob := env.newUser(t)
	p1 := env.newPost(t, alice.ID, "hello world")

	require.NoError(t, env.likes.Like(ctx, p1.ID, bob.ID))
	assert.Equal(t, 1, env.loadPost(t, p1.ID).LikesCount)
	assert.Len(t, env.sink.ofType(events.TypeLikeCreated), 1)

	// Repeat is a silent no-op: counter stays, no second event
	require.NoError(t, env.likes.Like(ctx, p1.ID, bob.ID))
	assert.Equal(t, 1, env.loadPost(t, p1.ID).LikesCount)
	assert.Len(t, env.sink.ofType(events.TypeLikeCreated), 1)

	liked, err := env.likes.HasLiked(ctx, p1.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestUnlike_DecrementsClampedAndNeverEmits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newUser(t)
	bob := env.newUser(t)
	p1 := env.newPost(t, alice.ID, "hello world")

	require.NoError(t, env.likes.Like(ctx, p1.ID, bob.ID))
	emitted := len(env.sink.events)

	require.NoError(t, env.likes.Unlike(ctx, p1.ID, bob.ID))
	assert.Equal(t, 0, env.loadPost(t, p1.ID).LikesCount)

	// Repeated unlike never pushes below zero
	require.NoError(t, env.likes.Unlike(ctx, p1.ID, bob.ID))
	require.NoError(t, env.likes.Unlike(ctx, p1.ID, bob.ID))
	assert.Equal(t, 0, env.loadPost(t, p1.ID).LikesCount)

	// Unlike emits nothing
	assert.Len(t, env.sink.events, emitted)
}

func TestLike_DeletedPostIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newUser(t)
	bob := env.newUser(t)
	p1 := env.newPost(t, alice.ID, "gone soon")

	require.NoError(t, env.postsSvc.Delete(ctx, p1.ID, alice.ID))

	err := env.likes.Like(ctx, p1.ID, bob.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
	assert.Equal(t, 0, env.loadPost(t, p1.ID).LikesCount)
}

func TestFollow_AdjustsBothCountersOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newUser(t)
	bob := env.newUser(t)

	require.NoError(t, env.follows.Follow(ctx, alice.ID, bob.ID))
	assert.Equal(t, 1, env.loadUser(t, alice.ID).FollowingCount)
	assert.Equal(t, 1, env.loadUser(t, bob.ID).FollowersCount)

	// Repeat follow changes nothing
	require.NoError(t, env.follows.Follow(ctx, alice.ID, bob.ID))
	assert.Equal(t, 1, env.loadUser(t, alice.ID).FollowingCount)
	assert.Equal(t, 1, env.loadUser(t, bob.ID).FollowersCount)

	require.NoError(t, env.follows.Unfollow(ctx, alice.ID, bob.ID))
	assert.Equal(t, 0, env.loadUser(t, alice.ID).FollowingCount)
	assert.Equal(t, 0, env.loadUser(t, bob.ID).FollowersCount)

	// Second unfollow: no error, no further decrement
	require.NoError(t, env.follows.Unfollow(ctx, alice.ID, bob.ID))
	assert.Equal(t, 0, env.loadUser(t, alice.ID).FollowingCount)
	assert.Equal(t, 0, env.loadUser(t, bob.ID).FollowersCount)

	// Follow never emits events
	assert.Empty(t, env.sink.events)
}

func TestFollow_SelfIsRejected(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t)

	err := env.follows.Follow(context.Background(), alice.ID, alice.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeCannotFollowSelf, appErr.Code)
}

func TestFollow_MissingTargetIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t)

	err := env.follows.Follow(context.Background(), alice.ID, "no-such-user")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestListFollowers_OutOfRangePageIsEmpty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newUser(t)
	bob := env.newUser(t)
	require.NoError(t, env.follows.Follow(ctx, alice.ID, bob.ID))

	followers, err := env.follows.ListFollowers(ctx, bob.ID, 0, 50)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, alice.ID, followers[0].ID)

	beyond, err := env.follows.ListFollowers(ctx, bob.ID, 7, 50)
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestComment_IncrementsCounterAndEmits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newUser(t)
	bob := env.newUser(t)
	p1 := env.newPost(t, alice.ID, "discuss")

	c1, err := env.comments.Create(ctx, p1.ID, bob.ID, "first!")
	require.NoError(t, err)
	assert.NotEmpty(t, c1.ID)
	assert.Equal(t, 1, env.loadPost(t, p1.ID).CommentsCount)

	// A second identical comment is a new fact, not a repeat
	_, err = env.comments.Create(ctx, p1.ID, bob.ID, "first!")
	require.NoError(t, err)
	assert.Equal(t, 2, env.loadPost(t, p1.ID).CommentsCount)
	assert.Len(t, env.sink.ofType(events.TypeCommentCreated), 2)

	comments, err := env.comments.ListByPost(ctx, p1.ID, 0, 20)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
}

func TestComment_SurvivesPostDeletion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newUser(t)
	bob := env.newUser(t)
	p1 := env.newPost(t, alice.ID, "discuss")

	_, err := env.comments.Create(ctx, p1.ID, bob.ID, "still here")
	require.NoError(t, err)

	require.NoError(t, env.postsSvc.Delete(ctx, p1.ID, alice.ID))

	// Adding to a deleted post fails
	_, err = env.comments.Create(ctx, p1.ID, bob.ID, "too late")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)

	// Existing comments remain listable
	comments, err := env.comments.ListByPost(ctx, p1.ID, 0, 20)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestShare_CopiesContentAndCounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newUser(t)
	carol := env.newUser(t)
	p1 := env.newPost(t, alice.ID, "hello #x")

	shared, err := env.postsSvc.Share(ctx, p1.ID, carol.ID)
	require.NoError(t, err)

	assert.Equal(t, carol.ID, shared.UserID)
	assert.Equal(t, "Shared: hello #x", shared.Content)
	assert.Equal(t, []string{"x"}, shared.Hashtags)
	assert.Equal(t, 0, shared.LikesCount)
	assert.Equal(t, 0, shared.CommentsCount)
	assert.Equal(t, 0, shared.SharesCount)

	assert.Equal(t, 1, env.loadPost(t, p1.ID).SharesCount)
	assert.Len(t, env.sink.ofType(events.TypeShareCreated), 1)
}

func TestShare_DeletedOriginalIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newUser(t)
	carol := env.newUser(t)
	p1 := env.newPost(t, alice.ID, "gone")

	require.NoError(t, env.postsSvc.Delete(ctx, p1.ID, alice.ID))

	_, err := env.postsSvc.Share(ctx, p1.ID, carol.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestDeletePost_OwnershipAndRepeatEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.newUser(t)
	mallory := env.newUser(t)
	p1 := env.newPost(t, alice.ID, "mine")

	// A non-owner cannot delete, and the flag stays unchanged
	err := env.postsSvc.Delete(ctx, p1.ID, mallory.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeUnauthorized, appErr.Code)
	assert.False(t, env.loadPost(t, p1.ID).Deleted)

	require.NoError(t, env.postsSvc.Delete(ctx, p1.ID, alice.ID))
	assert.True(t, env.loadPost(t, p1.ID).Deleted)
	assert.Len(t, env.sink.ofType(events.TypePostDeleted), 1)

	// Repeat delete keeps succeeding and re-announces every time
	require.NoError(t, env.postsSvc.Delete(ctx, p1.ID, alice.ID))
	assert.Len(t, env.sink.ofType(events.TypePostDeleted), 2)

	// Reads treat the deleted post as missing
	_, err = env.postsSvc.Get(ctx, p1.ID)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestCreatePost_ExtractsHashtags(t *testing.T) {
	env := newTestEnv(t)
	alice := env.newUser(t)

	post := env.newPost(t, alice.ID, "Go #Golang and #backend, always #golang")
	assert.Equal(t, []string{"golang", "backend"}, post.Hashtags)
	assert.Len(t, env.sink.ofType(events.TypePostCreated), 1)
}
