package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestCounterRepository_IncPostLikes(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCounterRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "likes_count"=likes_count + 1 WHERE id = $1`)).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.IncPostLikes(ctx, "p1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCounterRepository_DecPostLikes_ClampsAtZero(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCounterRepository(db)
	ctx := context.Background()

	// The clamp runs inside the statement, never in Go code.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "likes_count"=CASE WHEN likes_count > 0 THEN likes_count - 1 ELSE 0 END WHERE id = $1`)).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DecPostLikes(ctx, "p1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCounterRepository_FollowCounters(t *testing.T) {
	ctx := context.Background()

	t.Run("increment followers", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewCounterRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "followers_count"=followers_count + 1 WHERE id = $1`)).
			WithArgs("u1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.IncUserFollowers(ctx, "u1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("decrement following clamps", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewCounterRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "following_count"=CASE WHEN following_count > 0 THEN following_count - 1 ELSE 0 END WHERE id = $1`)).
			WithArgs("u1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.DecUserFollowing(ctx, "u1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
