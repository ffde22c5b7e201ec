package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestLikeRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("first insert returns true", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewLikeRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "likes"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		created, err := repo.Create(ctx, "p1", "u1")
		assert.NoError(t, err)
		assert.True(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate insert is absorbed and returns false", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewLikeRepository(db)

		// ON CONFLICT DO NOTHING: no row comes back for the duplicate
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "likes"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectCommit()

		created, err := repo.Create(ctx, "p1", "u1")
		assert.NoError(t, err)
		assert.False(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLikeRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("existing like returns true", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewLikeRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes"`)).
			WithArgs("p1", "u1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		removed, err := repo.Delete(ctx, "p1", "u1")
		assert.NoError(t, err)
		assert.True(t, removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent like returns false", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewLikeRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes"`)).
			WithArgs("p1", "u1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		removed, err := repo.Delete(ctx, "p1", "u1")
		assert.NoError(t, err)
		assert.False(t, removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
