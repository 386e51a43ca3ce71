package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Janriisasi/hanceai/internal/model"
	"github.com/Janriisasi/hanceai/internal/repository"
)

func setupRepo(t *testing.T) (repository.Repository, sqlmock.Sqlmock) {
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return repository.NewSQLiteRepository(db), mockDB
}

func TestSQLiteRepository_CreateUser(t *testing.T) {
	ctx := context.Background()
	user := &model.User{
		ID:           "user-1",
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Now().UTC(),
	}

	t.Run("Success", func(t *testing.T) {
		repo, mockDB := setupRepo(t)

		mockDB.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.CreateUser(ctx, user)
		assert.NoError(t, err)
		require.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("Duplicate email", func(t *testing.T) {
		repo, mockDB := setupRepo(t)

		mockDB.ExpectExec("INSERT INTO users").
			WillReturnError(errors.New("UNIQUE constraint failed: users.email"))

		err := repo.CreateUser(ctx, user)
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})
}

func TestSQLiteRepository_GetUserByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mockDB := setupRepo(t)

		created := time.Now().UTC()
		rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at"}).
			AddRow("user-1", "Test User", "test@example.com", "$2a$10$hash", created)
		mockDB.ExpectQuery("SELECT id, name, email, password_hash, created_at FROM users WHERE email").
			WithArgs("test@example.com").
			WillReturnRows(rows)

		user, err := repo.GetUserByEmail(ctx, "test@example.com")
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
		assert.Equal(t, "Test User", user.Name)
	})

	t.Run("Not found", func(t *testing.T) {
		repo, mockDB := setupRepo(t)

		mockDB.ExpectQuery("SELECT id, name, email, password_hash, created_at FROM users WHERE email").
			WithArgs("missing@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at"}))

		_, err := repo.GetUserByEmail(ctx, "missing@example.com")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestSQLiteRepository_GetUserByID(t *testing.T) {
	repo, mockDB := setupRepo(t)

	mockDB.ExpectQuery("SELECT id, name, email, password_hash, created_at FROM users WHERE id").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at"}).
			AddRow("user-1", "Test User", "test@example.com", "$2a$10$hash", time.Now().UTC()))

	user, err := repo.GetUserByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)
}
