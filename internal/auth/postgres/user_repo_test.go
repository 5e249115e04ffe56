// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/auth/postgres"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock pool")
	t.Cleanup(mock.Close)
	return mock
}

func userColumns() []string {
	return []string{"id", "username", "password_hash", "created_at", "updated_at"}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	id := ulid.Make()

	t.Run("returns stored user", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT id, username, password_hash, created_at, updated_at`).
			WithArgs("alice").
			WillReturnRows(pgxmock.NewRows(userColumns()).
				AddRow(id.String(), "alice", "somehash", now, now))

		repo := postgres.NewUserRepository(mock)
		user, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "somehash", user.PasswordHash)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows wraps ErrNotFound", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT id, username, password_hash, created_at, updated_at`).
			WithArgs("ghost").
			WillReturnRows(pgxmock.NewRows(userColumns()))

		repo := postgres.NewUserRepository(mock)
		user, err := repo.GetByUsername(ctx, "ghost")
		require.Error(t, err)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, auth.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error is not ErrNotFound", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT id, username, password_hash, created_at, updated_at`).
			WithArgs("alice").
			WillReturnError(errors.New("connection refused"))

		repo := postgres.NewUserRepository(mock)
		_, err := repo.GetByUsername(ctx, "alice")
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrNotFound)
		assert.Contains(t, err.Error(), "connection refused")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("malformed stored ID returns error", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT id, username, password_hash, created_at, updated_at`).
			WithArgs("alice").
			WillReturnRows(pgxmock.NewRows(userColumns()).
				AddRow("not-a-ulid", "alice", "somehash", now, now))

		repo := postgres.NewUserRepository(mock)
		_, err := repo.GetByUsername(ctx, "alice")
		require.Error(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	id := ulid.Make()

	t.Run("returns stored user", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT id, username, password_hash, created_at, updated_at`).
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows(userColumns()).
				AddRow(id.String(), "alice", "somehash", now, now))

		repo := postgres.NewUserRepository(mock)
		user, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows wraps ErrNotFound", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT id, username, password_hash, created_at, updated_at`).
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows(userColumns()))

		repo := postgres.NewUserRepository(mock)
		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, auth.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()

	newUser := func(t *testing.T) *auth.User {
		t.Helper()
		user, err := auth.NewUser("alice", "somehash")
		require.NoError(t, err)
		return user
	}

	t.Run("returns the record as persisted", func(t *testing.T) {
		mock := newMockPool(t)
		user := newUser(t)

		storedAt := user.CreatedAt.Truncate(time.Microsecond)
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(user.ID.String(), user.Username, user.PasswordHash, user.CreatedAt, user.UpdatedAt).
			WillReturnRows(pgxmock.NewRows(userColumns()).
				AddRow(user.ID.String(), user.Username, user.PasswordHash, storedAt, storedAt))

		repo := postgres.NewUserRepository(mock)
		created, err := repo.Create(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, user.ID, created.ID)
		// Timestamps reflect what the database persisted, not the input.
		assert.True(t, created.CreatedAt.Equal(storedAt))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation wraps ErrUsernameTaken", func(t *testing.T) {
		mock := newMockPool(t)
		user := newUser(t)

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(user.ID.String(), user.Username, user.PasswordHash, user.CreatedAt, user.UpdatedAt).
			WillReturnError(&pgconn.PgError{
				Code:           "23505",
				ConstraintName: "users_username_unique",
			})

		repo := postgres.NewUserRepository(mock)
		created, err := repo.Create(ctx, user)
		require.Error(t, err)
		assert.Nil(t, created)
		assert.ErrorIs(t, err, auth.ErrUsernameTaken)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other database error is not ErrUsernameTaken", func(t *testing.T) {
		mock := newMockPool(t)
		user := newUser(t)

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(user.ID.String(), user.Username, user.PasswordHash, user.CreatedAt, user.UpdatedAt).
			WillReturnError(errors.New("disk full"))

		repo := postgres.NewUserRepository(mock)
		_, err := repo.Create(ctx, user)
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrUsernameTaken)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
