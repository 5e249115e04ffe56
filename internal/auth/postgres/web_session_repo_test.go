// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/auth/postgres"
)

func sessionColumns() []string {
	return []string{"id", "user_id", "token_hash", "expires_at", "created_at", "last_seen_at"}
}

func newStoredSession(t *testing.T) *auth.WebSession {
	t.Helper()
	session, err := auth.NewWebSession(ulid.Make(), "tokenhash", time.Now().Add(time.Hour))
	require.NoError(t, err)
	return session
}

func TestWebSessionRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts the session", func(t *testing.T) {
		mock := newMockPool(t)
		session := newStoredSession(t)

		mock.ExpectExec(`INSERT INTO web_sessions`).
			WithArgs(session.ID.String(), session.UserID.String(), session.TokenHash,
				session.ExpiresAt, session.CreatedAt, session.LastSeenAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		repo := postgres.NewWebSessionRepository(mock)
		require.NoError(t, repo.Create(ctx, session))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure is wrapped", func(t *testing.T) {
		mock := newMockPool(t)
		session := newStoredSession(t)

		mock.ExpectExec(`INSERT INTO web_sessions`).
			WithArgs(session.ID.String(), session.UserID.String(), session.TokenHash,
				session.ExpiresAt, session.CreatedAt, session.LastSeenAt).
			WillReturnError(errors.New("connection refused"))

		repo := postgres.NewWebSessionRepository(mock)
		err := repo.Create(ctx, session)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestWebSessionRepository_GetByTokenHash(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stored session", func(t *testing.T) {
		mock := newMockPool(t)
		session := newStoredSession(t)

		mock.ExpectQuery(`SELECT id, user_id, token_hash, expires_at, created_at, last_seen_at`).
			WithArgs(session.TokenHash).
			WillReturnRows(pgxmock.NewRows(sessionColumns()).
				AddRow(session.ID.String(), session.UserID.String(), session.TokenHash,
					session.ExpiresAt, session.CreatedAt, session.LastSeenAt))

		repo := postgres.NewWebSessionRepository(mock)
		got, err := repo.GetByTokenHash(ctx, session.TokenHash)
		require.NoError(t, err)
		assert.Equal(t, session.ID, got.ID)
		assert.Equal(t, session.UserID, got.UserID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows wraps ErrNotFound", func(t *testing.T) {
		mock := newMockPool(t)

		mock.ExpectQuery(`SELECT id, user_id, token_hash, expires_at, created_at, last_seen_at`).
			WithArgs("nosuchhash").
			WillReturnRows(pgxmock.NewRows(sessionColumns()))

		repo := postgres.NewWebSessionRepository(mock)
		_, err := repo.GetByTokenHash(ctx, "nosuchhash")
		assert.ErrorIs(t, err, auth.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestWebSessionRepository_Touch(t *testing.T) {
	ctx := context.Background()
	id := ulid.Make()
	lastSeen := time.Now()

	t.Run("updates last_seen_at", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`UPDATE web_sessions SET last_seen_at`).
			WithArgs(id.String(), lastSeen).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := postgres.NewWebSessionRepository(mock)
		require.NoError(t, repo.Touch(ctx, id, lastSeen))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows affected wraps ErrNotFound", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`UPDATE web_sessions SET last_seen_at`).
			WithArgs(id.String(), lastSeen).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := postgres.NewWebSessionRepository(mock)
		err := repo.Touch(ctx, id, lastSeen)
		assert.ErrorIs(t, err, auth.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestWebSessionRepository_Delete(t *testing.T) {
	ctx := context.Background()
	id := ulid.Make()

	t.Run("deletes the session", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`DELETE FROM web_sessions WHERE id`).
			WithArgs(id.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := postgres.NewWebSessionRepository(mock)
		require.NoError(t, repo.Delete(ctx, id))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows affected wraps ErrNotFound", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec(`DELETE FROM web_sessions WHERE id`).
			WithArgs(id.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := postgres.NewWebSessionRepository(mock)
		err := repo.Delete(ctx, id)
		assert.ErrorIs(t, err, auth.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestWebSessionRepository_DeleteByUser(t *testing.T) {
	ctx := context.Background()
	userID := ulid.Make()

	mock := newMockPool(t)
	mock.ExpectExec(`DELETE FROM web_sessions WHERE user_id`).
		WithArgs(userID.String()).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	repo := postgres.NewWebSessionRepository(mock)
	require.NoError(t, repo.DeleteByUser(ctx, userID))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebSessionRepository_DeleteExpired(t *testing.T) {
	ctx := context.Background()

	mock := newMockPool(t)
	mock.ExpectExec(`DELETE FROM web_sessions WHERE expires_at`).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	repo := postgres.NewWebSessionRepository(mock)
	deleted, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	assert.NoError(t, mock.ExpectationsWereMet())
}
