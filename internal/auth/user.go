// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// User represents a registered account. Username and PasswordHash are
// immutable after creation; there is no password-change operation.
type User struct {
	ID           ulid.ULID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a validated User with a fresh ID.
// The passwordHash must be a digest produced by a PasswordHasher, never a
// plaintext password.
func NewUser(username, passwordHash string) (*User, error) {
	if username == "" {
		return nil, oops.Code("AUTH_INVALID_USERNAME").Errorf("username cannot be empty")
	}
	if passwordHash == "" {
		return nil, oops.Code("AUTH_INVALID_HASH").Errorf("password hash cannot be empty")
	}

	now := time.Now()
	return &User{
		ID:           ulid.Make(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// UserStore manages user persistence. Username matching is case-sensitive
// and exact.
type UserStore interface {
	// GetByUsername retrieves a user by exact username.
	// Returns an error wrapping ErrNotFound when no such user exists.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Create stores a new user. Uniqueness is enforced atomically at write
	// time: a duplicate username yields an error wrapping ErrUsernameTaken
	// and no mutation. On success the authoritative stored record is
	// returned.
	Create(ctx context.Context, user *User) (*User, error)
}
