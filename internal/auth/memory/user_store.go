// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package memory provides in-memory store implementations for tests and
// the memory backend.
package memory

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/gatehouse/gatehouse/internal/auth"
)

// UserStore implements auth.UserStore with a mutex-guarded map.
// Create is atomic with respect to the username uniqueness check, which
// makes concurrent duplicate signups behave like the SQL UNIQUE
// constraint: exactly one wins.
type UserStore struct {
	mu     sync.RWMutex
	byName map[string]*auth.User
}

// NewUserStore creates an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{byName: make(map[string]*auth.User)}
}

// GetByUsername retrieves a user by exact username.
func (s *UserStore) GetByUsername(_ context.Context, username string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byName[username]
	if !ok {
		return nil, oops.Code("USER_NOT_FOUND").
			With("username", username).
			Wrap(auth.ErrNotFound)
	}
	copied := *user
	return &copied, nil
}

// GetByID retrieves a user by ID.
func (s *UserStore) GetByID(_ context.Context, id ulid.ULID) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.byName {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, oops.Code("USER_NOT_FOUND").
		With("id", id.String()).
		Wrap(auth.ErrNotFound)
}

// Create stores a new user, rejecting duplicate usernames atomically.
func (s *UserStore) Create(_ context.Context, user *auth.User) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[user.Username]; exists {
		return nil, oops.Code("USER_CREATE_CONFLICT").
			With("username", user.Username).
			Wrap(auth.ErrUsernameTaken)
	}

	stored := *user
	s.byName[user.Username] = &stored

	copied := stored
	return &copied, nil
}

// Count returns the number of stored users.
func (s *UserStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byName)
}

// Compile-time interface check.
var _ auth.UserStore = (*UserStore)(nil)
