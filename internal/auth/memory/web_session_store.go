// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/gatehouse/gatehouse/internal/auth"
)

// WebSessionStore implements auth.WebSessionStore with a mutex-guarded map.
type WebSessionStore struct {
	mu   sync.RWMutex
	byID map[ulid.ULID]*auth.WebSession
}

// NewWebSessionStore creates an empty WebSessionStore.
func NewWebSessionStore() *WebSessionStore {
	return &WebSessionStore{byID: make(map[ulid.ULID]*auth.WebSession)}
}

// Create stores a new web session.
func (s *WebSessionStore) Create(_ context.Context, session *auth.WebSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[session.ID]; exists {
		return oops.Code("SESSION_CREATE_CONFLICT").
			With("session_id", session.ID.String()).
			Errorf("session already exists")
	}

	stored := *session
	s.byID[session.ID] = &stored
	return nil
}

// GetByTokenHash retrieves a session by its token hash.
func (s *WebSessionStore) GetByTokenHash(_ context.Context, tokenHash string) (*auth.WebSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, session := range s.byID {
		if session.TokenHash == tokenHash {
			copied := *session
			return &copied, nil
		}
	}
	return nil, oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
}

// Touch updates the LastSeenAt timestamp for a session.
func (s *WebSessionStore) Touch(_ context.Context, id ulid.ULID, lastSeen time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.byID[id]
	if !ok {
		return oops.Code("SESSION_NOT_FOUND").
			With("session_id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	session.LastSeenAt = lastSeen
	return nil
}

// Delete removes a session by ID.
func (s *WebSessionStore) Delete(_ context.Context, id ulid.ULID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return oops.Code("SESSION_NOT_FOUND").
			With("session_id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	delete(s.byID, id)
	return nil
}

// DeleteByUser removes all sessions for a user.
func (s *WebSessionStore) DeleteByUser(_ context.Context, userID ulid.ULID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, session := range s.byID {
		if session.UserID == userID {
			delete(s.byID, id)
		}
	}
	return nil
}

// DeleteExpired removes all expired sessions and returns the count.
func (s *WebSessionStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var deleted int64
	for id, session := range s.byID {
		if now.After(session.ExpiresAt) {
			delete(s.byID, id)
			deleted++
		}
	}
	return deleted, nil
}

// Compile-time interface check.
var _ auth.WebSessionStore = (*WebSessionStore)(nil)
