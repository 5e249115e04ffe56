// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

// Session tracks the currently authenticated identity for one client's
// ongoing interaction. It begins anonymous and is only ever set to a User
// whose credentials were verified or just created within the same Flow
// operation.
//
// A Session is an explicit value owned by the caller and scoped to a
// single client context; it is not safe for concurrent use and must not
// be shared across clients.
type Session struct {
	currentUser *User
}

// NewSession creates an anonymous Session.
func NewSession() *Session {
	return &Session{}
}

// SetCurrentUser overwrites the current identity unconditionally.
func (s *Session) SetCurrentUser(u *User) {
	s.currentUser = u
}

// CurrentUser returns the authenticated user, or nil when anonymous.
func (s *Session) CurrentUser() *User {
	return s.currentUser
}

// ClearCurrentUser resets the session to anonymous. Safe to call when
// already anonymous.
func (s *Session) ClearCurrentUser() {
	s.currentUser = nil
}

// Authenticated returns true if a current user is set.
func (s *Session) Authenticated() bool {
	return s.currentUser != nil
}
