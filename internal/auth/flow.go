// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/gatehouse/gatehouse/pkg/errutil"
)

// Flow drives the signup/login/logout state machine against a UserStore
// and a PasswordHasher. Each operation takes the client's Session
// explicitly and returns an Outcome; no transition partially applies.
type Flow struct {
	users  UserStore
	hasher PasswordHasher
	logger *slog.Logger
}

// NewFlow creates a new Flow with a no-op logger.
// Returns an error if any required dependency is nil.
func NewFlow(users UserStore, hasher PasswordHasher) (*Flow, error) {
	if users == nil {
		return nil, oops.Errorf("user store is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	return &Flow{
		users:  users,
		hasher: hasher,
		logger: slog.New(slog.DiscardHandler),
	}, nil
}

// NewFlowWithLogger creates a new Flow with the provided logger.
// Returns an error if any required dependency is nil.
func NewFlowWithLogger(users UserStore, hasher PasswordHasher, logger *slog.Logger) (*Flow, error) {
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	flow, err := NewFlow(users, hasher)
	if err != nil {
		return nil, err
	}
	flow.logger = logger
	return flow, nil
}

// dummyPasswordHash is used when a user doesn't exist to prevent timing attacks.
// We still run password verification to make response time consistent.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Signup registers a new account and authenticates the session with it.
//
// A signup while already authenticated is a redundant no-op (prevents
// accidental session overwrite and duplicate accounts from a page
// refresh). The pre-create existence check is advisory fast-path UX; the
// store's atomic uniqueness constraint at create time is the source of
// truth, so a lost race surfaces as the same conflict outcome.
func (f *Flow) Signup(ctx context.Context, session *Session, username, password string) Outcome {
	if session.Authenticated() {
		return alreadyAuthenticatedOutcome()
	}
	if username == "" || password == "" {
		return validationOutcome(RedirectSignup)
	}

	_, err := f.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return conflictOutcome()
	case !errors.Is(err, ErrNotFound):
		return f.storageFailure(RedirectSignup, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "get user by username").
			Wrap(err))
	}

	hash, err := f.hasher.Hash(password)
	if err != nil {
		return f.storageFailure(RedirectSignup, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "hash password").
			Wrap(err))
	}

	user, err := NewUser(username, hash)
	if err != nil {
		return f.storageFailure(RedirectSignup, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "construct user").
			Wrap(err))
	}

	created, err := f.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			// Lost the race against a concurrent signup.
			return conflictOutcome()
		}
		return f.storageFailure(RedirectSignup, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "create user").
			With("username", username).
			Wrap(err))
	}

	// The store's returned record is authoritative, not the pre-write object.
	session.SetCurrentUser(created)
	f.logger.Info("user signed up", "username", created.Username, "user_id", created.ID.String())
	return successOutcome(RedirectHome)
}

// Login verifies credentials and authenticates the session.
//
// An unknown username and a wrong password yield the identical outcome to
// resist username enumeration. Verification always runs - against a dummy
// digest when the user is absent - to keep response time shape consistent.
func (f *Flow) Login(ctx context.Context, session *Session, username, password string) Outcome {
	if session.Authenticated() {
		return alreadyAuthenticatedOutcome()
	}
	if username == "" || password == "" {
		return validationOutcome(RedirectLogin)
	}

	user, lookupErr := f.users.GetByUsername(ctx, username)

	targetHash := dummyPasswordHash
	userExists := false
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return f.storageFailure(RedirectLogin, oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by username").
				Wrap(lookupErr))
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	valid, verifyErr := f.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		// For dummy hash verification errors, just treat as invalid.
		if !userExists {
			return authErrorOutcome()
		}
		return f.storageFailure(RedirectLogin, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr))
	}

	if !userExists || !valid {
		return authErrorOutcome()
	}

	session.SetCurrentUser(user)
	f.logger.Info("user logged in", "username", user.Username, "user_id", user.ID.String())
	return successOutcome(RedirectHome)
}

// Logout clears the session unconditionally. Idempotent: logging out an
// anonymous session is a no-op success. Touches no store.
func (f *Flow) Logout(session *Session) Outcome {
	session.ClearCurrentUser()
	return successOutcome(RedirectLogin)
}

func (f *Flow) storageFailure(redirect string, err error) Outcome {
	errutil.LogError(f.logger, "auth storage failure", err)
	return storageOutcome(redirect, err)
}
