// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package auth implements the Gatehouse authentication core.
//
// # Domain Types
//
// Domain types should be created using their constructors:
//   - NewUser - creates a User with a validated username and password hash
//   - NewWebSession - creates a WebSession with a validated user and expiry
//   - NewSession - creates an anonymous request-scoped Session
//
// Direct struct initialization bypasses validation and may create invalid
// state. Store implementations receive pre-validated types from these
// constructors.
//
// # Flow
//
// Flow is the signup/login/logout state machine. Each operation takes the
// client's Session explicitly and returns a closed set of Outcome values;
// the caller decides presentation. Flow never mutates a Session unless the
// backing store has confirmed the transition.
package auth
