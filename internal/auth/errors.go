// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken is returned by UserStore.Create when the username is
// already registered. Stores must detect this atomically at write time.
var ErrUsernameTaken = errors.New("username taken")
