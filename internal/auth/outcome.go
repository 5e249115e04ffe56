// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

// Redirect targets returned to the presentation layer.
const (
	RedirectHome   = "/"
	RedirectSignup = "/auth/signup"
	RedirectLogin  = "/auth/login"
)

// User-facing messages. Wording matters: invalid-credentials deliberately
// does not distinguish an unknown username from a wrong password.
const (
	MsgMissingCredentials = "Please provide a username and a password"
	MsgUsernameTaken      = "The username is already taken"
	MsgInvalidCredentials = "Username or password are incorrect"
	MsgStorageFailure     = "Something went wrong, please try again"
)

// OutcomeKind identifies the terminal result of a Flow operation.
type OutcomeKind int

const (
	// OutcomeSuccess means the session transitioned (or the request was a
	// redundant signup/login while already authenticated).
	OutcomeSuccess OutcomeKind = iota

	// OutcomeValidationError means required input was missing.
	OutcomeValidationError

	// OutcomeConflict means the username is already registered.
	OutcomeConflict

	// OutcomeAuthError means the credentials did not verify.
	OutcomeAuthError

	// OutcomeStorageError means a collaborator failed; the session is
	// exactly as it was before the call.
	OutcomeStorageError
)

// String returns the kind name for logs and metrics labels.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeValidationError:
		return "validation_error"
	case OutcomeConflict:
		return "conflict"
	case OutcomeAuthError:
		return "auth_error"
	case OutcomeStorageError:
		return "storage_error"
	default:
		return "unknown"
	}
}

// Outcome is the caller-facing result of a signup, login, or logout
// attempt. Exactly one kind applies per attempt; the presentation layer
// decides how to render it.
type Outcome struct {
	Kind OutcomeKind

	// Redirect is the target the client should be sent to. Always set.
	Redirect string

	// Message is user-presentable. Empty on plain success.
	Message string

	// AlreadyAuthenticated marks a success issued by the redundancy guard:
	// a signup/login attempt while a user was already signed in. No side
	// effects occurred.
	AlreadyAuthenticated bool

	// Err carries the underlying cause for storage outcomes. Never shown
	// to the user directly.
	Err error
}

// OK returns true for success outcomes.
func (o Outcome) OK() bool {
	return o.Kind == OutcomeSuccess
}

func successOutcome(redirect string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Redirect: redirect}
}

func alreadyAuthenticatedOutcome() Outcome {
	return Outcome{Kind: OutcomeSuccess, Redirect: RedirectHome, AlreadyAuthenticated: true}
}

func validationOutcome(redirect string) Outcome {
	return Outcome{Kind: OutcomeValidationError, Redirect: redirect, Message: MsgMissingCredentials}
}

func conflictOutcome() Outcome {
	return Outcome{Kind: OutcomeConflict, Redirect: RedirectSignup, Message: MsgUsernameTaken}
}

func authErrorOutcome() Outcome {
	return Outcome{Kind: OutcomeAuthError, Redirect: RedirectLogin, Message: MsgInvalidCredentials}
}

func storageOutcome(redirect string, err error) Outcome {
	return Outcome{Kind: OutcomeStorageError, Redirect: redirect, Message: MsgStorageFailure, Err: err}
}
