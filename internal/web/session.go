// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package web

import (
	"net/http"
	"time"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/pkg/errutil"
)

// sessionCookieName carries the plaintext web session token.
const sessionCookieName = "gatehouse_session"

// resolveSession reconstructs the request's Session from the session
// cookie. Anything that prevents resolution - missing cookie, unknown or
// expired token, store failure - degrades to an anonymous session rather
// than failing the request. The matching WebSession is returned so logout
// can revoke it; it is nil when anonymous.
func (h *Handler) resolveSession(r *http.Request) (*auth.Session, *auth.WebSession) {
	session := auth.NewSession()

	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return session, nil
	}

	tokenHash := auth.HashSessionToken(cookie.Value)
	webSession, err := h.webSessions.GetByTokenHash(r.Context(), tokenHash)
	if err != nil {
		return session, nil
	}
	if webSession.IsExpired() {
		return session, nil
	}

	user, err := h.users.GetByID(r.Context(), webSession.UserID)
	if err != nil {
		return session, nil
	}

	// Best effort; resolution succeeds regardless.
	if err := h.webSessions.Touch(r.Context(), webSession.ID, time.Now()); err != nil {
		errutil.LogError(h.logger, "failed to touch web session", err)
	}

	session.SetCurrentUser(user)
	return session, webSession
}

// setSessionCookie installs the session token cookie.
func setSessionCookie(w http.ResponseWriter, token string, expiry time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(expiry / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie removes the session token cookie.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
