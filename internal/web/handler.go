// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package web maps HTTP requests onto the authentication flow and renders
// the minimal signup/login pages. It holds no policy of its own: every
// branching decision lives in the auth package, and this layer only
// translates outcomes into redirects, cookies, and flash messages.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/observability"
	"github.com/gatehouse/gatehouse/pkg/errutil"
)

// AuthFlow defines the authentication operations needed by the web handlers.
type AuthFlow interface {
	Signup(ctx context.Context, session *auth.Session, username, password string) auth.Outcome
	Login(ctx context.Context, session *auth.Session, username, password string) auth.Outcome
	Logout(session *auth.Session) auth.Outcome
}

// UserGetter loads user records for session resolution.
type UserGetter interface {
	GetByID(ctx context.Context, id ulid.ULID) (*auth.User, error)
}

// Handler serves the authentication routes.
type Handler struct {
	flow          AuthFlow
	users         UserGetter
	webSessions   auth.WebSessionStore
	metrics       *observability.Metrics
	logger        *slog.Logger
	sessionExpiry time.Duration
}

// NewHandler creates a new Handler with a no-op logger.
// Returns an error if any required dependency is nil. metrics may be nil.
func NewHandler(flow AuthFlow, users UserGetter, webSessions auth.WebSessionStore, metrics *observability.Metrics) (*Handler, error) {
	if flow == nil {
		return nil, oops.Errorf("auth flow is required")
	}
	if users == nil {
		return nil, oops.Errorf("user getter is required")
	}
	if webSessions == nil {
		return nil, oops.Errorf("web session store is required")
	}
	return &Handler{
		flow:          flow,
		users:         users,
		webSessions:   webSessions,
		metrics:       metrics,
		logger:        slog.New(slog.DiscardHandler),
		sessionExpiry: auth.DefaultSessionExpiry,
	}, nil
}

// NewHandlerWithLogger creates a new Handler with the provided logger.
func NewHandlerWithLogger(flow AuthFlow, users UserGetter, webSessions auth.WebSessionStore, metrics *observability.Metrics, logger *slog.Logger) (*Handler, error) {
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	h, err := NewHandler(flow, users, webSessions, metrics)
	if err != nil {
		return nil, err
	}
	h.logger = logger
	return h, nil
}

// SetSessionExpiry overrides the web session lifetime.
func (h *Handler) SetSessionExpiry(d time.Duration) {
	if d > 0 {
		h.sessionExpiry = d
	}
}

// Routes returns the HTTP handler for all authentication routes.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /auth/signup", h.handleSignupForm)
	mux.HandleFunc("POST /auth/signup", h.handleSignup)
	mux.HandleFunc("GET /auth/login", h.handleLoginForm)
	mux.HandleFunc("POST /auth/login", h.handleLogin)
	mux.HandleFunc("GET /auth/logout", h.handleLogout)
	return mux
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	session, _ := h.resolveSession(r)
	h.renderIndex(w, r, session.CurrentUser())
}

func (h *Handler) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	session, _ := h.resolveSession(r)
	if session.Authenticated() {
		h.redirect(w, r, auth.RedirectHome)
		return
	}
	h.renderForm(w, r, signupPage, popFlash(w, r, signupFlashCookie))
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	session, _ := h.resolveSession(r)
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	outcome := h.flow.Signup(r.Context(), session, username, password)
	h.countAuth("signup", outcome)
	h.finishAuth(w, r, session, outcome, signupFlashCookie)
}

func (h *Handler) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	session, _ := h.resolveSession(r)
	if session.Authenticated() {
		h.redirect(w, r, auth.RedirectHome)
		return
	}
	h.renderForm(w, r, loginPage, popFlash(w, r, loginFlashCookie))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	session, _ := h.resolveSession(r)
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	outcome := h.flow.Login(r.Context(), session, username, password)
	h.countAuth("login", outcome)
	h.finishAuth(w, r, session, outcome, loginFlashCookie)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, webSession := h.resolveSession(r)

	// Best effort: a store failure must not keep the user logged in.
	if webSession != nil {
		if err := h.webSessions.Delete(r.Context(), webSession.ID); err != nil && !errors.Is(err, auth.ErrNotFound) {
			errutil.LogError(h.logger, "failed to delete web session on logout", err)
		}
	}
	clearSessionCookie(w)

	outcome := h.flow.Logout(session)
	if h.metrics != nil {
		h.metrics.LogoutsTotal.Inc()
	}
	h.redirect(w, r, outcome.Redirect)
}

// finishAuth turns a signup/login outcome into the HTTP response: a fresh
// web session and cookie on success, a flash message and redirect back to
// the form otherwise.
func (h *Handler) finishAuth(w http.ResponseWriter, r *http.Request, session *auth.Session, outcome auth.Outcome, flashCookie string) {
	if !outcome.OK() {
		setFlash(w, flashCookie, outcome.Message)
		h.redirect(w, r, outcome.Redirect)
		return
	}

	// The redundancy guard succeeded without a transition; the existing
	// cookie keeps working.
	if !outcome.AlreadyAuthenticated {
		if err := h.establishWebSession(r.Context(), w, session.CurrentUser()); err != nil {
			errutil.LogError(h.logger, "failed to establish web session", err)
			// The account state is committed; losing the cookie only costs
			// the user a fresh login.
			setFlash(w, flashCookie, auth.MsgStorageFailure)
		}
	}
	h.redirect(w, r, outcome.Redirect)
}

// establishWebSession creates the persistent session and sets its cookie.
func (h *Handler) establishWebSession(ctx context.Context, w http.ResponseWriter, user *auth.User) error {
	token, tokenHash, err := auth.GenerateSessionToken()
	if err != nil {
		return err
	}

	webSession, err := auth.NewWebSession(user.ID, tokenHash, time.Now().Add(h.sessionExpiry))
	if err != nil {
		return err
	}

	if err := h.webSessions.Create(ctx, webSession); err != nil {
		return err
	}

	setSessionCookie(w, token, h.sessionExpiry)
	return nil
}

func (h *Handler) countAuth(op string, outcome auth.Outcome) {
	if h.metrics == nil {
		return
	}
	switch op {
	case "signup":
		h.metrics.SignupsTotal.WithLabelValues(outcome.Kind.String()).Inc()
	case "login":
		h.metrics.LoginsTotal.WithLabelValues(outcome.Kind.String()).Inc()
	}
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, target string) {
	if h.metrics != nil {
		h.metrics.HTTPRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(http.StatusSeeOther)).Inc()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
