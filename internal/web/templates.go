// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package web

import (
	"html/template"
	"net/http"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/pkg/errutil"
)

type formPage struct {
	Title   string
	Action  string
	Submit  string
	AltHref string
	AltText string
}

var (
	signupPage = formPage{
		Title:   "Sign up",
		Action:  auth.RedirectSignup,
		Submit:  "Create account",
		AltHref: auth.RedirectLogin,
		AltText: "Already have an account? Log in",
	}
	loginPage = formPage{
		Title:   "Log in",
		Action:  auth.RedirectLogin,
		Submit:  "Log in",
		AltHref: auth.RedirectSignup,
		AltText: "Need an account? Sign up",
	}
)

var formTmpl = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Page.Title}} - Gatehouse</title></head>
<body>
<h1>{{.Page.Title}}</h1>
{{if .Message}}<p class="flash">{{.Message}}</p>{{end}}
<form method="post" action="{{.Page.Action}}">
  <label>Username <input type="text" name="username" autocomplete="username"></label>
  <label>Password <input type="password" name="password" autocomplete="current-password"></label>
  <button type="submit">{{.Page.Submit}}</button>
</form>
<p><a href="{{.Page.AltHref}}">{{.Page.AltText}}</a></p>
</body>
</html>
`))

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>Gatehouse</title></head>
<body>
{{if .Username}}
<p>Signed in as <strong>{{.Username}}</strong>.</p>
<p><a href="/auth/logout">Log out</a></p>
{{else}}
<p>You are not signed in.</p>
<p><a href="/auth/login">Log in</a> or <a href="/auth/signup">sign up</a>.</p>
{{end}}
</body>
</html>
`))

func (h *Handler) renderForm(w http.ResponseWriter, _ *http.Request, page formPage, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		Page    formPage
		Message string
	}{Page: page, Message: message}
	if err := formTmpl.Execute(w, data); err != nil {
		errutil.LogError(h.logger, "failed to render form", err)
	}
}

func (h *Handler) renderIndex(w http.ResponseWriter, _ *http.Request, user *auth.User) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ Username string }{}
	if user != nil {
		data.Username = user.Username
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		errutil.LogError(h.logger, "failed to render index", err)
	}
}
