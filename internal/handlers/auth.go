package handlers

import (
	"net/http"
	"strings"

	"admin-console/internal/client"
	"admin-console/internal/controller"
	"admin-console/internal/session"
)

const (
	// MsgLoginFailed is shown when the backend gives no reason.
	MsgLoginFailed = "Login failed"
	// MsgProfileFailed is shown when /me fails for a reason other than auth.
	MsgProfileFailed = "Failed to fetch user data. Please login again."
)

// LoginViewModel holds data for the login page.
type LoginViewModel struct {
	Error  string
	Notice string
	Email  string
}

// LoginForm renders the login page.
func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	vm := LoginViewModel{}
	if r.URL.Query().Get("expired") != "" {
		vm.Notice = controller.MsgSessionExpired
	}
	h.render(w, r, "login.html", vm)
}

// Login exchanges the credentials for a backend token and starts a session.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, "login.html", LoginViewModel{Error: "Invalid form submission"})
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.render(w, r, "login.html", LoginViewModel{Error: "Email and password are required", Email: email})
		return
	}

	sess, err := h.backend.Login(r.Context(), email, password)
	if err != nil {
		msg := MsgLoginFailed
		if apiErr, ok := client.AsAPIError(err); ok && apiErr.Message != "" {
			msg = apiErr.Message
		} else if !ok {
			h.logger.Warn("login request failed", "error", err)
		}
		h.render(w, r, "login.html", LoginViewModel{Error: msg, Email: email})
		return
	}

	// A new login never reuses the previous browser session.
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		h.endSession(w, r, cookie.Value)
	}

	id, err := h.newSessionID()
	if err != nil {
		h.logger.Error("failed to generate session id", "error", err)
		h.render(w, r, "login.html", LoginViewModel{Error: "An error occurred. Please try again."})
		return
	}
	if err := session.Bind(h.sessions, id, h.sessionTTL).Set(r.Context(), sess); err != nil {
		h.logger.Error("failed to save session", "error", err)
		h.render(w, r, "login.html", LoginViewModel{Error: "An error occurred. Please try again."})
		return
	}

	h.setSessionCookie(w, id)
	h.redirect(w, r, "/dashboard")
}

// Logout ends the browser session.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	id := ""
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		id = cookie.Value
	}
	h.endSession(w, r, id)
	h.redirect(w, r, "/login")
}

// DashboardViewModel holds data for the dashboard.
type DashboardViewModel struct {
	Page
	Name  string
	Error string
}

// Dashboard greets the user with the profile fetched from /me.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	id, sess, _ := GetSessionFromContext(r)
	vm := DashboardViewModel{Page: newPage("Dashboard", "dashboard", sess)}

	user, err := h.backend.WithToken(sess.Token).Me(r.Context())
	switch {
	case client.IsAuthFailure(err):
		h.endSession(w, r, id)
		h.redirect(w, r, "/login")
		return
	case err != nil:
		h.logger.Warn("failed to fetch profile", "error", err)
		vm.Error = MsgProfileFailed
	default:
		vm.Name = user.Name
	}

	h.render(w, r, "dashboard.html", vm)
}
