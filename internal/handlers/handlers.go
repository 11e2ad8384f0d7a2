package handlers

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"admin-console/internal/auth"
	"admin-console/internal/client"
	"admin-console/internal/controller"
	"admin-console/internal/models"
	"admin-console/internal/resource"
	"admin-console/internal/session"
)

// Context key type to avoid collisions.
type contextKey string

const (
	// SessionContextKey is the context key for the authenticated browser session.
	SessionContextKey contextKey = "session"
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "session"
	// DefaultSessionDuration is how long sessions last (30 days).
	DefaultSessionDuration = 30 * 24 * time.Hour
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	sessions     session.Store
	backend      *client.Client
	registry     *controller.Registry
	templateDir  string
	secureCookie bool
	sessionTTL   time.Duration
	logger       *slog.Logger
}

// Option configures Handlers.
type Option func(*Handlers)

// WithSessionDuration sets the rolling session lifetime.
func WithSessionDuration(d time.Duration) Option {
	return func(h *Handlers) { h.sessionTTL = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handlers) { h.logger = l }
}

// WithRegistry shares a controller registry.
func WithRegistry(r *controller.Registry) Option {
	return func(h *Handlers) { h.registry = r }
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(sessions session.Store, backend *client.Client, templateDir string, secureCookie bool, opts ...Option) *Handlers {
	h := &Handlers{
		sessions:     sessions,
		backend:      backend,
		registry:     controller.NewRegistry(),
		templateDir:  templateDir,
		secureCookie: secureCookie,
		sessionTTL:   DefaultSessionDuration,
		logger:       slog.Default(),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Registry returns the controllers of all browser sessions.
func (h *Handlers) Registry() *controller.Registry {
	return h.registry
}

// browserSession is what RequireAuth stores in the request context.
type browserSession struct {
	ID      string
	Session models.Session
}

// GetSessionFromContext returns the authenticated session of the request.
func GetSessionFromContext(r *http.Request) (string, models.Session, bool) {
	bs, ok := r.Context().Value(SessionContextKey).(browserSession)
	if !ok {
		return "", models.Session{}, false
	}
	return bs.ID, bs.Session, true
}

// currentSession loads the session named by the request cookie.
func (h *Handlers) currentSession(r *http.Request) (string, session.Record, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", session.Record{}, false
	}
	rec, err := h.sessions.Load(r.Context(), cookie.Value)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			h.logger.Error("failed to load session", "error", err)
		}
		return "", session.Record{}, false
	}
	if !rec.Session.Authenticated() {
		return "", session.Record{}, false
	}
	return cookie.Value, rec, true
}

// RequireAuth wraps handlers to require authentication.
// Sessions are rolling: past the halfway point of its lifetime a session is
// renewed for another full period.
func (h *Handlers) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, rec, ok := h.currentSession(r)
		if !ok {
			h.clearSessionCookie(w)
			h.redirect(w, r, "/login")
			return
		}

		now := time.Now()
		if rec.ExpiresAt.Sub(now) < h.sessionTTL/2 {
			if err := h.sessions.Renew(r.Context(), id, now.Add(h.sessionTTL)); err == nil {
				h.setSessionCookie(w, id)
			} else {
				h.logger.Warn("failed to renew session", "error", err)
			}
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, browserSession{ID: id, Session: rec.Session})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PublicOnly sends authenticated browsers to the dashboard.
func (h *Handlers) PublicOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := h.currentSession(r); ok {
			h.redirect(w, r, "/dashboard")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Fallback handles every unmatched path.
func (h *Handlers) Fallback(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.currentSession(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// endSession removes every trace of a browser session.
func (h *Handlers) endSession(w http.ResponseWriter, r *http.Request, id string) {
	if id != "" {
		h.registry.Drop(id)
		if err := session.Bind(h.sessions, id, h.sessionTTL).Clear(r.Context()); err != nil {
			h.logger.Error("failed to delete session", "error", err)
		}
	}
	h.clearSessionCookie(w)
}

// redirect navigates the browser, using HX-Redirect for HTMX requests.
func (h *Handlers) redirect(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, path, http.StatusFound)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func (h *Handlers) newSessionID() (string, error) {
	return auth.GenerateSessionToken()
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// NavLink is one navigation entry.
type NavLink struct {
	Path   string
	Label  string
	Active bool
}

// Nav is the data of the navigation bar.
type Nav struct {
	Name    string
	Email   string
	Initial string
	// ShowResources is false when the session has a token but no profile.
	ShowResources bool
	Links         []NavLink
}

// Page is embedded by every authenticated page view model.
type Page struct {
	Title string
	Nav   Nav
}

func newPage(title, active string, s models.Session) Page {
	nav := Nav{Name: s.DisplayName(), Initial: "U", ShowResources: s.User != nil}
	if s.User != nil {
		nav.Email = s.User.Email
		if s.User.Name != "" {
			nav.Initial = strings.ToUpper(string([]rune(s.User.Name)[0:1]))
		}
	}
	nav.Links = append(nav.Links, NavLink{Path: "/dashboard", Label: "Dashboard", Active: active == "dashboard"})
	if nav.ShowResources {
		for _, def := range resource.All() {
			label := def.Capitalized() + "s"
			nav.Links = append(nav.Links, NavLink{Path: "/" + def.Name, Label: label, Active: active == def.Name})
		}
	}
	return Page{Title: title, Nav: nav}
}

func (h *Handlers) parse(files ...string) (*template.Template, error) {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = filepath.Join(h.templateDir, f)
	}
	return template.New(files[0]).Funcs(templateFuncs).ParseFiles(paths...)
}

var templateFuncs = template.FuncMap{
	"pathescape": url.PathEscape,
}

// render executes the page layout, or only its "content" block for HTMX requests.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, viewName string, data any) {
	tmpl, err := h.parse("base.html", "components.html", viewName)
	if err != nil {
		h.logger.Error("template error", "view", viewName, "error", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	target := "base.html"
	if isHTMX(r) {
		target = "content"
	}
	if err := tmpl.ExecuteTemplate(w, target, data); err != nil {
		h.logger.Error("template execution error", "view", viewName, "error", err)
	}
}

// renderFragment executes a single named template from components.html.
func (h *Handlers) renderFragment(w http.ResponseWriter, name string, data any) {
	tmpl, err := h.parse("components.html")
	if err != nil {
		h.logger.Error("template error", "fragment", name, "error", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("template execution error", "fragment", name, "error", err)
	}
}
