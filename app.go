package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
)

const sessionName = "session"

type ctxKey int

const (
	connKey ctxKey = iota
	userKey
)

// App carries the shared handles every handler needs: the connection
// pool and the cookie store. All per-request state lives on the request
// context instead.
type App struct {
	db    *sql.DB
	store *sessions.CookieStore
}

func newApp(cfg Config, db *sql.DB) *App {
	store := sessions.NewCookieStore([]byte(cfg.SecretKey))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
	}
	return &App{db: db, store: store}
}

func (app *App) router() http.Handler {
	r := mux.NewRouter()

	r.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	r.HandleFunc("/", app.index).Methods(http.MethodGet)
	r.HandleFunc("/register", app.register).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/login", app.login).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/logout", app.logout).Methods(http.MethodPost)

	r.HandleFunc("/create", app.requireLogin(app.createPost)).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/{id:[0-9]+}/update", app.requireLogin(app.updatePost)).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/{id:[0-9]+}/delete", app.requireLogin(app.deletePost)).Methods(http.MethodPost)

	r.Use(app.withConn, app.loadCurrentUser)

	return withRecover(withLogging(r))
}

// withConn attaches a lazy database connection to the request context and
// releases it once the handler is done, whatever the outcome.
func (app *App) withConn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := &requestConn{db: app.db}
		defer rc.close()
		ctx := context.WithValue(r.Context(), connKey, rc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loadCurrentUser resolves the session's user id into a User on every
// request. A session pointing at a deleted user is treated as logged out.
func (app *App) loadCurrentUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := app.store.Get(r, sessionName)
		if id, ok := session.Values["user_id"].(int64); ok {
			if u := app.getUserByID(r.Context(), id); u != nil {
				r = r.WithContext(context.WithValue(r.Context(), userKey, u))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireLogin redirects anonymous requests to the login page.
func (app *App) requireLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r) == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next(w, r)
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// withRecover turns a handler panic into a 500 instead of killing the server.
func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
