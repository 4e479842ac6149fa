// Package router maps client paths to views and keeps signed-out users away from
// the screens that need an identity.
package router

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gigboard-dev/gigboard/internal/session"
	"github.com/gigboard-dev/gigboard/internal/view"
)

type Factory func() (view.View, error)

type Route struct {
	Path    string
	Guarded bool
	New     Factory
}

// Placeholder is shown on a guarded path while the session is still loading.
type Placeholder struct{}

func (Placeholder) Mount(context.Context) error { return nil }

func (Placeholder) Text() string { return "Loading..." }

type Router struct {
	parent  context.Context
	session *session.Store
	routes  map[string]Route

	mu       sync.Mutex
	path     string
	guarded  bool
	current  view.View
	scope    *view.Scope
	deferred string
	onChange func(path string, v view.View)
}

func New(parent context.Context, store *session.Store) *Router {
	r := &Router{
		parent:  parent,
		session: store,
		routes:  make(map[string]Route),
	}
	store.Subscribe(r.sessionChanged)
	return r
}

func (r *Router) Handle(path string, guarded bool, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[path] = Route{Path: path, Guarded: guarded, New: f}
}

// OnChange sets a callback run after every mount.
func (r *Router) OnChange(fn func(path string, v view.View)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

func (r *Router) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

func (r *Router) Current() view.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Context is the lifetime of the mounted view.
func (r *Router) Context() context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scope == nil {
		return r.parent
	}
	return r.scope.Context()
}

// Navigate unmounts the current view and mounts the one for path. Unknown paths
// go home.
func (r *Router) Navigate(path string) {
	r.mu.Lock()
	route, ok := r.routes[path]
	if !ok {
		route, ok = r.routes[view.PathHome]
		path = view.PathHome
	}
	if !ok {
		r.mu.Unlock()
		slog.Error("no route registered", "path", path)
		return
	}

	if route.Guarded {
		switch r.session.State() {
		case session.Loading:
			r.deferred = path
			r.mountLocked(path, true, Placeholder{})
			return
		case session.Anonymous:
			r.deferred = ""
			r.mu.Unlock()
			r.Navigate(view.PathLogin)
			return
		}
	}
	r.deferred = ""

	v, err := route.New()
	if err != nil {
		r.mu.Unlock()
		slog.Error("failed to create view", "path", path, "error", err)
		return
	}
	r.mountLocked(path, route.Guarded, v)
}

// mountLocked is called with r.mu held and releases it.
func (r *Router) mountLocked(path string, guarded bool, v view.View) {
	if r.scope != nil {
		r.scope.Close()
	}
	scope := view.NewScope(r.parent)
	r.scope = scope
	r.path = path
	r.guarded = guarded
	r.current = v
	onChange := r.onChange
	r.mu.Unlock()

	if err := v.Mount(scope.Context()); err != nil && !errors.Is(err, context.Canceled) {
		slog.Warn("failed to mount view", "path", path, "error", err)
	}
	if onChange != nil && scope.Alive() {
		onChange(path, v)
	}
}

// Close unmounts the current view.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scope != nil {
		r.scope.Close()
	}
	r.current = nil
}

func (r *Router) sessionChanged(snap session.Snapshot) {
	r.mu.Lock()
	deferred := r.deferred
	guarded := r.guarded
	r.mu.Unlock()

	switch {
	case snap.State == session.Loading:
	case deferred != "":
		r.Navigate(deferred)
	case guarded && snap.State == session.Anonymous:
		r.Navigate(view.PathLogin)
	}
}
