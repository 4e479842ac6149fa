// Package view holds the per-screen state of the client. Every view is mounted
// with a context that is canceled when the user navigates away; results that
// arrive after that are dropped.
package view

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/facade"
	"github.com/gigboard-dev/gigboard/internal/notify"
	"github.com/gigboard-dev/gigboard/internal/session"
)

const (
	PathHome      = "/"
	PathLogin     = "/login"
	PathSignUp    = "/signup"
	PathJobs      = "/jobs"
	PathProfile   = "/profile"
	PathCreateJob = "/create-job"
)

type View interface {
	Mount(ctx context.Context) error
}

type Navigator interface {
	Navigate(path string)
}

type JobService interface {
	ListOpen(ctx context.Context) ([]*domain.Job, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	ListPosted(ctx context.Context, employerID uuid.UUID) ([]*domain.Job, error)
	Create(ctx context.Context, job domain.NewJob) (*domain.Job, error)
	Apply(ctx context.Context, jobID uuid.UUID, message string) (*domain.Application, error)
}

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, patch domain.ProfilePatch) (*domain.Profile, error)
}

type ApplicationService interface {
	ListForJob(ctx context.Context, jobID uuid.UUID) ([]*domain.Application, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.ApplicationStatus) (*domain.Application, error)
}

type StorageService interface {
	UploadAvatar(ctx context.Context, userID uuid.UUID, filename string, data []byte) (string, error)
}

// Env is what every view gets handed.
type Env struct {
	Session       *session.Store
	Jobs          JobService
	Profiles      ProfileService
	Applications  ApplicationService
	Notifications notify.Source
	Storage       StorageService

	Toasts       *Toasts
	Nav          Navigator
	Intents      *Intents
	PollInterval time.Duration
}

func NewEnv(store *session.Store, f *facade.Facade, nav Navigator, pollInterval time.Duration) *Env {
	return &Env{
		Session:       store,
		Jobs:          f.Jobs,
		Profiles:      f.Profiles,
		Applications:  f.Applications,
		Notifications: f.Notifications,
		Storage:       f.Storage,
		Toasts:        NewToasts(DefaultToastLimit),
		Nav:           nav,
		Intents:       &Intents{},
		PollInterval:  pollInterval,
	}
}

func (e *Env) navigate(path string) {
	if e.Nav != nil {
		e.Nav.Navigate(path)
	}
}

// Scope is the lifetime of one mount.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

func (s *Scope) Context() context.Context {
	return s.ctx
}

func (s *Scope) Alive() bool {
	return s.ctx.Err() == nil
}

func (s *Scope) Close() {
	s.cancel()
}

// ApplyIntent is an apply the user tried while signed out.
type ApplyIntent struct {
	JobID   uuid.UUID
	Message string
}

// Intents survive navigation so an action can be finished after signing in.
type Intents struct {
	mu    sync.Mutex
	apply *ApplyIntent
}

func (i *Intents) SetApply(intent ApplyIntent) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.apply = &intent
}

func (i *Intents) PendingApply() (ApplyIntent, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.apply == nil {
		return ApplyIntent{}, false
	}
	return *i.apply, true
}

func (i *Intents) TakeApply() (ApplyIntent, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.apply == nil {
		return ApplyIntent{}, false
	}
	intent := *i.apply
	i.apply = nil
	return intent, true
}

func readAll(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}
