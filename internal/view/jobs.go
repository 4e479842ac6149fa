package view

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/search"
	"github.com/gigboard-dev/gigboard/internal/session"
)

type JobsView struct {
	env *Env

	mu       sync.Mutex
	loading  bool
	jobs     []*domain.Job
	criteria search.Criteria
}

func NewJobsView(env *Env) *JobsView {
	return &JobsView{env: env, loading: true}
}

// Mount loads the open jobs and finishes an apply started before signing in.
func (v *JobsView) Mount(ctx context.Context) error {
	if err := v.Reload(ctx); err != nil {
		return err
	}
	if _, err := v.ResumePending(ctx); err != nil && !errors.Is(err, domain.ErrNotAuthenticated) {
		slog.Warn("failed to resume application", "error", err)
	}
	return nil
}

func (v *JobsView) Reload(ctx context.Context) error {
	jobs, err := v.env.Jobs.ListOpen(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	v.mu.Lock()
	v.loading = false
	if err == nil {
		v.jobs = jobs
	}
	v.mu.Unlock()

	if err != nil {
		v.env.Toasts.Error("Failed to load jobs")
		return err
	}
	return nil
}

func (v *JobsView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

func (v *JobsView) SetQuery(query string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.criteria.Query = query
}

func (v *JobsView) SetCategory(category string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.criteria.Category = category
}

func (v *JobsView) Criteria() search.Criteria {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.criteria
}

// All returns the loaded jobs before filtering.
func (v *JobsView) All() []*domain.Job {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.jobs
}

// Visible returns the loaded jobs that match the search and category.
func (v *JobsView) Visible() []*domain.Job {
	v.mu.Lock()
	defer v.mu.Unlock()
	return search.Filter(v.jobs, v.criteria)
}

// Apply sends an application for jobID. It waits for a session that is still
// loading. A signed-out user is sent to the sign-in screen and the apply is kept
// for ResumePending.
func (v *JobsView) Apply(ctx context.Context, jobID uuid.UUID, message string) (*domain.Application, error) {
	snap, err := v.env.Session.Wait(ctx)
	if err != nil {
		return nil, err
	}
	if snap.State != session.Authenticated {
		v.env.Intents.SetApply(ApplyIntent{JobID: jobID, Message: message})
		v.env.Toasts.Error("Please log in to apply for jobs")
		v.env.navigate(PathLogin)
		return nil, domain.ErrNotAuthenticated
	}

	application, err := v.env.Jobs.Apply(ctx, jobID, message)
	switch {
	case err == nil:
		v.env.Toasts.Success("Application submitted successfully!")
	case errors.Is(err, domain.ErrDuplicateApplication):
		v.env.Toasts.Error("You have already applied for this job")
	case errors.Is(err, domain.ErrForbidden):
		v.env.Toasts.Error("You cannot apply for this job")
	default:
		v.env.Toasts.Error("Error applying for job")
	}
	return application, err
}

// ResumePending retries the apply remembered by a signed-out Apply. It returns
// nil, nil when there is nothing to resume.
func (v *JobsView) ResumePending(ctx context.Context) (*domain.Application, error) {
	if v.env.Session.State() != session.Authenticated {
		return nil, domain.ErrNotAuthenticated
	}

	intent, ok := v.env.Intents.TakeApply()
	if !ok {
		return nil, nil
	}
	return v.Apply(ctx, intent.JobID, intent.Message)
}
