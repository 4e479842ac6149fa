package view

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gigboard-dev/gigboard/internal/domain"
)

// ApplicantsView lists the applications for one of the employer's jobs.
type ApplicantsView struct {
	env   *Env
	jobID uuid.UUID

	mu           sync.Mutex
	job          *domain.Job
	applications []*domain.Application
}

func NewApplicantsView(env *Env, jobID uuid.UUID) *ApplicantsView {
	return &ApplicantsView{env: env, jobID: jobID}
}

func (v *ApplicantsView) Mount(ctx context.Context) error {
	me := v.env.Session.Snapshot().Identity()
	if me == nil {
		return domain.ErrNotAuthenticated
	}

	var (
		job          *domain.Job
		applications []*domain.Application
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		job, err = v.env.Jobs.Get(gctx, v.jobID)
		return err
	})
	g.Go(func() error {
		var err error
		applications, err = v.env.Applications.ListForJob(gctx, v.jobID)
		return err
	})
	err := g.Wait()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		v.env.Toasts.Error("Failed to load applications")
		return err
	}
	if job.EmployerID != me.ID {
		v.env.Toasts.Error("Only the employer who posted this job can see its applicants")
		return domain.ErrForbidden
	}

	v.mu.Lock()
	v.job = job
	v.applications = applications
	v.mu.Unlock()
	return nil
}

func (v *ApplicantsView) Job() *domain.Job {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.job
}

func (v *ApplicantsView) Applications() []*domain.Application {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]*domain.Application(nil), v.applications...)
}

func (v *ApplicantsView) Accept(ctx context.Context, id uuid.UUID) error {
	return v.setStatus(ctx, id, domain.ApplicationStatusAccepted)
}

func (v *ApplicantsView) Reject(ctx context.Context, id uuid.UUID) error {
	return v.setStatus(ctx, id, domain.ApplicationStatusRejected)
}

func (v *ApplicantsView) setStatus(ctx context.Context, id uuid.UUID, status domain.ApplicationStatus) error {
	updated, err := v.env.Applications.SetStatus(ctx, id, status)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		v.env.Toasts.Error("Failed to update application")
		return err
	}

	v.mu.Lock()
	for i, a := range v.applications {
		if a.ID == id {
			v.applications[i] = updated
		}
	}
	v.mu.Unlock()

	v.env.Toasts.Success(fmt.Sprintf("Application %s", status))
	return nil
}
