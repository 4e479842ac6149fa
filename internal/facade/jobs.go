package facade

import (
	"context"

	"github.com/google/uuid"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/repository"
)

type Jobs struct {
	c Client
}

const jobsWithEmployer = "*," + repository.EmbedEmployer

// ListOpen returns the open jobs, newest first, with the employer name filled in.
func (j *Jobs) ListOpen(ctx context.Context) ([]*domain.Job, error) {
	var jobs []*domain.Job
	err := j.c.From(repository.TableJobs).
		Select(jobsWithEmployer).
		Eq("status", domain.JobStatusOpen).
		Order("created_at", false).
		Execute(ctx, &jobs)
	if err != nil {
		return nil, translate("list open jobs", err)
	}
	return jobs, nil
}

func (j *Jobs) Get(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	var job domain.Job
	err := j.c.From(repository.TableJobs).
		Select(jobsWithEmployer).
		Eq("id", id).
		Single().
		Execute(ctx, &job)
	if err != nil {
		return nil, translate("get job", err)
	}
	return &job, nil
}

// ListPosted returns every job the employer posted, whatever its status.
func (j *Jobs) ListPosted(ctx context.Context, employerID uuid.UUID) ([]*domain.Job, error) {
	var jobs []*domain.Job
	err := j.c.From(repository.TableJobs).
		Eq("employer_id", employerID).
		Order("created_at", false).
		Execute(ctx, &jobs)
	if err != nil {
		return nil, translate("list posted jobs", err)
	}
	return jobs, nil
}

// Create posts a job for the signed-in employer. The backend sets the employer id
// from the session token.
func (j *Jobs) Create(ctx context.Context, job domain.NewJob) (*domain.Job, error) {
	if _, err := caller(j.c); err != nil {
		return nil, err
	}

	var created domain.Job
	if err := j.c.From(repository.TableJobs).Insert(ctx, job, &created); err != nil {
		return nil, translate("create job", err)
	}
	return &created, nil
}

// Apply sends an application from the signed-in worker. A second application for
// the same job fails with domain.ErrDuplicateApplication.
func (j *Jobs) Apply(ctx context.Context, jobID uuid.UUID, message string) (*domain.Application, error) {
	if _, err := caller(j.c); err != nil {
		return nil, err
	}

	row := struct {
		JobID   uuid.UUID `json:"job_id"`
		Message string    `json:"message,omitempty"`
	}{JobID: jobID, Message: message}

	var application domain.Application
	if err := j.c.From(repository.TableApplications).Insert(ctx, row, &application); err != nil {
		return nil, translate("apply to job", err)
	}
	return &application, nil
}

// SetStatus is used by the employer, for example to mark a job completed.
func (j *Jobs) SetStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus) (*domain.Job, error) {
	if _, err := caller(j.c); err != nil {
		return nil, err
	}

	var job domain.Job
	err := j.c.From(repository.TableJobs).
		Eq("id", id).
		Single().
		Update(ctx, domain.JobPatch{Status: &status}, &job)
	if err != nil {
		return nil, translate("update job status", err)
	}
	return &job, nil
}
