package facade

import (
	"context"

	"github.com/google/uuid"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/repository"
)

type Applications struct {
	c Client
}

// ListForJob returns the applications for one of the caller's jobs, newest first.
func (a *Applications) ListForJob(ctx context.Context, jobID uuid.UUID) ([]*domain.Application, error) {
	if _, err := caller(a.c); err != nil {
		return nil, err
	}

	var applications []*domain.Application
	err := a.c.From(repository.TableApplications).
		Eq("job_id", jobID).
		Order("created_at", false).
		Execute(ctx, &applications)
	if err != nil {
		return nil, translate("list applications for job", err)
	}
	return applications, nil
}

// ListMine returns the applications the signed-in worker has made.
func (a *Applications) ListMine(ctx context.Context) ([]*domain.Application, error) {
	user, err := caller(a.c)
	if err != nil {
		return nil, err
	}

	var applications []*domain.Application
	err = a.c.From(repository.TableApplications).
		Eq("worker_id", user.ID).
		Order("created_at", false).
		Execute(ctx, &applications)
	if err != nil {
		return nil, translate("list my applications", err)
	}
	return applications, nil
}

func (a *Applications) SetStatus(ctx context.Context, id uuid.UUID, status domain.ApplicationStatus) (*domain.Application, error) {
	if _, err := caller(a.c); err != nil {
		return nil, err
	}

	patch := struct {
		Status domain.ApplicationStatus `json:"status"`
	}{Status: status}

	var application domain.Application
	err := a.c.From(repository.TableApplications).
		Eq("id", id).
		Single().
		Update(ctx, patch, &application)
	if err != nil {
		return nil, translate("set application status", err)
	}
	return &application, nil
}
