// Package seed fills a database with random accounts, jobs and applications.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/repository"
	"github.com/gigboard-dev/gigboard/internal/utils"
)

// Store is the part of the repository the seeder writes to.
type Store interface {
	CreateUser(ctx context.Context, user *domain.User) error
	InsertProfile(ctx context.Context, profile *domain.Profile) error
	SelectProfiles(ctx context.Context, q *repository.Query) ([]*domain.Profile, error)
	InsertJob(ctx context.Context, job *domain.Job) error
	SelectJobs(ctx context.Context, q *repository.Query) ([]*domain.Job, error)
	InsertApplication(ctx context.Context, application *domain.Application, notice *domain.Notification) error
}

type Seeder struct {
	store       Store
	password    string
	emailDomain string
}

func NewSeeder(store Store, password, emailDomain string) *Seeder {
	return &Seeder{store: store, password: password, emailDomain: emailDomain}
}

// Users inserts n random accounts with role and returns the profiles that made it.
func (s *Seeder) Users(ctx context.Context, n int, role domain.Role) ([]*domain.Profile, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid user count %d", n)
	}

	profiles := make([]*domain.Profile, 0, n)
	for i := 0; i < n; i++ {
		user, profile, err := utils.GenerateRandomUser(s.password, s.emailDomain, role)
		if err != nil {
			return profiles, err
		}
		if err := s.store.CreateUser(ctx, user); err != nil {
			// random emails can collide, skip those
			slog.Warn("failed to insert user", "email", user.Email, "error", err)
			continue
		}
		if err := s.store.InsertProfile(ctx, profile); err != nil {
			slog.Warn("failed to insert profile", "email", user.Email, "error", err)
			continue
		}
		profiles = append(profiles, profile)
	}

	slog.Info("inserted users", "role", role, "count", len(profiles))
	return profiles, nil
}

func (s *Seeder) profiles(ctx context.Context, role domain.Role) ([]*domain.Profile, error) {
	q := (&repository.Query{}).Eq("role", string(role))
	return s.store.SelectProfiles(ctx, q)
}

// Jobs inserts n open jobs spread over the existing employers.
func (s *Seeder) Jobs(ctx context.Context, n int) ([]*domain.Job, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid job count %d", n)
	}

	employers, err := s.profiles(ctx, domain.RoleEmployer)
	if err != nil {
		return nil, err
	}
	if len(employers) == 0 {
		return nil, fmt.Errorf("no employers to post jobs, seed some first")
	}

	jobs := make([]*domain.Job, 0, n)
	for i := 0; i < n; i++ {
		job := utils.GenerateRandomJob(employers[rand.Intn(len(employers))].ID)
		if err := s.store.InsertJob(ctx, job); err != nil {
			return jobs, err
		}
		jobs = append(jobs, job)
	}

	slog.Info("inserted jobs", "count", len(jobs))
	return jobs, nil
}

// Applications lets every worker apply to a random subset of the open jobs. Each
// application leaves a notification for the employer like a real one does.
func (s *Seeder) Applications(ctx context.Context) (int, error) {
	workers, err := s.profiles(ctx, domain.RoleWorker)
	if err != nil {
		return 0, err
	}
	jobs, err := s.store.SelectJobs(ctx, (&repository.Query{}).Eq("status", string(domain.JobStatusOpen)))
	if err != nil {
		return 0, err
	}
	if len(workers) == 0 || len(jobs) == 0 {
		return 0, fmt.Errorf("need workers and open jobs, have %d and %d", len(workers), len(jobs))
	}

	cnt := 0
	for _, worker := range workers {
		for _, job := range utils.GenerateRandomSubset(jobs) {
			application := &domain.Application{
				ID:              uuid.New(),
				JobID:           job.ID,
				WorkerID:        worker.ID,
				Status:          domain.ApplicationStatusPending,
				ProfileSnapshot: worker,
			}
			notice := &domain.Notification{
				ID:      uuid.New(),
				UserID:  job.EmployerID,
				Type:    domain.NotificationNewApplication,
				Message: fmt.Sprintf("%s applied for your job %q", worker.FullName, job.Title),
			}
			if err := s.store.InsertApplication(ctx, application, notice); err != nil {
				// already applied in an earlier run
				slog.Warn("failed to insert application", "job", job.ID, "worker", worker.ID, "error", err)
				continue
			}
			cnt++
		}
	}

	slog.Info("inserted applications", "count", cnt)
	return cnt, nil
}
