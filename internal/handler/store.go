package handler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/repository"
)

// Store is the persistence the handler needs. *repository.Repository and
// *memory.Repository both implement it.
type Store interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	SelectProfiles(ctx context.Context, q *repository.Query) ([]*domain.Profile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	InsertProfile(ctx context.Context, profile *domain.Profile) error
	UpdateProfile(ctx context.Context, id uuid.UUID, patch *domain.ProfilePatch) (*domain.Profile, error)

	SelectJobs(ctx context.Context, q *repository.Query) ([]*domain.Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	InsertJob(ctx context.Context, job *domain.Job) error
	UpdateJobs(ctx context.Context, q *repository.Query, patch *domain.JobPatch) ([]*domain.Job, error)

	SelectApplications(ctx context.Context, q *repository.Query) ([]*domain.Application, error)
	GetApplication(ctx context.Context, id uuid.UUID) (*domain.Application, error)
	InsertApplication(ctx context.Context, application *domain.Application, notice *domain.Notification) error
	UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status domain.ApplicationStatus, notice *domain.Notification) (*domain.Application, error)

	SelectNotifications(ctx context.Context, q *repository.Query) ([]*domain.Notification, error)
	SetNotificationsRead(ctx context.Context, q *repository.Query, read bool) ([]*domain.Notification, error)

	PutObject(ctx context.Context, obj *domain.Object) error
	GetObject(ctx context.Context, bucket, path string) (*domain.Object, error)
}

// SessionCache tracks revoked tokens and failed sign-ins.
type SessionCache interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	AddFailedAttempt(ctx context.Context, email string, window time.Duration) (int64, error)
	FailedAttempts(ctx context.Context, email string) (int64, error)
	ResetAttempts(ctx context.Context, email string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
