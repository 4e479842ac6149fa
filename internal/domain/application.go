package domain

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	return s == ApplicationStatusPending || s == ApplicationStatusAccepted || s == ApplicationStatusRejected
}

type Application struct {
	ID        uuid.UUID         `json:"id"`
	JobID     uuid.UUID         `json:"job_id"`
	WorkerID  uuid.UUID         `json:"worker_id"`
	Status    ApplicationStatus `json:"status"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"created_at"`

	// ProfileSnapshot is the applicant profile as it was when the application was made.
	ProfileSnapshot *Profile `json:"profile_snapshot"`
}

const ApplicationUniqueConstraint = "applications_job_id_worker_id_key"
