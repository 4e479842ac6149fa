package domain

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusOpen      JobStatus = "open"
	JobStatusAssigned  JobStatus = "assigned"
	JobStatusCompleted JobStatus = "completed"
)

func (s JobStatus) Valid() bool {
	return s == JobStatusOpen || s == JobStatusAssigned || s == JobStatusCompleted
}

type Category struct {
	Value string
	Label string
}

var Categories = []Category{
	{Value: "moving", Label: "House Moving"},
	{Value: "catering", Label: "Catering"},
	{Value: "cleaning", Label: "Cleaning"},
	{Value: "gardening", Label: "Gardening"},
	{Value: "other", Label: "Other"},
}

type Employer struct {
	FullName string `json:"full_name"`
}

type Job struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Location    string     `json:"location"`
	Payment     float64    `json:"payment"`
	Duration    int32      `json:"duration"`
	Date        time.Time  `json:"date"`
	Status      JobStatus  `json:"status"`
	EmployerID  uuid.UUID  `json:"employer_id"`
	WorkerID    *uuid.UUID `json:"worker_id"`
	CreatedAt   time.Time  `json:"created_at"`

	// Employer is only filled when the employer embed is selected.
	Employer *Employer `json:"employer,omitempty"`
}

// NewJob is a job as submitted by an employer.
type NewJob struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	Payment     float64   `json:"payment"`
	Duration    int32     `json:"duration"`
	Date        time.Time `json:"date"`
	Status      JobStatus `json:"status,omitempty"`
}

type JobPatch struct {
	Status   *JobStatus `json:"status,omitempty"`
	WorkerID *uuid.UUID `json:"worker_id,omitempty"`
}
