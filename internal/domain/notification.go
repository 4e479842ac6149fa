package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationNewApplication    = "new_application"
	NotificationApplicationStatus = "application_status"
)

type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
