package domain

import (
	"time"

	"github.com/google/uuid"
)

const AvatarBucket = "avatars"

type Object struct {
	Bucket      string    `json:"bucket"`
	Path        string    `json:"path"`
	Owner       uuid.UUID `json:"owner"`
	ContentType string    `json:"content_type"`
	Data        []byte    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
