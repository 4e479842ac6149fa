// Package facade maps marketplace operations onto backend table calls and turns
// backend failures into the domain error kinds.
package facade

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/remote"
)

// Client is the part of the remote client the facade uses.
type Client interface {
	From(table string) *remote.Query
	CurrentSession() *remote.Session
	Upload(ctx context.Context, bucket, path, contentType string, body io.Reader) (*remote.UploadResult, error)
}

type Facade struct {
	Jobs          *Jobs
	Profiles      *Profiles
	Notifications *Notifications
	Applications  *Applications
	Storage       *Storage
}

func New(c Client) *Facade {
	return &Facade{
		Jobs:          &Jobs{c: c},
		Profiles:      &Profiles{c: c},
		Notifications: &Notifications{c: c},
		Applications:  &Applications{c: c},
		Storage:       &Storage{c: c},
	}
}

func caller(c Client) (*domain.User, error) {
	s := c.CurrentSession()
	if s == nil || s.User == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return s.User, nil
}

// translate maps a backend error code onto a domain error. Anything without a
// more specific kind becomes a *domain.BackendError.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}

	var remoteErr *remote.Error
	if errors.As(err, &remoteErr) {
		switch remoteErr.Code {
		case domain.CodeDuplicateApplication:
			return domain.ErrDuplicateApplication
		case domain.CodeNotAuthenticated:
			return domain.ErrNotAuthenticated
		case domain.CodeNotSingle, domain.CodeNotFound:
			return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		case domain.CodeForbidden:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrForbidden, remoteErr.Message)
		case domain.CodeWeakPassword:
			return domain.ErrWeakPassword
		}
	}
	return &domain.BackendError{Op: op, Err: err}
}
