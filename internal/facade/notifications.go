package facade

import (
	"context"

	"github.com/google/uuid"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/repository"
)

type Notifications struct {
	c Client
}

// List returns the caller's notifications, newest first. The backend scopes the
// rows to the session.
func (n *Notifications) List(ctx context.Context) ([]*domain.Notification, error) {
	if _, err := caller(n.c); err != nil {
		return nil, err
	}

	var notifications []*domain.Notification
	err := n.c.From(repository.TableNotifications).
		Order("created_at", false).
		Execute(ctx, &notifications)
	if err != nil {
		return nil, translate("list notifications", err)
	}
	return notifications, nil
}

// MarkRead flips the read flag of one notification. Marking a read one again succeeds.
func (n *Notifications) MarkRead(ctx context.Context, id uuid.UUID) error {
	if _, err := caller(n.c); err != nil {
		return err
	}

	read := struct {
		Read bool `json:"read"`
	}{Read: true}

	var updated domain.Notification
	err := n.c.From(repository.TableNotifications).
		Eq("id", id).
		Single().
		Update(ctx, read, &updated)
	return translate("mark notification read", err)
}
