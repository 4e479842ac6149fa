package repository

import (
	"context"
	"database/sql"

	"github.com/gigboard-dev/gigboard/internal/domain"
)

const notificationColumns = `id, user_id, type, message, read, created_at`

type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanNotification(row rowScanner) (*domain.Notification, error) {
	n := &domain.Notification{}
	if err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.Read, &n.CreatedAt); err != nil {
		return nil, err
	}
	return n, nil
}

func insertNotification(ctx context.Context, db execer, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, message, read)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	return db.QueryRowContext(ctx, query, n.ID, n.UserID, n.Type, n.Message, n.Read).Scan(&n.CreatedAt)
}

func (r *Repository) InsertNotification(ctx context.Context, n *domain.Notification) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return insertNotification(ctx, r.dbpool, n)
}

func (r *Repository) SelectNotifications(ctx context.Context, q *Query) ([]*domain.Notification, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	where, args := whereClause(q, "", 1)
	query := "SELECT " + notificationColumns + " FROM notifications" + where + orderClause(q, "", "created_at") + limitClause(q)

	return r.queryNotifications(ctx, query, args...)
}

// SetNotificationsRead updates the read flag of every notification matching q.
// Rows that already have the flag are returned unchanged.
func (r *Repository) SetNotificationsRead(ctx context.Context, q *Query, read bool) ([]*domain.Notification, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	where, args := whereClause(q, "", 2)
	query := "UPDATE notifications SET read = $1" + where + " RETURNING " + notificationColumns

	return r.queryNotifications(ctx, query, append([]any{read}, args...)...)
}

func (r *Repository) queryNotifications(ctx context.Context, query string, args ...any) ([]*domain.Notification, error) {
	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]*domain.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}
