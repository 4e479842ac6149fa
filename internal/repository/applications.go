package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/gigboard-dev/gigboard/internal/domain"
)

const applicationColumns = `
	a.id, a.job_id, a.worker_id, a.status, COALESCE(a.message, ''), a.profile_snapshot, a.created_at
`

func scanApplication(row rowScanner) (*domain.Application, error) {
	application := &domain.Application{}
	var snapshot []byte

	dst := []any{&application.ID, &application.JobID, &application.WorkerID, &application.Status, &application.Message, &snapshot, &application.CreatedAt}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	if len(snapshot) > 0 {
		application.ProfileSnapshot = &domain.Profile{}
		if err := json.Unmarshal(snapshot, application.ProfileSnapshot); err != nil {
			return nil, fmt.Errorf("decode profile snapshot of application %s: %w", application.ID, err)
		}
	}

	return application, nil
}

func (r *Repository) SelectApplications(ctx context.Context, q *Query) ([]*domain.Application, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	where, args := whereClause(q, "a.", 1)
	if q.Viewer != uuid.Nil {
		args = append(args, q.Viewer)
		cond := fmt.Sprintf("(a.worker_id = $%d OR a.job_id IN (SELECT id FROM jobs WHERE employer_id = $%d))", len(args), len(args))
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
	}
	query := "SELECT " + applicationColumns + " FROM applications a" + where + orderClause(q, "a.", "created_at") + limitClause(q)

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applications := make([]*domain.Application, 0)
	for rows.Next() {
		application, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		applications = append(applications, application)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return applications, nil
}

func (r *Repository) GetApplication(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := "SELECT " + applicationColumns + " FROM applications a WHERE a.id = $1"

	return scanApplication(r.dbpool.QueryRowContext(ctx, query, id))
}

// InsertApplication stores the application together with the notice for the employer.
// The profile snapshot is copied from the applicant's current profile row.
func (r *Repository) InsertApplication(ctx context.Context, application *domain.Application, notice *domain.Notification) error {
	ctx, cancel := r.txContext(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if application.Status == "" {
		application.Status = domain.ApplicationStatusPending
	}

	var snapshot []byte
	if application.ProfileSnapshot != nil {
		if snapshot, err = json.Marshal(application.ProfileSnapshot); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO applications (id, job_id, worker_id, status, message, profile_snapshot)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6::jsonb)
		RETURNING created_at
	`
	args := []any{application.ID, application.JobID, application.WorkerID, application.Status, application.Message, sql.NullString{String: string(snapshot), Valid: snapshot != nil}}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&application.CreatedAt); err != nil {
		return translateError(err)
	}

	if notice != nil {
		if err := insertNotification(ctx, tx, notice); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// UpdateApplicationStatus sets the status of one application and stores the notice
// for the worker in the same transaction.
func (r *Repository) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status domain.ApplicationStatus, notice *domain.Notification) (*domain.Application, error) {
	ctx, cancel := r.txContext(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := "UPDATE applications a SET status = $1 WHERE a.id = $2 RETURNING " + applicationColumns
	application, err := scanApplication(tx.QueryRowContext(ctx, query, status, id))
	if err != nil {
		return nil, err
	}

	if notice != nil {
		if err := insertNotification(ctx, tx, notice); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return application, nil
}
