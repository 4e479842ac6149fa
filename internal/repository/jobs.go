package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gigboard-dev/gigboard/internal/domain"
)

const jobColumns = `
	j.id, j.title, j.description, j.category, j.location, j.payment::float8, j.duration, j.date,
	j.status, j.employer_id, j.worker_id, j.created_at, COALESCE(p.full_name, '')
`

func scanJob(row rowScanner, embedEmployer bool) (*domain.Job, error) {
	job := &domain.Job{}
	var workerID uuid.NullUUID
	var employerName string

	dst := []any{&job.ID, &job.Title, &job.Description, &job.Category, &job.Location, &job.Payment, &job.Duration, &job.Date, &job.Status, &job.EmployerID, &workerID, &job.CreatedAt, &employerName}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	if workerID.Valid {
		job.WorkerID = &workerID.UUID
	}
	if embedEmployer {
		job.Employer = &domain.Employer{FullName: employerName}
	}

	return job, nil
}

func (r *Repository) SelectJobs(ctx context.Context, q *Query) ([]*domain.Job, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	where, args := whereClause(q, "j.", 1)
	query := "SELECT " + jobColumns + " FROM jobs j LEFT JOIN profiles p ON p.id = j.employer_id" + where + orderClause(q, "j.", "created_at") + limitClause(q)

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	embed := q.Embeds(EmbedEmployer)
	jobs := make([]*domain.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows, embed)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}

func (r *Repository) GetJob(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := "SELECT " + jobColumns + " FROM jobs j LEFT JOIN profiles p ON p.id = j.employer_id WHERE j.id = $1"

	return scanJob(r.dbpool.QueryRowContext(ctx, query, id), true)
}

func (r *Repository) InsertJob(ctx context.Context, job *domain.Job) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		INSERT INTO jobs (id, title, description, category, location, payment, duration, date, status, employer_id, worker_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`

	var workerID uuid.NullUUID
	if job.WorkerID != nil {
		workerID = uuid.NullUUID{UUID: *job.WorkerID, Valid: true}
	}

	args := []any{job.ID, job.Title, job.Description, job.Category, job.Location, job.Payment, job.Duration, job.Date, job.Status, job.EmployerID, workerID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&job.CreatedAt); err != nil {
		return translateError(err)
	}

	return nil
}

// UpdateJobs applies patch to every job matching q and returns the updated rows.
func (r *Repository) UpdateJobs(ctx context.Context, q *Query, patch *domain.JobPatch) ([]*domain.Job, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	sets := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if patch.Status != nil {
		args = append(args, *patch.Status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if patch.WorkerID != nil {
		args = append(args, *patch.WorkerID)
		sets = append(sets, fmt.Sprintf("worker_id = $%d", len(args)))
	}
	if len(sets) == 0 {
		return r.SelectJobs(ctx, q)
	}

	where, whereArgs := whereClause(q, "", len(args)+1)
	args = append(args, whereArgs...)

	// the join happens in a CTE so the returned rows carry the employer name
	query := fmt.Sprintf(`
		WITH j AS (UPDATE jobs SET %s%s RETURNING *)
		SELECT %s FROM j LEFT JOIN profiles p ON p.id = j.employer_id ORDER BY j.created_at DESC
	`, strings.Join(sets, ", "), where, jobColumns)

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	embed := q.Embeds(EmbedEmployer)
	jobs := make([]*domain.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows, embed)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}
