package repository

import (
	"context"

	"github.com/gigboard-dev/gigboard/internal/domain"
)

func (r *Repository) PutObject(ctx context.Context, obj *domain.Object) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		INSERT INTO objects (bucket, path, owner, content_type, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	args := []any{obj.Bucket, obj.Path, obj.Owner, obj.ContentType, obj.Data}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&obj.CreatedAt); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) GetObject(ctx context.Context, bucket, path string) (*domain.Object, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT owner, content_type, data, created_at FROM objects WHERE bucket = $1 AND path = $2
	`

	obj := &domain.Object{
		Bucket: bucket,
		Path:   path,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, bucket, path).Scan(&obj.Owner, &obj.ContentType, &obj.Data, &obj.CreatedAt); err != nil {
		return nil, err
	}

	return obj, nil
}
