package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/repository"
	"github.com/gigboard-dev/gigboard/internal/repository/memory"
)

func TestSeedFillsStore(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	s := NewSeeder(store, "Gigboard123", "example.com")

	employers, err := s.Users(ctx, 2, domain.RoleEmployer)
	require.NoError(t, err)
	workers, err := s.Users(ctx, 3, domain.RoleWorker)
	require.NoError(t, err)
	assert.NotEmpty(t, employers)
	assert.NotEmpty(t, workers)

	jobs, err := s.Jobs(ctx, 5)
	require.NoError(t, err)
	require.Len(t, jobs, 5)
	for _, job := range jobs {
		assert.Contains(t, []any{employers[0].ID, employers[len(employers)-1].ID}, job.EmployerID)
	}

	n, err := s.Applications(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, len(workers))

	applications, err := store.SelectApplications(ctx, &repository.Query{})
	require.NoError(t, err)
	assert.Len(t, applications, n)
	for _, a := range applications {
		assert.Equal(t, domain.ApplicationStatusPending, a.Status)
	}
}

func TestSeedJobsNeedsEmployers(t *testing.T) {
	s := NewSeeder(memory.New(), "Gigboard123", "example.com")

	_, err := s.Jobs(context.Background(), 3)
	assert.Error(t, err)

	_, err = s.Users(context.Background(), 0, domain.RoleWorker)
	assert.Error(t, err)
}
