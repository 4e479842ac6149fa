package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/facade"
	"github.com/gigboard-dev/gigboard/internal/testutil"
	"github.com/gigboard-dev/gigboard/internal/view"
)

func TestApplicantsViewReviewsApplications(t *testing.T) {
	b := testutil.NewBackend(t)
	employer := b.SignUp(t, "boss@example.com", "Erika Boss", domain.RoleEmployer)
	worker := b.SignUp(t, "worker@example.com", "Wanda Worker", domain.RoleWorker)
	job := b.PostJob(t, employer, "Piano move", "moving")

	application, err := facade.New(worker.Client).Jobs.Apply(ctx, job.ID, "I can help")
	require.NoError(t, err)

	env, _ := newEnv(t, employer.Client)
	v := view.NewApplicantsView(env, job.ID)
	require.NoError(t, v.Mount(ctx))
	assert.Equal(t, job.ID, v.Job().ID)
	require.Len(t, v.Applications(), 1)

	require.NoError(t, v.Accept(ctx, application.ID))
	assert.Equal(t, domain.ApplicationStatusAccepted, v.Applications()[0].Status)
	assert.Equal(t, "Application accepted", lastToast(t, env).Text)

	require.NoError(t, v.Reject(ctx, application.ID))
	assert.Equal(t, domain.ApplicationStatusRejected, v.Applications()[0].Status)
}

func TestApplicantsViewOnlyForOwner(t *testing.T) {
	b := testutil.NewBackend(t)
	employer := b.SignUp(t, "boss@example.com", "Erika Boss", domain.RoleEmployer)
	worker := b.SignUp(t, "worker@example.com", "Wanda Worker", domain.RoleWorker)
	job := b.PostJob(t, employer, "Piano move", "moving")

	env, _ := newEnv(t, worker.Client)
	err := view.NewApplicantsView(env, job.ID).Mount(ctx)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
