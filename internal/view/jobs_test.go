package view_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/facade"
	"github.com/gigboard-dev/gigboard/internal/search"
	"github.com/gigboard-dev/gigboard/internal/session"
	"github.com/gigboard-dev/gigboard/internal/testutil"
	"github.com/gigboard-dev/gigboard/internal/view"
)

func TestJobsViewFiltersLoadedJobs(t *testing.T) {
	b := testutil.NewBackend(t)
	employer := b.SignUp(t, "boss@example.com", "Erika Boss", domain.RoleEmployer)
	piano := b.PostJob(t, employer, "Piano move", "moving")
	b.PostJob(t, employer, "Wedding catering", "catering")
	b.PostJob(t, employer, "Office cleaning", "cleaning")

	env, _ := newEnv(t, b.Client())
	v := view.NewJobsView(env)
	assert.True(t, v.Loading())
	require.NoError(t, v.Mount(ctx))
	assert.False(t, v.Loading())
	assert.Len(t, v.All(), 3)
	assert.Len(t, v.Visible(), 3)

	v.SetQuery("PIANO")
	visible := v.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, piano.ID, visible[0].ID)

	v.SetQuery("")
	v.SetCategory("catering")
	visible = v.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Wedding catering", visible[0].Title)
	assert.Equal(t, search.Criteria{Category: "catering"}, v.Criteria())

	v.SetQuery("piano")
	assert.Empty(t, v.Visible())
	assert.Len(t, v.All(), 3)
}

func TestJobsViewDropsResultAfterUnmount(t *testing.T) {
	b := testutil.NewBackend(t)
	employer := b.SignUp(t, "boss@example.com", "Erika Boss", domain.RoleEmployer)
	b.PostJob(t, employer, "Piano move", "moving")

	env, _ := newEnv(t, b.Client())
	v := view.NewJobsView(env)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, v.Reload(canceled), context.Canceled)
	assert.True(t, v.Loading())
	assert.Empty(t, v.All())
	_, shown := env.Toasts.Last()
	assert.False(t, shown)
}

func TestJobsViewLoadFailureShowsToast(t *testing.T) {
	b := testutil.NewBackend(t)
	c := b.Client()
	env, _ := newEnv(t, c)
	b.Server.Close()

	v := view.NewJobsView(env)
	err := v.Reload(ctx)
	var backendErr *domain.BackendError
	assert.ErrorAs(t, err, &backendErr)
	assert.False(t, v.Loading())
	assert.Equal(t, "Failed to load jobs", lastToast(t, env).Text)
}

func TestApplySignedOutKeepsIntent(t *testing.T) {
	b := testutil.NewBackend(t)
	employer := b.SignUp(t, "boss@example.com", "Erika Boss", domain.RoleEmployer)
	job := b.PostJob(t, employer, "Piano move", "moving")

	env, nav := newEnv(t, b.Client())
	v := view.NewJobsView(env)

	_, err := v.Apply(ctx, job.ID, "I can help")
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.Equal(t, view.PathLogin, nav.Last())
	assert.Equal(t, view.Toast{Kind: view.ToastError, Text: "Please log in to apply for jobs"}, withoutTime(lastToast(t, env)))

	intent, ok := env.Intents.PendingApply()
	require.True(t, ok)
	assert.Equal(t, view.ApplyIntent{JobID: job.ID, Message: "I can help"}, intent)

	_, err = v.ResumePending(ctx)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	_, ok = env.Intents.PendingApply()
	assert.True(t, ok, "intent must survive until signed in")
}

func TestApplyWhileSessionLoadingWaits(t *testing.T) {
	b := testutil.NewBackend(t)
	employer := b.SignUp(t, "boss@example.com", "Erika Boss", domain.RoleEmployer)
	worker := b.SignUp(t, "worker@example.com", "Wanda Worker", domain.RoleWorker)
	job := b.PostJob(t, employer, "Piano move", "moving")

	f := facade.New(worker.Client)
	store := session.NewStore(worker.Client, f.Profiles)
	nav := &navRecorder{}
	env := view.NewEnv(store, f, nav, 10*time.Millisecond)
	require.Equal(t, session.Loading, store.State())

	type result struct {
		application *domain.Application
		err         error
	}
	done := make(chan result, 1)
	go func() {
		application, err := view.NewJobsView(env).Apply(ctx, job.ID, "I can help")
		done <- result{application, err}
	}()

	require.NoError(t, store.Init(ctx))
	select {
	case res := <-done:
		require.NoError(t, res.err)
		assert.Equal(t, worker.Profile.ID, res.application.WorkerID)
	case <-time.After(5 * time.Second):
		t.Fatal("apply did not finish after the session resolved")
	}
	assert.Empty(t, nav.Last())
	_, ok := env.Intents.PendingApply()
	assert.False(t, ok)
}

func TestApplyWhileSessionLoadingCanceled(t *testing.T) {
	b := testutil.NewBackend(t)
	c := b.Client()
	f := facade.New(c)
	nav := &navRecorder{}
	env := view.NewEnv(session.NewStore(c, f.Profiles), f, nav, 10*time.Millisecond)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err := view.NewJobsView(env).Apply(canceled, uuid.New(), "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, nav.Last())
	_, ok := env.Intents.PendingApply()
	assert.False(t, ok)
}

func TestApplyOutcomes(t *testing.T) {
	b := testutil.NewBackend(t)
	employer := b.SignUp(t, "boss@example.com", "Erika Boss", domain.RoleEmployer)
	worker := b.SignUp(t, "worker@example.com", "Wanda Worker", domain.RoleWorker)
	job := b.PostJob(t, employer, "Piano move", "moving")

	workerEnv, _ := newEnv(t, worker.Client)
	v := view.NewJobsView(workerEnv)

	application, err := v.Apply(ctx, job.ID, "I can help")
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusPending, application.Status)
	assert.Equal(t, "Application submitted successfully!", lastToast(t, workerEnv).Text)

	_, err = v.Apply(ctx, job.ID, "again")
	assert.ErrorIs(t, err, domain.ErrDuplicateApplication)
	assert.Equal(t, "You have already applied for this job", lastToast(t, workerEnv).Text)

	employerEnv, _ := newEnv(t, employer.Client)
	_, err = view.NewJobsView(employerEnv).Apply(ctx, job.ID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, "You cannot apply for this job", lastToast(t, employerEnv).Text)
}

func TestResumePendingWithoutIntent(t *testing.T) {
	b := testutil.NewBackend(t)
	worker := b.SignUp(t, "worker@example.com", "Wanda Worker", domain.RoleWorker)

	env, _ := newEnv(t, worker.Client)
	application, err := view.NewJobsView(env).ResumePending(ctx)
	assert.NoError(t, err)
	assert.Nil(t, application)
}

func withoutTime(t view.Toast) view.Toast {
	return view.Toast{Kind: t.Kind, Text: t.Text}
}
