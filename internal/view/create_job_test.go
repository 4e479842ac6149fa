package view_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/testutil"
	"github.com/gigboard-dev/gigboard/internal/view"
)

func validJobForm() view.CreateJobForm {
	return view.CreateJobForm{
		Title:       " Piano move ",
		Description: "Carry a piano up two floors",
		Category:    "moving",
		Location:    "Berlin",
		Payment:     "120.50",
		Duration:    "3",
		Date:        "2026-11-01T09:30",
	}
}

func TestCreateJobParse(t *testing.T) {
	b := testutil.NewBackend(t)
	env, _ := newEnv(t, b.Client())
	v, err := view.NewCreateJobView(env)
	require.NoError(t, err)

	job, err := v.Parse(validJobForm())
	require.NoError(t, err)
	assert.Equal(t, "Piano move", job.Title)
	assert.Equal(t, 120.5, job.Payment)
	assert.Equal(t, int32(3), job.Duration)
	assert.Equal(t, domain.JobStatusOpen, job.Status)
	assert.Equal(t, time.Date(2026, 11, 1, 9, 30, 0, 0, time.Local), job.Date)

	form := validJobForm()
	form.Payment = "0"
	form.Duration = "48"
	job, err = v.Parse(form)
	require.NoError(t, err)
	assert.Equal(t, 0.0, job.Payment)
	assert.Equal(t, int32(48), job.Duration)

	tests := []struct {
		name   string
		mutate func(f *view.CreateJobForm)
		msg    string
	}{
		{"missing title", func(f *view.CreateJobForm) { f.Title = "  " }, ""},
		{"unknown category", func(f *view.CreateJobForm) { f.Category = "plumbing" }, ""},
		{"payment not a number", func(f *view.CreateJobForm) { f.Payment = "lots" }, ""},
		{"payment negative", func(f *view.CreateJobForm) { f.Payment = "-5" }, "payment must not be negative"},
		{"duration zero", func(f *view.CreateJobForm) { f.Duration = "0" }, "duration must be at least 1 hour"},
		{"bad date", func(f *view.CreateJobForm) { f.Date = "next tuesday" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validJobForm()
			tt.mutate(&form)
			_, err := v.Parse(form)
			require.Error(t, err)
			if tt.msg != "" {
				assert.EqualError(t, err, tt.msg)
			}
		})
	}
}

func TestCreateJobOnlyForEmployers(t *testing.T) {
	b := testutil.NewBackend(t)
	worker := b.SignUp(t, "worker@example.com", "Wanda Worker", domain.RoleWorker)

	env, nav := newEnv(t, worker.Client)
	v, err := view.NewCreateJobView(env)
	require.NoError(t, err)
	assert.False(t, v.Allowed())

	_, err = v.Submit(ctx, validJobForm())
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, "Only employers can post jobs.", lastToast(t, env).Text)
	assert.Empty(t, nav.Last())
}

func TestCreateJobSubmit(t *testing.T) {
	b := testutil.NewBackend(t)
	employer := b.SignUp(t, "boss@example.com", "Erika Boss", domain.RoleEmployer)

	env, nav := newEnv(t, employer.Client)
	v, err := view.NewCreateJobView(env)
	require.NoError(t, err)
	require.True(t, v.Allowed())

	job, err := v.Submit(ctx, validJobForm())
	require.NoError(t, err)
	assert.Equal(t, employer.Profile.ID, job.EmployerID)
	assert.Equal(t, domain.JobStatusOpen, job.Status)
	assert.Equal(t, view.PathJobs, nav.Last())
	assert.Equal(t, "Job posted successfully!", lastToast(t, env).Text)

	form := validJobForm()
	form.Duration = "72"
	long, err := v.Submit(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, int32(72), long.Duration)

	form.Duration = "0"
	_, err = v.Submit(ctx, form)
	require.Error(t, err)
	assert.Equal(t, view.Toast{Kind: view.ToastError, Text: "duration must be at least 1 hour"}, withoutTime(lastToast(t, env)))
}
