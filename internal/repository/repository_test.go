package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gigboard-dev/gigboard/internal/config"
	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var repo *repository.Repository

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	container, err := postgres.Run(
		ctx,
		"postgres:latest",
		postgres.WithDatabase("gigboard"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		log.Fatalf("failed to start postgres: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("failed to get connection string: %v", err)
	}
	dbpool, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	cfg := &config.Config{}
	cfg.Database.QueryTimeout = 10
	cfg.Database.TransactionTimeout = 20
	repo = repository.NewRepository(cfg, dbpool)
	if err := repo.Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}
	// the schema is idempotent
	if err := repo.Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate twice: %v", err)
	}

	code := m.Run()

	_ = dbpool.Close()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if repo == nil {
		t.Skip("needs docker, skipped in short mode")
	}
}

func newProfile(t *testing.T, role domain.Role, name string) *domain.Profile {
	t.Helper()
	ctx := context.Background()

	id := uuid.New()
	email := id.String() + "@example.com"
	require.NoError(t, repo.CreateUser(ctx, &domain.User{ID: id, Email: email, PasswordHash: "hash"}))

	profile := &domain.Profile{ID: id, Email: email, FullName: name, Role: role, Skills: []string{"lifting"}}
	require.NoError(t, repo.InsertProfile(ctx, profile))
	return profile
}

func newJob(t *testing.T, employer *domain.Profile, title string) *domain.Job {
	t.Helper()
	job := &domain.Job{
		ID:          uuid.New(),
		Title:       title,
		Description: "Description of " + title,
		Category:    "moving",
		Location:    "Berlin",
		Payment:     80,
		Duration:    4,
		Date:        time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second),
		Status:      domain.JobStatusOpen,
		EmployerID:  employer.ID,
	}
	require.NoError(t, repo.InsertJob(context.Background(), job))
	return job
}

func TestUserEmailIsUnique(t *testing.T) {
	requireDB(t)
	ctx := context.Background()

	user := &domain.User{ID: uuid.New(), Email: "unique-" + uuid.NewString() + "@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.CreateUser(ctx, user))

	err := repo.CreateUser(ctx, &domain.User{ID: uuid.New(), Email: user.Email, PasswordHash: "hash"})
	var constraintErr *repository.ConstraintError
	require.ErrorAs(t, err, &constraintErr)
	assert.Equal(t, "users_email_key", constraintErr.Constraint)

	got, err := repo.GetUserByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestProfilePartialUpdate(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	profile := newProfile(t, domain.RoleWorker, "Wanda Worker")

	bio := "Strong and punctual"
	updated, err := repo.UpdateProfile(ctx, profile.ID, &domain.ProfilePatch{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)
	assert.Equal(t, "Wanda Worker", updated.FullName)
	assert.Equal(t, []string{"lifting"}, updated.Skills)

	_, err = repo.UpdateProfile(ctx, uuid.New(), &domain.ProfilePatch{Bio: &bio})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSelectOpenJobsWithEmployer(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	employer := newProfile(t, domain.RoleEmployer, "Erika Boss")
	first := newJob(t, employer, "First")
	second := newJob(t, employer, "Second")

	completed := domain.JobStatusCompleted
	closed, err := repo.UpdateJobs(ctx, (&repository.Query{}).Eq("id", first.ID), &domain.JobPatch{Status: &completed})
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, domain.JobStatusCompleted, closed[0].Status)

	q := (&repository.Query{Embed: []string{repository.EmbedEmployer}, OrderBy: "created_at", Descending: true}).
		Eq("status", string(domain.JobStatusOpen)).
		Eq("employer_id", employer.ID)
	jobs, err := repo.SelectJobs(ctx, q)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, second.ID, jobs[0].ID)
	require.NotNil(t, jobs[0].Employer)
	assert.Equal(t, "Erika Boss", jobs[0].Employer.FullName)
	assert.Equal(t, 80.0, jobs[0].Payment)
}

func TestApplicationsAreUniquePerWorker(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	employer := newProfile(t, domain.RoleEmployer, "Erika Boss")
	worker := newProfile(t, domain.RoleWorker, "Wanda Worker")
	job := newJob(t, employer, "Piano move")

	application := &domain.Application{ID: uuid.New(), JobID: job.ID, WorkerID: worker.ID, Message: "I can help", ProfileSnapshot: worker}
	notice := &domain.Notification{ID: uuid.New(), UserID: employer.ID, Type: domain.NotificationNewApplication, Message: "new"}
	require.NoError(t, repo.InsertApplication(ctx, application, notice))
	assert.Equal(t, domain.ApplicationStatusPending, application.Status)

	err := repo.InsertApplication(ctx, &domain.Application{ID: uuid.New(), JobID: job.ID, WorkerID: worker.ID}, nil)
	var constraintErr *repository.ConstraintError
	require.True(t, errors.As(err, &constraintErr), "got %v", err)
	assert.Equal(t, domain.ApplicationUniqueConstraint, constraintErr.Constraint)

	got, err := repo.GetApplication(ctx, application.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ProfileSnapshot)
	assert.Equal(t, "Wanda Worker", got.ProfileSnapshot.FullName)

	notifications, err := repo.SelectNotifications(ctx, (&repository.Query{}).Eq("user_id", employer.ID))
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.False(t, notifications[0].Read)
}

func TestApplicationStatusAndNotificationsRead(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	employer := newProfile(t, domain.RoleEmployer, "Erika Boss")
	worker := newProfile(t, domain.RoleWorker, "Wanda Worker")
	job := newJob(t, employer, "Piano move")

	application := &domain.Application{ID: uuid.New(), JobID: job.ID, WorkerID: worker.ID}
	require.NoError(t, repo.InsertApplication(ctx, application, nil))

	notice := &domain.Notification{ID: uuid.New(), UserID: worker.ID, Type: domain.NotificationApplicationStatus, Message: "accepted"}
	updated, err := repo.UpdateApplicationStatus(ctx, application.ID, domain.ApplicationStatusAccepted, notice)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusAccepted, updated.Status)

	q := (&repository.Query{}).Eq("id", notice.ID).Eq("user_id", worker.ID)
	for i := 0; i < 2; i++ {
		rows, err := repo.SetNotificationsRead(ctx, q, true)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].Read)
	}

	rows, err := repo.SetNotificationsRead(ctx, (&repository.Query{}).Eq("id", notice.ID).Eq("user_id", employer.ID), true)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestObjectsArePutOnce(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	worker := newProfile(t, domain.RoleWorker, "Wanda Worker")

	obj := &domain.Object{Bucket: domain.AvatarBucket, Path: worker.ID.String() + "/me.png", Owner: worker.ID, ContentType: "image/png", Data: []byte("png")}
	require.NoError(t, repo.PutObject(ctx, obj))

	var constraintErr *repository.ConstraintError
	assert.ErrorAs(t, repo.PutObject(ctx, obj), &constraintErr)

	got, err := repo.GetObject(ctx, obj.Bucket, obj.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), got.Data)

	_, err = repo.GetObject(ctx, obj.Bucket, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
