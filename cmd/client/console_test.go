package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/facade"
	"github.com/gigboard-dev/gigboard/internal/router"
	"github.com/gigboard-dev/gigboard/internal/session"
	"github.com/gigboard-dev/gigboard/internal/testutil"
	"github.com/gigboard-dev/gigboard/internal/view"
)

func TestConsoleApplyFlow(t *testing.T) {
	b := testutil.NewBackend(t)
	employer := b.SignUp(t, "boss@example.com", "Erika Boss", domain.RoleEmployer)
	b.SignUp(t, "worker@example.com", "Wanda Worker", domain.RoleWorker)
	b.PostJob(t, employer, "Piano move", "moving")
	b.PostJob(t, employer, "Office cleaning", "cleaning")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := b.Client()
	f := facade.New(client)
	store := session.NewStore(client, f.Profiles)
	r := router.New(ctx, store)
	env := view.NewEnv(store, f, r, time.Minute)
	router.Register(r, env)
	require.NoError(t, store.Init(ctx))

	script := strings.Join([]string{
		"jobs",
		"search piano",
		"apply 1 I have a van",
		"login worker@example.com " + testutil.TestPassword,
		"notifications",
		"quit",
	}, "\n")
	var out bytes.Buffer
	c := newConsole(ctx, strings.NewReader(script), &out, env, r, f)
	r.OnChange(c.render)
	c.run()
	r.Close()

	text := out.String()
	assert.Contains(t, text, "Piano move by Erika Boss")
	assert.Contains(t, text, "[error] Please log in to apply for jobs")
	assert.Contains(t, text, "sign in with: login <email> <password>")
	assert.Contains(t, text, "[success] Logged in successfully!")
	assert.Contains(t, text, "[success] Application submitted successfully!")
	assert.Contains(t, text, "Wanda Worker /jobs> ")

	mine, err := f.Applications.ListMine(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "I have a van", mine[0].Message)
}

func TestConsoleUnknownCommand(t *testing.T) {
	b := testutil.NewBackend(t)
	ctx := context.Background()

	client := b.Client()
	f := facade.New(client)
	store := session.NewStore(client, f.Profiles)
	r := router.New(ctx, store)
	env := view.NewEnv(store, f, r, time.Minute)
	router.Register(r, env)
	require.NoError(t, store.Init(ctx))

	var out bytes.Buffer
	c := newConsole(ctx, strings.NewReader("dance\napply 1\nread 1\n"), &out, env, r, f)
	c.run()

	text := out.String()
	assert.Contains(t, text, `unknown command "dance"`)
	assert.Contains(t, text, "go to jobs first")
	assert.Contains(t, text, "sign in to see notifications")
}

func TestConsoleBellFollowsSignedInUser(t *testing.T) {
	b := testutil.NewBackend(t)
	employer := b.SignUp(t, "boss@example.com", "Erika Boss", domain.RoleEmployer)
	worker := b.SignUp(t, "worker@example.com", "Wanda Worker", domain.RoleWorker)
	job := b.PostJob(t, employer, "Piano move", "moving")
	_, err := facade.New(worker.Client).Jobs.Apply(context.Background(), job.ID, "I have a van")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := b.Client()
	f := facade.New(client)
	store := session.NewStore(client, f.Profiles)
	r := router.New(ctx, store)
	env := view.NewEnv(store, f, r, 10*time.Millisecond)
	router.Register(r, env)
	require.NoError(t, store.Init(ctx))
	defer r.Close()

	var out bytes.Buffer
	c := newConsole(ctx, strings.NewReader(""), &out, env, r, f)
	assert.Nil(t, c.currentBell())

	c.exec("login boss@example.com " + testutil.TestPassword)
	first := c.currentBell()
	require.NotNil(t, first)
	require.Eventually(t, func() bool { return len(first.Items()) == 1 }, 5*time.Second, 10*time.Millisecond)

	c.exec("login worker@example.com " + testutil.TestPassword)
	second := c.currentBell()
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
	assert.Equal(t, worker.Profile.ID, c.bellUser)

	select {
	case <-first.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("previous bell kept polling")
	}
	assert.Empty(t, second.Items())
	assert.Zero(t, second.Unread())

	c.exec("logout")
	assert.Nil(t, c.currentBell())
}
