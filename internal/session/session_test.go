package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/remote"
)

type fakeAuth struct {
	mu         sync.Mutex
	session    *remote.Session
	getErr     error
	signInErr  error
	signOutErr error
	calls      []string
}

func (f *fakeAuth) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAuth) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAuth) GetSession(context.Context) (*remote.Session, error) {
	f.record("get")
	return f.session, f.getErr
}

func (f *fakeAuth) SignInWithPassword(_ context.Context, email, _ string) (*remote.Session, error) {
	f.record("signin " + email)
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.session, nil
}

func (f *fakeAuth) SignUp(_ context.Context, email, _ string) (*remote.Session, error) {
	f.record("signup " + email)
	return &remote.Session{User: &domain.User{ID: uuid.New(), Email: email}}, nil
}

func (f *fakeAuth) SignOut(context.Context) error {
	f.record("signout")
	return f.signOutErr
}

type fakeProfiles struct {
	profiles  map[uuid.UUID]*domain.Profile
	createErr error
}

func (f *fakeProfiles) Get(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfiles) Create(_ context.Context, p *domain.Profile) (*domain.Profile, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.profiles[p.ID] = p
	return p, nil
}

func newFixture() (*fakeAuth, *fakeProfiles, *domain.Profile) {
	p := &domain.Profile{ID: uuid.New(), Email: "w@example.com", FullName: "Wanda", Role: domain.RoleWorker}
	auth := &fakeAuth{session: &remote.Session{AccessToken: "t", User: &domain.User{ID: p.ID, Email: p.Email}}}
	profiles := &fakeProfiles{profiles: map[uuid.UUID]*domain.Profile{p.ID: p}}
	return auth, profiles, p
}

func TestInitResolvesAuthenticated(t *testing.T) {
	auth, profiles, p := newFixture()
	s := NewStore(auth, profiles)
	assert.Equal(t, Loading, s.State())

	require.NoError(t, s.Init(context.Background()))

	snap := s.Snapshot()
	assert.Equal(t, Authenticated, snap.State)
	assert.Equal(t, p.ID, snap.Identity().ID)
	assert.Equal(t, domain.RoleWorker, snap.Identity().Role)
	select {
	case <-s.Resolved():
	default:
		t.Fatal("store should be resolved")
	}
}

func TestInitWithoutSessionOrProfileIsAnonymous(t *testing.T) {
	auth, profiles, _ := newFixture()
	auth.session = nil
	s := NewStore(auth, profiles)
	require.NoError(t, s.Init(context.Background()))
	assert.Equal(t, Anonymous, s.State())

	auth, _, _ = newFixture()
	s = NewStore(auth, &fakeProfiles{profiles: map[uuid.UUID]*domain.Profile{}})
	require.NoError(t, s.Init(context.Background()))
	assert.Equal(t, Anonymous, s.State())
}

func TestInitBackendFailureResolvesAnonymous(t *testing.T) {
	auth, profiles, _ := newFixture()
	auth.getErr = errors.New("connection refused")
	s := NewStore(auth, profiles)

	assert.Error(t, s.Init(context.Background()))
	assert.Equal(t, Anonymous, s.State())
}

func TestSignUpWeakPasswordMakesNoBackendCall(t *testing.T) {
	auth, profiles, _ := newFixture()
	s := NewStore(auth, profiles)

	err := s.SignUp(context.Background(), SignUpInput{Email: "n@example.com", Password: "abcdefgh", FullName: "N", Role: domain.RoleWorker})
	assert.ErrorIs(t, err, domain.ErrWeakPassword)
	assert.Empty(t, auth.Calls())
	assert.Equal(t, Loading, s.State())

	err = s.SignUp(context.Background(), SignUpInput{Email: "n@example.com", Password: "Abcdef12", FullName: "N", Role: domain.RoleWorker})
	require.NoError(t, err)
	assert.Equal(t, []string{"signup n@example.com"}, auth.Calls())
	assert.Equal(t, Authenticated, s.State())
}

func TestSignUpProfileFailureSignsOut(t *testing.T) {
	auth, profiles, _ := newFixture()
	profiles.createErr = errors.New("insert failed")
	s := NewStore(auth, profiles)
	require.NoError(t, s.Init(context.Background()))
	before := s.State()

	err := s.SignUp(context.Background(), SignUpInput{Email: "N@Example.com ", Password: "Abcdef12", FullName: "N", Role: domain.RoleWorker})
	assert.ErrorIs(t, err, ErrProfileCreation)
	assert.Contains(t, err.Error(), "failed to create profile")
	assert.Equal(t, []string{"get", "signup n@example.com", "signout"}, auth.Calls())
	assert.Equal(t, before, s.State())
}

func TestSignInFailureLeavesStateUnchanged(t *testing.T) {
	auth, profiles, _ := newFixture()
	auth.session = nil
	s := NewStore(auth, profiles)
	require.NoError(t, s.Init(context.Background()))

	auth.signInErr = &remote.Error{Status: 400, Code: domain.CodeInvalidCredentials}
	err := s.SignIn(context.Background(), "w@example.com", "Wrong1234")
	assert.Error(t, err)
	assert.Equal(t, Anonymous, s.State())
}

func TestSignOutIsUnconditional(t *testing.T) {
	auth, profiles, _ := newFixture()
	s := NewStore(auth, profiles)
	require.NoError(t, s.Init(context.Background()))
	require.Equal(t, Authenticated, s.State())

	auth.signOutErr = errors.New("network down")
	assert.Error(t, s.SignOut(context.Background()))
	assert.Equal(t, Anonymous, s.State())
	assert.Nil(t, s.Snapshot().Identity())
}

func TestSubscribersSeeEveryChange(t *testing.T) {
	auth, profiles, _ := newFixture()
	s := NewStore(auth, profiles)

	var states []State
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		states = append(states, snap.State)
	})

	require.NoError(t, s.Init(context.Background()))
	require.NoError(t, s.SignOut(context.Background()))
	unsubscribe()
	require.NoError(t, s.SignIn(context.Background(), "w@example.com", "x"))

	assert.Equal(t, []State{Authenticated, Anonymous}, states)
}

func TestWaitBlocksUntilResolved(t *testing.T) {
	auth, profiles, _ := newFixture()
	s := NewStore(auth, profiles)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := s.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	go func() {
		_ = s.Init(context.Background())
	}()
	snap, err := s.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Authenticated, snap.State)
}

func TestSetProfileOnlyForSignedInUser(t *testing.T) {
	auth, profiles, p := newFixture()
	s := NewStore(auth, profiles)
	require.NoError(t, s.Init(context.Background()))

	edited := *p
	edited.Bio = "edited"
	s.SetProfile(&edited)
	assert.Equal(t, "edited", s.Snapshot().Profile.Bio)

	stranger := &domain.Profile{ID: uuid.New(), Bio: "stranger"}
	s.SetProfile(stranger)
	assert.Equal(t, "edited", s.Snapshot().Profile.Bio)
}
