// Package session holds who is signed in. A Store is created once by the client
// and handed to everything that needs the identity.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/remote"
	"github.com/gigboard-dev/gigboard/internal/utils"
)

type State int

const (
	Loading State = iota
	Anonymous
	Authenticated
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Auth is the auth part of the remote client.
type Auth interface {
	GetSession(ctx context.Context) (*remote.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*remote.Session, error)
	SignUp(ctx context.Context, email, password string) (*remote.Session, error)
	SignOut(ctx context.Context) error
}

type Profiles interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
}

// Snapshot is the state at one point in time. Profile is nil unless Authenticated.
type Snapshot struct {
	State   State
	Profile *domain.Profile
}

func (s Snapshot) Identity() *domain.Identity {
	if s.Profile == nil {
		return nil
	}
	return s.Profile.Identity()
}

type SignUpInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
	Role     domain.Role
}

var ErrProfileCreation = errors.New("failed to create profile")

type Store struct {
	auth     Auth
	profiles Profiles

	mu          sync.Mutex
	state       State
	profile     *domain.Profile
	resolved    chan struct{}
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

func NewStore(auth Auth, profiles Profiles) *Store {
	return &Store{
		auth:        auth,
		profiles:    profiles,
		state:       Loading,
		resolved:    make(chan struct{}),
		subscribers: make(map[int]func(Snapshot)),
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{State: s.state}
	if s.profile != nil {
		p := *s.profile
		snap.Profile = &p
	}
	return snap
}

func (s *Store) State() State {
	return s.Snapshot().State
}

// Subscribe calls fn after every state change until the returned func is called.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Resolved is closed once the state has left Loading.
func (s *Store) Resolved() <-chan struct{} {
	return s.resolved
}

// Wait blocks until the state has left Loading.
func (s *Store) Wait(ctx context.Context) (Snapshot, error) {
	select {
	case <-s.resolved:
		return s.Snapshot(), nil
	case <-ctx.Done():
		return Snapshot{State: Loading}, ctx.Err()
	}
}

func (s *Store) set(state State, profile *domain.Profile) {
	s.mu.Lock()
	wasLoading := s.state == Loading
	s.state = state
	s.profile = profile
	snap := s.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	if wasLoading && state != Loading {
		close(s.resolved)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// Init resolves the stored session. A missing session or profile resolves to
// Anonymous; so does a backend failure, which is also returned.
func (s *Store) Init(ctx context.Context) error {
	sess, err := s.auth.GetSession(ctx)
	if err != nil {
		s.set(Anonymous, nil)
		return fmt.Errorf("restore session: %w", err)
	}
	if sess == nil || sess.User == nil {
		s.set(Anonymous, nil)
		return nil
	}

	profile, err := s.profiles.Get(ctx, sess.User.ID)
	if err != nil {
		s.set(Anonymous, nil)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load profile: %w", err)
	}

	s.set(Authenticated, profile)
	return nil
}

// SignIn leaves the state unchanged when it fails.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	sess, err := s.auth.SignInWithPassword(ctx, normalizeEmail(email), password)
	if err != nil {
		return err
	}

	profile, err := s.profiles.Get(ctx, sess.User.ID)
	if err != nil {
		if signOutErr := s.auth.SignOut(ctx); signOutErr != nil {
			slog.Warn("failed to drop session without profile", "error", signOutErr)
		}
		return fmt.Errorf("load profile: %w", err)
	}

	s.set(Authenticated, profile)
	return nil
}

// SignUp checks the password before anything is sent. When the profile row cannot
// be created the new account is signed out again.
func (s *Store) SignUp(ctx context.Context, in SignUpInput) error {
	if !utils.ValidatePassword(in.Password) {
		return domain.ErrWeakPassword
	}

	sess, err := s.auth.SignUp(ctx, normalizeEmail(in.Email), in.Password)
	if err != nil {
		return err
	}

	profile, err := s.profiles.Create(ctx, &domain.Profile{
		ID:       sess.User.ID,
		Email:    sess.User.Email,
		FullName: strings.TrimSpace(in.FullName),
		Phone:    strings.TrimSpace(in.Phone),
		Role:     in.Role,
	})
	if err != nil {
		if signOutErr := s.auth.SignOut(ctx); signOutErr != nil {
			slog.Warn("failed to sign out after profile creation failed", "error", signOutErr)
		}
		return fmt.Errorf("%w: %w", ErrProfileCreation, err)
	}

	s.set(Authenticated, profile)
	return nil
}

// SignOut always ends in Anonymous. The backend error, if any, is returned.
func (s *Store) SignOut(ctx context.Context) error {
	err := s.auth.SignOut(ctx)
	s.set(Anonymous, nil)
	return err
}

// SetProfile replaces the held profile after the owner edited it.
func (s *Store) SetProfile(profile *domain.Profile) {
	s.mu.Lock()
	if s.state != Authenticated || s.profile == nil || s.profile.ID != profile.ID {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.set(Authenticated, profile)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
