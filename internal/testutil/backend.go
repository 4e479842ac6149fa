// Package testutil runs the real HTTP handler on an in-memory store for tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gigboard-dev/gigboard/internal/config"
	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/handler"
	"github.com/gigboard-dev/gigboard/internal/remote"
	"github.com/gigboard-dev/gigboard/internal/repository/memory"
)

// TestPassword satisfies the password rules.
const TestPassword = "Secret123"

// SessionCache is an in-memory stand-in for the Redis session cache.
type SessionCache struct {
	mu       sync.Mutex
	revoked  map[string]time.Time
	attempts map[string]int64
}

func NewSessionCache() *SessionCache {
	return &SessionCache{
		revoked:  make(map[string]time.Time),
		attempts: make(map[string]int64),
	}
}

func (c *SessionCache) Revoke(_ context.Context, jti string, until time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revoked[jti] = until
	return nil
}

func (c *SessionCache) IsRevoked(_ context.Context, jti string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	until, ok := c.revoked[jti]
	return ok && time.Now().Before(until), nil
}

func (c *SessionCache) AddFailedAttempt(_ context.Context, email string, _ time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts[email]++
	return c.attempts[email], nil
}

func (c *SessionCache) FailedAttempts(_ context.Context, email string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts[email], nil
}

func (c *SessionCache) ResetAttempts(_ context.Context, email string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.attempts, email)
	return nil
}

// Publisher records the events the handler publishes.
type Publisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

// Fail makes every following Publish return err.
func (p *Publisher) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *Publisher) Publish(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *Publisher) Events() []domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Event(nil), p.events...)
}

type Backend struct {
	Server *httptest.Server
	Store  *memory.Repository
	Cache  *SessionCache
	Events *Publisher
	Config *config.Config
}

func Config() *config.Config {
	cfg := &config.Config{Environment: "test"}
	cfg.Server.MaxUploadSize = 1 << 20
	cfg.Database.QueryTimeout = 5
	cfg.Database.TransactionTimeout = 5
	cfg.JWT.Expiration = 3600
	cfg.JWT.Secret = "test-secret"
	cfg.SignIn.MaxAttempts = 3
	cfg.SignIn.Window = 900
	return cfg
}

// NewBackend starts the API on an httptest server that is closed with the test.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		Store:  memory.New(),
		Cache:  NewSessionCache(),
		Events: &Publisher{},
		Config: Config(),
	}

	h, err := handler.NewHandler(b.Config, b.Store, b.Cache, b.Events)
	require.NoError(t, err)
	h.RegisterRoutes()

	b.Server = httptest.NewServer(h.Mux)
	b.Config.Server.PublicURL = b.Server.URL
	t.Cleanup(b.Server.Close)

	return b
}

func (b *Backend) Client(opts ...remote.Option) *remote.Client {
	return remote.New(b.Server.URL, opts...)
}

// User is a signed-up account with its profile and a signed-in client.
type User struct {
	Profile *domain.Profile
	Client  *remote.Client
}

// SignUp creates an account and profile and returns a client signed in as it.
func (b *Backend) SignUp(t testing.TB, email, fullName string, role domain.Role) *User {
	t.Helper()
	ctx := context.Background()

	c := b.Client()
	sess, err := c.SignUp(ctx, email, TestPassword)
	require.NoError(t, err)

	row := map[string]any{
		"id":        sess.User.ID,
		"full_name": fullName,
		"phone":     "0123456789",
		"role":      role,
		"skills":    []string{"lifting", "driving"},
	}
	var profile domain.Profile
	require.NoError(t, c.From("profiles").Insert(ctx, row, &profile))

	return &User{Profile: &profile, Client: c}
}

// PostJob creates an open job as employer, dated a week from now.
func (b *Backend) PostJob(t testing.TB, employer *User, title, category string) *domain.Job {
	t.Helper()

	row := domain.NewJob{
		Title:       title,
		Description: "Description of " + title,
		Category:    category,
		Location:    "Berlin",
		Payment:     80,
		Duration:    4,
		Date:        time.Now().Add(7 * 24 * time.Hour).UTC().Truncate(time.Second),
	}
	var job domain.Job
	require.NoError(t, employer.Client.From("jobs").Insert(context.Background(), row, &job))
	return &job
}

// Do sends a raw JSON request and decodes the envelope.
func (b *Backend) Do(t testing.TB, method, path, token string, body any, headers ...string) (int, handler.Response) {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, b.Server.URL+path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := b.Server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope handler.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, envelope
}

// DecodeData re-decodes the data of an envelope into out.
func DecodeData(t testing.TB, r handler.Response, out any) {
	t.Helper()
	b, err := json.Marshal(r.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, out))
}

func StringPtr(s string) *string {
	return &s
}

func UUIDPtr(id uuid.UUID) *uuid.UUID {
	return &id
}
