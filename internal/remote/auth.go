package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gigboard-dev/gigboard/internal/domain"
)

type Session struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *domain.User `json:"user"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionStore persists the session between runs of the client.
type SessionStore interface {
	Load() (*Session, error)
	Save(s *Session) error
	Clear() error
}

type MemorySessionStore struct {
	mu      sync.Mutex
	session *Session
}

func (m *MemorySessionStore) Load() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, nil
}

func (m *MemorySessionStore) Save(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	return nil
}

func (m *MemorySessionStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}

// FileSessionStore keeps the session as JSON in a file only the user can read.
type FileSessionStore struct {
	Path string
}

func (f *FileSessionStore) Load() (*Session, error) {
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (f *FileSessionStore) Save(s *Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, b, 0o600)
}

func (f *FileSessionStore) Clear() error {
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (c *Client) CurrentSession() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) AccessToken() string {
	if s := c.CurrentSession(); s != nil {
		return s.AccessToken
	}
	return ""
}

func (c *Client) setSession(s *Session) error {
	c.mu.Lock()
	c.session = s
	c.loaded = true
	c.mu.Unlock()

	if s == nil {
		return c.store.Clear()
	}
	return c.store.Save(s)
}

// GetSession returns the stored session after checking it with the backend.
// A missing, expired or revoked session yields nil without an error.
func (c *Client) GetSession(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	if !c.loaded {
		s, err := c.store.Load()
		if err != nil {
			c.mu.Unlock()
			return nil, err
		}
		c.session = s
		c.loaded = true
	}
	s := c.session
	c.mu.Unlock()

	if s == nil {
		return nil, nil
	}
	if s.Expired(time.Now()) {
		return nil, c.setSession(nil)
	}

	var user domain.User
	err := c.do(ctx, request{method: http.MethodGet, path: "/auth/v1/user"}, &user)
	if err != nil {
		var remoteErr *Error
		if errors.As(err, &remoteErr) && remoteErr.Status == http.StatusUnauthorized {
			return nil, c.setSession(nil)
		}
		return nil, err
	}

	refreshed := *s
	refreshed.User = &user

	c.mu.Lock()
	if c.session == s {
		c.session = &refreshed
	}
	c.mu.Unlock()
	return &refreshed, nil
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*Session, error) {
	body, err := jsonBody(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	var s Session
	if err := c.do(ctx, request{method: http.MethodPost, path: path, body: body}, &s); err != nil {
		return nil, err
	}
	if err := c.setSession(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	return c.authenticate(ctx, "/auth/v1/token", email, password)
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	return c.authenticate(ctx, "/auth/v1/signup", email, password)
}

// SignOut revokes the session on the backend. The local session is dropped even
// when the backend call fails.
func (c *Client) SignOut(ctx context.Context) error {
	var err error
	if c.AccessToken() != "" {
		err = c.do(ctx, request{method: http.MethodPost, path: "/auth/v1/logout"}, nil)
	}
	if clearErr := c.setSession(nil); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}
