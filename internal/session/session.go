// Package session reconstructs the signed-in user from a persisted bearer
// token and owns the logout path, including the forced logout that follows
// a 401 from the backend.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pageza/bitebox/frontend/internal/logger"
	"github.com/pageza/bitebox/frontend/internal/models"
	"github.com/pageza/bitebox/frontend/internal/types"
)

// DefaultTTL bounds how long a token is kept when it carries no exp claim.
const DefaultTTL = 24 * time.Hour

// ErrTokenExpired is returned by Login for a token already past its exp.
var ErrTokenExpired = errors.New("session token expired")

// Session is the authentication state of one browser session or CLI
// profile. The user identity is display data decoded from the token.
type Session struct {
	id    string
	store Store
	ttl   time.Duration
	now   func() time.Time
	log   *logger.Logger

	mu   sync.RWMutex
	user *models.User

	invalidated sync.Once
}

// Option configures a Session.
type Option func(*Session)

// WithTTL sets the fallback lifetime for tokens without exp.
func WithTTL(ttl time.Duration) Option {
	return func(s *Session) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Session) { s.log = logger.OrNop(l) }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a session bound to id in store. Call Load to pick up a
// previously persisted token.
func New(id string, store Store, opts ...Option) *Session {
	s := &Session{
		id:    id,
		store: store,
		ttl:   DefaultTTL,
		now:   time.Now,
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Load reads the persisted token and decodes the user from it. Missing,
// malformed or expired tokens leave the session logged out; a bad token is
// also removed from the store. Decode problems are never returned.
func (s *Session) Load(ctx context.Context) *models.User {
	token, err := s.store.Get(ctx, s.id)
	if err != nil {
		if !errors.Is(err, ErrNoToken) {
			s.log.Warnw("failed to read session token", "session", s.id, "error", err)
		}
		s.setUser(nil)
		return nil
	}

	claims, err := types.DecodeToken(token)
	if err == nil && claims.Expired(s.now()) {
		err = ErrTokenExpired
	}
	if err != nil {
		s.log.Debugw("discarding unusable session token", "session", s.id, "reason", err)
		_ = s.Logout(ctx)
		return nil
	}

	user := claims.User()
	s.setUser(user)
	return user
}

// Login decodes token, persists it and holds the user. Malformed and
// already expired tokens are rejected and nothing is stored.
func (s *Session) Login(ctx context.Context, token string) (*models.User, error) {
	claims, err := types.DecodeToken(token)
	if err != nil {
		return nil, err
	}

	ttl := s.ttl
	if claims.ExpiresAt != nil {
		remaining := claims.ExpiresAt.Time.Sub(s.now())
		if remaining <= 0 {
			return nil, ErrTokenExpired
		}
		if remaining < ttl {
			ttl = remaining
		}
	}

	if err := s.store.Set(ctx, s.id, token, ttl); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	user := claims.User()
	s.setUser(user)
	s.log.Infow("session started", "session", s.id, "user_id", user.ID)
	return user, nil
}

// Logout clears the persisted token and the held user. Calling it on a
// logged out session is a no-op.
func (s *Session) Logout(ctx context.Context) error {
	s.setUser(nil)
	if err := s.store.Delete(ctx, s.id); err != nil {
		s.log.Warnw("failed to clear session token", "session", s.id, "error", err)
		return err
	}
	return nil
}

// User returns the held user, or nil.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAuthenticated reports whether a user is held.
func (s *Session) IsAuthenticated() bool {
	return s.User() != nil
}

// Token returns the persisted token, or "" when there is none. It lets a
// Session act as the API client's token source.
func (s *Session) Token(ctx context.Context) (string, error) {
	token, err := s.store.Get(ctx, s.id)
	if errors.Is(err, ErrNoToken) {
		return "", nil
	}
	return token, err
}

// OnInvalidated returns the handler to install as the API client's 401
// slot. It logs the session out and calls navigate, at most once for this
// Session no matter how many requests fail or how concurrently.
func (s *Session) OnInvalidated(navigate func()) func() {
	return func() {
		s.invalidated.Do(func() {
			s.log.Infow("backend rejected session token, logging out", "session", s.id)
			_ = s.Logout(context.Background())
			if navigate != nil {
				navigate()
			}
		})
	}
}

func (s *Session) setUser(u *models.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}
