// Package session holds the viewer's auth session: the bearer token, the
// cached profile, and the logout teardown path. The session is consumed
// read-only by the feed core; auth protocol internals live on the vendor
// side.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"fanfeed/internal/models"
	"fanfeed/internal/observability"
	"fanfeed/internal/storage"
)

// ErrNoSession is returned by Restore when no token is persisted.
var ErrNoSession = errors.New("no persisted session")

// Session is the auth collaborator consumed by the feed core.
type Session struct {
	mu      sync.RWMutex
	token   string
	user    *models.User
	creator *models.CreatorProfile

	store    storage.Store
	log      *observability.Logger
	teardown []func()
}

// New creates a session backed by the given store.
func New(store storage.Store) *Session {
	return &Session{
		store: store,
		log:   observability.Component("session"),
	}
}

// Restore loads the persisted token and rebuilds the viewer identity from
// it, preferring the cached profile JSON when present. The vendor signed
// the token; the client reads its claims without re-validating them.
func (s *Session) Restore(ctx context.Context) error {
	token, err := s.store.Get(ctx, storage.KeyAuthToken)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNoSession
		}
		return err
	}

	user, err := userFromToken(token)
	if err != nil {
		return err
	}

	// Cached profile wins over the thinner claim set.
	if raw, err := s.store.Get(ctx, storage.KeyProfile); err == nil {
		var cached models.User
		if err := json.Unmarshal([]byte(raw), &cached); err == nil && cached.ID == user.ID {
			user = &cached
		}
	}

	var creator *models.CreatorProfile
	if raw, err := s.store.Get(ctx, storage.KeyCreatorProfile); err == nil {
		var cached models.CreatorProfile
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			creator = &cached
		}
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.creator = creator
	s.mu.Unlock()

	s.log.Info("session restored", "user_id", user.ID, "subscribed", user.Subscribed)
	return nil
}

// SetToken stores a fresh token and rebuilds the identity from its claims.
func (s *Session) SetToken(ctx context.Context, token string) error {
	user, err := userFromToken(token)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, storage.KeyAuthToken, token); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
	return nil
}

// SaveProfile caches the full profile fetched from the API.
func (s *Session) SaveProfile(ctx context.Context, user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, storage.KeyProfile, string(raw)); err != nil {
		return err
	}
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return nil
}

// SaveCreatorProfile caches the creator profile fetched from the API.
func (s *Session) SaveCreatorProfile(ctx context.Context, profile *models.CreatorProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, storage.KeyCreatorProfile, string(raw)); err != nil {
		return err
	}
	s.mu.Lock()
	s.creator = profile
	s.mu.Unlock()
	return nil
}

// Token returns the current bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the viewer identity, nil when logged out.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// CreatorProfile returns the cached creator profile, possibly nil.
func (s *Session) CreatorProfile() *models.CreatorProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creator
}

// Subscribed reports whether the viewer has an active subscription.
func (s *Session) Subscribed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Subscribed
}

// OnTeardown registers a hook run during Logout, before local state is
// cleared. The feed core registers its Teardown here.
func (s *Session) OnTeardown(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardown = append(s.teardown, fn)
}

// Logout runs teardown hooks, wipes all persisted state, and zeroes the
// in-memory session. Safe to call when already logged out.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	hooks := s.teardown
	s.token = ""
	s.user = nil
	s.creator = nil
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}

	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.log.Info("session cleared")
	return nil
}

// userFromToken extracts the viewer identity from the vendor's JWT claims.
// Only HMAC-family tokens are accepted; anything else is malformed input.
func userFromToken(token string) (*models.User, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, models.NewUnauthorizedError("Malformed session token")
	}
	if _, ok := parsed.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, models.NewUnauthorizedError("Unexpected token signing method")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewUnauthorizedError("Invalid token claims")
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return nil, models.NewUnauthorizedError("Token missing subject")
	}
	id, err := strconv.Atoi(sub)
	if err != nil {
		return nil, models.NewUnauthorizedError("Token subject is not a user ID")
	}

	user := &models.User{ID: id}
	if name, ok := claims["name"].(string); ok {
		user.Name = name
	}
	if subscribed, ok := claims["subscribed"].(bool); ok {
		user.Subscribed = subscribed
	}
	return user, nil
}
