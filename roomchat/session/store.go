// Package session holds the authenticated identity for a client session.
package session

import (
	"context"
	"sync"

	"github.com/roomchat/roomchat-sdk-go/roomchat/rest"
)

// Identity is the authenticated user plus its credential.
type Identity struct {
	ID       int64
	Username string
	IsMod    bool
	Token    string
}

// Store owns the current identity. It is created once per client session;
// the connection manager is created when an identity appears and torn down
// when it is cleared.
type Store struct {
	api *rest.Client

	mu      sync.Mutex
	current *Identity
}

// NewStore creates a store backed by the given REST client.
func NewStore(api *rest.Client) *Store {
	return &Store{api: api}
}

// Login authenticates and stores the resulting identity. The REST client is
// updated with the token so subsequent calls are authenticated.
func (s *Store) Login(ctx context.Context, username, password string) (Identity, error) {
	resp, err := s.api.Login(ctx, rest.LoginRequest{Username: username, Password: password})
	if err != nil {
		return Identity{}, err
	}

	id := Identity{
		ID:       resp.User.ID,
		Username: resp.User.Username,
		IsMod:    resp.User.IsMod,
		Token:    resp.AccessToken,
	}
	s.api.SetToken(id.Token)

	s.mu.Lock()
	s.current = &id
	s.mu.Unlock()
	return id, nil
}

// Register creates a new account. It does not log in.
func (s *Store) Register(ctx context.Context, username, password string) error {
	return s.api.Register(ctx, rest.RegisterRequest{Username: username, Password: password})
}

// Logout clears the identity. The server call is best effort; the local
// identity is cleared regardless so the connection manager tears down.
func (s *Store) Logout(ctx context.Context) error {
	err := s.api.Logout(ctx)

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.api.SetToken("")
	return err
}

// Current returns the authenticated identity, if any.
func (s *Store) Current() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Identity{}, false
	}
	return *s.current, true
}

// IsAuthenticated reports whether an identity is present.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}
