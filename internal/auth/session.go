// Package auth tracks whether the CLI holds a valid backend session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexanderramin/weekplan/internal/apiclient"
	"github.com/alexanderramin/weekplan/internal/app"
	"github.com/alexanderramin/weekplan/internal/domain"
)

// TokenKey is the blob key the bearer token is stored under.
const TokenKey = "auth_token"

// ErrNoBackend is returned by sign-in operations when no API URL is configured.
var ErrNoBackend = errors.New("no backend configured")

// Client is the slice of apiclient.Client a Session drives.
type Client interface {
	Register(ctx context.Context, reg domain.Registration) (*apiclient.AuthResult, error)
	Login(ctx context.Context, email, password string) (*apiclient.AuthResult, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, patch domain.ProfilePatch) (*domain.User, error)
	SetToken(token string)
	OnUnauthorized(fn func())
}

// Session is the app.AuthStatus backed by a stored bearer token. With a nil
// client it initializes as a permanent guest.
type Session struct {
	blobs  app.BlobStore
	client Client

	mu            sync.Mutex
	initialized   bool
	authenticated bool
	user          *domain.User
	ready         chan struct{}
	subs          map[int]func(bool)
	nextSub       int
}

var _ app.AuthStatus = (*Session)(nil)

func NewSession(blobs app.BlobStore, client Client) *Session {
	s := &Session{
		blobs:  blobs,
		client: client,
		ready:  make(chan struct{}),
		subs:   make(map[int]func(bool)),
	}
	if client != nil {
		client.OnUnauthorized(s.expire)
	}
	return s
}

// Initialize loads the stored token and validates it against the profile
// endpoint. A token that fails validation is discarded. Initialize always
// leaves the session initialized; the returned error is informational.
func (s *Session) Initialize(ctx context.Context) error {
	if s.IsInitialized() {
		return nil
	}
	if s.client == nil {
		s.finish(nil)
		return nil
	}

	raw, err := s.blobs.GetBlob(ctx, TokenKey)
	if errors.Is(err, app.ErrBlobNotFound) || (err == nil && len(raw) == 0) {
		s.finish(nil)
		return nil
	}
	if err != nil {
		s.finish(nil)
		return fmt.Errorf("reading stored token: %w", err)
	}

	s.client.SetToken(string(raw))
	u, err := s.client.Profile(ctx)
	if err != nil {
		s.clearToken(ctx)
		s.finish(nil)
		return fmt.Errorf("validating stored token: %w", err)
	}
	s.finish(u)
	return nil
}

func (s *Session) finish(u *domain.User) {
	s.mu.Lock()
	s.user = u
	s.authenticated = u != nil
	if !s.initialized {
		s.initialized = true
		close(s.ready)
	}
	s.mu.Unlock()
}

func (s *Session) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *Session) WaitInitialized(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// User returns the signed-in user, or nil.
func (s *Session) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) Subscribe(fn func(bool)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if s.client == nil {
		return nil, ErrNoBackend
	}
	res, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.adopt(ctx, res)
}

func (s *Session) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	if s.client == nil {
		return nil, ErrNoBackend
	}
	res, err := s.client.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	return s.adopt(ctx, res)
}

func (s *Session) adopt(ctx context.Context, res *apiclient.AuthResult) (*domain.User, error) {
	if err := s.blobs.PutBlob(ctx, TokenKey, []byte(res.Token)); err != nil {
		return nil, fmt.Errorf("storing token: %w", err)
	}
	s.client.SetToken(res.Token)
	u := res.User
	s.finish(&u)
	s.publish(true)
	return &u, nil
}

// Logout ends the backend session and forgets the token. The local state is
// cleared even when the backend call fails.
func (s *Session) Logout(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	var callErr error
	if s.IsAuthenticated() {
		callErr = s.client.Logout(ctx)
		if errors.Is(callErr, apiclient.ErrUnauthorized) {
			callErr = nil
		}
	}
	s.clearToken(ctx)
	s.signOut()
	return callErr
}

func (s *Session) UpdateProfile(ctx context.Context, patch domain.ProfilePatch) (*domain.User, error) {
	if s.client == nil {
		return nil, ErrNoBackend
	}
	u, err := s.client.UpdateProfile(ctx, patch)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	cp := *u
	s.user = &cp
	s.mu.Unlock()
	return u, nil
}

// expire runs when the backend rejects the token mid-session.
func (s *Session) expire() {
	s.clearToken(context.Background())
	s.signOut()
}

func (s *Session) clearToken(ctx context.Context) {
	s.client.SetToken("")
	_ = s.blobs.DeleteBlob(ctx, TokenKey)
}

func (s *Session) signOut() {
	s.mu.Lock()
	was := s.authenticated
	s.authenticated = false
	s.user = nil
	s.mu.Unlock()
	if was {
		s.publish(false)
	}
}

func (s *Session) publish(authenticated bool) {
	s.mu.Lock()
	fns := make([]func(bool), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(authenticated)
	}
}
