package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/weekplan/internal/domain"
	"github.com/alexanderramin/weekplan/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultSessionTTL = 7 * 24 * time.Hour
	tokenBytes        = 32
)

// AuthConfig tunes session issuing. Zero values take the defaults.
type AuthConfig struct {
	SessionTTL time.Duration
	BcryptCost int
	Now        func() time.Time
}

type authService struct {
	users    repository.UserRepo
	sessions repository.AuthSessionRepo
	ttl      time.Duration
	cost     int
	now      func() time.Time
	observer UseCaseObserver
}

func NewAuthService(users repository.UserRepo, sessions repository.AuthSessionRepo, cfg AuthConfig, observers ...UseCaseObserver) AuthService {
	s := &authService{
		users:    users,
		sessions: sessions,
		ttl:      cfg.SessionTTL,
		cost:     cfg.BcryptCost,
		now:      cfg.Now,
		observer: useCaseObserverOrNoop(observers),
	}
	if s.ttl <= 0 {
		s.ttl = DefaultSessionTTL
	}
	if s.cost == 0 {
		s.cost = bcrypt.DefaultCost
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *authService) Register(ctx context.Context, reg domain.Registration) (res *AuthResult, err error) {
	defer observe(ctx, s.observer, "register", "", nil)(&err)

	reg = reg.Normalize()
	if err = reg.Validate(); err != nil {
		return nil, err
	}
	if _, err = s.users.GetByEmail(ctx, reg.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	now := s.now().UTC()
	u := &domain.User{
		ID:           uuid.New().String(),
		Email:        reg.Email,
		Name:         reg.Name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err = s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return s.issue(ctx, u)
}

// Login never reveals whether the email exists.
func (s *authService) Login(ctx context.Context, email, password string) (res *AuthResult, err error) {
	defer observe(ctx, s.observer, "login", "", nil)(&err)

	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, u)
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	hash := hashToken(token)
	sess, err := s.sessions.GetByTokenHash(ctx, hash)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if sess.Expired(s.now()) {
		_ = s.sessions.DeleteByTokenHash(ctx, hash)
		return nil, fmt.Errorf("%w: session expired", ErrUnauthorized)
	}
	u, err := s.users.GetByID(ctx, sess.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	return u, err
}

// Logout is idempotent; an unknown token is not an error.
func (s *authService) Logout(ctx context.Context, token string) error {
	err := s.sessions.DeleteByTokenHash(ctx, hashToken(token))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

func (s *authService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	return u, err
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.User, error) {
	patch = patch.Normalize()
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	patch.Apply(u)
	u.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (s *authService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, s.now())
}

func (s *authService) issue(ctx context.Context, u *domain.User) (*AuthResult, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}
	token := hex.EncodeToString(raw)
	now := s.now().UTC()
	sess := &domain.AuthSession{
		ID:        uuid.New().String(),
		UserID:    u.ID,
		TokenHash: hashToken(token),
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: sess.ExpiresAt, User: u}, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
