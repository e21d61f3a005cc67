package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/poster-parlor-api/internal/domains/users/application/types"
	"github.com/Apurer/poster-parlor-api/internal/domains/users/domain"
	"github.com/Apurer/poster-parlor-api/internal/domains/users/ports"
)

// Service implements registration, login and refresh-session handling.
type Service struct {
	repo     ports.Repository
	sessions ports.SessionStore
	tokens   ports.TokenIssuer
	newID    func() string
	now      func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func NewService(repo ports.Repository, sessions ports.SessionStore, tokens ports.TokenIssuer, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		sessions: sessions,
		tokens:   tokens,
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) Register(ctx context.Context, input types.RegisterInput) (*types.AuthResult, error) {
	user, err := domain.NewUser(s.newID(), input.Email, input.Name, input.Password)
	if err != nil {
		return nil, mapError(err)
	}
	if _, err := s.repo.GetByEmail(ctx, user.Email); err == nil {
		return nil, mapError(ports.ErrDuplicateEmail)
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	user.RecordLogin(s.now())
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return s.startSession(ctx, saved)
}

func (s *Service) Login(ctx context.Context, input types.LoginInput) (*types.AuthResult, error) {
	email := domain.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, unauthorized("invalid email or password")
	}
	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, unauthorized("invalid email or password")
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(input.Password) {
		return nil, unauthorized("invalid email or password")
	}
	if !user.IsActive {
		return nil, unauthorized("account is temporarily disabled")
	}
	user.RecordLogin(s.now())
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return s.startSession(ctx, saved)
}

// Refresh rotates a refresh session: the presented token is consumed and a
// new pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*types.TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, unauthorized("refresh token is required")
	}
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, mapError(err)
	}
	digest := hashToken(refreshToken)
	session, err := s.sessions.Get(ctx, digest)
	if err != nil {
		return nil, mapError(err)
	}
	now := s.now()
	if session.UserID != claims.Subject || session.Expired(now) {
		return nil, unauthorized("refresh session expired")
	}
	user, err := s.activeUser(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Delete(ctx, digest); err != nil {
		return nil, err
	}
	result, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}
	return &result.Tokens, nil
}

func (s *Service) Authenticate(ctx context.Context, accessToken string) (*types.Principal, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, unauthorized("access token is required")
	}
	claims, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		return nil, mapError(err)
	}
	user, err := s.activeUser(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	return &types.Principal{UserID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.activeUser(ctx, userID)
}

// Logout ends every refresh session of the user.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return unauthorized("user is required")
	}
	return s.sessions.DeleteByUser(ctx, userID)
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, mapError(ports.ErrNotFound)
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

// EnsureAdmin creates or promotes the bootstrap administrator account.
func (s *Service) EnsureAdmin(ctx context.Context, email, name, password string) (*domain.User, error) {
	existing, err := s.repo.GetByEmail(ctx, domain.NormalizeEmail(email))
	switch {
	case err == nil:
		if existing.IsAdmin() && existing.IsActive {
			return existing, nil
		}
		existing.Activate()
		if err := existing.SetRole(domain.RoleAdmin); err != nil {
			return nil, mapError(err)
		}
		saved, err := s.repo.Save(ctx, existing)
		return saved, mapError(err)
	case !errors.Is(err, ports.ErrNotFound):
		return nil, err
	}
	user, err := domain.NewUser(s.newID(), email, name, password)
	if err != nil {
		return nil, mapError(err)
	}
	if err := user.SetRole(domain.RoleAdmin); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, user)
	return saved, mapError(err)
}

func (s *Service) activeUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, unauthorized("user no longer exists")
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, unauthorized("account is temporarily disabled")
	}
	return user, nil
}

func (s *Service) startSession(ctx context.Context, user *domain.User) (*types.AuthResult, error) {
	now := s.now()
	tokens, err := s.tokens.Issue(user, now)
	if err != nil {
		return nil, err
	}
	session := ports.Session{
		TokenHash: hashToken(tokens.RefreshToken),
		UserID:    user.ID,
		ExpiresAt: tokens.RefreshExpiresAt,
		CreatedAt: now.UTC(),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return &types.AuthResult{User: user, Tokens: tokens}, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

var _ ports.Service = (*Service)(nil)
