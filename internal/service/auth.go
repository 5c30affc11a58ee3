package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/crucial707/trade-journal/internal/metrics"
	"github.com/crucial707/trade-journal/internal/models"
	"github.com/crucial707/trade-journal/internal/repo"
	"github.com/rs/zerolog"
)

// AuthService registers and authenticates users. Password hashes arrive
// pre-hashed from the client and are compared verbatim.
type AuthService struct {
	Users UserStore
	Log   zerolog.Logger
}

func NewAuthService(users UserStore, log zerolog.Logger) *AuthService {
	return &AuthService{Users: users, Log: log.With().Str("component", "auth").Logger()}
}

// Register creates a user, or returns ErrEmailTaken if the email exists.
func (s *AuthService) Register(ctx context.Context, email, passwordHash string) (*models.User, error) {
	exists, err := s.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, s.rejectDuplicate(email)
	}

	user, err := s.Users.Create(ctx, email, passwordHash)
	if errors.Is(err, repo.ErrDuplicate) {
		// lost a race with a concurrent registration
		return nil, s.rejectDuplicate(email)
	}
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.IncAuthAttempt("register", "success")
	s.Log.Info().Str("email", email).Int64("user_id", user.ID).Msg("new user registered")
	return user, nil
}

func (s *AuthService) rejectDuplicate(email string) error {
	metrics.IncAuthAttempt("register", "conflict")
	s.Log.Warn().Str("email", email).Msg("registration attempt with existing email")
	return ErrEmailTaken
}

// Login returns the user matching exactly (email, passwordHash), else ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, passwordHash string) (*models.User, error) {
	user, err := s.Users.GetByCredentials(ctx, email, passwordHash)
	if errors.Is(err, repo.ErrNotFound) {
		metrics.IncAuthAttempt("login", "failure")
		s.Log.Warn().Str("email", email).Msg("failed login attempt")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.IncAuthAttempt("login", "success")
	s.Log.Info().Str("email", email).Msg("successful login")
	return user, nil
}

func (s *AuthService) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.Users.ExistsByEmail(ctx, email)
}
