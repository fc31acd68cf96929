package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Manoj5621/Fashion-virtual/internal/config"
	"github.com/Manoj5621/Fashion-virtual/internal/ids"
	"github.com/Manoj5621/Fashion-virtual/internal/models"
	"github.com/Manoj5621/Fashion-virtual/internal/repository"
	"github.com/Manoj5621/Fashion-virtual/internal/security"
)

type AuthService struct {
	users    UserStore
	sessions SessionStore
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewAuthService(users UserStore, sessions SessionStore, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		log:      log,
	}
}

type AuthResult struct {
	AccessToken string
	User        models.User
}

func (s *AuthService) Register(ctx context.Context, username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, errors.New("username and password required")
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return models.User{}, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, err
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.users.Create(ctx, models.User{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         models.RoleStandard,
	})
	if err != nil {
		return models.User{}, err
	}

	s.log.Info().Str("username", user.Username).Msg("user registered")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (AuthResult, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	session := models.Session{
		ID:        ids.New(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.cfg.Security.JWTAccessTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return AuthResult{}, err
	}

	token, err := security.GenerateAccessToken(
		s.cfg.Security.JWTSecret,
		user.ID,
		session.ID,
		user.Username,
		user.Role,
		s.cfg.Security.JWTAccessTTL,
	)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{
		AccessToken: token,
		User:        user,
	}, nil
}
