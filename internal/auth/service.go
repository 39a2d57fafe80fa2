package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"bookscanner/internal/user"
)

// ErrUnauthorized is returned by Verify for any token that must not be accepted.
var ErrUnauthorized = errors.New("unauthorized")

type Service struct {
	secret   string
	tokenTTL time.Duration
	users    *user.Service
	revoker  Revoker
	validate *validator.Validate
	logger   *zap.Logger
}

func NewService(secret string, tokenTTL time.Duration, users *user.Service, revoker Revoker, logger *zap.Logger) *Service {
	return &Service{
		secret:   secret,
		tokenTTL: tokenTTL,
		users:    users,
		revoker:  revoker,
		validate: validator.New(),
		logger:   logger,
	}
}

// Session is the result of a successful register or sign-in.
type Session struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Username        string
}

func (s *Service) checkEmail(email string) error {
	if email == "" {
		return ErrMissingEmail
	}
	if s.validate.Var(email, "email") != nil {
		return ErrInvalidEmail
	}
	return nil
}

// Register creates the user and its profile record and signs it in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	email := user.NormalizeEmail(in.Email)
	if err := s.checkEmail(email); err != nil {
		return Session{}, err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return Session{}, err
	}
	if in.Password != in.ConfirmPassword {
		return Session{}, ErrPasswordMismatch
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		username, _, _ = strings.Cut(email, "@")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, email, username, hash)
	if err != nil {
		if errors.Is(err, user.ErrAlreadyExists) {
			return Session{}, ErrEmailInUse
		}
		return Session{}, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("user registered", zap.String("user_id", u.ID))
	return s.issue(u.ID)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = user.NormalizeEmail(email)
	if err := s.checkEmail(email); err != nil {
		return Session{}, err
	}
	if password == "" {
		return Session{}, ErrMissingPassword
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Session{}, ErrUserNotFound
		}
		return Session{}, fmt.Errorf("load user: %w", err)
	}
	if u.Disabled {
		return Session{}, ErrUserDisabled
	}
	if err := CheckPassword(u.PasswordHash, password); err != nil {
		return Session{}, err
	}
	return s.issue(u.ID)
}

func (s *Service) issue(userID string) (Session, error) {
	token, _, err := GenerateToken(s.secret, userID, s.tokenTTL)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{
		UserID:      userID,
		AccessToken: token,
		ExpiresIn:   int(s.tokenTTL.Seconds()),
	}, nil
}

// SignOut revokes token until it expires. Signing out an invalid token is
// reported as ErrUnauthorized.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return ErrUnauthorized
	}

	until := time.Now().Add(s.tokenTTL)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.revoker.Revoke(ctx, claims.ID, until); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Info("user signed out", zap.String("user_id", claims.Subject))
	return nil
}

// Verify implements httpx.TokenVerifier.
func (s *Service) Verify(ctx context.Context, token string) (string, string, error) {
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return "", "", ErrUnauthorized
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Warn("revocation check failed", zap.Error(err))
		return "", "", ErrUnauthorized
	}
	if revoked {
		return "", "", ErrUnauthorized
	}
	return claims.Subject, claims.ID, nil
}
