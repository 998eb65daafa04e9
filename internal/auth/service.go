package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/palletline/wms-backend/internal/users"
	pkgauth "github.com/palletline/wms-backend/pkg/auth"
	"github.com/palletline/wms-backend/pkg/config"
	"github.com/palletline/wms-backend/pkg/db/models"
	apperrors "github.com/palletline/wms-backend/pkg/errors"
	"github.com/palletline/wms-backend/pkg/security"
)

// LoginInput carries the credentials presented at login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is the token plus the account it was minted for.
type LoginResult struct {
	AccessToken string
	User        *models.User
}

// Service defines credential verification and session lifecycle.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, accessID string) error
}

// SessionManager is the session surface login and logout need.
type SessionManager interface {
	Open(ctx context.Context, accessID, userID string) error
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	repo     users.Repository
	sessions SessionManager
	jwt      config.JWTConfig
}

// NewService wires the auth service.
func NewService(repo users.Repository, sessions SessionManager, jwt config.JWTConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	return &service{repo: repo, sessions: sessions, jwt: jwt}, nil
}

// Login verifies credentials, mints an access token, and opens a session so
// the token can be revoked before expiry. Bad email and bad password produce
// the same error.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if err == users.ErrNotFound {
			return nil, apperrors.New(apperrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "loading user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "invalid email or password")
	}

	jti := uuid.NewString()
	token, err := pkgauth.MintAccessToken(s.jwt, time.Now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		Name:   user.Name,
		Email:  user.Email,
		JTI:    jti,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "minting access token")
	}

	if err := s.sessions.Open(ctx, jti, user.ID.String()); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "opening session")
	}

	return &LoginResult{AccessToken: token, User: user}, nil
}

// Logout revokes the session behind the access token.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "revoking session")
	}
	return nil
}
