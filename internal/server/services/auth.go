// Package services contains server-side business logic. This file implements
// AuthService: signup, login and session token verification.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/cryptox"
	"github.com/dmitrijs2005/tasktracker/internal/server/auth"
	"github.com/dmitrijs2005/tasktracker/internal/server/config"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// AuthResult is returned by Signup and Login: a fresh session token and the
// client-safe view of the user it was issued to.
type AuthResult struct {
	Token string
	User  models.PublicUser
}

// AuthService provides authentication-related operations:
// - Signup: create users
// - Login: verify credentials and mint tokens
// - VerifyToken: resolve a bearer token to the calling identity
type AuthService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	bcryptCost            int

	// dummyHash is compared against on unknown emails
	dummyHash string
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		bcryptCost:            cfg.BcryptCost,
		dummyHash:             makeDummyHash(cfg.BcryptCost),
	}
}

// Signup registers a new identity and returns a session token for it.
//
// Both fields are required (common.ErrorValidation). A password bcrypt
// cannot hash is a validation error carrying cryptox.ErrPasswordTooLong.
// The email is matched and stored lowercased; an existing email yields
// common.ErrorAlreadyExists.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.ErrorValidation
	}
	if len(password) > cryptox.MaxPasswordLength {
		return nil, fmt.Errorf("%w: %w", common.ErrorValidation, cryptox.ErrPasswordTooLong)
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrorAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, internal(err)
	}

	hash, err := cryptox.HashPassword([]byte(password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %w", common.ErrorValidation, err)
		}
		return nil, internal(err)
	}

	user, err := repo.Create(ctx, &models.User{ID: uuid.NewString(), Email: email, PasswordHash: hash})
	if err != nil {
		// lost a race with a concurrent signup for the same email
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, internal(err)
	}

	return s.issue(user)
}

// Login verifies credentials and returns a new session token. An unknown
// email and a wrong password both yield common.ErrorUnauthorized, and both
// pay for one bcrypt comparison.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.ErrorValidation
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = cryptox.ComparePassword(s.dummyHash, []byte(password))
			return nil, common.ErrorUnauthorized
		}
		return nil, internal(err)
	}

	if err := cryptox.ComparePassword(user.PasswordHash, []byte(password)); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return nil, common.ErrorUnauthorized
		}
		return nil, internal(err)
	}

	return s.issue(user)
}

// VerifyToken checks signature and expiry of a bearer token and returns the
// identity it was issued to. Every failure matches common.ErrorUnauthorized;
// the underlying common.ErrInvalidToken or common.ErrTokenExpired is kept in
// the chain.
func (s *AuthService) VerifyToken(token string) (*models.Identity, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}
	return &models.Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

// --- helpers below ---

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, internal(err)
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}

// makeDummyHash hashes a random password at the configured cost so that
// logins for unknown emails pay for the same comparison as real ones.
func makeDummyHash(cost int) string {
	pw, err := common.MakeRandHexString(16)
	if err != nil {
		pw = "dummy-password"
	}
	hash, _ := cryptox.HashPassword([]byte(pw), cost)
	return hash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// internal tags err as common.ErrorInternal while keeping its text for logs.
func internal(err error) error {
	return fmt.Errorf("%w: %v", common.ErrorInternal, err)
}
