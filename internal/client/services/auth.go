// Package services contains application services for the tasktracker client.
// This file defines the authentication service: signup, login, logout and
// restoring a saved session from the local database.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/tasktracker/internal/client/client"
	"github.com/dmitrijs2005/tasktracker/internal/client/models"
	"github.com/dmitrijs2005/tasktracker/internal/client/repositories/session"
	"github.com/dmitrijs2005/tasktracker/internal/dbx"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Signup / Login: authenticate against the server and persist the session.
//   - Restore: load a previously saved session into the API client.
//   - Logout: forget the session locally (tokens are not revoked server side).
//   - Email: the signed-in email, or "" when signed out.
//   - Ping: check server liveness.
type AuthService interface {
	Signup(ctx context.Context, email string, password []byte) error
	Login(ctx context.Context, email string, password []byte) error
	Restore(ctx context.Context) (bool, error)
	Logout(ctx context.Context) error
	Email() string
	Ping(ctx context.Context) error
}

// authService is the concrete AuthService backed by a remote Client and
// the local session table.
type authService struct {
	client client.Client
	db     *sql.DB

	mu    sync.RWMutex
	email string
}

// NewAuthService constructs an AuthService bound to the given API client and DB.
func NewAuthService(client client.Client, db *sql.DB) AuthService {
	return &authService{client: client, db: db}
}

func (a *authService) getSessionRepo(db dbx.DBTX) session.Repository {
	return session.NewSQLiteRepository(db)
}

func (a *authService) Signup(ctx context.Context, email string, password []byte) error {
	s, err := a.client.Signup(ctx, strings.TrimSpace(email), string(password))
	if err != nil {
		return fmt.Errorf("signup error: %w", err)
	}
	return a.start(ctx, s)
}

func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	s, err := a.client.Login(ctx, strings.TrimSpace(email), string(password))
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	return a.start(ctx, s)
}

// start saves the session (token and email) in a single transaction and
// hands the token to the API client.
func (a *authService) start(ctx context.Context, s *models.Session) error {
	err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.getSessionRepo(tx)
		if err := repo.Set(ctx, session.KeyToken, []byte(s.Token)); err != nil {
			return err
		}
		return repo.Set(ctx, session.KeyEmail, []byte(s.User.Email))
	})
	if err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}

	a.client.SetToken(s.Token)
	a.setEmail(s.User.Email)
	return nil
}

// Restore reports whether a saved session was found. The token is not
// checked with the server here; an expired one surfaces as
// client.ErrUnauthorized on the next task call.
func (a *authService) Restore(ctx context.Context) (bool, error) {
	repo := a.getSessionRepo(a.db)

	token, err := repo.Get(ctx, session.KeyToken)
	if err != nil {
		return false, err
	}
	if len(token) == 0 {
		return false, nil
	}

	email, err := repo.Get(ctx, session.KeyEmail)
	if err != nil {
		return false, err
	}

	a.client.SetToken(string(token))
	a.setEmail(string(email))
	return true, nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.SetToken("")
	a.setEmail("")
	return a.getSessionRepo(a.db).Clear(ctx)
}

func (a *authService) Email() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.email
}

func (a *authService) setEmail(email string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.email = email
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
