package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/tasktracker/internal/client/client"
	"github.com/dmitrijs2005/tasktracker/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_LoginPersistsSession(t *testing.T) {
	db := setupDB(t)
	fc := &fakeClient{LoginRet: &models.Session{Token: "tok", User: models.User{ID: "u1", Email: "a@x.com"}}}
	svc := NewAuthService(fc, db)
	ctx := context.Background()

	require.NoError(t, svc.Login(ctx, " a@x.com ", []byte("pw1")))

	assert.Equal(t, "a@x.com", fc.LastEmail)
	assert.Equal(t, "pw1", fc.LastPassword)
	assert.Equal(t, "tok", fc.Token)
	assert.Equal(t, "a@x.com", svc.Email())
	assert.Equal(t, []byte("tok"), getSession(t, db, "token"))
	assert.Equal(t, []byte("a@x.com"), getSession(t, db, "email"))
}

func TestAuthService_SignupPersistsSession(t *testing.T) {
	db := setupDB(t)
	fc := &fakeClient{SignupRet: &models.Session{Token: "tok2", User: models.User{ID: "u2", Email: "b@x.com"}}}
	svc := NewAuthService(fc, db)

	require.NoError(t, svc.Signup(context.Background(), "b@x.com", []byte("pw")))
	assert.Equal(t, "tok2", fc.Token)
	assert.Equal(t, []byte("tok2"), getSession(t, db, "token"))
}

func TestAuthService_FailureLeavesNoSession(t *testing.T) {
	db := setupDB(t)
	fc := &fakeClient{
		LoginErr:  fmt.Errorf("%w: Invalid email or password.", client.ErrRejected),
		SignupErr: fmt.Errorf("%w: User already exists with this email.", client.ErrRejected),
	}
	svc := NewAuthService(fc, db)
	ctx := context.Background()

	err := svc.Login(ctx, "a@x.com", []byte("bad"))
	assert.ErrorIs(t, err, client.ErrRejected)

	err = svc.Signup(ctx, "a@x.com", []byte("pw"))
	assert.ErrorIs(t, err, client.ErrRejected)

	assert.Empty(t, fc.Token)
	assert.Empty(t, svc.Email())
	assert.Nil(t, getSession(t, db, "token"))
}

func TestAuthService_RestoreAndLogout(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	first := &fakeClient{LoginRet: &models.Session{Token: "tok", User: models.User{Email: "a@x.com"}}}
	require.NoError(t, NewAuthService(first, db).Login(ctx, "a@x.com", []byte("pw")))

	// a new process picks the session up from disk
	fc := &fakeClient{}
	svc := NewAuthService(fc, db)

	ok, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", fc.Token)
	assert.Equal(t, "a@x.com", svc.Email())

	require.NoError(t, svc.Logout(ctx))
	assert.Empty(t, fc.Token)
	assert.Empty(t, svc.Email())
	assert.Nil(t, getSession(t, db, "token"))

	ok, err = svc.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthService_SaveErrorIsReported(t *testing.T) {
	db := setupDB(t)
	fc := &fakeClient{LoginRet: &models.Session{Token: "tok", User: models.User{Email: "a@x.com"}}}
	svc := NewAuthService(fc, db)

	require.NoError(t, db.Close())

	err := svc.Login(context.Background(), "a@x.com", []byte("pw"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session saving error")
	assert.Empty(t, fc.Token)
}

func TestAuthService_Ping(t *testing.T) {
	db := setupDB(t)
	fc := &fakeClient{PingErr: client.ErrUnavailable}
	svc := NewAuthService(fc, db)

	assert.True(t, errors.Is(svc.Ping(context.Background()), client.ErrUnavailable))
}
