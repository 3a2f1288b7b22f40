package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/tasktracker/internal/client/client"
	"github.com/dmitrijs2005/tasktracker/internal/client/models"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func getSession(t *testing.T, db *sql.DB, k string) []byte {
	t.Helper()
	var v []byte
	err := db.QueryRow(`SELECT value FROM session WHERE key=?`, k).Scan(&v)
	if err == sql.ErrNoRows {
		return nil
	}
	require.NoError(t, err)
	return v
}

// ---- fake client ----

type fakeClient struct {
	SignupRet *models.Session
	SignupErr error
	LoginRet  *models.Session
	LoginErr  error
	PingErr   error

	Tasks     []*models.Task
	ListErr   error
	CreateErr error
	UpdateRet *models.Task
	UpdateErr error
	DeleteErr error

	Token string

	LastEmail    string
	LastPassword string
	LastText     string
	LastID       string
	LastPatch    models.TaskPatch
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Signup(_ context.Context, email, password string) (*models.Session, error) {
	f.LastEmail, f.LastPassword = email, password
	return f.SignupRet, f.SignupErr
}

func (f *fakeClient) Login(_ context.Context, email, password string) (*models.Session, error) {
	f.LastEmail, f.LastPassword = email, password
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

func (f *fakeClient) SetToken(token string) { f.Token = token }

func (f *fakeClient) ListTasks(context.Context) ([]*models.Task, error) {
	return f.Tasks, f.ListErr
}

func (f *fakeClient) CreateTask(_ context.Context, text string) (*models.Task, error) {
	f.LastText = text
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	return &models.Task{ID: "new", Text: text}, nil
}

func (f *fakeClient) UpdateTask(_ context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	f.LastID, f.LastPatch = id, patch
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeClient) DeleteTask(_ context.Context, id string) error {
	f.LastID = id
	return f.DeleteErr
}
